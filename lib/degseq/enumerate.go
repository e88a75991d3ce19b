package degseq

import (
	"context"
	"sync"

	"github.com/fine-structures/orderly/lib/graph"
	"github.com/fine-structures/orderly/orderly"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// EnumerateAll realizes every graphical degree sequence of length n and offers each realization to sink.
//
// Graphs with different degree sequences are never isomorphic, so a sink that drops isomorphic
// duplicates (such as a catalog.ClassSet) ends up with one graph per class of order n.
// Sequences are realized concurrently, so sink must be safe for concurrent use when opts.Workers > 1.
func EnumerateAll(ctx context.Context, n int, opts Opts, sink orderly.GraphAdder) (Stats, error) {
	total := Stats{}
	if n < 1 || n > graph.MaxOrder {
		return total, errors.Wrapf(graph.ErrInvalidSize, "order %d", n)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	gen := NewGenerator(opts)

	var mu sync.Mutex
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(opts.Workers)

	for _, seq := range GenerateAllDegreeSequences(n) {
		if err := grpCtx.Err(); err != nil {
			break
		}

		// A vertex of degree 0 rules out a connected realization
		if opts.ConnectedOnly && n > 1 && seq[n-1] == 0 {
			mu.Lock()
			total.Sequences++
			mu.Unlock()
			continue
		}

		seq := seq
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			stats, err := gen.Generate(seq, sink)
			if err != nil {
				return err
			}
			if stats.Graphical > 0 {
				klog.V(2).Infof("%v: %d generated, %d accepted, %d unique", seq, stats.Generated, stats.Accepted, stats.Unique)
			}

			mu.Lock()
			total.add(stats)
			mu.Unlock()
			return nil
		})
	}

	err := grp.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return total, err
	}

	klog.V(1).Infof("order %2d: %d sequences, %d graphical, %d generated, %d accepted, %d unique",
		n, total.Sequences, total.Graphical, total.Generated, total.Accepted, total.Unique)
	return total, nil
}
