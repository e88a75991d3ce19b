package walker

import (
	"context"
	"time"

	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/catalog"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

type graphWalker struct {
	opts EnumOpts

	walkingOrder int            // order of the graphs in walking
	walking      []*graph.Graph // level being extended
	deferred     *catalog.ClassSet
}

func newGraphWalker(opts EnumOpts) (*graphWalker, error) {
	if opts.TargetOrder < 1 || opts.TargetOrder > graph.MaxOrder {
		return nil, errors.Wrapf(graph.ErrInvalidSize, "target order %d", opts.TargetOrder)
	}
	if opts.Filter == nil {
		opts.Filter = filter.AcceptAll{}
	}
	if opts.Oracle == nil {
		opts.Oracle = canon.New()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &graphWalker{
		opts: opts,
	}, nil
}

func (gw *graphWalker) warnf(format string, args ...any) {
	klog.Warningf("walker (%s, n=%d): "+format, append([]any{gw.opts.Filter.Name(), gw.opts.TargetOrder}, args...)...)
}

func (gw *graphWalker) generate(ctx context.Context) (*Result, error) {
	res := &Result{}

	// base case: K1
	gw.walkingOrder = 1
	gw.walking = []*graph.Graph{graph.MustNew(1)}
	gw.emitLevel(res, LevelStats{
		Order:   1,
		Classes: 1,
	})

	for gw.walkingOrder < gw.opts.TargetOrder {
		if err := gw.walkNextLevel(ctx, res); err != nil {
			return nil, err
		}
	}

	res.Graphs = gw.walking
	return res, nil
}

// walkNextLevel extends every graph in the walking level, then promotes the deferred classes to be walked.
func (gw *graphWalker) walkNextLevel(ctx context.Context, res *Result) error {
	start := time.Now()
	sources := gw.walking

	stats := LevelStats{
		Order:   gw.walkingOrder + 1,
		Sources: len(sources),
	}

	// Each source is expanded independently; the merge below is the only writer of deferred.
	type expansion struct {
		upperCount int
		canonical  []*graph.Graph
	}
	expanded := make([]expansion, len(sources))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(gw.opts.Workers)
	for i, src := range sources {
		i, src := i, src
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			uppers := UpperObjects(src, gw.opts.Filter)
			exp := expansion{
				upperCount: len(uppers),
			}
			for _, h := range uppers {
				if IsCanonicalAugmentation(h, src, gw.opts.Oracle) {
					exp.canonical = append(exp.canonical, h)
				}
			}
			expanded[i] = exp
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	gw.deferred = catalog.NewClassSet(catalog.ClassSetOpts{
		Oracle: gw.opts.Oracle,
	})
	for _, exp := range expanded {
		stats.UpperObjects += exp.upperCount
		stats.Canonical += len(exp.canonical)
		for _, h := range exp.canonical {
			gw.deferred.TryAddGraph(h)
		}
	}

	gw.walkingOrder++
	gw.walking = gw.deferred.Graphs()
	gw.deferred = nil

	stats.Classes = len(gw.walking)
	stats.Elapsed = time.Since(start)
	gw.emitLevel(res, stats)
	return nil
}

func (gw *graphWalker) emitLevel(res *Result, stats LevelStats) {
	res.Levels = append(res.Levels, stats)
	klog.V(1).Infof("order %2d: %8d sources -> %10d upper objects -> %8d canonical -> %8d classes  (%v)",
		stats.Order, stats.Sources, stats.UpperObjects, stats.Canonical, stats.Classes, stats.Elapsed)
	if gw.opts.Observer != nil {
		gw.opts.Observer.OnLevel(stats)
	}
}

// UpperObjects returns g extended by a new vertex joined to each non-empty subset W of g's vertices where f.IsSubsetSafe(g, W).
//
// Subsets are visited by bitmask from 1 to 2^n-1.
func UpperObjects(g *graph.Graph, f filter.SubsetFilter) []*graph.Graph {
	n := g.Order()
	var uppers []*graph.Graph
	for mask := uint64(1); mask < uint64(1)<<uint(n); mask++ {
		if !f.IsSubsetSafe(g, graph.SubsetFromMask(mask)) {
			continue
		}
		h, err := g.ExtendWithMask(mask)
		if err != nil {
			panic(err)
		}
		uppers = append(uppers, h)
	}
	return uppers
}

// LowerObjects returns h with each vertex removed in turn, in increasing vertex order.
func LowerObjects(h *graph.Graph) []*graph.Graph {
	lowers := make([]*graph.Graph, h.Order())
	for vi := range lowers {
		lower, err := h.ReduceByRemovingVertex(vi)
		if err != nil {
			panic(err)
		}
		lowers[vi] = lower
	}
	return lowers
}

// IsCanonicalAugmentation returns true if removing the designated vertex of h leaves a graph isomorphic to g.
//
// The designated vertex is the first vertex in canonical order whose removal leaves h connected
// (for a connected h this is canonical position 0 unless that vertex is a cut vertex).
func IsCanonicalAugmentation(h, g *graph.Graph, oracle canon.Oracle) bool {
	if h.Order() != g.Order()+1 {
		return false
	}
	lab := oracle.CanonicalLabeling(h)
	lower, err := h.ReduceByRemovingVertex(designatedVertex(h, lab))
	if err != nil {
		panic(err)
	}
	return oracle.AreIsomorphic(lower, g)
}

func designatedVertex(h *graph.Graph, lab canon.Labeling) int {
	for _, vi := range lab {
		lower, err := h.ReduceByRemovingVertex(vi)
		if err != nil {
			panic(err)
		}
		if lower.IsConnected() {
			return vi
		}
	}
	return lab[0]
}
