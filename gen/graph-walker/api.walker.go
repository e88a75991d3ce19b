package walker

import (
	"context"
	"time"

	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/fine-structures/orderly/orderly"
)

// Generate returns one representative of every isomorphism class of connected graphs of order opts.TargetOrder accepted by opts.Filter.
//
// Graphs are grown one vertex at a time from K1, and a level is complete before the next one starts.
func Generate(ctx context.Context, opts EnumOpts) (*Result, error) {
	gw, err := newGraphWalker(opts)
	if err != nil {
		return nil, err
	}
	return gw.generate(ctx)
}

// Enumerate is Generate that streams the final level.  Generation errors are logged and end the stream.
func Enumerate(opts EnumOpts) (*orderly.GraphStream, error) {
	gw, err := newGraphWalker(opts)
	if err != nil {
		return nil, err
	}

	stream := orderly.NewGraphStream()
	go func() {
		defer stream.Close()
		res, err := gw.generate(context.Background())
		if err != nil {
			gw.warnf("enumerate: %v", err)
			return
		}
		for _, X := range res.Graphs {
			stream.Outlet <- X
		}
	}()
	return stream, nil
}

// EnumOpts specifies params for Generate and Enumerate.
type EnumOpts struct {
	TargetOrder int           // order of the graphs to generate (>= 1)
	Filter      filter.Filter // nil denotes filter.AcceptAll
	Oracle      canon.Oracle  // nil denotes canon.New()
	Workers     int           // number of source graphs expanded concurrently (<= 1 denotes 1)
	Observer    Observer      // if set, receives the stats of each completed level
}

// LevelStats describes one completed level.
type LevelStats struct {
	Order        int           // order of the graphs in this level
	Sources      int           // graphs of the previous level that were extended
	UpperObjects int           // subset-safe extensions of all sources
	Canonical    int           // upper objects passing the canonical augmentation check
	Classes      int           // isomorphism classes retained
	Elapsed      time.Duration // time to complete this level
}

// Observer receives progress as levels complete.
type Observer interface {
	OnLevel(stats LevelStats)
}

// ObserverFunc adapts a func to an Observer.
type ObserverFunc func(stats LevelStats)

func (fn ObserverFunc) OnLevel(stats LevelStats) {
	fn(stats)
}

// Result is the outcome of Generate.
type Result struct {
	Graphs []*graph.Graph // one per class, in the order first discovered
	Levels []LevelStats   // Levels[i] describes order i+1
}
