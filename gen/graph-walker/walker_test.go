package walker

import (
	"context"
	"testing"

	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/catalog"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectedGraphCounts(t *testing.T) {
	expected := []int{1, 1, 2, 6, 21, 112}

	res, err := Generate(context.Background(), EnumOpts{
		TargetOrder: 6,
	})
	require.NoError(t, err)
	require.Len(t, res.Levels, 6)
	for i, stats := range res.Levels {
		assert.Equal(t, i+1, stats.Order)
		assert.Equal(t, expected[i], stats.Classes, "order %d", i+1)
	}
	assert.Len(t, res.Graphs, 112)
	for _, g := range res.Graphs {
		assert.Equal(t, 6, g.Order())
		assert.True(t, g.IsConnected())
	}
}

func TestInvalidTarget(t *testing.T) {
	_, err := Generate(context.Background(), EnumOpts{TargetOrder: 0})
	require.True(t, errors.Is(err, graph.ErrInvalidSize))

	_, err = Enumerate(EnumOpts{TargetOrder: graph.MaxOrder + 1})
	require.True(t, errors.Is(err, graph.ErrInvalidSize))

	res, err := Generate(context.Background(), EnumOpts{TargetOrder: 1})
	require.NoError(t, err)
	require.Len(t, res.Graphs, 1)
	assert.Equal(t, 1, res.Graphs[0].Order())
}

// bruteForceClasses counts classes of connected order-n graphs accepted by f over every labeled graph.
func bruteForceClasses(n int, f filter.Filter) int {
	var pairs [][2]int
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			pairs = append(pairs, [2]int{u, v})
		}
	}
	classes := catalog.NewClassSet(catalog.ClassSetOpts{})
	for edges := 0; edges < 1<<uint(len(pairs)); edges++ {
		g := graph.MustNew(n)
		for i, p := range pairs {
			if edges&(1<<uint(i)) != 0 {
				g.AddEdge(p[0], p[1])
			}
		}
		if g.IsConnected() && filter.IsAcceptable(f, g) {
			classes.TryAddGraph(g)
		}
	}
	return classes.Len()
}

func TestFilteredCountsMatchBruteForce(t *testing.T) {
	for _, f := range []filter.Filter{
		filter.DiamondFree{},
		filter.Girth{K: 4},
		filter.Girth{K: 5},
		filter.All(filter.DiamondFree{}, filter.Girth{K: 4}),
	} {
		res, err := Generate(context.Background(), EnumOpts{
			TargetOrder: 6,
			Filter:      f,
		})
		require.NoError(t, err)
		for _, stats := range res.Levels {
			if stats.Order < 2 {
				continue
			}
			assert.Equal(t, bruteForceClasses(stats.Order, f), stats.Classes, "%s order %d", f.Name(), stats.Order)
		}
		for _, g := range res.Graphs {
			assert.True(t, filter.IsAcceptable(f, g))
		}
	}
}

func TestWorkersAreDeterministic(t *testing.T) {
	serial, err := Generate(context.Background(), EnumOpts{TargetOrder: 6})
	require.NoError(t, err)

	parallel, err := Generate(context.Background(), EnumOpts{TargetOrder: 6, Workers: 4})
	require.NoError(t, err)

	require.Len(t, parallel.Graphs, len(serial.Graphs))
	for i := range serial.Graphs {
		assert.True(t, serial.Graphs[i].Equal(parallel.Graphs[i]), "graph #%d", i)
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, EnumOpts{TargetOrder: 5})
	require.ErrorIs(t, err, context.Canceled)
}

func TestObserver(t *testing.T) {
	var levels []LevelStats
	_, err := Generate(context.Background(), EnumOpts{
		TargetOrder: 5,
		Observer: ObserverFunc(func(stats LevelStats) {
			levels = append(levels, stats)
		}),
	})
	require.NoError(t, err)
	require.Len(t, levels, 5)

	// order 3 from K2: all three non-empty subsets of K2 are safe
	assert.Equal(t, 1, levels[2].Sources)
	assert.Equal(t, 3, levels[2].UpperObjects)
	for _, stats := range levels[1:] {
		assert.LessOrEqual(t, stats.Classes, stats.Canonical)
		assert.LessOrEqual(t, stats.Canonical, stats.UpperObjects)
	}
}

func TestEnumerate(t *testing.T) {
	stream, err := Enumerate(EnumOpts{TargetOrder: 5})
	require.NoError(t, err)
	assert.Equal(t, 21, stream.PullAll())
}

func TestUpperAndLowerObjects(t *testing.T) {
	empty3 := graph.MustNew(3)
	assert.Len(t, UpperObjects(empty3, filter.AcceptAll{}), 7)

	tri := graph.MustFromAdjMatrix("011", "101", "110")
	assert.Len(t, UpperObjects(tri, filter.AcceptAll{}), 7)
	uppers := UpperObjects(tri, filter.DiamondFree{})
	require.Len(t, uppers, 3)
	for i, h := range uppers {
		assert.Equal(t, 4, h.Order())
		assert.Equal(t, []int{i}, []int(h.Neighbors(3)))
	}

	lowers := LowerObjects(uppers[0])
	require.Len(t, lowers, 4)
	assert.True(t, lowers[3].Equal(tri))
	for _, lower := range lowers {
		assert.Equal(t, 3, lower.Order())
	}
}

func TestCanonicalAugmentation(t *testing.T) {
	oracle := canon.New()
	path := graph.MustFromAdjMatrix("010", "101", "010")

	// Some extension of the path P3 is canonical
	accepted := catalog.NewClassSet(catalog.ClassSetOpts{})
	for _, h := range UpperObjects(path, filter.AcceptAll{}) {
		if IsCanonicalAugmentation(h, path, oracle) {
			accepted.TryAddGraph(h)
		}
	}
	assert.Positive(t, accepted.Len())

	// A triangle plus pendant vertex never reduces to an edgeless graph
	paw := graph.MustFromAdjMatrix("0111", "1010", "1100", "1000")
	assert.False(t, IsCanonicalAugmentation(paw, graph.MustNew(3), oracle))
	assert.False(t, IsCanonicalAugmentation(paw, paw, oracle))

	// Star K1,3: the designated vertex is never the center, since removing it disconnects
	star := graph.MustFromAdjMatrix("0111", "1000", "1000", "1000")
	assert.True(t, IsCanonicalAugmentation(star, path, oracle))
}

func TestLevelDedupIsIdempotent(t *testing.T) {
	res, err := Generate(context.Background(), EnumOpts{TargetOrder: 5})
	require.NoError(t, err)

	level := catalog.NewClassSet(catalog.ClassSetOpts{})
	for _, g := range res.Graphs {
		require.True(t, level.TryAddGraph(g))
	}
	for _, g := range res.Graphs {
		assert.False(t, level.TryAddGraph(g))
	}
	assert.Equal(t, len(res.Graphs), level.Len())
}
