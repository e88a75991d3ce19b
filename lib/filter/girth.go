package filter

import (
	"math/bits"
	"strconv"

	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
)

// Girth accepts graphs whose shortest cycle has length at least K (acyclic graphs always pass).
type Girth struct {
	K int
}

var _ Filter = Girth{}

// NewGirth returns a filter rejecting every cycle shorter than k.
func NewGirth(k int) (Girth, error) {
	if k < 3 {
		return Girth{}, errors.Wrapf(graph.ErrInvalidArgument, "girth %d < 3", k)
	}
	return Girth{K: k}, nil
}

func (f Girth) Name() string {
	return "girth(" + strconv.Itoa(f.K) + ")"
}

// IsSubsetSafe attaches a temporary vertex to W and walks from it.
func (f Girth) IsSubsetSafe(g *graph.Graph, W graph.VertexSubset) bool {
	upper, err := g.ExtendWith(W)
	if err != nil {
		return false
	}
	return !hasShortWalkBack(upper, upper.Order()-1, f.K)
}

func (f Girth) IsNewGraphAcceptable(cur int, g *graph.Graph) bool {
	return !hasShortWalkBack(g, cur, f.K)
}

// AreNewEdgesAcceptable walks from cur since every new cycle passes through cur.
func (f Girth) AreNewEdgesAcceptable(cur int, newAdj graph.VertexSubset, g *graph.Graph) bool {
	if len(newAdj) == 0 {
		return true
	}
	return !hasShortWalkBack(g, cur, f.K)
}

// hasShortWalkBack layers non-backtracking walks leaving src and reports if one returns to src
// with a length in [3, k-1].
//
// Such a closed walk always contains a cycle no longer than itself, and every cycle through src
// shorter than k is found this way.
func hasShortWalkBack(g *graph.Graph, src, k int) bool {
	n := g.Order()

	// layer[v] has bit p set for each walk state "at v, arrived from p"
	layer := make([]uint64, n)
	next := make([]uint64, n)
	layer[src] = 1 << uint(src)

	for depth := 1; depth < k; depth++ {
		for vi, from := range layer {
			if from == 0 {
				continue
			}
			for m := g.Row(vi) &^ (1 << uint(vi)); m != 0; m &= m - 1 {
				vj := bits.TrailingZeros64(m)

				// A step to vj is non-backtracking if some arrival at vi came from elsewhere
				if from&^(1<<uint(vj)) == 0 {
					continue
				}
				if vj == src && depth > 2 {
					return true
				}
				next[vj] |= 1 << uint(vi)
			}
		}
		layer, next = next, layer
		for i := range next {
			next[i] = 0
		}
	}
	return false
}

// ShortestCycle returns the girth of g, or 0 if g is acyclic.
func ShortestCycle(g *graph.Graph) int {
	n := g.Order()
	girth := 0
	dist := make([]int, n)
	parent := make([]int, n)
	queue := make([]int, 0, n)

	for src := 0; src < n; src++ {
		for i := range dist {
			dist[i] = -1
		}
		dist[src] = 0
		parent[src] = -1
		queue = append(queue[:0], src)

		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for m := g.Row(u) &^ (1 << uint(u)); m != 0; m &= m - 1 {
				w := bits.TrailingZeros64(m)
				if dist[w] < 0 {
					dist[w] = dist[u] + 1
					parent[w] = u
					queue = append(queue, w)
				} else if parent[u] != w {
					cycle := dist[u] + dist[w] + 1
					if girth == 0 || cycle < girth {
						girth = cycle
					}
				}
			}
		}
	}
	return girth
}
