package filter

import (
	"math/bits"

	"github.com/fine-structures/orderly/lib/graph"
)

// DiamondFree accepts graphs where no 4 vertices span 5 or more of their 6 possible edges.
type DiamondFree struct{}

var _ Filter = DiamondFree{}

func (DiamondFree) Name() string {
	return "diamondfree"
}

// IsSubsetSafe reports if a new vertex x joined to W avoids a diamond.
//
// A diamond through x either has x adjacent to three vertices of W spanning 2+ edges,
// or x adjacent to two adjacent vertices of W that share a third neighbor.
func (DiamondFree) IsSubsetSafe(g *graph.Graph, W graph.VertexSubset) bool {
	mask := W.Mask()
	for i, a := range W {
		rowA := g.Row(a)
		if bits.OnesCount64(rowA&mask) >= 2 {
			return false
		}
		for _, b := range W[i+1:] {
			if rowA&(1<<uint(b)) != 0 && rowA&g.Row(b) != 0 {
				return false
			}
		}
	}
	return true
}

func (DiamondFree) IsNewGraphAcceptable(cur int, g *graph.Graph) bool {
	n := g.Order()
	for a := n - 1; a >= 0; a-- {
		if a == cur {
			continue
		}
		for b := a - 1; b >= 0; b-- {
			if b == cur {
				continue
			}
			for c := b - 1; c >= 0; c-- {
				if c == cur {
					continue
				}
				if quadEdgeCount(g, cur, a, b, c) > 4 {
					return false
				}
			}
		}
	}
	return true
}

func (DiamondFree) AreNewEdgesAcceptable(cur int, newAdj graph.VertexSubset, g *graph.Graph) bool {
	n := g.Order()
	for _, a := range newAdj {
		for b := n - 1; b >= 0; b-- {
			if b == cur || b == a {
				continue
			}
			for c := b - 1; c >= 0; c-- {
				if c == cur || c == a {
					continue
				}
				if quadEdgeCount(g, cur, a, b, c) > 4 {
					return false
				}
			}
		}
	}
	return true
}

// quadEdgeCount returns how many of the 6 possible edges among 4 distinct vertices are present.
func quadEdgeCount(g *graph.Graph, a, b, c, d int) int {
	count := 0
	count += bits.OnesCount64(g.Row(a) & (1<<uint(b) | 1<<uint(c) | 1<<uint(d)))
	count += bits.OnesCount64(g.Row(b) & (1<<uint(c) | 1<<uint(d)))
	count += bits.OnesCount64(g.Row(c) & (1 << uint(d)))
	return count
}

// IsDiamondFree checks every 4-subset of g.
func IsDiamondFree(g *graph.Graph) bool {
	n := g.Order()
	for a := n - 1; a >= 3; a-- {
		for b := a - 1; b >= 2; b-- {
			for c := b - 1; c >= 1; c-- {
				for d := c - 1; d >= 0; d-- {
					if quadEdgeCount(g, a, b, c, d) > 4 {
						return false
					}
				}
			}
		}
	}
	return true
}
