package graph

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Graph is a simple undirected graph of fixed order stored as one adjacency bitset row per vertex.
//
// Row i has bit j set iff vertices i and j are adjacent, so HasEdge(i,j) == HasEdge(j,i) always holds.
// Self-edges are representable but never produced by the generators.
type Graph struct {
	n    int
	rows []uint64
}

// New returns an edgeless graph of order n.
func New(n int) (*Graph, error) {
	if n < 0 || n > MaxOrder {
		return nil, errors.Wrapf(ErrInvalidSize, "order %d not in [0,%d]", n, MaxOrder)
	}
	return &Graph{
		n:    n,
		rows: make([]uint64, n),
	}, nil
}

// MustNew is New that panics on an invalid order.
func MustNew(n int) *Graph {
	g, err := New(n)
	if err != nil {
		panic(err)
	}
	return g
}

// Order returns the vertex count.
func (g *Graph) Order() int {
	return g.n
}

func (g *Graph) checkVtx(v int) error {
	if v < 0 || v >= g.n {
		return errors.Wrapf(ErrOutOfRange, "vertex %d (order %d)", v, g.n)
	}
	return nil
}

// AddEdge sets the edge (u,v) and (v,u).  Adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v int) error {
	if err := g.checkVtx(u); err != nil {
		return err
	}
	if err := g.checkVtx(v); err != nil {
		return err
	}
	g.setEdge(u, v)
	return nil
}

// RemoveEdge clears the edge (u,v) and (v,u).  Removing an absent edge is a no-op.
func (g *Graph) RemoveEdge(u, v int) error {
	if err := g.checkVtx(u); err != nil {
		return err
	}
	if err := g.checkVtx(v); err != nil {
		return err
	}
	g.clearEdge(u, v)
	return nil
}

// HasEdge reports if u and v are adjacent.
//
// Like slice indexing, an index outside [0,n) is a programming error and panics with an error wrapping ErrOutOfRange.
func (g *Graph) HasEdge(u, v int) bool {
	if err := g.checkVtx(u); err != nil {
		panic(err)
	}
	if err := g.checkVtx(v); err != nil {
		panic(err)
	}
	return g.rows[u]&(1<<uint(v)) != 0
}

func (g *Graph) setEdge(u, v int) {
	g.rows[u] |= 1 << uint(v)
	g.rows[v] |= 1 << uint(u)
}

func (g *Graph) clearEdge(u, v int) {
	g.rows[u] &^= 1 << uint(v)
	g.rows[v] &^= 1 << uint(u)
}

// Row returns the neighbor bitset of vertex v (bit j set iff v~j).
func (g *Graph) Row(v int) uint64 {
	return g.rows[v]
}

// AllMask returns the bitset containing every vertex of g.
func (g *Graph) AllMask() uint64 {
	if g.n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(g.n)) - 1
}

// EdgeCount returns the number of set adjacency bits divided by two.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, row := range g.rows {
		count += bits.OnesCount64(row)
	}
	return count / 2
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int {
	return bits.OnesCount64(g.rows[v])
}

// Degrees returns the degree of each vertex, indexed by vertex.
func (g *Graph) Degrees() []int {
	degs := make([]int, g.n)
	for vi, row := range g.rows {
		degs[vi] = bits.OnesCount64(row)
	}
	return degs
}

// Neighbors returns the neighbors of v in increasing order.
func (g *Graph) Neighbors(v int) VertexSubset {
	return SubsetFromMask(g.rows[v])
}

// IsConnected performs a breadth-first walk from vertex 0 and reports if every vertex was reached.
//
// The order-0 graph is considered connected.
func (g *Graph) IsConnected() bool {
	if g.n == 0 {
		return true
	}
	seen := uint64(1)
	frontier := uint64(1)
	for frontier != 0 {
		next := uint64(0)
		for f := frontier; f != 0; f &= f - 1 {
			next |= g.rows[bits.TrailingZeros64(f)]
		}
		frontier = next &^ seen
		seen |= next
	}
	return seen&g.AllMask() == g.AllMask()
}

// DegreeSequenceFingerprint renders the degree multiset as its non-increasing sequence joined by commas.
//
// Equal fingerprints are necessary (but not sufficient) for two graphs to be isomorphic.
func (g *Graph) DegreeSequenceFingerprint() string {
	degs := g.Degrees()
	sort.Sort(sort.Reverse(sort.IntSlice(degs)))

	b := strings.Builder{}
	b.Grow(3 * len(degs))
	for i, di := range degs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(di))
	}
	return b.String()
}

// dropBit removes bit v from row and shifts every higher bit down by one.
func dropBit(row uint64, v int) uint64 {
	lo := row & ((uint64(1) << uint(v)) - 1)
	hi := (row >> uint(v+1)) << uint(v)
	return lo | hi
}

// ReduceByRemovingVertex returns a new graph of order n-1 with v and its incident edges removed.
//
// Vertices below v keep their index and vertices above v are relabeled down by one.
func (g *Graph) ReduceByRemovingVertex(v int) (*Graph, error) {
	if err := g.checkVtx(v); err != nil {
		return nil, err
	}
	lower := &Graph{
		n:    g.n - 1,
		rows: make([]uint64, 0, g.n-1),
	}
	for vi, row := range g.rows {
		if vi == v {
			continue
		}
		lower.rows = append(lower.rows, dropBit(row, v))
	}
	return lower, nil
}

// ExtendWith returns a new graph of order n+1 where the new vertex n is adjacent to exactly the given subset.
func (g *Graph) ExtendWith(subset VertexSubset) (*Graph, error) {
	if g.n+1 > MaxOrder {
		return nil, errors.Wrapf(ErrInvalidSize, "cannot extend order %d", g.n)
	}
	for _, vi := range subset {
		if err := g.checkVtx(vi); err != nil {
			return nil, err
		}
	}
	return g.extendWithMask(subset.Mask()), nil
}

func (g *Graph) extendWithMask(mask uint64) *Graph {
	upper := &Graph{
		n:    g.n + 1,
		rows: make([]uint64, g.n+1),
	}
	copy(upper.rows, g.rows)
	upper.rows[g.n] = mask
	for m := mask; m != 0; m &= m - 1 {
		upper.rows[bits.TrailingZeros64(m)] |= 1 << uint(g.n)
	}
	return upper
}

// ExtendWithMask is ExtendWith for a subset given as a bitset of existing vertices.
func (g *Graph) ExtendWithMask(mask uint64) (*Graph, error) {
	if g.n+1 > MaxOrder {
		return nil, errors.Wrapf(ErrInvalidSize, "cannot extend order %d", g.n)
	}
	if mask&^g.AllMask() != 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "subset mask %#x (order %d)", mask, g.n)
	}
	return g.extendWithMask(mask), nil
}

// Relabel returns the graph h where h.HasEdge(i,j) == g.HasEdge(lab[i],lab[j]).
//
// lab must be a permutation of [0,n).
func (g *Graph) Relabel(lab []int) (*Graph, error) {
	if len(lab) != g.n {
		return nil, errors.Wrapf(ErrInvalidArgument, "labeling has %d entries for order %d", len(lab), g.n)
	}
	pos := make([]int, g.n)
	seen := uint64(0)
	for i, vi := range lab {
		if err := g.checkVtx(vi); err != nil {
			return nil, err
		}
		if seen&(1<<uint(vi)) != 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "labeling repeats vertex %d", vi)
		}
		seen |= 1 << uint(vi)
		pos[vi] = i
	}

	h := &Graph{
		n:    g.n,
		rows: make([]uint64, g.n),
	}
	for i, vi := range lab {
		row := uint64(0)
		for m := g.rows[vi]; m != 0; m &= m - 1 {
			row |= 1 << uint(pos[bits.TrailingZeros64(m)])
		}
		h.rows[i] = row
	}
	return h, nil
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	return &Graph{
		n:    g.n,
		rows: append([]uint64(nil), g.rows...),
	}
}

// Equal reports if g and other have the same order and the same labeled edge set.
func (g *Graph) Equal(other *Graph) bool {
	if g.n != other.n {
		return false
	}
	for i, row := range g.rows {
		if other.rows[i] != row {
			return false
		}
	}
	return true
}
