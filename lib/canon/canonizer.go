package canon

import (
	"bytes"
	"math/bits"
	"sort"

	"github.com/fine-structures/orderly/lib/graph"
)

// Canonizer is a partition-refinement canonical labeler.
//
// Vertices are split into an equitable ordered partition, then each vertex of the first
// non-singleton cell is individualized in turn and the partition refined again until every
// cell is a singleton. Each such leaf is a labeling; the one whose relabeled adjacency rows are
// greatest is canonical. Automorphisms discovered between equivalent leaves prune sibling subtrees.
type Canonizer struct{}

var (
	_ Oracle    = (*Canonizer)(nil)
	_ Certifier = (*Canonizer)(nil)
)

// New returns the default Oracle.
func New() *Canonizer {
	return &Canonizer{}
}

func (c *Canonizer) CanonicalLabeling(g *graph.Graph) Labeling {
	return c.search(g).bestLab
}

// CanonicalForm returns g relabeled by its canonical labeling.
func (c *Canonizer) CanonicalForm(g *graph.Graph) *graph.Graph {
	h, err := g.Relabel(c.CanonicalLabeling(g))
	if err != nil {
		panic(err)
	}
	return h
}

// Certificate returns the order of g as one byte followed by the canonical adjacency rows,
// each packed into (n+7)/8 little-endian bytes.
func (c *Canonizer) Certificate(g *graph.Graph) []byte {
	return appendCert(nil, g.Order(), c.search(g).bestRows)
}

func (c *Canonizer) AreIsomorphic(a, b *graph.Graph) bool {
	if a.Order() != b.Order() {
		return false
	}
	if a.EdgeCount() != b.EdgeCount() {
		return false
	}
	if a.DegreeSequenceFingerprint() != b.DegreeSequenceFingerprint() {
		return false
	}
	return bytes.Equal(c.Certificate(a), c.Certificate(b))
}

func appendCert(dst []byte, n int, rows []uint64) []byte {
	rowBytes := (n + 7) / 8
	dst = append(dst, byte(n))
	for _, row := range rows {
		for i := 0; i < rowBytes; i++ {
			dst = append(dst, byte(row>>uint(8*i)))
		}
	}
	return dst
}

type cell []int

type searchState struct {
	g         *graph.Graph
	n         int
	firstLab  Labeling
	firstRows []uint64
	bestLab   Labeling
	bestRows  []uint64
	autos     [][]int // each entry maps v -> autos[k][v]
}

func (c *Canonizer) search(g *graph.Graph) *searchState {
	s := &searchState{
		g: g,
		n: g.Order(),
	}
	if s.n == 0 {
		s.bestLab = Labeling{}
		return s
	}
	root := make([]int, s.n)
	for vi := range root {
		root[vi] = vi
	}
	s.descend(s.refine([]cell{root}), nil)
	return s
}

// refine splits cells until each vertex of a cell has the same number of neighbors in every cell.
// Subcells replace their parent in increasing order of neighbor-count signature, so the result
// depends only on the structure of g and the input partition.
func (s *searchState) refine(cells []cell) []cell {
	for {
		masks := make([]uint64, len(cells))
		for ci, C := range cells {
			for _, v := range C {
				masks[ci] |= 1 << uint(v)
			}
		}

		out := make([]cell, 0, s.n)
		for _, C := range cells {
			if len(C) == 1 {
				out = append(out, C)
				continue
			}
			sigs := make(map[int][]int, len(C))
			for _, v := range C {
				sig := make([]int, len(masks))
				row := s.g.Row(v)
				for mi, mask := range masks {
					sig[mi] = bits.OnesCount64(row & mask)
				}
				sigs[v] = sig
			}
			sorted := append(cell(nil), C...)
			sort.SliceStable(sorted, func(i, j int) bool {
				return compareInts(sigs[sorted[i]], sigs[sorted[j]]) < 0
			})
			start := 0
			for i := 1; i <= len(sorted); i++ {
				if i == len(sorted) || compareInts(sigs[sorted[start]], sigs[sorted[i]]) != 0 {
					out = append(out, sorted[start:i])
					start = i
				}
			}
		}

		if len(out) == len(cells) {
			return out
		}
		cells = out
	}
}

func (s *searchState) descend(cells []cell, fixed []int) {
	target := -1
	for ci, C := range cells {
		if len(C) > 1 {
			target = ci
			break
		}
	}
	if target < 0 {
		s.leaf(cells)
		return
	}

	orbits := newOrbits(s.n)
	absorbed := 0
	explored := make([]int, 0, len(cells[target]))

	for _, v := range cells[target] {
		for ; absorbed < len(s.autos); absorbed++ {
			gamma := s.autos[absorbed]
			if fixesAll(gamma, fixed) {
				for u, gu := range gamma {
					orbits.union(u, gu)
				}
			}
		}
		if orbits.sameAsAny(v, explored) {
			continue
		}

		child := make([]cell, 0, len(cells)+1)
		child = append(child, cells[:target]...)
		child = append(child, cell{v})
		rest := make(cell, 0, len(cells[target])-1)
		for _, u := range cells[target] {
			if u != v {
				rest = append(rest, u)
			}
		}
		child = append(child, rest)
		child = append(child, cells[target+1:]...)

		s.descend(s.refine(child), append(fixed[:len(fixed):len(fixed)], v))
		explored = append(explored, v)
	}
}

func (s *searchState) leaf(cells []cell) {
	lab := make(Labeling, 0, s.n)
	for _, C := range cells {
		lab = append(lab, C[0])
	}
	rows := s.relabeledRows(lab)

	if s.firstLab == nil {
		s.firstLab, s.firstRows = lab, rows
		s.bestLab, s.bestRows = lab, rows
		return
	}
	if compareRows(rows, s.firstRows) == 0 {
		s.addAuto(lab, s.firstLab)
	}
	switch cmp := compareRows(rows, s.bestRows); {
	case cmp > 0:
		s.bestLab, s.bestRows = lab, rows
	case cmp == 0:
		s.addAuto(lab, s.bestLab)
	}
}

// addAuto records the automorphism taking lab[i] to other[i], unless it is the identity.
func (s *searchState) addAuto(lab, other Labeling) {
	gamma := make([]int, s.n)
	identity := true
	for i, v := range lab {
		gamma[v] = other[i]
		if v != other[i] {
			identity = false
		}
	}
	if !identity {
		s.autos = append(s.autos, gamma)
	}
}

func (s *searchState) relabeledRows(lab Labeling) []uint64 {
	pos := make([]int, s.n)
	for i, v := range lab {
		pos[v] = i
	}
	rows := make([]uint64, s.n)
	for i, v := range lab {
		for m := s.g.Row(v); m != 0; m &= m - 1 {
			rows[i] |= 1 << uint(pos[bits.TrailingZeros64(m)])
		}
	}
	return rows
}

func fixesAll(gamma []int, fixed []int) bool {
	for _, v := range fixed {
		if gamma[v] != v {
			return false
		}
	}
	return true
}

func compareInts(a, b []int) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareRows(a, b []uint64) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// orbits is a union-find over vertices.
type orbits []int

func newOrbits(n int) orbits {
	o := make(orbits, n)
	for i := range o {
		o[i] = i
	}
	return o
}

func (o orbits) find(v int) int {
	for o[v] != v {
		o[v] = o[o[v]]
		v = o[v]
	}
	return v
}

func (o orbits) union(a, b int) {
	ra, rb := o.find(a), o.find(b)
	if ra != rb {
		o[rb] = ra
	}
}

func (o orbits) sameAsAny(v int, others []int) bool {
	rv := o.find(v)
	for _, u := range others {
		if o.find(u) == rv {
			return true
		}
	}
	return false
}
