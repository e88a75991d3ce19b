package degseq

import (
	"sort"

	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
)

// Sequence is a degree sequence, indexed by vertex.
type Sequence []int

// Entry is one position of a degree sequence paired with whether it may receive a new edge.
type Entry struct {
	Degree   int
	Eligible bool
}

func checkNonIncreasing(seq []int) error {
	for i, di := range seq {
		if di < 0 {
			return errors.Wrapf(graph.ErrInvalidArgument, "degree sequence %v has a negative entry", seq)
		}
		if i+1 < len(seq) && di < seq[i+1] {
			return errors.Wrapf(graph.ErrInvalidArgument, "degree sequence %v is not non-increasing", seq)
		}
	}
	return nil
}

// IsGraphical applies the Erdős–Gallai test: seq is graphical iff its sum is even and for every k,
//
//	seq[0] + ... + seq[k-1]  <=  k(k-1) + sum_{i>=k} min(k, seq[i])
//
// seq must be non-increasing and non-negative.
func IsGraphical(seq Sequence) (bool, error) {
	if err := checkNonIncreasing(seq); err != nil {
		return false, err
	}
	return isGraphical(seq), nil
}

// isGraphical assumes seq is non-increasing and non-negative.
func isGraphical(seq []int) bool {
	sum := 0
	for _, di := range seq {
		sum += di
	}
	if sum%2 != 0 {
		return false
	}

	N := len(seq)
	lhs := 0
	for k := 1; k <= N; k++ {
		lhs += seq[k-1]
		rhs := k * (k - 1)
		for _, di := range seq[k:] {
			rhs += min(k, di)
		}
		if lhs > rhs {
			return false
		}

		// Past the point where seq[k-1] >= k > seq[k]-1 the bound can no longer be violated
		if k < N && seq[k-1] >= k && seq[k] < k+1 {
			break
		}
	}
	return true
}

// Reduce removes vertex from seq along with one edge to each of incident: seq[vertex] becomes 0
// and each incident entry is decremented.
//
// seq is left unchanged if the number of incident vertices differs from seq[vertex], if an index is
// out of range, or if an entry would become negative.
func Reduce(vertex int, incident []int, seq Sequence) error {
	if vertex < 0 || vertex >= len(seq) {
		return errors.Wrapf(graph.ErrInvalidArgument, "vertex %d out of range", vertex)
	}
	if seq[vertex] != len(incident) {
		return errors.Wrapf(graph.ErrInvalidArgument, "vertex %d has degree %d but %d incident vertices", vertex, seq[vertex], len(incident))
	}

	reduced := append(Sequence(nil), seq...)
	reduced[vertex] = 0
	for _, vi := range incident {
		if vi < 0 || vi >= len(seq) {
			return errors.Wrapf(graph.ErrInvalidArgument, "incident vertex %d out of range", vi)
		}
		reduced[vi]--
		if reduced[vi] < 0 {
			return errors.Wrapf(graph.ErrInvalidArgument, "incident vertex %d has no degree left", vi)
		}
	}
	copy(seq, reduced)
	return nil
}

// CGTest is the constrained graphicality test: vertex is joined to the entries[vertex].Degree
// leftmost eligible positions that still have degree left, and the residual sequence must be graphical.
//
// entries are expected in non-increasing degree order, so the leftmost choice is the greedy one.
func CGTest(vertex int, entries []Entry) (bool, error) {
	if vertex < 0 || vertex >= len(entries) {
		return false, errors.Wrapf(graph.ErrInvalidArgument, "vertex %d out of range", vertex)
	}
	need := entries[vertex].Degree
	if need < 0 {
		return false, errors.Wrapf(graph.ErrInvalidArgument, "vertex %d has negative degree", vertex)
	}
	return cgTest(vertex, entries), nil
}

func cgTest(vertex int, entries []Entry) bool {
	need := entries[vertex].Degree
	residual := make([]int, len(entries))
	for i, ei := range entries {
		residual[i] = ei.Degree
	}
	residual[vertex] = 0

	for i := 0; i < len(entries) && need > 0; i++ {
		if i == vertex || !entries[i].Eligible || residual[i] <= 0 {
			continue
		}
		residual[i]--
		need--
	}
	if need > 0 {
		return false // not enough eligible positions
	}

	sort.Sort(sort.Reverse(sort.IntSlice(residual)))
	return isGraphical(residual)
}

// GenerateAllDegreeSequences returns every non-increasing sequence of length n with entries in [0, n-1],
// in decreasing lexicographic order (the first is all n-1, the last all 0).
//
// No graphicality test is applied.
func GenerateAllDegreeSequences(n int) []Sequence {
	if n < 1 {
		return nil
	}
	var seqs []Sequence
	cur := make(Sequence, 0, n)

	var extend func(maxDegree int)
	extend = func(maxDegree int) {
		if len(cur) == n {
			seqs = append(seqs, append(Sequence(nil), cur...))
			return
		}
		for di := maxDegree; di >= 0; di-- {
			cur = append(cur, di)
			extend(di)
			cur = cur[:len(cur)-1]
		}
	}
	extend(n - 1)
	return seqs
}
