package graph

import (
	"errors"
)

const (

	// MaxOrder is the largest vertex count a Graph can have (one adjacency row per uint64).
	MaxOrder = 64
)

// Errors
var (
	ErrInvalidSize     = errors.New("invalid graph order")
	ErrOutOfRange      = errors.New("vertex index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBadEncoding     = errors.New("bad graph encoding")
)

// VertexSubset is an ordered, duplicate-free sequence of vertex indices.
type VertexSubset []int

// SubsetFromMask returns the vertices whose bits are set in mask, in increasing order.
func SubsetFromMask(mask uint64) VertexSubset {
	subset := make(VertexSubset, 0, 8)
	for vi := 0; mask != 0; vi++ {
		if mask&1 != 0 {
			subset = append(subset, vi)
		}
		mask >>= 1
	}
	return subset
}

// Mask returns the bitset form of this subset.
func (W VertexSubset) Mask() uint64 {
	mask := uint64(0)
	for _, vi := range W {
		mask |= 1 << uint(vi)
	}
	return mask
}

// Contains reports if v is an element of W.
func (W VertexSubset) Contains(v int) bool {
	for _, vi := range W {
		if vi == v {
			return true
		}
	}
	return false
}

// ColexLess reports if W precedes other in colexicographic order (compare largest elements first).
// Both subsets are expected to be sorted the same way (either ascending or descending).
func (W VertexSubset) ColexLess(other VertexSubset) bool {
	a := W.sortedDesc()
	b := other.sortedDesc()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (W VertexSubset) sortedDesc() []int {
	out := append([]int(nil), W...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] < out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
