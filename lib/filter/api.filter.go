package filter

import (
	"github.com/fine-structures/orderly/lib/graph"
)

// SubsetFilter decides, before a new vertex is materialized, if joining it to exactly a given subset keeps a graph acceptable.
type SubsetFilter interface {

	// IsSubsetSafe returns true iff g extended by a new vertex adjacent to exactly subset is acceptable,
	// assuming g itself is acceptable.
	//
	// This is an exact characterization: a false positive admits a graph outside the property.
	IsSubsetSafe(g *graph.Graph, subset graph.VertexSubset) bool
}

// GraphFilter re-checks a graph after edges incident to one vertex were added.
type GraphFilter interface {

	// IsNewGraphAcceptable re-examines every structure touching cur, assuming g was acceptable before edges at cur were added.
	IsNewGraphAcceptable(cur int, g *graph.Graph) bool

	// AreNewEdgesAcceptable only examines structures touching the edges (cur, a) for each a in newAdj.
	// Its result equals IsNewGraphAcceptable(cur, g) whenever nothing else in g changed since g was last known to be acceptable.
	AreNewEdgesAcceptable(cur int, newAdj graph.VertexSubset, g *graph.Graph) bool
}

// Filter is a pure structural property predicate usable by both generators.
//
// Implementations hold no state other than static configuration and are safe for concurrent use.
type Filter interface {
	SubsetFilter
	GraphFilter

	// Name returns an expression that Parse maps back to an equivalent Filter.
	Name() string
}

// IsAcceptable performs a full check of g against f.
func IsAcceptable(f Filter, g *graph.Graph) bool {
	for vi := 0; vi < g.Order(); vi++ {
		if !f.IsNewGraphAcceptable(vi, g) {
			return false
		}
	}
	return true
}
