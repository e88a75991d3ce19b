package filter

import (
	"strings"

	"github.com/fine-structures/orderly/lib/graph"
)

// AcceptAll is the permissive filter used for unconstrained enumeration.
type AcceptAll struct{}

var _ Filter = AcceptAll{}

func (AcceptAll) Name() string { return "all" }
func (AcceptAll) IsSubsetSafe(*graph.Graph, graph.VertexSubset) bool { return true }
func (AcceptAll) IsNewGraphAcceptable(int, *graph.Graph) bool { return true }
func (AcceptAll) AreNewEdgesAcceptable(int, graph.VertexSubset, *graph.Graph) bool { return true }

// Conjunction accepts a graph only if every one of its filters does.
type Conjunction []Filter

// All returns the conjunction of the given filters, flattening nested conjunctions and dropping AcceptAll.
// With nothing left to check, AcceptAll is returned.
func All(filters ...Filter) Filter {
	var out Conjunction
	for _, fi := range filters {
		switch f := fi.(type) {
		case nil, AcceptAll:
		case Conjunction:
			out = append(out, f...)
		default:
			out = append(out, f)
		}
	}
	switch len(out) {
	case 0:
		return AcceptAll{}
	case 1:
		return out[0]
	}
	return out
}

func (fc Conjunction) Name() string {
	names := make([]string, len(fc))
	for i, fi := range fc {
		names[i] = fi.Name()
	}
	return strings.Join(names, " & ")
}

func (fc Conjunction) IsSubsetSafe(g *graph.Graph, W graph.VertexSubset) bool {
	for _, fi := range fc {
		if !fi.IsSubsetSafe(g, W) {
			return false
		}
	}
	return true
}

func (fc Conjunction) IsNewGraphAcceptable(cur int, g *graph.Graph) bool {
	for _, fi := range fc {
		if !fi.IsNewGraphAcceptable(cur, g) {
			return false
		}
	}
	return true
}

func (fc Conjunction) AreNewEdgesAcceptable(cur int, newAdj graph.VertexSubset, g *graph.Graph) bool {
	for _, fi := range fc {
		if !fi.AreNewEdgesAcceptable(cur, newAdj, g) {
			return false
		}
	}
	return true
}
