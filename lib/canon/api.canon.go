package canon

import (
	"github.com/fine-structures/orderly/lib/graph"
)

// Labeling is a permutation of [0,n): Labeling[i] is the vertex placed at canonical position i.
//
// g.Relabel(lab) is then the canonical form of g, identical for every graph isomorphic to g.
type Labeling []int

// Oracle labels graphs canonically and tests equivalence.
//
// Implementations must be deterministic and safe for concurrent use.
type Oracle interface {

	// CanonicalLabeling returns the canonical labeling of g.
	CanonicalLabeling(g *graph.Graph) Labeling

	// AreIsomorphic returns false immediately if the orders of a and b differ.
	AreIsomorphic(a, b *graph.Graph) bool
}

// Certifier is implemented by an Oracle that can also emit a canonical form as bytes.
//
// Two graphs have equal certificates iff they are isomorphic.
type Certifier interface {
	Certificate(g *graph.Graph) []byte
}
