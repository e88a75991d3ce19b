package orderly

import (
	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
)

// OnGraphHit is a channel used to return graphs meeting a set of selection criteria.
// Ownership of a Graph also travels through the channel.
type OnGraphHit chan<- *graph.Graph

// GraphAdder is a sink of generated graphs.
type GraphAdder interface {

	// TryAddGraph offers X to this sink.
	// If true is returned, X was new (no member isomorphic to X existed) and was added.
	//
	// Implementations are safe to call from multiple goroutines.
	TryAddGraph(X *graph.Graph) bool
}

// Catalog holds one representative per isomorphism class offered to it.
type Catalog interface {
	GraphAdder

	// NumClasses returns the number of isomorphism classes of a given order in this catalog.
	// An order out of bounds returns 0.
	NumClasses(forOrder int) int64

	// Select sends each member meeting the selection criteria to onHit, ordered by (order, canonical form).
	Select(sel GraphSelector, onHit OnGraphHit)

	Close() error
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog.
type CatalogOpts struct {
	DbPathName string       // must be empty: catalogs are held in memory
	Oracle     canon.Oracle // nil denotes canon.New()
}

// GraphSelector is an operator that either selects a given Graph or not.
type GraphSelector struct {
	MinOrder      int
	MaxOrder      int
	MinEdges      int
	MaxEdges      int
	ConnectedOnly bool          // only select connected graphs
	Filter        filter.Filter // if set, only select graphs accepted by Filter
}

// DefaultGraphSelector selects every graph.
var DefaultGraphSelector = GraphSelector{
	MaxOrder: graph.MaxOrder,
	MaxEdges: graph.MaxOrder * (graph.MaxOrder - 1) / 2,
}

// SelectsGraph is a convenience function used to see if a Graph is selected according to a GraphSelector.
func (sel *GraphSelector) SelectsGraph(X *graph.Graph) bool {
	Nv := X.Order()
	if Nv < sel.MinOrder || Nv > sel.MaxOrder {
		return false
	}
	Ne := X.EdgeCount()
	if Ne < sel.MinEdges || Ne > sel.MaxEdges {
		return false
	}
	if sel.ConnectedOnly && !X.IsConnected() {
		return false
	}
	if sel.Filter != nil && !filter.IsAcceptable(sel.Filter, X) {
		return false
	}
	return true
}

// PrintOpts specifies what is printed for each graph
type PrintOpts struct {
	Label  string // Prefix label
	Count  bool   // If set, each graph is preceded by its one-based index in the stream
	Graph6 bool   // If set, prints the graph6 encoding on one line
	Matrix bool   // If set, prints adjacency matrix rows followed by a blank line
}

// DefaultPrintOpts is the export format: adjacency matrices separated by blank lines.
var DefaultPrintOpts = PrintOpts{
	Matrix: true,
}
