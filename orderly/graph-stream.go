package orderly

import (
	"fmt"
	"io"
	"strings"

	"github.com/fine-structures/orderly/lib/graph"
)

// GraphStream is one stage of a graph pipeline.  Each stage runs in its own goroutine and closes its Outlet when its input is exhausted.
type GraphStream struct {
	Outlet chan *graph.Graph
}

func NewGraphStream() *GraphStream {
	stream := &GraphStream{
		Outlet: make(chan *graph.Graph, 1),
	}
	return stream
}

// StreamGraphs returns a stream that emits a copy of each given graph.
func StreamGraphs(graphs ...*graph.Graph) *GraphStream {
	next := NewGraphStream()

	go func() {
		for _, X := range graphs {
			next.Outlet <- X.Clone()
		}
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X *graph.Graph) {
	stream.Outlet <- X.Clone()
}

func (stream *GraphStream) PullGraph() *graph.Graph {
	X := <-stream.Outlet
	return X
}

// PullAll drains this stream and returns the number of graphs received.
func (stream *GraphStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains this stream into a slice.
func (stream *GraphStream) Collect() []*graph.Graph {
	var graphs []*graph.Graph
	for X := range stream.Outlet {
		graphs = append(graphs, X)
	}
	return graphs
}

// Print writes each graph to out per opts and passes it along.
// out is closed when the input is exhausted if it is an io.Closer.
func (stream *GraphStream) Print(
	out io.Writer,
	opts PrintOpts) *GraphStream {

	next := NewGraphStream()

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			count++
			WriteGraph(&buf, X, count, opts)
			io.WriteString(out, buf.String())
			buf.Reset()
			next.Outlet <- X
		}
		if closer, ok := out.(io.Closer); ok {
			closer.Close()
		}
		next.Close()
	}()

	return next
}

// WriteGraph writes X to buf per opts where count is X's one-based index in its stream.
func WriteGraph(buf *strings.Builder, X *graph.Graph, count int, opts PrintOpts) {
	prefixed := false
	if len(opts.Label) > 0 {
		buf.WriteString(opts.Label)
		buf.WriteByte(',')
		prefixed = true
	}
	if opts.Count {
		fmt.Fprintf(buf, "%06d,", count)
		prefixed = true
	}
	if opts.Graph6 {
		buf.WriteString(X.Graph6())
		buf.WriteByte('\n')
	} else if prefixed {
		buf.WriteByte('\n')
	}
	if opts.Matrix {
		for _, row := range X.AdjMatrix() {
			buf.WriteString(row)
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
}

// AddTo offers each graph to target and passes along only those that were added.
func (stream *GraphStream) AddTo(target GraphAdder) *GraphStream {
	next := NewGraphStream()

	go func() {
		for X := range stream.Outlet {
			wasAdded := target.TryAddGraph(X)
			if wasAdded {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// Select passes along only the graphs selected by sel.
func (stream *GraphStream) Select(sel GraphSelector) *GraphStream {
	next := NewGraphStream()

	go func() {
		for X := range stream.Outlet {
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the members of cat selected by sel.
func SelectFromCatalog(cat Catalog, sel GraphSelector) *GraphStream {
	next := NewGraphStream()

	onHit := make(chan *graph.Graph, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}
