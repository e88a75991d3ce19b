package orderly

import (
	"fmt"
	"io"
	"sync"

	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
)

// Census tallies the graphs offered to it and tracks the extremal ones (those with the most edges).
//
// Census is a GraphAdder that accepts everything, so it can terminate a GraphStream via AddTo().
type Census struct {
	mu        sync.Mutex
	total     int64
	connected int64
	maxEdges  int
	extremal  []*graph.Graph
}

func NewCensus() *Census {
	return &Census{
		maxEdges: -1,
	}
}

func (c *Census) TryAddGraph(X *graph.Graph) bool {
	Ne := X.EdgeCount()
	isConnected := X.IsConnected()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if isConnected {
		c.connected++
	}
	switch {
	case Ne > c.maxEdges:
		c.maxEdges = Ne
		c.extremal = append(c.extremal[:0], X)
	case Ne == c.maxEdges:
		c.extremal = append(c.extremal, X)
	}
	return true
}

// CensusReport is a snapshot of a Census.
type CensusReport struct {
	Total     int64          // graphs offered
	Connected int64          // connected graphs offered
	MaxEdges  int            // largest edge count seen (-1 if nothing was offered)
	Extremal  []*graph.Graph // graphs having MaxEdges edges, in the order offered
	MaxGirth  int            // largest girth among Extremal (0 if all are acyclic)
}

func (c *Census) Report() CensusReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := CensusReport{
		Total:     c.total,
		Connected: c.connected,
		MaxEdges:  c.maxEdges,
		Extremal:  append([]*graph.Graph(nil), c.extremal...),
	}
	for _, X := range c.extremal {
		report.MaxGirth = max(report.MaxGirth, filter.ShortestCycle(X))
	}
	return report
}

// WriteSummary writes a one-line summary of the report.
func (report *CensusReport) WriteSummary(out io.Writer, label string) {
	fmt.Fprintf(out, "%s: %d graphs (%d connected), (count,size,max_girth) = (%d,%d,%d)\n",
		label, report.Total, report.Connected, len(report.Extremal), report.MaxEdges, report.MaxGirth)
}
