package graph

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/encoding/graph6"
	"gonum.org/v1/gonum/graph/simple"
)

// AdjMatrix returns one string of '0'/'1' per row, in vertex index order.
func (g *Graph) AdjMatrix() []string {
	rows := make([]string, g.n)
	buf := make([]byte, g.n)
	for vi, row := range g.rows {
		for vj := range buf {
			if row&(1<<uint(vj)) != 0 {
				buf[vj] = '1'
			} else {
				buf[vj] = '0'
			}
		}
		rows[vi] = string(buf)
	}
	return rows
}

// String returns the adjacency matrix rows separated by newlines.
func (g *Graph) String() string {
	return strings.Join(g.AdjMatrix(), "\n")
}

// FromAdjMatrix builds a graph from adjacency-matrix rows (see AdjMatrix).
//
// Every row must have exactly len(rows) characters, each '0' or '1', and the matrix must be symmetric.
func FromAdjMatrix(rows []string) (*Graph, error) {
	g, err := New(len(rows))
	if err != nil {
		return nil, err
	}
	for vi, line := range rows {
		if len(line) != g.n {
			return nil, errors.Wrapf(ErrBadEncoding, "row %d has %d columns, expected %d", vi, len(line), g.n)
		}
		for vj := 0; vj < g.n; vj++ {
			switch line[vj] {
			case '0':
			case '1':
				g.rows[vi] |= 1 << uint(vj)
			default:
				return nil, errors.Wrapf(ErrBadEncoding, "row %d column %d: unexpected %q", vi, vj, line[vj])
			}
		}
	}
	for vi := 0; vi < g.n; vi++ {
		for vj := vi + 1; vj < g.n; vj++ {
			if (g.rows[vi]>>uint(vj))&1 != (g.rows[vj]>>uint(vi))&1 {
				return nil, errors.Wrapf(ErrBadEncoding, "matrix not symmetric at (%d,%d)", vi, vj)
			}
		}
	}
	return g, nil
}

// MustFromAdjMatrix is FromAdjMatrix that panics on a malformed matrix.
func MustFromAdjMatrix(rows ...string) *Graph {
	g, err := FromAdjMatrix(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// WriteAdjMatrices writes each graph as its adjacency-matrix rows followed by one blank line.
func WriteAdjMatrices(out io.Writer, graphs ...*Graph) error {
	bw := bufio.NewWriter(out)
	for _, g := range graphs {
		for _, row := range g.AdjMatrix() {
			bw.WriteString(row)
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadAdjMatrices reads graphs written by WriteAdjMatrices.
//
// Rows of one graph are contiguous lines; graphs are separated by one or more blank lines.
func ReadAdjMatrices(in io.Reader) ([]*Graph, error) {
	var (
		graphs []*Graph
		rows   []string
	)

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		g, err := FromAdjMatrix(rows)
		if err != nil {
			return errors.Wrapf(err, "graph #%d", len(graphs)+1)
		}
		graphs = append(graphs, g)
		rows = rows[:0]
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r \t")
		if len(line) == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// Graph6 returns the graph6 encoding of g (self-edges are not representable and are dropped).
func (g *Graph) Graph6() string {
	dst := simple.NewUndirectedGraph()
	for vi := 0; vi < g.n; vi++ {
		dst.AddNode(simple.Node(vi))
	}
	for vi := 0; vi < g.n; vi++ {
		for vj := vi + 1; vj < g.n; vj++ {
			if g.rows[vi]&(1<<uint(vj)) != 0 {
				dst.SetEdge(simple.Edge{F: simple.Node(vi), T: simple.Node(vj)})
			}
		}
	}
	return string(graph6.Encode(dst))
}

// FromGraph6 decodes a graph6 string.
func FromGraph6(enc string) (*Graph, error) {
	if len(enc) == 0 || strings.IndexFunc(enc, func(r rune) bool { return r < 63 || r > 126 }) >= 0 {
		return nil, errors.Wrapf(ErrBadEncoding, "invalid graph6 %q", enc)
	}
	src := graph6.Graph(enc)
	if !graph6.IsValid(src) {
		return nil, errors.Wrapf(ErrBadEncoding, "invalid graph6 %q", enc)
	}
	g, err := New(src.Nodes().Len())
	if err != nil {
		return nil, err
	}
	for vi := 0; vi < g.n; vi++ {
		for vj := vi + 1; vj < g.n; vj++ {
			if src.HasEdgeBetween(int64(vi), int64(vj)) {
				g.setEdge(vi, vj)
			}
		}
	}
	return g, nil
}
