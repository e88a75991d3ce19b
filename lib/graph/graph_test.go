package graph_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndBounds(t *testing.T) {
	_, err := graph.New(-1)
	require.True(t, errors.Is(err, graph.ErrInvalidSize))

	_, err = graph.New(graph.MaxOrder + 1)
	require.True(t, errors.Is(err, graph.ErrInvalidSize))

	g, err := graph.New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 0, g.EdgeCount())

	require.True(t, errors.Is(g.AddEdge(0, 3), graph.ErrOutOfRange))
	require.True(t, errors.Is(g.AddEdge(-1, 0), graph.ErrOutOfRange))
	require.True(t, errors.Is(g.RemoveEdge(3, 0), graph.ErrOutOfRange))
	assert.Panics(t, func() { g.HasEdge(0, 5) })
}

func TestEdgesAreSymmetricAndIdempotent(t *testing.T) {
	g := graph.MustNew(4)
	require.NoError(t, g.AddEdge(0, 2))
	require.NoError(t, g.AddEdge(2, 0))
	assert.True(t, g.HasEdge(0, 2))
	assert.True(t, g.HasEdge(2, 0))
	assert.Equal(t, 1, g.EdgeCount())

	require.NoError(t, g.RemoveEdge(2, 0))
	require.NoError(t, g.RemoveEdge(2, 0))
	assert.False(t, g.HasEdge(0, 2))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestIsConnected(t *testing.T) {
	assert.True(t, graph.MustNew(0).IsConnected())
	assert.True(t, graph.MustNew(1).IsConnected())
	assert.False(t, graph.MustNew(2).IsConnected())

	path := graph.MustFromAdjMatrix("0100", "1010", "0101", "0010")
	assert.True(t, path.IsConnected())

	twoEdges := graph.MustFromAdjMatrix("0100", "1000", "0001", "0010")
	assert.False(t, twoEdges.IsConnected())
}

func TestDegreeSequenceFingerprint(t *testing.T) {
	star := graph.MustFromAdjMatrix("0111", "1000", "1000", "1000")
	assert.Equal(t, "3,1,1,1", star.DegreeSequenceFingerprint())
	assert.Equal(t, []int{3, 1, 1, 1}, star.Degrees())

	path := graph.MustFromAdjMatrix("0100", "1010", "0101", "0010")
	assert.Equal(t, "2,2,1,1", path.DegreeSequenceFingerprint())
}

func TestReduceByRemovingVertex(t *testing.T) {
	// 0-1, 1-2, 2-3, 0-3 (a square) with a pendant 4 on 3
	g := graph.MustFromAdjMatrix(
		"01010",
		"10100",
		"01010",
		"10101",
		"00010",
	)

	lower, err := g.ReduceByRemovingVertex(1)
	require.NoError(t, err)
	require.Equal(t, 4, lower.Order())

	// 0 keeps its label; 2,3,4 become 1,2,3
	assert.Equal(t, []string{
		"0010",
		"0010",
		"1101",
		"0010",
	}, lower.AdjMatrix())

	_, err = g.ReduceByRemovingVertex(5)
	require.True(t, errors.Is(err, graph.ErrOutOfRange))
}

func TestReduceThenExtendRestores(t *testing.T) {
	g := graph.MustFromAdjMatrix(
		"01101",
		"10110",
		"11000",
		"01001",
		"10010",
	)
	for v := 0; v < g.Order(); v++ {
		lower, err := g.ReduceByRemovingVertex(v)
		require.NoError(t, err)

		var W graph.VertexSubset
		for _, u := range g.Neighbors(v) {
			if u > v {
				u--
			}
			W = append(W, u)
		}
		upper, err := lower.ExtendWith(W)
		require.NoError(t, err)

		// Moving v to the end is exactly the relabeling applied by reduce + extend
		lab := make([]int, 0, g.Order())
		for u := 0; u < g.Order(); u++ {
			if u != v {
				lab = append(lab, u)
			}
		}
		lab = append(lab, v)
		relabeled, err := g.Relabel(lab)
		require.NoError(t, err)
		assert.True(t, relabeled.Equal(upper), "vertex %d", v)
	}
}

func TestExtendWith(t *testing.T) {
	tri := graph.MustFromAdjMatrix("011", "101", "110")
	upper, err := tri.ExtendWith(graph.VertexSubset{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"0111", "1010", "1100", "1000"}, upper.AdjMatrix())

	upper, err = tri.ExtendWithMask(0x6)
	require.NoError(t, err)
	assert.Equal(t, []string{"0110", "1011", "1101", "0110"}, upper.AdjMatrix())

	_, err = tri.ExtendWith(graph.VertexSubset{3})
	require.True(t, errors.Is(err, graph.ErrOutOfRange))
	_, err = tri.ExtendWithMask(0x8)
	require.True(t, errors.Is(err, graph.ErrOutOfRange))
}

func TestRelabel(t *testing.T) {
	g := graph.MustFromAdjMatrix("0100", "1010", "0101", "0010")
	h, err := g.Relabel([]int{3, 2, 1, 0})
	require.NoError(t, err)
	assert.True(t, h.Equal(g)) // a path reversed is itself

	h, err = g.Relabel([]int{1, 0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"0110", "1000", "1001", "0010"}, h.AdjMatrix())

	_, err = g.Relabel([]int{0, 0, 1, 2})
	require.True(t, errors.Is(err, graph.ErrInvalidArgument))
	_, err = g.Relabel([]int{0, 1})
	require.True(t, errors.Is(err, graph.ErrInvalidArgument))
}

func TestAdjMatrixText(t *testing.T) {
	g1 := graph.MustFromAdjMatrix("0101", "1010", "0100", "1000")
	g2 := graph.MustFromAdjMatrix("011", "101", "110")

	buf := bytes.Buffer{}
	require.NoError(t, graph.WriteAdjMatrices(&buf, g1, g2))
	assert.Equal(t, "0101\n1010\n0100\n1000\n\n011\n101\n110\n\n", buf.String())

	graphs, err := graph.ReadAdjMatrices(strings.NewReader(buf.String() + "\n\n01\n10"))
	require.NoError(t, err)
	require.Len(t, graphs, 3)
	assert.True(t, graphs[0].Equal(g1))
	assert.True(t, graphs[1].Equal(g2))
	assert.Equal(t, 1, graphs[2].EdgeCount())

	_, err = graph.ReadAdjMatrices(strings.NewReader("01\n00\n"))
	require.True(t, errors.Is(err, graph.ErrBadEncoding))
	_, err = graph.FromAdjMatrix([]string{"01", "1"})
	require.True(t, errors.Is(err, graph.ErrBadEncoding))
	_, err = graph.FromAdjMatrix([]string{"0x", "x0"})
	require.True(t, errors.Is(err, graph.ErrBadEncoding))
}

func TestGraph6(t *testing.T) {
	petersen := graph.MustFromAdjMatrix(
		"0100110000",
		"1010001000",
		"0101000100",
		"0010100010",
		"1001000001",
		"1000000110",
		"0100000011",
		"0010010001",
		"0001011000",
		"0000101100",
	)
	enc := petersen.Graph6()
	dec, err := graph.FromGraph6(enc)
	require.NoError(t, err)
	assert.True(t, dec.Equal(petersen))

	_, err = graph.FromGraph6("\x01")
	require.True(t, errors.Is(err, graph.ErrBadEncoding))
}

func TestTraces(t *testing.T) {
	k4 := graph.MustFromAdjMatrix("0111", "1011", "1101", "1110")
	TX := k4.Traces(3)
	assert.Equal(t, graph.Traces{0, 12, 24}, TX) // 2|E| and 6 * #triangles

	c4 := graph.MustFromAdjMatrix("0101", "1010", "0101", "1010")
	star := graph.MustFromAdjMatrix("0111", "1000", "1000", "1000")
	assert.False(t, c4.Traces(0).IsEqual(star.Traces(0)))

	var TXdec graph.Traces
	enc := TX.AppendTracesLSM(nil)
	require.NoError(t, TXdec.InitFromTracesLSM(enc, len(TX)))
	assert.Equal(t, TX, TXdec)
}

func TestVertexSubset(t *testing.T) {
	W := graph.SubsetFromMask(0x2d)
	assert.Equal(t, graph.VertexSubset{0, 2, 3, 5}, W)
	assert.Equal(t, uint64(0x2d), W.Mask())
	assert.True(t, W.Contains(3))
	assert.False(t, W.Contains(1))

	assert.True(t, graph.VertexSubset{1, 2}.ColexLess(graph.VertexSubset{1, 3}))
	assert.True(t, graph.VertexSubset{3, 0}.ColexLess(graph.VertexSubset{3, 1}))
	assert.False(t, graph.VertexSubset{0, 3}.ColexLess(graph.VertexSubset{1, 2}))
}
