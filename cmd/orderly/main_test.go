package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJob(t *testing.T) {
	_, err := ParseJob(nil)
	assert.True(t, errors.Is(err, graph.ErrInvalidSize), "-n is required")

	job, err := ParseJob([]string{"-n", "6"})
	require.NoError(t, err)
	assert.Equal(t, 6, job.MinOrder)
	assert.Equal(t, 6, job.MaxOrder)
	assert.Equal(t, ModeCanonical, job.Mode)
	assert.Equal(t, 1, job.Workers)

	_, err = ParseJob([]string{"-n", "6", "-mode", "geng"})
	assert.True(t, errors.Is(err, graph.ErrInvalidArgument))
	_, err = ParseJob([]string{"-n", "6", "-filter", "girth(2)"})
	assert.True(t, errors.Is(err, graph.ErrInvalidArgument))
	_, err = ParseJob([]string{"-n", "4", "-min", "5"})
	assert.True(t, errors.Is(err, graph.ErrInvalidSize))
	_, err = ParseJob([]string{"-n", "4", "extra"})
	assert.True(t, errors.Is(err, graph.ErrInvalidArgument))
}

func TestJobFile(t *testing.T) {
	dir := t.TempDir()
	pathname := filepath.Join(dir, "girth5.toml")
	require.NoError(t, os.WriteFile(pathname, []byte(`
min_order = 3
max_order = 9
mode = "degseq"
filter = "girth(5)"
out = "results/girth_5_order_%d.txt"
workers = 4
`), 0o644))

	job, err := ParseJob([]string{"-config", pathname})
	require.NoError(t, err)
	assert.Equal(t, Job{
		MinOrder:  3,
		MaxOrder:  9,
		Mode:      ModeDegSeq,
		Filter:    "girth(5)",
		Out:       "results/girth_5_order_%d.txt",
		Workers:   4,
		Verbosity: 1,
	}, job)
	assert.Equal(t, "results/girth_5_order_7.txt", job.OutPathname(7))

	// Flags given explicitly override the file
	job, err = ParseJob([]string{"-config", pathname, "-n", "7", "-mode", "canonical"})
	require.NoError(t, err)
	assert.Equal(t, 3, job.MinOrder)
	assert.Equal(t, 7, job.MaxOrder)
	assert.Equal(t, ModeCanonical, job.Mode)
	assert.Equal(t, 4, job.Workers)

	require.NoError(t, os.WriteFile(pathname, []byte("max_order = 5\ngirth = 5\n"), 0o644))
	_, err = ParseJob([]string{"-config", pathname})
	assert.True(t, errors.Is(err, graph.ErrInvalidArgument))

	_, err = ParseJob([]string{"-config", filepath.Join(dir, "missing.toml")})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	for _, mode := range []string{ModeCanonical, ModeDegSeq} {
		dir := t.TempDir()
		job := Job{
			MinOrder: 4,
			MaxOrder: 5,
			Mode:     mode,
			Out:      filepath.Join(dir, "out", "order_%d.txt"),
			Workers:  2,
		}
		require.NoError(t, job.Validate())

		summary := strings.Builder{}
		require.NoError(t, run(context.Background(), job, &summary))
		assert.Equal(t,
			"order 4: 6 graphs (6 connected), (count,size,max_girth) = (1,6,3)\n"+
				"order 5: 21 graphs (21 connected), (count,size,max_girth) = (1,10,3)\n",
			summary.String(), mode)

		for order, count := range map[int]int{4: 6, 5: 21} {
			file, err := os.Open(job.OutPathname(order))
			require.NoError(t, err)
			graphs, err := graph.ReadAdjMatrices(file)
			file.Close()
			require.NoError(t, err)
			assert.Len(t, graphs, count, "%s order %d", mode, order)
		}
	}
}

func TestRunFiltered(t *testing.T) {
	job := Job{
		MaxOrder: 6,
		Mode:     ModeDegSeq,
		Filter:   "girth(5)",
		Graph6:   true,
		Out:      filepath.Join(t.TempDir(), "girth5.g6"),
	}
	require.NoError(t, job.Validate())

	summary := strings.Builder{}
	require.NoError(t, run(context.Background(), job, &summary))

	// The extremal girth-5 graphs of order 6 are the 6-cycle and C5 with a pendant vertex
	assert.Equal(t, "order 6: 8 graphs (8 connected), (count,size,max_girth) = (2,6,6)\n", summary.String())

	data, err := os.ReadFile(job.Out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 8)
	for _, line := range lines {
		g, err := graph.FromGraph6(line)
		require.NoError(t, err)
		assert.Equal(t, 6, g.Order())
	}
}
