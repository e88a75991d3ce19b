package degseq

import (
	"sort"

	"github.com/fine-structures/orderly/lib/canon"
	"github.com/fine-structures/orderly/lib/catalog"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/fine-structures/orderly/orderly"
	"github.com/pkg/errors"
)

// Opts specifies how a Generator walks the realizations of a degree sequence.
type Opts struct {
	Filter        filter.Filter // if set, partial graphs rejected by Filter are pruned
	ConnectedOnly bool          // if set, only connected realizations are offered
	Unique        bool          // if set, GenerateAll keeps one realization per isomorphism class
	Oracle        canon.Oracle  // nil denotes canon.New()
	Workers       int           // sequences realized concurrently by EnumerateAll (<= 1 denotes 1)
}

// Stats counts the work done realizing one or more degree sequences.
type Stats struct {
	Sequences int64 // sequences examined
	Graphical int64 // sequences passing the Erdős–Gallai test
	Generated int64 // labeled realizations completed
	Accepted  int64 // realizations passing the connectivity requirement
	Unique    int64 // realizations the sink reported as new
}

func (stats *Stats) add(other Stats) {
	stats.Sequences += other.Sequences
	stats.Graphical += other.Graphical
	stats.Generated += other.Generated
	stats.Accepted += other.Accepted
	stats.Unique += other.Unique
}

// Generator realizes degree sequences as labeled graphs where vertex i has degree seq[i].
//
// Vertices are processed one at a time as a hub: the unprocessed vertex with the largest remaining
// degree is joined to every admissible adjacency set, so each labeled realization is reached exactly once.
type Generator struct {
	opts Opts
}

func NewGenerator(opts Opts) *Generator {
	if opts.Oracle == nil {
		opts.Oracle = canon.New()
	}
	return &Generator{
		opts: opts,
	}
}

// Generate offers every realization of seq to sink and returns what was done.
//
// A sequence that is not graphical is not an error; it has no realizations.
func (gen *Generator) Generate(seq Sequence, sink orderly.GraphAdder) (Stats, error) {
	stats := Stats{
		Sequences: 1,
	}
	if len(seq) > graph.MaxOrder {
		return stats, errors.Wrapf(graph.ErrInvalidSize, "degree sequence of length %d", len(seq))
	}
	ok, err := IsGraphical(seq)
	if err != nil || !ok {
		return stats, err
	}
	stats.Graphical = 1

	re := &realizer{
		opts:     &gen.opts,
		g:        graph.MustNew(len(seq)),
		residual: append([]int(nil), seq...),
		sink:     sink,
		stats:    &stats,
	}
	re.realize()
	return stats, nil
}

// GenerateAll returns the realizations of seq in the order found, one per isomorphism class if opts.Unique is set.
func (gen *Generator) GenerateAll(seq Sequence) ([]*graph.Graph, Stats, error) {
	if gen.opts.Unique {
		classes := catalog.NewClassSet(catalog.ClassSetOpts{
			Oracle: gen.opts.Oracle,
		})
		stats, err := gen.Generate(seq, classes)
		if err != nil {
			return nil, stats, err
		}
		return classes.Graphs(), stats, nil
	}

	var all graphList
	stats, err := gen.Generate(seq, &all)
	return all, stats, err
}

type graphList []*graph.Graph

func (list *graphList) TryAddGraph(X *graph.Graph) bool {
	*list = append(*list, X)
	return true
}

// GenerateAllGraphs returns the realizations of seq.
//
// With a nil filter every labeled realization is returned.  Otherwise partial graphs rejected by f are
// pruned and one connected realization per isomorphism class is returned.
func GenerateAllGraphs(seq Sequence, f filter.Filter) ([]*graph.Graph, error) {
	opts := Opts{}
	if f != nil {
		opts = Opts{
			Filter:        f,
			ConnectedOnly: true,
			Unique:        true,
		}
	}
	graphs, _, err := NewGenerator(opts).GenerateAll(seq)
	return graphs, err
}

// GenerateAllUniqueGraphs returns one realization of seq per isomorphism class.
func GenerateAllUniqueGraphs(seq Sequence) ([]*graph.Graph, error) {
	graphs, _, err := NewGenerator(Opts{Unique: true}).GenerateAll(seq)
	return graphs, err
}

// GenerateAllAdjacencySets returns every set of positions that position 0 of seq can be joined to
// such that the residual sequence remains graphical.
//
// seq must be non-increasing.  Each set is in increasing order.
func GenerateAllAdjacencySets(seq Sequence) ([]graph.VertexSubset, error) {
	if err := checkNonIncreasing(seq); err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		return nil, errors.Wrap(graph.ErrInvalidArgument, "empty degree sequence")
	}
	var sets []graph.VertexSubset
	forEachAdjacencySet(seq, func(A []int) {
		sets = append(sets, ascending(A))
	})
	return sets, nil
}

// forEachAdjacencySet calls emit with each admissible adjacency set of position 0 of seq.
//
// Positions are added to a set in decreasing order.  After each addition the remaining degree of
// position 0 must be placeable on the positions left of the last one added.
func forEachAdjacencySet(seq []int, emit func(A []int)) {
	N := len(seq)
	if seq[0] == 0 {
		if isGraphical(seq) {
			emit(nil)
		}
		return
	}

	residual := append([]int(nil), seq...)
	entries := make([]Entry, N)
	A := make([]int, 0, seq[0])

	var grow func(below int)
	grow = func(below int) {
		for v := below - 1; v >= 1; v-- {
			if residual[v] <= 0 {
				continue
			}
			residual[v]--
			residual[0]--
			A = append(A, v)

			for i := range entries {
				entries[i] = Entry{
					Degree:   residual[i],
					Eligible: i > 0 && i < v,
				}
			}
			if cgTest(0, entries) {
				if residual[0] == 0 {
					emit(A)
				} else {
					grow(v)
				}
			}

			A = A[:len(A)-1]
			residual[0]++
			residual[v]++
		}
	}
	grow(N)
}

func ascending(A []int) graph.VertexSubset {
	W := append(graph.VertexSubset(nil), A...)
	sort.Ints(W)
	return W
}

type realizer struct {
	opts     *Opts
	g        *graph.Graph
	residual []int // remaining degree of each vertex
	sink     orderly.GraphAdder
	stats    *Stats
}

func (re *realizer) realize() {
	N := len(re.residual)
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return re.residual[order[i]] > re.residual[order[j]]
	})

	if N == 0 || re.residual[order[0]] <= 0 {
		re.offer()
		return
	}

	seq := make([]int, N)
	for i, vi := range order {
		seq[i] = re.residual[vi]
	}
	hub := order[0]

	forEachAdjacencySet(seq, func(A []int) {
		newAdj := make(graph.VertexSubset, len(A))
		for i, pos := range A {
			newAdj[i] = order[pos]
		}
		sort.Ints(newAdj)

		hubDegree := re.residual[hub]
		re.residual[hub] = 0
		for _, vi := range newAdj {
			re.mustSetEdge(hub, vi, true)
			re.residual[vi]--
		}

		if re.opts.Filter == nil || re.opts.Filter.AreNewEdgesAcceptable(hub, newAdj, re.g) {
			re.realize()
		}

		for _, vi := range newAdj {
			re.mustSetEdge(hub, vi, false)
			re.residual[vi]++
		}
		re.residual[hub] = hubDegree
	})
}

func (re *realizer) mustSetEdge(u, v int, set bool) {
	var err error
	if set {
		err = re.g.AddEdge(u, v)
	} else {
		err = re.g.RemoveEdge(u, v)
	}
	if err != nil {
		panic(err)
	}
}

func (re *realizer) offer() {
	re.stats.Generated++
	if re.opts.ConnectedOnly && !re.g.IsConnected() {
		return
	}
	re.stats.Accepted++
	if re.sink.TryAddGraph(re.g.Clone()) {
		re.stats.Unique++
	}
}
