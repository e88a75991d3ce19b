package graph

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
)

// Traces is a sequence of closed walk counts: Traces[i] == trace(A^(i+1)) where A is the adjacency matrix.
//
// Traces are invariant under relabeling, so graphs with different Traces are never isomorphic.
// Counts are accumulated in wrapping int64 arithmetic, which preserves the invariant for large orders.
type Traces []int64

// Traces returns the first numTraces closed walk counts of g.  numTraces <= 0 denotes Order().
func (g *Graph) Traces(numTraces int) Traces {
	Nv := g.n
	Nt := numTraces
	if Nt <= 0 {
		Nt = Nv
	}
	TX := make(Traces, Nt)
	if Nv == 0 {
		return TX
	}

	// Ci0 holds walk counts of the previous length (row-major), starting with the identity.
	NvNv := Nv * Nv
	scrap := make([]int64, NvNv*2)
	Ci0 := scrap[:NvNv]
	Ci1 := scrap[NvNv:]
	for vi := 0; vi < Nv; vi++ {
		Ci0[Nv*vi+vi] = 1
	}

	for ti := 0; ti < Nt; ti++ {
		TX_ci := int64(0)

		for vi := 0; vi < Nv; vi++ {
			Ci0_vi := Ci0[Nv*vi : Nv*(vi+1)]
			Ci1_vi := Ci1[Nv*vi : Nv*(vi+1)]

			for vj := 0; vj < Nv; vj++ {
				totalFlow := int64(0)
				for m := g.rows[vj]; m != 0; m &= m - 1 {
					totalFlow += Ci0_vi[bits.TrailingZeros64(m)]
				}
				Ci1_vi[vj] = totalFlow
			}

			TX_ci += Ci1_vi[vi] // accumulate closed walks of length ti+1
		}

		TX[ti] = TX_ci

		// swap previous and next states to advance
		Ci0, Ci1 = Ci1, Ci0
	}

	return TX
}

// IsEqual returns if two traces have the same prefix.
// The number of elements compared is the trace with the shorter length, so a Traces of length 0 will be equal to all other Traces.
func (TX Traces) IsEqual(target Traces) bool {
	N := min(len(TX), len(target))
	for i := 0; i < N; i++ {
		if TX[i] != target[i] {
			return false
		}
	}
	return true
}

// AppendTracesLSM appends a binary encoding of TX to out: odd-length walk counts first, then even ones.
func (TX Traces) AppendTracesLSM(out []byte) []byte {
	var scrap [binary.MaxVarintLen64]byte

	key := out
	for i := 0; i < len(TX); i += 2 {
		n := binary.PutVarint(scrap[:], TX[i])
		key = append(key, scrap[:n]...)
	}
	for i := 1; i < len(TX); i += 2 {
		n := binary.PutVarint(scrap[:], TX[i])
		key = append(key, scrap[:n]...)
	}
	return key
}

// InitFromTracesLSM assigns this Traces from an encoding made by AppendTracesLSM() of numTraces values.
func (TX *Traces) InitFromTracesLSM(enc []byte, numTraces int) error {
	vals := make([]int64, 0, numTraces)
	rdr := bytes.NewReader(enc)
	for len(vals) < numTraces {
		val, err := binary.ReadVarint(rdr)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		vals = append(vals, val)
	}

	out := make(Traces, numTraces)
	odd := (numTraces + 1) / 2
	for i := 0; i < odd; i++ {
		out[2*i] = vals[i]
	}
	for i := odd; i < numTraces; i++ {
		out[2*(i-odd)+1] = vals[i]
	}
	*TX = out
	return nil
}
