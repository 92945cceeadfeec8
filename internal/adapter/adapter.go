// Package adapter holds the low-rank parameter delta trained per request.
// An Adapter is owned exclusively by one request's lifecycle, is never
// persisted, and must be disposed on every exit path.
package adapter

import (
	"encoding/binary"
	"math"
)

// headerBytes accounts for rank/dim/lengths in the serialized form.
const headerBytes = 16

// Adapter is a rank-r delta over a d-dimensional embedding space, stored as
// a down-projection (r×d) and an up-projection (d×r) in one backing slice,
// plus the serialized example preamble the delta was trained against.
type Adapter struct {
	rank     int
	dim      int
	params   []float32 // down (rank*dim) followed by up (dim*rank)
	preamble string

	// Scores are filled in after training by the gate path.
	Confidence  float64
	Convergence float64

	disposed bool
}

// New allocates a zero-initialized adapter. A zero delta is the identity:
// Apply returns its input until training moves the weights.
func New(rank, dim int, preamble string) *Adapter {
	return &Adapter{
		rank:     rank,
		dim:      dim,
		params:   make([]float32, 2*rank*dim),
		preamble: preamble,
	}
}

// Rank returns the adapter rank.
func (a *Adapter) Rank() int { return a.rank }

// Dim returns the embedding dimensionality the adapter applies to.
func (a *Adapter) Dim() int { return a.dim }

// Preamble returns the serialized example context the adapter was trained
// on; the base model conditions generation on it when the adapter is
// attached.
func (a *Adapter) Preamble() string {
	if a.disposed {
		return ""
	}
	return a.preamble
}

// Params exposes the backing parameter slice for the trainer. The slice is
// invalidated by Dispose.
func (a *Adapter) Params() []float32 {
	if a.disposed {
		return nil
	}
	return a.params
}

// Apply computes v + up·(down·v) without mutating v. Inputs of the wrong
// dimensionality (or a disposed adapter) pass through unchanged.
func (a *Adapter) Apply(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	if a.disposed || len(v) != a.dim || a.rank == 0 {
		return out
	}
	down := a.params[:a.rank*a.dim]
	up := a.params[a.rank*a.dim:]
	// h = down · v  (rank)
	h := make([]float32, a.rank)
	for r := 0; r < a.rank; r++ {
		row := down[r*a.dim : (r+1)*a.dim]
		var s float32
		for i, x := range v {
			s += row[i] * x
		}
		h[r] = s
	}
	// out += up · h  (dim)
	for i := 0; i < a.dim; i++ {
		row := up[i*a.rank : (i+1)*a.rank]
		var s float32
		for r, hv := range h {
			s += row[r] * hv
		}
		out[i] += s
	}
	return out
}

// SerializedSize returns the byte size of the adapter's wire form, used by
// the gate's memory-limit check.
func (a *Adapter) SerializedSize() int {
	if a.disposed {
		return 0
	}
	return headerBytes + 4*len(a.params) + len(a.preamble)
}

// MarshalBinary serializes the adapter (little endian). Only used for size
// accounting and debugging; adapters are never persisted.
func (a *Adapter) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, a.SerializedSize())
	var hdr [headerBytes]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(a.rank))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(a.dim))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(a.params)))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(a.preamble)))
	buf = append(buf, hdr[:]...)
	var w [4]byte
	for _, p := range a.params {
		binary.LittleEndian.PutUint32(w[:], math.Float32bits(p))
		buf = append(buf, w[:]...)
	}
	buf = append(buf, a.preamble...)
	return buf, nil
}

// Dispose releases the adapter's memory. Idempotent; every lifecycle exit
// path calls it exactly once per adapter.
func (a *Adapter) Dispose() {
	if a.disposed {
		return
	}
	for i := range a.params {
		a.params[i] = 0
	}
	a.params = nil
	a.preamble = ""
	a.disposed = true
}

// Disposed reports whether Dispose has run.
func (a *Adapter) Disposed() bool { return a.disposed }
