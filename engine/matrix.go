package engine

import (
	"math/cmplx"
)

// unitaryEps bounds the deviation tolerated by the unitarity check.
const unitaryEps = 1e-9

// PackedMatrix is a square matrix of complex entries, row-major, sized
// 2^arity on a side. Gate matrices are packed once at registration and
// never mutated afterwards.
type PackedMatrix struct {
	Dim     int
	Entries []complex128
}

// NewPackedMatrix packs row-major entries into a matrix of the given
// dimension. The entry slice is copied so the caller keeps ownership.
func NewPackedMatrix(dim int, entries []complex128) PackedMatrix {
	m := PackedMatrix{Dim: dim, Entries: make([]complex128, dim*dim)}
	copy(m.Entries, entries)
	return m
}

// At returns the entry at row r, column c.
func (m PackedMatrix) At(r, c int) complex128 {
	return m.Entries[r*m.Dim+c]
}

// isUnitary reports whether m·m† = I within unitaryEps, entrywise.
func (m PackedMatrix) isUnitary() bool {
	if len(m.Entries) != m.Dim*m.Dim {
		return false
	}
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			var sum complex128
			for k := 0; k < m.Dim; k++ {
				sum += m.At(r, k) * cmplx.Conj(m.At(c, k))
			}
			want := complex128(0)
			if r == c {
				want = 1
			}
			if cmplx.Abs(sum-want) > unitaryEps {
				return false
			}
		}
	}
	return true
}
