package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardLibraryClosedSet(t *testing.T) {
	lib := StandardLibrary()

	want := map[string]int{
		"X": 1, "Z": 1, "H": 1, "S": 1, "T": 1,
		"CNOT": 2, "SWAP": 2, "CCX": 3,
	}
	require.ElementsMatch(t, []string{"X", "Z", "H", "S", "T", "CNOT", "SWAP", "CCX"}, lib.Names())

	for name, arity := range want {
		def, err := lib.Lookup(name)
		require.NoError(t, err)
		require.Equal(t, name, def.Name)
		require.Equal(t, arity, def.Arity)
		require.Equal(t, 1<<arity, def.Matrix.Dim)
		require.True(t, def.Matrix.isUnitary(), "gate %s must be unitary", name)
	}
}

func TestLookupUnknownGate(t *testing.T) {
	lib := StandardLibrary()
	_, err := lib.Lookup("Y")
	require.ErrorIs(t, err, ErrUnknownGate)
}

func TestRegisterRejectsNonUnitary(t *testing.T) {
	lib := NewLibrary()
	err := lib.Register(GateDefinition{
		Name:  "BAD",
		Arity: 1,
		Matrix: NewPackedMatrix(2, []complex128{
			1, 1,
			0, 1,
		}),
	})
	require.ErrorIs(t, err, ErrInvalidGate)

	_, err = lib.Lookup("BAD")
	require.ErrorIs(t, err, ErrUnknownGate)
}

func TestRegisterRejectsWrongShape(t *testing.T) {
	lib := NewLibrary()

	// arity/dim mismatch
	err := lib.Register(GateDefinition{
		Name:   "WIDE",
		Arity:  2,
		Matrix: NewPackedMatrix(2, []complex128{1, 0, 0, 1}),
	})
	require.ErrorIs(t, err, ErrInvalidGate)

	// arity outside 1..3
	err = lib.Register(GateDefinition{
		Name:   "NONE",
		Arity:  0,
		Matrix: NewPackedMatrix(1, []complex128{1}),
	})
	require.ErrorIs(t, err, ErrInvalidGate)
}

func TestGateMatrixSemantics(t *testing.T) {
	lib := StandardLibrary()

	x, err := lib.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, complex128(1), x.Matrix.At(0, 1))
	require.Equal(t, complex128(1), x.Matrix.At(1, 0))

	z, err := lib.Lookup("Z")
	require.NoError(t, err)
	require.Equal(t, complex128(-1), z.Matrix.At(1, 1))

	h, err := lib.Lookup("H")
	require.NoError(t, err)
	require.InDelta(t, 1/math.Sqrt2, real(h.Matrix.At(0, 0)), 1e-12)
	require.InDelta(t, -1/math.Sqrt2, real(h.Matrix.At(1, 1)), 1e-12)

	s, err := lib.Lookup("S")
	require.NoError(t, err)
	require.Equal(t, complex128(1i), s.Matrix.At(1, 1))

	tg, err := lib.Lookup("T")
	require.NoError(t, err)
	require.InDelta(t, math.Cos(math.Pi/4), real(tg.Matrix.At(1, 1)), 1e-12)
	require.InDelta(t, math.Sin(math.Pi/4), imag(tg.Matrix.At(1, 1)), 1e-12)

	// CNOT basis order is control*2+target: |10> and |11> swap.
	cnot, err := lib.Lookup("CNOT")
	require.NoError(t, err)
	require.Equal(t, complex128(1), cnot.Matrix.At(2, 3))
	require.Equal(t, complex128(1), cnot.Matrix.At(3, 2))
	require.Equal(t, complex128(0), cnot.Matrix.At(2, 2))
}
