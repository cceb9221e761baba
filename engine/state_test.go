package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBasisStateAllSizes(t *testing.T) {
	for n := 1; n <= MaxQubits; n++ {
		s, err := NewBasisState(n, nil)
		require.NoError(t, err)
		require.Len(t, s.Amplitudes, 1<<n)
		require.Equal(t, complex128(1), s.Amplitudes[0])
		for i := 1; i < len(s.Amplitudes); i++ {
			require.Equal(t, complex128(0), s.Amplitudes[i])
		}
		require.InDelta(t, 1.0, s.TotalProbability(), 1e-12)
	}
}

func TestNewBasisStateInitialBits(t *testing.T) {
	// bit[q] lands on basis index bit q: bits 1,0,1 -> index 0b101 = 5
	s, err := NewBasisState(3, []int{1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, complex128(1), s.Amplitudes[5])
	require.InDelta(t, 1.0, s.TotalProbability(), 1e-12)

	// fewer bits than qubits: the rest default to zero
	s, err = NewBasisState(3, []int{1})
	require.NoError(t, err)
	require.Equal(t, complex128(1), s.Amplitudes[1])
}

func TestNewBasisStateRejectsBadInput(t *testing.T) {
	_, err := NewBasisState(0, nil)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewBasisState(MaxQubits+1, nil)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewBasisState(2, []int{0, 1, 1})
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewBasisState(2, []int{2})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestCloneSharesNoStorage(t *testing.T) {
	s, err := NewBasisState(2, nil)
	require.NoError(t, err)

	c := s.Clone()
	c.Amplitudes[0] = 0
	c.Amplitudes[3] = 1

	require.Equal(t, complex128(1), s.Amplitudes[0])
	require.Equal(t, complex128(0), s.Amplitudes[3])
}

func TestBasisLabelPrintsMSBFirst(t *testing.T) {
	require.Equal(t, "|001⟩", BasisLabel(1, 3))
	require.Equal(t, "|100⟩", BasisLabel(4, 3))
	require.Equal(t, "|11⟩", BasisLabel(3, 2))
	require.Equal(t, "|0⟩", BasisLabel(0, 1))
}

func TestEnumerate(t *testing.T) {
	s, err := NewBasisState(2, []int{0, 1})
	require.NoError(t, err)

	rows := s.Enumerate()
	require.Len(t, rows, 4)
	require.Equal(t, "|00⟩", rows[0].Label)
	require.Equal(t, "|10⟩", rows[2].Label)
	require.InDelta(t, 1.0, rows[2].Probability, 1e-12)
	require.InDelta(t, 0.0, rows[0].Probability, 1e-12)
}
