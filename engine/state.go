package engine

import (
	"fmt"
	"strings"
)

// StateVector holds one complex amplitude per basis state of an
// n-qubit register, indexed little-endian in qubit order: basis index
// bit q is qubit q's value. Exactly one timeline entry or in-flight
// computation owns a vector at a time; history is kept by cloning,
// never by aliasing.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// amp2 is the squared magnitude |z|^2, the Born-rule weight of one
// amplitude.
func amp2(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// NewBasisState builds the computational-basis state encoded by
// initialBits (little-endian in qubit index; missing bits default to
// zero). The register size is bounded by MaxQubits.
func NewBasisState(numQubits int, initialBits []int) (*StateVector, error) {
	if err := EnforceQubitLimit(numQubits); err != nil {
		return nil, err
	}
	if len(initialBits) > numQubits {
		return nil, fmt.Errorf("%w: %d initial bits for %d qubits", ErrOutOfRange, len(initialBits), numQubits)
	}
	index := 0
	for q, bit := range initialBits {
		switch bit {
		case 0:
		case 1:
			index |= 1 << q
		default:
			return nil, fmt.Errorf("%w: initial bit %d is %d, want 0 or 1", ErrOutOfRange, q, bit)
		}
	}
	amps := make([]complex128, 1<<numQubits)
	amps[index] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}, nil
}

// Clone returns a deep copy sharing no storage with s.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// TotalProbability is the sum of |amplitude|^2 over all basis states,
// ~1 for any valid state.
func (s *StateVector) TotalProbability() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += amp2(a)
	}
	return total
}

// BasisAmplitude is one row of the per-basis enumeration consumed by
// the state panel.
type BasisAmplitude struct {
	Index       int
	Label       string
	Amplitude   complex128
	Probability float64
}

// Enumerate lists every basis state with its label, amplitude and
// probability, in basis-index order.
func (s *StateVector) Enumerate() []BasisAmplitude {
	rows := make([]BasisAmplitude, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		rows[i] = BasisAmplitude{
			Index:       i,
			Label:       BasisLabel(i, s.NumQubits),
			Amplitude:   a,
			Probability: amp2(a),
		}
	}
	return rows
}

// BasisLabel renders a basis index as a ket, most significant qubit
// first: index 1 of a 3-qubit register is "|001⟩".
func BasisLabel(index, numQubits int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for q := numQubits - 1; q >= 0; q-- {
		if index&(1<<q) != 0 {
			sb.WriteString("1")
		} else {
			sb.WriteString("0")
		}
	}
	sb.WriteString("⟩")
	return sb.String()
}
