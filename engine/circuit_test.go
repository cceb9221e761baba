package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnforceQubitLimit(t *testing.T) {
	require.ErrorIs(t, EnforceQubitLimit(0), ErrOutOfRange)
	require.ErrorIs(t, EnforceQubitLimit(7), ErrOutOfRange)
	for n := 1; n <= MaxQubits; n++ {
		require.NoError(t, EnforceQubitLimit(n))
	}
}

func TestValidateReportsSpecificKind(t *testing.T) {
	lib := StandardLibrary()

	cases := []struct {
		name string
		circ CircuitDefinition
		kind error
	}{
		{
			name: "zero qubits",
			circ: CircuitDefinition{NumQubits: 0},
			kind: ErrOutOfRange,
		},
		{
			name: "seven qubits",
			circ: CircuitDefinition{NumQubits: 7},
			kind: ErrOutOfRange,
		},
		{
			name: "unknown gate",
			circ: CircuitDefinition{NumQubits: 2, Gates: []GateInstance{
				{ID: "a", Gate: "RX", Targets: []int{0}, Column: 0},
			}},
			kind: ErrUnknownGate,
		},
		{
			name: "arity mismatch",
			circ: CircuitDefinition{NumQubits: 2, Gates: []GateInstance{
				{ID: "a", Gate: "CNOT", Targets: []int{0}, Column: 0},
			}},
			kind: ErrArityMismatch,
		},
		{
			name: "duplicate targets",
			circ: CircuitDefinition{NumQubits: 2, Gates: []GateInstance{
				{ID: "a", Gate: "SWAP", Targets: []int{1, 1}, Column: 0},
			}},
			kind: ErrDuplicateTarget,
		},
		{
			name: "target out of range",
			circ: CircuitDefinition{NumQubits: 2, Gates: []GateInstance{
				{ID: "a", Gate: "X", Targets: []int{5}, Column: 0},
			}},
			kind: ErrOutOfRange,
		},
		{
			name: "negative column",
			circ: CircuitDefinition{NumQubits: 2, Gates: []GateInstance{
				{ID: "a", Gate: "X", Targets: []int{0}, Column: -1},
			}},
			kind: ErrOutOfRange,
		},
		{
			name: "bad initial bit",
			circ: CircuitDefinition{NumQubits: 2, InitialBits: []int{0, 2}},
			kind: ErrOutOfRange,
		},
		{
			name: "too many initial bits",
			circ: CircuitDefinition{NumQubits: 2, InitialBits: []int{0, 0, 0}},
			kind: ErrOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := lib.Validate(tc.circ)
			require.ErrorIs(t, err, ErrInvalidCircuit)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestValidateAcceptsWellFormedCircuit(t *testing.T) {
	lib := StandardLibrary()
	require.NoError(t, lib.Validate(CircuitDefinition{
		NumQubits:   3,
		InitialBits: []int{1, 0, 1},
		Gates: []GateInstance{
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "CCX", Targets: []int{0, 1, 2}, Column: 1},
		},
	}))
}

func TestCircuitJSONRoundTripReproducesTimeline(t *testing.T) {
	lib := StandardLibrary()
	circ := CircuitDefinition{
		NumQubits:   3,
		InitialBits: []int{0, 1},
		Gates: []GateInstance{
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "T", Targets: []int{1}, Column: 0},
			{ID: "c", Gate: "CNOT", Targets: []int{0, 2}, Column: 1},
			{ID: "d", Gate: "SWAP", Targets: []int{1, 2}, Column: 2},
		},
	}

	data, err := json.Marshal(circ)
	require.NoError(t, err)

	var loaded CircuitDefinition
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, circ, loaded)

	e1, err := lib.BuildTimeline(circ)
	require.NoError(t, err)
	e2, err := lib.BuildTimeline(loaded)
	require.NoError(t, err)

	// bit-for-bit: no randomness outside measurement
	require.Equal(t,
		e1[len(e1)-1].State.Amplitudes,
		e2[len(e2)-1].State.Amplitudes)
}
