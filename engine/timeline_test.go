package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTimelineGroupsColumns(t *testing.T) {
	lib := StandardLibrary()
	circ := CircuitDefinition{
		NumQubits: 2,
		Gates: []GateInstance{
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "X", Targets: []int{1}, Column: 0},
		},
	}

	entries, err := lib.BuildTimeline(circ)
	require.NoError(t, err)
	require.Len(t, entries, 2, "two same-column gates make one post-initial entry")

	require.Equal(t, 0, entries[0].Step)
	require.Equal(t, -1, entries[0].Column)
	require.Empty(t, entries[0].Gates)

	require.Equal(t, 1, entries[1].Step)
	require.Equal(t, 0, entries[1].Column)
	require.Len(t, entries[1].Gates, 2)

	// both gates applied: X on q1 then H on q0 -> |10⟩ and |11⟩ at 0.5
	final := entries[1].State
	require.InDelta(t, 0.5, amp2(final.Amplitudes[2]), 1e-9)
	require.InDelta(t, 0.5, amp2(final.Amplitudes[3]), 1e-9)
}

func TestBuildTimelineSameColumnOrderIndependent(t *testing.T) {
	lib := StandardLibrary()
	forward := CircuitDefinition{
		NumQubits: 2,
		Gates: []GateInstance{
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "X", Targets: []int{1}, Column: 0},
		},
	}
	reversed := CircuitDefinition{
		NumQubits: 2,
		Gates: []GateInstance{
			{ID: "b", Gate: "X", Targets: []int{1}, Column: 0},
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
		},
	}

	e1, err := lib.BuildTimeline(forward)
	require.NoError(t, err)
	e2, err := lib.BuildTimeline(reversed)
	require.NoError(t, err)
	require.Equal(t, e1[1].State.Amplitudes, e2[1].State.Amplitudes)
}

func TestBuildTimelineColumnOrdering(t *testing.T) {
	lib := StandardLibrary()
	// columns supplied out of order, with a gap
	circ := CircuitDefinition{
		NumQubits: 2,
		Gates: []GateInstance{
			{ID: "c", Gate: "CNOT", Targets: []int{0, 1}, Column: 4},
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 1},
		},
	}

	entries, err := lib.BuildTimeline(circ)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, 1, entries[1].Column)
	require.Equal(t, 4, entries[2].Column)

	// the replay is H then CNOT: a Bell pair
	final := entries[2].State
	require.InDelta(t, 0.5, amp2(final.Amplitudes[0]), 1e-9)
	require.InDelta(t, 0.5, amp2(final.Amplitudes[3]), 1e-9)
}

func TestBuildTimelineDeterministic(t *testing.T) {
	lib := StandardLibrary()
	circ := CircuitDefinition{
		NumQubits: 3,
		Gates: []GateInstance{
			{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "T", Targets: []int{0}, Column: 1},
			{ID: "c", Gate: "CNOT", Targets: []int{0, 2}, Column: 2},
		},
	}

	e1, err := lib.BuildTimeline(circ)
	require.NoError(t, err)
	e2, err := lib.BuildTimeline(circ)
	require.NoError(t, err)

	require.Equal(t, len(e1), len(e2))
	for i := range e1 {
		require.Equal(t, e1[i].State.Amplitudes, e2[i].State.Amplitudes, "step %d", i)
	}
}

func TestTimelineEntriesDoNotAlias(t *testing.T) {
	lib := StandardLibrary()
	circ := CircuitDefinition{
		NumQubits: 1,
		Gates: []GateInstance{
			{ID: "a", Gate: "X", Targets: []int{0}, Column: 0},
			{ID: "b", Gate: "X", Targets: []int{0}, Column: 1},
		},
	}

	entries, err := lib.BuildTimeline(circ)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// each step owns its own vector: earlier snapshots keep their values
	require.Equal(t, complex128(1), entries[0].State.Amplitudes[0])
	require.Equal(t, complex128(1), entries[1].State.Amplitudes[1])
	require.Equal(t, complex128(1), entries[2].State.Amplitudes[0])
}

func TestBuildTimelineRejectsInvalidCircuit(t *testing.T) {
	lib := StandardLibrary()
	_, err := lib.BuildTimeline(CircuitDefinition{
		NumQubits: 2,
		Gates:     []GateInstance{{ID: "a", Gate: "Y", Targets: []int{0}, Column: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidCircuit)
	require.ErrorIs(t, err, ErrUnknownGate)
}

func TestResumeTimelineReplaysSuffix(t *testing.T) {
	lib := StandardLibrary()
	gates := []GateInstance{
		{ID: "a", Gate: "H", Targets: []int{0}, Column: 0},
		{ID: "b", Gate: "X", Targets: []int{1}, Column: 1},
	}
	entries, err := lib.BuildTimeline(CircuitDefinition{NumQubits: 2, Gates: gates})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// replace step 1's state with a definite |0⟩ on q0, replay column 1
	collapsed, err := NewBasisState(2, nil)
	require.NoError(t, err)

	resumed, err := lib.ResumeTimeline(entries, 1, collapsed, gates)
	require.NoError(t, err)
	require.Len(t, resumed, 3)

	// step 1 carries the substituted state, step 2 has X applied to it
	require.Equal(t, complex128(1), resumed[1].State.Amplitudes[0])
	require.Equal(t, complex128(1), resumed[2].State.Amplitudes[2])
	require.Equal(t, 1, resumed[2].Column)

	// the substituted state was cloned, not aliased
	collapsed.Amplitudes[0] = 0
	require.Equal(t, complex128(1), resumed[1].State.Amplitudes[0])
}

func TestResumeTimelineRejectsBadStep(t *testing.T) {
	lib := StandardLibrary()
	entries, err := lib.BuildTimeline(CircuitDefinition{NumQubits: 1})
	require.NoError(t, err)

	s, err := NewBasisState(1, nil)
	require.NoError(t, err)

	_, err = lib.ResumeTimeline(entries, 3, s, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}
