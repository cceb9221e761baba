package engine

import (
	"fmt"
	"sort"
)

// TimelineEntry is an immutable snapshot of the register after one
// execution step: the state, the gates applied to reach it (empty only
// for the initial entry), and the column those gates came from (-1 for
// the initial entry). Entries are produced only by the builders below
// and never mutated; circuit edits regenerate the sequence.
type TimelineEntry struct {
	Step   int
	Column int
	State  *StateVector
	Gates  []GateInstance
}

// sortPlacements orders gates by column, id as tiebreak, so replays are
// deterministic regardless of placement order.
func sortPlacements(gates []GateInstance) []GateInstance {
	sorted := make([]GateInstance, len(gates))
	copy(sorted, gates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Column != sorted[j].Column {
			return sorted[i].Column < sorted[j].Column
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// replayColumns extends entries with one snapshot per distinct column
// in gates, cloning the previous state before applying that column's
// gates. gates must already be sorted.
func (l *Library) replayColumns(entries []TimelineEntry, gates []GateInstance) ([]TimelineEntry, error) {
	for i := 0; i < len(gates); {
		j := i
		for j < len(gates) && gates[j].Column == gates[i].Column {
			j++
		}
		column := gates[i].Column
		state := entries[len(entries)-1].State.Clone()
		for _, g := range gates[i:j] {
			if err := l.Apply(state, g.Gate, g.Targets); err != nil {
				return nil, fmt.Errorf("column %d, placement %s: %w", column, g.ID, err)
			}
		}
		entries = append(entries, TimelineEntry{
			Step:   len(entries),
			Column: column,
			State:  state,
			Gates:  gates[i:j],
		})
		i = j
	}
	return entries, nil
}

// BuildTimeline replays the whole circuit from its basis state and
// returns one entry per execution step, same-column gates grouped as a
// single simultaneous step. Step 0 is the bare initial state. The
// replay is deterministic: identical inputs produce bit-identical
// sequences.
func (l *Library) BuildTimeline(circ CircuitDefinition) ([]TimelineEntry, error) {
	if err := l.Validate(circ); err != nil {
		return nil, err
	}
	initial, err := NewBasisState(circ.NumQubits, circ.InitialBits)
	if err != nil {
		return nil, err
	}
	entries := []TimelineEntry{{Step: 0, Column: -1, State: initial}}
	return l.replayColumns(entries, sortPlacements(circ.Gates))
}

// ResumeTimeline rebuilds the suffix of a timeline after the entry at
// step had its state replaced (by measurement collapse): entries past
// step are discarded, the entry at step is re-issued with the new
// state, and gates at strictly later columns are replayed from it using
// the same per-column grouping as a full build.
func (l *Library) ResumeTimeline(entries []TimelineEntry, step int, state *StateVector, gates []GateInstance) ([]TimelineEntry, error) {
	if step < 0 || step >= len(entries) {
		return nil, fmt.Errorf("%w: step %d with %d timeline entries", ErrOutOfRange, step, len(entries))
	}
	current := entries[step]
	kept := make([]TimelineEntry, step+1)
	copy(kept, entries[:step])
	kept[step] = TimelineEntry{
		Step:   step,
		Column: current.Column,
		State:  state.Clone(),
		Gates:  current.Gates,
	}

	var ahead []GateInstance
	for _, g := range sortPlacements(gates) {
		if g.Column > current.Column {
			ahead = append(ahead, g)
		}
	}
	return l.replayColumns(kept, ahead)
}
