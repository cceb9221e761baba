package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// MeasurementResult reports one measurement: the sorted unique qubits
// read, the sampled sub-pattern (bit 0 = lowest measured qubit), its
// labels, and the Born-rule probability of every possible sub-pattern.
type MeasurementResult struct {
	Qubits        []int
	Pattern       int
	Outcome       string             // bitstring, highest measured qubit first
	Label         string             // e.g. "q0=1 q2=0", matches the map keys
	Probabilities map[string]float64 // pattern label -> probability
}

// Measure samples a classical outcome for the chosen qubit subset and
// returns the collapsed, renormalized state alongside the result. The
// input state is not modified. rng may be nil, in which case the shared
// math/rand source draws the sample; passing a seeded source makes the
// outcome reproducible.
//
// The operation is atomic from the caller's view: probabilities are
// accumulated over every basis state, an outcome is drawn by CDF
// inversion (ties toward the lower pattern), amplitudes inconsistent
// with it are zeroed and the survivors renormalized. Should the
// surviving mass be exactly zero — unreachable under unitary evolution
// of a normalized state — the state is left all-zero rather than
// raising an error.
func Measure(state *StateVector, qubits []int, rng *rand.Rand) (*StateVector, *MeasurementResult, error) {
	if len(qubits) == 0 {
		return nil, nil, ErrEmptySelection
	}
	seen := make(map[int]bool, len(qubits))
	var measured []int
	for _, q := range qubits {
		if q < 0 || q >= state.NumQubits {
			return nil, nil, fmt.Errorf("%w: measuring qubit %d with %d-qubit register",
				ErrOutOfRange, q, state.NumQubits)
		}
		if !seen[q] {
			seen[q] = true
			measured = append(measured, q)
		}
	}
	sort.Ints(measured)

	// Born-rule table over the 2^k sub-patterns.
	table := make([]float64, 1<<len(measured))
	for i, a := range state.Amplitudes {
		table[subPattern(i, measured)] += amp2(a)
	}

	total := 0.0
	for _, p := range table {
		total += p
	}

	// total should be ~1 but floating-point drift is tolerated: the
	// draw is scaled to the actual mass.
	pattern := 0
	if total > 0 {
		draw := total
		if rng != nil {
			draw *= rng.Float64()
		} else {
			draw *= rand.Float64()
		}
		cum := 0.0
		for i, p := range table {
			cum += p
			if cum >= draw {
				pattern = i
				break
			}
		}
	}

	next := state.Clone()
	surviving := 0.0
	for i, a := range next.Amplitudes {
		if subPattern(i, measured) != pattern {
			next.Amplitudes[i] = 0
		} else {
			surviving += amp2(a)
		}
	}
	if surviving > 0 {
		norm := complex(1/math.Sqrt(surviving), 0)
		for i, a := range next.Amplitudes {
			next.Amplitudes[i] = a * norm
		}
	}

	probs := make(map[string]float64, len(table))
	for i, p := range table {
		probs[patternLabel(i, measured)] = p
	}
	result := &MeasurementResult{
		Qubits:        measured,
		Pattern:       pattern,
		Outcome:       patternBits(pattern, len(measured)),
		Label:         patternLabel(pattern, measured),
		Probabilities: probs,
	}
	return next, result, nil
}

// subPattern extracts the bits of basis index i at the measured qubit
// positions; the first (lowest) measured qubit lands on pattern bit 0.
func subPattern(i int, measured []int) int {
	pattern := 0
	for bit, q := range measured {
		if i&(1<<q) != 0 {
			pattern |= 1 << bit
		}
	}
	return pattern
}

// patternLabel renders a sub-pattern as "q0=1 q2=0".
func patternLabel(pattern int, measured []int) string {
	parts := make([]string, len(measured))
	for bit, q := range measured {
		v := 0
		if pattern&(1<<bit) != 0 {
			v = 1
		}
		parts[bit] = fmt.Sprintf("q%d=%d", q, v)
	}
	return strings.Join(parts, " ")
}

// patternBits renders a sub-pattern as a bitstring, highest measured
// qubit first.
func patternBits(pattern, k int) string {
	var sb strings.Builder
	for bit := k - 1; bit >= 0; bit-- {
		if pattern&(1<<bit) != 0 {
			sb.WriteString("1")
		} else {
			sb.WriteString("0")
		}
	}
	return sb.String()
}
