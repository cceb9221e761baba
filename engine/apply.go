package engine

import "fmt"

// Apply multiplies the named gate's unitary into the target qubits of
// state, in place. It never clones: callers that need history must
// clone first. Targets may be in any order and need not be adjacent;
// the j-th listed target maps to matrix-index bit arity-1-j, matching
// the basis ordering the standard matrices are written in.
func (l *Library) Apply(state *StateVector, name string, targets []int) error {
	def, err := l.Lookup(name)
	if err != nil {
		return err
	}
	if len(targets) != def.Arity {
		return fmt.Errorf("%w: gate %q wants %d targets, got %d",
			ErrArityMismatch, name, def.Arity, len(targets))
	}
	if err := checkTargets(targets, state.NumQubits); err != nil {
		return fmt.Errorf("gate %q: %w", name, err)
	}
	if def.Arity == 1 {
		applySingle(state, def.Matrix, targets[0])
		return nil
	}
	applyMulti(state, def.Matrix, targets)
	return nil
}

// checkTargets rejects out-of-range and repeated qubit indices.
func checkTargets(targets []int, numQubits int) error {
	for i, t := range targets {
		if t < 0 || t >= numQubits {
			return fmt.Errorf("%w: qubit %d with %d-qubit register", ErrOutOfRange, t, numQubits)
		}
		for j := 0; j < i; j++ {
			if targets[j] == t {
				return fmt.Errorf("%w: qubit %d", ErrDuplicateTarget, t)
			}
		}
	}
	return nil
}

// applySingle handles the arity-1 case. Acting on qubit t only mixes
// amplitude pairs whose indices differ in bit t, so each pair is
// replaced by the 2x2 matrix-vector product with no intermediate
// allocation.
func applySingle(state *StateVector, m PackedMatrix, t int) {
	bit := 1 << t
	amps := state.Amplitudes
	for i := range amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := amps[i], amps[j]
		amps[i] = m.At(0, 0)*a0 + m.At(0, 1)*a1
		amps[j] = m.At(1, 0)*a0 + m.At(1, 1)*a1
	}
}

// applyMulti handles arity >= 2 as a tensor contraction: for every
// assignment of the spectator (non-target) qubits it gathers the
// 2^arity sub-vector addressed by the targets, multiplies by the full
// gate matrix, and scatters the product back to the same indices.
func applyMulti(state *StateVector, m PackedMatrix, targets []int) {
	dim := m.Dim
	arity := len(targets)

	spectators := make([]int, 0, state.NumQubits-arity)
	for q := 0; q < state.NumQubits; q++ {
		inTargets := false
		for _, t := range targets {
			if t == q {
				inTargets = true
				break
			}
		}
		if !inTargets {
			spectators = append(spectators, q)
		}
	}

	// indices[r] is the full basis index for matrix row r under the
	// current spectator assignment; the target-bit offsets never
	// change, so precompute them.
	offsets := make([]int, dim)
	for r := 0; r < dim; r++ {
		for j, t := range targets {
			if r&(1<<(arity-1-j)) != 0 {
				offsets[r] |= 1 << t
			}
		}
	}

	sub := make([]complex128, dim)
	amps := state.Amplitudes
	for combo := 0; combo < 1<<len(spectators); combo++ {
		base := 0
		for i, q := range spectators {
			if combo&(1<<i) != 0 {
				base |= 1 << q
			}
		}
		for r := 0; r < dim; r++ {
			sub[r] = amps[base|offsets[r]]
		}
		for r := 0; r < dim; r++ {
			var acc complex128
			for c := 0; c < dim; c++ {
				acc += m.At(r, c) * sub[c]
			}
			amps[base|offsets[r]] = acc
		}
	}
}
