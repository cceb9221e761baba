package engine

import "fmt"

// MaxQubits caps the register size so the dense amplitude vector stays
// at most 64 entries.
const MaxQubits = 6

// EnforceQubitLimit rejects register sizes outside 1..MaxQubits.
func EnforceQubitLimit(numQubits int) error {
	if numQubits < 1 || numQubits > MaxQubits {
		return fmt.Errorf("%w: %d qubits, supported range is 1..%d", ErrOutOfRange, numQubits, MaxQubits)
	}
	return nil
}

// GateInstance is one placement of a library gate onto the circuit.
// Targets are ordered the way the gate's matrix expects them (control
// qubits first for CNOT/CCX). Instances sharing a column execute as one
// simultaneous step.
type GateInstance struct {
	ID      string `json:"id"`
	Gate    string `json:"gate"`
	Targets []int  `json:"targets"`
	Column  int    `json:"column"`
}

// CircuitDefinition is the serializable unit exchanged with the
// frontend and the persistence layer: register size, optional initial
// classical bits, and every gate placement.
type CircuitDefinition struct {
	NumQubits   int            `json:"numQubits"`
	InitialBits []int          `json:"initialBits,omitempty"`
	Gates       []GateInstance `json:"gates"`
}

// Validate checks a circuit handed back from outside: qubit bounds,
// known gate names, target arity/range/distinctness, non-negative
// columns, and well-formed initial bits. The returned error matches
// ErrInvalidCircuit as well as the specific violation.
func (l *Library) Validate(circ CircuitDefinition) error {
	if err := EnforceQubitLimit(circ.NumQubits); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCircuit, err)
	}
	if len(circ.InitialBits) > circ.NumQubits {
		return fmt.Errorf("%w: %w: %d initial bits for %d qubits",
			ErrInvalidCircuit, ErrOutOfRange, len(circ.InitialBits), circ.NumQubits)
	}
	for q, bit := range circ.InitialBits {
		if bit != 0 && bit != 1 {
			return fmt.Errorf("%w: %w: initial bit %d is %d, want 0 or 1",
				ErrInvalidCircuit, ErrOutOfRange, q, bit)
		}
	}
	for _, g := range circ.Gates {
		def, err := l.Lookup(g.Gate)
		if err != nil {
			return fmt.Errorf("%w: placement %s: %w", ErrInvalidCircuit, g.ID, err)
		}
		if len(g.Targets) != def.Arity {
			return fmt.Errorf("%w: placement %s: %w: gate %q wants %d targets, got %d",
				ErrInvalidCircuit, g.ID, ErrArityMismatch, g.Gate, def.Arity, len(g.Targets))
		}
		if err := checkTargets(g.Targets, circ.NumQubits); err != nil {
			return fmt.Errorf("%w: placement %s: %w", ErrInvalidCircuit, g.ID, err)
		}
		if g.Column < 0 {
			return fmt.Errorf("%w: placement %s: %w: column %d",
				ErrInvalidCircuit, g.ID, ErrOutOfRange, g.Column)
		}
	}
	return nil
}
