// Package engine implements a dense state-vector simulator for small
// quantum circuits: a closed library of unitary gates, in-place gate
// application, a stepwise execution timeline, and Born-rule measurement
// with collapse. The register is capped at MaxQubits so the full 2^n
// amplitude vector stays trivially small.
package engine

import "errors"

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; wrapped variants carry the offending gate/qubit context.
var (
	// ErrUnknownGate is returned when a gate name is not in the closed set.
	ErrUnknownGate = errors.New("engine: unknown gate")

	// ErrArityMismatch is returned when the number of target qubits does
	// not equal the gate's arity.
	ErrArityMismatch = errors.New("engine: target count does not match gate arity")

	// ErrOutOfRange is returned for a qubit index or qubit count outside
	// the valid bounds.
	ErrOutOfRange = errors.New("engine: index out of range")

	// ErrDuplicateTarget is returned when one gate names the same qubit twice.
	ErrDuplicateTarget = errors.New("engine: duplicate target qubit")

	// ErrEmptySelection is returned for a measurement with no qubits chosen.
	ErrEmptySelection = errors.New("engine: empty qubit selection")

	// ErrInvalidGate is returned when a registered matrix fails the
	// unitarity check. Registration-time only; a failure in the curated
	// standard table indicates a corrupted gate definition.
	ErrInvalidGate = errors.New("engine: gate matrix is not unitary")

	// ErrInvalidCircuit is returned when a loaded circuit fails validation.
	// The wrapped error also matches the specific violation above.
	ErrInvalidCircuit = errors.New("engine: invalid circuit")
)
