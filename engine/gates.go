package engine

import (
	"fmt"
	"math"
	"math/cmplx"
)

// GateDefinition describes one gate in the closed set: its matrix, the
// number of qubits it acts on, and presentation metadata the composer
// uses for menus and tooltips. Definitions are immutable after
// registration.
type GateDefinition struct {
	Name        string
	Label       string // short symbol shown in a circuit cell
	Description string
	Arity       int
	Matrix      PackedMatrix
	Color       string // hex color hint for the frontend
}

// Library is the closed, validated set of supported gates. Construct it
// once (StandardLibrary) and pass it by reference wherever gate lookup
// is needed; there is no package-level registry.
type Library struct {
	gates map[string]*GateDefinition
	names []string // registration order, for stable menus
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{gates: make(map[string]*GateDefinition)}
}

// Register validates the definition and adds it to the library.
// The matrix must be unitary within 1e-9 and sized 2^arity.
func (l *Library) Register(def GateDefinition) error {
	if def.Arity < 1 || def.Arity > 3 {
		return fmt.Errorf("%w: gate %q has arity %d", ErrInvalidGate, def.Name, def.Arity)
	}
	if def.Matrix.Dim != 1<<def.Arity {
		return fmt.Errorf("%w: gate %q matrix dim %d, want %d",
			ErrInvalidGate, def.Name, def.Matrix.Dim, 1<<def.Arity)
	}
	if !def.Matrix.isUnitary() {
		return fmt.Errorf("%w: gate %q", ErrInvalidGate, def.Name)
	}
	if _, ok := l.gates[def.Name]; !ok {
		l.names = append(l.names, def.Name)
	}
	l.gates[def.Name] = &def
	return nil
}

// Lookup returns the definition for name.
func (l *Library) Lookup(name string) (*GateDefinition, error) {
	def, ok := l.gates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGate, name)
	}
	return def, nil
}

// Names returns gate names in registration order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// StandardLibrary builds the closed gate set: X, Z, H, S, T, CNOT, SWAP
// and CCX. Multi-qubit matrices are written with the first listed target
// on the most significant matrix-index bit, so CNOT's basis ordering is
// control*2+target and CCX extends the same convention to 8x8.
//
// A unitarity failure here means the table itself is corrupted, so it
// panics rather than returning an error.
func StandardLibrary() *Library {
	invSqrt2 := complex(1/math.Sqrt2, 0)
	tPhase := cmplx.Exp(complex(0, math.Pi/4))

	defs := []GateDefinition{
		{
			Name: "X", Label: "X", Arity: 1, Color: "#f7768e",
			Description: "Pauli-X (NOT): swaps the |0> and |1> amplitudes",
			Matrix: NewPackedMatrix(2, []complex128{
				0, 1,
				1, 0,
			}),
		},
		{
			Name: "Z", Label: "Z", Arity: 1, Color: "#7aa2f7",
			Description: "Pauli-Z: negates the amplitude of |1>",
			Matrix: NewPackedMatrix(2, []complex128{
				1, 0,
				0, -1,
			}),
		},
		{
			Name: "H", Label: "H", Arity: 1, Color: "#e0af68",
			Description: "Hadamard: maps |0> and |1> to equal superpositions",
			Matrix: NewPackedMatrix(2, []complex128{
				invSqrt2, invSqrt2,
				invSqrt2, -invSqrt2,
			}),
		},
		{
			Name: "S", Label: "S", Arity: 1, Color: "#9ece6a",
			Description: "Phase: applies a +i phase to |1>",
			Matrix: NewPackedMatrix(2, []complex128{
				1, 0,
				0, 1i,
			}),
		},
		{
			Name: "T", Label: "T", Arity: 1, Color: "#73daca",
			Description: "T: applies an e^(i*pi/4) phase to |1>",
			Matrix: NewPackedMatrix(2, []complex128{
				1, 0,
				0, tPhase,
			}),
		},
		{
			Name: "CNOT", Label: "●⊕", Arity: 2, Color: "#bb9af7",
			Description: "Controlled-NOT: flips the target when the control is |1>",
			Matrix: NewPackedMatrix(4, []complex128{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 0, 1,
				0, 0, 1, 0,
			}),
		},
		{
			Name: "SWAP", Label: "××", Arity: 2, Color: "#7dcfff",
			Description: "SWAP: exchanges the states of two qubits",
			Matrix: NewPackedMatrix(4, []complex128{
				1, 0, 0, 0,
				0, 0, 1, 0,
				0, 1, 0, 0,
				0, 0, 0, 1,
			}),
		},
		{
			Name: "CCX", Label: "●●⊕", Arity: 3, Color: "#ff9e64",
			Description: "Toffoli: flips the target when both controls are |1>",
			Matrix: NewPackedMatrix(8, []complex128{
				1, 0, 0, 0, 0, 0, 0, 0,
				0, 1, 0, 0, 0, 0, 0, 0,
				0, 0, 1, 0, 0, 0, 0, 0,
				0, 0, 0, 1, 0, 0, 0, 0,
				0, 0, 0, 0, 1, 0, 0, 0,
				0, 0, 0, 0, 0, 1, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 1,
				0, 0, 0, 0, 0, 0, 1, 0,
			}),
		},
	}

	lib := NewLibrary()
	for _, def := range defs {
		if err := lib.Register(def); err != nil {
			panic(err)
		}
	}
	return lib
}
