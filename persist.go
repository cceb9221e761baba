package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"qtermsim/engine"
)

// circuitFile is where Ctrl+S drops the current circuit.
const circuitFile = "circuit.json"

// encodeCircuit renders a circuit as indented JSON for the editor panel
// and for files.
func encodeCircuit(circ engine.CircuitDefinition) (string, error) {
	data, err := json.MarshalIndent(circ, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// shareString packs a circuit into a clipboard/URL-friendly token:
// base64 over compact JSON.
func shareString(circ engine.CircuitDefinition) (string, error) {
	data, err := json.Marshal(circ)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// decodeCircuit accepts either raw circuit JSON or a share string and
// validates the result against the library before handing it back.
func decodeCircuit(lib *engine.Library, input string) (engine.CircuitDefinition, error) {
	var circ engine.CircuitDefinition

	text := strings.TrimSpace(input)
	if text == "" {
		return circ, fmt.Errorf("empty circuit input")
	}
	if !strings.HasPrefix(text, "{") {
		decoded, err := base64.URLEncoding.DecodeString(text)
		if err != nil {
			return circ, fmt.Errorf("not JSON and not a share string: %w", err)
		}
		text = string(decoded)
	}
	if err := json.Unmarshal([]byte(text), &circ); err != nil {
		return circ, fmt.Errorf("parse circuit: %w", err)
	}
	if err := lib.Validate(circ); err != nil {
		return circ, err
	}
	return circ, nil
}

// saveCircuit writes the circuit JSON to path.
func saveCircuit(path string, circ engine.CircuitDefinition) error {
	text, err := encodeCircuit(circ)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// loadCircuit reads and validates a circuit file (JSON or share string).
func loadCircuit(lib *engine.Library, path string) (engine.CircuitDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.CircuitDefinition{}, err
	}
	return decodeCircuit(lib, string(data))
}

// copyShareString puts the circuit's share string on the clipboard.
func copyShareString(circ engine.CircuitDefinition) error {
	token, err := shareString(circ)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(token)
}

// pasteCircuit loads a circuit from the clipboard (JSON or share string).
func pasteCircuit(lib *engine.Library) (engine.CircuitDefinition, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return engine.CircuitDefinition{}, err
	}
	return decodeCircuit(lib, text)
}
