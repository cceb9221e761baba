package main

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"qtermsim/engine"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusSelectTarget
	focusMeasure
	focusJSON
)

// defaultQubits is the register size a fresh session starts with.
const defaultQubits = 4

// Model represents the TUI application state. The circuit definition is
// the single source of truth; the timeline and the JSON panel are
// derived views, regenerated after every edit.
type Model struct {
	lib      *engine.Library
	gateMenu []menuCategory

	circ     engine.CircuitDefinition
	timeline []engine.TimelineEntry

	cursorQubit  int
	cursorColumn int
	viewStartCol int // first column currently visible
	stepCursor   int // timeline entry shown in the state panel

	width  int
	height int

	jsonEditor textarea.Model
	lastJSON   string

	focus     focus
	statusMsg string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state (for multi-qubit gates)
	pendingGate    string
	pendingArity   int
	pendingTargets []int
	targetQubit    int

	// Measurement state
	measureQubits   []int
	lastMeasurement *engine.MeasurementResult
	measuredStep    int
}

func initialModel() Model {
	ta := textarea.New()
	ta.Placeholder = "Paste circuit JSON or a share string..."
	ta.SetWidth(40)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	lib := engine.StandardLibrary()
	m := Model{
		lib:          lib,
		gateMenu:     buildGateMenu(lib),
		circ:         engine.CircuitDefinition{NumQubits: defaultQubits},
		jsonEditor:   ta,
		focus:        focusCircuit,
		measuredStep: -1,
	}
	m.rebuild()
	return m
}

// rebuild regenerates the timeline and JSON view after a circuit edit.
// Any pending measurement result is stale once the circuit changes.
func (m *Model) rebuild() {
	entries, err := m.lib.BuildTimeline(m.circ)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Build error: %v", err)
		return
	}
	m.timeline = entries
	m.stepCursor = len(entries) - 1
	m.lastMeasurement = nil
	m.measuredStep = -1
	m.syncJSON()
}

func (m *Model) syncJSON() {
	text, err := encodeCircuit(m.circ)
	if err != nil {
		return
	}
	m.jsonEditor.SetValue(text)
	m.lastJSON = text
}

// applyJSONInput adopts an edited JSON buffer (or share string) as the
// new circuit, if it validates.
func (m *Model) applyJSONInput() {
	text := m.jsonEditor.Value()
	if text == m.lastJSON {
		return
	}
	circ, err := decodeCircuit(m.lib, text)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Import error: %v", err)
		m.syncJSON()
		return
	}
	m.adoptCircuit(circ, "Circuit imported")
}

// adoptCircuit swaps in a validated circuit and resets the cursor into
// range.
func (m *Model) adoptCircuit(circ engine.CircuitDefinition, status string) {
	m.circ = circ
	m.cursorQubit = min(m.cursorQubit, circ.NumQubits-1)
	m.cursorColumn = 0
	m.viewStartCol = 0
	m.rebuild()
	m.statusMsg = status
}

// gateAt returns the placement occupying (column, qubit), or nil.
func (m *Model) gateAt(column, qubit int) *engine.GateInstance {
	for i := range m.circ.Gates {
		g := &m.circ.Gates[i]
		if g.Column == column && slices.Contains(g.Targets, qubit) {
			return g
		}
	}
	return nil
}

// maxColumn returns the highest occupied column, or -1 for an empty
// circuit.
func (m *Model) maxColumn() int {
	maxCol := -1
	for _, g := range m.circ.Gates {
		maxCol = max(maxCol, g.Column)
	}
	return maxCol
}

// canPlaceAt reports whether every target is free at the column.
func (m *Model) canPlaceAt(column int, targets []int) bool {
	for _, t := range targets {
		if m.gateAt(column, t) != nil {
			return false
		}
	}
	return true
}

// placeGate places the pending gate with the given targets at the
// cursor column. Returns false when blocked by an occupied cell.
func (m *Model) placeGate(name string, targets []int) bool {
	if !m.canPlaceAt(m.cursorColumn, targets) {
		m.statusMsg = "Cannot place: qubit already used by another gate in this column"
		m.clearPending()
		return false
	}
	m.circ.Gates = append(m.circ.Gates, engine.GateInstance{
		ID:      uuid.NewString(),
		Gate:    name,
		Targets: targets,
		Column:  m.cursorColumn,
	})
	m.clearPending()
	m.cursorColumn++
	m.rebuild()
	return true
}

func (m *Model) clearPending() {
	m.pendingGate = ""
	m.pendingArity = 0
	m.pendingTargets = nil
}

// removeGateAt deletes any placement occupying (column, qubit).
func (m *Model) removeGateAt(column, qubit int) {
	before := len(m.circ.Gates)
	m.circ.Gates = slices.DeleteFunc(m.circ.Gates, func(g engine.GateInstance) bool {
		return g.Column == column && slices.Contains(g.Targets, qubit)
	})
	if len(m.circ.Gates) != before {
		m.rebuild()
	}
}

// removeQubit drops the highest wire and every gate touching it.
func (m *Model) removeQubit() {
	gone := m.circ.NumQubits - 1
	m.circ.NumQubits = gone
	m.circ.Gates = slices.DeleteFunc(m.circ.Gates, func(g engine.GateInstance) bool {
		return slices.Contains(g.Targets, gone)
	})
	if len(m.circ.InitialBits) > gone {
		m.circ.InitialBits = m.circ.InitialBits[:gone]
	}
	m.cursorQubit = min(m.cursorQubit, gone-1)
	m.rebuild()
}

// toggleInitialBit flips the classical starting bit under the cursor.
func (m *Model) toggleInitialBit() {
	for len(m.circ.InitialBits) <= m.cursorQubit {
		m.circ.InitialBits = append(m.circ.InitialBits, 0)
	}
	m.circ.InitialBits[m.cursorQubit] ^= 1
	m.rebuild()
}

// runMeasurement samples the selected qubits at the step cursor,
// collapses the state and replays the gates still ahead of that step.
func (m *Model) runMeasurement() {
	if len(m.timeline) == 0 {
		return
	}
	entry := m.timeline[m.stepCursor]
	collapsed, result, err := engine.Measure(entry.State, m.measureQubits, nil)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Measure error: %v", err)
		return
	}
	resumed, err := m.lib.ResumeTimeline(m.timeline, m.stepCursor, collapsed, m.circ.Gates)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Measure error: %v", err)
		return
	}
	m.timeline = resumed
	m.lastMeasurement = result
	m.measuredStep = m.stepCursor
	m.measureQubits = nil
	m.focus = focusCircuit
	m.statusMsg = fmt.Sprintf("Measured %s", result.Label)
}

// startTargetSelection seeds the multi-qubit placement flow with the
// cursor qubit as the first target (the control for CNOT/CCX).
func (m *Model) startTargetSelection(item menuItem) {
	m.pendingGate = item.name
	m.pendingArity = item.arity
	m.pendingTargets = []int{m.cursorQubit}
	m.focus = focusSelectTarget
	m.moveTargetFrom(m.cursorQubit)
}

// moveTargetFrom parks the highlight on the first selectable qubit near
// the given one.
func (m *Model) moveTargetFrom(q int) {
	for next := q + 1; next < m.circ.NumQubits; next++ {
		if !slices.Contains(m.pendingTargets, next) {
			m.targetQubit = next
			return
		}
	}
	for next := q - 1; next >= 0; next-- {
		if !slices.Contains(m.pendingTargets, next) {
			m.targetQubit = next
			return
		}
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		panelW := max(msg.Width/3-6, 20)
		m.jsonEditor.SetWidth(panelW)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.jsonEditor.SetHeight(max(circH-8, 4))

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusJSON
				m.jsonEditor.Focus()
			case "ctrl+r":
				m.circ.Gates = nil
				m.circ.InitialBits = nil
				m.cursorColumn = 0
				m.viewStartCol = 0
				m.rebuild()
			case "ctrl+s":
				if err := saveCircuit(circuitFile, m.circ); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + circuitFile
				}
			case "y":
				if err := copyShareString(m.circ); err != nil {
					m.statusMsg = fmt.Sprintf("Share error: %v", err)
				} else {
					m.statusMsg = "Share string copied to clipboard"
				}
			case "ctrl+o":
				circ, err := pasteCircuit(m.lib)
				if err != nil {
					m.statusMsg = fmt.Sprintf("Paste error: %v", err)
				} else {
					m.adoptCircuit(circ, "Circuit loaded from clipboard")
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circ.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorColumn > 0 {
					m.cursorColumn--
					if m.cursorColumn < m.viewStartCol {
						m.viewStartCol = m.cursorColumn
					}
				}
			case "right", "l":
				m.cursorColumn++
			case "[":
				if m.stepCursor > 0 {
					m.stepCursor--
				}
			case "]":
				if m.stepCursor < len(m.timeline)-1 {
					m.stepCursor++
				}
			case "+", "=":
				if m.circ.NumQubits < engine.MaxQubits {
					m.circ.NumQubits++
					m.rebuild()
				} else {
					m.statusMsg = fmt.Sprintf("Register is capped at %d qubits", engine.MaxQubits)
				}
			case "-":
				if m.circ.NumQubits > 1 {
					m.removeQubit()
				}
			case "i":
				m.toggleInitialBit()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "m":
				m.focus = focusMeasure
				m.measureQubits = nil
			case "backspace", "delete":
				m.removeGateAt(m.cursorColumn, m.cursorQubit)
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(m.gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(m.gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := m.gateMenu[m.menuCat].items[m.menuItem]
				if item.arity == 1 {
					if m.placeGate(item.name, []int{m.cursorQubit}) {
						m.focus = focusCircuit
					}
					break
				}
				if m.circ.NumQubits < item.arity {
					m.statusMsg = fmt.Sprintf("%s needs %d qubits", item.name, item.arity)
					break
				}
				m.startTargetSelection(item)
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.clearPending()
				m.focus = focusCircuit
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if !slices.Contains(m.pendingTargets, next) {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circ.NumQubits; next++ {
					if !slices.Contains(m.pendingTargets, next) {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				m.pendingTargets = append(m.pendingTargets, m.targetQubit)
				if len(m.pendingTargets) == m.pendingArity {
					if m.placeGate(m.pendingGate, m.pendingTargets) {
						m.focus = focusCircuit
					}
				} else {
					m.moveTargetFrom(m.targetQubit)
				}
			}

		case focusMeasure:
			switch key {
			case "esc":
				m.measureQubits = nil
				m.focus = focusCircuit
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circ.NumQubits-1 {
					m.cursorQubit++
				}
			case " ", "space":
				if i := slices.Index(m.measureQubits, m.cursorQubit); i >= 0 {
					m.measureQubits = slices.Delete(m.measureQubits, i, i+1)
				} else {
					m.measureQubits = append(m.measureQubits, m.cursorQubit)
				}
			case "enter":
				m.runMeasurement()
			}

		case focusJSON:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.jsonEditor.Blur()
				m.applyJSONInput()
			case "esc":
				m.focus = focusCircuit
				m.jsonEditor.Blur()
				m.syncJSON()
			default:
				var cmd tea.Cmd
				m.jsonEditor, cmd = m.jsonEditor.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	stateW := m.width / 3
	circuitW := m.width - stateW - 4
	controlsH := 6
	circuitH := max(m.height-controlsH-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitW, circuitH)
	statePanel := m.renderStatePanel(stateW, circuitH)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsH-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, statePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	return frame
}
