package main

import (
	"fmt"
	"sort"
	"strings"

	"qtermsim/engine"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width (visible runes).
func padCenter(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	total := width - len(runes)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// controlSymbol returns the wire symbol for a control qubit.
func controlSymbol(gateName string) string {
	if gateName == "SWAP" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the acted-on qubit of a
// multi-qubit gate.
func targetSymbol(gateName string) string {
	if gateName == "SWAP" {
		return "×"
	}
	return "⊕"
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *engine.GateInstance
	isControl   bool // control dot (or SWAP endpoint)
	isTarget    bool // ⊕/× endpoint of a multi-qubit gate
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at
// (column, qubit). For CNOT and CCX the leading targets are controls;
// SWAP draws both endpoints alike.
func (m Model) getCellInfo(column, qubit int) cellInfo {
	var info cellInfo

	for i := range m.circ.Gates {
		g := &m.circ.Gates[i]
		if g.Column != column {
			continue
		}

		minQ, maxQ := g.Targets[0], g.Targets[0]
		onGate := false
		for pos, t := range g.Targets {
			minQ = min(minQ, t)
			maxQ = max(maxQ, t)
			if t == qubit {
				onGate = true
				info.gate = g
				if len(g.Targets) > 1 {
					if pos == len(g.Targets)-1 && g.Gate != "SWAP" {
						info.isTarget = true
					} else {
						info.isControl = true
					}
				}
			}
		}

		if len(g.Targets) > 1 && qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if !onGate {
				info.passThrough = true
			}
		}
	}

	return info
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.gate != nil && info.isControl:
			sym := controlSymbol(info.gate.Gate)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil && info.isTarget:
			sym := targetSymbol(info.gate.Gate)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil:
			name := padCenter(info.gate.Gate, gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.gate != nil && (info.isControl || info.isTarget):
		sym := controlSymbol(info.gate.Gate)
		if info.isTarget {
			sym = targetSymbol(info.gate.Gate)
		}
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.gate.Gate, gateNameW)

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		// Empty wire
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	fmt.Fprintf(&sb, "  %s", dimStyle.Render(fmt.Sprintf("%d qubits", m.circ.NumQubits)))
	sb.WriteString("\n\n")

	// How many columns fit
	availWidth := width - labelVisualW - 4
	maxCols := max(availWidth/cellW, 1)

	startCol := m.viewStartCol
	if m.cursorColumn >= startCol+maxCols {
		startCol = m.cursorColumn - maxCols + 1
	}

	if startCol > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", startCol, startCol+maxCols-1)
	}

	// Column header; the column the step cursor has reached is marked.
	currentCol := -1
	if len(m.timeline) > 0 {
		currentCol = m.timeline[m.stepCursor].Column
	}
	header := strings.Repeat(" ", labelVisualW)
	for col := startCol; col < startCol+maxCols; col++ {
		label := fmt.Sprintf("%d", col)
		if col == currentCol {
			header += stepMarkStyle.Render(padCenter("▾"+label, cellW))
		} else {
			header += dimStyle.Render(padCenter(label, cellW))
		}
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circ.NumQubits {
		bit := 0
		if qubit < len(m.circ.InitialBits) {
			bit = m.circ.InitialBits[qubit]
		}
		label := fmt.Sprintf("q%d|%d⟩", qubit, bit)

		labelStyle := qubitLabelStyle
		if m.focus == focusMeasure {
			if slicesContains(m.measureQubits, qubit) {
				label = fmt.Sprintf("▣q%d|%d⟩", qubit, bit)
				labelStyle = measureSelStyle
			} else {
				label = fmt.Sprintf("□q%d|%d⟩", qubit, bit)
			}
		}

		topLine := strings.Repeat(" ", labelVisualW)
		midLine := labelStyle.Render(label) + strings.Repeat("─", max(labelVisualW-visibleLen(label), 0))
		botLine := strings.Repeat(" ", labelVisualW)

		for col := startCol; col < startCol+maxCols; col++ {
			info := m.getCellInfo(col, qubit)

			hl := hlNone
			switch {
			case m.focus == focusSelectTarget && qubit == m.targetQubit && col == m.cursorColumn:
				hl = hlTargetSelect
			case m.focus == focusSelectTarget && slicesContains(m.pendingTargets, qubit) && col == m.cursorColumn:
				hl = hlTargetSelect
			case qubit == m.cursorQubit && col == m.cursorColumn &&
				(m.focus == focusCircuit || m.focus == focusMenu || m.focus == focusMeasure):
				hl = hlCursor
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	switch m.focus {
	case focusSelectTarget:
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingGate))
		fmt.Fprintf(&sb, "  Select target %d/%d: ", len(m.pendingTargets)+1, m.pendingArity)
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	case focusMeasure:
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  Measure at step %d: ", m.stepCursor)
		sb.WriteString(measureSelStyle.Render(measureSelectionLabel(m.measureQubits)))
		sb.WriteString(dimStyle.Render("   Space Toggle  Enter Measure  Esc Cancel"))
	default:
		fmt.Fprintf(&sb, "\n  Position: Column %d, Qubit %d", m.cursorColumn, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// measureSelectionLabel lists the toggled qubits, or a hint when none.
func measureSelectionLabel(qubits []int) string {
	if len(qubits) == 0 {
		return "(no qubits selected)"
	}
	sorted := make([]int, len(qubits))
	copy(sorted, qubits)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, q := range sorted {
		parts[i] = fmt.Sprintf("q%d", q)
	}
	return strings.Join(parts, " ")
}

// renderStatePanel renders the amplitude view, or the JSON editor when
// it has focus.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	if m.focus == focusJSON {
		sb.WriteString(titleStyle.Render("Circuit JSON [ACTIVE]"))
		sb.WriteString("\n\n")
		sb.WriteString(m.jsonEditor.View())
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("Tab Apply  Esc Discard"))
		return statePanelStyle.Width(width).Height(height).Render(sb.String())
	}

	if len(m.timeline) == 0 {
		sb.WriteString(titleStyle.Render("State"))
		return statePanelStyle.Width(width).Height(height).Render(sb.String())
	}

	entry := m.timeline[m.stepCursor]
	title := fmt.Sprintf("State · step %d/%d", entry.Step, len(m.timeline)-1)
	if entry.Column >= 0 {
		title += fmt.Sprintf(" (column %d)", entry.Column)
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	rows := entry.State.Enumerate()
	avail := max(height-8, 4)
	if len(rows) > avail {
		// keep only the live basis states when the register outgrows
		// the panel
		live := rows[:0]
		for _, r := range rows {
			if r.Probability > 1e-9 {
				live = append(live, r)
			}
		}
		rows = live
	}
	shown := 0
	for _, r := range rows {
		if shown >= avail {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(rows)-shown)))
			sb.WriteString("\n")
			break
		}
		bar := int(r.Probability*probBarW + 0.5)
		fmt.Fprintf(&sb, "%s %s %s %5.1f%%\n",
			qubitLabelStyle.Render(r.Label),
			amplitudeStyle.Render(fmt.Sprintf("%+.3f%+.3fi", real(r.Amplitude), imag(r.Amplitude))),
			probBarStyle.Render(strings.Repeat("█", bar)+strings.Repeat("░", probBarW-bar)),
			r.Probability*100)
		shown++
	}

	if m.lastMeasurement != nil {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Measured (step %d)", m.measuredStep)))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Outcome: %s\n", measureSelStyle.Render(m.lastMeasurement.Label))
		labels := make([]string, 0, len(m.lastMeasurement.Probabilities))
		for label := range m.lastMeasurement.Probabilities {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&sb, "%s  %5.1f%%\n", dimStyle.Render(label), m.lastMeasurement.Probabilities[label]*100)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("[ ] Step through the timeline"))

	return statePanelStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Column  [ ] Step  +/- Qubits  i Init bit")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeGateStyle.Render("m"))
	sb.WriteString(" Measure\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab JSON  Bksp Delete  y Share  ^O Paste  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}

// slicesContains reports whether slice contains val.
func slicesContains(slice []int, val int) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}
