package main

import (
	"fmt"
	"strings"

	"qtermsim/engine"
)

// menuItem represents a single gate choice in the picker.
type menuItem struct {
	name        string // gate name in the engine library
	symbol      string
	description string
	arity       int
}

// menuCategory groups gates of one arity under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// buildGateMenu derives the picker categories from the library, so the
// menu can never drift from the closed gate set.
func buildGateMenu(lib *engine.Library) []menuCategory {
	byArity := map[int]*menuCategory{
		1: {name: "Single Qubit"},
		2: {name: "Two Qubit"},
		3: {name: "Three Qubit"},
	}
	for _, name := range lib.Names() {
		def, err := lib.Lookup(name)
		if err != nil {
			continue
		}
		cat := byArity[def.Arity]
		cat.items = append(cat.items, menuItem{
			name:        def.Name,
			symbol:      def.Label,
			description: def.Description,
			arity:       def.Arity,
		})
	}
	return []menuCategory{*byArity[1], *byArity[2], *byArity[3]}
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range m.gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(m.gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 46)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := m.gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-6s", item.name)))
			sb.WriteString(gateStyle.Render(fmt.Sprintf("%-5s", item.symbol)))
			sb.WriteString(dimStyle.Render(" " + item.description))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-6s", item.name)))
			sb.WriteString(dimStyle.Render(fmt.Sprintf("%-5s", item.symbol)))
		}
		if item.arity > 1 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" →%d targets", item.arity)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
