// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of both screens.
type KeyMap struct {
	// Navigation between panes
	NextPane key.Binding
	PrevPane key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Summary   key.Binding
	Questions key.Binding
	StudyPlan key.Binding
	Submit    key.Binding
	Newline   key.Binding
	Option    key.Binding

	// Workspace commands
	Copy    key.Binding
	Export  key.Binding
	Close   key.Binding
	Help    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "siguiente panel"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "panel anterior"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "bajar"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "página arriba"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "página abajo"),
		),
		Summary: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "resumen"),
		),
		Questions: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "preguntas"),
		),
		StudyPlan: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "plan de estudio"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "ejecutar/enviar/calificar"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("M-Enter", "nueva línea"),
		),
		Option: key.NewBinding(
			key.WithKeys("a", "b", "c", "d", "e", "f", "A", "B", "C", "D", "E", "F"),
			key.WithHelp("A-F", "elegir opción"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copiar"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "exportar"),
		),
		Close: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "otro documento"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "ayuda"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cerrar aviso"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "salir"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Summary, k.Questions, k.StudyPlan, k.Help, k.Quit}
}

// FullHelp returns the bindings of the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Generation
		{k.Summary, k.Questions, k.StudyPlan},
		// Navigation
		{k.NextPane, k.PrevPane, k.Up, k.Down, k.PageUp, k.PageDown},
		// Input
		{k.Submit, k.Newline, k.Option},
		// Workspace
		{k.Copy, k.Export, k.Close, k.Dismiss, k.Help, k.Quit},
	}
}
