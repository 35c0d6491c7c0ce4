// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents what the current screen is waiting for.
type Status int

const (
	StatusReady Status = iota
	StatusUploading
	StatusProcessing
	StatusGrading
	StatusTyping
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Listo"
	case StatusUploading:
		return "Subiendo..."
	case StatusProcessing:
		return "Procesando..."
	case StatusGrading:
		return "Calificando..."
	case StatusTyping:
		return "Respondiendo..."
	default:
		return "?"
	}
}

// Icon returns the accessible indicator for the status.
func (s Status) Icon() string {
	if s == StatusReady {
		return styles.StatusIndicators.Success
	}
	return styles.StatusIndicators.Pending
}

// StatusBar is the bottom bar with the current status and key hints.
type StatusBar struct {
	Status        Status
	Width         int
	ShowShortcuts bool
	Bindings      []key.Binding
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetBindings replaces the key hints.
func (s *StatusBar) SetBindings(bindings ...key.Binding) {
	s.Bindings = bindings
}

// View renders the status bar. Hints that do not fit are dropped from the
// right.
func (s *StatusBar) View() string {
	statusStyle := s.theme.SuccessStyle
	if s.Status != StatusReady {
		statusStyle = s.theme.InfoStyle
	}
	left := statusStyle.Render(s.Status.Icon() + " " + s.Status.String())

	var right string
	if s.ShowShortcuts {
		room := s.Width - lipgloss.Width(left) - 4
		right = s.renderShortcuts(room)
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders the enabled bindings that fit in room cells.
func (s *StatusBar) renderShortcuts(room int) string {
	var parts []string
	used := 0
	for _, b := range s.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		part := s.theme.ShortcutKey.Render(h.Key) + " " + s.theme.ShortcutDesc.Render(h.Desc)
		w := lipgloss.Width(part)
		if used > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
