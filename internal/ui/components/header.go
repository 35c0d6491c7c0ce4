// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/util"
)

// Header is the single-line title bar shown above every screen.
type Header struct {
	Title        string        // Brand (default: "studydesk")
	DocumentName string        // Loaded document, empty on the upload screen
	Elapsed      time.Duration // Time since the document was opened
	Width        int
	theme        *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "studydesk",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetDocument updates the document name and how long it has been open.
func (h *Header) SetDocument(name string, elapsed time.Duration) {
	h.DocumentName = name
	h.Elapsed = elapsed
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}

	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	left := accent.Render("< ") + h.theme.HeaderBrand.Render(h.Title) + accent.Render(" >")

	var right string
	if h.DocumentName != "" {
		timer := h.theme.HeaderSubtitle.Render(fmtElapsed(h.Elapsed))
		room := width - lipgloss.Width(left) - lipgloss.Width(timer) - 6
		name := util.TruncateWidth(h.DocumentName, room)
		right = h.theme.HeaderTitle.Render(name) + "  " + timer
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	return h.theme.Header.Width(width).Render(line)
}
