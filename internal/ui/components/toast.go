// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/util"
)

// =============================================================================
// TOAST RENDERING
// =============================================================================

// toastColors returns the accent color and indicator for a notification kind.
func toastColors(kind notify.Kind) (lipgloss.AdaptiveColor, string) {
	switch kind {
	case notify.KindError:
		return styles.Rose, styles.StatusIndicators.Error
	case notify.KindWarning:
		return styles.Amber, styles.StatusIndicators.Warning
	case notify.KindSuccess:
		return styles.Emerald, styles.StatusIndicators.Success
	default:
		return styles.Cyan, styles.StatusIndicators.Info
	}
}

// RenderToast renders a notification as a bordered box sized for width.
func RenderToast(note notify.Notification, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	color, icon := toastColors(note.Kind)

	iconStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	lines := util.WrapWords(note.Message, maxWidth-10)
	content := iconStyle.Render(icon+" ") + messageStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(content)
}

// ToastLine right-aligns the current notification of n within width.
// It returns "" when nothing is visible.
func ToastLine(n *notify.Notifier, width int) string {
	if n == nil {
		return ""
	}
	note, ok := n.Current()
	if !ok {
		return ""
	}
	box := lipgloss.NewStyle().MarginRight(2).Render(RenderToast(note, width))
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, box)
}
