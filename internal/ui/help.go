// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/util"
)

// helpGroupTitles names the groups of KeyMap.FullHelp in order.
var helpGroupTitles = []string{"Generar", "Navegar", "Escribir", "Espacio de trabajo"}

// renderHelp renders the key reference overlay.
func renderHelp(theme *styles.Theme, keys KeyMap) string {
	var sb strings.Builder
	sb.WriteString(theme.HelpTitle.Render("Atajos de teclado"))
	sb.WriteString("\n")

	for i, group := range keys.FullHelp() {
		if i < len(helpGroupTitles) {
			sb.WriteString(theme.PaneTitle.Render(helpGroupTitles[i]))
			sb.WriteString("\n")
		}
		for _, b := range group {
			h := b.Help()
			sb.WriteString("  ")
			sb.WriteString(theme.ShortcutKey.Render(util.PadRight(h.Key, 10)))
			sb.WriteString(theme.ShortcutDesc.Render(h.Desc))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(theme.Placeholder.Render("F1 o Esc para cerrar"))

	return theme.HelpBox.Render(sb.String())
}
