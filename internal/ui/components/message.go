// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/markup"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/util"
)

// RenderMessage renders one conversation entry as a bubble at most width
// cells wide. Assistant answers go through the chat markup rules; user
// text is shown as typed.
func RenderMessage(theme *styles.Theme, msg model.Message, width int) string {
	inner := width - 8
	if inner < 20 {
		inner = 20
	}

	var body string
	bubble := theme.UserBubble
	align := lipgloss.Right
	if msg.Role == model.RoleAssistant {
		bubble = theme.AssistantBubble
		align = lipgloss.Left
		rendered := markup.Terminal(markup.Chat().Render(msg.Content), theme.MarkupStyles())
		body = lipgloss.NewStyle().Width(inner).Render(rendered)
	} else {
		body = strings.Join(util.WrapWords(msg.Content, inner), "\n")
	}

	label := theme.Timestamp.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		label += theme.Timestamp.Render(" · " + msg.Timestamp.Format("15:04"))
	}

	box := bubble.Render(label + "\n" + body)
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, align, box)
}

// RenderTyping renders the indicator shown while an answer is pending.
func RenderTyping(theme *styles.Theme, frame string) string {
	return theme.Typing.Render(model.RoleAssistant.DisplayName() + " está escribiendo " + frame)
}

// RenderSuggestions renders the suggestion prompts offered on an empty
// conversation, highlighting the one at selected. A negative selected
// highlights none.
func RenderSuggestions(theme *styles.Theme, suggestions []string, selected int) string {
	rows := make([]string, 0, len(suggestions)+1)
	rows = append(rows, theme.Placeholder.Render("Pregunte sobre el documento o elija una sugerencia:"))
	for i, s := range suggestions {
		style := theme.Suggestion
		if i == selected {
			style = theme.SuggestionSelected
		}
		rows = append(rows, style.Render(toStr(i+1)+". "+s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
