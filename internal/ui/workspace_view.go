// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/markup"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/session"
	"github.com/jeranaias/studydesk/internal/ui/components"
	"github.com/jeranaias/studydesk/internal/util"
	"github.com/jeranaias/studydesk/internal/workspace"
)

const (
	msgLoading         = "Procesando documento..."
	msgNoContent       = "Sin contenido generado"
	msgNoContentHint   = "Seleccione una acción en el panel lateral para comenzar"
	chatTitle          = "Asistente Virtual"
	sidebarTitle       = "Documento Actual"
	toastReservedLines = 3
)

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refresh re-renders the content and chat viewports from workspace state.
func (m *WorkspaceModel) refresh() {
	if m.content.Width <= 0 {
		return
	}

	body, focusTop, focusHeight := m.renderContent(m.content.Width)
	m.content.SetContent(body)
	if focusHeight > 0 {
		m.scrollIntoView(focusTop, focusHeight)
	}

	conv := m.ws.Conversation()
	m.chatView.SetContent(m.renderChat(m.chatView.Width))
	n := len(conv.Messages())
	if n != m.chatLen || conv.Pending() != m.chatPending {
		m.chatView.GotoBottom()
	}
	m.chatLen = n
	m.chatPending = conv.Pending()
}

// renderContent renders the content pane body. For a question set it also
// returns the line span of the focused card.
func (m *WorkspaceModel) renderContent(width int) (body string, focusTop, focusHeight int) {
	if m.ws.Orchestrator().Loading() {
		return m.loading.View() + " " + m.theme.Loading.Render(msgLoading), 0, 0
	}

	c := m.ws.Session().Content()
	switch c.Kind() {
	case session.ContentText:
		text, _ := c.Text()
		rendered := markup.Terminal(markup.Workspace().Render(text), m.theme.MarkupStyles())
		return lipgloss.NewStyle().Width(width).Render(rendered), 0, 0

	case session.ContentQuestions:
		return m.renderQuestions(width)
	}

	return m.theme.Placeholder.Render(msgNoContent) + "\n" +
		m.theme.Placeholder.Render(msgNoContentHint), 0, 0
}

func (m *WorkspaceModel) renderQuestions(width int) (string, int, int) {
	g := m.ws.Grader()
	sum := g.Summary()
	pending, grading := g.Pending()

	var sb strings.Builder
	sb.WriteString(components.RenderProgress(m.theme, sum.Graded, sum.Total, sum.Correct))
	sb.WriteString("\n")
	lines := 1

	var focusTop, focusHeight int
	for i, q := range g.Questions() {
		card := components.QuestionCard{
			Index:    i,
			Question: q,
			Focused:  i == m.question,
			Grading:  grading && pending == q.ID,
		}
		card.Answer, _ = g.Answer(q.ID)
		if r, ok := g.Result(q.ID); ok {
			card.Result = &r
		}
		if card.Focused && m.focus == paneContent && !q.IsMultipleChoice() {
			card.Input = m.answer.View()
		}

		rendered := card.Render(m.theme, width)
		h := lipgloss.Height(rendered)
		if card.Focused {
			focusTop, focusHeight = lines, h
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
		lines += h
	}
	return strings.TrimRight(sb.String(), "\n"), focusTop, focusHeight
}

// scrollIntoView scrolls the content viewport so that the span starting
// at top is visible.
func (m *WorkspaceModel) scrollIntoView(top, height int) {
	switch {
	case top < m.content.YOffset:
		m.content.SetYOffset(top)
	case top+height > m.content.YOffset+m.content.Height:
		offset := top + height - m.content.Height
		if offset > top {
			offset = top
		}
		m.content.SetYOffset(offset)
	}
}

func (m *WorkspaceModel) renderChat(width int) string {
	conv := m.ws.Conversation()

	var parts []string
	for _, msg := range conv.Messages() {
		parts = append(parts, components.RenderMessage(m.theme, msg, width))
	}
	if conv.ShowSuggestions() {
		parts = append(parts, components.RenderSuggestions(m.theme, workspace.Suggestions, m.suggestion))
	}
	if conv.Pending() {
		parts = append(parts, components.RenderTyping(m.theme, m.typing.View()))
	}
	return strings.Join(parts, "\n")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the workspace screen.
func (m WorkspaceModel) View() string {
	header := m.header.View()
	status := m.status.View()

	toast := components.ToastLine(m.ws.Notifier(), m.width)
	if toast == "" {
		toast = strings.Repeat("\n", toastReservedLines-1)
	}

	var body string
	if m.showHelp {
		body = lipgloss.Place(m.width, m.contentH+m.chatH, lipgloss.Center, lipgloss.Center,
			renderHelp(m.theme, m.keys))
	} else {
		main := lipgloss.JoinVertical(lipgloss.Left, m.renderContentPane(), m.renderChatPane())
		if m.sidebarWidth > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), main)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, toast, status)
}

// contentTitle returns the heading of the content pane.
func (m WorkspaceModel) contentTitle() string {
	if a := m.ws.Orchestrator().Active(); a != model.ActionNone {
		return a.Title()
	}
	return m.ws.Session().Content().Action().Title()
}

func (m WorkspaceModel) renderContentPane() string {
	title := m.theme.PaneTitle.Render(m.contentTitle())
	if _, ok := m.ws.Session().Content().Text(); ok && !m.ws.Orchestrator().Loading() {
		h := m.keys.Copy.Help()
		title += "  " + m.theme.ShortcutKey.Render(h.Key) + " " + m.theme.ShortcutDesc.Render(h.Desc)
	}

	style := m.theme.Pane
	if m.focus == paneContent {
		style = m.theme.PaneFocused
	}
	return style.
		Width(m.mainWidth - 2).
		Height(m.contentH - 2).
		Render(title + "\n" + m.content.View())
}

func (m WorkspaceModel) renderChatPane() string {
	input := m.theme.InputContainer
	if m.focus == paneChat {
		input = m.theme.InputContainerFocused
	}
	inputBox := input.Width(m.content.Width - 2).Render(m.chatInput.View())

	style := m.theme.Pane
	if m.focus == paneChat {
		style = m.theme.PaneFocused
	}
	return style.
		Width(m.mainWidth - 2).
		Height(m.chatH - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.PaneTitle.Render(chatTitle),
			m.chatView.View(),
			inputBox,
		))
}

// actionStyle returns the style of the sidebar entry for action.
func (m WorkspaceModel) actionStyle(action model.Action) lipgloss.Style {
	orch := m.ws.Orchestrator()
	switch {
	case orch.Active() == action:
		return m.theme.SidebarItemActive
	case orch.Loading():
		return m.theme.SidebarItemDisabled
	case m.ws.Session().Content().Action() == action:
		return m.theme.SidebarItemActive
	default:
		return m.theme.SidebarItem
	}
}

func (m WorkspaceModel) renderSidebar() string {
	inner := m.sidebarWidth - 3
	rows := []string{
		m.theme.PaneTitle.Render(sidebarTitle),
		m.theme.Timestamp.Render("Archivo"),
		m.theme.HeaderTitle.Render(util.TruncateWidth(m.ws.Session().DocumentName(), inner)),
		"",
	}
	for i, a := range model.Actions {
		cursor := "  "
		if m.focus == paneActions && i == m.action {
			cursor = m.theme.InputPrompt.Render("> ")
		}
		rows = append(rows, cursor+m.actionStyle(a).Render(a.Label()))
	}

	if qs := m.ws.Grader().Questions(); len(qs) > 0 {
		sum := m.ws.Grader().Summary()
		rows = append(rows, "",
			m.theme.Progress.Render("Calificadas: "+strconv.Itoa(sum.Graded)+"/"+strconv.Itoa(sum.Total)),
			m.theme.Progress.Render("Correctas: "+strconv.Itoa(sum.Correct)),
		)
	}

	return m.theme.Sidebar.
		Width(m.sidebarWidth - 1).
		Height(m.contentH + m.chatH).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderTabs renders the actions as a single row for narrow terminals.
func (m WorkspaceModel) renderTabs() string {
	tabs := make([]string, 0, len(model.Actions))
	for i, a := range model.Actions {
		label := a.Label()
		if m.focus == paneActions && i == m.action {
			label = "> " + label
		}
		tabs = append(tabs, m.actionStyle(a).Render(label))
	}
	return strings.Join(tabs, " ")
}
