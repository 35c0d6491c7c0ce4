// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/export"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/ui/components"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// Messages raised by the workspace screen itself.
const (
	MsgNothingToCopy   = "Solo se puede copiar texto generado"
	MsgNothingToExport = "No hay contenido para exportar"
	MsgExported        = "Sesión exportada: "
	msgExportFailed    = "Error al exportar: "
)

// pane identifies the focused area of the workspace screen.
type pane int

const (
	paneActions pane = iota
	paneContent
	paneChat
	paneCount
)

// WorkspaceOptions configures the workspace screen.
type WorkspaceOptions struct {
	// ExportFormat and ExportDir are used by the export key.
	ExportFormat string
	ExportDir    string
	// ShowHints shows key hints in the status bar.
	ShowHints bool
	// Clipboard receives copied content; nil uses the system clipboard.
	Clipboard func(string) error
}

// WorkspaceModel is the screen of a loaded document: the action sidebar,
// the content pane and the conversation.
type WorkspaceModel struct {
	ctx   context.Context
	theme *styles.Theme
	keys  KeyMap
	log   *zap.Logger
	ws    *workspace.Workspace
	opts  WorkspaceOptions

	focus      pane
	action     int // sidebar cursor into model.Actions
	question   int // focused question
	suggestion int // highlighted suggestion, -1 for none
	showHelp   bool
	tickGen    int

	content   viewport.Model
	chatView  viewport.Model
	answer    textinput.Model
	chatInput textarea.Model
	loading   spinner.Model
	typing    spinner.Model
	header    *components.Header
	status    *components.StatusBar

	chatLen     int // messages shown at the last refresh
	chatPending bool

	width        int
	height       int
	sidebarWidth int
	mainWidth    int
	contentH     int
	chatH        int
}

// NewWorkspaceModel creates the workspace screen for ws.
func NewWorkspaceModel(ctx context.Context, theme *styles.Theme, ws *workspace.Workspace, opts WorkspaceOptions, log *zap.Logger) WorkspaceModel {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if log == nil {
		log = zap.NewNop()
	}

	answer := textinput.New()
	answer.Placeholder = "Escribe tu respuesta aquí..."
	answer.Prompt = "> "
	answer.PromptStyle = theme.InputPrompt
	answer.PlaceholderStyle = theme.InputPlaceholder
	answer.CharLimit = 2000

	ta := textarea.New()
	ta.Placeholder = "Escriba su pregunta aquí..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")

	loading := spinner.New()
	loading.Spinner = styles.LineSpinner.Bubble()
	loading.Style = theme.Loading

	typing := spinner.New()
	typing.Spinner = styles.DotsSpinner.Bubble()
	typing.Style = theme.Typing

	keys := DefaultKeyMap()
	status := components.NewStatusBar(theme)
	status.ShowShortcuts = opts.ShowHints
	status.SetBindings(keys.ShortHelp()...)

	return WorkspaceModel{
		ctx:        ctx,
		theme:      theme,
		keys:       keys,
		log:        log.Named("ui"),
		ws:         ws,
		opts:       opts,
		suggestion: -1,
		content:    viewport.New(0, 0),
		chatView:   viewport.New(0, 0),
		answer:     answer,
		chatInput:  ta,
		loading:    loading,
		typing:     typing,
		header:     components.NewHeader(theme),
		status:     status,
	}
}

// Open resets the screen for a newly opened document and starts the
// session timer.
func (m *WorkspaceModel) Open() tea.Cmd {
	m.focus = paneActions
	m.action = 0
	m.question = 0
	m.suggestion = -1
	m.showHelp = false
	m.answer.Reset()
	m.chatInput.Reset()
	m.applyFocus()
	m.tickGen++
	m.status.SetStatus(components.StatusReady)
	m.header.SetDocument(m.ws.Session().DocumentName(), 0)
	m.refresh()
	return m.tick()
}

// tick schedules the next session timer refresh.
func (m WorkspaceModel) tick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockTickMsg{gen: gen, at: t} })
}

// Workspace returns the workspace the screen drives.
func (m WorkspaceModel) Workspace() *workspace.Workspace {
	return m.ws
}

// SetSize lays the screen out for width x height cells.
func (m *WorkspaceModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.status.SetWidth(width)

	const (
		headerHeight = 1
		statusHeight = 1
		toastHeight  = 3 // reserved so panes do not jump when a toast appears
		paneChrome   = 3 // border and title line
		inputHeight  = 4 // textarea and its border
	)

	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		m.sidebarWidth = 0
	} else {
		m.sidebarWidth = 26
	}
	m.mainWidth = width - m.sidebarWidth
	if m.mainWidth < 20 {
		m.mainWidth = 20
	}

	body := height - headerHeight - statusHeight - toastHeight
	if m.sidebarWidth == 0 {
		body-- // action tabs
	}
	if body < 10 {
		body = 10
	}
	m.contentH = body * 55 / 100
	m.chatH = body - m.contentH

	inner := m.mainWidth - 4
	if inner < 10 {
		inner = 10
	}
	m.content.Width = inner
	m.content.Height = max(1, m.contentH-paneChrome)
	m.chatView.Width = inner
	m.chatView.Height = max(1, m.chatH-paneChrome-inputHeight)
	m.chatInput.SetWidth(inner - 4)
	m.answer.Width = inner - 8

	m.refresh()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the workspace screen.
func (m WorkspaceModel) Update(msg tea.Msg) (WorkspaceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case generationDoneMsg:
		return m.handleGenerationDone(msg)

	case chatDoneMsg:
		return m.handleChatDone(msg)

	case gradeDoneMsg:
		return m.handleGradeDone(msg)

	case exportDoneMsg:
		return m.handleExportDone(msg)

	case clockTickMsg:
		if msg.gen != m.tickGen || !m.ws.Active() {
			return m, nil
		}
		m.header.SetDocument(m.ws.Session().DocumentName(), m.ws.Session().Duration())
		return m, m.tick()

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.ws.Orchestrator().Loading() {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.ws.Conversation().Pending() {
			var cmd tea.Cmd
			m.typing, cmd = m.typing.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.refresh()
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		var cmd tea.Cmd
		if m.focus == paneChat {
			m.chatView, cmd = m.chatView.Update(msg)
		} else {
			m.content, cmd = m.content.Update(msg)
		}
		return m, cmd
	}

	return m.forwardToInput(msg)
}

func (m WorkspaceModel) handleKey(msg tea.KeyMsg) (WorkspaceModel, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Dismiss) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.ws.Notifier().Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % paneCount
		m.applyFocus()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus + paneCount - 1) % paneCount
		m.applyFocus()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Summary):
		return m.startAction(model.ActionSummary)

	case key.Matches(msg, m.keys.Questions):
		return m.startAction(model.ActionQuestions)

	case key.Matches(msg, m.keys.StudyPlan):
		return m.startAction(model.ActionStudyPlan)

	case key.Matches(msg, m.keys.Copy):
		return m.copyContent()

	case key.Matches(msg, m.keys.Export):
		return m.exportSession()

	case key.Matches(msg, m.keys.Close):
		m.ws.Close()
		m.tickGen++
		return m, func() tea.Msg { return documentClosedMsg{} }
	}

	switch m.focus {
	case paneActions:
		return m.handleActionsKey(msg)
	case paneContent:
		return m.handleContentKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m WorkspaceModel) handleActionsKey(msg tea.KeyMsg) (WorkspaceModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.action > 0 {
			m.action--
		}
	case key.Matches(msg, m.keys.Down):
		if m.action < len(model.Actions)-1 {
			m.action++
		}
	case key.Matches(msg, m.keys.Submit):
		return m.startAction(model.Actions[m.action])
	}
	return m, nil
}

func (m WorkspaceModel) handleContentKey(msg tea.KeyMsg) (WorkspaceModel, tea.Cmd) {
	questions := m.ws.Grader().Questions()
	if len(questions) == 0 {
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	}

	if m.question >= len(questions) {
		m.question = 0
	}
	q := questions[m.question]
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveQuestion(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveQuestion(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		return m.grade(q.ID)
	}

	if q.IsMultipleChoice() {
		if key.Matches(msg, m.keys.Option) {
			if err := m.ws.Grader().SelectOption(q.ID, model.OptionIndex(msg.String())); err != nil {
				m.log.Debug("option rejected", zap.String("question_id", q.ID), zap.Error(err))
			}
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	if err := m.ws.Grader().SetAnswer(q.ID, m.answer.Value()); err != nil {
		m.log.Debug("answer rejected", zap.String("question_id", q.ID), zap.Error(err))
	}
	m.refresh()
	return m, cmd
}

func (m WorkspaceModel) handleChatKey(msg tea.KeyMsg) (WorkspaceModel, tea.Cmd) {
	conv := m.ws.Conversation()
	offering := conv.ShowSuggestions() && strings.TrimSpace(m.chatInput.Value()) == ""

	switch {
	case offering && key.Matches(msg, m.keys.Up):
		if m.suggestion > 0 {
			m.suggestion--
		}
		m.refresh()
		return m, nil

	case offering && key.Matches(msg, m.keys.Down):
		if m.suggestion < len(workspace.Suggestions)-1 {
			m.suggestion++
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		text := m.chatInput.Value()
		if offering && m.suggestion >= 0 {
			text = workspace.Suggestions[m.suggestion]
		}
		return m.send(text)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// forwardToInput passes non-key messages such as cursor blinks to the
// focused input.
func (m WorkspaceModel) forwardToInput(msg tea.Msg) (WorkspaceModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case paneChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case paneContent:
		m.answer, cmd = m.answer.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m WorkspaceModel) startAction(action model.Action) (WorkspaceModel, tea.Cmd) {
	fetch, err := m.ws.Orchestrator().Start(action)
	if err != nil {
		m.log.Debug("generation not started", zap.String("action", action.String()), zap.Error(err))
		return m, nil
	}
	for i, a := range model.Actions {
		if a == action {
			m.action = i
		}
	}
	m.question = 0
	m.answer.Reset()
	m.status.SetStatus(components.StatusProcessing)
	m.refresh()
	return m, tea.Batch(generationCmd(m.ctx, fetch), m.loading.Tick)
}

func (m WorkspaceModel) handleGenerationDone(msg generationDoneMsg) (WorkspaceModel, tea.Cmd) {
	out := m.ws.Orchestrator().Complete(msg.res)
	if out.Stale {
		return m, nil
	}
	m.question = 0
	m.loadAnswer()
	m.updateStatus()
	m.refresh()
	m.content.GotoTop()
	return m, expireCmd(out.Note)
}

func (m WorkspaceModel) grade(id string) (WorkspaceModel, tea.Cmd) {
	fetch, err := m.ws.Grader().Grade(id)
	if err != nil {
		m.log.Debug("grading not started", zap.String("question_id", id), zap.Error(err))
		return m, nil
	}
	m.updateStatus()
	m.refresh()
	return m, gradeCmd(m.ctx, fetch)
}

func (m WorkspaceModel) handleGradeDone(msg gradeDoneMsg) (WorkspaceModel, tea.Cmd) {
	out := m.ws.Grader().Complete(msg.res)
	if out.Stale {
		return m, nil
	}
	m.updateStatus()
	m.refresh()
	return m, expireCmd(out.Note)
}

func (m WorkspaceModel) send(text string) (WorkspaceModel, tea.Cmd) {
	fetch, err := m.ws.Conversation().Send(text)
	if err != nil {
		if !errors.Is(err, workspace.ErrEmptyMessage) {
			m.log.Debug("message not sent", zap.Error(err))
		}
		return m, nil
	}
	m.chatInput.Reset()
	m.suggestion = -1
	m.updateStatus()
	m.refresh()
	return m, tea.Batch(chatCmd(m.ctx, fetch), m.typing.Tick)
}

func (m WorkspaceModel) handleChatDone(msg chatDoneMsg) (WorkspaceModel, tea.Cmd) {
	if _, ok := m.ws.Conversation().Complete(msg.res); !ok {
		return m, nil
	}
	m.updateStatus()
	m.refresh()
	return m, nil
}

func (m WorkspaceModel) copyContent() (WorkspaceModel, tea.Cmd) {
	out, err := m.ws.CopyContent(m.opts.Clipboard)
	if errors.Is(err, workspace.ErrNoContent) {
		note := m.ws.Notifier().Warning(MsgNothingToCopy)
		return m, expireCmd(&note)
	}
	return m, expireCmd(out.Note)
}

func (m WorkspaceModel) exportSession() (WorkspaceModel, tea.Cmd) {
	snap := export.FromWorkspace(m.ws)
	if snap.IsEmpty() {
		note := m.ws.Notifier().Warning(MsgNothingToExport)
		return m, expireCmd(&note)
	}

	opts := export.DefaultOptions()
	if m.opts.ExportDir != "" {
		opts.OutputDir = m.opts.ExportDir
	}
	opts.Logger = m.log
	exporter, err := export.ForFormat(m.opts.ExportFormat, opts)
	if err != nil {
		note := m.ws.Notifier().Error(msgExportFailed + err.Error())
		return m, expireCmd(&note)
	}
	return m, func() tea.Msg {
		path, err := export.ExportToFile(snap, exporter, opts)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m WorkspaceModel) handleExportDone(msg exportDoneMsg) (WorkspaceModel, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("export failed", zap.Error(msg.err))
		note := m.ws.Notifier().Error(msgExportFailed + msg.err.Error())
		return m, expireCmd(&note)
	}
	note := m.ws.Notifier().Success(MsgExported + filepath.Base(msg.path))
	return m, expireCmd(&note)
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// applyFocus focuses the input of the focused pane and blurs the others.
func (m *WorkspaceModel) applyFocus() {
	m.answer.Blur()
	m.chatInput.Blur()
	switch m.focus {
	case paneContent:
		m.loadAnswer()
		m.answer.Focus()
	case paneChat:
		m.chatInput.Focus()
	}
}

// moveQuestion moves the question focus by delta and loads its answer.
func (m *WorkspaceModel) moveQuestion(delta int) {
	n := len(m.ws.Grader().Questions())
	if n == 0 {
		return
	}
	m.question += delta
	if m.question < 0 {
		m.question = 0
	}
	if m.question >= n {
		m.question = n - 1
	}
	m.loadAnswer()
	m.refresh()
}

// loadAnswer copies the recorded answer of the focused question into the
// answer field.
func (m *WorkspaceModel) loadAnswer() {
	questions := m.ws.Grader().Questions()
	if m.question >= len(questions) {
		m.question = 0
	}
	if len(questions) == 0 {
		m.answer.Reset()
		return
	}
	a, _ := m.ws.Grader().Answer(questions[m.question].ID)
	m.answer.SetValue(a)
	m.answer.CursorEnd()
}

// updateStatus derives the status bar state from the managers.
func (m *WorkspaceModel) updateStatus() {
	_, grading := m.ws.Grader().Pending()
	switch {
	case m.ws.Orchestrator().Loading():
		m.status.SetStatus(components.StatusProcessing)
	case grading:
		m.status.SetStatus(components.StatusGrading)
	case m.ws.Conversation().Pending():
		m.status.SetStatus(components.StatusTyping)
	default:
		m.status.SetStatus(components.StatusReady)
	}
}
