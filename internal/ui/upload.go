// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/ui/components"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// UPLOAD SCREEN
// =============================================================================

// UploadModel is the screen where the user picks a document to study.
type UploadModel struct {
	ctx      context.Context
	theme    *styles.Theme
	keys     KeyMap
	log      *zap.Logger
	uploader *workspace.Uploader

	input   textinput.Model
	spinner spinner.Model
	header  *components.Header
	status  *components.StatusBar

	width  int
	height int
}

// NewUploadModel creates the upload screen.
func NewUploadModel(ctx context.Context, theme *styles.Theme, uploader *workspace.Uploader, log *zap.Logger) UploadModel {
	ti := textinput.New()
	ti.Placeholder = "Ruta del documento (PDF, DOCX, DOC)"
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubble()
	sp.Style = theme.Loading

	keys := DefaultKeyMap()
	status := components.NewStatusBar(theme)
	status.SetBindings(keys.Submit, keys.Dismiss, keys.Quit)

	return UploadModel{
		ctx:      ctx,
		theme:    theme,
		keys:     keys,
		log:      log,
		uploader: uploader,
		input:    ti,
		spinner:  sp,
		header:   components.NewHeader(theme),
		status:   status,
	}
}

// Init starts the cursor blink.
func (m UploadModel) Init() tea.Cmd {
	return textinput.Blink
}

// Notifier returns the notifier of the upload screen.
func (m UploadModel) Notifier() *notify.Notifier {
	return m.uploader.Notifier()
}

// SetSize updates the screen dimensions.
func (m *UploadModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.header.SetWidth(width)
	m.status.SetWidth(width)
	w := width - 16
	if w > 70 {
		w = 70
	}
	if w < 20 {
		w = 20
	}
	m.input.Width = w
}

// Update handles messages for the upload screen.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case spinner.TickMsg:
		if !m.uploader.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m UploadModel) handleKey(msg tea.KeyMsg) (UploadModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.uploader.Notifier().Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.startUpload()
	}

	if m.uploader.Pending() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m UploadModel) startUpload() (UploadModel, tea.Cmd) {
	fetch, note, err := m.uploader.Start(m.input.Value())
	if err != nil {
		if !errors.Is(err, workspace.ErrBusy) {
			m.log.Debug("upload rejected", zap.Error(err))
		}
		return m, expireCmd(note)
	}
	m.status.SetStatus(components.StatusUploading)
	m.input.Blur()
	return m, tea.Batch(uploadCmd(m.ctx, fetch), m.spinner.Tick)
}

func (m UploadModel) handleUploadDone(msg uploadDoneMsg) (UploadModel, tea.Cmd) {
	out := m.uploader.Complete(msg.res)
	if out.Stale {
		return m, nil
	}
	m.status.SetStatus(components.StatusReady)
	m.input.Focus()
	cmds := []tea.Cmd{expireCmd(out.Note), textinput.Blink}
	if out.OK() {
		m.input.SetValue("")
		res := msg.res
		cmds = append(cmds, func() tea.Msg {
			return documentOpenedMsg{docID: res.DocID, name: res.Name}
		})
	}
	return m, tea.Batch(cmds...)
}

// View renders the upload screen.
func (m UploadModel) View() string {
	var body []string
	body = append(body,
		m.theme.UploadTitle.Render("Cargar Documento Académico"),
		m.theme.UploadHint.Render("Suba su material de estudio para iniciar el análisis"),
		"",
		m.input.View(),
		m.theme.UploadHint.Render("PDF • DOCX • DOC"),
		"",
	)
	if m.uploader.Pending() {
		body = append(body, m.spinner.View()+" "+m.theme.Loading.Render("Procesando archivo..."))
	} else {
		body = append(body, m.theme.ShortcutKey.Render("Enter")+" "+m.theme.ShortcutDesc.Render("Procesar documento"))
	}
	box := m.theme.UploadBox.Render(lipgloss.JoinVertical(lipgloss.Left, body...))

	header := m.header.View()
	status := m.status.View()
	toast := components.ToastLine(m.uploader.Notifier(), m.width)

	used := lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(toast)
	middle := m.height - used
	if middle < lipgloss.Height(box) {
		middle = lipgloss.Height(box)
	}
	centered := lipgloss.Place(m.width, middle, lipgloss.Center, lipgloss.Center, box)

	parts := []string{header, centered}
	if toast != "" {
		parts = append(parts, toast)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
