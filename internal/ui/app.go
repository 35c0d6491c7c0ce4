// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// screen identifies the visible screen.
type screen int

const (
	screenUpload screen = iota
	screenWorkspace
)

// Options configures the TUI.
type Options struct {
	Config  *config.Config
	Service workspace.Service
	Logger  *zap.Logger

	// Document, when set, is uploaded as soon as the program starts.
	Document string

	// Clipboard overrides the system clipboard for the copy action.
	Clipboard func(string) error
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// App is the root Bubble Tea model. It owns both screens and switches
// between them when a document is opened or closed.
type App struct {
	ctx    context.Context
	theme  *styles.Theme
	keys   KeyMap
	log    *zap.Logger
	screen screen

	upload   UploadModel
	work     WorkspaceModel
	document string

	width  int
	height int
}

// NewApp creates the application model. Requests started by the TUI are
// bound to ctx.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if opts.Service == nil {
		return nil, errors.New("ui: no document service")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	ws := workspace.New(opts.Service, workspace.Options{
		QuestionCount:  cfg.Workspace.QuestionCount,
		NotifyDuration: cfg.Notifications.Workspace(),
		Logger:         log,
	})
	uploader := workspace.NewUploader(opts.Service, notify.New(cfg.Notifications.Upload()), log)

	return &App{
		ctx:    ctx,
		theme:  theme,
		keys:   DefaultKeyMap(),
		log:    log.Named("ui"),
		screen: screenUpload,
		upload: NewUploadModel(ctx, theme, uploader, log),
		work: NewWorkspaceModel(ctx, theme, ws, WorkspaceOptions{
			ExportFormat: cfg.Export.Format,
			ExportDir:    cfg.Export.Dir,
			ShowHints:    cfg.UI.ShowHelp,
			Clipboard:    opts.Clipboard,
		}, log),
		document: opts.Document,
	}, nil
}

// Init starts the upload screen, uploading the initial document if one
// was given.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.upload.Init()}
	if a.document != "" {
		a.upload.input.SetValue(a.document)
		var cmd tea.Cmd
		a.upload, cmd = a.upload.startUpload()
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the screens.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.upload.SetSize(msg.Width, msg.Height)
		a.work.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.work.Workspace().Close()
			return a, tea.Quit
		}

	case notify.ExpiredMsg:
		// Each screen only clears its own notification.
		a.upload.Notifier().Expire(msg.ID)
		a.work.Workspace().Notifier().Expire(msg.ID)
		return a, nil

	case documentOpenedMsg:
		a.work.Workspace().Open(msg.docID, msg.name)
		a.screen = screenWorkspace
		return a, a.work.Open()

	case documentClosedMsg:
		a.screen = screenUpload
		return a, a.upload.Init()

	case uploadDoneMsg:
		a.upload, cmd = a.upload.Update(msg)
		return a, cmd

	case generationDoneMsg, chatDoneMsg, gradeDoneMsg, exportDoneMsg, clockTickMsg:
		// Results can arrive after the screen changed; the workspace
		// discards the stale ones.
		a.work, cmd = a.work.Update(msg)
		return a, cmd
	}

	switch a.screen {
	case screenWorkspace:
		a.work, cmd = a.work.Update(msg)
	default:
		a.upload, cmd = a.upload.Update(msg)
	}
	return a, cmd
}

// View renders the visible screen.
func (a *App) View() string {
	if a.screen == screenWorkspace {
		return a.work.View()
	}
	return a.upload.View()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	app, err := NewApp(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
