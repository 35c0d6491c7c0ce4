// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// uploadDoneMsg carries a finished upload to the update loop.
type uploadDoneMsg struct{ res workspace.UploadResult }

// generationDoneMsg carries a finished generation request.
type generationDoneMsg struct{ res workspace.GenerationResult }

// chatDoneMsg carries a finished chat request.
type chatDoneMsg struct{ res workspace.ChatResult }

// gradeDoneMsg carries a finished grading request.
type gradeDoneMsg struct{ res workspace.GradeResult }

// exportDoneMsg reports the result of writing an export file.
type exportDoneMsg struct {
	path string
	err  error
}

// documentOpenedMsg asks the app to switch to the workspace screen.
type documentOpenedMsg struct {
	docID string
	name  string
}

// documentClosedMsg asks the app to return to the upload screen.
type documentClosedMsg struct{}

// clockInterval is how often the session timer in the header refreshes.
const clockInterval = time.Second

// clockTickMsg refreshes the session timer. Ticks of an earlier document
// carry an old gen and are dropped.
type clockTickMsg struct {
	gen int
	at  time.Time
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// The fetch functions never touch UI state; they run on Bubble Tea's
// command goroutines and hand their result back as a message.

func uploadCmd(ctx context.Context, fetch workspace.UploadFetch) tea.Cmd {
	return func() tea.Msg { return uploadDoneMsg{res: fetch(ctx)} }
}

func generationCmd(ctx context.Context, fetch workspace.GenerationFetch) tea.Cmd {
	return func() tea.Msg { return generationDoneMsg{res: fetch(ctx)} }
}

func chatCmd(ctx context.Context, fetch workspace.ChatFetch) tea.Cmd {
	return func() tea.Msg { return chatDoneMsg{res: fetch(ctx)} }
}

func gradeCmd(ctx context.Context, fetch workspace.GradeFetch) tea.Cmd {
	return func() tea.Msg { return gradeDoneMsg{res: fetch(ctx)} }
}

// expireCmd schedules the expiry of the notification an outcome raised.
func expireCmd(note *notify.Notification) tea.Cmd {
	if note == nil {
		return nil
	}
	return notify.ExpireCmd(*note)
}
