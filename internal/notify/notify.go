// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the single-slot transient notification used by
// the upload and workspace screens.
//
// At most one notification is visible at a time. A new notification replaces
// the current one immediately; nothing is queued. Each notification expires
// after the notifier's configured duration.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// Kind is the severity of a notification.
type Kind int

const (
	KindSuccess Kind = iota
	KindWarning
	KindError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is one transient status message.
type Notification struct {
	ID      string
	Message string
	Kind    Kind
	Created time.Time
	Expires time.Time
}

// Duration returns how long the notification stays visible.
func (n Notification) Duration() time.Duration {
	return n.Expires.Sub(n.Created)
}

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier holds the current notification of one screen.
// It is not safe for concurrent use; all calls happen on the UI goroutine.
type Notifier struct {
	duration time.Duration
	now      func() time.Time
	current  *Notification
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithClock replaces the clock used to stamp and expire notifications.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// New creates a notifier whose notifications expire after duration.
func New(duration time.Duration, opts ...Option) *Notifier {
	n := &Notifier{
		duration: duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Duration returns the expiry duration applied to new notifications.
func (n *Notifier) Duration() time.Duration {
	return n.duration
}

// Notify replaces the current notification and returns the new one.
func (n *Notifier) Notify(message string, kind Kind) Notification {
	now := n.now()
	note := Notification{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		Created: now,
		Expires: now.Add(n.duration),
	}
	n.current = &note
	return note
}

// Success is shorthand for Notify(message, KindSuccess).
func (n *Notifier) Success(message string) Notification {
	return n.Notify(message, KindSuccess)
}

// Warning is shorthand for Notify(message, KindWarning).
func (n *Notifier) Warning(message string) Notification {
	return n.Notify(message, KindWarning)
}

// Error is shorthand for Notify(message, KindError).
func (n *Notifier) Error(message string) Notification {
	return n.Notify(message, KindError)
}

// Dismiss clears the current notification.
func (n *Notifier) Dismiss() {
	n.current = nil
}

// Expire clears the current notification if it is still the one identified
// by id. The timer of a replaced notification never clears its successor.
func (n *Notifier) Expire(id string) bool {
	if n.current == nil || n.current.ID != id {
		return false
	}
	n.current = nil
	return true
}

// Current returns the visible notification. An expired notification is
// treated as absent.
func (n *Notifier) Current() (Notification, bool) {
	if n.current == nil {
		return Notification{}, false
	}
	if !n.now().Before(n.current.Expires) {
		n.current = nil
		return Notification{}, false
	}
	return *n.current, true
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ExpiredMsg is delivered when a notification's display time has elapsed.
type ExpiredMsg struct {
	ID string
}

// ExpireCmd schedules the ExpiredMsg for note.
func ExpireCmd(note Notification) tea.Cmd {
	return tea.Tick(note.Duration(), func(time.Time) tea.Msg {
		return ExpiredMsg{ID: note.ID}
	})
}
