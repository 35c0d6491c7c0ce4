// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"errors"

	"github.com/jeranaias/studydesk/internal/notify"
)

// Sentinel errors returned when a request is rejected before any network
// call. A rejection never changes the Session.
var (
	// ErrBusy is returned while a request of the same manager is pending.
	ErrBusy = errors.New("request already in progress")

	// ErrNoDocument is returned when no document is loaded.
	ErrNoDocument = errors.New("no active document")

	// ErrUnknownAction is returned for an action that cannot be generated.
	ErrUnknownAction = errors.New("unknown action")

	// ErrEmptyMessage is returned for a blank chat question.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoAnswer is returned when grading a question without an answer.
	ErrNoAnswer = errors.New("no answer recorded")

	// ErrUnknownQuestion is returned for an id outside the question set.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNoContent is returned when copying while no text content is shown.
	ErrNoContent = errors.New("no text content to copy")
)

// Outcome reports what a Complete call committed.
type Outcome struct {
	// Note is the notification raised, nil when none.
	Note *notify.Notification
	// Err is the failure of the request, nil on success.
	Err error
	// Stale reports that the result no longer matched the workspace and
	// was discarded.
	Stale bool
}

// OK reports whether the result was committed successfully.
func (o Outcome) OK() bool {
	return !o.Stale && o.Err == nil
}

func noted(n notify.Notification) *notify.Notification {
	return &n
}
