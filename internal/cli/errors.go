// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/studydesk/internal/apierr"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports invalid command usage.
type UsageError struct {
	Reason  string
	Example string
}

func (e *UsageError) Error() string {
	if e.Example != "" {
		return fmt.Sprintf("%s\nEjemplo: %s", e.Reason, e.Example)
	}
	return e.Reason
}

// CommandError wraps a failure with the command that produced it.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// wrapCommand attaches the command name to err.
func wrapCommand(command string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Err: err}
}

// =============================================================================
// DISPLAY
// =============================================================================

// FormatError renders err for the terminal. Classified service failures
// show the service message rather than the internal description.
func FormatError(err error) string {
	msg := err.Error()
	var apiErr *apierr.Error
	var usage *UsageError
	switch {
	case errors.As(err, &apiErr):
		msg = apiErr.Message
	case errors.As(err, &usage):
		msg = usage.Error()
	}
	return ErrorStyle.Render("Error:") + " " + msg
}
