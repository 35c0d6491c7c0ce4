// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package ui implements the studydesk terminal interface on Bubble Tea.

The App model owns two screens:

  - UploadModel asks for a document path and uploads it.
  - WorkspaceModel shows the loaded document: the action sidebar, the
    generated content or practice questions, and the conversation.

# Requests

Every service request follows the same two steps. The workspace manager's
Start, Send or Grade call runs on the update goroutine, marks the manager
busy and returns a fetch function. The fetch runs inside a tea.Cmd and its
result comes back as a *DoneMsg, which is applied with the manager's
Complete. Results of a document that has since been closed are dropped by
Complete.

# Notifications

Outcomes carry at most one notification. The screen shows the current
notification of its notifier and schedules notify.ExpireCmd so the
notification disappears after the configured duration.

# Key Bindings

See DefaultKeyMap. F1 opens the full list.
*/
package ui
