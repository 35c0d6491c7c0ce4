// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the studydesk TUI.

Components are stateless renderers or small structs with a View method;
screens in the ui package own all state and pass it in.

# Components

Header (header.go) - Brand, document name and session timer.
StatusBar (statusbar.go) - Current status and key hints from bubbles key bindings.
RenderToast (toast.go) - The current notification of a notify.Notifier.
RenderMessage (message.go) - Conversation bubbles, suggestions and typing indicator.
QuestionCard (question.go) - A practice question with its answer and grading result.
*/
package components
