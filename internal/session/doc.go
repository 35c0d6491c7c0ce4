// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state shared by the managers of one loaded
// document.
//
// A Session is an explicit handle: the workspace creates it when a document
// is uploaded, injects it into the orchestrator, the conversation manager
// and the grading manager, and resets it when the user leaves the
// workspace. It carries no locks; every mutation happens on the goroutine
// that drives the UI (or the single goroutine of a CLI command).
//
// # Key Types
//
//   - Session: document id and name, generated content, conversation log
//   - Content: exactly one of Empty, Text or Questions
//
// # Usage
//
//	s := session.New()
//	s.Open("abc123", "apuntes.pdf")
//	s.SetContent(session.Text(model.ActionSummary, summary))
//	s.Reset()
package session
