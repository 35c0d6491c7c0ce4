// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace coordinates the study workspace of one loaded document.
//
// Each manager splits a service call into two phases so it fits the Bubble
// Tea update loop:
//
//  1. Start (or Send, Grade) validates the request and applies the
//     synchronous state change, returning a Fetch function.
//  2. Fetch runs inside a tea.Cmd. It performs the network call and never
//     touches the Session.
//  3. Complete commits the fetched result back on the update goroutine.
//
// Run, Ask and the other synchronous helpers chain the three phases for the
// command line.
//
// # Key Types
//
//   - Workspace: owns the Session and the three managers
//   - Orchestrator: single-flight summary, question and study plan generation
//   - Conversation: question and answer log about the document
//   - Grader: answers and grading results for one question set
//   - Uploader: document upload with its own busy flag
package workspace
