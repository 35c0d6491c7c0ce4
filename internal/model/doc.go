// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the study workspace.
//
// This package defines the core domain types shared by the document service
// client, the workspace managers and the user interfaces.
//
// # Key Types
//
//   - Conversation: Append-only log of the questions asked about a document
//   - Message: Single immutable entry with role, content and timestamp
//   - Action: One of the generation actions (summary, questions, study plan)
//   - Question: Practice question, multiple-choice or short-answer
//   - GradingResult: Verdict, score and feedback for one answer
//
// # Usage
//
// Create a conversation and record an exchange:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("¿Cuál es el tema principal?")
//	conv.AddAssistantMessage("El documento trata sobre...")
//
// Work with questions:
//
//	if q.IsMultipleChoice() {
//	    answer := model.OptionLetter(2) // "C"
//	}
package model
