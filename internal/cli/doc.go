// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the studydesk command line on cobra.
//
// Without a subcommand the terminal interface starts. The other commands
// run one workspace operation and print the result:
//
//   - upload: send a document and print its id
//   - summary, plan: generate text content
//   - questions: generate practice questions, optionally as JSON or a quiz
//   - grade: grade one answer to a saved question
//   - ask: ask one question about a document
//   - chat: interactive conversation with line editing and history
//   - export: generate content and write it to a file
//   - config: show, locate, create and edit the configuration
//   - version: print build information
//
// Commands that need a document accept either a file, which is uploaded
// first, or --doc with the id of an uploaded document.
//
// # Usage
//
//	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
//	    os.Exit(1)
//	}
package cli
