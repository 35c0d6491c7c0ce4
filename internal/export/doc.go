// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the study workspace to a file.
//
// A Snapshot captures the workspace at one moment: the document, the
// generated content, the question set with answers and grading results,
// and the conversation. Exporters turn a snapshot into Markdown, HTML or
// JSON.
//
// # Key Types
//
//   - Snapshot: immutable copy of the workspace state
//   - Exporter: format interface (Markdown, HTML, JSON)
//   - Options: output directory, metadata, theme
//
// # Usage
//
//	snap := export.FromWorkspace(ws)
//	exporter, err := export.ForFormat("html", opts)
//	path, err := export.ExportToFile(snap, exporter, opts)
//
// HTML output renders content with the markup package and passes the
// result through a bluemonday policy before embedding it.
package export
