// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the TUI, the CLI and the
// export writers.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes, TruncateWidth: UTF-8 and cell-width safe truncation
//   - WrapWords: Word wrapping for fixed-width panes
//   - PadRight: Cell-width aware padding
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	name := util.TruncateWidth(documentName, 30)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
