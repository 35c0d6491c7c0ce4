// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup renders the constrained markdown dialect returned by the
// document service.
//
// Rendering is an ordered list of regular expression substitutions. The order
// matters: every rule sees the output of the previous one. Two rule sets are
// provided, one for assistant messages (with source citations) and one for
// generated workspace content (with checkboxes and separators).
//
// A list line that also contains a lone trailing asterisk, such as
// "* item *", is consumed by the italic rule before the list rule runs and
// renders as emphasis rather than a list item.
//
// # Usage
//
//	html := markup.Workspace().Render(summary)
//	fmt.Println(markup.Terminal(html, markup.DefaultStyles()))
package markup
