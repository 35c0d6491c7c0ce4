// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the studydesk TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. A Theme can also be forced to "dark" or "light" from the ui.theme
setting.

# Colors (colors.go)

  - Purple - Primary accent, assistant messages and the selected action
  - Cyan - Brand color and headings
  - Emerald - Success and correct answers
  - Amber - Warnings and citations
  - Rose - Errors and incorrect answers

Status states always carry an ASCII indicator from StatusIndicators in
addition to their color.

# Theme (theme.go)

Theme groups the styles of every screen. MarkupStyles converts the palette
into markup.Styles for drawing generated content:

	theme := styles.NewTheme(cfg.UI.Theme)
	out := markup.Terminal(markup.Workspace().Render(text), theme.MarkupStyles())

# Animations (animations.go)

Spinner frame sets for the loading and typing indicators, and a plain ASCII
progress bar for grading progress.
*/
package styles
