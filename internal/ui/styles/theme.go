// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/studydesk/internal/markup"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// UPLOAD SCREEN STYLES
	// ==========================================================================

	UploadBox   lipgloss.Style
	UploadTitle lipgloss.Style
	UploadHint  lipgloss.Style

	// ==========================================================================
	// ACTION SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemActive   lipgloss.Style
	SidebarItemDisabled lipgloss.Style

	// ==========================================================================
	// CONTENT PANE STYLES
	// ==========================================================================

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	Placeholder lipgloss.Style
	Loading     lipgloss.Style

	// ==========================================================================
	// QUESTION CARD STYLES
	// ==========================================================================

	QuestionCard        lipgloss.Style
	QuestionCardFocused lipgloss.Style
	QuestionTitle       lipgloss.Style
	QuestionType        lipgloss.Style
	Option              lipgloss.Style
	OptionSelected      lipgloss.Style
	Feedback            lipgloss.Style
	Expected            lipgloss.Style
	Progress            lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	UserBubble         lipgloss.Style
	AssistantBubble    lipgloss.Style
	Timestamp          lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style
	Typing             lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer        lipgloss.Style
	InputContainerFocused lipgloss.Style
	InputPrompt           lipgloss.Style
	InputPlaceholder      lipgloss.Style

	// ==========================================================================
	// STATUS BAR AND HELP STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	HelpBox      lipgloss.Style
	HelpTitle    lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status styles paired with StatusIndicators
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme for mode: "dark", "light" or "auto". Any other
// value detects the terminal background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Upload screen
	t.UploadBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.UploadTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginBottom(1)

	t.UploadHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	t.SidebarItemDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	// Content pane
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PaneFocused = t.Pane.
		BorderForeground(Cyan)

	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Loading = lipgloss.NewStyle().
		Foreground(Purple)

	// Questions
	t.QuestionCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		MarginBottom(1)

	t.QuestionCardFocused = t.QuestionCard.
		BorderForeground(Purple)

	t.QuestionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.QuestionType = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Option = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.OptionSelected = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		PaddingLeft(2)

	t.Feedback = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Expected = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Progress = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SuggestionSelected = t.Suggestion.
		Foreground(Cyan).
		BorderForeground(Cyan)

	t.Typing = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputContainerFocused = t.InputContainer.
		BorderForeground(Purple)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar and help
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.HelpTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	// Accessibility
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// MarkupStyles returns the styles used to draw rendered markup in the
// content and chat panes.
func (t *Theme) MarkupStyles() markup.Styles {
	st := markup.DefaultStyles()
	st.H1 = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(Cyan)
	st.H2 = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	st.H3 = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	st.Strong = lipgloss.NewStyle().Bold(true)
	st.Em = lipgloss.NewStyle().Italic(true)
	st.Citation = lipgloss.NewStyle().Foreground(Amber)
	st.Bullet = lipgloss.NewStyle().Foreground(Purple)
	st.Number = lipgloss.NewStyle().Foreground(Purple)
	st.Checkbox = lipgloss.NewStyle().Foreground(Emerald)
	st.Rule = lipgloss.NewStyle().Foreground(Overlay)
	if t.Width > 0 {
		st.RuleWidth = t.Width / 2
	}
	return st
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar collapses to a tab row
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
