// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders generated markdown for the terminal. Piped output
// gets the text unchanged.
func (e *Env) renderMarkdown(content string) string {
	if !e.tty {
		return strings.TrimRight(content, "\n") + "\n"
	}
	width := GetTerminalWidth()
	if width > MaxRenderWidth {
		width = MaxRenderWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return content + "\n"
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

// printGenerated prints generated content under its title.
func (e *Env) printGenerated(action model.Action, text string) {
	if e.tty {
		fmt.Fprintln(e.Out, TitleStyle.Render(action.Title()))
	}
	fmt.Fprint(e.Out, e.renderMarkdown(text))
}

// outputJSON writes data as indented JSON.
func (e *Env) outputJSON(data interface{}) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// =============================================================================
// QUESTIONS AND RESULTS
// =============================================================================

// formatQuestion renders question i with its lettered options.
func formatQuestion(i int, q model.Question) string {
	var sb strings.Builder
	sb.WriteString(SectionStyle.Render(fmt.Sprintf("Pregunta %d", i+1)))
	sb.WriteString(" ")
	sb.WriteString(DimStyle.Render("(" + q.TypeLabel() + ")"))
	sb.WriteString("\n")
	sb.WriteString(q.Prompt)
	sb.WriteString("\n")
	for j, opt := range q.Options {
		sb.WriteString(fmt.Sprintf("  %s) %s\n", model.OptionLetter(j), opt))
	}
	return sb.String()
}

// formatResult renders a grading result.
func formatResult(r model.GradingResult) string {
	var sb strings.Builder
	sb.WriteString(styles.RenderVerdict(r.Correct, r.Verdict()))
	sb.WriteString(DimStyle.Render(fmt.Sprintf(" · Puntuación: %d%%", r.Percent())))
	sb.WriteString("\n")
	if r.Feedback != "" {
		sb.WriteString(r.Feedback)
		sb.WriteString("\n")
	}
	if r.ExpectedAnswer != "" {
		sb.WriteString(DimStyle.Render("Respuesta esperada: "))
		sb.WriteString(r.ExpectedAnswer)
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatSummary renders the grading progress of a question set.
func formatSummary(s workspace.Summary) string {
	return fmt.Sprintf("%s %d/%d calificadas · %d correctas · media %d%%\n",
		styles.RenderProgressBar(20, 100*float64(s.Graded)/float64(max(1, s.Total))),
		s.Graded, s.Total, s.Correct, int(s.MeanScore*100+0.5))
}
