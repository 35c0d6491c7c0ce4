// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/ui/styles"
	"github.com/jeranaias/studydesk/internal/util"
)

// QuestionCard holds everything needed to draw one practice question.
type QuestionCard struct {
	Index    int
	Question model.Question
	Answer   string
	Result   *model.GradingResult
	Focused  bool
	Grading  bool

	// Input is the rendered answer field of a focused short-answer question.
	Input string
}

// Render draws the card at most width cells wide.
func (c QuestionCard) Render(theme *styles.Theme, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var sb strings.Builder
	sb.WriteString(theme.QuestionTitle.Render("Pregunta " + toStr(c.Index+1)))
	sb.WriteString("  ")
	sb.WriteString(theme.QuestionType.Render(c.Question.TypeLabel()))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(util.WrapWords(c.Question.Prompt, inner), "\n"))
	sb.WriteString("\n")

	if c.Question.IsMultipleChoice() {
		for i, opt := range c.Question.Options {
			letter := model.OptionLetter(i)
			style, mark := theme.Option, "( )"
			if strings.EqualFold(c.Answer, letter) {
				style, mark = theme.OptionSelected, "(*)"
			}
			sb.WriteString(style.Render(mark + " " + letter + ") " + opt))
			sb.WriteString("\n")
		}
	} else {
		switch {
		case c.Focused && c.Input != "":
			sb.WriteString(c.Input)
		case c.Answer != "":
			sb.WriteString(theme.Option.Render("> " + c.Answer))
		default:
			sb.WriteString(theme.Placeholder.Render("Escribe tu respuesta aquí..."))
		}
		sb.WriteString("\n")
	}

	if c.Grading {
		sb.WriteString(theme.Loading.Render("Calificando..."))
		sb.WriteString("\n")
	}
	if c.Result != nil {
		sb.WriteString(RenderResult(theme, *c.Result, inner))
	}

	card := theme.QuestionCard
	if c.Focused {
		card = theme.QuestionCardFocused
	}
	return card.Width(width - 2).Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderResult draws a grading verdict with its score, feedback and the
// expected answer when the service sent one.
func RenderResult(theme *styles.Theme, r model.GradingResult, width int) string {
	lines := []string{
		styles.RenderVerdict(r.Correct, r.Verdict()) + "  " +
			theme.Progress.Render("Puntuación: "+toStr(r.Percent())+"%"),
	}
	if r.Feedback != "" {
		lines = append(lines, theme.Feedback.Render(strings.Join(util.WrapWords(r.Feedback, width), "\n")))
	}
	if r.ExpectedAnswer != "" {
		lines = append(lines, theme.Expected.Render("Respuesta esperada: "+r.ExpectedAnswer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderProgress draws the grading progress line of a question set.
func RenderProgress(theme *styles.Theme, graded, total, correct int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(graded) * 100 / float64(total)
	}
	return theme.Progress.Render(
		"[" + styles.RenderProgressBar(20, percent) + "] " +
			toStr(graded) + "/" + toStr(total) + " calificadas · " +
			toStr(correct) + " correctas",
	)
}
