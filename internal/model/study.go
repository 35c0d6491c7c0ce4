// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// GENERATION ACTIONS
// =============================================================================

// Action identifies one of the content generation actions of the workspace.
type Action int

const (
	ActionNone Action = iota
	ActionSummary
	ActionQuestions
	ActionStudyPlan
)

// Actions lists the generation actions in sidebar order.
var Actions = []Action{ActionSummary, ActionQuestions, ActionStudyPlan}

// String returns the wire-style name of the action.
func (a Action) String() string {
	switch a {
	case ActionSummary:
		return "summary"
	case ActionQuestions:
		return "questions"
	case ActionStudyPlan:
		return "study_plan"
	default:
		return "none"
	}
}

// Label returns the button label for the action.
func (a Action) Label() string {
	switch a {
	case ActionSummary:
		return "Generar Resumen"
	case ActionQuestions:
		return "Generar Preguntas"
	case ActionStudyPlan:
		return "Plan de Estudio"
	default:
		return ""
	}
}

// Title returns the heading of the content pane while the action's result is shown.
func (a Action) Title() string {
	switch a {
	case ActionSummary:
		return "Resumen del Documento"
	case ActionQuestions:
		return "Preguntas de Práctica"
	case ActionStudyPlan:
		return "Plan de Estudio"
	default:
		return "Contenido Generado"
	}
}

// ParseAction parses an action name as accepted on the command line.
func ParseAction(s string) (Action, error) {
	switch s {
	case "summary", "resumen":
		return ActionSummary, nil
	case "questions", "preguntas":
		return ActionQuestions, nil
	case "plan", "study_plan", "study-plan":
		return ActionStudyPlan, nil
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// =============================================================================
// QUESTIONS
// =============================================================================

// QuestionType is the kind of a practice question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "mcq"
	QuestionShortAnswer    QuestionType = "short"
)

// Question is one practice question produced by the document service.
type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"question"`
	Options []string     `json:"options,omitempty"`
}

// UnmarshalJSON accepts numeric or string ids.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		Type    QuestionType    `json:"type"`
		Prompt  string          `json:"question"`
		Options []string        `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := string(raw.ID)
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		id = s
	}
	if id == "null" {
		id = ""
	}
	q.ID = id
	q.Type = raw.Type
	q.Prompt = raw.Prompt
	q.Options = raw.Options
	return nil
}

// IsMultipleChoice reports whether the question is answered by choosing an option.
// Any type other than "mcq" is treated as short-answer.
func (q Question) IsMultipleChoice() bool {
	return q.Type == QuestionMultipleChoice
}

// TypeLabel returns the human-readable question type.
func (q Question) TypeLabel() string {
	if q.IsMultipleChoice() {
		return "Opción Múltiple"
	}
	return "Respuesta Corta"
}

// OptionLetter returns the answer letter for option i (A, B, ...).
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

// OptionIndex returns the option index for an answer letter, or -1.
func OptionIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

// =============================================================================
// GRADING
// =============================================================================

// GradingResult is the service's verdict on one answer.
type GradingResult struct {
	Correct        bool    `json:"is_correct"`
	Score          float64 `json:"score"`
	Feedback       string  `json:"feedback"`
	ExpectedAnswer string  `json:"expected_answer,omitempty"`
}

// Normalize clamps the score into [0, 1].
func (r GradingResult) Normalize() GradingResult {
	switch {
	case r.Score < 0:
		r.Score = 0
	case r.Score > 1:
		r.Score = 1
	}
	return r
}

// Percent returns the score as a whole percentage.
func (r GradingResult) Percent() int {
	return int(r.Normalize().Score*100 + 0.5)
}

// Verdict returns "Correcto" or "Incorrecto".
func (r GradingResult) Verdict() string {
	if r.Correct {
		return "Correcto"
	}
	return "Incorrecto"
}
