// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/session"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a copy of the workspace state taken for export.
type Snapshot struct {
	DocID        string           `json:"doc_id"`
	DocumentName string           `json:"document_name"`
	OpenedAt     time.Time        `json:"opened_at"`
	ExportedAt   time.Time        `json:"exported_at"`
	Content      *ContentRecord   `json:"content,omitempty"`
	Questions    []QuestionRecord `json:"questions,omitempty"`
	Progress     *Progress        `json:"progress,omitempty"`
	Messages     []model.Message  `json:"messages"`
}

// ContentRecord is generated text content.
type ContentRecord struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// QuestionRecord is one question with the user's answer and its result.
type QuestionRecord struct {
	ID      string               `json:"id"`
	Type    model.QuestionType   `json:"type"`
	Prompt  string               `json:"question"`
	Options []string             `json:"options,omitempty"`
	Answer  string               `json:"answer,omitempty"`
	Result  *model.GradingResult `json:"result,omitempty"`
}

// Progress summarizes grading of the question set.
type Progress struct {
	Total     int     `json:"total"`
	Graded    int     `json:"graded"`
	Correct   int     `json:"correct"`
	MeanScore float64 `json:"mean_score"`
}

// FromWorkspace captures the current state of w.
func FromWorkspace(w *workspace.Workspace) *Snapshot {
	sess := w.Session()
	snap := &Snapshot{
		DocID:        sess.DocID(),
		DocumentName: sess.DocumentName(),
		OpenedAt:     sess.OpenedAt(),
		ExportedAt:   time.Now(),
		Messages:     sess.Conversation().Messages(),
	}

	content := sess.Content()
	switch content.Kind() {
	case session.ContentText:
		text, _ := content.Text()
		snap.Content = &ContentRecord{
			Action: content.Action().String(),
			Title:  content.Action().Title(),
			Text:   text,
		}
	case session.ContentQuestions:
		g := w.Grader()
		qs, _ := content.Questions()
		snap.Questions = make([]QuestionRecord, 0, len(qs))
		for _, q := range qs {
			rec := QuestionRecord{ID: q.ID, Type: q.Type, Prompt: q.Prompt, Options: q.Options}
			rec.Answer, _ = g.Answer(q.ID)
			if r, ok := g.Result(q.ID); ok {
				r := r
				rec.Result = &r
			}
			snap.Questions = append(snap.Questions, rec)
		}
		s := g.Summary()
		snap.Progress = &Progress{Total: s.Total, Graded: s.Graded, Correct: s.Correct, MeanScore: s.MeanScore}
	}
	return snap
}

// IsEmpty reports whether there is nothing to export.
func (s *Snapshot) IsEmpty() bool {
	return s.Content == nil && len(s.Questions) == 0 && len(s.Messages) == 0
}

// Title returns the document name, or a generic title.
func (s *Snapshot) Title() string {
	if s.DocumentName != "" {
		return s.DocumentName
	}
	return "Sesión de estudio"
}
