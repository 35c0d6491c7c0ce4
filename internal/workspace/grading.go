// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/session"
)

// gradeErrorPrefix precedes the classified message of a failed grading.
const gradeErrorPrefix = "Error al calificar: "

// GradeResult is the fetched grading of one answer.
type GradeResult struct {
	QuestionID string
	Result     model.GradingResult
	Err        error

	setID string
}

// GradeFetch performs the network call of a grading request.
type GradeFetch func(ctx context.Context) GradeResult

// Summary aggregates the grading progress of a question set.
type Summary struct {
	Total     int
	Graded    int
	Correct   int
	MeanScore float64
}

// Grader holds the answers and results of one question set. A new Grader
// is created for every committed set, so answers never leak between sets.
// One grading request is pending at a time across the whole set.
type Grader struct {
	id    string
	sess  *session.Session
	svc   Service
	notes *notify.Notifier
	log   *zap.Logger

	questions []model.Question
	index     map[string]int
	answers   map[string]string
	results   map[string]model.GradingResult

	// busy is set while a grading request is in flight for pending.
	busy    bool
	pending string
}

// NewGrader creates a grader for questions.
func NewGrader(questions []model.Question, sess *session.Session, svc Service, notes *notify.Notifier, log *zap.Logger) *Grader {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Grader{
		id:        uuid.NewString(),
		sess:      sess,
		svc:       svc,
		notes:     notes,
		log:       log,
		questions: make([]model.Question, len(questions)),
		index:     make(map[string]int, len(questions)),
		answers:   make(map[string]string),
		results:   make(map[string]model.GradingResult),
	}
	copy(g.questions, questions)
	for i, q := range g.questions {
		if _, dup := g.index[q.ID]; !dup {
			g.index[q.ID] = i
		}
	}
	return g
}

// Questions returns the question set.
func (g *Grader) Questions() []model.Question {
	qs := make([]model.Question, len(g.questions))
	copy(qs, g.questions)
	return qs
}

// Question returns the question with id.
func (g *Grader) Question(id string) (model.Question, bool) {
	i, ok := g.index[id]
	if !ok {
		return model.Question{}, false
	}
	return g.questions[i], true
}

// SetAnswer records the answer to question id. Any prior result is kept
// until the question is graded again.
func (g *Grader) SetAnswer(id, value string) error {
	if _, ok := g.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	g.answers[id] = value
	return nil
}

// SelectOption records the letter of option i as the answer to a
// multiple-choice question.
func (g *Grader) SelectOption(id string, i int) error {
	q, ok := g.Question(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if i < 0 || i >= len(q.Options) {
		return fmt.Errorf("option %d out of range for question %s", i, id)
	}
	return g.SetAnswer(id, model.OptionLetter(i))
}

// Answer returns the recorded answer to question id.
func (g *Grader) Answer(id string) (string, bool) {
	a, ok := g.answers[id]
	return a, ok
}

// Result returns the grading result of question id.
func (g *Grader) Result(id string) (model.GradingResult, bool) {
	r, ok := g.results[id]
	return r, ok
}

// Pending returns the id of the question being graded.
func (g *Grader) Pending() (string, bool) {
	return g.pending, g.busy
}

// Graded returns the number of graded questions.
func (g *Grader) Graded() int {
	return len(g.results)
}

// Summary returns the grading progress of the set.
func (g *Grader) Summary() Summary {
	s := Summary{Total: len(g.questions), Graded: len(g.results)}
	var total float64
	for _, r := range g.results {
		if r.Correct {
			s.Correct++
		}
		total += r.Score
	}
	if s.Graded > 0 {
		s.MeanScore = total / float64(s.Graded)
	}
	return s
}

// Grade returns the fetch that grades the recorded answer to question id.
func (g *Grader) Grade(id string) (GradeFetch, error) {
	q, ok := g.Question(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	answer, ok := g.answers[id]
	if !ok || answer == "" {
		return nil, ErrNoAnswer
	}
	if g.busy {
		return nil, ErrBusy
	}
	if !g.sess.Active() {
		return nil, ErrNoDocument
	}

	g.busy, g.pending = true, id
	g.sess.Touch()
	docID, setID, svc := g.sess.DocID(), g.id, g.svc
	return func(ctx context.Context) GradeResult {
		res, err := svc.Grade(ctx, docID, q, answer)
		return GradeResult{QuestionID: q.ID, Result: res, Err: err, setID: setID}
	}, nil
}

// Complete stores a fetched result under its question. A failure raises a
// notification and leaves any earlier result in place.
func (g *Grader) Complete(res GradeResult) Outcome {
	if res.setID != g.id || !g.busy || res.QuestionID != g.pending {
		return Outcome{Stale: true}
	}
	g.busy, g.pending = false, ""

	if res.Err != nil {
		g.log.Warn("grading failed",
			zap.String("question_id", res.QuestionID),
			zap.String("kind", apierr.KindOf(res.Err).String()),
			zap.Error(res.Err),
		)
		note := g.notes.Error(gradeErrorPrefix + apierr.Message(res.Err))
		return Outcome{Err: res.Err, Note: &note}
	}

	g.results[res.QuestionID] = res.Result.Normalize()
	g.log.Info("answer graded",
		zap.String("question_id", res.QuestionID),
		zap.Bool("correct", res.Result.Correct),
		zap.Float64("score", res.Result.Score),
	)
	return Outcome{}
}

// Run grades question id and waits for the result.
func (g *Grader) Run(ctx context.Context, id string) (model.GradingResult, error) {
	fetch, err := g.Grade(id)
	if err != nil {
		return model.GradingResult{}, err
	}
	out := g.Complete(fetch(ctx))
	if out.Err != nil {
		return model.GradingResult{}, out.Err
	}
	r, _ := g.Result(id)
	return r, nil
}
