// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/session"
)

// DefaultQuestionCount is the number of practice questions requested when
// none is configured.
const DefaultQuestionCount = 8

// Success messages for generation actions.
const (
	MsgSummaryReady   = "Resumen generado correctamente"
	MsgQuestionsReady = "Preguntas generadas correctamente"
	MsgStudyPlanReady = "Plan de estudio generado correctamente"
)

// GenerationResult is the fetched result of one generation action.
type GenerationResult struct {
	Action    model.Action
	Text      string
	Questions []model.Question
	Err       error

	seq uint64
}

// GenerationFetch performs the network call of a started action.
type GenerationFetch func(ctx context.Context) GenerationResult

// Orchestrator runs the generation actions of the workspace. At most one
// action is in flight; while one is loading every other start is rejected.
type Orchestrator struct {
	sess          *session.Session
	svc           Service
	notes         *notify.Notifier
	log           *zap.Logger
	questionCount int

	loading model.Action
	seq     uint64
	started time.Time

	// onQuestionSet is called with the committed question set, or nil when
	// content is cleared.
	onQuestionSet func([]model.Question)
}

// NewOrchestrator creates an orchestrator over sess.
func NewOrchestrator(sess *session.Session, svc Service, notes *notify.Notifier, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		sess:          sess,
		svc:           svc,
		notes:         notes,
		log:           log,
		questionCount: DefaultQuestionCount,
	}
}

// WithQuestionCount sets how many questions are requested per generation.
func (o *Orchestrator) WithQuestionCount(n int) *Orchestrator {
	if n > 0 {
		o.questionCount = n
	}
	return o
}

// QuestionCount returns the number of questions requested per generation.
func (o *Orchestrator) QuestionCount() int {
	return o.questionCount
}

// Loading reports whether an action is in flight.
func (o *Orchestrator) Loading() bool {
	return o.loading != model.ActionNone
}

// Active returns the action in flight, ActionNone when idle.
func (o *Orchestrator) Active() model.Action {
	return o.loading
}

// Start begins action. The previous content is cleared immediately and the
// returned fetch performs the request.
func (o *Orchestrator) Start(action model.Action) (GenerationFetch, error) {
	if o.Loading() {
		return nil, ErrBusy
	}
	if !o.sess.Active() {
		return nil, ErrNoDocument
	}
	switch action {
	case model.ActionSummary, model.ActionQuestions, model.ActionStudyPlan:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	o.seq++
	o.loading = action
	o.started = time.Now()
	o.sess.ClearContent()
	o.sess.Touch()
	if o.onQuestionSet != nil {
		o.onQuestionSet(nil)
	}

	o.log.Debug("generation started", zap.String("action", action.String()))
	return o.fetcher(action, o.sess.DocID(), o.questionCount, o.seq), nil
}

func (o *Orchestrator) fetcher(action model.Action, docID string, n int, seq uint64) GenerationFetch {
	svc := o.svc
	return func(ctx context.Context) GenerationResult {
		res := GenerationResult{Action: action, seq: seq}
		switch action {
		case model.ActionSummary:
			res.Text, res.Err = svc.Summary(ctx, docID)
		case model.ActionQuestions:
			res.Questions, res.Err = svc.Questions(ctx, docID, n)
		case model.ActionStudyPlan:
			res.Text, res.Err = svc.StudyPlan(ctx, docID)
		}
		return res
	}
}

// Complete commits a fetched result. A result that does not belong to the
// action in flight is discarded.
func (o *Orchestrator) Complete(res GenerationResult) Outcome {
	if !o.Loading() || res.seq != o.seq || res.Action != o.loading {
		o.log.Debug("stale generation result discarded", zap.String("action", res.Action.String()))
		return Outcome{Stale: true}
	}

	elapsed := time.Since(o.started)
	o.loading = model.ActionNone

	if res.Err != nil {
		o.log.Warn("generation failed",
			zap.String("action", res.Action.String()),
			zap.String("kind", apierr.KindOf(res.Err).String()),
			zap.Duration("duration", elapsed),
			zap.Error(res.Err),
		)
		return Outcome{Err: res.Err, Note: noted(o.notifyFailure(res.Err))}
	}

	var msg string
	switch res.Action {
	case model.ActionSummary:
		o.sess.SetContent(session.Text(res.Action, res.Text))
		msg = MsgSummaryReady
	case model.ActionStudyPlan:
		o.sess.SetContent(session.Text(res.Action, res.Text))
		msg = MsgStudyPlanReady
	case model.ActionQuestions:
		o.sess.SetContent(session.Questions(res.Questions))
		if o.onQuestionSet != nil {
			o.onQuestionSet(res.Questions)
		}
		msg = MsgQuestionsReady
	}

	o.log.Info("generation completed",
		zap.String("action", res.Action.String()),
		zap.Int("questions", len(res.Questions)),
		zap.Duration("duration", elapsed),
	)
	return Outcome{Note: noted(o.notes.Success(msg))}
}

// Run starts action, performs the request and commits the result.
func (o *Orchestrator) Run(ctx context.Context, action model.Action) (Outcome, error) {
	fetch, err := o.Start(action)
	if err != nil {
		return Outcome{}, err
	}
	out := o.Complete(fetch(ctx))
	return out, out.Err
}

// reset returns to idle, discarding any action in flight.
func (o *Orchestrator) reset() {
	o.loading = model.ActionNone
	o.seq++
}

func (o *Orchestrator) notifyFailure(err error) notify.Notification {
	if apierr.KindOf(err) == apierr.KindRateLimited {
		return o.notes.Warning(apierr.Message(err))
	}
	return o.notes.Error(apierr.Message(err))
}
