// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/session"
)

// MsgCopied confirms a clipboard copy.
const MsgCopied = "Contenido copiado al portapapeles"

// msgCopyFailed is shown when the clipboard is unavailable.
const msgCopyFailed = "No se pudo copiar al portapapeles"

// Options configures a Workspace.
type Options struct {
	// QuestionCount is the number of questions requested per generation.
	QuestionCount int
	// NotifyDuration is how long workspace notifications stay visible.
	NotifyDuration time.Duration
	// Clock overrides time.Now for notifications and activity tracking.
	Clock func() time.Time
	Logger *zap.Logger
}

// Workspace owns the Session of one loaded document and the managers that
// operate on it.
type Workspace struct {
	svc   Service
	sess  *session.Session
	notes *notify.Notifier
	log   *zap.Logger

	orch   *Orchestrator
	conv   *Conversation
	grader *Grader
}

// New creates a workspace with no document loaded.
func New(svc Service, opts Options) *Workspace {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("workspace")

	duration := opts.NotifyDuration
	if duration <= 0 {
		duration = 4 * time.Second
	}
	var notifyOpts []notify.Option
	sess := session.New()
	if opts.Clock != nil {
		notifyOpts = append(notifyOpts, notify.WithClock(opts.Clock))
		sess.WithClock(opts.Clock)
	}

	w := &Workspace{
		svc:   svc,
		sess:  sess,
		notes: notify.New(duration, notifyOpts...),
		log:   log,
	}
	w.orch = NewOrchestrator(sess, svc, w.notes, log).WithQuestionCount(opts.QuestionCount)
	w.orch.onQuestionSet = w.resetGrader
	w.conv = NewConversation(sess, svc, log)
	w.resetGrader(nil)
	return w
}

// Open loads the uploaded document docID.
func (w *Workspace) Open(docID, documentName string) {
	w.reset()
	w.sess.Open(docID, documentName)
	w.log.Info("workspace opened", zap.String("doc_id", docID), zap.String("name", documentName))
}

// Close discards the session. Results of requests still in flight are
// ignored when they arrive.
func (w *Workspace) Close() {
	if w.sess.Active() {
		w.log.Info("workspace closed",
			zap.String("doc_id", w.sess.DocID()),
			zap.Duration("open_for", w.sess.Duration()),
			zap.Int("messages", w.sess.Conversation().Len()),
		)
	}
	w.reset()
	w.sess.Reset()
}

func (w *Workspace) reset() {
	w.orch.reset()
	w.conv.reset()
	w.resetGrader(nil)
	w.notes.Dismiss()
}

func (w *Workspace) resetGrader(questions []model.Question) {
	w.grader = NewGrader(questions, w.sess, w.svc, w.notes, w.log)
}

// Active reports whether a document is loaded.
func (w *Workspace) Active() bool {
	return w.sess.Active()
}

// Session returns the shared session.
func (w *Workspace) Session() *session.Session {
	return w.sess
}

// Notifier returns the workspace notifier.
func (w *Workspace) Notifier() *notify.Notifier {
	return w.notes
}

// Orchestrator returns the generation orchestrator.
func (w *Workspace) Orchestrator() *Orchestrator {
	return w.orch
}

// Conversation returns the conversation manager.
func (w *Workspace) Conversation() *Conversation {
	return w.conv
}

// Grader returns the grader of the current question set. The grader is
// replaced whenever a new set is committed.
func (w *Workspace) Grader() *Grader {
	return w.grader
}

// Busy reports whether any request of the workspace is in flight.
func (w *Workspace) Busy() bool {
	_, grading := w.grader.Pending()
	return w.orch.Loading() || w.conv.Pending() || grading
}

// CopyContent writes the current text content with write, typically a
// clipboard. Question sets cannot be copied.
func (w *Workspace) CopyContent(write func(string) error) (Outcome, error) {
	text, ok := w.sess.Content().Text()
	if !ok {
		return Outcome{}, ErrNoContent
	}
	if err := write(text); err != nil {
		w.log.Warn("copy failed", zap.Error(err))
		return Outcome{Err: err, Note: noted(w.notes.Error(msgCopyFailed))}, err
	}
	return Outcome{Note: noted(w.notes.Success(MsgCopied))}, nil
}
