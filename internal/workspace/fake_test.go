// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jeranaias/studydesk/internal/model"
)

// fakeService records calls and answers from its fields.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	docID     string
	summary   string
	plan      string
	questions []model.Question
	grades    map[string]model.GradingResult
	answer    string
	err       error

	lastQuestionCount int
	lastGradeAnswer   string
}

func (f *fakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	f.record("upload")
	return f.docID, f.err
}

func (f *fakeService) UploadFile(ctx context.Context, path string) (string, error) {
	f.record("upload")
	return f.docID, f.err
}

func (f *fakeService) Summary(ctx context.Context, docID string) (string, error) {
	f.record("summary")
	return f.summary, f.err
}

func (f *fakeService) Questions(ctx context.Context, docID string, n int) ([]model.Question, error) {
	f.record("questions")
	f.lastQuestionCount = n
	return f.questions, f.err
}

func (f *fakeService) StudyPlan(ctx context.Context, docID string) (string, error) {
	f.record("study_plan")
	return f.plan, f.err
}

func (f *fakeService) Grade(ctx context.Context, docID string, q model.Question, answer string) (model.GradingResult, error) {
	f.record("grade:" + q.ID)
	f.lastGradeAnswer = answer
	return f.grades[q.ID], f.err
}

func (f *fakeService) Chat(ctx context.Context, docID, question string) (string, error) {
	f.record("chat")
	return f.answer, f.err
}

// fixedClock returns a controllable clock.
func fixedClock() (func() time.Time, func(time.Duration)) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func newTestWorkspace(svc Service) *Workspace {
	clock, _ := fixedClock()
	w := New(svc, Options{QuestionCount: 8, NotifyDuration: 4 * time.Second, Clock: clock})
	w.Open("abc123", "apuntes.pdf")
	return w
}

func sampleQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:     string(rune('a' + i)),
			Type:   model.QuestionShortAnswer,
			Prompt: "Pregunta " + string(rune('A'+i)),
		}
	}
	return qs
}
