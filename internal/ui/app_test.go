// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
	"github.com/jeranaias/studydesk/internal/workspace"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fakeService answers every call from its fields.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	summary   string
	plan      string
	answer    string
	questions []model.Question
	grades    map[string]model.GradingResult
	err       error
}

func (f *fakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	f.record("upload")
	return "doc-1", f.err
}

func (f *fakeService) UploadFile(ctx context.Context, path string) (string, error) {
	f.record("upload")
	return "doc-1", f.err
}

func (f *fakeService) Summary(ctx context.Context, docID string) (string, error) {
	f.record("summary")
	return f.summary, f.err
}

func (f *fakeService) Questions(ctx context.Context, docID string, n int) ([]model.Question, error) {
	f.record("questions")
	return f.questions, f.err
}

func (f *fakeService) StudyPlan(ctx context.Context, docID string) (string, error) {
	f.record("study_plan")
	return f.plan, f.err
}

func (f *fakeService) Grade(ctx context.Context, docID string, q model.Question, answer string) (model.GradingResult, error) {
	f.record("grade:" + q.ID + ":" + answer)
	return f.grades[q.ID], f.err
}

func (f *fakeService) Chat(ctx context.Context, docID, question string) (string, error) {
	f.record("chat:" + question)
	return f.answer, f.err
}

type testClipboard struct{ text string }

func (c *testClipboard) write(s string) error {
	c.text = s
	return nil
}

// newTestApp creates an app with a 120x40 terminal.
func newTestApp(t *testing.T, svc workspace.Service, clip *testClipboard) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	opts := Options{Config: cfg, Service: svc}
	if clip != nil {
		opts.Clipboard = clip.write
	}
	app, err := NewApp(context.Background(), opts)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

// openApp returns an app with apuntes.pdf already opened.
func openApp(t *testing.T, svc workspace.Service, clip *testClipboard) *App {
	t.Helper()
	app := newTestApp(t, svc, clip)
	app.Update(documentOpenedMsg{docID: "doc-1", name: "apuntes.pdf"})
	require.Equal(t, screenWorkspace, app.screen)
	return app
}

func press(app *App, k tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(k)
	return cmd
}

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// awaitMsg runs cmd and every command it batches, returning the first
// message of type T. Timer commands never finish within the deadline, so
// only request results can be awaited.
func awaitMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	require.NotNil(t, cmd, "expected a command producing %T", zero)

	out := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, b := range batch {
					run(b)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-out:
			if m, ok := msg.(T); ok {
				return m
			}
		case <-deadline:
			t.Fatalf("no %T produced", zero)
			return zero
		}
	}
}

func currentNote(t *testing.T, n *notify.Notifier) notify.Notification {
	t.Helper()
	note, ok := n.Current()
	require.True(t, ok, "expected a visible notification")
	return note
}

// =============================================================================
// UPLOAD SCREEN
// =============================================================================

func TestApp_UploadOpensWorkspace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apuntes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	svc := &fakeService{}
	app := newTestApp(t, svc, nil)
	app.Init()
	app.upload.input.SetValue(path)

	done := awaitMsg[uploadDoneMsg](t, press(app, keyType(tea.KeyEnter)))
	assert.True(t, app.upload.uploader.Pending())
	assert.Contains(t, app.View(), "Procesando archivo...")

	_, cmd := app.Update(done)
	assert.Equal(t, workspace.MsgUploaded, currentNote(t, app.upload.Notifier()).Message)

	opened := awaitMsg[documentOpenedMsg](t, cmd)
	app.Update(opened)

	assert.Equal(t, screenWorkspace, app.screen)
	assert.Equal(t, "doc-1", app.work.Workspace().Session().DocID())
	view := app.View()
	assert.Contains(t, view, "apuntes.pdf")
	assert.Contains(t, view, "Asistente Virtual")
	assert.Contains(t, view, "Sin contenido generado")
}

func TestApp_UploadRejectsMissingFile(t *testing.T) {
	app := newTestApp(t, &fakeService{}, nil)
	app.upload.input.SetValue(filepath.Join(t.TempDir(), "no-existe.pdf"))

	press(app, keyType(tea.KeyEnter))

	assert.Equal(t, screenUpload, app.screen)
	assert.False(t, app.upload.uploader.Pending())
	note := currentNote(t, app.upload.Notifier())
	assert.Equal(t, workspace.MsgFileNotFound, note.Message)
	assert.Equal(t, notify.KindError, note.Kind)
	assert.Contains(t, app.View(), workspace.MsgFileNotFound)
}

func TestApp_UploadWithoutPathWarns(t *testing.T) {
	app := newTestApp(t, &fakeService{}, nil)
	press(app, keyType(tea.KeyEnter))

	note := currentNote(t, app.upload.Notifier())
	assert.Equal(t, workspace.MsgSelectFile, note.Message)
	assert.Equal(t, notify.KindWarning, note.Kind)
}

func TestApp_InitialDocumentIsUploaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tema1.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	svc := &fakeService{}
	app, err := NewApp(context.Background(), Options{Service: svc, Document: path})
	require.NoError(t, err)

	awaitMsg[uploadDoneMsg](t, app.Init())
	assert.Equal(t, []string{"upload"}, svc.Calls())
}

func TestNewApp_RequiresService(t *testing.T) {
	_, err := NewApp(context.Background(), Options{})
	assert.Error(t, err)
}

// =============================================================================
// WORKSPACE SCREEN
// =============================================================================

func TestWorkspace_SummaryAction(t *testing.T) {
	svc := &fakeService{summary: "## Célula\n**Núcleo** y membrana"}
	app := openApp(t, svc, nil)

	cmd := press(app, keyType(tea.KeyCtrlR))
	assert.True(t, app.work.Workspace().Orchestrator().Loading())
	assert.Contains(t, app.View(), "Procesando documento...")

	assert.Nil(t, press(app, keyType(tea.KeyCtrlP)), "second action is ignored while loading")

	app.Update(awaitMsg[generationDoneMsg](t, cmd))

	assert.Equal(t, []string{"summary"}, svc.Calls())
	text, ok := app.work.Workspace().Session().Content().Text()
	require.True(t, ok)
	assert.Equal(t, svc.summary, text)
	view := app.View()
	assert.Contains(t, view, "Resumen del Documento")
	assert.Contains(t, view, "Núcleo")
	assert.NotContains(t, view, "**Núcleo**")
}

func TestWorkspace_GenerationFailureNotifies(t *testing.T) {
	svc := &fakeService{err: assert.AnError}
	app := openApp(t, svc, nil)

	cmd := press(app, keyType(tea.KeyCtrlP))
	app.Update(awaitMsg[generationDoneMsg](t, cmd))

	note := currentNote(t, app.work.Workspace().Notifier())
	assert.Equal(t, notify.KindError, note.Kind)
	assert.False(t, app.work.Workspace().Orchestrator().Loading())
	assert.True(t, app.work.Workspace().Session().Content().IsEmpty())
}

func TestWorkspace_GradeMultipleChoice(t *testing.T) {
	svc := &fakeService{
		questions: []model.Question{
			{ID: "1", Type: model.QuestionMultipleChoice, Prompt: "¿Cuánto es 1+1?", Options: []string{"uno", "dos"}},
			{ID: "2", Type: model.QuestionShortAnswer, Prompt: "Explique la fotosíntesis"},
		},
		grades: map[string]model.GradingResult{
			"1": {Correct: true, Score: 1, Feedback: "Bien hecho"},
		},
	}
	app := openApp(t, svc, nil)

	app.Update(awaitMsg[generationDoneMsg](t, press(app, keyType(tea.KeyCtrlG))))
	grader := app.work.Workspace().Grader()
	require.Len(t, grader.Questions(), 2)

	press(app, keyType(tea.KeyTab))
	require.Equal(t, paneContent, app.work.focus)

	assert.Nil(t, press(app, keyType(tea.KeyEnter)), "nothing to grade without an answer")

	press(app, runes("b"))
	answer, _ := grader.Answer("1")
	assert.Equal(t, "B", answer)
	assert.Contains(t, app.View(), "(*) B) dos")

	cmd := press(app, keyType(tea.KeyEnter))
	app.Update(awaitMsg[gradeDoneMsg](t, cmd))

	res, ok := grader.Result("1")
	require.True(t, ok)
	assert.True(t, res.Correct)
	assert.Contains(t, svc.Calls(), "grade:1:B")
	view := app.View()
	assert.Contains(t, view, "Correcto")
	assert.Contains(t, view, "Calificadas: 1/2")
}

func TestWorkspace_ShortAnswerTyping(t *testing.T) {
	svc := &fakeService{
		questions: []model.Question{
			{ID: "1", Type: model.QuestionShortAnswer, Prompt: "Defina célula"},
			{ID: "2", Type: model.QuestionShortAnswer, Prompt: "Defina tejido"},
		},
		grades: map[string]model.GradingResult{"2": {Correct: false, Score: 0.3, ExpectedAnswer: "Conjunto de células"}},
	}
	app := openApp(t, svc, nil)
	app.Update(awaitMsg[generationDoneMsg](t, press(app, keyType(tea.KeyCtrlG))))
	press(app, keyType(tea.KeyTab))

	press(app, keyType(tea.KeyDown))
	press(app, runes("grupo"))
	answer, _ := app.work.Workspace().Grader().Answer("2")
	assert.Equal(t, "grupo", answer)

	app.Update(awaitMsg[gradeDoneMsg](t, press(app, keyType(tea.KeyEnter))))
	view := app.View()
	assert.Contains(t, view, "Incorrecto")
	assert.Contains(t, view, "Conjunto de células")

	press(app, keyType(tea.KeyUp))
	assert.Equal(t, "", app.work.answer.Value(), "each question keeps its own answer")
}

func TestWorkspace_ChatSuggestion(t *testing.T) {
	svc := &fakeService{answer: "Trata sobre la célula [Fuente 1]"}
	app := openApp(t, svc, nil)

	press(app, keyType(tea.KeyTab))
	press(app, keyType(tea.KeyTab))
	require.Equal(t, paneChat, app.work.focus)
	assert.Contains(t, app.View(), workspace.Suggestions[0])

	press(app, keyType(tea.KeyDown))
	cmd := press(app, keyType(tea.KeyEnter))
	assert.True(t, app.work.Workspace().Conversation().Pending())

	app.Update(awaitMsg[chatDoneMsg](t, cmd))

	msgs := app.work.Workspace().Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, workspace.Suggestions[0], msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Contains(t, svc.Calls(), "chat:"+workspace.Suggestions[0])
	assert.Contains(t, app.View(), "Trata sobre la célula")
}

func TestWorkspace_ChatTypedQuestion(t *testing.T) {
	svc := &fakeService{answer: "Sí"}
	app := openApp(t, svc, nil)
	press(app, keyType(tea.KeyShiftTab))
	require.Equal(t, paneChat, app.work.focus)

	assert.Nil(t, press(app, keyType(tea.KeyEnter)), "blank input is not sent")

	press(app, runes("¿Hay mitosis?"))
	app.Update(awaitMsg[chatDoneMsg](t, press(app, keyType(tea.KeyEnter))))

	assert.Equal(t, "", app.work.chatInput.Value())
	assert.Contains(t, svc.Calls(), "chat:¿Hay mitosis?")
}

func TestWorkspace_CopyContent(t *testing.T) {
	clip := &testClipboard{}
	svc := &fakeService{summary: "resumen", questions: []model.Question{{ID: "1", Prompt: "¿?"}}}
	app := openApp(t, svc, clip)

	press(app, keyType(tea.KeyCtrlY))
	assert.Equal(t, MsgNothingToCopy, currentNote(t, app.work.Workspace().Notifier()).Message)

	app.Update(awaitMsg[generationDoneMsg](t, press(app, keyType(tea.KeyCtrlR))))
	press(app, keyType(tea.KeyCtrlY))
	assert.Equal(t, "resumen", clip.text)
	assert.Equal(t, workspace.MsgCopied, currentNote(t, app.work.Workspace().Notifier()).Message)

	app.Update(awaitMsg[generationDoneMsg](t, press(app, keyType(tea.KeyCtrlG))))
	clip.text = ""
	press(app, keyType(tea.KeyCtrlY))
	assert.Empty(t, clip.text, "question sets are not copied")
}

func TestWorkspace_Export(t *testing.T) {
	svc := &fakeService{plan: "1. Leer el capítulo"}
	app := openApp(t, svc, nil)

	press(app, keyType(tea.KeyCtrlE))
	assert.Equal(t, MsgNothingToExport, currentNote(t, app.work.Workspace().Notifier()).Message)

	app.Update(awaitMsg[generationDoneMsg](t, press(app, keyType(tea.KeyCtrlP))))
	done := awaitMsg[exportDoneMsg](t, press(app, keyType(tea.KeyCtrlE)))
	require.NoError(t, done.err)

	data, err := os.ReadFile(done.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1. Leer el capítulo")
	assert.Equal(t, ".md", filepath.Ext(done.path))

	app.Update(done)
	note := currentNote(t, app.work.Workspace().Notifier())
	assert.True(t, strings.HasPrefix(note.Message, MsgExported))
}

func TestWorkspace_CloseReturnsToUpload(t *testing.T) {
	svc := &fakeService{summary: "resumen"}
	app := openApp(t, svc, nil)

	pending := press(app, keyType(tea.KeyCtrlR))
	app.Update(awaitMsg[documentClosedMsg](t, press(app, keyType(tea.KeyCtrlO))))

	assert.Equal(t, screenUpload, app.screen)
	assert.False(t, app.work.Workspace().Active())

	app.Update(awaitMsg[generationDoneMsg](t, pending))
	assert.True(t, app.work.Workspace().Session().Content().IsEmpty(), "result of a closed document is dropped")
	assert.Contains(t, app.View(), "Cargar Documento Académico")
}

func TestWorkspace_StaleClockTickIgnored(t *testing.T) {
	app := openApp(t, &fakeService{}, nil)
	gen := app.work.tickGen

	_, cmd := app.Update(clockTickMsg{gen: gen - 1, at: time.Now()})
	assert.Nil(t, cmd)

	_, cmd = app.Update(clockTickMsg{gen: gen, at: time.Now()})
	assert.NotNil(t, cmd, "current tick schedules the next one")
}

func TestWorkspace_HelpOverlay(t *testing.T) {
	app := openApp(t, &fakeService{}, nil)

	press(app, keyType(tea.KeyF1))
	assert.True(t, app.work.showHelp)
	assert.Contains(t, app.View(), "C-e")

	assert.Nil(t, press(app, keyType(tea.KeyCtrlR)), "keys are swallowed while help is open")
	press(app, keyType(tea.KeyEsc))
	assert.False(t, app.work.showHelp)
}

func TestWorkspace_NarrowLayoutShowsTabs(t *testing.T) {
	app := openApp(t, &fakeService{}, nil)
	app.Update(tea.WindowSizeMsg{Width: 50, Height: 30})

	assert.Equal(t, 0, app.work.sidebarWidth)
	assert.Contains(t, app.View(), model.Actions[0].Label())
}

func TestApp_ExpiredClearsNotification(t *testing.T) {
	app := openApp(t, &fakeService{}, nil)
	note := app.work.Workspace().Notifier().Warning("aviso")

	app.Update(notify.ExpiredMsg{ID: "otro"})
	_, ok := app.work.Workspace().Notifier().Current()
	assert.True(t, ok, "another id does not clear the notification")

	app.Update(notify.ExpiredMsg{ID: note.ID})
	_, ok = app.work.Workspace().Notifier().Current()
	assert.False(t, ok)
}

func TestApp_QuitClosesDocument(t *testing.T) {
	app := openApp(t, &fakeService{}, nil)
	cmd := press(app, keyType(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, app.work.Workspace().Active())
}
