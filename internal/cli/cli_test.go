// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/docsvc"
	"github.com/jeranaias/studydesk/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newDocService starts a fake document service that knows one document,
// abc123.
func newDocService(t *testing.T) *httptest.Server {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents/upload", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"detail": "falta el archivo"})
			return
		}
		writeJSON(w, map[string]string{"doc_id": "abc123"})
	})
	mux.HandleFunc("POST /documents/abc123/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"summary": "## Célula\nUnidad básica de la vida"})
	})
	mux.HandleFunc("POST /documents/abc123/study-plan", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"study_plan": "1. Leer el capítulo"})
	})
	mux.HandleFunc("POST /documents/abc123/practice/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"questions": []map[string]interface{}{
			{"id": 1, "type": "mcq", "question": "¿Cuánto es 1+1?", "options": []string{"uno", "dos"}},
			{"id": 2, "type": "short", "question": "Defina célula"},
		}})
	})
	mux.HandleFunc("POST /documents/abc123/practice/grade", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_answer") == "B" {
			writeJSON(w, map[string]interface{}{"is_correct": true, "score": 1, "feedback": "Bien"})
			return
		}
		writeJSON(w, map[string]interface{}{"is_correct": false, "score": 0.4, "feedback": "Incompleta", "expected_answer": "La unidad básica"})
	})
	mux.HandleFunc("POST /documents/slow/summary", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		writeJSON(w, map[string]string{"detail": "slow down"})
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, map[string]string{"answer": "Respuesta sobre: " + req.Question})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// harness runs commands against a fake service with an isolated home.
type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STUDYDESK_API_BASE_URL", "")
	return &harness{t: t, url: newDocService(t).URL}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	env := &Env{Out: &out, ErrOut: &errOut}
	root := NewRootCommand(env)
	root.SetArgs(append([]string{"--base-url", h.url}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// testEnv builds an environment without going through the root command.
func testEnv(t *testing.T, url string) (*Env, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	return &Env{
		Out:    &out,
		ErrOut: &errOut,
		Config: cfg,
		Logger: zap.NewNop(),
		Client: docsvc.NewClient(url),
	}, &out, &errOut
}

// scriptReader replays fixed input lines, then reports EOF.
type scriptReader struct {
	lines []string
}

func (r *scriptReader) ReadLine(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) Close() {}

// =============================================================================
// COMMAND TREE
// =============================================================================

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(NewEnv())
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short, "%s should have a short description", cmd.Name())
	}
	for _, want := range []string{"upload", "summary", "plan", "questions", "grade", "ask", "chat", "export", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	for _, flag := range []string{"config", "base-url", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing global flag --%s", flag)
	}
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "studydesk "+Version)
}

// =============================================================================
// DOCUMENT COMMANDS
// =============================================================================

func TestUploadCommand(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "apuntes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	out, _, err := h.run("upload", path)
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)

	out, _, err = h.run("upload", path, "--json")
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "apuntes.pdf", decoded["name"])
}

func TestUploadCommand_MissingFile(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("upload", filepath.Join(t.TempDir(), "nada.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No se encontró el archivo seleccionado")
}

func TestSummaryCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("summary", "--doc", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "## Célula\nUnidad básica de la vida\n", out, "piped output is the raw markdown")
}

func TestSummaryCommand_UploadsFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "apuntes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	out, _, err := h.run("summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Unidad básica")
}

func TestSummaryCommand_RequiresDocument(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("summary")
	var usage *UsageError
	require.True(t, errors.As(err, &usage), "expected a usage error, got %v", err)
}

func TestSummaryCommand_ServiceError(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("summary", "--doc", "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrRateLimited)
	assert.Contains(t, FormatError(err), "slow down")
}

func TestPlanCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("plan", "--doc", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Leer el capítulo")
}

func TestQuestionsAndGrade(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("questions", "--doc", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Pregunta 1")
	assert.Contains(t, out, "B) dos")
	assert.Contains(t, out, "Respuesta Corta")

	out, _, err = h.run("questions", "--doc", "abc123", "--json")
	require.NoError(t, err)
	var questions []model.Question
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	require.Len(t, questions, 2)
	assert.Equal(t, "1", questions[0].ID)

	file := filepath.Join(t.TempDir(), "preguntas.json")
	require.NoError(t, os.WriteFile(file, []byte(out), 0o644))

	out, _, err = h.run("grade", "--doc", "abc123", "--questions", file, "--id", "1", "--answer", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "Correcto")
	assert.Contains(t, out, "100%")

	out, _, err = h.run("grade", "--doc", "abc123", "--questions", file, "--id", "2", "--answer", "Una parte", "--json")
	require.NoError(t, err)
	var res model.GradingResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Correct)
	assert.Equal(t, "La unidad básica", res.ExpectedAnswer)
}

func TestGradeCommand_Rejections(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "preguntas.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id":"1","type":"short","question":"¿?"}]`), 0o644))

	_, _, err := h.run("grade", "--doc", "abc123", "--questions", file, "--id", "1", "--answer", "  ")
	assert.Error(t, err, "blank answer is not sent")

	_, _, err = h.run("grade", "--doc", "abc123", "--questions", file, "--id", "9", "--answer", "x")
	assert.Error(t, err)

	_, _, err = h.run("grade", "--doc", "abc123", "--answer", "x")
	assert.Error(t, err, "--questions and --id are required")
}

func TestAskCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("ask", "¿Qué es una célula?", "--doc", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Respuesta sobre: ¿Qué es una célula?")
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	out, _, err := h.run("export", "--doc", "abc123", "--action", "summary,plan", "--format", "html", "--out", dir)
	require.NoError(t, err)

	paths := strings.Fields(out)
	require.Len(t, paths, 2, "one file per action")
	assert.NotEqual(t, paths[0], paths[1])
	for _, p := range paths {
		assert.Equal(t, ".html", filepath.Ext(p))
		assert.FileExists(t, p)
	}
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Célula")
}

func TestExportCommand_UnknownAction(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("export", "--doc", "abc123", "--action", "poema")
	var usage *UsageError
	assert.True(t, errors.As(err, &usage))
}

// =============================================================================
// CONFIG COMMANDS
// =============================================================================

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := h.run("--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, _, err = h.run("config", "init")
	require.NoError(t, err)
	_, _, err = h.run("config", "init")
	assert.Error(t, err, "init refuses to overwrite")
	_, _, err = h.run("config", "init", "--force")
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	defaultPath := filepath.Join(home, ".studydesk", "config.toml")
	require.FileExists(t, defaultPath)

	_, _, err = h.run("config", "set", "workspace.question_count", "5")
	require.NoError(t, err)

	out, _, err = h.run("config", "get", "workspace.question_count")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, _, err = h.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "question_count = 5")
	assert.Contains(t, out, h.url, "show prints the effective base URL")

	saved, err := os.ReadFile(defaultPath)
	require.NoError(t, err)
	assert.NotContains(t, string(saved), h.url, "--base-url is not persisted")

	_, _, err = h.run("config", "set", "workspace.nope", "1")
	assert.Error(t, err)
}

// =============================================================================
// INTERACTIVE LOOPS
// =============================================================================

func TestRunQuiz(t *testing.T) {
	env, out, _ := testEnv(t, newDocService(t).URL)
	ws := env.openWorkspace("abc123", "apuntes.pdf", 0)
	_, err := ws.Orchestrator().Run(context.Background(), model.ActionQuestions)
	require.NoError(t, err)

	in := &scriptReader{lines: []string{"z", "Una parte"}}
	require.NoError(t, env.runQuiz(context.Background(), ws, in))

	s := out.String()
	assert.Contains(t, s, "elija una letra entre A y B")
	assert.Contains(t, s, "Incorrecto")
	assert.Contains(t, s, "Puntuación: 40%")
	assert.Contains(t, s, "1/2 calificadas")

	_, graded := ws.Grader().Result("1")
	assert.False(t, graded, "an invalid letter is not graded")
}

func TestRunQuiz_MultipleChoice(t *testing.T) {
	env, out, _ := testEnv(t, newDocService(t).URL)
	ws := env.openWorkspace("abc123", "apuntes.pdf", 0)
	_, err := ws.Orchestrator().Run(context.Background(), model.ActionQuestions)
	require.NoError(t, err)

	require.NoError(t, env.runQuiz(context.Background(), ws, &scriptReader{lines: []string{"b", ""}}))

	res, ok := ws.Grader().Result("1")
	require.True(t, ok)
	assert.True(t, res.Correct)
	assert.Contains(t, out.String(), "(sin responder)")
	assert.Equal(t, 1, ws.Grader().Graded())
}

func TestRunChat(t *testing.T) {
	env, out, errOut := testEnv(t, newDocService(t).URL)
	ws := env.openWorkspace("abc123", "apuntes.pdf", 0)

	in := &scriptReader{lines: []string{
		"/help",
		"   ",
		"¿Qué es una célula?",
		"/history",
		"/summary",
		"/export json",
		"/nope",
		"/quit",
		"never read",
	}}
	require.NoError(t, env.runChat(context.Background(), ws, in))

	s := out.String()
	assert.Contains(t, s, "/questions")
	assert.Contains(t, s, "Respuesta sobre: ¿Qué es una célula?")
	assert.Contains(t, s, "Usuario")
	assert.Contains(t, s, "Asistente IA")
	assert.Contains(t, s, "Unidad básica de la vida")
	assert.Contains(t, s, "Sesión exportada: ")
	assert.Contains(t, s, "Sesión terminada: 2 mensajes")
	assert.Contains(t, errOut.String(), "comando desconocido: /nope")
	assert.Equal(t, []string{"never read"}, in.lines, "input after /quit is not consumed")

	entries, err := os.ReadDir(env.Config.Export.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestRunChat_EndsOnEOF(t *testing.T) {
	env, out, _ := testEnv(t, newDocService(t).URL)
	ws := env.openWorkspace("abc123", "apuntes.pdf", 0)

	require.NoError(t, env.runChat(context.Background(), ws, &scriptReader{}))
	assert.Contains(t, out.String(), "Sesión terminada: 0 mensajes")
}

// =============================================================================
// HELPERS
// =============================================================================

func TestFormatError(t *testing.T) {
	classified := &apierr.Error{Kind: apierr.KindValidation, Status: 400, Message: "Formato no soportado"}
	assert.True(t, strings.HasSuffix(FormatError(wrapCommand("upload", classified)), "Formato no soportado"))

	usage := &UsageError{Reason: "falta el documento", Example: "studydesk summary a.pdf"}
	assert.Contains(t, FormatError(usage), "Ejemplo: studydesk summary a.pdf")

	assert.Contains(t, FormatError(errors.New("boom")), "boom")
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		42 * time.Second:              "42s",
		3*time.Minute + 5*time.Second: "3m5s",
		2*time.Hour + 15*time.Minute:  "2h15m",
	}
	for d, want := range tests {
		assert.Equal(t, want, formatDuration(d))
	}
}
