// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/studydesk/internal/docsvc"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/notify"
)

// studyServer emulates the document service for one document.
type studyServer struct {
	mu       sync.Mutex
	requests []string
}

func (s *studyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/documents/upload":
		_, _ = w.Write([]byte(`{"doc_id":"abc123"}`))
	case "/documents/abc123/practice/generate":
		if r.URL.Query().Get("n") != "8" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"n inesperado"}`))
			return
		}
		qs := make([]map[string]interface{}, 6)
		for i := range qs {
			qs[i] = map[string]interface{}{
				"id":       fmt.Sprintf("q%d", i+1),
				"type":     "short",
				"question": fmt.Sprintf("Pregunta %d", i+1),
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"questions": qs})
	case "/documents/abc123/practice/grade":
		if r.URL.Query().Get("question_id") == "q3" {
			_, _ = w.Write([]byte(`{"is_correct":false,"score":0.4,"feedback":"Incompleta","expected_answer":"La mitocondria"}`))
			return
		}
		_, _ = w.Write([]byte(`{"is_correct":true,"score":1,"feedback":"Bien"}`))
	case "/chat":
		_, _ = w.Write([]byte(`{"response":"Trata sobre biología celular [Fuente 1]"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestEndToEnd_UploadGenerateGrade(t *testing.T) {
	srv := &studyServer{}
	server := httptest.NewServer(srv)
	defer server.Close()

	client := docsvc.NewClient(server.URL)
	clock, _ := fixedClock()

	path := filepath.Join(t.TempDir(), "biologia.txt")
	require.NoError(t, os.WriteFile(path, []byte("La célula es la unidad básica."), 0644))

	uploader := NewUploader(client, notify.New(5*time.Second, notify.WithClock(clock)), nil)
	up, err := uploader.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", up.DocID)

	w := New(client, Options{QuestionCount: 8, Clock: clock})
	w.Open(up.DocID, up.Name)
	assert.Equal(t, "biologia.txt", w.Session().DocumentName())

	_, err = w.Orchestrator().Run(ctx, model.ActionQuestions)
	require.NoError(t, err)
	qs, ok := w.Session().Content().Questions()
	require.True(t, ok)
	require.Len(t, qs, 6)

	g := w.Grader()
	target := qs[2].ID
	require.NoError(t, g.SetAnswer(target, "El núcleo"))
	res, err := g.Run(ctx, target)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 0.4, res.Score)
	assert.Equal(t, "La mitocondria", res.ExpectedAnswer)

	for i, q := range qs {
		if i == 2 {
			continue
		}
		_, graded := g.Result(q.ID)
		assert.False(t, graded, "question %s should be ungraded", q.ID)
	}
	assert.Equal(t, 1, g.Graded())

	msg, err := w.Conversation().Ask(ctx, "¿De qué trata?")
	require.NoError(t, err)
	assert.Equal(t, "Trata sobre biología celular [Fuente 1]", msg.Content)

	assert.Equal(t, []string{
		"/documents/upload",
		"/documents/abc123/practice/generate",
		"/documents/abc123/practice/grade",
		"/chat",
	}, srv.requests)
}

func TestEndToEnd_QuestionSetWithoutIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"questions":[{"type":"short","question":"P1"},{"type":"short","question":"P2"}]}`))
	}))
	defer server.Close()

	w := newTestWorkspace(docsvc.NewClient(server.URL))
	out, err := w.Orchestrator().Run(ctx, model.ActionQuestions)
	require.Error(t, err)

	require.NotNil(t, out.Note)
	assert.Equal(t, notify.KindError, out.Note.Kind)
	assert.Equal(t, docsvc.MsgNoQuestions, out.Note.Message)
	assert.True(t, w.Session().Content().IsEmpty(), "no question set is committed")
	assert.Empty(t, w.Grader().Questions())
}
