// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/config"
	"github.com/jeranaias/studydesk/internal/model"
)

// Configuration constants for the document service.
const (
	// DefaultBaseURL is where the service listens in a local installation.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultMaxResponseSize is the maximum allowed response body size.
	DefaultMaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Messages for success responses that lack the expected field.
const (
	MsgNoSummary   = "No se pudo generar el resumen"
	MsgNoQuestions = "No se pudieron generar las preguntas"
	MsgNoStudyPlan = "No se pudo generar el plan de estudio"
	MsgNoDocID     = "Error al procesar el archivo"
	MsgBadGrading  = "Respuesta de calificación inválida"
	msgTooLarge    = "La respuesta del servidor excede el tamaño máximo"
)

// ErrNoFile is returned by UploadFile when no file was selected.
var ErrNoFile = errors.New("no file selected")

// Client is a client for the document service.
// A Client is safe for concurrent use; its methods never touch workspace state.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxResponseSize int64
	log             *zap.Logger
}

// NewClient creates a client for the service at baseURL.
// Requests carry no timeout; they are bounded only by their context.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		httpClient:      &http.Client{},
		maxResponseSize: DefaultMaxResponseSize,
		log:             zap.NewNop(),
	}
}

// FromConfig creates a client from the service section of the configuration.
func FromConfig(cfg config.ServiceConfig, log *zap.Logger) *Client {
	c := NewClient(cfg.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithRateLimit(cfg.RequestsPerMinute).
		WithLogger(log)
	if n := cfg.MaxResponseBytes(); n > 0 {
		c.WithMaxResponseSize(n)
	}
	return c
}

// WithTimeout sets the request timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit paces requests to perMinute. Zero or less disables pacing.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	return c
}

// WithMaxResponseSize caps the size of response bodies.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	c.maxResponseSize = n
	return c
}

// WithLogger sets the logger for request records.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c.log = log.Named("docsvc")
	return c
}

// BaseURL returns the service root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Upload sends a document as the multipart field "file" and returns its id.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	payload, err := c.do(ctx, http.MethodPost, "/documents/upload", nil, mw.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(payload, "doc_id")
	if !id.Exists() || id.String() == "" {
		return "", apierr.Server(MsgNoDocID)
	}
	return id.String(), nil
}

// UploadFile opens path and uploads it.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return c.Upload(ctx, path, f)
}

// Summary requests a summary of the document.
func (c *Client) Summary(ctx context.Context, docID string) (string, error) {
	payload, err := c.do(ctx, http.MethodPost, docPath(docID, "summary"), nil, "", nil)
	if err != nil {
		return "", err
	}
	return requireString(payload, "summary", MsgNoSummary)
}

// Questions requests n practice questions for the document.
func (c *Client) Questions(ctx context.Context, docID string, n int) ([]model.Question, error) {
	query := url.Values{"n": {strconv.Itoa(n)}}
	payload, err := c.do(ctx, http.MethodPost, docPath(docID, "practice/generate"), query, "", nil)
	if err != nil {
		return nil, err
	}

	res := gjson.GetBytes(payload, "questions")
	if !res.IsArray() {
		return nil, apierr.Server(MsgNoQuestions)
	}
	questions := make([]model.Question, 0)
	if err := json.Unmarshal([]byte(res.Raw), &questions); err != nil {
		return nil, apierr.Server(MsgNoQuestions)
	}
	// Answers and results are keyed by id.
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" || seen[q.ID] {
			c.log.Warn("question set rejected", zap.String("question_id", q.ID), zap.Int("questions", len(questions)))
			return nil, apierr.Server(MsgNoQuestions)
		}
		seen[q.ID] = true
	}
	return questions, nil
}

// StudyPlan requests a study plan for the document.
func (c *Client) StudyPlan(ctx context.Context, docID string) (string, error) {
	payload, err := c.do(ctx, http.MethodPost, docPath(docID, "study-plan"), nil, "", nil)
	if err != nil {
		return "", err
	}
	return requireString(payload, "study_plan", MsgNoStudyPlan)
}

// Grade submits an answer for one question. The question id, its prompt and
// the answer travel as query parameters.
func (c *Client) Grade(ctx context.Context, docID string, q model.Question, answer string) (model.GradingResult, error) {
	query := url.Values{
		"question_id": {q.ID},
		"question":    {q.Prompt},
		"user_answer": {answer},
	}
	payload, err := c.do(ctx, http.MethodPost, docPath(docID, "practice/grade"), query, "", nil)
	if err != nil {
		return model.GradingResult{}, err
	}

	if !gjson.GetBytes(payload, "is_correct").Exists() {
		return model.GradingResult{}, apierr.Server(MsgBadGrading)
	}
	var result model.GradingResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return model.GradingResult{}, apierr.Server(MsgBadGrading)
	}
	return result.Normalize(), nil
}

// Chat asks a question about the document. It returns the "answer" field,
// falling back to "response". An empty reply means neither was present.
func (c *Client) Chat(ctx context.Context, docID, question string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{DocID: docID, Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	payload, err := c.do(ctx, http.MethodPost, "/chat", nil, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	return firstNonEmpty(payload, "answer", "response"), nil
}

type chatRequest struct {
	DocID    string `json:"doc_id"`
	Question string `json:"question"`
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request and returns the classified success payload.
// Failures are always *apierr.Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apierr.Classify(0, nil, err).Err()
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("request", zap.String("method", method), zap.String("path", path))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, apierr.Classify(0, nil, err).Err()
	}
	defer resp.Body.Close()

	data, err := c.readResponse(resp)
	if err != nil {
		c.log.Warn("response unreadable", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, err
	}

	outcome := apierr.Classify(resp.StatusCode, data, nil)
	c.log.Info("response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("outcome", outcome.Kind.String()),
	)
	if err := outcome.Err(); err != nil {
		return nil, err
	}
	return outcome.Payload, nil
}

// readResponse reads the body up to the size limit.
func (c *Client) readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, c.maxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, apierr.Classify(0, nil, fmt.Errorf("failed to read response: %w", err)).Err()
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, &apierr.Error{Kind: apierr.KindServer, Status: resp.StatusCode, Message: msgTooLarge}
	}
	return body, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func docPath(docID, suffix string) string {
	return "/documents/" + url.PathEscape(docID) + "/" + suffix
}

func requireString(payload []byte, field, msg string) (string, error) {
	res := gjson.GetBytes(payload, field)
	if res.Type != gjson.String || strings.TrimSpace(res.Str) == "" {
		return "", apierr.Server(msg)
	}
	return res.Str, nil
}

func firstNonEmpty(payload []byte, fields ...string) string {
	for _, f := range fields {
		res := gjson.GetBytes(payload, f)
		if res.Type == gjson.String && res.Str != "" {
			return res.Str
		}
	}
	return ""
}
