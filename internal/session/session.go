// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/jeranaias/studydesk/internal/model"
)

// =============================================================================
// CONTENT
// =============================================================================

// ContentKind identifies which content variant a Session holds.
type ContentKind int

const (
	// ContentEmpty means nothing has been generated.
	ContentEmpty ContentKind = iota
	// ContentText is a summary or study plan.
	ContentText
	// ContentQuestions is a practice question set.
	ContentQuestions
)

// String returns the name of the variant.
func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentQuestions:
		return "questions"
	default:
		return "empty"
	}
}

// Content is the generated content of the workspace. Text and Questions are
// mutually exclusive; constructors guarantee only one is populated.
type Content struct {
	kind      ContentKind
	action    model.Action
	text      string
	questions []model.Question
}

// Empty returns the empty content.
func Empty() Content {
	return Content{}
}

// Text returns text content produced by action.
func Text(action model.Action, text string) Content {
	return Content{kind: ContentText, action: action, text: text}
}

// Questions returns a question set. The slice is copied.
func Questions(questions []model.Question) Content {
	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	return Content{kind: ContentQuestions, action: model.ActionQuestions, questions: qs}
}

// Kind returns the variant held.
func (c Content) Kind() ContentKind { return c.kind }

// Action returns the action that produced the content, ActionNone when empty.
func (c Content) Action() model.Action { return c.action }

// IsEmpty reports whether nothing is held.
func (c Content) IsEmpty() bool { return c.kind == ContentEmpty }

// Text returns the raw text and whether the content is text.
func (c Content) Text() (string, bool) {
	return c.text, c.kind == ContentText
}

// Questions returns a copy of the question set and whether the content is a
// question set.
func (c Content) Questions() ([]model.Question, bool) {
	if c.kind != ContentQuestions {
		return nil, false
	}
	qs := make([]model.Question, len(c.questions))
	copy(qs, c.questions)
	return qs, true
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the state of one loaded document.
type Session struct {
	docID        string
	documentName string
	content      Content
	conversation *model.Conversation

	openedAt     time.Time
	lastActivity time.Time
	now          func() time.Time
}

// New creates a session with no active document.
func New() *Session {
	return &Session{
		conversation: model.NewConversation(),
		now:          time.Now,
	}
}

// WithClock replaces the clock used for activity tracking.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Open makes docID the active document. Content and conversation start
// empty.
func (s *Session) Open(docID, documentName string) {
	now := s.now()
	s.docID = docID
	s.documentName = documentName
	s.content = Empty()
	s.conversation = model.NewConversation()
	s.openedAt = now
	s.lastActivity = now
}

// Reset discards everything, leaving no active document.
func (s *Session) Reset() {
	s.docID = ""
	s.documentName = ""
	s.content = Empty()
	s.conversation = model.NewConversation()
	s.openedAt = time.Time{}
	s.lastActivity = time.Time{}
}

// Active reports whether a document is loaded.
func (s *Session) Active() bool {
	return s.docID != ""
}

// DocID returns the active document id, empty when none.
func (s *Session) DocID() string {
	return s.docID
}

// DocumentName returns the display name of the active document.
func (s *Session) DocumentName() string {
	return s.documentName
}

// Content returns the current generated content.
func (s *Session) Content() Content {
	return s.content
}

// SetContent replaces the generated content.
func (s *Session) SetContent(c Content) {
	s.content = c
	s.Touch()
}

// ClearContent discards the generated content.
func (s *Session) ClearContent() {
	s.content = Empty()
}

// Conversation returns the conversation log of the active document.
func (s *Session) Conversation() *model.Conversation {
	return s.conversation
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// Touch records user activity.
func (s *Session) Touch() {
	if s.Active() {
		s.lastActivity = s.now()
	}
}

// OpenedAt returns when the document was loaded.
func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Duration returns how long the document has been open.
func (s *Session) Duration() time.Duration {
	if !s.Active() {
		return 0
	}
	return s.now().Sub(s.openedAt)
}

// IdleTime returns how long since the last recorded activity.
func (s *Session) IdleTime() time.Duration {
	if !s.Active() {
		return 0
	}
	return s.now().Sub(s.lastActivity)
}
