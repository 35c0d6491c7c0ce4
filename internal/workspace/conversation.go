// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/model"
	"github.com/jeranaias/studydesk/internal/session"
)

// Fixed assistant replies.
const (
	// MsgNoAnswer is shown when the service replied without an answer.
	MsgNoAnswer = "No se pudo obtener una respuesta. Intente nuevamente."
	// MsgChatFailed is shown for any failed chat request.
	MsgChatFailed = "Error al procesar su consulta. Verifique la conexión e intente nuevamente."
)

// Suggestions are offered while the conversation is empty.
var Suggestions = []string{
	"¿Cuál es el tema principal?",
	"Resume este documento",
	"Explica los conceptos clave",
}

// ChatResult is the fetched reply to one question.
type ChatResult struct {
	Answer string
	Err    error

	seq uint64
}

// ChatFetch performs the network call of a sent question.
type ChatFetch func(ctx context.Context) ChatResult

// Conversation manages the question and answer log of the active document.
// Only one question is pending at a time. Failures become assistant
// messages; no notification is raised.
type Conversation struct {
	sess *session.Session
	svc  Service
	log  *zap.Logger

	pending bool
	seq     uint64
}

// NewConversation creates a conversation manager over sess.
func NewConversation(sess *session.Session, svc Service, log *zap.Logger) *Conversation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Conversation{sess: sess, svc: svc, log: log}
}

// Pending reports whether a reply is awaited.
func (c *Conversation) Pending() bool {
	return c.pending
}

// Messages returns the log in display order.
func (c *Conversation) Messages() []model.Message {
	return c.sess.Conversation().Messages()
}

// ShowSuggestions reports whether suggestion prompts should be offered.
func (c *Conversation) ShowSuggestions() bool {
	return c.sess.Conversation().IsEmpty() && !c.pending
}

// Send appends the user's question to the log and returns the fetch for the
// reply.
func (c *Conversation) Send(question string) (ChatFetch, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyMessage
	}
	if c.pending {
		return nil, ErrBusy
	}
	if !c.sess.Active() {
		return nil, ErrNoDocument
	}

	c.sess.Conversation().AddUserMessage(question)
	c.sess.Touch()
	c.pending = true
	c.seq++

	docID, seq, svc := c.sess.DocID(), c.seq, c.svc
	c.log.Debug("question sent", zap.Int("length", len(question)))
	return func(ctx context.Context) ChatResult {
		answer, err := svc.Chat(ctx, docID, question)
		return ChatResult{Answer: answer, Err: err, seq: seq}
	}, nil
}

// Complete appends the assistant's reply. The returned bool is false when
// the result was stale and nothing was appended.
func (c *Conversation) Complete(res ChatResult) (model.Message, bool) {
	if !c.pending || res.seq != c.seq {
		return model.Message{}, false
	}
	c.pending = false

	content := res.Answer
	switch {
	case res.Err != nil:
		c.log.Warn("chat failed",
			zap.String("kind", apierr.KindOf(res.Err).String()),
			zap.Error(res.Err),
		)
		content = MsgChatFailed
	case strings.TrimSpace(content) == "":
		content = MsgNoAnswer
	}

	return c.sess.Conversation().AddAssistantMessage(content), true
}

// Ask sends question and waits for the reply.
func (c *Conversation) Ask(ctx context.Context, question string) (model.Message, error) {
	fetch, err := c.Send(question)
	if err != nil {
		return model.Message{}, err
	}
	res := fetch(ctx)
	msg, _ := c.Complete(res)
	return msg, res.Err
}

// reset forgets any pending reply.
func (c *Conversation) reset() {
	c.pending = false
	c.seq++
}
