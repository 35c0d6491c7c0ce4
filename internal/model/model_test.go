// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendKeepsOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q1")
	conv.AddAssistantMessage("a1")
	conv.AddUserMessage("q2")
	conv.AddAssistantMessage("a2")

	msgs := conv.Messages()
	if len(msgs) != 4 {
		t.Fatalf("Len = %d, want 4", len(msgs))
	}
	want := []struct {
		role    Role
		content string
	}{
		{RoleUser, "q1"}, {RoleAssistant, "a1"}, {RoleUser, "q2"}, {RoleAssistant, "a2"},
	}
	for i, w := range want {
		if msgs[i].Role != w.role || msgs[i].Content != w.content {
			t.Errorf("msgs[%d] = %s %q, want %s %q", i, msgs[i].Role, msgs[i].Content, w.role, w.content)
		}
	}
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("original")

	msgs := conv.Messages()
	msgs[0].Content = "tampered"

	if got := conv.Messages()[0].Content; got != "original" {
		t.Errorf("log mutated through copy: %q", got)
	}
}

func TestConversation_LastAssistant(t *testing.T) {
	conv := NewConversation()
	if _, ok := conv.LastAssistant(); ok {
		t.Error("empty conversation should have no assistant message")
	}
	conv.AddAssistantMessage("first")
	conv.AddUserMessage("question")

	msg, ok := conv.LastAssistant()
	if !ok || msg.Content != "first" {
		t.Errorf("LastAssistant() = %q, %v", msg.Content, ok)
	}
	last, _ := conv.Last()
	if last.Role != RoleUser {
		t.Errorf("Last().Role = %s, want user", last.Role)
	}
}

func TestMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if !strings.HasPrefix(id, "msg_") {
			t.Fatalf("id %q missing prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("¿Cuál es el tema principal?")
	if got := msg.Preview(8); got != "¿Cuál..." {
		t.Errorf("Preview(8) = %q", got)
	}
	if got := msg.Preview(100); got != msg.Content {
		t.Errorf("Preview(100) = %q", got)
	}
}

// =============================================================================
// STUDY TYPES TESTS
// =============================================================================

func TestQuestion_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		mcq    bool
	}{
		{"string id", `{"id":"q1","type":"mcq","question":"?","options":["a","b"]}`, "q1", true},
		{"numeric id", `{"id":7,"type":"short","question":"?"}`, "7", false},
		{"unknown type is short", `{"id":"x","type":"essay","question":"?"}`, "x", false},
		{"missing id", `{"type":"short","question":"?"}`, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var q Question
			if err := json.Unmarshal([]byte(tc.input), &q); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if q.ID != tc.wantID {
				t.Errorf("ID = %q, want %q", q.ID, tc.wantID)
			}
			if q.IsMultipleChoice() != tc.mcq {
				t.Errorf("IsMultipleChoice = %v, want %v", q.IsMultipleChoice(), tc.mcq)
			}
			if q.Prompt != "?" {
				t.Errorf("Prompt = %q", q.Prompt)
			}
		})
	}
}

func TestOptionLetters(t *testing.T) {
	for i := 0; i < 4; i++ {
		letter := OptionLetter(i)
		if got := OptionIndex(letter); got != i {
			t.Errorf("OptionIndex(%q) = %d, want %d", letter, got, i)
		}
	}
	if OptionIndex("c") != 2 {
		t.Error("lowercase letters should be accepted")
	}
	if OptionIndex("AB") != -1 || OptionIndex("1") != -1 {
		t.Error("invalid letters should map to -1")
	}
}

func TestGradingResult_Normalize(t *testing.T) {
	tests := []struct {
		score   float64
		percent int
	}{
		{-0.5, 0}, {0.4, 40}, {0.875, 88}, {1.7, 100},
	}
	for _, tc := range tests {
		r := GradingResult{Score: tc.score}
		if got := r.Percent(); got != tc.percent {
			t.Errorf("Percent(%v) = %d, want %d", tc.score, got, tc.percent)
		}
	}
	if (GradingResult{Correct: true}).Verdict() != "Correcto" {
		t.Error("verdict for correct answer")
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("bogus"); err == nil {
		t.Error("expected error for unknown action")
	}
}
