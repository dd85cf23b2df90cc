// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"

	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_SnapshotExcludesNewMessage(t *testing.T) {
	m := NewManager()

	snapshot, userMsg, ok := m.Submit("first question")
	if !ok {
		t.Fatal("Submit should accept the first question")
	}

	// The snapshot predates the append.
	if len(snapshot) != 0 {
		t.Errorf("snapshot length = %d, want 0", len(snapshot))
	}
	if userMsg.Content != "first question" {
		t.Errorf("user message content = %q", userMsg.Content)
	}
	if userMsg.Role != model.RoleUser {
		t.Errorf("user message role = %q", userMsg.Role)
	}

	// The live history already carries the new message.
	if m.MessageCount() != 1 {
		t.Errorf("history length = %d, want 1", m.MessageCount())
	}
	if !m.Pending() {
		t.Error("a turn should be in flight after Submit")
	}
}

func TestSubmit_SnapshotCarriesPriorTurns(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("q1")
	m.Resolve(model.NewAssistantMessage("a1", nil))

	snapshot, _, ok := m.Submit("q2")
	if !ok {
		t.Fatal("Submit should accept q2")
	}

	if len(snapshot) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snapshot))
	}
	if snapshot[0].Content != "q1" || snapshot[1].Content != "a1" {
		t.Errorf("snapshot = [%q, %q], want [q1, a1]", snapshot[0].Content, snapshot[1].Content)
	}
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	m := NewManager()

	for _, input := range []string{"", "   ", "\t\n", " \t "} {
		if _, _, ok := m.Submit(input); ok {
			t.Errorf("Submit(%q) accepted, want refused", input)
		}
	}

	if m.MessageCount() != 0 {
		t.Errorf("history length = %d, want 0", m.MessageCount())
	}
	if m.Pending() {
		t.Error("no turn should be in flight")
	}
}

func TestSubmit_TrimsWhitespace(t *testing.T) {
	m := NewManager()

	_, userMsg, ok := m.Submit("  hello  ")
	if !ok {
		t.Fatal("Submit should accept padded input")
	}
	if userMsg.Content != "hello" {
		t.Errorf("content = %q, want 'hello'", userMsg.Content)
	}
}

func TestSubmit_RefusedWhilePending(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("q1")

	if _, _, ok := m.Submit("q2"); ok {
		t.Error("Submit should refuse while a turn is in flight")
	}
	if m.MessageCount() != 1 {
		t.Errorf("history length = %d, want 1", m.MessageCount())
	}

	// After the turn settles, submission works again.
	m.Resolve(model.NewAssistantMessage("a1", nil))
	if _, _, ok := m.Submit("q2"); !ok {
		t.Error("Submit should accept once the turn has settled")
	}
}

// =============================================================================
// RESOLVE AND FAIL TESTS
// =============================================================================

func TestResolve_AppendsReply(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("question")
	m.Resolve(model.NewAssistantMessage("answer", []model.Citation{
		{PageContent: "supporting text", Score: 0.9},
	}))

	history := m.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Role != model.RoleAssistant {
		t.Errorf("reply role = %q", history[1].Role)
	}
	if history[1].Content != "answer" {
		t.Errorf("reply content = %q", history[1].Content)
	}
	if len(history[1].Citations) != 1 {
		t.Errorf("reply citations = %d, want 1", len(history[1].Citations))
	}
	if m.Pending() {
		t.Error("turn should be settled after Resolve")
	}
}

func TestResolve_WithoutPendingIsIgnored(t *testing.T) {
	m := NewManager()

	m.Resolve(model.NewAssistantMessage("stray", nil))

	if m.MessageCount() != 0 {
		t.Errorf("history length = %d, want 0", m.MessageCount())
	}
}

func TestFail_AppendsExactlyOneFallback(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("question")
	m.Fail(errors.New("backend is not running"))

	history := m.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Role != model.RoleAssistant {
		t.Errorf("fallback role = %q", history[1].Role)
	}
	if history[1].Content != FallbackReply {
		t.Errorf("fallback content = %q", history[1].Content)
	}
	if !history[1].IsFallback {
		t.Error("fallback message should be marked")
	}
	if m.Pending() {
		t.Error("turn should be settled after Fail")
	}
	if m.LastError() != "backend is not running" {
		t.Errorf("LastError = %q", m.LastError())
	}
}

func TestFail_WithoutPendingIsIgnored(t *testing.T) {
	m := NewManager()

	m.Fail(errors.New("stray"))

	if m.MessageCount() != 0 {
		t.Errorf("history length = %d, want 0", m.MessageCount())
	}
	if m.LastError() != "" {
		t.Errorf("LastError = %q, want empty", m.LastError())
	}
}

func TestDismissError(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("question")
	m.Fail(errors.New("boom"))

	m.DismissError()
	if m.LastError() != "" {
		t.Errorf("LastError = %q, want empty after dismiss", m.LastError())
	}

	// The transcript keeps the fallback even after dismissal.
	if m.MessageCount() != 2 {
		t.Errorf("history length = %d, want 2", m.MessageCount())
	}
}

// =============================================================================
// ALTERNATION AND COUNTING TESTS
// =============================================================================

func TestAlternation_MixedOutcomes(t *testing.T) {
	m := NewManager()

	turns := 5
	for i := 0; i < turns; i++ {
		_, _, ok := m.Submit("question")
		if !ok {
			t.Fatalf("Submit refused on turn %d", i)
		}
		if i%2 == 0 {
			m.Resolve(model.NewAssistantMessage("answer", nil))
		} else {
			m.Fail(errors.New("transient"))
		}
	}

	history := m.History()
	if len(history) != 2*turns {
		t.Fatalf("history length = %d, want %d", len(history), 2*turns)
	}
	for i, msg := range history {
		want := model.RoleUser
		if i%2 == 1 {
			want = model.RoleAssistant
		}
		if msg.Role != want {
			t.Errorf("history[%d].Role = %q, want %q", i, msg.Role, want)
		}
	}

	if m.TurnCount() != turns {
		t.Errorf("TurnCount = %d, want %d", m.TurnCount(), turns)
	}
}

func TestTurnCount_ExcludesInFlight(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("q1")
	m.Resolve(model.NewAssistantMessage("a1", nil))
	_, _, _ = m.Submit("q2")

	if m.TurnCount() != 1 {
		t.Errorf("TurnCount = %d, want 1 while a turn is in flight", m.TurnCount())
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("question")
	history := m.History()
	history[0].Content = "tampered"

	if m.History()[0].Content != "question" {
		t.Error("mutating the returned history must not affect the session")
	}
}

// =============================================================================
// CLEAR AND RESTORE TESTS
// =============================================================================

func TestClear(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("q1")
	m.Fail(errors.New("boom"))

	m.Clear()

	if m.MessageCount() != 0 {
		t.Errorf("history length = %d, want 0 after Clear", m.MessageCount())
	}
	if m.LastError() != "" {
		t.Errorf("LastError = %q, want empty after Clear", m.LastError())
	}
}

func TestRestore(t *testing.T) {
	m := NewManager()

	saved := []model.Message{
		model.NewUserMessage("q1"),
		model.NewAssistantMessage("a1", nil),
	}

	if !m.Restore(saved) {
		t.Fatal("Restore should succeed when idle")
	}
	if m.MessageCount() != 2 {
		t.Errorf("history length = %d, want 2", m.MessageCount())
	}
}

func TestRestore_RefusedWhilePending(t *testing.T) {
	m := NewManager()

	_, _, _ = m.Submit("q1")

	if m.Restore(nil) {
		t.Error("Restore should refuse while a turn is in flight")
	}
	if m.MessageCount() != 1 {
		t.Errorf("history length = %d, want 1", m.MessageCount())
	}
}
