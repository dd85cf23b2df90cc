// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the conversation state for a chat session.
//
// A session holds the ordered transcript and enforces the turn protocol:
// one turn in flight at a time, the user message appended optimistically,
// and the history snapshot taken before the append so the backend never
// sees the message it is being asked to answer.
package session

import (
	"strings"
	"sync"

	"github.com/kenzydocs/docchat-tui/internal/model"
)

// FallbackReply is appended as the assistant's answer when a turn fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks the transcript and the in-flight turn.
//
// All methods are safe for concurrent use. The TUI drives it from the
// update loop; the plain CLI REPL drives it from a single goroutine.
type Manager struct {
	mu sync.Mutex

	history []model.Message

	// pending is true while a turn is awaiting the backend's reply.
	pending   bool
	pendingID string

	lastError string
}

// NewManager creates an empty session.
func NewManager() *Manager {
	return &Manager{
		history: []model.Message{},
	}
}

// =============================================================================
// TURN PROTOCOL
// =============================================================================

// Submit starts a new turn for the given input.
//
// The returned snapshot is the history as it stood before the user
// message was appended. Callers send the snapshot, not the live
// history, to the backend.
//
// Submit refuses (ok=false) when the input is empty after trimming or
// when a turn is already in flight. In both cases the transcript is
// untouched and nothing should be sent to the backend.
func (m *Manager) Submit(input string) (snapshot []model.Message, userMsg model.Message, ok bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, model.Message{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending {
		return nil, model.Message{}, false
	}

	snapshot = make([]model.Message, len(m.history))
	copy(snapshot, m.history)

	userMsg = model.NewUserMessage(text)
	m.history = append(m.history, userMsg)
	m.pending = true
	m.pendingID = userMsg.ID
	m.lastError = ""

	return snapshot, userMsg, true
}

// Resolve completes the in-flight turn with the backend's reply.
// A resolve with no turn in flight is ignored.
func (m *Manager) Resolve(reply model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pending {
		return
	}

	if reply.Role != model.RoleAssistant {
		reply.Role = model.RoleAssistant
	}
	m.history = append(m.history, reply)
	m.pending = false
	m.pendingID = ""
}

// Fail completes the in-flight turn after a backend error. Exactly one
// fallback assistant message is appended so the transcript keeps strict
// user/assistant alternation, and the error text is retained for the
// status surface until dismissed.
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pending {
		return
	}

	m.history = append(m.history, model.NewFallbackMessage(FallbackReply))
	m.pending = false
	m.pendingID = ""

	if err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = "request failed"
	}
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// History returns a copy of the transcript in order.
func (m *Manager) History() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Message, len(m.history))
	copy(out, m.history)
	return out
}

// Pending reports whether a turn is awaiting its reply.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// PendingID returns the ID of the user message awaiting a reply, or ""
// when no turn is in flight.
func (m *Manager) PendingID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingID
}

// LastError returns the retained error text from the most recent failed
// turn, or "" when there is none or it was dismissed.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// DismissError clears the retained error text.
func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = ""
}

// MessageCount returns the number of messages in the transcript.
func (m *Manager) MessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// TurnCount returns the number of completed turns. A turn in flight is
// not counted until it resolves or fails.
func (m *Manager) TurnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.history)
	if m.pending {
		n--
	}
	return n / 2
}

// Clear discards the transcript and any retained error. A turn in
// flight stays in flight; its reply will land in the fresh transcript.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = []model.Message{}
	m.lastError = ""
}

// Restore replaces the transcript, used when loading a saved session.
// Restoring while a turn is in flight is refused.
func (m *Manager) Restore(history []model.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending {
		return false
	}

	m.history = make([]model.Message, len(history))
	copy(m.history, history)
	m.lastError = ""
	return true
}
