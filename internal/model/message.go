// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and documents.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CITATION TYPE
// =============================================================================

// Citation is a retrieved document chunk that supports an assistant answer.
// The backend attaches up to top_k citations per reply.
type Citation struct {
	// PageContent is the retrieved text chunk.
	PageContent string `json:"page_content"`
	// Score is the retrieval relevance score.
	Score float64 `json:"score"`
	// Metadata carries source information (file name, page number, etc).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Source returns the source document name from metadata, if present.
func (c Citation) Source() string {
	for _, key := range []string{"source", "file_name", "name"} {
		if v, ok := c.Metadata[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Preview returns a truncated single-line preview of the cited text.
func (c Citation) Preview(maxRunes int) string {
	text := strings.Join(strings.Fields(c.PageContent), " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Citations attached by the backend (assistant messages only).
	Citations []Citation `json:"citations,omitempty"`

	// IsFallback marks a synthesized reply for a failed turn.
	IsFallback bool `json:"is_fallback,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with citations.
func NewAssistantMessage(content string, citations []Citation) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Citations = citations
	return msg
}

// NewFallbackMessage creates the assistant message shown when a turn fails.
// It carries no citations.
func NewFallbackMessage(content string) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.IsFallback = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasCitations returns true if the message carries at least one citation.
func (m Message) HasCitations() bool {
	return len(m.Citations) > 0
}
