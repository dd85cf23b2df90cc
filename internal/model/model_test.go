// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}

	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}

	if msg.ID == "" {
		t.Error("ID should be generated")
	}

	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewAssistantMessage(t *testing.T) {
	citations := []Citation{
		{PageContent: "chunk one", Score: 0.91},
		{PageContent: "chunk two", Score: 0.84},
	}

	msg := NewAssistantMessage("The answer", citations)

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want 'assistant'", msg.Role)
	}

	if len(msg.Citations) != 2 {
		t.Errorf("Citations length = %d, want 2", len(msg.Citations))
	}

	if !msg.HasCitations() {
		t.Error("HasCitations should be true")
	}
}

func TestNewFallbackMessage(t *testing.T) {
	msg := NewFallbackMessage("Sorry, I encountered an error. Please try again.")

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want 'assistant'", msg.Role)
	}

	if !msg.IsFallback {
		t.Error("IsFallback should be true")
	}

	if msg.HasCitations() {
		t.Error("fallback messages carry no citations")
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"unicode", "日本語のテキストです", 6, "日本語..."},
		{"tiny max", "hello", 2, "he"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.content)
			if got := msg.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestRole_DisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q, want 'You'", got)
	}
	if got := RoleAssistant.DisplayName(); got != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q, want 'Assistant'", got)
	}
}

// =============================================================================
// CITATION TESTS
// =============================================================================

func TestCitation_Source(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		want     string
	}{
		{"source key", map[string]any{"source": "report.pdf"}, "report.pdf"},
		{"file_name key", map[string]any{"file_name": "notes.txt"}, "notes.txt"},
		{"no metadata", nil, ""},
		{"non-string value", map[string]any{"source": 42}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Citation{PageContent: "text", Metadata: tc.metadata}
			if got := c.Source(); got != tc.want {
				t.Errorf("Source() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCitation_Preview(t *testing.T) {
	c := Citation{PageContent: "line one\nline two\twith   spacing"}

	got := c.Preview(80)
	if strings.Contains(got, "\n") || strings.Contains(got, "\t") {
		t.Errorf("Preview should collapse whitespace, got %q", got)
	}

	long := Citation{PageContent: strings.Repeat("word ", 50)}
	if got := long.Preview(20); len([]rune(got)) > 20 {
		t.Errorf("Preview(20) returned %d runes", len([]rune(got)))
	}
}

// =============================================================================
// DOCUMENT RECORD TESTS
// =============================================================================

func TestDocumentRecord_IngestedAt(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	rec := DocumentRecord{Timestamp: now.UnixMilli()}

	if !rec.IngestedAt().Equal(now) {
		t.Errorf("IngestedAt() = %v, want %v", rec.IngestedAt(), now)
	}
}

func TestDocumentRecord_DisplayKind(t *testing.T) {
	if got := (DocumentRecord{Kind: "pdf"}).DisplayKind(); got != "PDF" {
		t.Errorf("DisplayKind() = %q, want 'PDF'", got)
	}
	if got := (DocumentRecord{}).DisplayKind(); got != "FILE" {
		t.Errorf("DisplayKind() = %q, want 'FILE'", got)
	}
}

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "pdf"},
		{"Notes.DOCX", "docx"},
		{"readme.txt", "txt"},
		{"no-extension", ""},
	}

	for _, tc := range tests {
		if got := KindFromName(tc.name); got != tc.want {
			t.Errorf("KindFromName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
