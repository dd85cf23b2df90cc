// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST MANAGER TESTS
// =============================================================================

func TestToastManager_AddAndExpire(t *testing.T) {
	m := NewToastManager()

	m.AddError("upload failed")
	if !m.HasToasts() {
		t.Fatal("manager should have a toast")
	}

	toasts := m.GetToasts()
	if len(toasts) != 1 || toasts[0].Kind != ToastKindError {
		t.Fatalf("toasts = %+v", toasts)
	}

	// Expire it manually and tick.
	m.toasts[0].CreatedAt = time.Now().Add(-time.Minute)
	remaining := m.TickToasts()
	if len(remaining) != 0 {
		t.Errorf("expired toast survived the tick: %d left", len(remaining))
	}
}

func TestToastManager_MaxToasts(t *testing.T) {
	m := NewToastManager()

	for i := 0; i < 10; i++ {
		m.AddStatus("message")
	}

	if got := len(m.GetToasts()); got > 5 {
		t.Errorf("toasts = %d, want at most 5", got)
	}
}

func TestToastManager_Remove(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("boom")
	m.AddStatus("info")
	m.RemoveToast(id)

	for _, toast := range m.GetToasts() {
		if toast.ID == id {
			t.Error("removed toast still present")
		}
	}
}

// =============================================================================
// DOC LIST TESTS
// =============================================================================

func TestDocList_Selection(t *testing.T) {
	d := NewDocList(styles.NewThemeWithPreference("dark"))

	d.SetDocuments([]model.DocumentRecord{
		{ID: "a", Name: "report.pdf", Kind: "pdf"},
		{ID: "b", Name: "notes.txt", Kind: "txt"},
	})

	sel, ok := d.Selected()
	if !ok || sel.ID != "a" {
		t.Fatalf("initial selection = %v, %v", sel, ok)
	}

	d.MoveDown()
	if sel, _ := d.Selected(); sel.ID != "b" {
		t.Errorf("selection after MoveDown = %q", sel.ID)
	}

	// Cannot move past the end.
	d.MoveDown()
	if sel, _ := d.Selected(); sel.ID != "b" {
		t.Errorf("selection moved past end: %q", sel.ID)
	}

	d.MoveUp()
	if sel, _ := d.Selected(); sel.ID != "a" {
		t.Errorf("selection after MoveUp = %q", sel.ID)
	}
}

func TestDocList_SelectionClampedOnShrink(t *testing.T) {
	d := NewDocList(styles.NewThemeWithPreference("dark"))

	d.SetDocuments([]model.DocumentRecord{
		{ID: "a", Name: "a.pdf"}, {ID: "b", Name: "b.pdf"}, {ID: "c", Name: "c.pdf"},
	})
	d.MoveDown()
	d.MoveDown()

	d.SetDocuments([]model.DocumentRecord{{ID: "a", Name: "a.pdf"}})

	sel, ok := d.Selected()
	if !ok || sel.ID != "a" {
		t.Errorf("selection after shrink = %v, %v", sel, ok)
	}
}

func TestDocList_EmptySelection(t *testing.T) {
	d := NewDocList(styles.NewThemeWithPreference("dark"))

	if _, ok := d.Selected(); ok {
		t.Error("empty list should have no selection")
	}
}

// =============================================================================
// MESSAGE VIEW TESTS
// =============================================================================

func TestMessageView_RenderFallback(t *testing.T) {
	v := NewMessageView(styles.NewThemeWithPreference("dark"))

	msg := model.NewFallbackMessage("Sorry, I encountered an error. Please try again.")
	out := v.Render(msg, "")

	if !strings.Contains(out, "Sorry, I encountered an error") {
		t.Error("fallback content missing from render")
	}
	if !strings.Contains(out, "Assistant") {
		t.Error("fallback should be labeled as the assistant")
	}
}

func TestMessageView_RenderCitations(t *testing.T) {
	v := NewMessageView(styles.NewThemeWithPreference("dark"))

	msg := model.NewAssistantMessage("Revenue rose 12%.", []model.Citation{
		{PageContent: "Q3 revenue rose 12% year over year", Score: 0.93,
			Metadata: map[string]any{"source": "report.pdf"}},
	})

	out := v.Render(msg, "")
	if !strings.Contains(out, "report.pdf") {
		t.Error("citation source missing from render")
	}
	if !strings.Contains(out, "Sources (1)") {
		t.Error("citation header missing from render")
	}

	v.ShowCitations = false
	out = v.Render(msg, "")
	if strings.Contains(out, "Sources (1)") {
		t.Error("citations rendered while disabled")
	}
}

func TestMessageView_EmptyTranscript(t *testing.T) {
	v := NewMessageView(styles.NewThemeWithPreference("dark"))

	out := v.RenderTranscript(nil, nil)
	if !strings.Contains(out, "Ask a question") {
		t.Error("empty transcript should show the getting-started hint")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_View(t *testing.T) {
	s := NewStatusBar(styles.NewThemeWithPreference("dark"))
	s.SetWidth(100)
	s.SetBackendOnline(true)
	s.SetCounts(3, 5)

	out := s.View()
	if !strings.Contains(out, "BACKEND") {
		t.Error("online badge missing")
	}
	if !strings.Contains(out, "3 docs") || !strings.Contains(out, "5 turns") {
		t.Error("counters missing from status bar")
	}

	s.SetBackendOnline(false)
	if !strings.Contains(s.View(), "OFFLINE") {
		t.Error("offline badge missing")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusThinking, "Thinking..."},
		{StatusUploading, "Uploading..."},
		{StatusError, "Error"},
	}
	for _, tt := range tests {
		if tt.status.String() != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, tt.status.String(), tt.want)
		}
	}
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestFormatCounts(t *testing.T) {
	if formatDocCount(1) != "1 doc" {
		t.Errorf("formatDocCount(1) = %q", formatDocCount(1))
	}
	if formatDocCount(3) != "3 docs" {
		t.Errorf("formatDocCount(3) = %q", formatDocCount(3))
	}
	if formatTurnCount(1) != "1 turn" {
		t.Errorf("formatTurnCount(1) = %q", formatTurnCount(1))
	}
	if formatTurnCount(0) != "0 turns" {
		t.Errorf("formatTurnCount(0) = %q", formatTurnCount(0))
	}
}
