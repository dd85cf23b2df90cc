// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/session"
	"github.com/kenzydocs/docchat-tui/internal/upload"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.Autostart = false
	cfg.Upload.WatchDir = ""

	m := New(cfg)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*Model)
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// =============================================================================
// CHAT TURN FLOW
// =============================================================================

func TestSubmit_StartsTurnAndClearsInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("what is in the report?")

	updated, cmd := m.Update(enterKey())
	m = updated.(*Model)

	if !m.session.Pending() {
		t.Error("expected a pending turn after submit")
	}
	if cmd == nil {
		t.Error("expected a backend command after submit")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared, got %q", m.input.Value())
	}
	if got := m.session.MessageCount(); got != 1 {
		t.Errorf("expected 1 optimistic message, got %d", got)
	}
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	updated, cmd := m.Update(enterKey())
	m = updated.(*Model)

	if m.session.Pending() {
		t.Error("whitespace input must not start a turn")
	}
	if cmd != nil {
		t.Error("whitespace input must not produce a backend command")
	}
	if m.session.MessageCount() != 0 {
		t.Error("whitespace input must not append to the history")
	}
}

func TestSubmit_RefusedWhilePending(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("first question")
	updated, _ := m.Update(enterKey())
	m = updated.(*Model)

	m.input.SetValue("second question")
	updated, _ = m.Update(enterKey())
	m = updated.(*Model)

	if got := m.session.MessageCount(); got != 1 {
		t.Errorf("second submit during a pending turn appended, history len %d", got)
	}
}

func TestChatReply_ResolvesTurn(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("question")
	updated, _ := m.Update(enterKey())
	m = updated.(*Model)

	reply := model.NewAssistantMessage("the answer", nil)
	updated, _ = m.Update(chatReplyMsg{reply: reply})
	m = updated.(*Model)

	if m.session.Pending() {
		t.Error("turn still pending after reply")
	}
	history := m.session.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[1].Content != "the answer" {
		t.Errorf("unexpected reply content %q", history[1].Content)
	}
}

func TestChatReply_FailureAppendsExactlyOneFallback(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("question")
	updated, _ := m.Update(enterKey())
	m = updated.(*Model)

	updated, _ = m.Update(chatReplyMsg{err: errors.New("connection refused")})
	m = updated.(*Model)

	history := m.session.History()
	if len(history) != 2 {
		t.Fatalf("expected user message plus one fallback, got %d messages", len(history))
	}
	if !history[1].IsFallback {
		t.Error("second message is not flagged as fallback")
	}
	if history[1].Content != session.FallbackReply {
		t.Errorf("unexpected fallback content %q", history[1].Content)
	}
	if !m.toasts.HasToasts() {
		t.Error("expected an error toast after a failed turn")
	}
}

// =============================================================================
// UPLOAD FLOW
// =============================================================================

func TestBeginUpload_RejectsDisallowedKindWithoutPipeline(t *testing.T) {
	m := newTestModel(t)

	dir := t.TempDir()
	path := writeTempFile(t, dir, "report.exe", "binary")

	cmd := m.beginUpload(path)
	if cmd != nil {
		t.Error("rejected file must not produce a backend command")
	}
	if m.pipeline.Active() {
		t.Error("rejected file must not start the progress pipeline")
	}
	if !m.toasts.HasToasts() {
		t.Error("expected an error toast for the rejected file")
	}
}

func TestBeginUpload_AllowedKindStartsPipeline(t *testing.T) {
	m := newTestModel(t)

	dir := t.TempDir()
	path := writeTempFile(t, dir, "report.pdf", "content")

	cmd := m.beginUpload(path)
	if cmd == nil {
		t.Fatal("expected upload commands for an allowed file")
	}
	if m.pipeline.State() != upload.StateUploading {
		t.Errorf("pipeline state = %v, want uploading", m.pipeline.State())
	}
	if m.pipeline.FileName() != "report.pdf" {
		t.Errorf("pipeline tracks %q, want report.pdf", m.pipeline.FileName())
	}
}

func TestUploadTick_StopsWhenNotUploading(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(uploadTickMsg{})
	if cmd != nil {
		t.Error("tick with no upload in flight must not reschedule")
	}
}

func TestUploadResult_FailureDropsProgressAndKeepsRoster(t *testing.T) {
	m := newTestModel(t)
	m.roster.Replace([]model.DocumentRecord{{ID: "doc-1", Name: "kept.pdf"}})
	m.pipeline.Begin("broken.pdf")

	updated, cmd := m.Update(uploadResultMsg{name: "broken.pdf", err: errors.New("boom")})
	m = updated.(*Model)

	if m.pipeline.Progress() != 0 {
		t.Errorf("progress = %d after failure, want 0", m.pipeline.Progress())
	}
	if m.pipeline.Active() {
		t.Error("pipeline still active after failure")
	}
	if cmd != nil {
		t.Error("failed upload must not schedule a refresh or reset")
	}
	if m.roster.Count() != 1 {
		t.Errorf("roster changed on failed upload, count %d", m.roster.Count())
	}
}

func TestUploadResult_SuccessSnapsTo100(t *testing.T) {
	m := newTestModel(t)
	m.pipeline.Begin("good.pdf")
	for i := 0; i < 20; i++ {
		m.pipeline.Tick()
	}

	record := model.DocumentRecord{ID: "doc-9", Name: "good.pdf"}
	updated, cmd := m.Update(uploadResultMsg{record: record, name: "good.pdf"})
	m = updated.(*Model)

	if m.pipeline.Progress() != 100 {
		t.Errorf("progress = %d after success, want 100", m.pipeline.Progress())
	}
	if cmd == nil {
		t.Error("successful upload must schedule the refresh and reset")
	}
}

// =============================================================================
// DOCUMENT LIBRARY
// =============================================================================

func TestDocsRefreshed_ReplacesRoster(t *testing.T) {
	m := newTestModel(t)
	m.roster.Replace([]model.DocumentRecord{{ID: "old", Name: "old.pdf"}})

	docs := []model.DocumentRecord{
		{ID: "a", Name: "a.pdf"},
		{ID: "b", Name: "b.txt"},
	}
	updated, _ := m.Update(docsRefreshedMsg{docs: docs})
	m = updated.(*Model)

	if m.roster.Count() != 2 {
		t.Errorf("roster count = %d, want 2", m.roster.Count())
	}
	if _, ok := m.roster.Get("old"); ok {
		t.Error("listing refresh must fully replace the previous roster")
	}
}

func TestDocsRefreshed_FailureKeepsPreviousView(t *testing.T) {
	m := newTestModel(t)
	m.roster.Replace([]model.DocumentRecord{{ID: "keep", Name: "keep.pdf"}})

	updated, _ := m.Update(docsRefreshedMsg{err: errors.New("unreachable")})
	m = updated.(*Model)

	if m.roster.Count() != 1 {
		t.Errorf("roster count = %d after failed refresh, want 1", m.roster.Count())
	}
	if _, ok := m.roster.Get("keep"); !ok {
		t.Error("failed refresh must keep the stale roster")
	}
	if !m.toasts.HasToasts() {
		t.Error("expected an error toast for the failed refresh")
	}
}

func TestDeleteFlow_ConfirmThenResult(t *testing.T) {
	m := newTestModel(t)
	docs := []model.DocumentRecord{{ID: "doc-1", Name: "target.pdf"}}
	updated, _ := m.Update(docsRefreshedMsg{docs: docs})
	m = updated.(*Model)
	m.focus = focusDocs

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = updated.(*Model)
	if m.focus != focusConfirmDelete {
		t.Fatalf("focus = %v after delete request, want confirm dialog", m.focus)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("confirmed delete must issue the backend command")
	}
	if m.focus != focusDocs {
		t.Errorf("focus = %v after confirm, want documents", m.focus)
	}

	updated, _ = m.Update(deleteResultMsg{id: "doc-1"})
	m = updated.(*Model)
	if m.roster.Count() != 0 {
		t.Errorf("roster count = %d after delete, want 0", m.roster.Count())
	}
}

func TestDeleteFlow_CancelKeepsDocument(t *testing.T) {
	m := newTestModel(t)
	docs := []model.DocumentRecord{{ID: "doc-1", Name: "target.pdf"}}
	updated, _ := m.Update(docsRefreshedMsg{docs: docs})
	m = updated.(*Model)
	m.focus = focusDocs

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = updated.(*Model)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(*Model)

	if cmd != nil {
		t.Error("cancelled delete must not issue a backend command")
	}
	if m.roster.Count() != 1 {
		t.Errorf("roster count = %d after cancel, want 1", m.roster.Count())
	}
	if _, pending := m.roster.PendingDelete(); pending {
		t.Error("cancel must clear the pending delete")
	}
}

// =============================================================================
// HEALTH AND VIEW
// =============================================================================

func TestHealthMsg_ReschedulesPoll(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(healthMsg{})
	if cmd == nil {
		t.Error("health result must schedule the next poll")
	}
}

func TestView_ShowsWelcomeHintWhenEmpty(t *testing.T) {
	m := newTestModel(t)

	out := m.View()
	if !strings.Contains(out, "docchat") {
		t.Error("frame missing the header brand")
	}
}

func TestView_LibrarySurface(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(docsRefreshedMsg{docs: []model.DocumentRecord{
		{ID: "a", Name: "quarterly.pdf", Kind: "pdf", Size: 2048},
	}})
	m = updated.(*Model)
	m.focus = focusDocs

	out := m.View()
	if !strings.Contains(out, "quarterly.pdf") {
		t.Error("library surface missing the document name")
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
