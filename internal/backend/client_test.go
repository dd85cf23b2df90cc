// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: url})
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %q, want /api/health", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthStatus{Status: "ok", Version: "0.3.1"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}

	if !status.Healthy() {
		t.Error("status should be healthy")
	}
	if status.Version != "0.3.1" {
		t.Errorf("Version = %q, want '0.3.1'", status.Version)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(url)
	_, err := client.Health(context.Background())

	if !IsUnreachable(err) {
		t.Errorf("err = %v, want unreachable", err)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat(t *testing.T) {
	var gotReq ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		reply := model.NewAssistantMessage("The report covers Q3 revenue.", []model.Citation{
			{PageContent: "Q3 revenue rose 12%", Score: 0.93},
			{PageContent: "see appendix B", Score: 0.81},
		})
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	history := []model.Message{
		model.NewUserMessage("earlier question"),
		model.NewAssistantMessage("earlier answer", nil),
	}

	client := newTestClient(srv.URL)
	reply, err := client.Chat(context.Background(), ChatRequest{
		Message: "What does the report say?",
		History: history,
		TopK:    5,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	// The wire request carries the question and the prior history only.
	if gotReq.Message != "What does the report say?" {
		t.Errorf("request message = %q", gotReq.Message)
	}
	if len(gotReq.History) != 2 {
		t.Errorf("request history length = %d, want 2", len(gotReq.History))
	}
	if gotReq.TopK != 5 {
		t.Errorf("request top_k = %d, want 5", gotReq.TopK)
	}

	if reply.Role != model.RoleAssistant {
		t.Errorf("reply role = %q", reply.Role)
	}
	if len(reply.Citations) != 2 {
		t.Errorf("reply citations = %d, want 2", len(reply.Citations))
	}
}

func TestChat_NilHistorySerializesAsEmptyList(t *testing.T) {
	var raw map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(model.NewAssistantMessage("hi", nil))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.Chat(context.Background(), ChatRequest{Message: "hello", TopK: 5}); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if string(raw["history"]) != "[]" {
		t.Errorf("history on the wire = %s, want []", raw["history"])
	}
}

func TestChat_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "vector store unavailable"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hello", TopK: 5})

	if !IsBackendError(err) {
		t.Fatalf("err = %v, want backend error", err)
	}
	if err.Error() != "vector store unavailable" {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestChat_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hello", TopK: 5})

	var clientErr *ClientError
	if err == nil {
		t.Fatal("want error for malformed response")
	}
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("err = %v, want invalid response", err)
	}
}

// =============================================================================
// DOCUMENT OPERATION TESTS
// =============================================================================

func TestUpload(t *testing.T) {
	var gotReq UploadRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/documents" {
			t.Errorf("%s %s, want POST /api/documents", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(model.DocumentRecord{
			ID: "doc-1", Name: gotReq.Name, Kind: "pdf", Size: int64(len(gotReq.Content)),
		})
	}))
	defer srv.Close()

	content := []byte("%PDF-1.4 fake content")
	client := newTestClient(srv.URL)
	rec, err := client.Upload(context.Background(), "report.pdf", content)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotReq.Name != "report.pdf" {
		t.Errorf("request name = %q", gotReq.Name)
	}
	if string(gotReq.Content) != string(content) {
		t.Error("content did not round-trip")
	}
	if rec.ID != "doc-1" {
		t.Errorf("record ID = %q", rec.ID)
	}
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/documents/doc-9" {
			t.Errorf("%s %s, want DELETE /api/documents/doc-9", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if err := client.Delete(context.Background(), "doc-9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDelete_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "document not found"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.Delete(context.Background(), "missing")

	if !IsBackendError(err) {
		t.Errorf("err = %v, want backend error", err)
	}
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("top_k") != "100" {
			t.Errorf("top_k = %q, want '100'", r.URL.Query().Get("top_k"))
		}
		json.NewEncoder(w).Encode(listResponse{Documents: []model.DocumentRecord{
			{ID: "a", Name: "report.pdf", Kind: "pdf"},
			{ID: "b", Name: "notes.txt", Kind: "txt"},
		}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	docs, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(docs) != 2 {
		t.Errorf("documents = %d, want 2", len(docs))
	}
}

func TestList_EmptyBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents": null}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	docs, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if docs == nil {
		t.Error("List should return an empty slice, not nil")
	}
	if len(docs) != 0 {
		t.Errorf("documents = %d, want 0", len(docs))
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	cfg := client.GetConfig()

	if cfg.BaseURL != "http://127.0.0.1:8765" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.StartCommand != "docchat-backend" {
		t.Errorf("StartCommand = %q", cfg.StartCommand)
	}
}

func TestNewClientWithConfig_Nil(t *testing.T) {
	client := NewClientWithConfig(nil)
	if client.GetConfig().BaseURL == "" {
		t.Error("nil config should fall back to defaults")
	}
}
