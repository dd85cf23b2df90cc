// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for communicating with the
// docchat retrieval backend.
package backend

import (
	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the payload for a chat turn.
//
// History carries the conversation up to, but not including, the message
// being answered. The caller is responsible for snapshotting history
// before appending the new user message.
type ChatRequest struct {
	Message string          `json:"message"`
	History []model.Message `json:"history"`
	TopK    int             `json:"top_k"`
}

// UploadRequest is the payload for a document upload.
// Content is base64-encoded on the wire by encoding/json.
type UploadRequest struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// HealthStatus is the backend's health check response.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Healthy returns true when the backend reports itself ready.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "ok"
}

// listResponse is the wire shape of the document listing.
type listResponse struct {
	Documents []model.DocumentRecord `json:"documents"`
}

// errorResponse is the structured error body the backend returns on
// rejected requests.
type errorResponse struct {
	Error string `json:"error"`
}
