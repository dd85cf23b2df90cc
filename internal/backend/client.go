// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
//
// Transport errors (unreachable, timeout, invalid response) mean the
// request never completed; backend errors mean the backend received the
// request and rejected it.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not running"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnreachable checks if an error indicates the backend is not running.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsBackendError checks if an error is a rejection from the backend
// itself rather than a transport failure.
func IsBackendError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeBackend
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8765)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// Timeout for chat requests (default: 120s). Retrieval plus generation
	// can take a while on large documents.
	Timeout time.Duration

	// HealthTimeout for health checks (default: 5s)
	HealthTimeout time.Duration

	// StartCommand is the executable launched by EnsureRunning when the
	// backend is down (default: "docchat-backend").
	StartCommand string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:8765",
		Timeout:       120 * time.Second,
		HealthTimeout: 5 * time.Second,
		StartCommand:  "docchat-backend",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the docchat backend.
// It provides health checks, chat, and document management operations.
//
// The Client is thread-safe for concurrent use. It performs no retries
// and no response caching; every call maps to exactly one request.
//
// Example:
//
//	client := backend.NewClient()
//	status, err := client.Health(ctx)
//	if err != nil {
//	    log.Fatal("backend not available:", err)
//	}
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8765"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.HealthTimeout == 0 {
		config.HealthTimeout = 5 * time.Second
	}
	if config.StartCommand == "" {
		config.StartCommand = "docchat-backend"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health checks that the backend is reachable and returns its status.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	healthCtx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(healthCtx, http.MethodGet, c.config.BaseURL+"/api/health", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeUnreachable,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode health response", Cause: err}
	}

	return &status, nil
}

// CheckRunning verifies that the backend is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

// EnsureRunning checks if the backend is running, and starts it if not.
// The actual start logic is platform-specific (see start_unix.go and
// start_windows.go).
func (c *Client) EnsureRunning(ctx context.Context) error {
	if err := c.CheckRunning(ctx); err == nil {
		return nil
	}
	return c.startBackendProcess(ctx)
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a chat turn and returns the assistant's reply.
//
// The request history must not include the message being answered; the
// backend sees the turn's question only in the Message field. Citations
// attached by the backend are returned verbatim on the reply.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (model.Message, error) {
	if chatReq.History == nil {
		chatReq.History = []model.Message{}
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return model.Message{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return model.Message{}, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Message{}, ErrTimeout
		}
		return model.Message{}, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Message{}, c.decodeError(resp, "chat request failed")
	}

	var reply model.Message
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return model.Message{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return reply, nil
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// Upload sends a document to the backend for ingestion and returns the
// record the backend created for it.
func (c *Client) Upload(ctx context.Context, name string, content []byte) (model.DocumentRecord, error) {
	body, err := json.Marshal(UploadRequest{Name: name, Content: content})
	if err != nil {
		return model.DocumentRecord{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/documents", bytes.NewReader(body))
	if err != nil {
		return model.DocumentRecord{}, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.DocumentRecord{}, ErrTimeout
		}
		return model.DocumentRecord{}, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.DocumentRecord{}, c.decodeError(resp, "upload request failed")
	}

	var record model.DocumentRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return model.DocumentRecord{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return record, nil
}

// Delete removes a document from the backend's index.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+"/api/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.decodeError(resp, "delete request failed")
	}

	return nil
}

// listTopK is the page size requested for a full document listing.
// The backend treats an empty query as "return everything".
const listTopK = 100

// List retrieves all documents currently indexed by the backend.
func (c *Client) List(ctx context.Context) ([]model.DocumentRecord, error) {
	endpoint := c.config.BaseURL + "/api/documents?query=&top_k=" + strconv.Itoa(listTopK)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, "list request failed")
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if result.Documents == nil {
		result.Documents = []model.DocumentRecord{}
	}
	return result.Documents, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeError reads a non-OK response body and classifies the failure.
// A structured {"error": ...} body is a backend rejection; anything else
// is treated as an invalid response.
func (c *Client) decodeError(resp *http.Response, fallback string) error {
	var backendErr errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&backendErr); err == nil && backendErr.Error != "" {
		return &ClientError{
			Type:    ErrTypeBackend,
			Message: backendErr.Error,
		}
	}
	return &ClientError{
		Type:    ErrTypeInvalidResponse,
		Message: fallback + ": " + resp.Status,
	}
}
