// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for docchat CLI commands.
//
// Every command that supports --json emits the same envelope so the
// output can be piped into scripts and other tools.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// StatusData represents the data returned by the status command.
type StatusData struct {
	Backend   StatusBackendInfo `json:"backend"`
	Documents int               `json:"documents"`
	Config    StatusConfigInfo  `json:"config"`
}

// StatusBackendInfo contains backend health information.
type StatusBackendInfo struct {
	URL     string `json:"url"`
	Online  bool   `json:"online"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// StatusConfigInfo contains the effective configuration summary.
type StatusConfigInfo struct {
	TopK          int    `json:"top_k"`
	MaxFileSizeMB int    `json:"max_file_size_mb"`
	WatchDir      string `json:"watch_dir,omitempty"`
	ConfigPath    string `json:"config_path,omitempty"`
}

// AskData represents the data returned by the ask command.
type AskData struct {
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Citations  []CitationData `json:"citations,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

// CitationData is one retrieved passage backing an answer.
type CitationData struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// DocData represents one document in docs command output.
type DocData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Size       int64  `json:"size"`
	IngestedAt string `json:"ingested_at"`
}

// UploadData represents the data returned by the upload command.
type UploadData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// TranscriptData represents one saved conversation in list output.
type TranscriptData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Messages  int    `json:"messages"`
	UpdatedAt string `json:"updated_at"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
