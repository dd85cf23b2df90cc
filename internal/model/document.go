// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// DOCUMENT RECORD
// =============================================================================

// DocumentRecord describes a document indexed by the backend.
// The backend assigns the ID; the record is returned from upload and list
// operations and is the unit of the document roster.
type DocumentRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Kind is the lowercase file type, e.g. "pdf", "docx", "txt".
	Kind string `json:"kind"`
	// Timestamp is the ingestion time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Size is the document size in bytes.
	Size int64 `json:"size"`
}

// IngestedAt returns the ingestion time as a time.Time.
func (d DocumentRecord) IngestedAt() time.Time {
	return time.UnixMilli(d.Timestamp)
}

// DisplayKind returns an uppercase label for the document type.
func (d DocumentRecord) DisplayKind() string {
	if d.Kind == "" {
		return "FILE"
	}
	return strings.ToUpper(d.Kind)
}

// KindFromName derives the document kind from a file name.
func KindFromName(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}
