// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides transcript persistence for docchat.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/util"
)

// =============================================================================
// STORED TRANSCRIPT TYPE
// =============================================================================

// Transcript is a persisted conversation.
type Transcript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []model.Message `json:"messages"`
}

// TranscriptMeta is the listing view of a saved transcript.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore persists transcripts as JSON files, one per
// conversation, under BaseDir.
type TranscriptStore struct {
	// BaseDir defaults to ~/.docchat/transcripts/.
	BaseDir string

	// MaxTranscripts limits retained transcripts (0 = unlimited).
	MaxTranscripts int
}

// NewTranscriptStore creates a store rooted in the user's home.
func NewTranscriptStore() (*TranscriptStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewTranscriptStoreWithDir(filepath.Join(homeDir, ".docchat", "transcripts"))
}

// NewTranscriptStoreWithDir creates a store with a custom directory.
func NewTranscriptStoreWithDir(baseDir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &TranscriptStore{
		BaseDir:        baseDir,
		MaxTranscripts: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID.
func (s *TranscriptStore) Save(t *Transcript) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Title == "" {
		t.Title = deriveTitle(t.Messages)
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync prevents a torn file on crash.
	if err := util.AtomicWriteFile(s.filePath(t.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}

	return t.ID, nil
}

// deriveTitle takes the first user message as the title.
func deriveTitle(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			title := strings.ReplaceAll(msg.Content, "\n", " ")
			title = strings.ReplaceAll(title, "\r", "")
			return util.TruncateRunes(title, 50)
		}
	}
	return "New conversation"
}

// enforceLimit removes the oldest transcripts when over the cap.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxTranscripts
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadLatest returns the most recently updated transcript.
func (s *TranscriptStore) LoadLatest() (*Transcript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrTranscriptNotFound
	}
	return s.Load(metas[0].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved transcripts, most recent first.
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	var metas []TranscriptMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		t, err := s.Load(id)
		if err != nil {
			// Skip corrupted files
			continue
		}

		metas = append(metas, TranscriptMeta{
			ID:           t.ID,
			Title:        t.Title,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			MessageCount: len(t.Messages),
			Preview:      previewOf(t.Messages),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// previewOf returns the first user message, truncated for listing.
func previewOf(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			return util.TruncateRunes(msg.Content, 80)
		}
	}
	return ""
}

// Search finds transcripts whose title, preview, or message content
// matches the query, case-insensitively.
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	query = strings.ToLower(query)
	var results []TranscriptMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
			continue
		}

		t, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range t.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts.
func (s *TranscriptStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for it.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a transcript storage error.
type TranscriptError struct {
	Message string
}

func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the transcript as Markdown, with citation
// sources noted under each assistant message that carries them.
func (t *Transcript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + t.Title + "\n\n")
	sb.WriteString("Created: " + t.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range t.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if msg.HasCitations() {
			sb.WriteString("Sources:\n\n")
			for _, c := range msg.Citations {
				sb.WriteString("- " + c.Source() + ": " + c.Preview(100) + "\n")
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the transcript as pretty-printed JSON.
func (t *Transcript) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
