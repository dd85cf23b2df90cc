// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload implements the document upload pipeline: client-side
// validation, simulated progress while the backend ingests, and the
// watch-folder that feeds files in automatically.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Progress simulation parameters. The backend gives no ingest progress,
// so the bar advances on a timer and holds below the ceiling until the
// upload actually settles.
const (
	// TickInterval is how often the simulated progress advances.
	TickInterval = 200 * time.Millisecond

	// ProgressStep is the per-tick advance in percent.
	ProgressStep = 10

	// ProgressCeiling is the highest value the simulation may reach
	// before the upload settles. Only Complete moves the bar to 100.
	ProgressCeiling = 90

	// ResetDelay is how long the completed bar stays at 100 before the
	// pipeline returns to idle.
	ResetDelay = 1 * time.Second
)

// allowedKinds is the upload allow-list, keyed by lowercase extension
// without the dot.
var allowedKinds = map[string]bool{
	"pdf":  true,
	"docx": true,
	"txt":  true,
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports a file rejected before any backend call.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// AllowedKind reports whether the file's extension is accepted.
func AllowedKind(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return allowedKinds[ext]
}

// AllowedExtensions returns the accepted extensions for display.
func AllowedExtensions() []string {
	return []string{"pdf", "docx", "txt"}
}

// ValidateFile checks a candidate upload against the allow-list and the
// configured size limit. maxBytes <= 0 disables the size check. A
// non-nil error means the file must be rejected without contacting the
// backend.
func ValidateFile(name string, size int64, maxBytes int64) error {
	if !AllowedKind(name) {
		return &ValidationError{
			Name:   filepath.Base(name),
			Reason: fmt.Sprintf("unsupported file type (allowed: %s)", strings.Join(AllowedExtensions(), ", ")),
		}
	}
	if maxBytes > 0 && size > maxBytes {
		return &ValidationError{
			Name:   filepath.Base(name),
			Reason: fmt.Sprintf("file too large (%d bytes, limit %d)", size, maxBytes),
		}
	}
	return nil
}

// =============================================================================
// PROGRESS PIPELINE
// =============================================================================

// State is the pipeline's lifecycle phase.
type State int

const (
	// StateIdle means no upload is running and the bar shows nothing.
	StateIdle State = iota

	// StateUploading means the request is in flight and the simulated
	// bar is advancing.
	StateUploading

	// StateSettled means the upload succeeded and the bar holds at 100
	// until the reset delay elapses.
	StateSettled
)

// Pipeline is the upload progress state machine. One upload runs at a
// time; all methods are safe for concurrent use.
type Pipeline struct {
	mu sync.Mutex

	state    State
	progress int
	fileName string
}

// NewPipeline returns an idle pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Begin starts tracking an upload that passed validation. It refuses
// when an upload is already running.
func (p *Pipeline) Begin(fileName string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateUploading {
		return false
	}

	p.state = StateUploading
	p.progress = 0
	p.fileName = fileName
	return true
}

// Tick advances the simulated progress by one step, holding at the
// ceiling. It returns true while the ticker should be rescheduled;
// once the upload settles or fails, ticks stop.
func (p *Pipeline) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUploading {
		return false
	}

	p.progress += ProgressStep
	if p.progress > ProgressCeiling {
		p.progress = ProgressCeiling
	}
	return true
}

// Complete snaps the bar to 100 after the backend confirmed the upload.
// The pipeline stays in the settled state for ResetDelay, then the
// caller invokes Reset.
func (p *Pipeline) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUploading {
		return
	}
	p.state = StateSettled
	p.progress = 100
}

// Fail drops the bar to zero immediately and returns to idle. There is
// no settle delay on failure.
func (p *Pipeline) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUploading {
		return
	}
	p.state = StateIdle
	p.progress = 0
	p.fileName = ""
}

// Reset returns the settled pipeline to idle. Called after ResetDelay.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateSettled {
		return
	}
	p.state = StateIdle
	p.progress = 0
	p.fileName = ""
}

// State returns the current lifecycle phase.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Progress returns the displayed percentage.
func (p *Pipeline) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// FileName returns the file currently in the pipeline, or "".
func (p *Pipeline) FileName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fileName
}

// Active reports whether an upload is in flight or settling, which is
// when the progress bar is visible.
func (p *Pipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != StateIdle
}
