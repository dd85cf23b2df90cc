// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		maxBytes int64
		wantErr  bool
	}{
		{"report.pdf", 1024, 0, false},
		{"notes.TXT", 10, 0, false},
		{"memo.DocX", 10, 0, false},
		{"report.exe", 1024, 0, true},
		{"archive.zip", 1024, 0, true},
		{"noextension", 1024, 0, true},
		{"big.pdf", 2048, 1024, true},
		{"fits.pdf", 1024, 1024, false},
	}

	for _, tt := range tests {
		err := ValidateFile(tt.name, tt.size, tt.maxBytes)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFile(%q, %d, %d) error = %v, wantErr %v",
				tt.name, tt.size, tt.maxBytes, err, tt.wantErr)
		}
	}
}

func TestValidateFile_ErrorType(t *testing.T) {
	err := ValidateFile("report.exe", 10, 0)

	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Name != "report.exe" {
		t.Errorf("Name = %q", vErr.Name)
	}
	if !strings.Contains(vErr.Reason, "unsupported file type") {
		t.Errorf("Reason = %q", vErr.Reason)
	}
}

func TestAllowedKind_IgnoresPath(t *testing.T) {
	if !AllowedKind("/tmp/drop/report.pdf") {
		t.Error("path prefix should not affect the allow-list")
	}
	if AllowedKind("/tmp/drop/report.pdf.exe") {
		t.Error("only the final extension counts")
	}
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

func TestPipeline_TickHoldsAtCeiling(t *testing.T) {
	p := NewPipeline()

	if !p.Begin("report.pdf") {
		t.Fatal("Begin should succeed when idle")
	}

	// Far more ticks than needed to reach the ceiling.
	for i := 0; i < 50; i++ {
		if !p.Tick() {
			t.Fatalf("Tick stopped early at iteration %d", i)
		}
		if p.Progress() > ProgressCeiling {
			t.Fatalf("progress = %d, must never exceed %d before settle", p.Progress(), ProgressCeiling)
		}
	}

	if p.Progress() != ProgressCeiling {
		t.Errorf("progress = %d, want %d after many ticks", p.Progress(), ProgressCeiling)
	}
}

func TestPipeline_CompleteSnapsTo100(t *testing.T) {
	p := NewPipeline()

	p.Begin("report.pdf")
	p.Tick()
	p.Complete()

	if p.Progress() != 100 {
		t.Errorf("progress = %d, want 100", p.Progress())
	}
	if p.State() != StateSettled {
		t.Errorf("state = %v, want StateSettled", p.State())
	}

	// Ticks stop once settled.
	if p.Tick() {
		t.Error("Tick should not reschedule after Complete")
	}
	if p.Progress() != 100 {
		t.Errorf("progress = %d, stray tick moved the settled bar", p.Progress())
	}
}

func TestPipeline_FailDropsToZero(t *testing.T) {
	p := NewPipeline()

	p.Begin("report.pdf")
	for i := 0; i < 5; i++ {
		p.Tick()
	}
	p.Fail()

	if p.Progress() != 0 {
		t.Errorf("progress = %d, want 0 after failure", p.Progress())
	}
	if p.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", p.State())
	}
	if p.Tick() {
		t.Error("Tick should not reschedule after Fail")
	}
}

func TestPipeline_ResetAfterSettle(t *testing.T) {
	p := NewPipeline()

	p.Begin("report.pdf")
	p.Complete()
	p.Reset()

	if p.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle after Reset", p.State())
	}
	if p.Progress() != 0 {
		t.Errorf("progress = %d, want 0 after Reset", p.Progress())
	}
	if p.FileName() != "" {
		t.Errorf("FileName = %q, want empty after Reset", p.FileName())
	}
}

func TestPipeline_SingleUploadAtATime(t *testing.T) {
	p := NewPipeline()

	if !p.Begin("first.pdf") {
		t.Fatal("first Begin should succeed")
	}
	if p.Begin("second.pdf") {
		t.Error("Begin should refuse while an upload is running")
	}
	if p.FileName() != "first.pdf" {
		t.Errorf("FileName = %q, want first.pdf", p.FileName())
	}

	p.Complete()
	p.Reset()

	if !p.Begin("second.pdf") {
		t.Error("Begin should succeed once the pipeline is idle again")
	}
}

func TestPipeline_StrayTransitionsIgnored(t *testing.T) {
	p := NewPipeline()

	// Complete, Fail, and Reset on an idle pipeline do nothing.
	p.Complete()
	p.Fail()
	p.Reset()

	if p.State() != StateIdle || p.Progress() != 0 {
		t.Errorf("idle pipeline changed: state=%v progress=%d", p.State(), p.Progress())
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestNewWatcher_RejectsMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("NewWatcher should fail for a missing directory")
	}
}

func TestNewWatcher_RejectsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "afile.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewWatcher(file); err == nil {
		t.Error("NewWatcher should fail for a non-directory")
	}
}

func TestWatcher_ScanExisting(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.txt", "c.exe", "d.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	files, err := w.ScanExisting()
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 3 {
		t.Fatalf("ScanExisting = %d files, want 3 (got %v)", len(files), files)
	}
	for _, f := range files {
		if !AllowedKind(f) {
			t.Errorf("ScanExisting returned disallowed file %q", f)
		}
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
