// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// WATCH FOLDER
// =============================================================================

// settleWindow is how long a file must go without writes before it is
// considered fully copied into the watch folder.
const settleWindow = 500 * time.Millisecond

// Watcher monitors a folder and emits paths of newly arrived documents
// that pass the upload allow-list. Emission is rate limited so a bulk
// drop of files does not flood the backend.
type Watcher struct {
	dir     string
	fs      *fsnotify.Watcher
	limiter *rate.Limiter
	events  chan string
	errs    chan error

	mu      sync.Mutex
	pending map[string]*time.Timer

	closeOnce sync.Once
}

// NewWatcher starts watching dir. The directory must exist.
func NewWatcher(dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch folder: %s is not a directory", dir)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch folder: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch folder: %w", err)
	}

	return &Watcher{
		dir: dir,
		fs:  fs,
		// One upload per second, small burst for initial drops.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		events:  make(chan string, 16),
		errs:    make(chan error, 4),
		pending: map[string]*time.Timer{},
	}, nil
}

// Events returns the channel of settled, allow-listed file paths.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Run processes filesystem events until the context is cancelled or the
// watcher is closed. It blocks and is meant to run in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !AllowedKind(ev.Name) {
				continue
			}
			w.scheduleSettle(ctx, ev.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// scheduleSettle arms (or re-arms) the settle timer for a path. Each
// write restarts the window, so the file emits only once it stops
// changing.
func (w *Watcher) scheduleSettle(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(settleWindow)
		return
	}

	w.pending[path] = time.AfterFunc(settleWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.emit(ctx, path)
	})
}

// emit pushes a settled path to the events channel, honoring the rate
// limit and skipping files that vanished in the meantime.
func (w *Watcher) emit(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	select {
	case w.events <- path:
	case <-ctx.Done():
	}
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// ScanExisting returns the allow-listed files already present in the
// watch folder, for the initial sweep on startup.
func (w *Watcher) ScanExisting() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if AllowedKind(entry.Name()) {
			files = append(files, filepath.Join(w.dir, entry.Name()))
		}
	}
	return files, nil
}
