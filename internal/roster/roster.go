// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package roster tracks the client-side view of the backend's document
// library. The list is replaced wholesale on each successful refresh;
// a failed refresh leaves the previous view intact.
package roster

import (
	"sync"

	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// ROSTER
// =============================================================================

// Roster holds the last known document list and the confirm-gated
// delete state. All methods are safe for concurrent use.
type Roster struct {
	mu sync.Mutex

	docs []model.DocumentRecord

	// pendingDelete is the ID awaiting confirmation, or "".
	pendingDelete string

	loaded bool
}

// New returns an empty roster.
func New() *Roster {
	return &Roster{
		docs: []model.DocumentRecord{},
	}
}

// Replace swaps in a fresh listing from the backend. Callers only
// invoke this on a successful refresh, so stale views survive backend
// failures. A pending delete for a document that vanished is cleared.
func (r *Roster) Replace(docs []model.DocumentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = make([]model.DocumentRecord, len(docs))
	copy(r.docs, docs)
	r.loaded = true

	if r.pendingDelete != "" && r.indexOf(r.pendingDelete) < 0 {
		r.pendingDelete = ""
	}
}

// Documents returns a copy of the current view in backend order.
func (r *Roster) Documents() []model.DocumentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.DocumentRecord, len(r.docs))
	copy(out, r.docs)
	return out
}

// Count returns the number of documents in the current view.
func (r *Roster) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// Loaded reports whether at least one refresh has succeeded, which
// distinguishes an empty library from a view that never loaded.
func (r *Roster) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Get returns the document with the given ID.
func (r *Roster) Get(id string) (model.DocumentRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.docs[i], true
	}
	return model.DocumentRecord{}, false
}

// =============================================================================
// CONFIRM-GATED DELETE
// =============================================================================

// RequestDelete marks a document for deletion pending confirmation.
// Nothing is sent to the backend until ConfirmDelete.
func (r *Roster) RequestDelete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(id) < 0 {
		return false
	}
	r.pendingDelete = id
	return true
}

// PendingDelete returns the document awaiting confirmation, if any.
func (r *Roster) PendingDelete() (model.DocumentRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pendingDelete == "" {
		return model.DocumentRecord{}, false
	}
	if i := r.indexOf(r.pendingDelete); i >= 0 {
		return r.docs[i], true
	}
	return model.DocumentRecord{}, false
}

// ConfirmDelete consumes the pending request and returns the ID the
// caller should now delete on the backend.
func (r *Roster) ConfirmDelete() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pendingDelete == "" {
		return "", false
	}
	id := r.pendingDelete
	r.pendingDelete = ""
	return id, true
}

// CancelDelete abandons the pending request.
func (r *Roster) CancelDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = ""
}

// Remove drops a document from the local view after the backend
// confirmed its deletion, ahead of the next full refresh.
func (r *Roster) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	if r.pendingDelete == id {
		r.pendingDelete = ""
	}
	return true
}

// indexOf returns the position of id in the view, or -1. Caller holds
// the lock.
func (r *Roster) indexOf(id string) int {
	for i, d := range r.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}
