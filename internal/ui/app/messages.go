// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/kenzydocs/docchat-tui/internal/health"
	"github.com/kenzydocs/docchat-tui/internal/model"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// chatReplyMsg carries the outcome of a chat turn.
type chatReplyMsg struct {
	reply model.Message
	err   error
}

// docsRefreshedMsg carries the outcome of a document listing.
type docsRefreshedMsg struct {
	docs []model.DocumentRecord
	err  error
}

// uploadResultMsg carries the outcome of an upload request.
type uploadResultMsg struct {
	record model.DocumentRecord
	name   string
	err    error
}

// uploadTickMsg advances the simulated upload progress.
type uploadTickMsg struct {
	time time.Time
}

// uploadResetMsg returns the settled progress bar to idle.
type uploadResetMsg struct{}

// deleteResultMsg carries the outcome of a document deletion.
type deleteResultMsg struct {
	id  string
	err error
}

// healthMsg carries the latest backend health result.
type healthMsg struct {
	status health.Status
}

// healthTickMsg triggers the next scheduled health poll.
type healthTickMsg struct {
	time time.Time
}

// watchFileMsg carries a settled file path from the watch folder.
type watchFileMsg struct {
	path string
}
