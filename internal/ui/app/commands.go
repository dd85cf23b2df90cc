// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/upload"
)

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// performChatCmd sends a turn to the backend. The snapshot predates the
// optimistic append, so the backend never sees the question it is
// answering inside the history.
func (m *Model) performChatCmd(text string, snapshot []model.Message) tea.Cmd {
	client := m.client
	topK := m.cfg.Chat.TopK

	return func() tea.Msg {
		reply, err := client.Chat(context.Background(), backend.ChatRequest{
			Message: text,
			History: snapshot,
			TopK:    topK,
		})
		if err != nil {
			return chatReplyMsg{err: err}
		}
		return chatReplyMsg{reply: reply}
	}
}

// refreshDocsCmd fetches the document listing.
func (m *Model) refreshDocsCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		docs, err := client.List(context.Background())
		return docsRefreshedMsg{docs: docs, err: err}
	}
}

// performUploadCmd reads the file and sends it to the backend.
// Validation already happened before the pipeline began.
func (m *Model) performUploadCmd(path string) tea.Cmd {
	client := m.client
	name := filepath.Base(path)

	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return uploadResultMsg{name: name, err: err}
		}

		record, err := client.Upload(context.Background(), name, content)
		if err != nil {
			return uploadResultMsg{name: name, err: err}
		}
		return uploadResultMsg{record: record, name: name}
	}
}

// deleteDocCmd deletes a document on the backend.
func (m *Model) deleteDocCmd(id string) tea.Cmd {
	client := m.client

	return func() tea.Msg {
		err := client.Delete(context.Background(), id)
		return deleteResultMsg{id: id, err: err}
	}
}

// checkHealthCmd runs one health check.
func (m *Model) checkHealthCmd() tea.Cmd {
	monitor := m.monitor

	return func() tea.Msg {
		return healthMsg{status: monitor.Check(context.Background())}
	}
}

// healthTickCmd schedules the next health poll.
func (m *Model) healthTickCmd() tea.Cmd {
	return tea.Tick(m.monitor.Interval(), func(t time.Time) tea.Msg {
		return healthTickMsg{time: t}
	})
}

// ensureBackendCmd tries to start the backend sidecar when it is not
// already running.
func (m *Model) ensureBackendCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_ = client.EnsureRunning(ctx)
		return healthMsg{status: m.monitor.Check(context.Background())}
	}
}

// =============================================================================
// PROGRESS COMMANDS
// =============================================================================

// uploadTickCmd schedules the next simulated progress step.
func (m *Model) uploadTickCmd() tea.Cmd {
	return tea.Tick(upload.TickInterval, func(t time.Time) tea.Msg {
		return uploadTickMsg{time: t}
	})
}

// uploadResetCmd schedules the return to idle after the settle delay.
func (m *Model) uploadResetCmd() tea.Cmd {
	return tea.Tick(upload.ResetDelay, func(time.Time) tea.Msg {
		return uploadResetMsg{}
	})
}

// =============================================================================
// WATCH FOLDER COMMANDS
// =============================================================================

// startWatcherCmd launches the watch-folder loop.
func (m *Model) startWatcherCmd() tea.Cmd {
	watcher := m.watcher

	return func() tea.Msg {
		go watcher.Run(context.Background())
		return nil
	}
}

// waitForWatchEventCmd blocks on the next settled file from the watch
// folder. It is re-issued after each event.
func (m *Model) waitForWatchEventCmd() tea.Cmd {
	watcher := m.watcher

	return func() tea.Msg {
		path, ok := <-watcher.Events()
		if !ok {
			return nil
		}
		return watchFileMsg{path: path}
	}
}
