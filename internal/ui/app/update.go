// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/ui/components"
	"github.com/kenzydocs/docchat-tui/internal/upload"
)

// Update is the bubbletea message dispatcher.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatReplyMsg:
		return m.handleChatReply(msg)

	case docsRefreshedMsg:
		return m.handleDocsRefreshed(msg)

	case uploadResultMsg:
		return m.handleUploadResult(msg)

	case uploadTickMsg:
		if m.pipeline.Tick() {
			return m, m.uploadTickCmd()
		}
		return m, nil

	case uploadResetMsg:
		m.pipeline.Reset()
		return m, nil

	case deleteResultMsg:
		return m.handleDeleteResult(msg)

	case healthMsg:
		m.header.SetBackend(msg.status.Healthy, msg.status.Version)
		m.statusBar.SetBackendOnline(msg.status.Healthy)
		return m, m.healthTickCmd()

	case healthTickMsg:
		return m, m.checkHealthCmd()

	case watchFileMsg:
		return m.handleWatchFile(msg)

	case components.SpinnerTickMsg:
		if m.session.Pending() {
			m.spinner.Advance()
			return m, m.spinner.SpinnerTickCmd()
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()
	}

	return m.updateInput(msg)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.markdown = nil

	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.uploader.SetWidth(msg.Width)
	m.docList.SetSize(msg.Width, msg.Height)
	m.messageView.SetWidth(msg.Width)
	m.input.Width = msg.Width - 6

	transcriptHeight := msg.Height - m.chromeHeight()
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, transcriptHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = transcriptHeight
	}

	m.refreshTranscript()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit
	}

	switch m.focus {
	case focusChat:
		return m.handleChatKey(msg)
	case focusUploadPath:
		return m.handleUploadPathKey(msg)
	case focusDocs:
		return m.handleDocsKey(msg)
	case focusConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitTurn()

	case key.Matches(msg, m.keys.Upload):
		m.focus = focusUploadPath
		m.input.Reset()
		m.input.Placeholder = "Path to a pdf, docx, or txt file..."
		return m, nil

	case key.Matches(msg, m.keys.Documents):
		m.focus = focusDocs
		return m, m.refreshDocsCmd()

	case msg.String() == "esc":
		// Esc dismisses the retained error banner.
		if m.session.LastError() != "" {
			m.session.DismissError()
			return m, nil
		}

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateInput(msg)
}

func (m *Model) handleUploadPathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		path := strings.TrimSpace(m.input.Value())
		m.exitUploadPrompt()
		if path == "" {
			return m, nil
		}
		return m, m.beginUpload(path)

	case msg.String() == "esc":
		m.exitUploadPrompt()
		return m, nil
	}

	return m.updateInput(msg)
}

func (m *Model) handleDocsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.docList.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.docList.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshDocsCmd()

	case key.Matches(msg, m.keys.Delete):
		if doc, ok := m.docList.Selected(); ok {
			if m.roster.RequestDelete(doc.ID) {
				m.focus = focusConfirmDelete
				m.confirmSelected = false
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Documents):
		m.focus = focusChat
		return m, nil
	}

	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.confirmSelected = !m.confirmSelected
		return m, nil

	case "y":
		return m.confirmDelete()

	case "n", "esc":
		m.roster.CancelDelete()
		m.focus = focusDocs
		return m, nil

	case "enter":
		if m.confirmSelected {
			return m.confirmDelete()
		}
		m.roster.CancelDelete()
		m.focus = focusDocs
		return m, nil
	}
	return m, nil
}

// =============================================================================
// TURN SUBMISSION
// =============================================================================

// submitTurn runs the optimistic-append protocol. Empty input and an
// in-flight turn are both silent no-ops with no backend call.
func (m *Model) submitTurn() (tea.Model, tea.Cmd) {
	snapshot, userMsg, ok := m.session.Submit(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.spinner.Reset()
	m.statusBar.SetStatus(components.StatusThinking)
	m.refreshTranscript()

	return m, tea.Batch(
		m.performChatCmd(userMsg.Content, snapshot),
		m.spinner.SpinnerTickCmd(),
	)
}

func (m *Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.session.Fail(msg.err)
		m.toasts.AddError(friendlyError(msg.err))
		m.statusBar.SetStatus(components.StatusError)
	} else {
		m.session.Resolve(msg.reply)
		m.statusBar.SetStatus(components.StatusReady)
	}

	m.statusBar.SetCounts(m.roster.Count(), m.session.TurnCount())
	m.refreshTranscript()
	return m, nil
}

// =============================================================================
// UPLOAD FLOW
// =============================================================================

// beginUpload validates the file and, only if it passes, starts the
// progress simulation and the backend request together.
func (m *Model) beginUpload(path string) tea.Cmd {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		m.toasts.AddError("Cannot read " + name)
		return nil
	}

	maxBytes := int64(m.cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	if err := upload.ValidateFile(name, info.Size(), maxBytes); err != nil {
		// Rejected client-side; the backend is never contacted.
		m.toasts.AddError(err.Error())
		return nil
	}

	if !m.pipeline.Begin(name) {
		m.toasts.AddWarning("An upload is already in progress")
		return nil
	}

	m.statusBar.SetStatus(components.StatusUploading)
	return tea.Batch(
		m.uploadTickCmd(),
		m.performUploadCmd(path),
	)
}

func (m *Model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Failure drops the bar to zero; the library view is untouched.
		m.pipeline.Fail()
		m.toasts.AddError("Upload failed: " + friendlyError(msg.err))
		m.statusBar.SetStatus(components.StatusError)
		return m, nil
	}

	m.pipeline.Complete()
	m.toasts.AddSuccess("Indexed " + msg.name)
	m.statusBar.SetStatus(components.StatusReady)

	return m, tea.Batch(
		m.refreshDocsCmd(),
		m.uploadResetCmd(),
	)
}

func (m *Model) handleWatchFile(msg watchFileMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForWatchEventCmd()}

	if cmd := m.beginUpload(msg.path); cmd != nil {
		m.toasts.AddStatus("Uploading " + filepath.Base(msg.path) + " from watch folder")
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// exitUploadPrompt restores the chat input line.
func (m *Model) exitUploadPrompt() {
	m.focus = focusChat
	m.input.Reset()
	m.input.Placeholder = "Ask a question about your documents..."
}

// =============================================================================
// DOCUMENT LIBRARY
// =============================================================================

func (m *Model) handleDocsRefreshed(msg docsRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// A failed refresh keeps the previous view.
		m.toasts.AddError("Could not refresh documents: " + friendlyError(msg.err))
		return m, nil
	}

	m.roster.Replace(msg.docs)
	m.docList.SetDocuments(m.roster.Documents())
	m.header.SetDocumentCount(m.roster.Count())
	m.statusBar.SetCounts(m.roster.Count(), m.session.TurnCount())
	return m, nil
}

func (m *Model) confirmDelete() (tea.Model, tea.Cmd) {
	id, ok := m.roster.ConfirmDelete()
	m.focus = focusDocs
	if !ok {
		return m, nil
	}
	return m, m.deleteDocCmd(id)
}

func (m *Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toasts.AddError("Delete failed: " + friendlyError(msg.err))
		return m, nil
	}

	m.roster.Remove(msg.id)
	m.docList.SetDocuments(m.roster.Documents())
	m.header.SetDocumentCount(m.roster.Count())
	m.toasts.AddSuccess("Document deleted")

	return m, m.refreshDocsCmd()
}

// =============================================================================
// HELPERS
// =============================================================================

// updateInput forwards a message to the text input.
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// friendlyError maps client errors to user-facing text.
func friendlyError(err error) string {
	var clientErr *backend.ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case backend.ErrTypeUnreachable:
			return "The backend is not running"
		case backend.ErrTypeTimeout:
			return "The backend took too long to respond"
		}
		return clientErr.Message
	}
	return err.Error()
}
