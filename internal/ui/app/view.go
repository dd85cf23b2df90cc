// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/session"
	"github.com/kenzydocs/docchat-tui/internal/ui/components"
)

// View renders the full frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.header.View())
	b.WriteString("\n")

	switch m.focus {
	case focusDocs, focusConfirmDelete:
		b.WriteString(m.viewLibrary())
	default:
		b.WriteString(m.viewChat())
	}

	b.WriteString(m.statusBar.View())

	frame := b.String()

	if m.toasts.HasToasts() {
		frame = m.overlayToasts(frame)
	}

	return frame
}

// =============================================================================
// CHAT SURFACE
// =============================================================================

func (m *Model) viewChat() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.session.Pending() {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}

	if m.uploader.Visible() {
		b.WriteString(m.uploader.View())
		b.WriteString("\n")
	}

	if banner := m.errorBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString(m.viewInput())
	b.WriteString("\n")

	return b.String()
}

func (m *Model) viewInput() string {
	label := ""
	if m.focus == focusUploadPath {
		label = m.theme.InputPrompt.Render("Upload: ")
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(label + m.input.View())
}

// errorBanner shows the retained last-error note under the transcript.
// The fallback message already sits in the history; this is the
// dismissible detail line.
func (m *Model) errorBanner() string {
	lastErr := m.session.LastError()
	if lastErr == "" {
		return ""
	}
	text := m.theme.ErrorMessage.Render(lastErr) +
		m.theme.DocMeta.Render("  (esc to dismiss)")
	return m.theme.ErrorBox.Width(m.width - 2).Render(text)
}

// =============================================================================
// LIBRARY SURFACE
// =============================================================================

func (m *Model) viewLibrary() string {
	body := m.docList.View()

	if m.focus == focusConfirmDelete {
		if doc, ok := m.roster.PendingDelete(); ok {
			dialog := m.docList.RenderDeleteConfirm(doc, m.confirmSelected)
			body = lipgloss.Place(
				m.width, lipgloss.Height(body),
				lipgloss.Center, lipgloss.Center,
				dialog,
			)
		}
	}

	return body + "\n"
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the conversation into the viewport and
// pins it to the bottom.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	content := m.messageView.RenderTranscript(m.session.History(), m.renderBody)
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// renderBody formats one message body. Assistant replies go through the
// markdown renderer; user text and the fallback line stay plain.
func (m *Model) renderBody(msg model.Message) string {
	if msg.Role != model.RoleAssistant || msg.IsFallback {
		return msg.Content
	}
	if msg.Content == session.FallbackReply {
		return msg.Content
	}

	renderer := m.markdownRenderer()
	if renderer == nil {
		return msg.Content
	}

	rendered, err := renderer.Render(msg.Content)
	if err != nil {
		return msg.Content
	}
	return strings.TrimSpace(rendered)
}

// =============================================================================
// LAYOUT
// =============================================================================

// chromeHeight is the number of rows taken by everything except the
// transcript viewport.
func (m *Model) chromeHeight() int {
	// Header box, input line, status bar, plus spinner and upload rows
	// that come and go. Reserve for the worst case so the frame never
	// overflows the terminal.
	height := lipgloss.Height(m.header.View())
	height += 3 // input container with border
	height += 1 // status bar
	height += 2 // spinner and upload rows
	return height
}

// overlayToasts paints the toast stack over the bottom-right corner.
func (m *Model) overlayToasts(frame string) string {
	stack := m.renderToastStack()
	if stack == "" {
		return frame
	}

	lines := strings.Split(frame, "\n")
	stackLines := strings.Split(stack, "\n")

	// Replace the rows just above the status bar.
	start := len(lines) - len(stackLines) - 1
	if start < 0 {
		return frame
	}
	for i, sl := range stackLines {
		if sl != "" {
			lines[start+i] = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, sl)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderToastStack() string {
	toasts := m.toasts.GetToasts()
	if len(toasts) == 0 {
		return ""
	}

	width := m.width / 2
	if width < 30 {
		width = 30
	}

	var rendered []string
	for i := range toasts {
		rendered = append(rendered, components.RenderToast(toasts[i], width))
	}
	return strings.Join(rendered, "\n")
}
