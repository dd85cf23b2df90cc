// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE COMPONENT - Chat transcript bubbles
// =============================================================================

// citationPreviewRunes is how much snippet text a citation row shows.
const citationPreviewRunes = 80

// MessageView renders transcript messages as bubbles.
type MessageView struct {
	Width         int
	ShowCitations bool
	theme         *styles.Theme
}

// NewMessageView creates the transcript renderer.
func NewMessageView(theme *styles.Theme) *MessageView {
	return &MessageView{
		Width:         80,
		ShowCitations: true,
		theme:         theme,
	}
}

// SetWidth updates the available width.
func (v *MessageView) SetWidth(width int) {
	v.Width = width
}

// Render renders one message, including its citations when enabled.
// rendered is the (possibly markdown-formatted) message body; pass
// msg.Content when no formatting was applied.
func (v *MessageView) Render(msg model.Message, rendered string) string {
	if rendered == "" {
		rendered = msg.Content
	}

	label := v.theme.MessageLabel.Render(msg.Role.DisplayName())
	timestamp := v.theme.MessageTime.Render(msg.Timestamp.Format("15:04"))

	bubbleWidth := v.Width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var bubble string
	switch {
	case msg.Role == model.RoleUser:
		bubble = v.theme.UserBubble.MaxWidth(bubbleWidth).Render(rendered)
	case msg.IsFallback:
		bubble = v.theme.FallbackBubble.MaxWidth(bubbleWidth).Render(rendered)
	default:
		bubble = v.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(rendered)
	}

	parts := []string{label + " " + timestamp, bubble}

	if v.ShowCitations && msg.HasCitations() {
		parts = append(parts, v.renderCitations(msg.Citations))
	}

	block := strings.Join(parts, "\n")

	// Right-align user turns, left-align assistant turns.
	if msg.Role == model.RoleUser {
		return lipgloss.NewStyle().
			Width(v.Width).
			Align(lipgloss.Right).
			Render(block)
	}
	return block
}

// renderCitations renders the source snippets under an assistant reply.
func (v *MessageView) renderCitations(citations []model.Citation) string {
	header := v.theme.CitationSource.Render(
		fmt.Sprintf("Sources (%d)", len(citations)))

	rows := []string{header}
	for _, c := range citations {
		source := v.theme.CitationSource.Render(c.Source())
		score := v.theme.CitationScore.Render(fmt.Sprintf("%.2f", c.Score))
		snippet := v.theme.CitationText.Render(c.Preview(citationPreviewRunes))
		rows = append(rows, source+" "+score+"\n"+snippet)
	}

	return v.theme.CitationBox.Render(strings.Join(rows, "\n"))
}

// RenderTranscript renders the whole transcript top to bottom.
// renderBody formats a message body (e.g. markdown); nil means plain
// text.
func (v *MessageView) RenderTranscript(messages []model.Message, renderBody func(model.Message) string) string {
	if len(messages) == 0 {
		return v.theme.WelcomeInfo.Render(
			"Ask a question about your documents to get started.")
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		body := ""
		if renderBody != nil {
			body = renderBody(msg)
		}
		blocks = append(blocks, v.Render(msg, body))
	}

	return strings.Join(blocks, "\n\n")
}
