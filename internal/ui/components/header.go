// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with backend status
// =============================================================================

// Header represents the title bar component.
type Header struct {
	Title          string // Main title (default: "docchat")
	BackendVersion string // Version reported by the backend health check
	BackendOnline  bool
	DocumentCount  int
	Width          int
	theme          *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "docchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetBackend updates the backend status line.
func (h *Header) SetBackend(online bool, version string) {
	h.BackendOnline = online
	h.BackendVersion = version
}

// SetDocumentCount updates the indexed document count.
func (h *Header) SetDocumentCount(n int) {
	h.DocumentCount = n
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Inner width accounts for borders and padding.
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{h.backendBadge()}

	if h.DocumentCount > 0 {
		docStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, docStyle.Render(formatDocCount(h.DocumentCount)))
	}

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand, h.backendBadge()}

	if h.DocumentCount > 0 {
		docStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, docStyle.Render(formatDocCount(h.DocumentCount)))
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// backendBadge renders the online/offline indicator with the reported
// version when available.
func (h *Header) backendBadge() string {
	if h.BackendOnline {
		style := lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true)
		label := "ONLINE"
		if h.BackendVersion != "" {
			label += " v" + h.BackendVersion
		}
		return style.Render("[" + label + "]")
	}

	style := lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true)
	return style.Render("[OFFLINE]")
}
