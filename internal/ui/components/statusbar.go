// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusUploading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusUploading:
		return "Uploading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, a visual cue beyond
// color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking, StatusUploading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar represents the bottom status bar.
type StatusBar struct {
	BackendOnline bool
	DocumentCount int
	TurnCount     int
	Status        Status
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetBackendOnline updates the backend reachability indicator.
func (s *StatusBar) SetBackendOnline(online bool) {
	s.BackendOnline = online
}

// SetCounts updates the document and turn counters.
func (s *StatusBar) SetCounts(documents, turns int) {
	s.DocumentCount = documents
	s.TurnCount = turns
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: [ON] 3 docs Status
func (s *StatusBar) viewNarrow() string {
	parts := []string{s.backendBadgeShort()}

	docStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	parts = append(parts, docStyle.Render(formatDocCount(s.DocumentCount)))

	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.Icon()))

	result := strings.Join(parts, " ")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewWide renders the full status bar.
// Format: BACKEND | 3 docs | 5 turns | Status        shortcuts
func (s *StatusBar) viewWide() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	leftParts := []string{s.backendBadge()}

	metaStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	leftParts = append(leftParts, metaStyle.Render(formatDocCount(s.DocumentCount)))
	leftParts = append(leftParts, metaStyle.Render(formatTurnCount(s.TurnCount)))

	statusStyle := s.getStatusStyle()
	leftParts = append(leftParts, statusStyle.Render(s.Status.String()))

	leftSection := strings.Join(leftParts, separator)

	rightSection := ""
	if s.ShowShortcuts {
		rightSection = s.renderShortcuts()
	}

	// Right-align the shortcuts.
	leftWidth := lipgloss.Width(leftSection)
	rightWidth := lipgloss.Width(rightSection)
	spacing := s.Width - leftWidth - rightWidth - 4
	if spacing < 1 {
		spacing = 1
	}

	result := leftSection + strings.Repeat(" ", spacing) + rightSection

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// backendBadge renders the backend reachability indicator.
func (s *StatusBar) backendBadge() string {
	if s.BackendOnline {
		return lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true).
			Render(styles.StatusIndicators.Active + " BACKEND")
	}
	return lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true).
		Render(styles.StatusIndicators.Error + " OFFLINE")
}

// backendBadgeShort renders a compact backend indicator.
func (s *StatusBar) backendBadgeShort() string {
	if s.BackendOnline {
		return lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true).
			Render("[ON]")
	}
	return lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true).
		Render("[OFF]")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusThinking, StatusUploading:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("^U") + descStyle.Render("upload"),
		keyStyle.Render("^D") + descStyle.Render("docs"),
		keyStyle.Render("^C") + descStyle.Render("quit"),
	}

	return strings.Join(shortcuts, " ")
}
