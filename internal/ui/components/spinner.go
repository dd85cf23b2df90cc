// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT - Shown while a turn awaits the backend
// =============================================================================

// Spinner is the animated waiting indicator.
type Spinner struct {
	config styles.SpinnerConfig
	frame  int
	label  string
	theme  *styles.Theme
}

// NewSpinner creates a spinner with the default animation.
func NewSpinner(theme *styles.Theme) *Spinner {
	return &Spinner{
		config: styles.LineSpinner,
		label:  "Thinking",
		theme:  theme,
	}
}

// SetLabel updates the text shown next to the animation.
func (s *Spinner) SetLabel(label string) {
	s.label = label
}

// Advance moves to the next animation frame.
func (s *Spinner) Advance() {
	s.frame = (s.frame + 1) % len(s.config.Frames)
}

// Reset returns to the first frame.
func (s *Spinner) Reset() {
	s.frame = 0
}

// View renders the current frame with the label.
func (s *Spinner) View() string {
	frame := s.theme.Spinner.Render(s.config.Frames[s.frame])
	label := s.theme.ThinkingText.Render(" " + s.label + "...")
	return frame + label
}

// =============================================================================
// SPINNER MESSAGES
// =============================================================================

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg struct {
	Time time.Time
}

// SpinnerTickCmd schedules the next animation frame.
func (s *Spinner) SpinnerTickCmd() tea.Cmd {
	return tea.Tick(s.config.Duration(), func(t time.Time) tea.Msg {
		return SpinnerTickMsg{Time: t}
	})
}
