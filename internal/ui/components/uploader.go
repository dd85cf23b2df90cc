// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
	"github.com/kenzydocs/docchat-tui/internal/upload"
	"github.com/kenzydocs/docchat-tui/internal/util"
)

// =============================================================================
// UPLOADER COMPONENT - Upload progress bar
// =============================================================================

// uploadBarWidth is the character width of the progress bar itself.
const uploadBarWidth = 30

// Uploader renders the state of the upload pipeline.
type Uploader struct {
	pipeline *upload.Pipeline
	Width    int
	theme    *styles.Theme
}

// NewUploader creates the progress view bound to a pipeline.
func NewUploader(pipeline *upload.Pipeline, theme *styles.Theme) *Uploader {
	return &Uploader{
		pipeline: pipeline,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the available width.
func (u *Uploader) SetWidth(width int) {
	u.Width = width
}

// Visible reports whether the bar should be drawn at all.
func (u *Uploader) Visible() bool {
	return u.pipeline.Active()
}

// View renders the progress line: name, bar, and percentage.
func (u *Uploader) View() string {
	if !u.pipeline.Active() {
		return ""
	}

	percent := u.pipeline.Progress()
	name := u.pipeline.FileName()

	nameWidth := u.Width - uploadBarWidth - 12
	if nameWidth < 10 {
		nameWidth = 10
	}
	name = util.TruncateWidth(name, nameWidth)

	bar := u.theme.ProgressBar.Render(
		"[" + styles.RenderProgressBar(uploadBarWidth, float64(percent)) + "]")

	label := u.theme.ProgressText.Render(name)
	pct := u.theme.ProgressText.Render(strconv.Itoa(percent) + "%")

	line := label + " " + bar + " " + pct

	if u.pipeline.State() == upload.StateSettled {
		done := lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true).
			Render(" " + styles.StatusIndicators.Success)
		line += done
	}

	return line
}
