// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	FallbackBubble  lipgloss.Style
	MessageLabel    lipgloss.Style
	MessageTime     lipgloss.Style

	// ==========================================================================
	// CITATION STYLES
	// ==========================================================================

	CitationBox    lipgloss.Style
	CitationSource lipgloss.Style
	CitationText   lipgloss.Style
	CitationScore  lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	BackendOnline lipgloss.Style
	BackendOffline lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// SPINNER AND PROGRESS STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ProgressBar  lipgloss.Style
	ProgressText lipgloss.Style

	// ==========================================================================
	// DOCUMENT LIST STYLES
	// ==========================================================================

	DocList         lipgloss.Style
	DocItem         lipgloss.Style
	DocItemSelected lipgloss.Style
	DocName         lipgloss.Style
	DocMeta         lipgloss.Style

	// ==========================================================================
	// CONFIRM DIALOG STYLES
	// ==========================================================================

	ConfirmBox          lipgloss.Style
	ConfirmTitle        lipgloss.Style
	ConfirmButton       lipgloss.Style
	ConfirmButtonActive lipgloss.Style

	// ==========================================================================
	// ERROR AND TOAST STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
	ToastSuccess lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox     lipgloss.Style
	WelcomeLogo    lipgloss.Style
	WelcomeVersion lipgloss.Style
	WelcomeInfo    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// NewThemeWithPreference creates a theme honoring the configured theme
// name. "auto" falls back to terminal detection.
func NewThemeWithPreference(pref string) *Theme {
	t := NewTheme()
	switch pref {
	case "dark":
		t.IsDark = true
	case "light":
		t.IsDark = false
	}
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.FallbackBubble = lipgloss.NewStyle().
		Foreground(FallbackBubbleFg).
		Background(FallbackBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(FallbackBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.MessageLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Citations
	t.CitationBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(2).
		MarginLeft(2)

	t.CitationSource = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.CitationText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CitationScore = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.BackendOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.BackendOffline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and progress
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ProgressBar = lipgloss.NewStyle().
		Foreground(Cyan)

	t.ProgressText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Document list
	t.DocList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.DocItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.DocItemSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.DocName = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.DocMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Confirm dialog
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Background(Surface).
		Padding(1, 2)

	t.ConfirmTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2).
		MarginRight(1)

	t.ConfirmButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	// Errors and toasts
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(InfoHighContrast).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(ErrorHighContrast).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(SuccessHighContrast).
		Padding(0, 1)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
