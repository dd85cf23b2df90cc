// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app implements the docchat TUI: a chat surface over the
// retrieval backend with document upload and library management.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/health"
	"github.com/kenzydocs/docchat-tui/internal/roster"
	"github.com/kenzydocs/docchat-tui/internal/session"
	"github.com/kenzydocs/docchat-tui/internal/ui/components"
	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
	"github.com/kenzydocs/docchat-tui/internal/upload"
)

// =============================================================================
// FOCUS MODES
// =============================================================================

// focusMode is which surface owns the keyboard.
type focusMode int

const (
	// focusChat is the default mode: typing goes to the input line.
	focusChat focusMode = iota

	// focusUploadPath repurposes the input line for a file path.
	focusUploadPath

	// focusDocs shows the document library panel.
	focusDocs

	// focusConfirmDelete shows the delete confirmation dialog.
	focusConfirmDelete
)

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model is the root bubbletea model.
type Model struct {
	cfg    *config.Config
	client *backend.Client

	session  *session.Manager
	pipeline *upload.Pipeline
	roster   *roster.Roster
	monitor  *health.Monitor
	watcher  *upload.Watcher

	theme       *styles.Theme
	keys        keyMap
	header      *components.Header
	statusBar   *components.StatusBar
	spinner     *components.Spinner
	uploader    *components.Uploader
	docList     *components.DocList
	messageView *components.MessageView
	toasts      *components.ToastManager

	input    textinput.Model
	viewport viewport.Model
	markdown *glamour.TermRenderer

	focus           focusMode
	confirmSelected bool
	width           int
	height          int
	ready           bool
	quitting        bool
}

// New creates the application model from loaded configuration.
func New(cfg *config.Config) *Model {
	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Timeout:      time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		StartCommand: cfg.Backend.AutostartCommand,
	})

	theme := styles.NewThemeWithPreference(cfg.UI.Theme)
	pipeline := upload.NewPipeline()

	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	messageView := components.NewMessageView(theme)
	messageView.ShowCitations = cfg.UI.ShowCitations

	m := &Model{
		cfg:         cfg,
		client:      client,
		session:     session.NewManager(),
		pipeline:    pipeline,
		roster:      roster.New(),
		monitor:     health.NewMonitor(client, time.Duration(cfg.Backend.HealthIntervalSecs)*time.Second),
		theme:       theme,
		keys:        defaultKeyMap(),
		header:      components.NewHeader(theme),
		statusBar:   components.NewStatusBar(theme),
		spinner:     components.NewSpinner(theme),
		uploader:    components.NewUploader(pipeline, theme),
		docList:     components.NewDocList(theme),
		messageView: messageView,
		toasts:      components.NewToastManager(),
		input:       input,
		focus:       focusChat,
	}

	// The watch folder is optional; a broken directory just disables it.
	if cfg.Upload.WatchDir != "" {
		if w, err := upload.NewWatcher(cfg.Upload.WatchDir); err == nil {
			m.watcher = w
		}
	}

	return m
}

// Init starts the background work: health polling, the initial roster
// fetch, toast expiry, and the input cursor.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.checkHealthCmd(),
		m.refreshDocsCmd(),
		components.ToastTickCmd(),
		textinput.Blink,
	}

	if m.cfg.Backend.Autostart {
		cmds = append(cmds, m.ensureBackendCmd())
	}

	if m.watcher != nil {
		cmds = append(cmds, m.startWatcherCmd(), m.waitForWatchEventCmd())
	}

	return tea.Batch(cmds...)
}

// markdownRenderer lazily builds the glamour renderer for the current
// width.
func (m *Model) markdownRenderer() *glamour.TermRenderer {
	if m.markdown == nil {
		wrap := m.width - 14
		if wrap < 40 {
			wrap = 40
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			m.markdown = r
		}
	}
	return m.markdown
}
