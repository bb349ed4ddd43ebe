// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/logger"
	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/prefs"
	"github.com/jeranaias/datachat-tui/internal/session"
	"github.com/jeranaias/datachat-tui/internal/staging"
	"github.com/jeranaias/datachat-tui/internal/ui/components"
	"github.com/jeranaias/datachat-tui/internal/ui/modal"
	"github.com/jeranaias/datachat-tui/internal/ui/sidebar"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

const (
	headerHeight    = 1
	inputHeight     = 2
	statusHeight    = 1
	maxSidebarWidth = 34
	watchDebounce   = 250 * time.Millisecond
	// InputPlaceholder is shown in the empty question input.
	InputPlaceholder = "Ask a question about your data..."
)

// Options configures a Model.
type Options struct {
	Session *session.Session
	Client  *analysis.Client
	Theme   *styles.Theme
	// Prefs persists the theme. Nil keeps it in memory for the process.
	Prefs prefs.Store

	// Breakpoint and CellWidth convert terminal columns to the layout units
	// the sidebar breakpoint is expressed in.
	Breakpoint int
	CellWidth  int

	MaxUploadBytes int64
	// InitialFile is staged on startup when set.
	InitialFile string
	// StartDir is where the file picker opens.
	StartDir string
}

// changeTracker collects conversation notifications between renders.
type changeTracker struct {
	dirty  bool
	scroll bool
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	sess      *session.Session
	client    *analysis.Client
	theme     *styles.Theme
	themePref *prefs.ThemePreference
	keys      KeyMap
	log       *slog.Logger

	width       int
	height      int
	cellWidth   int
	maxUpload   int64
	startDir    string
	initialFile string

	sidebar sidebar.State
	sized   bool // first WindowSizeMsg seen
	modal   modal.State
	modalID string

	viewport *components.ChatViewport
	markdown *components.Markdown
	header   *components.Header
	status   *components.StatusBar
	panel    *components.SidebarPanel
	toasts   *components.ToastManager
	alert    *components.Alert
	spinner  components.Spinner
	input    textinput.Model
	picker   filepicker.Model
	help     help.Model

	pickerOpen    bool
	inspectorOpen bool
	showHelp      bool
	toastTicking  bool

	charts  map[string]*analysis.Chart
	watcher *staging.Watcher
	changes *changeTracker
}

// New creates the chat model. The theme preference is read here, once.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	store := opts.Prefs
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	cellWidth := opts.CellWidth
	if cellWidth <= 0 {
		cellWidth = 8
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}

	theme.Apply(false)
	themePref := prefs.NewThemePreference(store, func(t prefs.Theme) {
		theme.Apply(t == prefs.ThemeLight)
	})
	log := logger.ComponentLogger("chat")
	if err := themePref.Init(); err != nil {
		log.Warn("theme preference unavailable", "error", err)
	}

	input := textinput.New()
	input.Placeholder = InputPlaceholder
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Focus()

	md := components.NewMarkdown(theme.GlamourStyle(), 80)
	keys := DefaultKeyMap()

	header := components.NewHeader(theme)
	header.BaseURL = opts.Session.BaseURL()

	status := components.NewStatusBar(theme)
	status.Shortcuts = Shortcuts(keys.Submit, keys.OpenFile, keys.NewChat, keys.Sidebar, keys.Help)

	panel := components.NewSidebarPanel(theme)
	panel.Shortcuts = Shortcuts(keys.OpenFile, keys.NewChat, keys.Theme, keys.ViewChart,
		keys.NextChart, keys.Inspect, keys.Help, keys.Quit)

	m := Model{
		sess:        opts.Session,
		client:      opts.Client,
		theme:       theme,
		themePref:   themePref,
		keys:        keys,
		log:         log,
		cellWidth:   cellWidth,
		maxUpload:   opts.MaxUploadBytes,
		startDir:    startDir,
		initialFile: opts.InitialFile,
		sidebar:     sidebar.New(80*cellWidth, opts.Breakpoint),
		modal:       modal.Closed,
		viewport:    components.NewChatViewport(theme, md),
		markdown:    md,
		header:      header,
		status:      status,
		panel:       panel,
		toasts:      components.NewToastManager(),
		alert:       &components.Alert{},
		spinner:     components.NewSpinner("Analyzing your data"),
		input:       input,
		help:        help.New(),
		charts:      make(map[string]*analysis.Chart),
		changes:     &changeTracker{dirty: true, scroll: true},
	}
	m.header.Indicator = m.sidebar.Indicator()

	tracker := m.changes
	m.sess.Conversation().SetListener(func(c model.Change) {
		tracker.dirty = true
		if c.Kind == model.ChangeScroll {
			tracker.scroll = true
		}
	})
	return m
}

// Init starts the cursor blink and the liveness probe, and stages the
// initial file if one was given.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.client != nil {
		cmds = append(cmds, probeCmd(m.client))
	}
	if m.initialFile != "" {
		cmds = append(cmds, stageCmd(m.initialFile))
	}
	return tea.Batch(cmds...)
}

// Close releases the file watcher.
func (m Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// Session returns the session the model drives.
func (m Model) Session() *session.Session {
	return m.sess
}

// =============================================================================
// LAYOUT
// =============================================================================

// sidebarWidth is the panel width in columns, 0 when collapsed.
func (m Model) sidebarWidth() int {
	if m.sidebar.Collapsed || m.width == 0 {
		return 0
	}
	w := m.width / 3
	if w > maxSidebarWidth {
		w = maxSidebarWidth
	}
	if w < 16 {
		w = min(16, m.width)
	}
	return w
}

func (m Model) bodyHeight() int {
	return max(3, m.height-headerHeight-inputHeight-statusHeight)
}

// relayout pushes the current size and theme into every component.
func (m *Model) relayout() {
	chatWidth := max(10, m.width-m.sidebarWidth())

	m.header.Width = m.width
	m.status.Width = m.width
	m.input.Width = max(10, m.width-6)
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.help.Width = m.width

	m.markdown.Configure(m.theme.GlamourStyle(), max(20, chatWidth*3/4-4))
	m.viewport.SetSize(chatWidth, m.bodyHeight())
	m.picker.Height = max(5, m.height-8)
}

// syncConversation re-renders the log if it changed since the last call.
func (m *Model) syncConversation() {
	if !m.changes.dirty {
		return
	}
	m.viewport.SetMessages(m.sess.Conversation().Messages(), m.changes.scroll)
	m.changes.dirty = false
	m.changes.scroll = false
}
