// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/prefs"
	"github.com/jeranaias/datachat-tui/internal/session"
	"github.com/jeranaias/datachat-tui/internal/staging"
	"github.com/jeranaias/datachat-tui/internal/ui/components"
	"github.com/jeranaias/datachat-tui/internal/ui/modal"
	"github.com/jeranaias/datachat-tui/internal/ui/sidebar"
)

// Update handles messages and syncs the log view with the conversation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncConversation()
	next.refreshChrome()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ExchangeResultMsg:
		return m.handleExchangeResult(msg)

	case ChartLoadedMsg:
		return m.handleChartLoaded(msg)

	case ProbeResultMsg:
		m.sess.RecordProbe(msg.Err)
		return m, nil

	case StageFileMsg:
		return m.stagePath(msg.Path)

	case FileChangedMsg:
		return m.handleFileChanged(msg)

	case watcherClosedMsg:
		return m, nil

	case ClipboardResultMsg:
		if msg.Err != nil {
			m.log.Warn("clipboard copy failed", "error", msg.Err)
			cmd := m.toast(components.ToastError, "Could not copy to clipboard")
			return m, cmd
		}
		cmd := m.toast(components.ToastSuccess, "Copied "+msg.Text)
		return m, cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.pickerOpen {
		return m.updatePicker(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// The first size is the real viewport, so it seeds the sidebar state.
	// Later sizes only collapse.
	if !m.sized {
		m.sized = true
		m.sidebar = sidebar.New(msg.Width*m.cellWidth, m.sidebar.Breakpoint)
		m.header.Indicator = m.sidebar.Indicator()
	} else {
		var effects []sidebar.UpdateAffordance
		m.sidebar, effects = sidebar.Transition(m.sidebar, sidebar.Resize{Width: msg.Width * m.cellWidth})
		m.applySidebarEffects(effects)
	}

	m.relayout()
	return m, nil
}

func (m *Model) applySidebarEffects(effects []sidebar.UpdateAffordance) {
	for _, e := range effects {
		m.header.Indicator = e.Indicator
	}
	if len(effects) > 0 {
		m.relayout()
	}
}

// refreshChrome copies session state into the header, panel and status bar.
func (m *Model) refreshChrome() {
	stager := m.sess.Stager()
	m.header.Connected = m.sess.Connected()
	m.panel.FileLabel = stager.Label()
	m.panel.HasFile = stager.HasFile()
	m.panel.Light = m.themePref.IsLight()
	m.panel.Watching = m.watcher != nil
	m.status.FileLabel = stager.Label()
	if _, pending := m.sess.Pending(); pending {
		m.status.Activity = m.spinner.View()
	} else {
		m.status.Activity = ""
	}
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// A blocking notice swallows everything until acknowledged.
	if m.alert.Visible() {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alert.Dismiss()
		}
		return m, nil
	}

	if m.modal.IsOpen() {
		return m.handleModalKey(msg)
	}

	if m.inspectorOpen {
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Inspect) {
			m.inspectorOpen = false
		}
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.pickerOpen {
		if key.Matches(msg, m.keys.Close) {
			m.pickerOpen = false
			return m, nil
		}
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.OpenFile):
		return m.openPicker()

	case key.Matches(msg, m.keys.NewChat):
		return m.newConversation()

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.Sidebar):
		var effects []sidebar.UpdateAffordance
		m.sidebar, effects = sidebar.Transition(m.sidebar, sidebar.Toggle{})
		m.applySidebarEffects(effects)
		return m, nil

	case key.Matches(msg, m.keys.ViewChart):
		id := m.viewport.Selected()
		if id == "" {
			if last, ok := m.sess.Conversation().LastChart(); ok {
				id = last.ID
			}
		}
		return m.openChart(id)

	case key.Matches(msg, m.keys.NextChart):
		m.selectNextChart()
		return m, nil

	case key.Matches(msg, m.keys.Inspect):
		m.inspectorOpen = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.viewport.Select("")
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Home), key.Matches(msg, m.keys.End):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Copy) {
		ref := m.modal.Ref()
		if m.client != nil {
			if abs, err := m.client.ResolveRef(ref); err == nil {
				ref = abs
			}
		}
		return m, copyCmd(ref)
	}
	var effects []modal.Effect
	m.modal, effects = modal.Transition(m.modal, modal.Key{Name: msg.String()})
	m.applyModalEffects(effects)
	return m, nil
}

// =============================================================================
// MOUSE
// =============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.alert.Visible() || m.inspectorOpen || m.showHelp || m.pickerOpen {
		return m, nil
	}

	if m.modal.IsOpen() {
		if msg.Type != tea.MouseLeft {
			return m, nil
		}
		r := modalRect(m.width, m.height)
		var ev modal.Event = modal.Pointer{OnBackdrop: !r.contains(msg.X, msg.Y)}
		if r.onClose(msg.X, msg.Y) {
			ev = modal.CloseControl{}
		}
		var effects []modal.Effect
		m.modal, effects = modal.Transition(m.modal, ev)
		m.applyModalEffects(effects)
		return m, nil
	}

	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.MouseLeft:
		if msg.Y == 0 && msg.X <= m.header.IndicatorWidth() {
			var effects []sidebar.UpdateAffordance
			m.sidebar, effects = sidebar.Transition(m.sidebar, sidebar.Toggle{})
			m.applySidebarEffects(effects)
			return m, nil
		}
		if msg.X < m.sidebarWidth() {
			return m, nil
		}
		span, ok := m.viewport.MessageAt(msg.Y - headerHeight)
		if !ok {
			return m, nil
		}
		m.viewport.Select(span.MessageID)
		if span.Chart {
			return m.openChart(span.MessageID)
		}
	}
	return m, nil
}

// =============================================================================
// SUBMIT & EFFECTS
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	value := m.input.Value()

	// A pasted or dropped path stages the file instead of asking.
	if path, ok := droppedPath(value); ok {
		m.input.Reset()
		return m.stagePath(path)
	}

	// Enter on an empty input enlarges the selected chart.
	if strings.TrimSpace(value) == "" {
		if id := m.viewport.Selected(); id != "" {
			return m.openChart(id)
		}
	}

	outcome, effects := m.sess.Submit(value)
	m.log.Debug("submit", "outcome", outcome)
	cmd := m.applyEffects(effects)
	if outcome == session.OutcomeSent {
		m.viewport.Select("")
		tick := m.spinner.Start()
		return m, tea.Batch(cmd, tick)
	}
	return m, cmd
}

// applyEffects turns session effects into commands and UI changes.
func (m *Model) applyEffects(effects []session.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case session.Notice:
			if e.Blocking {
				m.alert.Show("Notice", e.Text)
			} else {
				cmds = append(cmds, m.toast(components.ToastWarning, e.Text))
			}
		case session.ClearInput:
			m.input.Reset()
		case session.Send:
			if m.client == nil {
				m.sess.Resolve(e.Exchange.PlaceholderID, nil, errors.New("no analysis service configured"))
				continue
			}
			cmds = append(cmds, exchangeCmd(m.client, e.Exchange))
		case session.LoadImage:
			if m.client == nil {
				m.sess.SetChartLoad(e.MessageID, errors.New("no analysis service configured"))
				continue
			}
			cmds = append(cmds, loadChartCmd(m.client, e.MessageID, e.Ref))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) handleExchangeResult(msg ExchangeResultMsg) (Model, tea.Cmd) {
	effects := m.sess.Resolve(msg.PlaceholderID, msg.Reply, msg.Err)
	if _, pending := m.sess.Pending(); !pending {
		m.spinner.Stop()
	}
	cmd := m.applyEffects(effects)
	return m, cmd
}

func (m Model) handleChartLoaded(msg ChartLoadedMsg) (Model, tea.Cmd) {
	m.sess.SetChartLoad(msg.MessageID, msg.Err)
	if msg.Err == nil && msg.Chart != nil {
		m.charts[msg.MessageID] = msg.Chart
	}
	return m, nil
}

// =============================================================================
// STAGING
// =============================================================================

func (m Model) stagePath(path string) (Model, tea.Cmd) {
	c, err := staging.FromPath(path, m.maxUpload)
	if err != nil {
		m.log.Warn("could not stage file", "path", path, "error", err)
		m.alert.Show("Notice", stageErrorText(path, err))
		return m, nil
	}

	effects := m.sess.StageFile(c)
	cmd := m.applyEffects(effects)
	if !m.sess.Stager().HasFile() {
		return m, cmd
	}
	if current, _ := m.sess.Stager().Current(); current.Path != c.Path {
		return m, cmd
	}

	if m.watcher != nil && m.watcher.Path() == c.Path {
		return m, cmd
	}
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	w, err := staging.Watch(c.Path, watchDebounce)
	if err != nil {
		m.log.Warn("could not watch staged file", "path", c.Path, "error", err)
		return m, cmd
	}
	m.watcher = w
	return m, tea.Batch(cmd, waitForChangeCmd(w))
}

func stageErrorText(path string, err error) string {
	name := filepath.Base(path)
	switch {
	case errors.Is(err, staging.ErrTooLarge):
		return fmt.Sprintf("%s is too large to upload.", name)
	case errors.Is(err, staging.ErrNotRegularFile):
		return fmt.Sprintf("%s is not a regular file.", name)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("%s does not exist.", name)
	default:
		return fmt.Sprintf("Could not read %s.", name)
	}
}

func (m Model) handleFileChanged(msg FileChangedMsg) (Model, tea.Cmd) {
	if msg.watcher != m.watcher {
		return m, nil
	}
	next := waitForChangeCmd(m.watcher)
	name := filepath.Base(msg.Change.Path)

	switch msg.Change.Kind {
	case staging.Removed:
		cmd := m.toast(components.ToastWarning, name+" was removed from disk")
		return m, tea.Batch(next, cmd)
	default:
		c, err := staging.FromPath(msg.Change.Path, m.maxUpload)
		if err != nil {
			cmd := m.toast(components.ToastWarning, stageErrorText(msg.Change.Path, err))
			return m, tea.Batch(next, cmd)
		}
		effects := m.sess.StageFile(c)
		cmd := m.applyEffects(effects)
		toast := m.toast(components.ToastInfo, name+" changed; the next question uses the new contents")
		return m, tea.Batch(next, cmd, toast)
	}
}

// droppedPath reports whether an input value is the path of an existing
// regular file, as produced by dropping a file onto the terminal.
func droppedPath(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.ContainsAny(v, "\n") {
		return "", false
	}
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	if strings.HasPrefix(v, "file://") {
		if u, err := url.Parse(v); err == nil {
			v = u.Path
		}
	}
	v = strings.ReplaceAll(v, `\ `, " ")
	if strings.HasPrefix(v, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			v = filepath.Join(home, v[2:])
		}
	}
	if !filepath.IsAbs(v) && !strings.HasPrefix(v, ".") {
		return "", false
	}
	info, err := os.Stat(v)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return v, true
}

// =============================================================================
// PICKER
// =============================================================================

func (m Model) openPicker() (Model, tea.Cmd) {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".zip", ".CSV", ".ZIP"}
	fp.CurrentDirectory = m.startDir
	fp.AutoHeight = false
	fp.Height = max(5, m.height-8)
	m.picker = fp
	m.pickerOpen = true
	return m, m.picker.Init()
}

func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.pickerOpen = false
		m.startDir = filepath.Dir(path)
		return m.stagePath(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.alert.Show("Notice", fmt.Sprintf(session.InvalidFileText, filepath.Base(path)))
		return m, cmd
	}
	return m, cmd
}

// =============================================================================
// CONVERSATION, THEME, CHARTS
// =============================================================================

func (m Model) newConversation() (Model, tea.Cmd) {
	cmd := m.applyEffects(m.sess.NewConversation())
	m.spinner.Stop()
	m.viewport.Select("")
	m.charts = make(map[string]*analysis.Chart)
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	return m, cmd
}

func (m Model) toggleTheme() (Model, tea.Cmd) {
	light := !m.themePref.IsLight()
	err := m.themePref.Toggle(light)
	m.relayout()
	m.viewport.Refresh()
	if err != nil {
		m.log.Warn("theme preference not saved", "error", err)
		cmd := m.toast(components.ToastWarning, "Theme changed but could not be saved")
		return m, cmd
	}
	text := "Switched to dark mode"
	if m.themePref.Current() == prefs.ThemeLight {
		text = "Switched to light mode"
	}
	cmd := m.toast(components.ToastInfo, text)
	return m, cmd
}

func (m Model) openChart(id string) (Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	msg, ok := m.sess.Conversation().Get(id)
	if !ok || !msg.IsChart() {
		return m, nil
	}
	var effects []modal.Effect
	m.modal, effects = modal.Transition(m.modal, modal.Open{Ref: msg.ImageRef})
	m.modalID = id
	m.applyModalEffects(effects)
	return m, nil
}

func (m *Model) applyModalEffects(effects []modal.Effect) {
	for _, e := range effects {
		switch e {
		case modal.LockScroll:
			m.viewport.Lock()
		case modal.UnlockScroll:
			m.viewport.Unlock()
			m.modalID = ""
		}
	}
}

func (m *Model) selectNextChart() {
	ids := m.viewport.ChartIDs()
	if len(ids) == 0 {
		return
	}
	current := m.viewport.Selected()
	for i, id := range ids {
		if id == current {
			m.viewport.Select(ids[(i+1)%len(ids)])
			return
		}
	}
	m.viewport.Select(ids[len(ids)-1])
}

// toast adds a toast and starts the expiry loop if it is not running.
func (m *Model) toast(kind components.ToastKind, text string) tea.Cmd {
	m.toasts.Add(kind, text)
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}
