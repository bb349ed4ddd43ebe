// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT - Scrollable chat area with indicators
// =============================================================================

// indicatorLines is the number of rows reserved for the scroll indicators,
// one above and one below the content.
const indicatorLines = 2

// ChatViewport is the scrollable conversation. While locked (an overlay is
// open) it ignores all scroll input.
type ChatViewport struct {
	viewport    viewport.Model
	messageList *MessageList
	theme       *styles.Theme

	width  int
	height int
	ready  bool

	autoScroll bool
	locked     bool
}

// NewChatViewport creates a viewport.
func NewChatViewport(theme *styles.Theme, md *Markdown) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &ChatViewport{
		viewport:    vp,
		messageList: NewMessageList(theme, md),
		theme:       theme,
		width:       80,
		height:      20,
		autoScroll:  true,
	}
}

// SetSize updates the viewport dimensions.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = height
	cv.viewport.Width = width
	cv.viewport.Height = max(1, height-indicatorLines)
	cv.messageList.SetWidth(max(10, width-2))
	cv.ready = true
	cv.updateContent()
}

// SetMessages replaces the rendered conversation. scroll moves to the
// latest entry; otherwise the position is kept.
func (cv *ChatViewport) SetMessages(messages []model.Message, scroll bool) {
	cv.messageList.SetMessages(messages)
	cv.updateContent()
	if scroll {
		cv.ScrollToBottom()
	}
}

// Select highlights a chart message. An empty id clears the selection.
func (cv *ChatViewport) Select(id string) {
	cv.messageList.SelectedID = id
	cv.updateContent()
}

// Selected is the highlighted message id.
func (cv *ChatViewport) Selected() string {
	return cv.messageList.SelectedID
}

// Refresh re-renders after a theme or style change.
func (cv *ChatViewport) Refresh() {
	cv.updateContent()
}

func (cv *ChatViewport) updateContent() {
	cv.viewport.SetContent(cv.messageList.View())
	if cv.autoScroll && !cv.locked {
		cv.viewport.GotoBottom()
	}
}

// Lock stops scroll input.
func (cv *ChatViewport) Lock() {
	cv.locked = true
}

// Unlock restores scroll input.
func (cv *ChatViewport) Unlock() {
	cv.locked = false
}

// Locked reports whether scroll input is ignored.
func (cv *ChatViewport) Locked() bool {
	return cv.locked
}

// ScrollToBottom scrolls to the latest message. Programmatic scrolls still
// apply while locked so the log stays current behind an overlay.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.autoScroll = true
}

// ScrollUp scrolls up by lines.
func (cv *ChatViewport) ScrollUp(lines int) {
	if cv.locked {
		return
	}
	cv.autoScroll = false
	cv.viewport.LineUp(lines)
}

// ScrollDown scrolls down by lines.
func (cv *ChatViewport) ScrollDown(lines int) {
	if cv.locked {
		return
	}
	cv.viewport.LineDown(lines)
	if cv.viewport.AtBottom() {
		cv.autoScroll = true
	}
}

// AtTop returns true if the viewport is at the top.
func (cv *ChatViewport) AtTop() bool {
	return cv.viewport.AtTop()
}

// AtBottom returns true if the viewport is at the bottom.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// YOffset is the first visible content line.
func (cv *ChatViewport) YOffset() int {
	return cv.viewport.YOffset
}

// Update handles scroll keys and the mouse wheel.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	if cv.locked {
		return cv, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			cv.ScrollUp(1)
		case "down":
			cv.ScrollDown(1)
		case "pgup":
			cv.ScrollUp(cv.viewport.Height)
		case "pgdown":
			cv.ScrollDown(cv.viewport.Height)
		case "home":
			cv.viewport.GotoTop()
			cv.autoScroll = false
		case "end":
			cv.ScrollToBottom()
		}
		return cv, nil

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cv.ScrollUp(3)
		case tea.MouseWheelDown:
			cv.ScrollDown(3)
		}
		return cv, nil
	}
	return cv, nil
}

// MessageAt maps a row of View output to the message drawn there.
func (cv *ChatViewport) MessageAt(row int) (Span, bool) {
	row -= 1 // top indicator
	if row < 0 || row >= cv.viewport.Height {
		return Span{}, false
	}
	line := cv.viewport.YOffset + row
	for _, s := range cv.messageList.Spans() {
		if line >= s.Start && line < s.End {
			return s, true
		}
	}
	return Span{}, false
}

// ChartIDs lists chart message ids in display order.
func (cv *ChatViewport) ChartIDs() []string {
	var ids []string
	for _, s := range cv.messageList.Spans() {
		if s.Chart {
			ids = append(ids, s.MessageID)
		}
	}
	return ids
}

// View renders the viewport with scroll indicators.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		cv.renderTopIndicator(),
		cv.viewport.View(),
		cv.renderBottomIndicator(),
	)
}

// ==========================================================================
// SCROLL INDICATORS
// ==========================================================================

func (cv *ChatViewport) renderTopIndicator() string {
	line := lipgloss.NewStyle().Width(cv.width).Align(lipgloss.Center)
	if cv.AtTop() {
		return line.Render("")
	}
	return line.Foreground(styles.TextMuted).Italic(true).Render("^ scroll up for more ^")
}

func (cv *ChatViewport) renderBottomIndicator() string {
	line := lipgloss.NewStyle().Width(cv.width).Align(lipgloss.Center)
	if cv.AtBottom() {
		return line.Render("")
	}
	pct := fmt.Sprintf(" [%d%%] ", int(cv.viewport.ScrollPercent()*100))
	return line.Foreground(styles.TextMuted).Italic(true).Render("v" + pct + "scroll down for more v")
}
