// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

// Agent texts starting with these are shown verbatim in an error bubble.
var errorPrefixes = []string{"❌", "🔌"}

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one conversation entry.
type MessageBubble struct {
	Message  model.Message
	Width    int
	Selected bool
	theme    *styles.Theme
	markdown *Markdown
}

// NewMessageBubble creates a bubble. md may be nil, in which case agent text
// is shown unformatted.
func NewMessageBubble(msg model.Message, theme *styles.Theme, md *Markdown) *MessageBubble {
	return &MessageBubble{Message: msg, Width: 80, theme: theme, markdown: md}
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.Sender == model.SenderUser {
		return b.renderUser()
	}
	switch b.Message.Kind {
	case model.KindPending:
		return b.renderPending()
	case model.KindChart:
		return b.renderChart()
	default:
		return b.renderAgentText()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width * 3 / 4
	if w < 20 {
		w = b.Width - 2
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (b *MessageBubble) header() string {
	label := b.theme.SenderLabel.Render(b.Message.Sender.DisplayName())
	if ts := renderTimestamp(b.Message.CreatedAt); ts != "" {
		label += " " + b.theme.Timestamp.Render(ts)
	}
	return label
}

func (b *MessageBubble) renderUser() string {
	text := b.Message.Text
	if text == "" {
		text = "..."
	}
	inner := b.contentWidth() - 4
	body := lipgloss.NewStyle().Width(min(lipgloss.Width(text), inner)).Render(text)
	bubble := b.theme.UserBubble.Render(body)

	block := lipgloss.JoinVertical(lipgloss.Right, b.header(), bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderAgentText() string {
	text := b.Message.Text
	inner := b.contentWidth() - 4

	for _, p := range errorPrefixes {
		if strings.HasPrefix(text, p) {
			body := b.theme.ErrorBubble.Width(inner).Render(text)
			return lipgloss.JoinVertical(lipgloss.Left, b.header(), body)
		}
	}

	rendered := text
	if b.markdown != nil {
		rendered = b.markdown.Render(text)
	} else {
		rendered = lipgloss.NewStyle().Width(inner).Render(text)
	}
	bubble := b.theme.AgentBubble.Render(rendered)
	return lipgloss.JoinVertical(lipgloss.Left, b.header(), bubble)
}

func (b *MessageBubble) renderPending() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		b.header(),
		b.theme.PendingText.PaddingLeft(2).Render(model.PendingText),
	)
}

func (b *MessageBubble) renderChart() string {
	inner := b.contentWidth() - 4
	lines := []string{
		b.theme.ChartCaption.Width(inner).Render("📊 " + b.Message.Caption),
		b.theme.Muted.Render(truncateMiddle(b.Message.ImageRef, inner)),
	}
	switch b.Message.Load {
	case model.LoadLoading:
		lines = append(lines, b.theme.ChartStatus.Render(model.ChartLoadingText))
	case model.LoadFailed:
		lines = append(lines, b.theme.ChartFailed.Render(model.ChartFailedText))
	default:
		lines = append(lines, b.theme.ShortcutDesc.Render("click or press enter to enlarge"))
	}

	frame := b.theme.ChartFrame
	if b.Selected {
		frame = frame.BorderForeground(styles.Indigo).Inherit(b.theme.Selected)
	}
	return lipgloss.JoinVertical(lipgloss.Left, b.header(), frame.Padding(0, 1).Render(strings.Join(lines, "\n")))
}

// renderTimestamp formats a creation time, adding the date when it is not
// today.
func renderTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	now := time.Now()
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("15:04")
	}
	return ts.Format("Jan 2, 15:04")
}

// truncateMiddle keeps both ends of a long reference.
func truncateMiddle(s string, width int) string {
	r := []rune(s)
	if width < 5 || len(r) <= width {
		return s
	}
	half := (width - 3) / 2
	return string(r[:half]) + "..." + string(r[len(r)-(width-3-half):])
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// Span is the line range [Start, End) a message occupies in the rendered
// list.
type Span struct {
	MessageID string
	Start     int
	End       int
	Chart     bool
}

// MessageList renders a whole conversation.
type MessageList struct {
	Messages   []model.Message
	Width      int
	SelectedID string
	theme      *styles.Theme
	markdown   *Markdown
	spans      []Span
}

// NewMessageList creates a list.
func NewMessageList(theme *styles.Theme, md *Markdown) *MessageList {
	return &MessageList{Width: 80, theme: theme, markdown: md}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// Spans returns the line ranges computed by the last View.
func (ml *MessageList) Spans() []Span {
	return ml.spans
}

// View renders all messages separated by a blank line.
func (ml *MessageList) View() string {
	ml.spans = ml.spans[:0]
	if len(ml.Messages) == 0 {
		return ml.theme.Muted.Width(ml.Width).Align(lipgloss.Center).Padding(2, 0).
			Render("No messages yet.")
	}

	var parts []string
	line := 0
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme, ml.markdown)
		bubble.Width = ml.Width
		bubble.Selected = msg.ID == ml.SelectedID
		view := bubble.View()

		height := lipgloss.Height(view)
		ml.spans = append(ml.spans, Span{
			MessageID: msg.ID,
			Start:     line,
			End:       line + height,
			Chart:     msg.IsChart(),
		})
		line += height + 1
		parts = append(parts, view)
	}
	return strings.Join(parts, "\n\n")
}
