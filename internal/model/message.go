// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/jeranaias/datachat-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAgent:
		return "AI"
	default:
		return string(s)
	}
}

// =============================================================================
// BODY KINDS
// =============================================================================

// Kind selects which body variant a message carries.
type Kind int

const (
	KindText Kind = iota
	KindChart
	KindPending
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChart:
		return "chart"
	case KindPending:
		return "pending"
	default:
		return "unknown"
	}
}

// LoadState is the visual state of a chart image.
type LoadState int

const (
	LoadLoading LoadState = iota
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Display texts for agent content the user did not type.
const (
	PendingText      = "⏳ Analyzing your data..."
	ChartLoadingText = "Loading chart..."
	ChartFailedText  = "❌ Failed to load chart"
	GreetingText     = "Hello! I'm your data analysis assistant. Upload a CSV file and ask me a question to get started. " +
		"I can help you explore the data, generate charts and draw conclusions."
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the conversation. Exactly one body variant is
// meaningful, selected by Kind.
type Message struct {
	ID        string
	Sender    Sender
	Kind      Kind
	CreatedAt time.Time

	// KindText
	Text string

	// KindChart
	Caption  string
	ImageRef string
	Load     LoadState
}

// NewUserText creates a user text message.
func NewUserText(text string) *Message {
	return &Message{Sender: SenderUser, Kind: KindText, Text: text}
}

// NewAgentText creates an agent text message.
func NewAgentText(text string) *Message {
	return &Message{Sender: SenderAgent, Kind: KindText, Text: text}
}

// NewChart creates an agent chart message whose image is still loading.
func NewChart(caption, imageRef string) *Message {
	return &Message{
		Sender:   SenderAgent,
		Kind:     KindChart,
		Caption:  caption,
		ImageRef: imageRef,
		Load:     LoadLoading,
	}
}

// NewPending creates an agent placeholder shown while an exchange is in flight.
func NewPending() *Message {
	return &Message{Sender: SenderAgent, Kind: KindPending}
}

// IsPending reports whether the message is a placeholder.
func (m *Message) IsPending() bool {
	return m.Kind == KindPending
}

// IsChart reports whether the message carries an image reference.
func (m *Message) IsChart() bool {
	return m.Kind == KindChart
}

// DisplayText returns the primary text shown for the message.
func (m *Message) DisplayText() string {
	switch m.Kind {
	case KindChart:
		return m.Caption
	case KindPending:
		return PendingText
	default:
		return m.Text
	}
}

// StatusText returns the chart status line, or "" when nothing should show.
func (m *Message) StatusText() string {
	if m.Kind != KindChart {
		return ""
	}
	switch m.Load {
	case LoadLoading:
		return ChartLoadingText
	case LoadFailed:
		return ChartFailedText
	default:
		return ""
	}
}

// Preview returns a single-line truncated version of the display text.
func (m *Message) Preview(maxWidth int) string {
	text := m.DisplayText()
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	return util.TruncateWidth(text, maxWidth)
}
