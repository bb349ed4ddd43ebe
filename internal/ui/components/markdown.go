// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders agent replies with glamour. The renderer is rebuilt only
// when the style or wrap width changes.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	failed   bool
}

// NewMarkdown creates a renderer for a glamour standard style ("dark" or
// "light") wrapping at width.
func NewMarkdown(style string, width int) *Markdown {
	m := &Markdown{}
	m.Configure(style, width)
	return m
}

// Configure updates style and width.
func (m *Markdown) Configure(style string, width int) {
	if width < 20 {
		width = 20
	}
	if style == m.style && width == m.width && (m.renderer != nil || m.failed) {
		return
	}
	m.style = style
	m.width = width

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		m.failed = true
		return
	}
	m.renderer = r
	m.failed = false
}

// Render returns styled text, or the input unchanged if rendering fails.
func (m *Markdown) Render(text string) string {
	if m.renderer == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
