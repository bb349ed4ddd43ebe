// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/ui/styles"
	"github.com/jeranaias/datachat-tui/internal/util"
)

// Shortcut is a key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: activity on the left, hints on the right.
type StatusBar struct {
	Width     int
	Activity  string
	FileLabel string
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar, dropping hints from the right until it fits.
func (s *StatusBar) View() string {
	left := s.Activity
	if left == "" {
		left = s.theme.Muted.Render(s.FileLabel)
	}

	inner := s.Width - 2
	hints := s.renderShortcuts(len(s.Shortcuts))
	n := len(s.Shortcuts)
	for n > 0 && lipgloss.Width(left)+lipgloss.Width(hints)+1 > inner {
		n--
		hints = s.renderShortcuts(n)
	}
	if lipgloss.Width(left) > inner {
		left = util.TruncateWidth(s.FileLabel, inner)
	}

	gap := max(1, inner-lipgloss.Width(left)-lipgloss.Width(hints))
	line := left + strings.Repeat(" ", gap) + hints
	return s.theme.StatusBar.Width(s.Width).MaxHeight(1).Render(line)
}

func (s *StatusBar) renderShortcuts(n int) string {
	parts := make([]string, 0, n)
	for _, sc := range s.Shortcuts[:n] {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
