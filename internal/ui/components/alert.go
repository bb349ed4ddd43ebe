// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

// Alert is a blocking notice. While visible, the chat accepts no other
// input until it is acknowledged.
type Alert struct {
	title   string
	text    string
	visible bool
}

// Show raises the alert.
func (a *Alert) Show(title, text string) {
	a.title = title
	a.text = text
	a.visible = true
}

// Dismiss acknowledges the alert.
func (a *Alert) Dismiss() {
	a.visible = false
}

// Visible reports whether the alert awaits acknowledgement.
func (a *Alert) Visible() bool {
	return a.visible
}

// Text is the alert body.
func (a *Alert) Text() string {
	return a.text
}

// View renders the alert centered in a width x height area.
func (a *Alert) View(theme *styles.Theme, width, height int) string {
	if !a.visible {
		return ""
	}
	inner := 44
	if width > 0 && width-8 < inner {
		inner = width - 8
	}
	if inner < 16 {
		inner = 16
	}

	title := theme.AlertTitle.Render(styles.StatusIndicators.Warning + " " + a.title)
	body := lipgloss.NewStyle().Width(inner).Render(a.text)
	ok := lipgloss.PlaceHorizontal(inner, lipgloss.Center, theme.AlertOK.Render("OK"))
	hint := lipgloss.PlaceHorizontal(inner, lipgloss.Center, theme.Muted.Render("enter or esc to continue"))

	box := theme.AlertBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", ok, hint))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
