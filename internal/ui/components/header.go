// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/ui/sidebar"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
	"github.com/jeranaias/datachat-tui/internal/util"
)

// Title is the application title shown in the header.
const Title = "📊 Data Analysis Chat"

// Header is the single-line top bar.
type Header struct {
	Width     int
	Indicator sidebar.Indicator
	Connected bool
	BaseURL   string
	theme     *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, Indicator: sidebar.MenuIndicator, Connected: true, theme: theme}
}

// IndicatorWidth is the number of columns, from the left edge, that act as
// the sidebar toggle.
func (h *Header) IndicatorWidth() int {
	return lipgloss.Width(h.renderIndicator())
}

func (h *Header) renderIndicator() string {
	return h.theme.MenuIndicator.Render(h.Indicator.Icon)
}

// View renders the header.
func (h *Header) View() string {
	left := h.renderIndicator() + h.theme.HeaderTitle.Render(Title)

	var right string
	if h.Connected {
		right = h.theme.HeaderOnline.Render(styles.StatusIndicators.Online + " " + h.BaseURL)
	} else {
		right = h.theme.HeaderOffline.Render(styles.StatusIndicators.Offline + " offline")
	}

	inner := h.Width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = util.TruncateWidth(h.BaseURL, max(0, inner-lipgloss.Width(left)-4))
		gap = max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width).MaxHeight(1).Render(line)
}
