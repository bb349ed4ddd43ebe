// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/datachat-tui/internal/ui/styles"
	"github.com/jeranaias/datachat-tui/internal/util"
)

// SidebarPanel is the expanded side panel.
type SidebarPanel struct {
	FileLabel string
	HasFile   bool
	Light     bool
	Watching  bool
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewSidebarPanel creates a panel.
func NewSidebarPanel(theme *styles.Theme) *SidebarPanel {
	return &SidebarPanel{theme: theme}
}

// View renders the panel into width x height cells.
func (p *SidebarPanel) View(width, height int) string {
	inner := max(8, width-4)
	var b strings.Builder

	b.WriteString(p.theme.SidebarTitle.Render("Data file"))
	b.WriteString("\n")
	if p.HasFile {
		b.WriteString(p.theme.StagingSelected.Width(inner).Render(p.FileLabel))
		if p.Watching {
			b.WriteString("\n" + p.theme.Muted.Render("watching for changes"))
		}
	} else {
		b.WriteString(p.theme.StagingEmpty.Width(inner).Render(p.FileLabel))
	}
	b.WriteString("\n\n")

	mode := "dark"
	if p.Light {
		mode = "light"
	}
	b.WriteString(p.theme.SidebarTitle.Render("Theme"))
	b.WriteString("\n")
	b.WriteString(p.theme.SidebarDesc.Render(mode))
	b.WriteString("\n\n")

	b.WriteString(p.theme.SidebarTitle.Render("Keys"))
	for _, sc := range p.Shortcuts {
		key := p.theme.SidebarKey.Render(util.PadRight(sc.Key, 7))
		b.WriteString("\n" + key + p.theme.SidebarDesc.Render(util.TruncateWidth(sc.Desc, max(1, inner-7))))
	}

	return p.theme.Sidebar.
		Width(width - 1).
		Height(max(1, height)).
		MaxHeight(height).
		Render(lipgloss.NewStyle().MaxWidth(inner).Render(b.String()))
}
