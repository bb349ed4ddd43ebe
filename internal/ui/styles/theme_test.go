// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	theme := NewTheme()
	defer lipgloss.SetHasDarkBackground(true)

	theme.Apply(true)
	assert.False(t, theme.IsDark)
	assert.False(t, lipgloss.HasDarkBackground())
	assert.Equal(t, "light", theme.GlamourStyle())
	assert.Equal(t, "github", theme.ChromaStyle())

	theme.Apply(false)
	assert.True(t, theme.IsDark)
	assert.True(t, lipgloss.HasDarkBackground())
	assert.Equal(t, "dark", theme.GlamourStyle())
	assert.Equal(t, "monokai", theme.ChromaStyle())
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(100, 40)
	assert.Equal(t, 75, theme.BubbleWidth())

	theme.SetSize(20, 10)
	assert.Equal(t, 18, theme.BubbleWidth())

	theme.SetSize(4, 4)
	assert.Equal(t, 10, theme.BubbleWidth())
}

func TestRenderStatus(t *testing.T) {
	assert.True(t, strings.Contains(RenderStatus(true, "up"), StatusIndicators.Success))
	assert.True(t, strings.Contains(RenderStatus(false, "down"), StatusIndicators.Error))
	assert.Contains(t, RenderWarning("careful"), "careful")
}
