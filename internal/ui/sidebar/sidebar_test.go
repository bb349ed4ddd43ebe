// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		width      int
		breakpoint int
		want       bool
	}{
		{1280, 0, false},
		{769, 768, false},
		{768, 768, true},
		{320, 768, true},
		{700, 640, false},
	}
	for _, tt := range tests {
		s := New(tt.width, tt.breakpoint)
		assert.Equal(t, tt.want, s.Collapsed, "width %d breakpoint %d", tt.width, tt.breakpoint)
	}
	assert.Equal(t, DefaultBreakpoint, New(100, 0).Breakpoint)
}

func TestToggle_UpdatesAffordance(t *testing.T) {
	s := New(1280, 0)
	assert.Equal(t, CloseIndicator, s.Indicator())

	s, effects := Transition(s, Toggle{})
	assert.True(t, s.Collapsed)
	require.Len(t, effects, 1)
	assert.Equal(t, MenuIndicator, effects[0].Indicator)
	assert.Equal(t, "Open menu", effects[0].Indicator.Label)

	s, effects = Transition(s, Toggle{})
	assert.False(t, s.Collapsed)
	assert.Equal(t, "Close menu", effects[0].Indicator.Label)
}

func TestResize_ForceCollapses(t *testing.T) {
	s := New(320, 0)
	// Manual expand on a narrow viewport
	s, _ = Transition(s, Toggle{})
	require.False(t, s.Collapsed)

	s, effects := Transition(s, Resize{Width: 600})
	assert.True(t, s.Collapsed)
	require.Len(t, effects, 1)
	assert.Equal(t, MenuIndicator, effects[0].Indicator)
}

func TestResize_NeverAutoExpands(t *testing.T) {
	s := New(600, 0)
	require.True(t, s.Collapsed)

	s, effects := Transition(s, Resize{Width: 1920})
	assert.True(t, s.Collapsed)
	assert.Empty(t, effects)
	assert.Equal(t, 1920, s.Width)
}

func TestResize_AlreadyCollapsedIsQuiet(t *testing.T) {
	s := New(600, 0)
	s, effects := Transition(s, Resize{Width: 500})
	assert.True(t, s.Collapsed)
	assert.Empty(t, effects)
}

func TestResize_WideKeepsManualChoice(t *testing.T) {
	s := New(1280, 0)
	s, _ = Transition(s, Toggle{})
	require.True(t, s.Collapsed)

	s, _ = Transition(s, Resize{Width: 1400})
	assert.True(t, s.Collapsed)
}
