// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sidebar is the collapsed/expanded layout state of the side panel.
//
// The panel collapses on its own when the viewport shrinks to the
// breakpoint or below. Growing past the breakpoint again leaves it as it
// is; only a manual toggle expands it.
package sidebar

// DefaultBreakpoint is the width, in layout units, at or below which the
// panel is collapsed.
const DefaultBreakpoint = 768

// Indicator is the open/close affordance shown next to the panel.
type Indicator struct {
	Icon  string
	Label string
}

var (
	// MenuIndicator is shown while collapsed.
	MenuIndicator = Indicator{Icon: "☰", Label: "Open menu"}
	// CloseIndicator is shown while expanded.
	CloseIndicator = Indicator{Icon: "✕", Label: "Close menu"}
)

// State is the panel layout.
type State struct {
	Collapsed  bool
	Width      int
	Breakpoint int
}

// New returns the initial state for a viewport width. A breakpoint of 0
// selects DefaultBreakpoint.
func New(width, breakpoint int) State {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return State{
		Collapsed:  width <= breakpoint,
		Width:      width,
		Breakpoint: breakpoint,
	}
}

// Indicator returns the affordance matching the current layout.
func (s State) Indicator() Indicator {
	if s.Collapsed {
		return MenuIndicator
	}
	return CloseIndicator
}

// Event is an input to Transition.
type Event interface {
	event()
}

// Toggle flips the panel.
type Toggle struct{}

// Resize reports a new viewport width in layout units.
type Resize struct {
	Width int
}

func (Toggle) event() {}
func (Resize) event() {}

// UpdateAffordance tells the caller to redraw the indicator.
type UpdateAffordance struct {
	Indicator Indicator
}

// Transition returns the state after ev and any affordance update.
func Transition(s State, ev Event) (State, []UpdateAffordance) {
	switch e := ev.(type) {
	case Toggle:
		s.Collapsed = !s.Collapsed
		return s, []UpdateAffordance{{Indicator: s.Indicator()}}

	case Resize:
		s.Width = e.Width
		if e.Width <= s.Breakpoint && !s.Collapsed {
			s.Collapsed = true
			return s, []UpdateAffordance{{Indicator: s.Indicator()}}
		}
		return s, nil
	}
	return s, nil
}
