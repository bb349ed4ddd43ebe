// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package modal is the open/closed state of the enlarged chart overlay.
//
// Transition is pure: it never touches the terminal. The effects it returns
// tell the caller to lock or unlock scrolling of the conversation behind the
// overlay.
package modal

// State is either closed or open on one image reference.
type State struct {
	open bool
	ref  string
}

// Closed is the initial state.
var Closed = State{}

// IsOpen reports whether the overlay is shown.
func (s State) IsOpen() bool {
	return s.open
}

// Ref returns the image reference shown while open.
func (s State) Ref() string {
	return s.ref
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is an input to Transition.
type Event interface {
	event()
}

// Open shows the overlay for a chart.
type Open struct {
	Ref string
}

// CloseControl is the explicit close control.
type CloseControl struct{}

// Pointer is a click while the overlay is shown. OnBackdrop is true when
// the click landed outside the image content.
type Pointer struct {
	OnBackdrop bool
}

// Key is a key press while the overlay is shown.
type Key struct {
	Name string
}

func (Open) event()         {}
func (CloseControl) event() {}
func (Pointer) event()      {}
func (Key) event()          {}

// =============================================================================
// EFFECTS
// =============================================================================

// Effect is work for the caller.
type Effect int

const (
	// LockScroll stops the conversation behind the overlay from scrolling.
	LockScroll Effect = iota
	// UnlockScroll restores scrolling.
	UnlockScroll
)

func (e Effect) String() string {
	if e == LockScroll {
		return "lock-scroll"
	}
	return "unlock-scroll"
}

// =============================================================================
// TRANSITION
// =============================================================================

// Transition returns the state after ev and the effects to apply.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Open:
		if e.Ref == "" {
			return s, nil
		}
		if s.open {
			// Already locked; only the image changes.
			return State{open: true, ref: e.Ref}, nil
		}
		return State{open: true, ref: e.Ref}, []Effect{LockScroll}

	case CloseControl:
		return closeModal(s)

	case Pointer:
		if !e.OnBackdrop {
			return s, nil
		}
		return closeModal(s)

	case Key:
		if e.Name != "esc" {
			return s, nil
		}
		return closeModal(s)
	}
	return s, nil
}

func closeModal(s State) (State, []Effect) {
	if !s.open {
		return s, nil
	}
	return Closed, []Effect{UnlockScroll}
}
