// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func openState() State {
	s, _ := Transition(Closed, Open{Ref: "/charts/1.png"})
	return s
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name        string
		from        State
		event       Event
		wantOpen    bool
		wantRef     string
		wantEffects []Effect
	}{
		{"open from closed", Closed, Open{Ref: "/charts/1.png"}, true, "/charts/1.png", []Effect{LockScroll}},
		{"open with empty ref", Closed, Open{}, false, "", nil},
		{"reopen swaps image", openState(), Open{Ref: "/charts/2.png"}, true, "/charts/2.png", nil},
		{"close control", openState(), CloseControl{}, false, "", []Effect{UnlockScroll}},
		{"backdrop click", openState(), Pointer{OnBackdrop: true}, false, "", []Effect{UnlockScroll}},
		{"content click ignored", openState(), Pointer{OnBackdrop: false}, true, "/charts/1.png", nil},
		{"escape", openState(), Key{Name: "esc"}, false, "", []Effect{UnlockScroll}},
		{"other key ignored", openState(), Key{Name: "q"}, true, "/charts/1.png", nil},
		{"close when closed", Closed, CloseControl{}, false, "", nil},
		{"backdrop when closed", Closed, Pointer{OnBackdrop: true}, false, "", nil},
		{"escape when closed", Closed, Key{Name: "esc"}, false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effects := Transition(tt.from, tt.event)
			assert.Equal(t, tt.wantOpen, got.IsOpen())
			assert.Equal(t, tt.wantRef, got.Ref())
			assert.Equal(t, tt.wantEffects, effects)
		})
	}
}

func TestTransition_CloseIsIdempotent(t *testing.T) {
	s := openState()
	s, first := Transition(s, Key{Name: "esc"})
	s2, second := Transition(s, Key{Name: "esc"})

	assert.Equal(t, []Effect{UnlockScroll}, first)
	assert.Empty(t, second)
	assert.Equal(t, s, s2)
	assert.Equal(t, Closed, s2)
}
