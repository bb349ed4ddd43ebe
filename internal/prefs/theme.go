// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prefs

import (
	"log/slog"

	"github.com/jeranaias/datachat-tui/internal/logger"
)

// ThemeKey is the store key holding the display mode.
const ThemeKey = "theme"

// Theme is the display mode.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemePreference owns the current display mode and its persisted value.
type ThemePreference struct {
	store   Store
	apply   func(Theme)
	current Theme
	log     *slog.Logger
}

// NewThemePreference creates a preference in dark mode. apply is invoked
// whenever the mode is switched; it may be nil.
func NewThemePreference(store Store, apply func(Theme)) *ThemePreference {
	if apply == nil {
		apply = func(Theme) {}
	}
	return &ThemePreference{
		store:   store,
		apply:   apply,
		current: ThemeDark,
		log:     logger.ComponentLogger("prefs"),
	}
}

// Init reads the persisted mode once. Only the value "light" switches away
// from the dark default, and the store is never written here.
func (p *ThemePreference) Init() error {
	value, ok, err := p.store.Get(ThemeKey)
	if err != nil {
		p.log.Warn("failed to read theme, using dark", "error", err)
		return err
	}
	if ok && value == string(ThemeLight) {
		p.current = ThemeLight
		p.apply(ThemeLight)
	}
	p.log.Debug("theme initialized", "theme", p.current, "stored", ok)
	return nil
}

// Toggle applies light or dark mode and writes it back synchronously.
func (p *ThemePreference) Toggle(isLight bool) error {
	next := ThemeDark
	if isLight {
		next = ThemeLight
	}
	p.current = next
	p.apply(next)

	if err := p.store.Set(ThemeKey, string(next)); err != nil {
		p.log.Error("failed to persist theme", "theme", next, "error", err)
		return err
	}
	p.log.Info("theme changed", "theme", next)
	return nil
}

// Current returns the active mode.
func (p *ThemePreference) Current() Theme {
	return p.current
}

// IsLight reports whether light mode is active.
func (p *ThemePreference) IsLight() bool {
	return p.current == ThemeLight
}
