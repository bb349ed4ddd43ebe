// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prefs persists user preferences across sessions.
//
// Preferences live in a small key-value Store. SQLiteStore keeps them in a
// single table under ~/.datachat; MemoryStore backs tests and --plain runs
// that should not touch disk.
//
// # Usage
//
//	store, err := prefs.OpenSQLite(cfg.Storage.PrefsPath)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	theme := prefs.NewThemePreference(store, styles.Apply)
//	theme.Init()
//	theme.Toggle(true) // writes "light" immediately
package prefs
