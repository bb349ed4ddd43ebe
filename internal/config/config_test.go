// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATACHAT_URL", "DATACHAT_PREFS", "DATACHAT_LOG", "DATACHAT_DEBUG"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, "/chat/", cfg.Server.ChatPath)
	assert.Equal(t, 768, cfg.UI.BreakpointUnits)
	assert.Equal(t, 8, cfg.UI.CellWidthUnits)
	assert.True(t, cfg.UI.Mouse)
	assert.Equal(t, "prefs.db", filepath.Base(cfg.Storage.PrefsPath))
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8000/chat/", cfg.ChatURL())
	assert.Equal(t, "http://localhost:8000/", cfg.ProbeURL())
	assert.Equal(t, 30*time.Second, cfg.ImageTimeout())
	assert.Equal(t, int64(200<<20), cfg.MaxUploadBytes())
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://host" }, "server.base_url"},
		{"missing host", func(c *Config) { c.Server.BaseURL = "http://" }, "server.base_url"},
		{"chat path without slash", func(c *Config) { c.Server.ChatPath = "chat/" }, "server.chat_path"},
		{"zero image timeout", func(c *Config) { c.Server.ImageTimeoutSecs = 0 }, "server.image_timeout_secs"},
		{"negative upload", func(c *Config) { c.Server.MaxUploadMB = -1 }, "server.max_upload_mb"},
		{"zero cell width", func(c *Config) { c.UI.CellWidthUnits = 0 }, "ui.cell_width_units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "want ValidateErrors, got %v", err)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_TOMLOverlay(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", `
[server]
base_url = "analysis.internal:9000/"

[ui]
breakpoint_units = 640
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Migrated
	assert.Equal(t, "http://analysis.internal:9000", cfg.Server.BaseURL)
	assert.Equal(t, 640, cfg.UI.BreakpointUnits)
	// Untouched keys keep defaults
	assert.Equal(t, "/chat/", cfg.Server.ChatPath)
	assert.Equal(t, 8, cfg.UI.CellWidthUnits)
}

func TestLoad_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "[server]\nbase_uri = \"http://x\"\n")

	_, err := Load(path)
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs[0].Field, "base_uri")
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATACHAT_URL", "https://analysis.example.com")
	t.Setenv("DATACHAT_DEBUG", "true")
	t.Setenv("DATACHAT_PREFS", "/tmp/p.db")

	cfg, err := Load(writeFile(t, t.TempDir(), "config.toml", ""))
	require.NoError(t, err)

	assert.Equal(t, "https://analysis.example.com", cfg.Server.BaseURL)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "/tmp/p.db", cfg.Storage.PrefsPath)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	// Missing file is fine
	require.NoError(t, LoadDotEnv(dir))

	writeFile(t, dir, ".env", "DATACHAT_URL=http://from-dotenv:8000\n")
	os.Unsetenv("DATACHAT_URL")
	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "http://from-dotenv:8000", os.Getenv("DATACHAT_URL"))
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://10.0.0.5:8000"
	cfg.UI.Mouse = false
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.BaseURL, loaded.Server.BaseURL)
	assert.False(t, loaded.UI.Mouse)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("server.base_url", "http://other:1"))
	require.NoError(t, cfg.Set("ui.breakpoint_units", "500"))
	require.NoError(t, cfg.Set("ui.mouse", "false"))

	v, err := cfg.Get("server.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", v)
	assert.Equal(t, 500, cfg.UI.BreakpointUnits)
	assert.False(t, cfg.UI.Mouse)

	_, err = cfg.Get("server.nope")
	assert.Error(t, err)
	_, err = cfg.Get("server")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("ui.breakpoint_units", "wide"))
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "server.base_url")
	assert.Contains(t, keys, "ui.cell_width_units")
	assert.Contains(t, keys, "log.debug")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}
