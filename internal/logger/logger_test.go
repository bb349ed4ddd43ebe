// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "logs", "datachat.log")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_CreatesDirectory(t *testing.T) {
	path := setupTestLogger(t)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}
}

func TestComponentLogger_Attribute(t *testing.T) {
	path := setupTestLogger(t)

	ComponentLogger("session").Info("submit accepted", "messageID", "msg-3")

	content := readLog(t, path)
	if !strings.Contains(content, "component=session") {
		t.Errorf("missing component attribute: %s", content)
	}
	if !strings.Contains(content, "messageID=msg-3") {
		t.Errorf("missing messageID attribute: %s", content)
	}
}

func TestWithSession_Attribute(t *testing.T) {
	path := setupTestLogger(t)

	WithSession("abc-123").Warn("connection lost")

	if content := readLog(t, path); !strings.Contains(content, "sessionID=abc-123") {
		t.Errorf("missing sessionID attribute: %s", content)
	}
}

func TestSetDebug(t *testing.T) {
	path := setupTestLogger(t)
	log := ComponentLogger("test")

	log.Debug("hidden-debug-line")
	SetDebug(true)
	log.Debug("visible-debug-line")
	SetDebug(false)

	content := readLog(t, path)
	if strings.Contains(content, "hidden-debug-line") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(content, "visible-debug-line") {
		t.Error("debug line missing at debug level")
	}
}

func TestComponentLogger_WithoutInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// Must not panic and must not create any file.
	ComponentLogger("test").Info("discarded")
	if Path() != "" {
		t.Errorf("Path() = %q, want empty", Path())
	}
}
