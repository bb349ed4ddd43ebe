// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/staging"
)

// ExchangeResultMsg delivers the outcome of a chat exchange.
type ExchangeResultMsg struct {
	PlaceholderID string
	Reply         *analysis.Reply
	Err           error
}

// ProbeResultMsg delivers the startup liveness probe result.
type ProbeResultMsg struct {
	Err error
}

// ChartLoadedMsg delivers a chart image load.
type ChartLoadedMsg struct {
	MessageID string
	Chart     *analysis.Chart
	Err       error
}

// StageFileMsg asks the model to stage a file from disk.
type StageFileMsg struct {
	Path string
}

// FileChangedMsg reports that the staged file changed on disk.
type FileChangedMsg struct {
	Change  staging.FileChange
	watcher *staging.Watcher
}

// watcherClosedMsg ends the wait loop of a closed watcher.
type watcherClosedMsg struct{}

// ClipboardResultMsg reports a clipboard copy.
type ClipboardResultMsg struct {
	Text string
	Err  error
}
