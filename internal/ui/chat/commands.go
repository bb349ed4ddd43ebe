// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/session"
	"github.com/jeranaias/datachat-tui/internal/staging"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// exchangeCmd posts one exchange. It has no timeout; the exchange ends when
// the service answers or the connection fails.
func exchangeCmd(client *analysis.Client, ex session.Exchange) tea.Cmd {
	return func() tea.Msg {
		reply, err := session.Perform(context.Background(), client, ex)
		return ExchangeResultMsg{PlaceholderID: ex.PlaceholderID, Reply: reply, Err: err}
	}
}

// probeCmd checks that the analysis service is up.
func probeCmd(client *analysis.Client) tea.Cmd {
	return func() tea.Msg {
		return ProbeResultMsg{Err: client.Probe(context.Background())}
	}
}

// loadChartCmd downloads and decodes a chart image.
func loadChartCmd(client *analysis.Client, messageID, ref string) tea.Cmd {
	return func() tea.Msg {
		chart, err := client.FetchImage(context.Background(), ref)
		return ChartLoadedMsg{MessageID: messageID, Chart: chart, Err: err}
	}
}

// waitForChangeCmd blocks until the watcher reports a change or closes.
func waitForChangeCmd(w *staging.Watcher) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return watcherClosedMsg{}
		}
		return FileChangedMsg{Change: change, watcher: w}
	}
}

// copyCmd copies text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Text: text, Err: clipboard.WriteAll(text)}
	}
}

// stageCmd asks the model to stage path.
func stageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return StageFileMsg{Path: path}
	}
}
