// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the datachat TUI.

Components render state they are handed; none of them own conversation or
session state.

# Layout

	Header        title, sidebar indicator, service status
	Sidebar       staged file, theme, shortcuts
	ChatViewport  scrollable conversation with scroll lock for overlays
	StatusBar     pending spinner, staged file, key hints

# Messages

RenderMessage draws one conversation entry. Agent text goes through Markdown
(glamour); error texts are shown verbatim in an error bubble. Charts show
their caption, reference and load state.

# Overlays

	Alert         blocking notice that must be acknowledged
	ToastManager  non-blocking, auto-dismissing notices
	RenderChartPreview  half-block rendering of a decoded chart image
	RenderInspector     raw reply with chroma-highlighted JSON
*/
package components
