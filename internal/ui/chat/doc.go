// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea front end of datachat.
//
// The Model owns no conversation state of its own. It forwards user input to
// the session, modal and sidebar transitions and carries out the effects they
// return: raising notices, clearing the input, running exchanges and chart
// loads as tea.Cmds, and locking the conversation while the chart overlay is
// open.
//
// # Layout
//
//	+------------------------------------------+
//	| ☰ 📊 Data Analysis Chat      (+) base URL |  header
//	+---------+--------------------------------+
//	| sidebar |  conversation viewport         |
//	|         |                                |
//	+---------+--------------------------------+
//	| > question input                          |
//	| activity / staged file        key hints   |  status bar
//	+------------------------------------------+
//
// The sidebar, chart modal, inspector, file picker, help and blocking alerts
// are drawn over this layout.
package chat
