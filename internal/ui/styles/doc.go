// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles holds the color palette and lipgloss styles of the datachat UI.

Every color is a lipgloss.AdaptiveColor. Which half is used is decided by the
renderer's dark-background flag, which Theme.Apply sets from the user's
theme preference rather than from terminal detection. Styles built once keep
working after a switch because adaptive colors resolve at render time.

	theme := styles.NewTheme()
	theme.Apply(true) // light
	fmt.Println(theme.UserBubble.Render("hi"))

Glamour and chroma renderers follow the same switch through GlamourStyle and
ChromaStyle.
*/
package styles
