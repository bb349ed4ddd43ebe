// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENTS
// =============================================================================

// Indigo is the brand accent: header title, prompt, selections.
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#A5B4FC"}

// IndigoDeep is used for filled accent backgrounds.
var IndigoDeep = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#312E81"}

// Teal marks charts and data.
var Teal = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"}

// Green marks success and an online service.
var Green = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// Red marks errors and an unreachable service.
var Red = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// Amber marks warnings and pending work.
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// =============================================================================
// SURFACES
// =============================================================================

// Surface is the main background.
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}

// SurfaceDim backs the header, sidebar and status bar.
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}

// Overlay backs popups and the chart modal.
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}

// Border is the default frame color.
var Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// =============================================================================
// TEXT
// =============================================================================

var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#D1D5DB"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}
)

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

// User messages sit on the right, agent messages on the left.
var (
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#3730A3"}
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#1E1B4B", Dark: "#EEF2FF"}
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#6366F1", Dark: "#818CF8"}

	AgentBubbleBg     = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#1F2937"}
	AgentBubbleFg     = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	AgentBubbleBorder = lipgloss.AdaptiveColor{Light: "#99F6E4", Dark: "#14B8A6"}

	ErrorBubbleBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#450A0A"}
	ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}
)

// SelectionBg highlights the selected chart.
var SelectionBg = lipgloss.AdaptiveColor{Light: "#C7D2FE", Dark: "#1E1B4B"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet pairs each state with a shape so status never relies on
// color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Pending string
	Online  string
	Offline string
}

// StatusIndicators are the ASCII indicators used across the UI.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Pending: "[ ]",
	Online:  "(+)",
	Offline: "(-)",
}

// RenderSuccess renders a message with the success indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Green).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders a message with the error indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Red).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a message with the warning indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderStatus picks RenderSuccess or RenderError.
func RenderStatus(ok bool, message string) string {
	if ok {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
