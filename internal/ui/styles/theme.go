// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// IsDark is the active palette half. It starts from terminal detection
	// and follows Apply afterwards.
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	App lipgloss.Style

	// Header
	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderOnline  lipgloss.Style
	HeaderOffline lipgloss.Style
	MenuIndicator lipgloss.Style

	// Sidebar
	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarKey      lipgloss.Style
	SidebarDesc     lipgloss.Style
	StagingEmpty    lipgloss.Style
	StagingSelected lipgloss.Style

	// Messages
	UserBubble   lipgloss.Style
	AgentBubble  lipgloss.Style
	ErrorBubble  lipgloss.Style
	SenderLabel  lipgloss.Style
	Timestamp    lipgloss.Style
	PendingText  lipgloss.Style
	ChartCaption lipgloss.Style
	ChartStatus  lipgloss.Style
	ChartFailed  lipgloss.Style
	ChartFrame   lipgloss.Style
	Selected     lipgloss.Style

	// Input
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Overlays
	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
	ModalHint  lipgloss.Style
	AlertBox   lipgloss.Style
	AlertTitle lipgloss.Style
	AlertOK    lipgloss.Style
	Inspector  lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	Muted lipgloss.Style
}

// NewTheme creates a theme using the terminal's detected background.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// Apply switches the palette. The switch is global to the lipgloss default
// renderer, so every adaptive color in the process follows it.
func (t *Theme) Apply(light bool) {
	t.IsDark = !light
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
}

// GlamourStyle is the glamour standard style matching the palette.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle is the chroma style used for the JSON inspector.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth is the widest a message bubble may be for the current width.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 3 / 4
	if w < 20 {
		w = t.Width - 2
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(TextPrimary)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.HeaderOnline = lipgloss.NewStyle().Foreground(Green)
	t.HeaderOffline = lipgloss.NewStyle().Foreground(Red).Bold(true)
	t.MenuIndicator = lipgloss.NewStyle().Foreground(Indigo).Bold(true).Padding(0, 1)

	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border).
		Padding(1, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo).MarginBottom(1)
	t.SidebarKey = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.SidebarDesc = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StagingEmpty = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.StagingSelected = lipgloss.NewStyle().Foreground(Green).Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AgentBubble = lipgloss.NewStyle().
		Foreground(AgentBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AgentBubbleBorder).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Red).
		PaddingLeft(1)
	t.SenderLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.PendingText = lipgloss.NewStyle().Foreground(Amber).Italic(true)
	t.ChartCaption = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.ChartStatus = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.ChartFailed = lipgloss.NewStyle().Foreground(Red)
	t.ChartFrame = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal)
	t.Selected = lipgloss.NewStyle().Background(SelectionBg)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.ModalBox = lipgloss.NewStyle().
		Background(Overlay).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Teal).
		Padding(0, 1)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.ModalHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 2)
	t.AlertTitle = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	t.AlertOK = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true).
		Padding(0, 2)
	t.Inspector = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)

	t.ToastInfo = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)
	t.ToastWarning = t.ToastInfo.BorderForeground(Amber)
	t.ToastError = t.ToastInfo.BorderForeground(Red)

	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}
