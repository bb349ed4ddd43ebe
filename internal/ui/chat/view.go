// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/datachat-tui/internal/ui/components"
	"github.com/jeranaias/datachat-tui/internal/util"
)

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch {
	case m.alert.Visible():
		return m.alert.View(m.theme, m.width, m.height)
	case m.modal.IsOpen():
		return m.renderModal()
	case m.inspectorOpen:
		reply, _ := m.sess.LastReply()
		return components.RenderInspector(m.theme, reply, m.width, m.height)
	case m.showHelp:
		return m.renderHelp()
	case m.pickerOpen:
		return m.renderPicker()
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.renderBody(),
		m.renderInput(),
		m.status.View(),
	)
	return m.overlayToasts(base)
}

func (m Model) renderBody() string {
	chat := m.viewport.View()
	sw := m.sidebarWidth()
	if sw == 0 {
		return chat
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.panel.View(sw, m.bodyHeight()), chat)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

// overlayToasts draws the toast stack over the bottom-right corner of base,
// just above the input.
func (m Model) overlayToasts(base string) string {
	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return base
	}
	stack := components.RenderToastStack(m.theme, toasts, m.width, 0)
	boxLines := strings.Split(stack, "\n")
	lines := strings.Split(base, "\n")

	bottom := len(lines) - inputHeight - statusHeight
	top := bottom - len(boxLines)
	if top < headerHeight {
		boxLines = boxLines[headerHeight-top:]
		top = headerHeight
	}
	for i, bl := range boxLines {
		row := top + i
		if row < 0 || row >= len(lines) {
			continue
		}
		bw := lipgloss.Width(bl)
		keep := max(0, m.width-bw-1)
		left := ansi.Truncate(lines[row], keep, "")
		if pad := keep - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		lines[row] = left + bl
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// MODAL
// =============================================================================

// rect is a screen region in cells.
type rect struct {
	left, top, width, height int
}

// modalRect is where the chart modal is drawn in a width x height screen.
func modalRect(width, height int) rect {
	w := min(width-4, 100)
	h := min(height-2, 40)
	w = max(w, 12)
	h = max(h, 6)
	return rect{
		left:   max(0, (width-w)/2),
		top:    max(0, (height-h)/2),
		width:  w,
		height: h,
	}
}

func (r rect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.width && y >= r.top && y < r.top+r.height
}

// onClose reports whether (x, y) is on the "[x]" control at the right end
// of the title row.
func (r rect) onClose(x, y int) bool {
	return y == r.top+1 && x >= r.left+r.width-5 && x < r.left+r.width-2
}

func (m Model) renderModal() string {
	r := modalRect(m.width, m.height)
	inner := r.width - 4 // border and padding
	innerRows := r.height - 2

	msg, _ := m.sess.Conversation().Get(m.modalID)
	caption := msg.Caption
	if caption == "" {
		caption = "Chart"
	}

	title := m.theme.ModalTitle.Render(util.TruncateWidth("📊 "+caption, inner-4))
	closeCtl := m.theme.ModalTitle.Render("[x]")
	gap := max(1, inner-lipgloss.Width(title)-lipgloss.Width(closeCtl))
	titleRow := title + strings.Repeat(" ", gap) + closeCtl

	ref := m.theme.Muted.Render(util.TruncateWidth(m.modal.Ref(), inner))
	hint := m.theme.ModalHint.Render("esc to close · y to copy link")

	previewRows := max(1, innerRows-5)
	var preview string
	if chart, ok := m.charts[m.modalID]; ok && chart.Image != nil {
		preview = components.RenderChartPreview(chart.Image, inner, previewRows)
	} else if status := msg.StatusText(); status != "" {
		preview = m.theme.ChartStatus.Render(status)
	} else {
		preview = m.theme.ChartStatus.Render("Preview unavailable")
	}
	preview = lipgloss.Place(inner, previewRows, lipgloss.Center, lipgloss.Center, preview)

	body := lipgloss.JoinVertical(lipgloss.Left, titleRow, "", preview, ref, hint)
	box := m.theme.ModalBox.
		Width(r.width - 2).
		Height(innerRows).
		MaxHeight(r.height).
		Render(body)

	return lipgloss.NewStyle().MarginLeft(r.left).MarginTop(r.top).Render(box)
}

// =============================================================================
// HELP & PICKER
// =============================================================================

func (m Model) renderHelp() string {
	title := m.theme.ModalTitle.Render("Keys")
	body := m.help.FullHelpView(m.keys.FullHelp())
	hint := m.theme.ModalHint.Render("esc to close")
	box := m.theme.Inspector.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderPicker() string {
	inner := max(20, min(m.width-6, 80))
	title := m.theme.ModalTitle.Render("Select a CSV or ZIP file")
	dir := m.theme.Muted.Render(util.TruncateWidth(m.picker.CurrentDirectory, inner))
	hint := m.theme.ModalHint.Render("enter to select · esc to cancel")
	body := lipgloss.JoinVertical(lipgloss.Left, title, dir, "", m.picker.View(), "", hint)
	box := m.theme.Inspector.Width(inner).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
