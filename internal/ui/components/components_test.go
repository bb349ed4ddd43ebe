// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

func TestToastManager_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	m.Add(ToastInfo, "theme set to light")
	errID := m.Add(ToastError, "chart failed")
	require.Len(t, m.Toasts(), 2)
	assert.Equal(t, errID, m.Toasts()[0].ID, "newest first")

	now = now.Add(DefaultToastDuration)
	assert.True(t, m.Tick())
	require.Len(t, m.Toasts(), 1)
	assert.Equal(t, ToastError, m.Toasts()[0].Kind)

	now = now.Add(ErrorToastDuration)
	assert.False(t, m.Tick())
	assert.Empty(t, m.Toasts())
}

func TestToastManager_CapAndRemove(t *testing.T) {
	m := NewToastManager()
	var ids []int
	for i := 0; i < maxToasts+2; i++ {
		ids = append(ids, m.Add(ToastInfo, fmt.Sprintf("toast %d", i)))
	}
	assert.Len(t, m.Toasts(), maxToasts)

	m.Remove(ids[len(ids)-1])
	assert.Len(t, m.Toasts(), maxToasts-1)

	m.Clear()
	assert.Empty(t, m.Toasts())
}

func TestAlert(t *testing.T) {
	theme := styles.NewTheme()
	var a Alert
	assert.False(t, a.Visible())
	assert.Empty(t, a.View(theme, 80, 24))

	a.Show("Notice", "Pick a file")
	assert.True(t, a.Visible())
	assert.Equal(t, "Pick a file", a.Text())
	assert.Contains(t, a.View(theme, 80, 24), "Pick a file")

	a.Dismiss()
	assert.False(t, a.Visible())
}

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		name             string
		w, h             int
		maxCols, maxRows int
		wantCols         int
		wantRows         int
	}{
		{"landscape fills", 100, 50, 40, 10, 40, 10},
		{"tall is width bound by rows", 10, 100, 40, 10, 2, 10},
		{"tiny image scales up", 2, 2, 10, 10, 10, 5},
		{"empty bounds", 0, 0, 10, 10, 0, 0},
		{"no room", 10, 10, 0, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := PreviewSize(image.Rect(0, 0, tt.w, tt.h), tt.maxCols, tt.maxRows)
			assert.Equal(t, tt.wantCols, cols)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestRenderChartPreview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	out := RenderChartPreview(img, 4, 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, 8, strings.Count(out, upperHalf))

	assert.Empty(t, RenderChartPreview(nil, 10, 10))
}

func TestFormatJSON(t *testing.T) {
	out, ok := FormatJSON([]byte(`{"response":"hi","image_url":null}`))
	assert.True(t, ok)
	assert.Equal(t, "{\n  \"response\": \"hi\",\n  \"image_url\": null\n}", out)

	out, ok = FormatJSON([]byte("Internal Server Error"))
	assert.False(t, ok)
	assert.Equal(t, "Internal Server Error", out)

	assert.Equal(t, "plain", HighlightJSON([]byte("plain"), "monokai"))
	assert.Contains(t, HighlightJSON([]byte(`{"a":1}`), "monokai"), "a")
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "/static/x.png", truncateMiddle("/static/x.png", 40))
	got := truncateMiddle("/static/charts/2025/very-long-chart-name.png", 20)
	assert.Equal(t, 20, len([]rune(got)))
	assert.True(t, strings.HasPrefix(got, "/static/"))
	assert.True(t, strings.HasSuffix(got, ".png"))
}

func sampleMessages() []model.Message {
	conv := model.NewConversation()
	conv.Append(model.NewUserText("What is the average price?"))
	conv.Append(model.NewChart("Price distribution", "/static/chart.png"))
	conv.Append(model.NewAgentText("❌ Error: boom"))
	return conv.Messages()
}

func TestMessageList_Spans(t *testing.T) {
	theme := styles.NewTheme()
	ml := NewMessageList(theme, nil)
	ml.SetWidth(80)
	ml.SetMessages(sampleMessages())

	view := ml.View()
	spans := ml.Spans()
	require.Len(t, spans, 4)

	assert.Equal(t, 0, spans[0].Start)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End+1, spans[i].Start)
		assert.Greater(t, spans[i].End, spans[i].Start)
	}
	assert.True(t, spans[2].Chart)
	assert.False(t, spans[1].Chart)
	assert.Equal(t, spans[3].End, lipgloss.Height(view))

	assert.Contains(t, view, model.ChartLoadingText)
	assert.Contains(t, view, "Error: boom")
}

func TestChatViewport_MessageAt(t *testing.T) {
	theme := styles.NewTheme()
	cv := NewChatViewport(theme, nil)
	cv.SetSize(80, 200)
	cv.SetMessages(sampleMessages(), true)

	span, ok := cv.MessageAt(1)
	require.True(t, ok)
	assert.Equal(t, "msg-1", span.MessageID)

	_, ok = cv.MessageAt(0)
	assert.False(t, ok, "indicator row")

	assert.Equal(t, []string{"msg-3"}, cv.ChartIDs())
}

func TestChatViewport_LockIgnoresScroll(t *testing.T) {
	theme := styles.NewTheme()
	conv := model.NewConversation()
	for i := 0; i < 30; i++ {
		conv.Append(model.NewAgentText(fmt.Sprintf("line %d", i)))
	}

	cv := NewChatViewport(theme, nil)
	cv.SetSize(60, 10)
	cv.SetMessages(conv.Messages(), true)
	require.True(t, cv.AtBottom())
	bottom := cv.YOffset()
	require.Greater(t, bottom, 0)

	cv.Lock()
	cv.Update(tea.MouseMsg{Type: tea.MouseWheelUp})
	cv.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, bottom, cv.YOffset())

	cv.Unlock()
	cv.Update(tea.MouseMsg{Type: tea.MouseWheelUp})
	assert.Less(t, cv.YOffset(), bottom)
}

func TestStatusBar_FitsWidth(t *testing.T) {
	theme := styles.NewTheme()
	sb := NewStatusBar(theme)
	sb.Width = 40
	sb.FileLabel = "✅ Selected file: sales.csv"
	sb.Shortcuts = []Shortcut{
		{"enter", "send"}, {"ctrl+o", "open file"}, {"ctrl+n", "new chat"},
		{"ctrl+t", "theme"}, {"ctrl+b", "sidebar"},
	}
	view := sb.View()
	assert.LessOrEqual(t, lipgloss.Width(view), 40)
	assert.Equal(t, 1, lipgloss.Height(view))
	assert.Contains(t, view, "sales.csv")
}

func TestHeader(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.Width = 100
	h.BaseURL = "http://localhost:8000"

	assert.Contains(t, h.View(), "localhost:8000")
	assert.Greater(t, h.IndicatorWidth(), 0)

	h.Connected = false
	assert.Contains(t, h.View(), "offline")
}

func TestSpinner(t *testing.T) {
	s := NewSpinner("Analyzing")
	assert.Empty(t, s.View())

	cmd := s.Start()
	assert.NotNil(t, cmd)
	assert.Nil(t, s.Start(), "already running")
	assert.Contains(t, s.View(), "Analyzing")

	s.Stop()
	assert.False(t, s.IsActive())
	assert.Equal(t, "1m 5s", formatElapsed(65*time.Second))
}
