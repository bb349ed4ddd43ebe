// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

// FormatJSON indents body if it is JSON.
func FormatJSON(body []byte) (string, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return string(body), false
	}
	return buf.String(), true
}

// HighlightJSON indents and colors a JSON body with the named chroma style.
// Bodies that are not JSON come back as plain text.
func HighlightJSON(body []byte, style string) string {
	text, ok := FormatJSON(body)
	if !ok {
		return text
	}
	return highlight(text, "json", style)
}

func highlight(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// RenderInspector shows the most recent raw reply: status line and body.
func RenderInspector(theme *styles.Theme, reply *analysis.Reply, width, height int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	title := theme.ModalTitle.Render("Last response")
	var body string
	if reply == nil {
		body = theme.Muted.Render("No response yet.")
	} else {
		status := fmt.Sprintf("HTTP %d %s  %s", reply.Status, reply.StatusText, reply.Elapsed.Round(time.Millisecond))
		statusStyle := theme.HeaderOnline
		if !reply.OK() {
			statusStyle = theme.HeaderOffline
		}
		content := HighlightJSON(reply.Body, theme.ChromaStyle())
		lines := strings.Split(content, "\n")
		maxLines := height - 8
		if maxLines < 3 {
			maxLines = 3
		}
		if len(lines) > maxLines {
			hidden := len(lines) - maxLines
			lines = append(lines[:maxLines], theme.Muted.Render(fmt.Sprintf("... %d more lines", hidden)))
		}
		for i, l := range lines {
			if lipgloss.Width(l) > inner {
				lines[i] = ansi.Truncate(l, inner, "...")
			}
		}
		body = statusStyle.Render(status) + "\n\n" + strings.Join(lines, "\n")
	}

	hint := theme.ModalHint.Render("esc to close")
	box := theme.Inspector.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
