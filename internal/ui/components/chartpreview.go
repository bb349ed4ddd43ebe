// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in
// the background, so each cell shows two vertically stacked pixels.
const upperHalf = "▀"

// PreviewSize is the cell size RenderChartPreview will use for an image
// fitted inside maxCols x maxRows, keeping its aspect ratio.
func PreviewSize(bounds image.Rectangle, maxCols, maxRows int) (cols, rows int) {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	// Pixel space is maxCols x 2*maxRows.
	scale := float64(maxCols) / float64(w)
	if s := float64(2*maxRows) / float64(h); s < scale {
		scale = s
	}
	cols = int(float64(w) * scale)
	px := int(float64(h) * scale)
	if cols < 1 {
		cols = 1
	}
	if px < 1 {
		px = 1
	}
	return cols, (px + 1) / 2
}

// RenderChartPreview scales img into at most maxCols x maxRows cells and
// renders it with half-block characters.
func RenderChartPreview(img image.Image, maxCols, maxRows int) string {
	if img == nil {
		return ""
	}
	cols, rows := PreviewSize(img.Bounds(), maxCols, maxRows)
	if cols == 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	// Transparent chart backgrounds render on white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	cache := make(map[[2]color.RGBA]lipgloss.Style)
	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			key := [2]color.RGBA{top, bottom}
			st, ok := cache[key]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexColor(top))).
					Background(lipgloss.Color(hexColor(bottom)))
				cache[key] = st
			}
			b.WriteString(st.Render(upperHalf))
		}
	}
	return b.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
