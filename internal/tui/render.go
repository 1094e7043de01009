package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"codeberg.org/collabboard/server/internal/canvas"
)

type cell struct {
	x int
	y int
}

// draws the raster as half-block cells: the upper half of each cell is the
// foreground, the lower half the background
func renderRaster(r *canvas.Raster, cols, rows int, markers map[cell]string) string {
	styles := make(map[[2]string]lipgloss.Style)

	var b strings.Builder

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if marker, ok := markers[cell{x: cx, y: cy}]; ok {
				b.WriteString(cursorStyle.Render(marker))
				continue
			}

			top := sampleBlock(r, cx*cellWidth, cy*cellHeight)
			bottom := sampleBlock(r, cx*cellWidth, cy*cellHeight+cellHeight/2)

			key := [2]string{top, bottom}

			style, ok := styles[key]
			if !ok {
				style = lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom))
				styles[key] = style
			}

			b.WriteString(style.Render("▀"))
		}

		if cy < rows-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// the hex color of a half cell: the first painted pixel, or paper
func sampleBlock(r *canvas.Raster, x0, y0 int) string {
	for y := y0; y < y0+cellHeight/2; y++ {
		for x := x0; x < x0+cellWidth; x++ {
			if c, ok := r.At(x, y); ok {
				return hexColor(c)
			}
		}
	}

	return colorPaper
}

func hexColor(c color.RGBA) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return colorPaper
	}

	return cf.Hex()
}

// the cell a canvas point falls in, given where the board starts on screen
func canvasCell(p canvas.Point) cell {
	return cell{x: int(p.X) / cellWidth, y: int(p.Y) / cellHeight}
}
