package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// halfBlock paints the upper half of a cell in the foreground color and the
// lower half in the background color, giving two pixels per cell.
const halfBlock = "▀"

// cellGrid returns the cell size (columns, pixel rows) that fits src into
// maxCols x maxRows terminal cells without upscaling. Pixel rows are even.
func cellGrid(src image.Rectangle, maxCols, maxRows int) (cols, pxRows int) {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	scale := math.Min(1, math.Min(float64(maxCols)/float64(w), float64(2*maxRows)/float64(h)))
	cols = max(1, int(math.Round(float64(w)*scale)))
	pxRows = max(2, int(math.Round(float64(h)*scale)))
	if pxRows%2 == 1 {
		pxRows++
	}
	return cols, pxRows
}

// RenderSurface draws img as colored half-block cells bounded by maxCols x
// maxRows. An empty image renders as "".
func RenderSurface(img image.Image, maxCols, maxRows int) string {
	cols, pxRows := cellGrid(img.Bounds(), maxCols, maxRows)
	if cols == 0 {
		return ""
	}
	small := image.NewRGBA(image.Rect(0, 0, cols, pxRows))
	xdraw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	styles := make(map[[2]color.RGBA]lipgloss.Style)
	var b strings.Builder
	for y := 0; y < pxRows; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			pair := [2]color.RGBA{small.RGBAAt(x, y), small.RGBAAt(x, y+1)}
			st, ok := styles[pair]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexColor(pair[0]))).
					Background(lipgloss.Color(hexColor(pair[1])))
				styles[pair] = st
			}
			b.WriteString(st.Render(halfBlock))
		}
	}
	return b.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
