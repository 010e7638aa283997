package explorer

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvas is a braille drawing surface. Each terminal cell holds a 2x4 grid
// of pixels encoded as a braille rune, plus the colour of whatever drew
// into the cell last.
type canvas struct {
	w, h   int // in cells
	mask   [][]uint8
	colour [][]string
}

func newCanvas(w, h int) *canvas {
	mask := make([][]uint8, h)
	colour := make([][]string, h)
	for i := range mask {
		mask[i] = make([]uint8, w)
		colour[i] = make([]string, w)
	}
	return &canvas{w: w, h: h, mask: mask, colour: colour}
}

// set turns on the pixel at canvas coordinates (2 per cell across, 4 down).
func (cv *canvas) set(x, y int, colour string) {
	if x < 0 || y < 0 {
		return
	}
	cx, rx := x/2, x%2
	cy, ry := y/4, y%4
	if cx >= cv.w || cy >= cv.h {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	cv.mask[cy][cx] |= bit
	cv.colour[cy][cx] = colour
}

// line draws a pixel line between two points using Bresenham.
func (cv *canvas) line(x0, y0, x1, y1 int, colour string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		cv.set(x0, y0, colour)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillRings paints the interior of a set of rings using the even-odd rule,
// scanning each pixel row at its centre. Crossings are collected over every
// ring together, so holes stay unfilled.
func (cv *canvas) fillRings(rings [][][2]float64, colour string) {
	hPix := cv.h * 4
	for y := 0; y < hPix; y++ {
		yc := float64(y) + 0.5
		var xs []float64
		for _, ring := range rings {
			for i := range ring {
				a := ring[i]
				b := ring[(i+1)%len(ring)]
				if (a[1] <= yc) == (b[1] <= yc) {
					continue
				}
				t := (yc - a[1]) / (b[1] - a[1])
				xs = append(xs, a[0]+t*(b[0]-a[0]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); float64(x) <= xs[i+1]; x++ {
				cv.set(x, y, colour)
			}
		}
	}
}

// strokeRing draws the closed outline of a ring.
func (cv *canvas) strokeRing(ring [][2]float64, colour string) {
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		cv.line(round(a[0]), round(a[1]), round(b[0]), round(b[1]), colour)
	}
}

// strokeRun draws an open polyline.
func (cv *canvas) strokeRun(run [][2]float64, colour string) {
	for i := 0; i+1 < len(run); i++ {
		a := run[i]
		b := run[i+1]
		cv.line(round(a[0]), round(a[1]), round(b[0]), round(b[1]), colour)
	}
}

// rows returns the canvas as plain braille rows, one string per cell row.
func (cv *canvas) rows() []string {
	out := make([]string, cv.h)
	for y := 0; y < cv.h; y++ {
		row := make([]rune, cv.w)
		for x := 0; x < cv.w; x++ {
			mask := cv.mask[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

// render returns the canvas rows with each run of same-coloured cells
// wrapped in its lipgloss style.
func (cv *canvas) render() string {
	styles := make(map[string]lipgloss.Style)
	rows := make([]string, cv.h)
	for y := 0; y < cv.h; y++ {
		var b strings.Builder
		x := 0
		for x < cv.w {
			col := cv.colour[y][x]
			start := x
			for x < cv.w && cv.colour[y][x] == col {
				x++
			}
			run := make([]rune, 0, x-start)
			for i := start; i < x; i++ {
				mask := cv.mask[y][i]
				if mask == 0 {
					run = append(run, ' ')
				} else {
					run = append(run, rune(0x2800+int(mask)))
				}
			}
			if col == "" {
				b.WriteString(string(run))
				continue
			}
			style, ok := styles[col]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(col))
				styles[col] = style
			}
			b.WriteString(style.Render(string(run)))
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
