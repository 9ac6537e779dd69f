package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ink is how a cell is painted.
type ink struct {
	fg    lipgloss.TerminalColor
	bold  bool
	faint bool
}

// cell is one terminal cell. A zero rune marks the right half of a wide
// character.
type cell struct {
	ch  rune
	ink ink
}

// Raster is a grid of styled terminal cells that the canvas is painted on.
type Raster struct {
	w, h  int
	cells []cell
}

// NewRaster returns a blank raster of w by h cells.
func NewRaster(w, h int) *Raster {
	w, h = max(w, 0), max(h, 0)
	r := &Raster{w: w, h: h, cells: make([]cell, w*h)}
	for i := range r.cells {
		r.cells[i].ch = ' '
	}
	return r
}

func (r *Raster) inside(x, y int) bool { return x >= 0 && y >= 0 && x < r.w && y < r.h }

// Rune returns the character at x, y, or 0 outside the raster.
func (r *Raster) Rune(x, y int) rune {
	if !r.inside(x, y) {
		return 0
	}
	return r.cells[y*r.w+x].ch
}

// Set paints a single-width character.
func (r *Raster) Set(x, y int, ch rune, in ink) {
	if !r.inside(x, y) {
		return
	}
	r.clearWide(x, y)
	r.cells[y*r.w+x] = cell{ch: ch, ink: in}
}

// clearWide blanks the other half of a wide character overlapping x, y.
func (r *Raster) clearWide(x, y int) {
	i := y*r.w + x
	if r.cells[i].ch == 0 && x > 0 {
		r.cells[i-1].ch = ' '
	}
	if x+1 < r.w && r.cells[i+1].ch == 0 {
		r.cells[i+1].ch = ' '
	}
}

// Text writes s starting at x, y. Characters falling outside are clipped.
func (r *Raster) Text(x, y int, s string, in ink) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if w == 2 {
			if r.inside(x, y) && r.inside(x+1, y) {
				r.Set(x, y, ch, in)
				r.clearWide(x+1, y)
				r.cells[y*r.w+x+1] = cell{ch: 0, ink: in}
			}
		} else {
			r.Set(x, y, ch, in)
		}
		x += w
	}
}

// CenterText writes s centered on column cx.
func (r *Raster) CenterText(cx, y int, s string, in ink) {
	r.Text(cx-runewidth.StringWidth(s)/2, y, s, in)
}

// Line draws from x0, y0 to x1, y1 with ch.
func (r *Raster) Line(x0, y0, x1, y1 int, ch rune, in ink) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		r.Set(x0, y0, ch, in)
		if x0 == x1 && y0 == y1 {
			return
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

// Box outlines the rectangle with corners x0, y0 and x1, y1.
func (r *Raster) Box(x0, y0, x1, y1 int, in ink) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for x := x0 + 1; x < x1; x++ {
		r.Set(x, y0, '─', in)
		r.Set(x, y1, '─', in)
	}
	for y := y0 + 1; y < y1; y++ {
		r.Set(x0, y, '│', in)
		r.Set(x1, y, '│', in)
	}
	r.Set(x0, y0, '┌', in)
	r.Set(x1, y0, '┐', in)
	r.Set(x0, y1, '└', in)
	r.Set(x1, y1, '┘', in)
}

// Plain returns the raster as unstyled text, one line per row.
func (r *Raster) Plain() string {
	var sb strings.Builder
	for y := 0; y < r.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < r.w; x++ {
			if ch := r.cells[y*r.w+x].ch; ch != 0 {
				sb.WriteRune(ch)
			}
		}
	}
	return sb.String()
}

// Render styles runs of equally painted cells with the theme's renderer.
func (r *Raster) Render(t Theme) string {
	var sb strings.Builder
	var run strings.Builder
	flush := func(in ink) {
		if run.Len() == 0 {
			return
		}
		st := t.Renderer.NewStyle().Bold(in.bold).Faint(in.faint)
		if in.fg != nil {
			st = st.Foreground(in.fg)
		}
		sb.WriteString(st.Render(run.String()))
		run.Reset()
	}
	for y := 0; y < r.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var cur ink
		for x := 0; x < r.w; x++ {
			c := r.cells[y*r.w+x]
			if c.ch == 0 {
				continue
			}
			if c.ink != cur {
				flush(cur)
				cur = c.ink
			}
			run.WriteRune(c.ch)
		}
		flush(cur)
	}
	return sb.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
