package ui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/store"
)

// cellGrid converts between terminal cells and canvas screen coordinates.
// One cell covers W by H screen units.
type cellGrid struct {
	W, H float64
}

// screen returns the center of cell col, row.
func (g cellGrid) screen(col, row int) geom.Vec2 {
	return geom.Vec2{X: (float64(col) + 0.5) * g.W, Y: (float64(row) + 0.5) * g.H}
}

// cell returns the cell holding screen point p.
func (g cellGrid) cell(p geom.Vec2) (int, int) {
	return int(math.Floor(p.X / g.W)), int(math.Floor(p.Y / g.H))
}

// scene is everything one canvas paint reads.
type scene struct {
	cv        *canvas.Canvas
	doc       *model.File
	sel       store.Selection
	grid      cellGrid
	showNames bool
	theme     Theme
}

// paint draws edges, labels, the link preview, the marquee and the people
// onto r, in that order.
func paint(r *Raster, s scene) {
	vp := s.cv.Ctrl.Viewport()
	toCell := func(w geom.Vec2) (int, int) { return s.grid.cell(vp.ToScreen(w)) }
	bounds := geom.Rect{X: -1, Y: -1, W: float64(r.w) + 1, H: float64(r.h) + 1}

	edges := s.cv.Edges.Edges()
	for _, e := range edges {
		x0, y0 := toCell(e.A)
		x1, y1 := toCell(e.B)
		drawClipped(r, bounds, x0, y0, x1, y1, edgeRune(x1-x0, y1-y0), ink{fg: lipgloss.Color(e.Color)})
	}

	if op := canvas.LabelOpacity(vp.Scale); op > 0 {
		for _, e := range edges {
			x0, y0 := toCell(e.A)
			x1, y1 := toCell(e.B)
			span := max(absInt(x1-x0), absInt(y1-y0))
			label := runewidth.Truncate(e.Label, max(span-2, 0), "…")
			if label == "" || label == "…" {
				continue
			}
			cx, cy := toCell(e.LabelAt)
			r.CenterText(cx, cy, label, ink{fg: lipgloss.Color(e.Color), faint: op < 1})
		}
	}

	if from, to, ok := s.cv.Ctrl.LinkPreview(); ok {
		if a, ok := s.cv.Scene.Endpoint(from); ok {
			x0, y0 := toCell(a)
			x1, y1 := toCell(to)
			drawClipped(r, bounds, x0, y0, x1, y1, '┄', ink{fg: s.theme.Primary, bold: true})
		}
	}

	if m, ok := s.cv.Ctrl.Marquee(); ok {
		x0, y0 := toCell(geom.Vec2{X: m.X, Y: m.Y})
		x1, y1 := toCell(geom.Vec2{X: m.X + m.W, Y: m.Y + m.H})
		r.Box(x0, y0, x1, y1, ink{fg: s.theme.Secondary})
	}

	nameOp := canvas.NameOpacity(vp.Scale, s.showNames)
	for _, id := range s.cv.Scene.IDs() {
		p := s.doc.People[id]
		at, _ := s.cv.Scene.Endpoint(id)
		x, y := toCell(at)
		if !r.inside(x, y) {
			continue
		}

		glyph, in := '●', ink{fg: s.theme.Subtext}
		switch {
		case s.sel.Focused == id:
			glyph, in = '◉', ink{fg: s.theme.Selected, bold: true}
		case s.sel.IsMulti(id):
			glyph, in = '◆', ink{fg: s.theme.Multi, bold: true}
		}
		if p != nil {
			for _, t := range canvas.Traits(p) {
				dx, dy := traitCell(t)
				r.Set(x+dx, y+dy, '•', ink{fg: lipgloss.Color(t.Color)})
			}
		}
		r.Set(x, y, glyph, in)

		if nameOp > 0 && p != nil {
			r.CenterText(x, y+1, runewidth.Truncate(i18n.PersonName(s.doc.Meta.Language, p), 18, "…"),
				ink{fg: s.theme.Base.GetForeground(), faint: nameOp < 1, bold: s.sel.Focused == id})
		}
	}
}

// traitCell places a trait mark in the neighboring cell the arc faces.
func traitCell(t canvas.Trait) (int, int) {
	mid := (t.Rotation + t.Angle/2) * math.Pi / 180
	dx := int(math.Round(math.Cos(mid) * 1.4))
	dy := int(math.Round(math.Sin(mid)))
	if dx == 0 && dy == 0 {
		dx = 1
	}
	return dx, dy
}

// edgeRune picks a box-drawing character for a segment direction in cells.
// Cells are about twice as tall as wide.
func edgeRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	}
	slope := float64(dy) * 2 / float64(dx)
	switch {
	case math.Abs(slope) < 0.5:
		return '─'
	case math.Abs(slope) > 3:
		return '│'
	case slope > 0:
		return '╲'
	}
	return '╱'
}

// drawClipped draws the part of a segment that falls inside b.
func drawClipped(r *Raster, b geom.Rect, x0, y0, x1, y1 int, ch rune, in ink) {
	ax, ay, bx, by, ok := clipSegment(b, float64(x0), float64(y0), float64(x1), float64(y1))
	if !ok {
		return
	}
	r.Line(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)), ch, in)
}

// clipSegment is Liang-Barsky clipping of a segment against b.
func clipSegment(b geom.Rect, x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, pq := range [4][2]float64{
		{-dx, x0 - b.X},
		{dx, b.X + b.W - x0},
		{-dy, y0 - b.Y},
		{dy, b.Y + b.H - y0},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
