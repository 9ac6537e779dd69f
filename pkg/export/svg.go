package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/connections/pkg/canvas"
)

const svgFont = "font-family:system-ui,sans-serif"

// RenderSVG writes layout as an SVG document to w.
func RenderSVG(layout Layout, w io.Writer) error {
	ew := &errWriter{w: w}
	s := svg.New(ew)
	s.Start(layout.Width, layout.Height)
	s.Title(layout.Title)
	s.Rect(0, 0, layout.Width, layout.Height, "fill:"+cssHex(bgDark))

	drawHeaderCardSVG(s, layout)
	for _, e := range layout.Edges {
		drawEdgeSVG(s, e)
	}
	for _, e := range layout.Edges {
		drawEdgeLabelSVG(s, e)
	}
	for _, n := range layout.Nodes {
		drawNodeSVG(s, n)
	}
	s.End()
	return ew.err
}

func drawHeaderCardSVG(s *svg.SVG, layout Layout) {
	s.Roundrect(20, 12, layout.Width-40, 66, 12, 12,
		fmt.Sprintf("fill:%s;fill-opacity:0.88;stroke:%s;stroke-opacity:0.4", cssHex(bgHeader), cssHex(nodeStroke)))
	s.Text(36, 40, layout.Title,
		fmt.Sprintf("fill:%s;font-size:18px;%s;font-weight:600", cssHex(textPrimary), svgFont))
	s.Text(36, 62, layout.Stats,
		fmt.Sprintf("fill:%s;font-size:12px;%s", cssHex(textSecondary), svgFont))
}

func drawEdgeSVG(s *svg.SVG, e canvas.Edge) {
	c := cssHex(parseHex(e.Color))
	x1, y1, x2, y2 := round(e.A.X), round(e.A.Y), round(e.B.X), round(e.B.Y)
	s.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:6;stroke-opacity:0.2", c))
	s.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:2", c))
}

func drawEdgeLabelSVG(s *svg.SVG, e canvas.Edge) {
	x, y := round(e.LabelAt.X), round(e.LabelAt.Y)
	w, h := round(e.LabelBox.W), round(e.LabelBox.H)
	s.Gtransform(fmt.Sprintf("rotate(%.2f %d %d)", e.Rotation, x, y))
	s.Roundrect(x-w/2, y-h/2, w, h, 4, 4, fmt.Sprintf("fill:%s;fill-opacity:0.88", cssHex(bgDark)))
	s.Text(x, y, e.Label, fmt.Sprintf("fill:%s;font-size:%.0fpx;%s;text-anchor:middle;dominant-baseline:middle",
		cssHex(parseHex(e.Color)), canvas.LabelFontSize, svgFont))
	s.Gend()
}

func drawNodeSVG(s *svg.SVG, n Node) {
	x, y, r := round(n.At.X), round(n.At.Y), round(canvas.NodeRadius)

	s.Circle(x+3, y+3, r, "fill:rgba(0,0,0,0.25)")
	s.Circle(x, y, r, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", cssHex(nodeFill), cssHex(nodeStroke)))

	for _, t := range n.Traits {
		s.Path(arcPath(n.At.X, n.At.Y, canvas.NodeRadius+5, t.Rotation, t.Angle),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:4", cssHex(parseHex(t.Color))))
	}

	if initial := []rune(n.Name); len(initial) > 0 {
		s.Text(x, y, string(initial[0]), fmt.Sprintf("fill:%s;font-size:14px;%s;text-anchor:middle;dominant-baseline:middle",
			cssHex(textPrimary), svgFont))
	}
	s.Text(x, y+r+18, n.Name, fmt.Sprintf("fill:%s;font-size:12px;%s;text-anchor:middle", cssHex(textSecondary), svgFont))
}

// arcPath is an SVG path for a clockwise arc starting at rotation degrees
// and spanning angle degrees.
func arcPath(cx, cy, r, rotation, angle float64) string {
	a1 := rotation * math.Pi / 180
	a2 := (rotation + angle) * math.Pi / 180
	large := 0
	if angle > 180 {
		large = 1
	}
	return fmt.Sprintf("M %.1f %.1f A %.1f %.1f 0 %d 1 %.1f %.1f",
		cx+r*math.Cos(a1), cy+r*math.Sin(a1), r, r, large, cx+r*math.Cos(a2), cy+r*math.Sin(a2))
}

func round(v float64) int { return int(math.Round(v)) }

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
