package export

import (
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"

	"github.com/vanderheijden86/connections/pkg/canvas"
)

// RenderPNG draws layout as a PNG image to w.
func RenderPNG(layout Layout, w io.Writer) error {
	face, err := canvas.LoadLabelFace(canvas.LabelFontSize)
	if err != nil {
		return err
	}
	titleFace, err := canvas.LoadLabelFace(18)
	if err != nil {
		return err
	}

	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(bgDark)
	dc.Clear()

	drawHeaderCard(dc, layout, titleFace, face)

	dc.SetFontFace(face)
	for _, e := range layout.Edges {
		drawEdge(dc, e)
	}
	for _, e := range layout.Edges {
		drawEdgeLabel(dc, e)
	}
	for _, n := range layout.Nodes {
		drawNode(dc, n)
	}
	return dc.EncodePNG(w)
}

func drawHeaderCard(dc *gg.Context, layout Layout, title, body font.Face) {
	width := float64(layout.Width)
	dc.SetColor(color.RGBA{bgHeader.R, bgHeader.G, bgHeader.B, 0xe0})
	dc.DrawRoundedRectangle(20, 12, width-40, 66, 12)
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetColor(color.RGBA{nodeStroke.R, nodeStroke.G, nodeStroke.B, 0x60})
	dc.DrawRoundedRectangle(20, 12, width-40, 66, 12)
	dc.Stroke()

	dc.SetFontFace(title)
	dc.SetColor(textPrimary)
	dc.DrawStringAnchored(layout.Title, 36, 36, 0, 0.5)

	dc.SetFontFace(body)
	dc.SetColor(textSecondary)
	dc.DrawStringAnchored(layout.Stats, 36, 60, 0, 0.5)
}

func drawEdge(dc *gg.Context, e canvas.Edge) {
	c := parseHex(e.Color)
	dc.SetColor(color.RGBA{c.R, c.G, c.B, 0x30})
	dc.SetLineWidth(6)
	dc.DrawLine(e.A.X, e.A.Y, e.B.X, e.B.Y)
	dc.Stroke()

	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.DrawLine(e.A.X, e.A.Y, e.B.X, e.B.Y)
	dc.Stroke()
}

func drawEdgeLabel(dc *gg.Context, e canvas.Edge) {
	x, y := e.LabelAt.X, e.LabelAt.Y
	w, h := e.LabelBox.W, e.LabelBox.H

	dc.Push()
	dc.RotateAbout(gg.Radians(e.Rotation), x, y)
	dc.SetColor(color.RGBA{bgDark.R, bgDark.G, bgDark.B, 0xe0})
	dc.DrawRoundedRectangle(x-w/2, y-h/2, w, h, 4)
	dc.Fill()
	dc.SetColor(parseHex(e.Color))
	dc.DrawStringAnchored(e.Label, x, y, 0.5, 0.35)
	dc.Pop()
}

func drawNode(dc *gg.Context, n Node) {
	x, y, r := n.At.X, n.At.Y, canvas.NodeRadius

	dc.SetColor(color.RGBA{0, 0, 0, 0x40})
	dc.DrawCircle(x+3, y+3, r)
	dc.Fill()

	dc.SetColor(nodeFill)
	dc.DrawCircle(x, y, r)
	dc.Fill()
	dc.SetLineWidth(2)
	dc.SetColor(nodeStroke)
	dc.DrawCircle(x, y, r)
	dc.Stroke()

	dc.SetLineWidth(4)
	for _, t := range n.Traits {
		start := gg.Radians(t.Rotation)
		dc.SetColor(parseHex(t.Color))
		dc.DrawArc(x, y, r+5, start, start+gg.Radians(t.Angle))
		dc.Stroke()
	}

	initial := []rune(n.Name)
	if len(initial) > 0 {
		dc.SetColor(textPrimary)
		dc.DrawStringAnchored(string(initial[0]), x, y, 0.5, 0.35)
	}
	dc.SetColor(textSecondary)
	dc.DrawStringAnchored(n.Name, x, y+r+14, 0.5, 0.5)
}
