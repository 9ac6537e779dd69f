// Package export renders documents to files outside the editor: PNG and
// SVG images of the graph and a markdown report.
package export

import (
	"image/color"
	"strconv"

	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

const (
	margin    = 80.0
	headerH   = 90.0
	minWidth  = 800
	minHeight = 600
)

// Palette shared by the PNG and SVG renderers.
var (
	bgDark        = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	bgHeader      = color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	nodeFill      = color.RGBA{0x33, 0x41, 0x55, 0xff}
	nodeStroke    = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	textPrimary   = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	textSecondary = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
)

// Node is a person placed on the image.
type Node struct {
	ID     string
	Name   string
	At     geom.Vec2
	Traits []canvas.Trait
}

// Layout is a document projected onto image coordinates.
type Layout struct {
	Title  string
	Width  int
	Height int
	Nodes  []Node
	Edges  []canvas.Edge
	Stats  string
}

// BuildLayout places doc's people and edges so that everything fits
// below a header card. Edge geometry and labels come from the canvas edge
// engine measured with m.
func BuildLayout(doc *model.File, m canvas.Measurer, title string) Layout {
	lang := doc.Meta.Language
	scene := canvas.NewScene()
	scene.Sync(doc)

	b, ok := geom.Bounds(doc.Positions())
	if !ok {
		b = geom.Rect{}
	}
	shift := geom.Vec2{X: margin - b.X, Y: margin + headerH - b.Y}
	for _, id := range scene.IDs() {
		n, _ := scene.Node(id)
		n.Base = n.Base.Add(shift)
	}
	edges := canvas.NewEdgeEngine(scene, m, nil)
	edges.Rebuild(doc)

	l := Layout{
		Title:  title,
		Width:  max(minWidth, int(b.W+margin*2)),
		Height: max(minHeight, int(b.H+margin*2+headerH)),
		Edges:  edges.Edges(),
		Stats: strconv.Itoa(len(doc.People)) + " " + i18n.S(lang, "people") + " · " +
			strconv.Itoa(len(doc.Connections)) + " " + i18n.S(lang, "connections"),
	}
	for _, id := range scene.IDs() {
		at, _ := scene.Endpoint(id)
		p := doc.People[id]
		l.Nodes = append(l.Nodes, Node{
			ID:     id,
			Name:   i18n.PersonName(lang, p),
			At:     at,
			Traits: canvas.Traits(p),
		})
	}
	return l
}

// parseHex reads #rrggbb; anything else is mid gray.
func parseHex(s string) color.RGBA {
	c := color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return c
	}
	c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return c
}

func cssHex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}
