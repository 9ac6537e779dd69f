package canvas

import (
	"fmt"
	"math"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	// LabelFontSize and LabelPadding size edge labels in world units.
	LabelFontSize = 12.0
	LabelPadding  = 6.0
)

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Measurer reports the box a label needs, padding included.
type Measurer interface {
	Measure(text string) Size
}

// FontMeasurer measures text with a real font face, the way labels are
// drawn in exported images.
type FontMeasurer struct {
	mu   sync.Mutex
	dc   *gg.Context
	face font.Face
	pad  float64
}

// LoadLabelFace returns the Go Regular face at size points.
func LoadLabelFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	return face, nil
}

// NewFontMeasurer builds a measurer for the label font.
func NewFontMeasurer() (*FontMeasurer, error) {
	face, err := LoadLabelFace(LabelFontSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return &FontMeasurer{dc: dc, face: face, pad: LabelPadding}, nil
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string) Size {
	m.mu.Lock()
	w, h := m.dc.MeasureString(text)
	m.mu.Unlock()
	return Size{
		W: math.Ceil(w + m.pad*2),
		H: math.Ceil(h + m.pad*2),
	}
}

// CellMeasurer measures in terminal cells: one column of padding on each
// side and a single row.
type CellMeasurer struct{}

// Measure implements Measurer.
func (CellMeasurer) Measure(text string) Size {
	return Size{W: float64(runewidth.StringWidth(text) + 2), H: 1}
}
