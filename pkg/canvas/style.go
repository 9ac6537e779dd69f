package canvas

import "github.com/vanderheijden86/connections/pkg/model"

// Trait is a colored arc drawn around a person to flag one attribute.
// Rotation and Angle are in degrees, clockwise from the positive x axis.
type Trait struct {
	Name     string
	Color    string
	Rotation float64
	Angle    float64
}

// Traits returns the arcs for p in drawing order. At most four.
func Traits(p *model.Person) []Trait {
	var out []Trait
	if p.Smokes == model.Yes {
		out = append(out, Trait{Name: "smokes", Color: "#ef4444", Rotation: 205, Angle: 85})
	}
	if p.Uses == model.Yes {
		out = append(out, Trait{Name: "uses", Color: "#fbbf24", Rotation: -25, Angle: 85})
	}
	if p.Finance == "high" {
		out = append(out, Trait{Name: "finance", Color: "#38bdf8", Rotation: 95, Angle: 70})
	}
	if p.Subculture != model.Unknown {
		out = append(out, Trait{Name: "subculture", Color: "#a78bfa", Rotation: 275, Angle: 70})
	}
	return out
}

// NameOpacity fades person names out as the view zooms out.
func NameOpacity(scale float64, show bool) float64 {
	switch {
	case !show || scale < 0.55:
		return 0
	case scale < 0.75:
		return 0.7
	}
	return 1
}

// LabelOpacity fades connection labels out as the view zooms out.
func LabelOpacity(scale float64) float64 {
	switch {
	case scale < 0.55:
		return 0
	case scale < 0.7:
		return 0.6
	}
	return 1
}
