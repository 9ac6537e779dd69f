// Package geom holds the small amount of 2D math shared by the canvas engine:
// points, rectangles and the world/screen viewport transform.
package geom

import "math"

const (
	// MinScale and MaxScale bound the interactive zoom level.
	MinScale = 0.2
	MaxScale = 3.0

	// WheelStep is the zoom factor applied per wheel tick.
	WheelStep = 1.08
	// ButtonStep is the zoom factor applied by the zoom in/out controls.
	ButtonStep = 1.12

	// FitPadding is the world-space margin kept around content by Fit.
	FitPadding  = 140.0
	FitMinScale = 0.25
	FitMaxScale = 1.6

	positionEpsilon = 0.001
	scaleEpsilon    = 0.0001
)

// Vec2 is a point or vector in either world or screen space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Mid returns the midpoint of the segment v→o.
func (v Vec2) Mid(o Vec2) Vec2 { return Vec2{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }

// Near reports whether v and o differ by less than eps on both axes.
func (v Vec2) Near(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) < eps && math.Abs(v.Y-o.Y) < eps
}

// NearlySamePosition is the no-op test used for person moves.
func NearlySamePosition(a, b Vec2) bool { return a.Near(b, positionEpsilon) }

// Rect is an axis-aligned rectangle with non-negative width and height.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints builds the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Vec2) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Bounds returns the bounding box of pts. ok is false for an empty slice.
func Bounds(pts []Vec2) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScale limits a zoom level to [MinScale, MaxScale]. Non-finite or
// non-positive input collapses to 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 1
	}
	return Clamp(s, MinScale, MaxScale)
}

// Viewport is the canvas pan offset (screen pixels) and zoom scale.
// screen = world*Scale + (X, Y).
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// DefaultViewport is the identity transform.
func DefaultViewport() Viewport { return Viewport{Scale: 1} }

// Offset returns the pan offset as a vector.
func (v Viewport) Offset() Vec2 { return Vec2{v.X, v.Y} }

// ToWorld maps a screen point into world space.
func (v Viewport) ToWorld(p Vec2) Vec2 {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	return Vec2{(p.X - v.X) / s, (p.Y - v.Y) / s}
}

// ToScreen maps a world point into screen space.
func (v Viewport) ToScreen(p Vec2) Vec2 {
	return Vec2{p.X*v.Scale + v.X, p.Y*v.Scale + v.Y}
}

// Panned returns the viewport translated by a screen-space delta.
func (v Viewport) Panned(d Vec2) Viewport {
	v.X += d.X
	v.Y += d.Y
	return v
}

// ZoomAt scales by factor while keeping the world point under the screen
// pointer p fixed. The resulting scale is clamped.
func (v Viewport) ZoomAt(p Vec2, factor float64) Viewport {
	world := v.ToWorld(p)
	ns := ClampScale(v.Scale * factor)
	return Viewport{
		X:     p.X - world.X*ns,
		Y:     p.Y - world.Y*ns,
		Scale: ns,
	}
}

// Wheel applies one wheel tick at pointer p. A negative deltaY zooms in.
func (v Viewport) Wheel(p Vec2, deltaY float64) Viewport {
	if deltaY > 0 {
		return v.ZoomAt(p, 1/WheelStep)
	}
	return v.ZoomAt(p, WheelStep)
}

// Rescaled changes the zoom level without touching the pan offset, the way
// the on-canvas zoom controls behave.
func (v Viewport) Rescaled(factor float64) Viewport {
	v.Scale = ClampScale(v.Scale * factor)
	return v
}

// NearlyEqual reports whether a viewport update would be a no-op.
func (v Viewport) NearlyEqual(o Viewport) bool {
	return math.Abs(v.X-o.X) < positionEpsilon &&
		math.Abs(v.Y-o.Y) < positionEpsilon &&
		math.Abs(v.Scale-o.Scale) < scaleEpsilon
}

// Fit centers pts inside a canvas of the given size. With no points it
// returns the default viewport.
func Fit(pts []Vec2, canvasW, canvasH float64) Viewport {
	b, ok := Bounds(pts)
	if !ok || canvasW <= 0 || canvasH <= 0 {
		return DefaultViewport()
	}
	wWorld := b.W + FitPadding*2
	hWorld := b.H + FitPadding*2
	scale := Clamp(math.Min(canvasW/wWorld, canvasH/hWorld), FitMinScale, FitMaxScale)
	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	return Viewport{
		X:     canvasW/2 - cx*scale,
		Y:     canvasH/2 - cy*scale,
		Scale: scale,
	}
}

// AngleDeg returns the direction of a→b in degrees, normalized into
// (-90, 90] so text drawn along it never reads upside down.
func AngleDeg(a, b Vec2) float64 {
	ang := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	return UprightAngle(ang)
}

// UprightAngle folds any angle in degrees into (-90, 90].
func UprightAngle(ang float64) float64 {
	ang = math.Mod(ang, 360)
	if ang > 180 {
		ang -= 360
	} else if ang <= -180 {
		ang += 360
	}
	if ang > 90 {
		ang -= 180
	} else if ang <= -90 {
		ang += 180
	}
	return ang
}
