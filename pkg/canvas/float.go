package canvas

import (
	"math"
	"time"
	"unicode/utf16"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
)

const (
	// FloatMaxPeople and FloatMaxConnections bound the graph size above
	// which the idle float is switched off.
	FloatMaxPeople      = 900
	FloatMaxConnections = 1800

	floatAmpX    = 4.2
	floatAmpY    = 3.8
	floatPeriodX = 900.0
	floatPeriodY = 980.0
)

// FloatSeed maps an id to a stable phase in [0, 10]. It is FNV-1a over the
// id's UTF-16 code units, scaled to the unit interval.
func FloatSeed(id string) float64 {
	h := uint32(2166136261)
	for _, u := range utf16.Encode([]rune(id)) {
		h ^= uint32(u)
		h *= 16777619
	}
	return float64(h) / 4294967295 * 10
}

// FloatOffset is the decorative offset of id at t milliseconds.
func FloatOffset(id string, t float64) geom.Vec2 {
	seed := FloatSeed(id)
	return geom.Vec2{
		X: math.Sin(t/floatPeriodX+seed) * floatAmpX,
		Y: math.Cos(t/floatPeriodY+seed*1.7) * floatAmpY,
	}
}

// FloatLimits configures when the float switches off.
type FloatLimits struct {
	MaxPeople      int
	MaxConnections int
}

// DefaultFloatLimits are the stock thresholds.
func DefaultFloatLimits() FloatLimits {
	return FloatLimits{MaxPeople: FloatMaxPeople, MaxConnections: FloatMaxConnections}
}

// Allows reports whether a graph of this size may float.
func (l FloatLimits) Allows(people, connections int) bool {
	return people <= l.MaxPeople && connections <= l.MaxConnections
}

// Offsets computes the decorative offset of every person at t
// milliseconds. Dragged people get a zero offset. When the graph is over
// the limits every offset is zero and enabled is false.
func Offsets(t float64, doc *model.File, dragging map[string]bool, limits FloatLimits) (offsets map[string]geom.Vec2, enabled bool) {
	offsets = make(map[string]geom.Vec2, len(doc.People))
	if !limits.Allows(len(doc.People), len(doc.Connections)) {
		return offsets, false
	}
	for id := range doc.People {
		if dragging[id] {
			continue
		}
		offsets[id] = FloatOffset(id, t)
	}
	return offsets, true
}

// FloatLoop is the idle animation task of one canvas. It does no work on
// its own; the owner calls Frame on every animation tick while Running.
type FloatLoop struct {
	scene  *Scene
	edges  *EdgeEngine
	now    func() time.Time
	limits FloatLimits

	running  bool
	floating bool
	started  time.Time
}

// NewFloatLoop creates a stopped loop. now may be nil.
func NewFloatLoop(scene *Scene, edges *EdgeEngine, now func() time.Time, limits FloatLimits) *FloatLoop {
	if now == nil {
		now = time.Now
	}
	return &FloatLoop{scene: scene, edges: edges, now: now, limits: limits}
}

// Start begins the animation. Starting a running loop does nothing.
func (f *FloatLoop) Start() {
	if f.running {
		return
	}
	f.running = true
	f.started = f.now()
}

// Stop ends the animation and clears every offset. Stopping a stopped
// loop does nothing.
func (f *FloatLoop) Stop() {
	if !f.running {
		return
	}
	f.running = false
	f.floating = false
	f.scene.ClearOffsets()
	f.edges.UpdateAll()
}

// Running reports whether the loop is started.
func (f *FloatLoop) Running() bool { return f.running }

// Frame advances the animation for doc. It returns false when nothing was
// animated, either because the loop is stopped or the graph is too large.
func (f *FloatLoop) Frame(doc *model.File) bool {
	if !f.running {
		return false
	}
	t := float64(f.now().Sub(f.started)) / float64(time.Millisecond)
	offsets, enabled := Offsets(t, doc, f.scene.Dragging(), f.limits)
	if !enabled {
		if f.floating {
			f.floating = false
			f.scene.ClearOffsets()
			f.edges.UpdateAll()
		}
		return false
	}
	f.floating = true
	f.scene.SetOffsets(offsets)
	f.edges.UpdateAll()
	return true
}
