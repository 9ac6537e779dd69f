package canvas

import (
	"fmt"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *fakeClock                   { return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)} }

// countingMeasurer counts Measure calls.
type countingMeasurer struct{ calls int }

func (m *countingMeasurer) Measure(text string) Size {
	m.calls++
	return Size{W: float64(len(text)), H: 1}
}

type fixture struct {
	st      *store.Store
	cv      *Canvas
	clock   *fakeClock
	measure *countingMeasurer
	notices []Notice
	redraws int
}

func newFixture() *fixture {
	f := &fixture{clock: newClock(), measure: &countingMeasurer{}}
	n := 0
	f.st = store.New(store.Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
		Now:      f.clock.Now,
		Language: model.LangEN,
	})
	f.cv = New(Options{
		Store:    f.st,
		Measurer: f.measure,
		Now:      f.clock.Now,
		Redraw:   func() { f.redraws++ },
		Input: ControllerOptions{
			Notify: func(n Notice) { f.notices = append(f.notices, n) },
		},
	})
	return f
}

func (f *fixture) person(x, y float64) string {
	return f.cv.Ctrl.CreatePersonAt(geom.Vec2{X: x, Y: y})
}

func at(x, y float64) Pointer { return Pointer{Pos: geom.Vec2{X: x, Y: y}} }

func (f *fixture) drag(mods Mod, from, to geom.Vec2) {
	c := f.cv.Ctrl
	c.Down(Pointer{Pos: from, Mods: mods})
	mid := from.Mid(to)
	c.Move(Pointer{Pos: mid, Mods: mods})
	c.Move(Pointer{Pos: to, Mods: mods})
	c.Up(Pointer{Pos: to, Mods: mods})
}

func TestEdgeGeometry(t *testing.T) {
	tests := []struct {
		name     string
		a, b     geom.Vec2
		rotation float64
	}{
		{"horizontal", geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 100, Y: 0}, 0},
		{"leftward is upright", geom.Vec2{X: 100, Y: 0}, geom.Vec2{X: 0, Y: 0}, 0},
		{"down", geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 0, Y: 50}, 90},
		{"up folds to down", geom.Vec2{X: 0, Y: 50}, geom.Vec2{X: 0, Y: 0}, 90},
		{"diagonal", geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 10, Y: 10}, 45},
		{"back diagonal", geom.Vec2{X: 10, Y: 10}, geom.Vec2{X: 0, Y: 0}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			a := f.person(tt.a.X, tt.a.Y)
			b := f.person(tt.b.X, tt.b.Y)
			id, ok := f.st.CreateConnection(a, b, model.KindFriend, "")
			if !ok {
				t.Fatal("connect failed")
			}
			f.cv.Sync()

			e, ok := f.cv.Edges.Edge(id)
			if !ok {
				t.Fatal("edge missing")
			}
			if math.Abs(e.Rotation-tt.rotation) > 1e-9 {
				t.Errorf("rotation = %v, want %v", e.Rotation, tt.rotation)
			}
			if e.LabelAt != tt.a.Mid(tt.b) {
				t.Errorf("label at %+v, want midpoint", e.LabelAt)
			}
			if e.Label != "friend" {
				t.Errorf("label = %q", e.Label)
			}
		})
	}
}

func TestEdgeLabel_Family(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(100, 0)
	id, _ := f.st.CreateConnection(a, b, model.KindFamily, model.RoleMother)
	f.cv.Sync()

	e, _ := f.cv.Edges.Edge(id)
	if e.Label != "family — mother" {
		t.Errorf("label = %q", e.Label)
	}
	if e.Color != model.ConnectionColor(model.KindFamily, model.RoleMother) {
		t.Errorf("color = %q", e.Color)
	}
}

func TestEdgeEngine_LabelCache(t *testing.T) {
	f := newFixture()
	a, b, c := f.person(0, 0), f.person(100, 0), f.person(0, 100)
	f.st.CreateConnection(a, b, model.KindFriend, "")
	f.st.CreateConnection(a, c, model.KindFriend, "")
	f.cv.Sync()

	if f.cv.Edges.CachedLabels() != 1 {
		t.Errorf("cached labels = %d, want 1", f.cv.Edges.CachedLabels())
	}
	calls := f.measure.calls

	// Moving people never re-measures.
	f.st.MovePerson(a, 50, 50)
	f.cv.Sync()
	if f.measure.calls != calls {
		t.Errorf("move re-measured labels")
	}

	f.st.SetLanguage(model.LangRU)
	f.cv.Sync()
	if f.measure.calls != calls+1 {
		t.Errorf("language change measured %d labels, want 1", f.measure.calls-calls)
	}
	e := f.cv.Edges.Edges()[0]
	if e.Label != "друг" {
		t.Errorf("label after language change = %q", e.Label)
	}
}

func TestEdgeEngine_UpdateForIsIncidentOnly(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(100, 0)
	c, d := f.person(0, 200), f.person(100, 200)
	ab, _ := f.st.CreateConnection(a, b, model.KindFriend, "")
	cd, _ := f.st.CreateConnection(c, d, model.KindFriend, "")
	f.cv.Sync()

	na, _ := f.cv.Scene.Node(a)
	nc, _ := f.cv.Scene.Node(c)
	na.Base = geom.Vec2{X: 0, Y: 50}
	nc.Base = geom.Vec2{X: 0, Y: 250}
	redraws := f.redraws
	f.cv.Edges.UpdateFor(a)

	if f.redraws != redraws+1 {
		t.Errorf("redraws = %d, want one more", f.redraws-redraws)
	}
	if e, _ := f.cv.Edges.Edge(ab); e.A != (geom.Vec2{X: 0, Y: 50}) {
		t.Errorf("incident edge not updated: %+v", e.A)
	}
	if e, _ := f.cv.Edges.Edge(cd); e.A != (geom.Vec2{X: 0, Y: 200}) {
		t.Errorf("unrelated edge updated: %+v", e.A)
	}

	redraws = f.redraws
	f.cv.Edges.UpdateFor("nobody")
	if f.redraws != redraws {
		t.Error("update for a person without edges redrew")
	}
}

func TestFloatOffset_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.String().Draw(t, "id")
		ms := rapid.Float64Range(0, 1e7).Draw(t, "t")

		a, b := FloatOffset(id, ms), FloatOffset(id, ms)
		if a != b {
			t.Fatalf("offset not deterministic: %+v vs %+v", a, b)
		}
		if math.Abs(a.X) > floatAmpX+1e-9 || math.Abs(a.Y) > floatAmpY+1e-9 {
			t.Fatalf("offset out of range: %+v", a)
		}
		if s := FloatSeed(id); s < 0 || s > 10 {
			t.Fatalf("seed out of range: %v", s)
		}
	})
}

func TestFloatSeed_Known(t *testing.T) {
	// FNV-1a of the empty input is the offset basis.
	want := float64(uint32(2166136261)) / 4294967295 * 10
	if got := FloatSeed(""); got != want {
		t.Errorf("FloatSeed(\"\") = %v, want %v", got, want)
	}
	if FloatSeed("a") == FloatSeed("b") {
		t.Error("different ids share a seed")
	}
}

func TestOffsets(t *testing.T) {
	doc := model.DefaultFile(model.LangEN, time.Now())
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("p%d", i)
		p := model.NewPerson(id, 0, 0)
		doc.People[id] = &p
	}

	offsets, enabled := Offsets(1234, doc, map[string]bool{"p1": true}, DefaultFloatLimits())
	if !enabled {
		t.Fatal("small graph should float")
	}
	if _, ok := offsets["p1"]; ok {
		t.Error("dragged person has an offset")
	}
	if offsets["p0"] != FloatOffset("p0", 1234) {
		t.Error("offset mismatch")
	}

	_, enabled = Offsets(1234, doc, nil, FloatLimits{MaxPeople: 2, MaxConnections: 10})
	if enabled {
		t.Error("graph over the people limit should not float")
	}
}

func TestFloatLoop(t *testing.T) {
	f := newFixture()
	a := f.person(0, 0)
	loop := f.cv.Float

	if f.cv.Tick() {
		t.Fatal("stopped loop animated")
	}
	loop.Start()
	loop.Start()
	f.clock.Advance(500 * time.Millisecond)
	if !f.cv.Tick() {
		t.Fatal("running loop did not animate")
	}
	n, _ := f.cv.Scene.Node(a)
	if n.Offset != FloatOffset(a, 500) {
		t.Errorf("offset = %+v, want %+v", n.Offset, FloatOffset(a, 500))
	}
	if f.st.Doc().People[a].Position != (geom.Vec2{}) {
		t.Error("float leaked into the document")
	}

	loop.Stop()
	if n.Offset != (geom.Vec2{}) {
		t.Error("stop did not clear offsets")
	}
	if loop.Running() {
		t.Error("loop still running")
	}
}

func TestFloatLoop_OverLimitClearsOnce(t *testing.T) {
	f := newFixture()
	a := f.person(0, 0)
	f.cv.Float.limits = FloatLimits{MaxPeople: 1, MaxConnections: 10}
	f.cv.Float.Start()
	f.clock.Advance(time.Second)
	f.cv.Tick()

	f.person(50, 50)
	f.cv.Sync()
	redraws := f.redraws
	if f.cv.Tick() {
		t.Fatal("over-limit graph animated")
	}
	n, _ := f.cv.Scene.Node(a)
	if n.Offset != (geom.Vec2{}) {
		t.Error("offsets not cleared when limit exceeded")
	}
	if f.redraws != redraws+1 {
		t.Errorf("clearing redrew %d times, want 1", f.redraws-redraws)
	}
	redraws = f.redraws
	f.cv.Tick()
	if f.redraws != redraws {
		t.Error("disabled float kept redrawing")
	}
}

func TestTraits(t *testing.T) {
	p := model.NewPerson("x", 0, 0)
	if len(Traits(&p)) != 0 {
		t.Error("default person has traits")
	}
	p.Smokes = model.Yes
	p.Uses = model.Yes
	p.Finance = "high"
	p.Subculture = "goth"
	got := Traits(&p)
	if len(got) != 4 {
		t.Fatalf("traits = %d, want 4", len(got))
	}
	if got[0].Color != "#ef4444" || got[3].Rotation != 275 {
		t.Errorf("unexpected traits %+v", got)
	}
}

func TestOpacity(t *testing.T) {
	tests := []struct {
		scale       float64
		name, label float64
	}{
		{0.3, 0, 0},
		{0.6, 0.7, 0.6},
		{0.72, 0.7, 1},
		{1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.scale), func(t *testing.T) {
			if got := NameOpacity(tt.scale, true); got != tt.name {
				t.Errorf("NameOpacity = %v, want %v", got, tt.name)
			}
			if got := LabelOpacity(tt.scale); got != tt.label {
				t.Errorf("LabelOpacity = %v, want %v", got, tt.label)
			}
		})
	}
	if NameOpacity(1, false) != 0 {
		t.Error("hidden names should be transparent")
	}
}
