package canvas

import (
	"sort"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
)

func v(x, y float64) geom.Vec2 { return geom.Vec2{X: x, Y: y} }

func TestMarquee_SelectsEnclosedPeople(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(10, 10)
	f.person(100, 100)

	if got := f.cv.Scene.InRect(geom.RectFromPoints(v(-5, -5), v(15, 15))); len(got) != 2 {
		t.Fatalf("InRect = %v", got)
	}

	f.drag(ModCtrl, v(-30, -30), v(40, 40))
	got := f.st.Selection().Multi
	sort.Strings(got)
	want := []string{a, b}
	sort.Strings(want)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("multi = %v, want %v", got, want)
	}
	if f.cv.Ctrl.State() != StateIdle {
		t.Errorf("state = %v after release", f.cv.Ctrl.State())
	}
}

func TestMarquee_BelowThresholdKeepsSelection(t *testing.T) {
	f := newFixture()
	a := f.person(0, 0)
	f.st.SetMultiSelected([]string{a})

	f.drag(ModCtrl, v(200, 200), v(203, 204))
	if got := f.st.Selection().Multi; len(got) != 1 {
		t.Errorf("tiny marquee changed selection to %v", got)
	}
}

func TestMarquee_Preview(t *testing.T) {
	f := newFixture()
	c := f.cv.Ctrl
	if _, ok := c.Marquee(); ok {
		t.Fatal("marquee reported while idle")
	}
	c.Down(Pointer{Pos: v(100, 100), Mods: ModCtrl})
	c.Move(Pointer{Pos: v(150, 120), Mods: ModCtrl})
	r, ok := c.Marquee()
	if !ok || r.W != 50 || r.H != 20 {
		t.Errorf("marquee = %+v, %v", r, ok)
	}
}

func TestPan_CommitsOnce(t *testing.T) {
	f := newFixture()
	c := f.cv.Ctrl
	before, _ := f.st.Revision()

	c.Down(at(100, 100))
	for i := 1; i <= 10; i++ {
		c.Move(at(100+float64(i)*5, 100))
		if f.st.Doc().Viewport != geom.DefaultViewport() {
			t.Fatal("viewport committed mid-pan")
		}
	}
	if c.Viewport().X != 50 {
		t.Errorf("live viewport x = %v, want 50", c.Viewport().X)
	}
	c.Up(at(150, 100))

	after, _ := f.st.Revision()
	if after != before+1 {
		t.Errorf("pan produced %d revisions, want 1", after-before)
	}
	if got := f.st.Doc().Viewport; got.X != 50 || got.Y != 0 {
		t.Errorf("stored viewport = %+v", got)
	}
}

func TestPan_BelowThresholdIsClick(t *testing.T) {
	f := newFixture()
	a := f.person(0, 0)
	before, _ := f.st.Revision()

	f.drag(0, v(300, 300), v(301, 301))
	if after, _ := f.st.Revision(); after != before {
		t.Error("jitter committed a viewport")
	}
	if sel := f.st.Selection(); sel.Focused != "" {
		t.Errorf("click on empty canvas kept focus on %q (created %q)", sel.Focused, a)
	}
}

func TestWheel_KeepsPointerAnchored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := newFixture()
		start := geom.Viewport{
			X:     rapid.Float64Range(-500, 500).Draw(t, "x"),
			Y:     rapid.Float64Range(-500, 500).Draw(t, "y"),
			Scale: rapid.Float64Range(0.3, 2.5).Draw(t, "scale"),
		}
		f.st.SetViewport(start)
		f.cv.Sync()
		p := v(rapid.Float64Range(0, 800).Draw(t, "px"), rapid.Float64Range(0, 600).Draw(t, "py"))
		dy := rapid.SampledFrom([]float64{-1, 1}).Draw(t, "dy")

		world := f.cv.Ctrl.Viewport().ToWorld(p)
		f.cv.Ctrl.Wheel(p, dy)
		vp := f.st.Doc().Viewport
		if vp.Scale > start.Scale*geom.WheelStep+1e-9 || vp.Scale < start.Scale/geom.WheelStep-1e-9 {
			t.Fatalf("scale %v not one step from %v", vp.Scale, start.Scale)
		}
		if got := vp.ToScreen(world); !got.Near(p, 1e-6) {
			t.Fatalf("anchor moved: %+v -> %+v", p, got)
		}
	})
}

func TestZoomButtons(t *testing.T) {
	f := newFixture()
	c := f.cv.Ctrl
	c.PanBy(v(40, 30))

	c.ZoomIn()
	vp := f.st.Doc().Viewport
	if vp.Scale != geom.ButtonStep || vp.X != 40 || vp.Y != 30 {
		t.Errorf("zoom in = %+v", vp)
	}
	c.ZoomOut()
	c.ZoomOut()
	if vp := f.st.Doc().Viewport; vp.Scale >= 1 {
		t.Errorf("zoom out scale = %v", vp.Scale)
	}
	c.ResetView()
	if vp := f.st.Doc().Viewport; vp != geom.DefaultViewport() {
		t.Errorf("reset = %+v", vp)
	}
}

func TestFit(t *testing.T) {
	f := newFixture()
	f.person(0, 0)
	f.person(400, 300)
	f.cv.Ctrl.SetSize(800, 600)
	f.cv.Ctrl.Fit()

	vp := f.st.Doc().Viewport
	if want := geom.Fit([]geom.Vec2{v(0, 0), v(400, 300)}, 800, 600); !vp.NearlyEqual(want) {
		t.Errorf("fit = %+v, want %+v", vp, want)
	}
	center := vp.ToScreen(v(200, 150))
	if !center.Near(v(400, 300), 1e-6) {
		t.Errorf("content center on screen = %+v", center)
	}
}

func TestDoubleClick_CreatesPerson(t *testing.T) {
	f := newFixture()
	f.st.SetViewport(geom.Viewport{X: 100, Y: 0, Scale: 2})
	f.cv.Sync()

	f.drag(0, v(300, 300), v(300, 300))
	f.clock.Advance(150 * time.Millisecond)
	f.drag(0, v(302, 301), v(302, 301))

	doc := f.st.Doc()
	if len(doc.People) != 1 {
		t.Fatalf("people = %d, want 1", len(doc.People))
	}
	for id, p := range doc.People {
		if want := v(101, 150.5); p.Position != want {
			t.Errorf("position = %+v, want %+v", p.Position, want)
		}
		if f.st.Selection().Focused != id {
			t.Error("new person not focused")
		}
	}
}

func TestDoubleClick_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		dx    float64
	}{
		{"too slow", 500 * time.Millisecond, 0},
		{"too far", 100 * time.Millisecond, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.drag(0, v(300, 300), v(300, 300))
			f.clock.Advance(tt.delay)
			f.drag(0, v(300+tt.dx, 300), v(300+tt.dx, 300))
			if n := len(f.st.Doc().People); n != 0 {
				t.Errorf("people = %d, want 0", n)
			}
		})
	}
}

func TestNodeDrag(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(200, 0)
	conn, _ := f.st.CreateConnection(a, b, model.KindFriend, "")
	f.cv.Sync()
	f.cv.Float.Start()
	f.clock.Advance(time.Second)
	f.cv.Tick()

	c := f.cv.Ctrl
	c.Down(at(0, 0))
	c.Move(at(1, 1))
	if c.State() != StatePressed {
		t.Fatalf("state = %v, want pressed below threshold", c.State())
	}
	before, _ := f.st.Revision()
	c.Move(at(50, 40))
	c.Move(at(60, 40))

	n, _ := f.cv.Scene.Node(a)
	if !n.Dragging || n.Offset != (geom.Vec2{}) {
		t.Errorf("dragged node = %+v", n)
	}
	if e, _ := f.cv.Edges.Edge(conn); e.A != v(60, 40) {
		t.Errorf("edge endpoint follows drag: %+v", e.A)
	}
	if f.st.Doc().People[a].Position != (geom.Vec2{}) {
		t.Error("drag committed before release")
	}
	f.cv.Tick()
	if n.Offset != (geom.Vec2{}) {
		t.Error("float moved a dragged node")
	}

	c.Up(at(60, 40))
	after, _ := f.st.Revision()
	if after != before+1 {
		t.Errorf("drag produced %d revisions, want 1", after-before)
	}
	if got := f.st.Doc().People[a].Position; got != v(60, 40) {
		t.Errorf("committed position = %+v", got)
	}
	if n.Dragging {
		t.Error("node still dragging")
	}
}

func TestClickSelection(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(200, 0)

	f.drag(ModCtrl, v(0, 0), v(0, 0))
	f.drag(ModCtrl, v(200, 0), v(200, 0))
	sel := f.st.Selection()
	if len(sel.Multi) != 2 || sel.Focused != b {
		t.Errorf("after ctrl clicks: %+v", sel)
	}

	f.drag(ModCtrl, v(0, 0), v(0, 0))
	if sel := f.st.Selection(); sel.IsMulti(a) || !sel.IsMulti(b) || sel.Focused != a {
		t.Errorf("ctrl click did not toggle: %+v", sel)
	}

	f.drag(0, v(0, 0), v(0, 0))
	if sel := f.st.Selection(); len(sel.Multi) != 0 || sel.Focused != a {
		t.Errorf("plain click: %+v", sel)
	}
}

func TestLink_CreateConnection(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(200, 0)
	c := f.cv.Ctrl

	c.Down(Pointer{Pos: v(0, 0), Mods: ModShift})
	c.Move(Pointer{Pos: v(120, 10), Mods: ModShift})
	from, to, ok := c.LinkPreview()
	if !ok || from != a || to != v(120, 10) {
		t.Errorf("preview = %q %+v %v", from, to, ok)
	}
	c.Up(Pointer{Pos: v(195, 5), Mods: ModShift})

	if c.Modal() != ModalConnection {
		t.Fatalf("modal = %v", c.Modal())
	}
	if p := f.st.Selection().Pending; p == nil || p.From != a || p.To != b {
		t.Fatalf("pending = %+v", p)
	}
	if !c.ConfirmConnection(model.KindFriend, "") {
		t.Fatal("confirm failed")
	}
	doc := f.st.Doc()
	if len(doc.Connections) != 1 || doc.Connections[0].Kind != model.KindFriend {
		t.Fatalf("connections = %+v", doc.Connections)
	}
	if edges := f.cv.Edges.Edges(); len(edges) != 1 || edges[0].Label != "friend" {
		t.Errorf("edges = %+v", edges)
	}
	if f.st.Selection().Pending != nil || c.Modal() != ModalNone {
		t.Error("pending or modal not cleared")
	}

	// A second link between the same pair is refused with a warning.
	f.drag(ModAlt, v(200, 0), v(0, 0))
	if c.Modal() != ModalNone {
		t.Error("duplicate link opened the dialog")
	}
	if len(f.notices) != 1 || f.notices[0].Key != "duplicateConnection" {
		t.Errorf("notices = %+v", f.notices)
	}
}

func TestLink_DroppedOnNothing(t *testing.T) {
	f := newFixture()
	f.person(0, 0)
	f.drag(ModShift, v(0, 0), v(300, 300))
	if f.cv.Ctrl.Modal() != ModalNone || f.st.Selection().Pending != nil {
		t.Error("link to empty space opened a dialog")
	}
	f.drag(ModShift, v(0, 0), v(5, 5))
	if f.cv.Ctrl.Modal() != ModalNone {
		t.Error("self link opened a dialog")
	}
}

func TestConfirmConnection_RechecksDuplicate(t *testing.T) {
	f := newFixture()
	a, b := f.person(0, 0), f.person(200, 0)
	f.drag(ModShift, v(0, 0), v(200, 0))

	f.st.CreateConnection(b, a, model.KindAcquaintance, "")
	if f.cv.Ctrl.ConfirmConnection(model.KindFriend, "") {
		t.Error("confirm created a duplicate")
	}
	if len(f.st.Doc().Connections) != 1 {
		t.Errorf("connections = %d", len(f.st.Doc().Connections))
	}
	if f.st.Selection().Pending != nil {
		t.Error("pending kept")
	}
	if len(f.notices) != 1 {
		t.Errorf("notices = %+v", f.notices)
	}
}

func TestBulkDelete(t *testing.T) {
	f := newFixture()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, f.person(float64(i)*100, 0))
	}
	f.st.CreateConnection(ids[0], ids[1], model.KindFriend, "")
	f.st.CreateConnection(ids[3], ids[4], model.KindFriend, "")
	f.st.SetMultiSelected(ids[:3])
	c := f.cv.Ctrl

	c.Key(KeyDelete, true)
	if c.Modal() != ModalNone {
		t.Fatal("delete while typing opened the dialog")
	}
	c.Key(KeyDelete, false)
	if c.Modal() != ModalBulkDelete {
		t.Fatalf("modal = %v", c.Modal())
	}
	before, _ := f.st.Revision()
	if n := c.ConfirmBulkDelete(); n != 3 {
		t.Errorf("deleted %d, want 3", n)
	}
	after, _ := f.st.Revision()
	if after != before+1 {
		t.Errorf("bulk delete produced %d revisions", after-before)
	}
	doc := f.st.Doc()
	if len(doc.People) != 2 || len(doc.Connections) != 1 {
		t.Errorf("people = %d connections = %d", len(doc.People), len(doc.Connections))
	}
	if f.cv.Scene.Len() != 2 || len(f.cv.Edges.Edges()) != 1 {
		t.Error("scene not synced after delete")
	}
	if len(f.st.Selection().Multi) != 0 {
		t.Error("multi-selection kept")
	}
}

func TestEscape(t *testing.T) {
	f := newFixture()
	a := f.person(0, 0)
	f.st.SetMultiSelected([]string{a})
	c := f.cv.Ctrl

	c.Key(KeyDelete, false)
	c.Key(KeyEscape, false)
	if c.Modal() != ModalNone {
		t.Error("escape kept the dialog open")
	}
	if len(f.st.Selection().Multi) != 1 {
		t.Error("closing the dialog cleared the selection")
	}

	c.Key(KeyEscape, true)
	if len(f.st.Selection().Multi) != 1 {
		t.Error("escape while typing cleared the selection")
	}
	c.Key(KeyEscape, false)
	if len(f.st.Selection().Multi) != 0 {
		t.Error("escape did not clear the selection")
	}
}

func TestModalBlocksPointer(t *testing.T) {
	f := newFixture()
	f.person(0, 0)
	f.person(200, 0)
	f.drag(ModShift, v(0, 0), v(200, 0))

	before, _ := f.st.Revision()
	f.drag(0, v(500, 500), v(600, 600))
	f.cv.Ctrl.Wheel(v(10, 10), -1)
	if after, _ := f.st.Revision(); after != before {
		t.Error("input reached the canvas behind a dialog")
	}
	f.cv.Ctrl.CancelModal()
	if f.st.Selection().Pending != nil {
		t.Error("cancel kept the pending connection")
	}
}

func TestSync_FollowsTabSwitch(t *testing.T) {
	f := newFixture()
	f.person(0, 0)
	first := f.st.ActiveTab().ID
	f.st.NewTab()
	f.st.SetViewport(geom.Viewport{X: 10, Y: 20, Scale: 1.5})
	f.cv.Sync()
	if f.cv.Scene.Len() != 0 {
		t.Error("new tab shows old people")
	}
	if vp := f.cv.Ctrl.Viewport(); vp.X != 10 || vp.Scale != 1.5 {
		t.Errorf("viewport not adopted: %+v", vp)
	}

	f.st.SwitchTab(first)
	if !f.cv.Sync() {
		t.Fatal("tab switch not detected")
	}
	if f.cv.Scene.Len() != 1 {
		t.Error("switching back lost people")
	}
	if f.cv.Sync() {
		t.Error("second sync reported a change")
	}
}
