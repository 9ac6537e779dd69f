package canvas

import (
	"time"

	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/store"
)

const (
	// PanThreshold is how far (screen pixels) the pointer must travel
	// before a press on empty canvas becomes a pan, or a press on a node
	// becomes a drag.
	PanThreshold = 2.0
	// MarqueeThreshold is the minimum marquee extent (world units) that
	// changes the selection.
	MarqueeThreshold = 6.0

	// DoubleClickInterval and DoubleClickSlop bound two clicks that count
	// as a double click.
	DoubleClickInterval = 400 * time.Millisecond
	DoubleClickSlop     = 4.0
)

// Mod is a set of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Has reports whether any modifier of o is held.
func (m Mod) Has(o Mod) bool { return m&o != 0 }

// Pointer is a pointer event in screen coordinates.
type Pointer struct {
	Pos  geom.Vec2
	Mods Mod
}

// State is the gesture the controller is tracking.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateMarquee
	StatePressed
	StateNodeDrag
	StateLinking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StateMarquee:
		return "marquee"
	case StatePressed:
		return "pressed"
	case StateNodeDrag:
		return "drag"
	case StateLinking:
		return "linking"
	}
	return "unknown"
}

// Modal is the confirmation dialog currently open, if any.
type Modal int

const (
	ModalNone Modal = iota
	ModalConnection
	ModalBulkDelete
)

// Key is a keyboard command the controller understands.
type Key int

const (
	KeyEscape Key = iota
	KeyDelete
)

// NoticeLevel grades a user-facing message.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Notice is a message for the user, by localization key.
type Notice struct {
	Level  NoticeLevel
	Key    string
	Params map[string]string
}

// ControllerOptions tunes the input mapping.
type ControllerOptions struct {
	// LinkMods start a link gesture when held on a node press.
	LinkMods Mod
	// MarqueeMods start a marquee when held on an empty canvas press.
	MarqueeMods Mod
	Now         func() time.Time
	Notify      func(Notice)
	Logger      *zap.Logger
}

// Controller turns pointer and key input into scene and store changes.
type Controller struct {
	st     *store.Store
	scene  *Scene
	edges  *EdgeEngine
	opts   ControllerOptions
	log    *zap.Logger
	change func()

	live  geom.Viewport
	size  geom.Vec2
	state State
	modal Modal

	down     geom.Vec2
	origin   geom.Viewport
	moved    bool
	downMods Mod

	marqueeA geom.Vec2
	marqueeB geom.Vec2

	target string
	grab   geom.Vec2

	linkFrom string
	linkTo   geom.Vec2

	lastClick    time.Time
	lastClickPos geom.Vec2
	haveClick    bool
}

func newController(st *store.Store, scene *Scene, edges *EdgeEngine, opts ControllerOptions, change func()) *Controller {
	if opts.LinkMods == 0 {
		opts.LinkMods = ModShift | ModAlt
	}
	if opts.MarqueeMods == 0 {
		opts.MarqueeMods = ModCtrl
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notify == nil {
		opts.Notify = func(Notice) {}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if change == nil {
		change = func() {}
	}
	return &Controller{
		st:     st,
		scene:  scene,
		edges:  edges,
		opts:   opts,
		log:    opts.Logger.Named("controller"),
		change: change,
		live:   st.Doc().Viewport,
	}
}

// State returns the current gesture.
func (c *Controller) State() State { return c.state }

// Modal returns the open confirmation, if any.
func (c *Controller) Modal() Modal { return c.modal }

// Viewport is the viewport being rendered, which runs ahead of the stored
// one during a pan.
func (c *Controller) Viewport() geom.Viewport { return c.live }

// SetSize records the canvas size in screen pixels; Fit centers within it.
func (c *Controller) SetSize(w, h float64) { c.size = geom.Vec2{X: w, Y: h} }

// Marquee returns the live marquee rectangle in world space.
func (c *Controller) Marquee() (geom.Rect, bool) {
	if c.state != StateMarquee {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(c.marqueeA, c.marqueeB), true
}

// LinkPreview returns the source node and the pointer position (world) of
// an active link gesture.
func (c *Controller) LinkPreview() (from string, to geom.Vec2, ok bool) {
	if c.state != StateLinking {
		return "", geom.Vec2{}, false
	}
	return c.linkFrom, c.linkTo, true
}

// adoptViewport follows the stored viewport unless a pan is in progress.
func (c *Controller) adoptViewport(vp geom.Viewport) {
	if c.state == StatePanning && c.moved {
		return
	}
	c.live = vp
}

// cancelGesture drops any gesture in progress without committing it.
func (c *Controller) cancelGesture() {
	if c.state == StateNodeDrag || c.state == StatePressed {
		if n, ok := c.scene.Node(c.target); ok {
			n.Dragging = false
		}
	}
	if c.state == StatePanning {
		c.live = c.origin
	}
	c.state = StateIdle
	c.target = ""
	c.linkFrom = ""
}

func (c *Controller) world(p geom.Vec2) geom.Vec2 { return c.live.ToWorld(p) }

// Down handles a primary button press.
func (c *Controller) Down(ev Pointer) {
	if c.modal != ModalNone {
		return
	}
	if c.state != StateIdle {
		c.cancelGesture()
	}
	w := c.world(ev.Pos)
	c.down = ev.Pos
	c.downMods = ev.Mods
	c.moved = false

	if id := c.scene.HitTest(w, NodeRadius); id != "" {
		if ev.Mods.Has(c.opts.LinkMods) {
			c.state = StateLinking
			c.linkFrom = id
			c.linkTo = w
			c.st.SetSelected(id)
			return
		}
		c.state = StatePressed
		c.target = id
		return
	}

	if ev.Mods.Has(c.opts.MarqueeMods) {
		c.state = StateMarquee
		c.marqueeA, c.marqueeB = w, w
		return
	}

	c.st.SetSelected("")
	c.st.ClearMultiSelected()
	c.state = StatePanning
	c.origin = c.live
}

// Move handles pointer motion with the primary button held.
func (c *Controller) Move(ev Pointer) {
	w := c.world(ev.Pos)
	d := ev.Pos.Sub(c.down)
	beyond := abs(d.X) > PanThreshold || abs(d.Y) > PanThreshold

	switch c.state {
	case StatePanning:
		if !c.moved && beyond {
			c.moved = true
		}
		if c.moved {
			c.live = c.origin.Panned(d)
		}
	case StateMarquee:
		c.marqueeB = w
	case StatePressed:
		if !beyond {
			return
		}
		n, ok := c.scene.Node(c.target)
		if !ok {
			c.state = StateIdle
			return
		}
		n.Dragging = true
		n.Offset = geom.Vec2{}
		c.grab = n.Base.Sub(c.world(c.down))
		c.state = StateNodeDrag
		fallthrough
	case StateNodeDrag:
		n, ok := c.scene.Node(c.target)
		if !ok {
			c.state = StateIdle
			return
		}
		n.Base = w.Add(c.grab)
		c.edges.UpdateFor(c.target)
	case StateLinking:
		c.linkTo = w
	}
}

// Up handles the primary button release.
func (c *Controller) Up(ev Pointer) {
	w := c.world(ev.Pos)
	state := c.state
	c.state = StateIdle

	switch state {
	case StatePanning:
		if c.moved {
			c.live = c.origin.Panned(ev.Pos.Sub(c.down))
			c.st.SetViewport(c.live)
			c.haveClick = false
			c.change()
			return
		}
		c.emptyClick(ev, w)

	case StateMarquee:
		r := geom.RectFromPoints(c.marqueeA, w)
		if r.W > MarqueeThreshold || r.H > MarqueeThreshold {
			c.st.SetMultiSelected(c.scene.InRect(r))
		}
		c.haveClick = false

	case StatePressed:
		id := c.target
		c.target = ""
		c.haveClick = false
		if c.downMods.Has(ModCtrl) {
			c.st.ToggleMultiSelected(id)
			c.st.SetSelected(id)
			return
		}
		c.st.ClearMultiSelected()
		c.st.SetSelected(id)

	case StateNodeDrag:
		id := c.target
		c.target = ""
		c.haveClick = false
		n, ok := c.scene.Node(id)
		if !ok {
			return
		}
		n.Dragging = false
		c.st.MovePerson(id, n.Base.X, n.Base.Y)
		c.change()
		c.edges.UpdateFor(id)

	case StateLinking:
		from := c.linkFrom
		c.linkFrom = ""
		c.haveClick = false
		to := c.scene.HitTest(w, NodeRadius)
		if to == "" || to == from {
			return
		}
		if c.st.ConnectionExistsBetween(from, to) {
			c.opts.Notify(Notice{Level: NoticeWarning, Key: "duplicateConnection"})
			return
		}
		c.st.SetPendingConnection(from, to)
		c.modal = ModalConnection
	}
}

// emptyClick handles a click that neither panned nor hit a node; the
// second of two quick clicks creates a person.
func (c *Controller) emptyClick(ev Pointer, w geom.Vec2) {
	now := c.opts.Now()
	if c.haveClick &&
		now.Sub(c.lastClick) <= DoubleClickInterval &&
		ev.Pos.Sub(c.lastClickPos).Len() <= DoubleClickSlop &&
		!ev.Mods.Has(c.opts.MarqueeMods) {
		c.haveClick = false
		c.CreatePersonAt(w)
		return
	}
	c.haveClick = true
	c.lastClick = now
	c.lastClickPos = ev.Pos
}

// CreatePersonAt adds a person at a world position and focuses it.
func (c *Controller) CreatePersonAt(w geom.Vec2) string {
	id := c.st.CreatePerson(w.X, w.Y)
	c.change()
	return id
}

// Wheel zooms around the pointer by one step and commits immediately.
// A negative deltaY zooms in.
func (c *Controller) Wheel(pos geom.Vec2, deltaY float64) {
	if c.modal != ModalNone || c.state == StatePanning {
		return
	}
	c.live = c.live.Wheel(pos, deltaY)
	c.commitViewport()
}

// ZoomIn scales up by one control step, keeping the pan offset.
func (c *Controller) ZoomIn() {
	c.live = c.live.Rescaled(geom.ButtonStep)
	c.commitViewport()
}

// ZoomOut scales down by one control step, keeping the pan offset.
func (c *Controller) ZoomOut() {
	c.live = c.live.Rescaled(1 / geom.ButtonStep)
	c.commitViewport()
}

// Fit frames every person in the canvas.
func (c *Controller) Fit() {
	c.live = geom.Fit(c.st.Doc().Positions(), c.size.X, c.size.Y)
	c.commitViewport()
}

// ResetView returns to the identity viewport.
func (c *Controller) ResetView() {
	c.live = geom.DefaultViewport()
	c.commitViewport()
}

// PanBy moves the view by a screen delta and commits it.
func (c *Controller) PanBy(d geom.Vec2) {
	c.live = c.live.Panned(d)
	c.commitViewport()
}

func (c *Controller) commitViewport() {
	c.st.SetViewport(c.live)
	c.change()
}

// Key handles a keyboard command. typing reports whether a text input has
// focus.
func (c *Controller) Key(k Key, typing bool) {
	switch k {
	case KeyEscape:
		if c.modal != ModalNone {
			c.CancelModal()
			return
		}
		if c.state != StateIdle {
			c.cancelGesture()
			return
		}
		if !typing {
			c.st.ClearMultiSelected()
		}
	case KeyDelete:
		if typing || c.modal != ModalNone {
			return
		}
		if len(c.st.Selection().Multi) > 0 {
			c.modal = ModalBulkDelete
		}
	}
}

// OpenBulkDelete asks for confirmation before deleting the multi-selection.
func (c *Controller) OpenBulkDelete() {
	if c.modal == ModalNone && len(c.st.Selection().Multi) > 0 {
		c.modal = ModalBulkDelete
	}
}

// CancelModal closes the open confirmation without side effects.
func (c *Controller) CancelModal() {
	if c.modal == ModalConnection {
		c.st.ClearPendingConnection()
	}
	c.modal = ModalNone
}

// ConfirmConnection creates the pending connection with the chosen kind.
// It re-checks for an existing connection, which may have appeared while
// the dialog was open.
func (c *Controller) ConfirmConnection(kind model.ConnectionKind, role model.FamilyRole) bool {
	if c.modal != ModalConnection {
		return false
	}
	c.modal = ModalNone
	p := c.st.Selection().Pending
	c.st.ClearPendingConnection()
	if p == nil {
		return false
	}
	if c.st.ConnectionExistsBetween(p.From, p.To) {
		c.opts.Notify(Notice{Level: NoticeWarning, Key: "duplicateConnection"})
		return false
	}
	_, ok := c.st.CreateConnection(p.From, p.To, kind, role)
	if ok {
		c.change()
	}
	return ok
}

// ConfirmBulkDelete deletes every multi-selected person.
func (c *Controller) ConfirmBulkDelete() int {
	if c.modal != ModalBulkDelete {
		return 0
	}
	c.modal = ModalNone
	ids := c.st.Selection().Multi
	if !c.st.DeleteManyPeople(ids) {
		return 0
	}
	c.log.Debug("bulk delete", zap.Int("count", len(ids)))
	c.change()
	return len(ids)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
