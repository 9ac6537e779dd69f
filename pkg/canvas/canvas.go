// Package canvas holds the render-side state of the graph editor: the
// scene of positioned nodes, edge geometry, the idle float animation and
// the pointer controller that turns gestures into store operations.
//
// Nothing in this package draws. Renderers read the scene, the edges and
// the controller's viewport and paint them however they like.
package canvas

import (
	"time"

	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/store"
)

// Options configures a Canvas.
type Options struct {
	Store    *store.Store
	Measurer Measurer
	Limits   FloatLimits
	Input    ControllerOptions
	Now      func() time.Time
	Logger   *zap.Logger
	// Redraw is called whenever edge geometry changed.
	Redraw func()
}

// Canvas wires a scene, its edges, the float loop and the controller to
// the active document of a store.
type Canvas struct {
	Scene *Scene
	Edges *EdgeEngine
	Float *FloatLoop
	Ctrl  *Controller

	st        *store.Store
	log       *zap.Logger
	seenDoc   uint64
	seenGraph uint64
}

// New builds a canvas and syncs it with the store's active document.
func New(opts Options) *Canvas {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Measurer == nil {
		opts.Measurer = CellMeasurer{}
	}
	if opts.Limits == (FloatLimits{}) {
		opts.Limits = DefaultFloatLimits()
	}
	if opts.Input.Now == nil {
		opts.Input.Now = opts.Now
	}
	if opts.Input.Logger == nil {
		opts.Input.Logger = opts.Logger
	}

	c := &Canvas{st: opts.Store, log: opts.Logger.Named("canvas")}
	c.Scene = NewScene()
	c.Edges = NewEdgeEngine(c.Scene, opts.Measurer, opts.Redraw)
	c.Float = NewFloatLoop(c.Scene, c.Edges, opts.Now, opts.Limits)
	c.Ctrl = newController(opts.Store, c.Scene, c.Edges, opts.Input, func() { c.Sync() })
	c.Sync()
	return c
}

// Sync brings the scene up to date with the store. A graph change (people
// added or removed, connections, language, tab switch) rebuilds the edge
// index; any other document change refreshes positions only. It reports
// whether anything changed.
func (c *Canvas) Sync() bool {
	doc := c.st.Doc()
	rev, graph := c.st.Revision()
	switch {
	case graph != c.seenGraph:
		c.Scene.Sync(doc)
		c.Edges.Rebuild(doc)
		c.log.Debug("graph rebuilt",
			zap.Int("people", len(doc.People)),
			zap.Int("connections", len(doc.Connections)))
	case rev != c.seenDoc:
		c.Scene.Sync(doc)
		c.Edges.UpdateAll()
	default:
		return false
	}
	c.seenDoc, c.seenGraph = rev, graph
	c.Ctrl.adoptViewport(doc.Viewport)
	return true
}

// Tick advances the idle float by one frame.
func (c *Canvas) Tick() bool {
	return c.Float.Frame(c.st.Doc())
}
