package canvas

import (
	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

// Edge is the render geometry of one connection.
type Edge struct {
	ID    string
	From  string
	To    string
	Color string
	Kind  model.ConnectionKind

	A, B geom.Vec2

	Label    string
	LabelAt  geom.Vec2
	Rotation float64
	LabelBox Size
}

// EdgeEngine keeps the geometry of every edge in step with the scene.
// Label sizes are cached by label text; the cache is dropped when the
// language changes.
type EdgeEngine struct {
	scene   *Scene
	measure Measurer
	redraw  func()

	lang  model.Lang
	conns []model.Connection
	index map[string]int
	adj   map[string][]string
	edges map[string]*Edge
	sizes map[string]Size
}

// NewEdgeEngine creates an engine over scene. redraw may be nil.
func NewEdgeEngine(scene *Scene, m Measurer, redraw func()) *EdgeEngine {
	if redraw == nil {
		redraw = func() {}
	}
	return &EdgeEngine{
		scene:   scene,
		measure: m,
		redraw:  redraw,
		index:   map[string]int{},
		adj:     map[string][]string{},
		edges:   map[string]*Edge{},
		sizes:   map[string]Size{},
	}
}

// Rebuild re-indexes doc's connections and recomputes every edge. Call it
// after a load, a connection change or a language change.
func (e *EdgeEngine) Rebuild(doc *model.File) {
	if doc.Meta.Language != e.lang {
		e.sizes = map[string]Size{}
		e.lang = doc.Meta.Language
	}
	e.conns = doc.Connections
	e.index = make(map[string]int, len(e.conns))
	e.adj = make(map[string][]string)
	e.edges = make(map[string]*Edge, len(e.conns))
	for i := range e.conns {
		c := &e.conns[i]
		e.index[c.ID] = i
		e.adj[c.From] = append(e.adj[c.From], c.ID)
		e.adj[c.To] = append(e.adj[c.To], c.ID)
	}
	for i := range e.conns {
		e.update(&e.conns[i])
	}
	e.redraw()
}

// UpdateFor recomputes only the edges incident to personID.
func (e *EdgeEngine) UpdateFor(personID string) {
	ids := e.adj[personID]
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		e.update(&e.conns[e.index[id]])
	}
	e.redraw()
}

// UpdateAll recomputes every edge; used on animation frames.
func (e *EdgeEngine) UpdateAll() {
	for i := range e.conns {
		e.update(&e.conns[i])
	}
	e.redraw()
}

func (e *EdgeEngine) update(c *model.Connection) {
	a, okA := e.scene.Endpoint(c.From)
	b, okB := e.scene.Endpoint(c.To)
	if !okA || !okB {
		delete(e.edges, c.ID)
		return
	}
	edge := e.edges[c.ID]
	if edge == nil {
		label := i18n.ConnectionLabel(e.lang, c.Kind, c.FamilyRole)
		edge = &Edge{
			ID:       c.ID,
			From:     c.From,
			To:       c.To,
			Color:    c.Color,
			Kind:     c.Kind,
			Label:    label,
			LabelBox: e.labelSize(label),
		}
		e.edges[c.ID] = edge
	}
	edge.A, edge.B = a, b
	edge.LabelAt = a.Mid(b)
	edge.Rotation = geom.AngleDeg(a, b)
}

func (e *EdgeEngine) labelSize(text string) Size {
	if s, ok := e.sizes[text]; ok {
		return s
	}
	s := e.measure.Measure(text)
	e.sizes[text] = s
	return s
}

// Edge returns the geometry of connection id.
func (e *EdgeEngine) Edge(id string) (Edge, bool) {
	edge, ok := e.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *edge, true
}

// Edges returns every drawable edge in document order.
func (e *EdgeEngine) Edges() []Edge {
	out := make([]Edge, 0, len(e.edges))
	for i := range e.conns {
		if edge, ok := e.edges[e.conns[i].ID]; ok {
			out = append(out, *edge)
		}
	}
	return out
}

// Incident returns the ids of connections touching personID.
func (e *EdgeEngine) Incident(personID string) []string { return e.adj[personID] }

// CachedLabels is the number of distinct label texts measured so far.
func (e *EdgeEngine) CachedLabels() int { return len(e.sizes) }
