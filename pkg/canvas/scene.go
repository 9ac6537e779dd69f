package canvas

import (
	"math"
	"sort"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
)

// NodeRadius is the hit radius of a person in world units.
const NodeRadius = 22.0

// Node is the transient visual state of one person. Base follows the
// committed position except while the node is being dragged; Offset is the
// decorative float and never reaches the store.
type Node struct {
	Base     geom.Vec2
	Offset   geom.Vec2
	Dragging bool
}

// Endpoint is where the node is drawn and where its edges attach.
func (n *Node) Endpoint() geom.Vec2 { return n.Base.Add(n.Offset) }

// Scene holds a Node per person of the visible document.
type Scene struct {
	nodes map[string]*Node
	order []string
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{nodes: map[string]*Node{}}
}

// Sync adds and removes nodes to match doc and copies committed positions
// into every node that is not being dragged. Offsets are kept.
func (s *Scene) Sync(doc *model.File) {
	for id := range s.nodes {
		if doc.People[id] == nil {
			delete(s.nodes, id)
		}
	}
	for id, p := range doc.People {
		n := s.nodes[id]
		if n == nil {
			n = &Node{}
			s.nodes[id] = n
		}
		if !n.Dragging {
			n.Base = p.Position
		}
	}
	s.order = s.order[:0]
	for id := range s.nodes {
		s.order = append(s.order, id)
	}
	sort.Strings(s.order)
}

// Node returns the node for id.
func (s *Scene) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Endpoint returns the drawn position of id.
func (s *Scene) Endpoint(id string) (geom.Vec2, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return geom.Vec2{}, false
	}
	return n.Endpoint(), true
}

// IDs returns the node ids in a stable order.
func (s *Scene) IDs() []string { return s.order }

// Len is the number of nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Dragging returns the set of nodes currently being dragged.
func (s *Scene) Dragging() map[string]bool {
	out := map[string]bool{}
	for id, n := range s.nodes {
		if n.Dragging {
			out[id] = true
		}
	}
	return out
}

// SetOffsets applies decorative offsets; nodes missing from offsets are
// reset to zero.
func (s *Scene) SetOffsets(offsets map[string]geom.Vec2) {
	for id, n := range s.nodes {
		n.Offset = offsets[id]
	}
}

// ClearOffsets zeroes every decorative offset.
func (s *Scene) ClearOffsets() { s.SetOffsets(nil) }

// HitTest returns the node whose endpoint is nearest to p within radius,
// or "".
func (s *Scene) HitTest(p geom.Vec2, radius float64) string {
	best := ""
	bestDist := math.Inf(1)
	for _, id := range s.order {
		d := s.nodes[id].Endpoint().Sub(p).Len()
		if d <= radius && d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// InRect returns the nodes whose endpoint lies inside r.
func (s *Scene) InRect(r geom.Rect) []string {
	var ids []string
	for _, id := range s.order {
		if r.Contains(s.nodes[id].Endpoint()) {
			ids = append(ids, id)
		}
	}
	return ids
}
