// Package analysis computes structural statistics of a relationship graph:
// connected groups, degree and betweenness centrality.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/connections/pkg/model"
)

// Graph is a document's people and connections as an undirected gonum
// graph.
type Graph struct {
	G   *simple.UndirectedGraph
	ids []string
	idx map[string]int64
}

// Build converts doc. Node ids follow the sorted person ids.
func Build(doc *model.File) *Graph {
	g := &Graph{G: simple.NewUndirectedGraph(), idx: make(map[string]int64, len(doc.People))}
	for id := range doc.People {
		g.ids = append(g.ids, id)
	}
	sort.Strings(g.ids)
	for i, id := range g.ids {
		g.idx[id] = int64(i)
		g.G.AddNode(simple.Node(i))
	}
	for _, c := range doc.Connections {
		from, okF := g.idx[c.From]
		to, okT := g.idx[c.To]
		if !okF || !okT || from == to {
			continue
		}
		g.G.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	return g
}

// PersonID maps a gonum node id back to the person id.
func (g *Graph) PersonID(n int64) string { return g.ids[n] }

// Degree returns the number of connections of personID.
func (g *Graph) Degree(personID string) int {
	n, ok := g.idx[personID]
	if !ok {
		return 0
	}
	return g.G.From(n).Len()
}

// Components returns the connected groups of people, largest first. Ids
// within a group are sorted.
func (g *Graph) Components() [][]string {
	cc := topo.ConnectedComponents(g.G)
	out := make([][]string, 0, len(cc))
	for _, comp := range cc {
		ids := make([]string, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, g.ids[n.ID()])
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// Ranked is a person with a score.
type Ranked struct {
	ID    string
	Name  string
	Score float64
}

// Stats summarizes a document.
type Stats struct {
	People      int
	Connections int
	ByKind      map[model.ConnectionKind]int
	Components  int
	Largest     int
	Isolated    int
	Density     float64

	TopDegree      []Ranked
	TopBetweenness []Ranked
	Betweenness    BetweennessMode
}

// Options tunes Analyze.
type Options struct {
	// Top is how many people each ranking keeps.
	Top int
	// Seed drives pivot sampling on large graphs.
	Seed int64
	// SkipBetweenness leaves TopBetweenness empty.
	SkipBetweenness bool
}

// Analyze computes Stats for doc.
func Analyze(doc *model.File, opts Options) Stats {
	if opts.Top <= 0 {
		opts.Top = 5
	}
	g := Build(doc)
	st := Stats{
		People:      len(doc.People),
		Connections: len(doc.Connections),
		ByKind:      map[model.ConnectionKind]int{},
	}
	for _, c := range doc.Connections {
		st.ByKind[c.Kind]++
	}
	comps := g.Components()
	st.Components = len(comps)
	for _, c := range comps {
		if len(c) > st.Largest {
			st.Largest = len(c)
		}
		if len(c) == 1 {
			st.Isolated++
		}
	}
	if n := float64(st.People); n > 1 {
		st.Density = float64(g.G.Edges().Len()) / (n * (n - 1) / 2)
	}

	degree := make(map[string]float64, len(g.ids))
	for _, id := range g.ids {
		if d := g.Degree(id); d > 0 {
			degree[id] = float64(d)
		}
	}
	st.TopDegree = rank(doc, degree, opts.Top)

	if !opts.SkipBetweenness {
		res := ApproxBetweenness(g.G, RecommendSampleSize(len(g.ids)), opts.Seed)
		bc := make(map[string]float64, len(res.Scores))
		for n, s := range res.Scores {
			if s > 0 {
				bc[g.PersonID(n)] = s
			}
		}
		st.TopBetweenness = rank(doc, bc, opts.Top)
		st.Betweenness = res.Mode
	}
	return st
}

func rank(doc *model.File, scores map[string]float64, top int) []Ranked {
	out := make([]Ranked, 0, len(scores))
	for id, s := range scores {
		out = append(out, Ranked{ID: id, Name: doc.People[id].DisplayName(), Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}
