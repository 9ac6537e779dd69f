package analysis

import (
	"fmt"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/graph/network"

	"github.com/vanderheijden86/connections/pkg/model"
)

// pathDoc builds p0 - p1 - ... - p(n-1) plus isolated people.
func pathDoc(n, isolated int) *model.File {
	doc := model.DefaultFile(model.LangEN, time.Now())
	add := func(id string) {
		p := model.NewPerson(id, 0, 0)
		p.Name = model.StrPtr(id)
		doc.People[id] = &p
	}
	for i := 0; i < n; i++ {
		add(fmt.Sprintf("p%02d", i))
		if i > 0 {
			doc.Connections = append(doc.Connections, model.Connection{
				ID:   fmt.Sprintf("c%d", i),
				From: fmt.Sprintf("p%02d", i-1),
				To:   fmt.Sprintf("p%02d", i),
				Kind: model.KindFriend,
			})
		}
	}
	for i := 0; i < isolated; i++ {
		add(fmt.Sprintf("z%d", i))
	}
	return doc
}

func TestComponents(t *testing.T) {
	doc := pathDoc(3, 2)
	comps := Build(doc).Components()
	if len(comps) != 3 {
		t.Fatalf("components = %v", comps)
	}
	if len(comps[0]) != 3 || comps[0][0] != "p00" {
		t.Errorf("largest = %v", comps[0])
	}
	if comps[1][0] != "z0" || comps[2][0] != "z1" {
		t.Errorf("singletons = %v %v", comps[1], comps[2])
	}
}

func TestAnalyze(t *testing.T) {
	doc := pathDoc(5, 1)
	doc.Connections[0].Kind = model.KindFamily
	st := Analyze(doc, Options{Top: 3})

	if st.People != 6 || st.Connections != 4 {
		t.Errorf("counts = %d/%d", st.People, st.Connections)
	}
	if st.Components != 2 || st.Largest != 5 || st.Isolated != 1 {
		t.Errorf("components = %d largest = %d isolated = %d", st.Components, st.Largest, st.Isolated)
	}
	if st.ByKind[model.KindFamily] != 1 || st.ByKind[model.KindFriend] != 3 {
		t.Errorf("by kind = %v", st.ByKind)
	}
	if want := 4.0 / 15; math.Abs(st.Density-want) > 1e-12 {
		t.Errorf("density = %v, want %v", st.Density, want)
	}
	if len(st.TopBetweenness) == 0 || st.TopBetweenness[0].ID != "p02" {
		t.Errorf("most between = %+v, want p02 (middle of the path)", st.TopBetweenness)
	}
	if st.Betweenness != BetweennessExact {
		t.Errorf("mode = %v", st.Betweenness)
	}
	if len(st.TopDegree) != 3 || st.TopDegree[0].Score != 2 || st.TopDegree[0].Name != "p01" {
		t.Errorf("top degree = %+v", st.TopDegree)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	st := Analyze(model.DefaultFile(model.LangEN, time.Now()), Options{})
	if st.People != 0 || st.Components != 0 || st.Density != 0 || len(st.TopDegree) != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestApproxBetweenness_FullSampleMatchesExact(t *testing.T) {
	g := Build(pathDoc(12, 0)).G
	exact := network.Betweenness(g)

	res := ApproxBetweenness(g, 11, 1)
	if res.Mode != BetweennessApproximate {
		t.Fatalf("mode = %v", res.Mode)
	}
	// The middle of a path stays the most central even when sampled.
	best, bestScore := int64(-1), -1.0
	for id, s := range res.Scores {
		if s > bestScore || (s == bestScore && id < best) {
			best, bestScore = id, s
		}
	}
	if best != 5 && best != 6 {
		t.Errorf("most central sampled node = %d, exact %v", best, exact)
	}

	full := ApproxBetweenness(g, 100, 1)
	for id, s := range exact {
		if math.Abs(full.Scores[id]-s) > 1e-9 {
			t.Errorf("node %d: %v vs exact %v", id, full.Scores[id], s)
		}
	}
}

func TestRecommendSampleSize(t *testing.T) {
	tests := []struct{ n, want int }{
		{10, 10}, {99, 99}, {100, 50}, {400, 80}, {1000, 100}, {5000, 200},
	}
	for _, tt := range tests {
		if got := RecommendSampleSize(tt.n); got != tt.want {
			t.Errorf("RecommendSampleSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
