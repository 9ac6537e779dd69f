package analysis

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
)

// brandesBuffers holds the per-source state of Brandes' algorithm. They are
// pooled so repeated sources reuse their maps.
type brandesBuffers struct {
	sigma     map[int64]float64 // shortest path counts from the source
	dist      map[int64]int     // BFS distance, -1 when unvisited
	delta     map[int64]float64 // dependency accumulation
	pred      map[int64][]int64 // predecessors on shortest paths
	queue     []int64
	stack     []int64
	neighbors []int64
}

var brandesPool = sync.Pool{
	New: func() interface{} {
		return &brandesBuffers{
			sigma:     make(map[int64]float64, 256),
			dist:      make(map[int64]int, 256),
			delta:     make(map[int64]float64, 256),
			pred:      make(map[int64][]int64, 256),
			queue:     make([]int64, 0, 256),
			stack:     make([]int64, 0, 256),
			neighbors: make([]int64, 0, 32),
		}
	},
}

// reset prepares the buffers for a new source, keeping capacity.
func (b *brandesBuffers) reset(nodes []graph.Node) {
	if len(b.sigma) > len(nodes)*2 {
		clear(b.sigma)
		clear(b.dist)
		clear(b.delta)
		clear(b.pred)
	}
	for _, n := range nodes {
		nid := n.ID()
		b.sigma[nid] = 0
		b.dist[nid] = -1
		b.delta[nid] = 0
		if existing, ok := b.pred[nid]; ok {
			b.pred[nid] = existing[:0]
		} else {
			b.pred[nid] = make([]int64, 0, 4)
		}
	}
	b.queue = b.queue[:0]
	b.stack = b.stack[:0]
	b.neighbors = b.neighbors[:0]
}

// BetweennessMode says how betweenness was computed.
type BetweennessMode string

const (
	BetweennessExact       BetweennessMode = "exact"
	BetweennessApproximate BetweennessMode = "approximate"
)

// BetweennessResult holds betweenness scores by gonum node id.
type BetweennessResult struct {
	Scores     map[int64]float64
	Mode       BetweennessMode
	SampleSize int
	TotalNodes int
	Elapsed    time.Duration
}

// ApproxBetweenness estimates betweenness centrality from sampleSize pivot
// sources, scaled up to the whole graph. When the sample covers every node
// it falls back to gonum's exact computation.
func ApproxBetweenness(g graph.Undirected, sampleSize int, seed int64) BetweennessResult {
	start := time.Now()
	nodes := graph.NodesOf(g.Nodes())
	n := len(nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	if sampleSize < 1 {
		sampleSize = 1
	}
	result := BetweennessResult{
		Scores:     make(map[int64]float64),
		Mode:       BetweennessApproximate,
		SampleSize: sampleSize,
		TotalNodes: n,
	}
	if n == 0 {
		result.Elapsed = time.Since(start)
		return result
	}
	if sampleSize >= n {
		result.Scores = network.Betweenness(g)
		result.Mode = BetweennessExact
		result.SampleSize = n
		result.Elapsed = time.Since(start)
		return result
	}

	pivots := sampleNodes(nodes, sampleSize, seed)
	partial := make(map[int64]float64)
	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for _, pivot := range pivots {
		eg.Go(func() error {
			local := make(map[int64]float64)
			singleSourceBetweenness(g, nodes, pivot, local)
			mu.Lock()
			for id, v := range local {
				partial[id] += v
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	// Each undirected pair is seen from both ends when every node is a
	// source; halve to match the exact scores.
	scale := float64(n) / float64(sampleSize) / 2
	for id := range partial {
		partial[id] *= scale
	}
	result.Scores = partial
	result.Elapsed = time.Since(start)
	return result
}

// sampleNodes picks k nodes with a partial Fisher-Yates shuffle.
func sampleNodes(nodes []graph.Node, k int, seed int64) []graph.Node {
	if k >= len(nodes) {
		return nodes
	}
	shuffled := make([]graph.Node, len(nodes))
	copy(shuffled, nodes)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}

// singleSourceBetweenness adds the dependency of source on every other
// node to bc.
func singleSourceBetweenness(g graph.Undirected, nodes []graph.Node, source graph.Node, bc map[int64]float64) {
	sourceID := source.ID()
	buf := brandesPool.Get().(*brandesBuffers)
	defer brandesPool.Put(buf)
	buf.reset(nodes)

	sigma, dist, delta, pred := buf.sigma, buf.dist, buf.delta, buf.pred
	sigma[sourceID] = 1
	dist[sourceID] = 0
	buf.queue = append(buf.queue, sourceID)

	for len(buf.queue) > 0 {
		v := buf.queue[0]
		buf.queue = buf.queue[1:]
		buf.stack = append(buf.stack, v)

		buf.neighbors = buf.neighbors[:0]
		it := g.From(v)
		for it.Next() {
			buf.neighbors = append(buf.neighbors, it.Node().ID())
		}
		sort.Slice(buf.neighbors, func(i, j int) bool { return buf.neighbors[i] < buf.neighbors[j] })

		for _, w := range buf.neighbors {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				buf.queue = append(buf.queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}

	for i := len(buf.stack) - 1; i >= 0; i-- {
		w := buf.stack[i]
		if w == sourceID {
			continue
		}
		for _, v := range pred[w] {
			if sigma[w] > 0 {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
		}
		bc[w] += delta[w]
	}
}

// RecommendSampleSize picks a pivot count for a graph of nodeCount people:
// exact below 100, a sample above.
func RecommendSampleSize(nodeCount int) int {
	switch {
	case nodeCount < 100:
		return nodeCount
	case nodeCount < 500:
		if s := nodeCount / 5; s > 50 {
			return s
		}
		return 50
	case nodeCount < 2000:
		return 100
	default:
		return 200
	}
}
