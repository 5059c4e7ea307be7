package analysis

import (
	"container/heap"
	"math"
	"sort"

	"github.com/janusai/graftnet/pkg/graph"
)

// nodeDist is a priority queue entry for the Dijkstra traversals
type nodeDist struct {
	ref  graph.NodeRef
	dist float64
}

// nodeDistHeap implements a min-heap over (distance, node handle)
type nodeDistHeap []nodeDist

func (h nodeDistHeap) Len() int { return len(h) }
func (h nodeDistHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].ref < h[j].ref
}
func (h nodeDistHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeDistHeap) Push(x any) {
	*h = append(*h, x.(nodeDist))
}

func (h *nodeDistHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Betweenness computes weighted betweenness centrality for every node using
// Brandes' algorithm over Dijkstra traversals. The edge weight is read
// directly as path cost, the convention inherited from the upstream
// pipeline: heavily trafficked pairs count as longer hops. Interaction
// counts are whole numbers, so distances stay exact in float64 and equal
// paths compare with ==. Scores are normalized by 1/((n-1)(n-2)) for n > 2.
func Betweenness(g *graph.Graph) []float64 {
	n := g.NodeCount()
	betweenness := make([]float64, n)
	if n < 3 {
		// With fewer than three nodes no shortest path has an interior node
		return betweenness
	}

	dist := make([]float64, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	preds := make([][]graph.NodeRef, n)

	for source := 0; source < n; source++ {
		for i := 0; i < n; i++ {
			dist[i] = math.Inf(1)
			sigma[i] = 0
			delta[i] = 0
			preds[i] = preds[i][:0]
		}

		src := graph.NodeRef(source)
		dist[src] = 0
		sigma[src] = 1

		stack := make([]graph.NodeRef, 0, n)
		pq := &nodeDistHeap{{ref: src, dist: 0}}

		for pq.Len() > 0 {
			item := heap.Pop(pq).(nodeDist)
			v := item.ref
			if item.dist > dist[v] {
				continue // stale queue entry
			}
			stack = append(stack, v)

			for _, eref := range g.Incident(v) {
				w := g.Other(eref, v)
				alt := dist[v] + float64(g.Edge(eref).Weight)

				if alt < dist[w] {
					dist[w] = alt
					sigma[w] = sigma[v]
					preds[w] = append(preds[w][:0], v)
					heap.Push(pq, nodeDist{ref: w, dist: alt})
				} else if alt == dist[w] {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Back-propagation in reverse settle order
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, u := range preds[w] {
				delta[u] += (sigma[u] / sigma[w]) * (1 + delta[w])
			}
			if w != src {
				betweenness[w] += delta[w]
			}
		}
	}

	normFactor := 1.0 / float64((n-1)*(n-2))
	for i := range betweenness {
		betweenness[i] *= normFactor
	}

	return betweenness
}

// DegreeCentrality returns each node's distinct-counterparty count scaled
// by 1/(n-1)
func DegreeCentrality(g *graph.Graph) []float64 {
	n := g.NodeCount()
	degree := make([]float64, n)
	if n <= 1 {
		return degree
	}

	for ref := 0; ref < n; ref++ {
		degree[ref] = float64(g.Degree(graph.NodeRef(ref))) / float64(n-1)
	}
	return degree
}

// PageRankResult contains PageRank scores indexed by node handle
type PageRankResult struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// PageRank computes weighted PageRank over the undirected interaction
// graph. A neighbor's vote is proportional to the connecting edge weight
// over the neighbor's total strength; nodes with no edges spread their mass
// uniformly. Scores are normalized to sum to 1.
func PageRank(g *graph.Graph, opts PageRankOptions) *PageRankResult {
	n := g.NodeCount()
	if n == 0 {
		return &PageRankResult{Scores: make([]float64, 0), Converged: true}
	}

	scores := make([]float64, n)
	newScores := make([]float64, n)
	initial := 1.0 / float64(n)
	for i := range scores {
		scores[i] = initial
	}

	strength := make([]float64, n)
	dangling := make([]graph.NodeRef, 0)
	for ref := 0; ref < n; ref++ {
		var s float64
		for _, eref := range g.Incident(graph.NodeRef(ref)) {
			s += float64(g.Edge(eref).Weight)
		}
		strength[ref] = s
		if s == 0 {
			dangling = append(dangling, graph.NodeRef(ref))
		}
	}

	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		var danglingSum float64
		for _, ref := range dangling {
			danglingSum += scores[ref]
		}
		base := (1.0-opts.DampingFactor)/float64(n) + opts.DampingFactor*danglingSum/float64(n)

		for v := 0; v < n; v++ {
			score := base
			for _, eref := range g.Incident(graph.NodeRef(v)) {
				u := g.Other(eref, graph.NodeRef(v))
				weight := float64(g.Edge(eref).Weight)
				score += opts.DampingFactor * scores[u] * weight / strength[u]
			}
			newScores[v] = score
		}

		maxDiff := 0.0
		for i := range scores {
			if diff := math.Abs(newScores[i] - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, newScores = newScores, scores
		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	// Normalize scores to sum to 1
	var sum float64
	for _, s := range scores {
		sum += s
	}
	if sum > 0 {
		for i := range scores {
			scores[i] /= sum
		}
	}

	return &PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
	}
}

// CentralityScores runs all three centrality measures and assembles the
// per-node table, ordered by centrality risk descending then node id. The
// risk blends betweenness and PageRank equally on a 0-100 scale; it is
// informational and does not feed the per-transaction aggregation.
func CentralityScores(g *graph.Graph, opts PageRankOptions) []CentralityRecord {
	rows := make([]CentralityRecord, 0, g.NodeCount())
	if g.NodeCount() == 0 {
		return rows
	}

	betweenness := Betweenness(g)
	degree := DegreeCentrality(g)
	pagerank := PageRank(g, opts)

	for ref := 0; ref < g.NodeCount(); ref++ {
		node := g.Node(graph.NodeRef(ref))
		rows = append(rows, CentralityRecord{
			NodeID:              node.ID,
			NodeType:            node.Kind.String(),
			Betweenness:         betweenness[ref],
			DegreeCentrality:    degree[ref],
			PageRank:            pagerank.Scores[ref],
			CentralityRiskScore: (betweenness[ref]*100 + pagerank.Scores[ref]*100) / 2,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CentralityRiskScore != rows[j].CentralityRiskScore {
			return rows[i].CentralityRiskScore > rows[j].CentralityRiskScore
		}
		return rows[i].NodeID < rows[j].NodeID
	})

	return rows
}
