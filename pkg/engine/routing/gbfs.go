package routing

import (
	"time"

	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/util"
)

// GreedyBestFirst orders the frontier by the heuristic alone, ignoring
// accumulated cost. not optimal: the returned distance is only an upper
// bound on the true shortest path. included for comparison against the
// optimal strategies.
type GreedyBestFirst struct {
	graph   *da.Graph
	overlay *da.Overlay

	pq         *da.MinHeap[string]
	distances  map[string]float64
	previous   map[string]string
	discovered map[string]bool

	visitOrder    []string
	edgesExplored int
}

func NewGreedyBestFirst(graph *da.Graph, overlay *da.Overlay) *GreedyBestFirst {
	return &GreedyBestFirst{
		graph:      graph,
		overlay:    overlay,
		pq:         da.NewFourAryHeap[string](),
		distances:  make(map[string]float64, graph.NumberOfVertices()),
		previous:   make(map[string]string, graph.NumberOfVertices()),
		discovered: make(map[string]bool, graph.NumberOfVertices()),
		visitOrder: make([]string, 0, 64),
	}
}

func (gb *GreedyBestFirst) Run(source, target string) (*SearchResult, error) {
	start := time.Now()
	goalCoord := gb.graph.NodeCoordinate(target)

	h := func(id string) float64 {
		return geo.HaversineDistance(gb.graph.NodeCoordinate(id), goalCoord)
	}

	gb.distances[source] = 0
	gb.discovered[source] = true
	gb.pq.Insert(da.NewPriorityQueueNode(h(source), source))

	reached := false
	for !gb.pq.IsEmpty() {
		min, _ := gb.pq.ExtractMin()
		u := min.GetItem()
		gb.visitOrder = append(gb.visitOrder, u)

		if u == target {
			reached = true
			break
		}

		// first-discovery ordering: a neighbor keeps the parent that found it
		// first, there is no relaxation against accumulated cost.
		gb.graph.ForOutEdgesOf(u, gb.overlay, func(e *da.Edge) {
			gb.edgesExplored++
			v := e.GetTo()
			if gb.discovered[v] {
				return
			}
			gb.discovered[v] = true
			gb.distances[v] = gb.distances[u] + e.GetWeight()
			gb.previous[v] = u
			gb.pq.Insert(da.NewPriorityQueueNode(h(v), v))
		})
	}

	if !reached {
		return nil, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
			"gbfs: no path from %s to %s", source, target)
	}

	path := reconstructPath(gb.graph, gb.previous, source, target)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return newSearchResult(path, gb.distances[target], elapsed, gb.visitOrder, gb.edgesExplored), nil
}
