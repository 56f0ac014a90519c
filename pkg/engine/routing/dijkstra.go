package routing

import (
	"time"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/util"
)

// Dijkstra single-pair shortest path with priority = accumulated cost.
// optimal for the strictly positive weights the graph model guarantees.
type Dijkstra struct {
	graph   *da.Graph
	overlay *da.Overlay

	pq        *da.MinHeap[string]
	distances map[string]float64
	previous  map[string]string
	settled   map[string]bool

	visitOrder    []string
	edgesExplored int
}

func NewDijkstra(graph *da.Graph, overlay *da.Overlay) *Dijkstra {
	return &Dijkstra{
		graph:      graph,
		overlay:    overlay,
		pq:         da.NewFourAryHeap[string](),
		distances:  make(map[string]float64, graph.NumberOfVertices()),
		previous:   make(map[string]string, graph.NumberOfVertices()),
		settled:    make(map[string]bool, graph.NumberOfVertices()),
		visitOrder: make([]string, 0, 64),
	}
}

func (d *Dijkstra) dist(id string) float64 {
	if v, ok := d.distances[id]; ok {
		return v
	}
	return pkg.INF_WEIGHT
}

// Run computes the minimum-cost path from source to target. terminates as
// soon as the target is settled.
func (d *Dijkstra) Run(source, target string) (*SearchResult, error) {
	start := time.Now()

	d.distances[source] = 0
	d.pq.Insert(da.NewPriorityQueueNode(0, source))

	for !d.pq.IsEmpty() {
		min, _ := d.pq.ExtractMin()
		u := min.GetItem()
		if d.settled[u] {
			continue // stale duplicate, lazy decrease-key
		}
		d.settled[u] = true
		d.visitOrder = append(d.visitOrder, u)

		if u == target {
			break
		}

		uDist := d.dist(u)
		d.graph.ForOutEdgesOf(u, d.overlay, func(e *da.Edge) {
			d.edgesExplored++
			v := e.GetTo()
			if newDist := uDist + e.GetWeight(); Lt(newDist, d.dist(v)) {
				d.distances[v] = newDist
				d.previous[v] = u
				d.pq.Insert(da.NewPriorityQueueNode(newDist, v))
			}
		})
	}

	if !d.settled[target] || d.dist(target) >= pkg.INF_WEIGHT {
		return nil, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
			"dijkstra: no path from %s to %s", source, target)
	}

	path := reconstructPath(d.graph, d.previous, source, target)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return newSearchResult(path, d.distances[target], elapsed, d.visitOrder, d.edgesExplored), nil
}
