package routing

import (
	"time"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/util"
)

// AStar is Dijkstra with priority = g + h, where h is the great-circle
// distance to the goal. h never overestimates the remaining road distance
// (admissible and consistent), so the returned cost equals Dijkstra's while
// the search typically settles fewer nodes.
type AStar struct {
	graph   *da.Graph
	overlay *da.Overlay

	pq        *da.MinHeap[string]
	distances map[string]float64
	previous  map[string]string
	settled   map[string]bool

	visitOrder    []string
	edgesExplored int
}

func NewAStar(graph *da.Graph, overlay *da.Overlay) *AStar {
	return &AStar{
		graph:      graph,
		overlay:    overlay,
		pq:         da.NewFourAryHeap[string](),
		distances:  make(map[string]float64, graph.NumberOfVertices()),
		previous:   make(map[string]string, graph.NumberOfVertices()),
		settled:    make(map[string]bool, graph.NumberOfVertices()),
		visitOrder: make([]string, 0, 64),
	}
}

func (a *AStar) dist(id string) float64 {
	if v, ok := a.distances[id]; ok {
		return v
	}
	return pkg.INF_WEIGHT
}

func (a *AStar) Run(source, target string) (*SearchResult, error) {
	start := time.Now()
	goalCoord := a.graph.NodeCoordinate(target)

	h := func(id string) float64 {
		return geo.HaversineDistance(a.graph.NodeCoordinate(id), goalCoord)
	}

	a.distances[source] = 0
	a.pq.Insert(da.NewPriorityQueueNode(h(source), source))

	for !a.pq.IsEmpty() {
		min, _ := a.pq.ExtractMin()
		u := min.GetItem()
		if a.settled[u] {
			continue
		}
		a.settled[u] = true
		a.visitOrder = append(a.visitOrder, u)

		if u == target {
			break
		}

		uDist := a.dist(u)
		a.graph.ForOutEdgesOf(u, a.overlay, func(e *da.Edge) {
			a.edgesExplored++
			v := e.GetTo()
			if newDist := uDist + e.GetWeight(); Lt(newDist, a.dist(v)) {
				a.distances[v] = newDist
				a.previous[v] = u
				a.pq.Insert(da.NewPriorityQueueNode(newDist+h(v), v))
			}
		})
	}

	if !a.settled[target] || a.dist(target) >= pkg.INF_WEIGHT {
		return nil, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
			"astar: no path from %s to %s", source, target)
	}

	path := reconstructPath(a.graph, a.previous, source, target)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return newSearchResult(path, a.distances[target], elapsed, a.visitOrder, a.edgesExplored), nil
}
