package routing

import (
	"time"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/util"
)

// BellmanFord relaxes every edge up to |V|-1 passes, no priority queue.
// O(V*E), slower than Dijkstra/A* but tolerant of negative weights. road
// distances are never negative in practice; the negative-cycle check exists
// for robustness, not because negative weights are expected.
type BellmanFord struct {
	graph   *da.Graph
	overlay *da.Overlay

	distances map[string]float64
	previous  map[string]string
	visited   map[string]bool

	visitOrder    []string
	edgesExplored int
}

func NewBellmanFord(graph *da.Graph, overlay *da.Overlay) *BellmanFord {
	return &BellmanFord{
		graph:      graph,
		overlay:    overlay,
		distances:  make(map[string]float64, graph.NumberOfVertices()),
		previous:   make(map[string]string, graph.NumberOfVertices()),
		visited:    make(map[string]bool, graph.NumberOfVertices()),
		visitOrder: make([]string, 0, 64),
	}
}

func (bf *BellmanFord) dist(id string) float64 {
	if v, ok := bf.distances[id]; ok {
		return v
	}
	return pkg.INF_WEIGHT
}

// relaxAll runs one full pass over every non-blocked edge, in the
// deterministic node order the graph exposes. returns whether any distance
// improved.
func (bf *BellmanFord) relaxAll(nodeIds []string) bool {
	changed := false
	for _, u := range nodeIds {
		if bf.overlay.IsNodeBlocked(u) {
			continue
		}
		uDist := bf.dist(u)
		if uDist >= pkg.INF_WEIGHT {
			continue
		}
		bf.graph.ForOutEdgesOf(u, bf.overlay, func(e *da.Edge) {
			bf.edgesExplored++
			v := e.GetTo()
			if newDist := uDist + e.GetWeight(); Lt(newDist, bf.dist(v)) {
				bf.distances[v] = newDist
				bf.previous[v] = u
				changed = true
				if !bf.visited[v] {
					bf.visited[v] = true
					bf.visitOrder = append(bf.visitOrder, v)
				}
			}
		})
	}
	return changed
}

func (bf *BellmanFord) Run(source, target string) (*SearchResult, error) {
	start := time.Now()
	nodeIds := bf.graph.NodeIds()

	bf.distances[source] = 0
	bf.visited[source] = true
	bf.visitOrder = append(bf.visitOrder, source)

	for i := 0; i < len(nodeIds)-1; i++ {
		if !bf.relaxAll(nodeIds) {
			break // fixpoint, remaining passes are no-ops
		}
	}

	// one more full pass: any further improvement means a negative cycle.
	if bf.relaxAll(nodeIds) {
		return nil, util.WrapErrorf(ErrNegativeCycle, util.ErrBadParamInput,
			"bellman-ford: negative cycle detected")
	}

	if bf.dist(target) >= pkg.INF_WEIGHT {
		return nil, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
			"bellman-ford: no path from %s to %s", source, target)
	}

	path := reconstructPath(bf.graph, bf.previous, source, target)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return newSearchResult(path, bf.distances[target], elapsed, bf.visitOrder, bf.edgesExplored), nil
}
