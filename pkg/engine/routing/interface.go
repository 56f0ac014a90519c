package routing

import (
	"fmt"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
)

// ShortestPath is the shared contract of the static strategies: one search
// between two resolved node ids over an immutable graph snapshot plus a
// blocking overlay. each call must use a fresh instance, scratch state is
// not reusable.
type ShortestPath interface {
	Run(source, target string) (*SearchResult, error)
}

// NewStaticSearch maps a closed algorithm variant to its implementation.
// the replanner is deliberately absent: it is stateful and constructed per
// session through NewDStarLite.
func NewStaticSearch(algo pkg.Algorithm, graph *da.Graph, overlay *da.Overlay) (ShortestPath, error) {
	switch algo {
	case pkg.DIJKSTRA:
		return NewDijkstra(graph, overlay), nil
	case pkg.ASTAR:
		return NewAStar(graph, overlay), nil
	case pkg.GBFS:
		return NewGreedyBestFirst(graph, overlay), nil
	case pkg.BELLMAN_FORD:
		return NewBellmanFord(graph, overlay), nil
	default:
		return nil, fmt.Errorf("algorithm %s has no static search", algo)
	}
}
