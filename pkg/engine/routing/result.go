package routing

import (
	"math"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
)

// SearchResult is the uniform output of every algorithm, and the sole
// contract with presentation: path coordinates for drawing, distance and
// elapsed time for comparison tables, visited/explored counts for
// exploration overlays. produced fresh per invocation, owned by the caller.
type SearchResult struct {
	Path                []geo.Coordinate `json:"path"`
	TotalDistanceMeters float64          `json:"total_distance_meters"`
	ElapsedMillis       float64          `json:"elapsed_millis"`
	VisitedNodeIds      []string         `json:"visited_node_ids"`
	NodesVisitedCount   int              `json:"nodes_visited_count"`
	EdgesExploredCount  int              `json:"edges_explored_count"`
	PathNodeCount       int              `json:"path_node_count"`
}

func newSearchResult(path []geo.Coordinate, totalDistance, elapsedMillis float64,
	visited []string, edgesExplored int) *SearchResult {
	return &SearchResult{
		Path:                path,
		TotalDistanceMeters: totalDistance,
		ElapsedMillis:       elapsedMillis,
		VisitedNodeIds:      visited,
		NodesVisitedCount:   len(visited),
		EdgesExploredCount:  edgesExplored,
		PathNodeCount:       len(path),
	}
}

// reconstructPath walks previous pointers from goal back to source and
// returns the path coordinates in travel order. callers must have verified
// the goal was reached with finite cost.
func reconstructPath(g *da.Graph, previous map[string]string, source, target string) []geo.Coordinate {
	ids := make([]string, 0, 16)
	for cur := target; ; {
		ids = append(ids, cur)
		if cur == source {
			break
		}
		cur = previous[cur]
	}

	path := make([]geo.Coordinate, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		path = append(path, g.NodeCoordinate(ids[i]))
	}
	return path
}

// Eq equal within floating point tolerance.
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= pkg.EPS
}

// Lt strictly less, beyond tolerance.
func Lt(a, b float64) bool {
	return a+pkg.EPS < b
}
