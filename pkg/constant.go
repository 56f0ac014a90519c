package pkg

import "fmt"

const (
	INF_WEIGHT float64 = 1e15
	EPS        float64 = 1e-6

	// step budget factor for the replanner's forward path walk, multiplied by
	// the number of graph vertices. guards against residual inconsistency
	// after an overlay edit.
	RECONSTRUCTION_STEP_FACTOR = 4
)

const (
	DEBUG = false
)

// Algorithm is a closed set of supported search strategies. behavior is
// dispatched per variant, never by string id.
type Algorithm uint8

const (
	DIJKSTRA Algorithm = iota
	ASTAR
	GBFS
	BELLMAN_FORD
	DSTAR_LITE
)

func (a Algorithm) String() string {
	switch a {
	case DIJKSTRA:
		return "dijkstra"
	case ASTAR:
		return "astar"
	case GBFS:
		return "gbfs"
	case BELLMAN_FORD:
		return "bellman-ford"
	case DSTAR_LITE:
		return "dstar-lite"
	default:
		return "unknown"
	}
}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "dijkstra":
		return DIJKSTRA, nil
	case "astar", "a-star":
		return ASTAR, nil
	case "gbfs", "greedy":
		return GBFS, nil
	case "bellman-ford", "bellmanford":
		return BELLMAN_FORD, nil
	case "dstar-lite", "dstarlite":
		return DSTAR_LITE, nil
	default:
		return DIJKSTRA, fmt.Errorf("unknown algorithm %q", s)
	}
}

// StaticAlgorithms are the strategies safe to run concurrently on the same
// graph snapshot. the replanner is excluded because it owns mutable
// per-session state.
func StaticAlgorithms() []Algorithm {
	return []Algorithm{DIJKSTRA, ASTAR, GBFS, BELLMAN_FORD}
}
