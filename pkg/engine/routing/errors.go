package routing

import "errors"

// terminal error kinds for a single search invocation. the engine never
// retries internally and never substitutes a fallback path; callers decide
// whether to retry with relaxed constraints.
var (
	ErrNoPathFound         = errors.New("no path found between start and goal")
	ErrDisconnectedGraph   = errors.New("graph is disconnected under the current blocking overlay")
	ErrNegativeCycle       = errors.New("graph contains a negative cycle")
	ErrReconstructionLimit = errors.New("path reconstruction exceeded its step budget")
	ErrNoNearbyNode        = errors.New("no unblocked node within search radius")
)
