package engine

import (
	"sync"

	"github.com/pathlab/routecompare/pkg"
	"github.com/pathlab/routecompare/pkg/concurrent"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/engine/routing"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/spatialindex"
	"github.com/pathlab/routecompare/pkg/util"
	"go.uber.org/zap"
)

// Engine owns one graph snapshot, the blocking overlay, and the replanning
// sessions built on top of them. each search call is a self-contained
// synchronous computation; the mutex only serializes overlay edits and
// session access, never the inside of a search.
type Engine struct {
	graph   *da.Graph
	overlay *da.Overlay
	index   *spatialindex.Rtree
	log     *zap.Logger

	searchRadius float64 // meters, nearest-node resolution cutoff

	mu sync.Mutex
	// replanning sessions keyed by goal node id: one backward precomputation
	// serves repeated start changes toward the same goal.
	sessions map[string]*routing.DStarLite
}

// NewEngine wires the engine. index may be nil, snapping then falls back to
// the linear nearest-node scan.
func NewEngine(graph *da.Graph, index *spatialindex.Rtree, log *zap.Logger, searchRadiusMeters float64) *Engine {
	return &Engine{
		graph:        graph,
		overlay:      da.NewOverlay(),
		index:        index,
		log:          log,
		searchRadius: searchRadiusMeters,
		sessions:     make(map[string]*routing.DStarLite),
	}
}

func (e *Engine) GetGraph() *da.Graph {
	return e.graph
}

func (e *Engine) GetOverlay() *da.Overlay {
	return e.overlay
}

func (e *Engine) IsGraphConnected() bool {
	return e.graph.IsConnected(e.overlay)
}

// SnapToNearestNode resolves a query coordinate to the closest unblocked
// graph node. with an index: candidate segments within the search radius,
// best segment by perpendicular distance, then the nearer unblocked
// endpoint. without one (or when the index finds nothing): linear scan.
func (e *Engine) SnapToNearestNode(point geo.Coordinate) (string, error) {
	if e.index != nil {
		if id, ok := e.snapViaIndex(point); ok {
			return id, nil
		}
	}

	n := e.graph.FindNearestNode(point, e.overlay, e.searchRadius)
	if n == nil {
		return "", util.WrapErrorf(routing.ErrNoNearbyNode, util.ErrNotFound,
			"no unblocked node within %.0fm of (%f, %f)", e.searchRadius, point.Lat, point.Lon)
	}
	return n.GetId(), nil
}

func (e *Engine) snapViaIndex(point geo.Coordinate) (string, bool) {
	candidates := e.index.SearchWithinRadius(point.Lat, point.Lon, e.searchRadius)

	bestDist := pkg.INF_WEIGHT
	bestId := ""
	for _, seg := range candidates {
		if e.overlay.IsEdgeBlocked(seg.GetFrom(), seg.GetTo()) {
			continue
		}
		from, _ := e.graph.GetNode(seg.GetFrom())
		to, _ := e.graph.GetNode(seg.GetTo())

		perp := geo.PointLinePerpendicularDistance(from.Coordinate(), to.Coordinate(), point)
		if perp >= bestDist {
			continue
		}

		// nearer unblocked endpoint of the best segment
		endpointId := ""
		endpointDist := pkg.INF_WEIGHT
		for _, n := range []*da.Node{from, to} {
			if e.overlay.IsNodeBlocked(n.GetId()) {
				continue
			}
			if d := geo.HaversineDistance(point, n.Coordinate()); d <= e.searchRadius && d < endpointDist {
				endpointDist = d
				endpointId = n.GetId()
			}
		}
		if endpointId != "" {
			bestDist = perp
			bestId = endpointId
		}
	}
	return bestId, bestId != ""
}

// run resolves both endpoints, checks the connectivity precondition, and
// executes one static search. a disconnected overlay fails fast instead of
// running a doomed search.
func (e *Engine) run(algo pkg.Algorithm, start, goal geo.Coordinate) (*routing.SearchResult, error) {
	if !e.graph.IsConnected(e.overlay) {
		return nil, util.WrapErrorf(routing.ErrDisconnectedGraph, util.ErrBadParamInput,
			"graph is disconnected under the current blocking overlay")
	}

	source, err := e.SnapToNearestNode(start)
	if err != nil {
		return nil, err
	}
	target, err := e.SnapToNearestNode(goal)
	if err != nil {
		return nil, err
	}

	search, err := routing.NewStaticSearch(algo, e.graph, e.overlay)
	if err != nil {
		return nil, err
	}

	res, err := search.Run(source, target)
	if err != nil {
		return nil, err
	}

	e.log.Info("search finished",
		zap.String("algorithm", algo.String()),
		zap.String("source", source),
		zap.String("target", target),
		zap.Float64("distance_m", res.TotalDistanceMeters),
		zap.Int("nodes_visited", res.NodesVisitedCount),
		zap.Int("edges_explored", res.EdgesExploredCount))
	return res, nil
}

func (e *Engine) RunDijkstra(start, goal geo.Coordinate) (*routing.SearchResult, error) {
	return e.run(pkg.DIJKSTRA, start, goal)
}

func (e *Engine) RunAStar(start, goal geo.Coordinate) (*routing.SearchResult, error) {
	return e.run(pkg.ASTAR, start, goal)
}

func (e *Engine) RunGBFS(start, goal geo.Coordinate) (*routing.SearchResult, error) {
	return e.run(pkg.GBFS, start, goal)
}

func (e *Engine) RunBellmanFord(start, goal geo.Coordinate) (*routing.SearchResult, error) {
	return e.run(pkg.BELLMAN_FORD, start, goal)
}

// RunAlgorithm dispatches on the closed algorithm variant.
func (e *Engine) RunAlgorithm(algo pkg.Algorithm, start, goal geo.Coordinate) (*routing.SearchResult, error) {
	if algo == pkg.DSTAR_LITE {
		return e.RunIncrementalReplan(start, goal, nil, nil)
	}
	return e.run(algo, start, goal)
}

type comparisonEntry struct {
	algo pkg.Algorithm
	res  *routing.SearchResult
	err  error
}

// RunComparison runs every static algorithm on the same instance and
// collects their results side by side. each job gets its own overlay clone,
// so nothing mutable is shared between workers.
func (e *Engine) RunComparison(start, goal geo.Coordinate) (map[string]*routing.SearchResult, error) {
	if !e.graph.IsConnected(e.overlay) {
		return nil, util.WrapErrorf(routing.ErrDisconnectedGraph, util.ErrBadParamInput,
			"graph is disconnected under the current blocking overlay")
	}

	source, err := e.SnapToNearestNode(start)
	if err != nil {
		return nil, err
	}
	target, err := e.SnapToNearestNode(goal)
	if err != nil {
		return nil, err
	}

	algos := pkg.StaticAlgorithms()
	pool := concurrent.NewWorkerPool[pkg.Algorithm, comparisonEntry](len(algos), len(algos))

	pool.Start(func(algo pkg.Algorithm) comparisonEntry {
		search, err := routing.NewStaticSearch(algo, e.graph, e.overlay.Clone())
		if err != nil {
			return comparisonEntry{algo: algo, err: err}
		}
		res, err := search.Run(source, target)
		return comparisonEntry{algo: algo, res: res, err: err}
	})

	for _, algo := range algos {
		pool.AddJob(algo)
	}
	pool.Close()
	pool.Wait()

	results := make(map[string]*routing.SearchResult, len(algos))
	for entry := range pool.CollectResults() {
		if entry.err != nil {
			return nil, entry.err
		}
		results[entry.algo.String()] = entry.res
	}
	return results, nil
}

// BlockEdge blocks the segment between two node ids and repairs every
// replanning session's cost maps around the endpoints.
func (e *Engine) BlockEdge(from, to string) error {
	return e.editEdge(from, to, true)
}

func (e *Engine) UnblockEdge(from, to string) error {
	return e.editEdge(from, to, false)
}

func (e *Engine) editEdge(from, to string, block bool) error {
	if _, ok := e.graph.EdgeBetween(from, to); !ok {
		return util.WrapErrorf(util.ErrNotFound, util.ErrBadParamInput,
			"no segment between %q and %q", from, to)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if block {
		e.overlay.BlockEdge(from, to)
	} else {
		e.overlay.UnblockEdge(from, to)
	}
	for _, sess := range e.sessions {
		sess.OnEdgeChanged(from, to)
	}
	return nil
}

func (e *Engine) BlockNode(id string) error {
	return e.editNode(id, true)
}

func (e *Engine) UnblockNode(id string) error {
	return e.editNode(id, false)
}

func (e *Engine) editNode(id string, block bool) error {
	if !e.graph.HasNode(id) {
		return util.WrapErrorf(util.ErrNotFound, util.ErrBadParamInput,
			"unknown node %q", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if block {
		e.overlay.BlockNode(id)
	} else {
		e.overlay.UnblockNode(id)
	}
	for _, sess := range e.sessions {
		sess.OnNodeChanged(id)
	}
	return nil
}

// RunIncrementalReplan brings the overlay to the requested blocked sets
// (nil leaves the current state untouched), then runs the session for this
// goal, repairing only what the edits made inconsistent. a new goal starts a
// fresh session; a moved start is folded into the existing one.
func (e *Engine) RunIncrementalReplan(start, goal geo.Coordinate,
	blockedEdges [][2]string, blockedNodes []string) (*routing.SearchResult, error) {

	if blockedEdges != nil || blockedNodes != nil {
		if err := e.applyBlockedSets(blockedEdges, blockedNodes); err != nil {
			return nil, err
		}
	}

	if !e.graph.IsConnected(e.overlay) {
		return nil, util.WrapErrorf(routing.ErrDisconnectedGraph, util.ErrBadParamInput,
			"graph is disconnected under the current blocking overlay")
	}

	source, err := e.SnapToNearestNode(start)
	if err != nil {
		return nil, err
	}
	target, err := e.SnapToNearestNode(goal)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions[target]
	if !ok {
		sess = routing.NewDStarLite(e.graph, e.overlay, source, target)
		e.sessions[target] = sess
	} else if sess.GetStart() != source {
		sess.MoveStart(source)
	}

	res, err := sess.Run()
	if err != nil {
		return nil, err
	}

	e.log.Info("incremental replan finished",
		zap.String("source", source),
		zap.String("target", target),
		zap.Float64("distance_m", res.TotalDistanceMeters),
		zap.Int("nodes_visited", res.NodesVisitedCount))
	return res, nil
}

// applyBlockedSets diffs the requested blocking state against the overlay
// and applies only the changes, notifying sessions per edit.
func (e *Engine) applyBlockedSets(blockedEdges [][2]string, blockedNodes []string) error {
	desiredEdges := make(map[[2]string]struct{}, len(blockedEdges))
	for _, seg := range blockedEdges {
		lo, hi := seg[0], seg[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		desiredEdges[[2]string{lo, hi}] = struct{}{}
	}
	desiredNodes := make(map[string]struct{}, len(blockedNodes))
	for _, id := range blockedNodes {
		desiredNodes[id] = struct{}{}
	}

	for _, seg := range e.overlay.BlockedSegments() {
		if _, want := desiredEdges[seg]; !want {
			if err := e.UnblockEdge(seg[0], seg[1]); err != nil {
				return err
			}
		}
	}
	for seg := range desiredEdges {
		if !e.overlay.IsEdgeBlocked(seg[0], seg[1]) {
			if err := e.BlockEdge(seg[0], seg[1]); err != nil {
				return err
			}
		}
	}

	for _, id := range e.overlay.BlockedNodeIds() {
		if _, want := desiredNodes[id]; !want {
			if err := e.UnblockNode(id); err != nil {
				return err
			}
		}
	}
	for id := range desiredNodes {
		if !e.overlay.IsNodeBlocked(id) {
			if err := e.BlockNode(id); err != nil {
				return err
			}
		}
	}
	return nil
}
