package routing

import (
	"time"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/util"
)

// DStarLite lifelong shortest-path search. the search runs backward from the
// goal, so g[u] estimates the cost from u to the goal and one precomputation
// serves repeated start changes. after an edge or node is (un)blocked, only
// the locally inconsistent region is repaired: UpdateVertex on the affected
// endpoints followed by ComputeShortestPath, never a full re-run.
//
// the instance owns its g/rhs maps and queue for exactly one
// start/goal/graph-version session; it is not shared with the static
// algorithms and not safe for concurrent use.
type DStarLite struct {
	graph   *da.Graph
	overlay *da.Overlay

	start string
	goal  string

	g   map[string]float64
	rhs map[string]float64

	pq         *da.MinHeap[string]
	queueItems map[string]*da.PriorityQueueNode[string]

	// key modifier: accumulates heuristic drift when the start moves, so
	// queued keys stay comparable without a full reorder.
	km        float64
	lastStart string

	stepBudget int

	visitOrder    []string
	edgesExplored int
}

// NewDStarLite initializes a replanning session. the first Run performs the
// initial backward computation.
func NewDStarLite(graph *da.Graph, overlay *da.Overlay, start, goal string) *DStarLite {
	d := &DStarLite{
		graph:      graph,
		overlay:    overlay,
		start:      start,
		goal:       goal,
		g:          make(map[string]float64, graph.NumberOfVertices()),
		rhs:        make(map[string]float64, graph.NumberOfVertices()),
		queueItems: make(map[string]*da.PriorityQueueNode[string], 64),
		lastStart:  start,
		stepBudget: pkg.RECONSTRUCTION_STEP_FACTOR * graph.NumberOfVertices(),
		visitOrder: make([]string, 0, 64),
	}

	// the queue is ordered by the live two-part key, recomputed from the
	// current g/rhs maps on every comparison. ranks stored in the entries are
	// never read.
	d.pq = da.NewBinaryHeapOrderedBy(func(a, b *da.PriorityQueueNode[string]) bool {
		ak1, ak2 := d.calculateKey(a.GetItem())
		bk1, bk2 := d.calculateKey(b.GetItem())
		if !Eq(ak1, bk1) {
			return ak1 < bk1
		}
		return ak2 < bk2
	})

	d.rhs[d.goal] = 0
	d.pushQueue(d.goal)
	return d
}

func (d *DStarLite) GetStart() string {
	return d.start
}

func (d *DStarLite) GetGoal() string {
	return d.goal
}

func (d *DStarLite) getG(id string) float64 {
	if v, ok := d.g[id]; ok {
		return v
	}
	return pkg.INF_WEIGHT
}

func (d *DStarLite) getRhs(id string) float64 {
	if v, ok := d.rhs[id]; ok {
		return v
	}
	return pkg.INF_WEIGHT
}

func (d *DStarLite) heuristic(id string) float64 {
	return geo.HaversineDistance(d.graph.NodeCoordinate(d.start), d.graph.NodeCoordinate(id))
}

// calculateKey returns the lexicographic queue key of u: the first component
// biases exploration toward the start, the second breaks ties toward locally
// consistent nodes.
func (d *DStarLite) calculateKey(u string) (float64, float64) {
	m := util.Min(d.getG(u), d.getRhs(u))
	return m + d.heuristic(u) + d.km, m
}

func (d *DStarLite) pushQueue(u string) {
	item := da.NewPriorityQueueNode(0, u)
	d.queueItems[u] = item
	d.pq.Insert(item)
}

func (d *DStarLite) removeFromQueue(u string) {
	if item, ok := d.queueItems[u]; ok {
		_ = d.pq.Remove(item)
		delete(d.queueItems, u)
	}
}

// updateVertex recomputes the one-step lookahead of u and requeues it iff it
// is locally inconsistent.
func (d *DStarLite) updateVertex(u string) {
	if u != d.goal {
		rhs := pkg.INF_WEIGHT
		if !d.overlay.IsNodeBlocked(u) {
			d.graph.ForOutEdgesOf(u, d.overlay, func(e *da.Edge) {
				d.edgesExplored++
				if cand := e.GetWeight() + d.getG(e.GetTo()); cand < rhs {
					rhs = cand
				}
			})
		}
		d.rhs[u] = rhs
	}

	d.removeFromQueue(u)
	if !Eq(d.getG(u), d.getRhs(u)) {
		d.pushQueue(u)
	}
}

func (d *DStarLite) startInconsistent() bool {
	return !Eq(d.getG(d.start), d.getRhs(d.start))
}

func (d *DStarLite) topKeyBeforeStart() bool {
	top, err := d.pq.GetMin()
	if err != nil {
		return false
	}
	tk1, tk2 := d.calculateKey(top.GetItem())
	sk1, sk2 := d.calculateKey(d.start)
	if !Eq(tk1, sk1) {
		return tk1 < sk1
	}
	return tk2 < sk2
}

// ComputeShortestPath drains locally inconsistent nodes until the start is
// consistent and no queued key precedes it. overconsistent pops adopt their
// lookahead; underconsistent pops (a cost got worse, e.g. a blocked edge)
// reset to infinity and requeue themselves plus their neighbors.
func (d *DStarLite) ComputeShortestPath() {
	for !d.pq.IsEmpty() && (d.topKeyBeforeStart() || d.startInconsistent()) {
		min, _ := d.pq.ExtractMin()
		u := min.GetItem()
		delete(d.queueItems, u)
		d.visitOrder = append(d.visitOrder, u)

		if Lt(d.getRhs(u), d.getG(u)) {
			d.g[u] = d.getRhs(u)
			d.graph.ForOutEdgesOf(u, d.overlay, func(e *da.Edge) {
				d.updateVertex(e.GetTo())
			})
		} else {
			d.g[u] = pkg.INF_WEIGHT
			d.updateVertex(u)
			d.graph.ForOutEdgesOf(u, d.overlay, func(e *da.Edge) {
				d.updateVertex(e.GetTo())
			})
		}
	}
}

// OnEdgeChanged must be called after the segment between from and to is
// blocked or unblocked. repairs the two endpoints; the next
// ComputeShortestPath propagates from there.
func (d *DStarLite) OnEdgeChanged(from, to string) {
	d.updateVertex(from)
	d.updateVertex(to)
}

// OnNodeChanged must be called after a node is blocked or unblocked.
func (d *DStarLite) OnNodeChanged(id string) {
	d.updateVertex(id)
	d.graph.ForOutEdgesOf(id, nil, func(e *da.Edge) {
		d.updateVertex(e.GetTo())
	})
}

// MoveStart shifts the session to a new start node. km absorbs the heuristic
// drift so keys computed before and after the move stay comparable, but the
// per-node h(start, u) term still changes non-uniformly: the open queue was
// heapified under the old start, so its layout must be rebuilt under the new
// ordering.
func (d *DStarLite) MoveStart(newStart string) {
	d.km += geo.HaversineDistance(d.graph.NodeCoordinate(d.lastStart), d.graph.NodeCoordinate(newStart))
	d.lastStart = newStart
	d.start = newStart
	d.pq.Reheapify()
}

// extractPath walks forward from start, greedily stepping to the neighbor
// minimizing edge weight + g. a step budget guards against residual
// inconsistency after an overlay edit.
func (d *DStarLite) extractPath() ([]geo.Coordinate, float64, error) {
	if d.getG(d.start) >= pkg.INF_WEIGHT {
		return nil, 0, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
			"dstar-lite: no path from %s to %s", d.start, d.goal)
	}

	path := []geo.Coordinate{d.graph.NodeCoordinate(d.start)}
	totalDist := 0.0
	cur := d.start

	for steps := 0; cur != d.goal; steps++ {
		if steps > d.stepBudget {
			return nil, 0, util.WrapErrorf(ErrReconstructionLimit, util.ErrInternalServerError,
				"dstar-lite: walk from %s exceeded %d steps", d.start, d.stepBudget)
		}

		bestCost := pkg.INF_WEIGHT
		bestNext := ""
		bestWeight := 0.0
		d.graph.ForOutEdgesOf(cur, d.overlay, func(e *da.Edge) {
			if cand := e.GetWeight() + d.getG(e.GetTo()); cand < bestCost {
				bestCost = cand
				bestNext = e.GetTo()
				bestWeight = e.GetWeight()
			}
		})
		if bestCost >= pkg.INF_WEIGHT {
			return nil, 0, util.WrapErrorf(ErrNoPathFound, util.ErrNotFound,
				"dstar-lite: dead end at %s", cur)
		}

		totalDist += bestWeight
		cur = bestNext
		path = append(path, d.graph.NodeCoordinate(cur))
	}

	return path, totalDist, nil
}

// Run repairs whatever is inconsistent and extracts the current best path.
// metrics cover only this invocation, so a repair after a small overlay edit
// reports a visited count far below the node total.
func (d *DStarLite) Run() (*SearchResult, error) {
	start := time.Now()
	d.visitOrder = d.visitOrder[:0]
	d.edgesExplored = 0

	d.ComputeShortestPath()

	path, totalDist, err := d.extractPath()
	if err != nil {
		return nil, err
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return newSearchResult(path, totalDist, elapsed, d.visitOrder, d.edgesExplored), nil
}
