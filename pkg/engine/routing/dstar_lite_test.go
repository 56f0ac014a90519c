package routing

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDStarLiteMatchesDijkstra(t *testing.T) {
	g := diamondGraph(t)

	dj, err := NewDijkstra(g, nil).Run("a", "e")
	require.NoError(t, err)

	ds := NewDStarLite(g, da.NewOverlay(), "a", "e")
	res, err := ds.Run()
	require.NoError(t, err)

	assert.InDelta(t, dj.TotalDistanceMeters, res.TotalDistanceMeters, pkg.EPS)
	assert.Equal(t, dj.Path, res.Path)
}

func TestDStarLiteRepairsAfterBlock(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()

	ds := NewDStarLite(g, o, "a", "e")
	initial, err := ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 3600, initial.TotalDistanceMeters, pkg.EPS)

	// the best route uses b-d; blocking it forces the detour through c
	o.BlockEdge("b", "d")
	ds.OnEdgeChanged("b", "d")

	repaired, err := ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 4200, repaired.TotalDistanceMeters, pkg.EPS)
	assert.Contains(t, repaired.Path, g.NodeCoordinate("c"))

	// the repair touches only the inconsistent region
	assert.Less(t, repaired.NodesVisitedCount, initial.NodesVisitedCount)
	assert.Less(t, repaired.NodesVisitedCount, g.NumberOfVertices())

	// a fresh uninformed search under the same overlay agrees on the cost
	dj, err := NewDijkstra(g, o).Run("a", "e")
	require.NoError(t, err)
	assert.InDelta(t, dj.TotalDistanceMeters, repaired.TotalDistanceMeters, pkg.EPS)
}

func TestDStarLiteUnblockRestoresOriginalRoute(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()
	o.BlockEdge("b", "d")

	ds := NewDStarLite(g, o, "a", "e")
	res, err := ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 4200, res.TotalDistanceMeters, pkg.EPS)

	o.UnblockEdge("b", "d")
	ds.OnEdgeChanged("b", "d")

	res, err = ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 3600, res.TotalDistanceMeters, pkg.EPS)
}

func TestDStarLiteBlockedNode(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()

	ds := NewDStarLite(g, o, "a", "d")
	res, err := ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 2400, res.TotalDistanceMeters, pkg.EPS)

	o.BlockNode("b")
	ds.OnNodeChanged("b")

	res, err = ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 3000, res.TotalDistanceMeters, pkg.EPS)
}

func TestDStarLiteMoveStart(t *testing.T) {
	g := diamondGraph(t)

	ds := NewDStarLite(g, da.NewOverlay(), "a", "e")
	_, err := ds.Run()
	require.NoError(t, err)

	ds.MoveStart("b")
	assert.Equal(t, "b", ds.GetStart())

	res, err := ds.Run()
	require.NoError(t, err)
	assert.InDelta(t, 2400, res.TotalDistanceMeters, pkg.EPS)
	assert.Equal(t, g.NodeCoordinate("b"), res.Path[0])
}

func TestDStarLiteMovedStartWithOverlayEdits(t *testing.T) {
	// interleave overlay toggles with start moves and check the session stays
	// consistent: after every repair its cost must match a fresh uninformed
	// search under the same overlay, and it must fail exactly when that
	// search fails.
	g := gridGraph(t, 7)
	o := da.NewOverlay()
	const goal = "n6_6"

	ds := NewDStarLite(g, o, "n0_0", goal)
	_, err := ds.Run()
	require.NoError(t, err)

	segments := make([][2]string, 0, g.NumberOfEdges()/2)
	for _, id := range g.NodeIds() {
		for _, e := range g.GetOutEdges(id) {
			if e.GetFrom() < e.GetTo() {
				segments = append(segments, [2]string{e.GetFrom(), e.GetTo()})
			}
		}
	}
	nodes := g.NodeIds()

	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 120; step++ {
		seg := segments[rng.Intn(len(segments))]
		if o.IsEdgeBlocked(seg[0], seg[1]) {
			o.UnblockEdge(seg[0], seg[1])
		} else {
			o.BlockEdge(seg[0], seg[1])
		}
		ds.OnEdgeChanged(seg[0], seg[1])

		if step%3 == 0 {
			ds.MoveStart(nodes[rng.Intn(len(nodes))])
		}

		res, err := ds.Run()
		dj, djErr := NewDijkstra(g, o).Run(ds.GetStart(), goal)
		if djErr != nil {
			require.Error(t, err, "step %d: replanner found a path where none exists", step)
			continue
		}
		require.NoError(t, err, "step %d", step)
		assert.InDelta(t, dj.TotalDistanceMeters, res.TotalDistanceMeters, 1e-3, "step %d", step)
	}
}

func TestDStarLiteNoPath(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()
	o.BlockEdge("d", "e") // the only way into e

	ds := NewDStarLite(g, o, "a", "e")
	_, err := ds.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPathFound))
}
