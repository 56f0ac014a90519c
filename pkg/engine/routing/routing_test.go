package routing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamondGraph is a five-node network near the equator with two routes from a
// to e: a-b-d-e costs 3600 m, the detour a-c-d-e costs 4200 m. every weight
// is at least the great-circle distance between its endpoints, so the
// heuristic of A* and the replanner stays admissible.
//
//	a --1200-- b --1200-- d --1200-- e
//	 \                   /
//	  1500-- c --1500---
func diamondGraph(t *testing.T) *da.Graph {
	t.Helper()
	g, err := da.BuildGraph(
		[]da.RawNode{
			{ID: "a", Lat: 0, Lon: 0},
			{ID: "b", Lat: 0, Lon: 0.01},
			{ID: "c", Lat: 0.005, Lon: 0.01},
			{ID: "d", Lat: 0, Lon: 0.02},
			{ID: "e", Lat: 0, Lon: 0.03},
		},
		[]da.RawEdge{
			{From: "a", To: "b", LengthMeters: 1200},
			{From: "b", To: "d", LengthMeters: 1200},
			{From: "a", To: "c", LengthMeters: 1500},
			{From: "c", To: "d", LengthMeters: 1500},
			{From: "d", To: "e", LengthMeters: 1200},
		},
	)
	require.NoError(t, err)
	return g
}

// gridGraph builds an n x n lattice with spacing 0.01 degrees and weights 10%
// above the great-circle distance of each segment.
func gridGraph(t *testing.T, n int) *da.Graph {
	t.Helper()
	nodeID := func(r, c int) string { return fmt.Sprintf("n%d_%d", r, c) }

	rawNodes := make([]da.RawNode, 0, n*n)
	rawEdges := make([]da.RawEdge, 0, 2*n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			rawNodes = append(rawNodes, da.RawNode{
				ID: nodeID(r, c), Lat: 0.01 * float64(r), Lon: 0.01 * float64(c),
			})
		}
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			from := geo.NewCoordinate(0.01*float64(r), 0.01*float64(c))
			if c+1 < n {
				to := geo.NewCoordinate(0.01*float64(r), 0.01*float64(c+1))
				rawEdges = append(rawEdges, da.RawEdge{
					From: nodeID(r, c), To: nodeID(r, c+1),
					LengthMeters: geo.HaversineDistance(from, to) * 1.1,
				})
			}
			if r+1 < n {
				to := geo.NewCoordinate(0.01*float64(r+1), 0.01*float64(c))
				rawEdges = append(rawEdges, da.RawEdge{
					From: nodeID(r, c), To: nodeID(r+1, c),
					LengthMeters: geo.HaversineDistance(from, to) * 1.1,
				})
			}
		}
	}

	g, err := da.BuildGraph(rawNodes, rawEdges)
	require.NoError(t, err)
	return g
}

func TestDijkstraFindsShortestPath(t *testing.T) {
	g := diamondGraph(t)

	res, err := NewDijkstra(g, nil).Run("a", "e")
	require.NoError(t, err)

	assert.InDelta(t, 3600, res.TotalDistanceMeters, pkg.EPS)
	assert.Equal(t, 4, res.PathNodeCount)
	assert.Equal(t, len(res.Path), res.PathNodeCount)
	assert.Equal(t, g.NodeCoordinate("a"), res.Path[0])
	assert.Equal(t, g.NodeCoordinate("e"), res.Path[len(res.Path)-1])
	assert.Equal(t, len(res.VisitedNodeIds), res.NodesVisitedCount)
	assert.Greater(t, res.EdgesExploredCount, 0)
}

func TestDijkstraSourceEqualsTarget(t *testing.T) {
	g := diamondGraph(t)

	res, err := NewDijkstra(g, nil).Run("a", "a")
	require.NoError(t, err)
	assert.Zero(t, res.TotalDistanceMeters)
	assert.Equal(t, 1, res.PathNodeCount)
}

func TestOptimalAlgorithmsAgreeOnGrid(t *testing.T) {
	g := gridGraph(t, 6)

	base, err := NewDijkstra(g, nil).Run("n0_0", "n5_5")
	require.NoError(t, err)

	for _, algo := range []pkg.Algorithm{pkg.ASTAR, pkg.BELLMAN_FORD} {
		t.Run(algo.String(), func(t *testing.T) {
			search, err := NewStaticSearch(algo, g, nil)
			require.NoError(t, err)
			res, err := search.Run("n0_0", "n5_5")
			require.NoError(t, err)
			assert.InDelta(t, base.TotalDistanceMeters, res.TotalDistanceMeters, pkg.EPS)
		})
	}
}

func TestAStarVisitsNoMoreThanDijkstra(t *testing.T) {
	g := gridGraph(t, 8)

	dj, err := NewDijkstra(g, nil).Run("n0_0", "n0_7")
	require.NoError(t, err)
	as, err := NewAStar(g, nil).Run("n0_0", "n0_7")
	require.NoError(t, err)

	assert.InDelta(t, dj.TotalDistanceMeters, as.TotalDistanceMeters, pkg.EPS)
	assert.LessOrEqual(t, as.NodesVisitedCount, dj.NodesVisitedCount)
}

func TestGreedyBestFirstIsAnUpperBound(t *testing.T) {
	g := diamondGraph(t)

	dj, err := NewDijkstra(g, nil).Run("a", "e")
	require.NoError(t, err)
	gb, err := NewGreedyBestFirst(g, nil).Run("a", "e")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, gb.TotalDistanceMeters+pkg.EPS, dj.TotalDistanceMeters)
	assert.Equal(t, g.NodeCoordinate("a"), gb.Path[0])
	assert.Equal(t, g.NodeCoordinate("e"), gb.Path[len(gb.Path)-1])
}

func TestBlockedEdgeForcesDetour(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()
	o.BlockEdge("b", "d")

	for _, algo := range pkg.StaticAlgorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			search, err := NewStaticSearch(algo, g, o)
			require.NoError(t, err)
			res, err := search.Run("a", "e")
			require.NoError(t, err)
			if algo != pkg.GBFS {
				assert.InDelta(t, 4200, res.TotalDistanceMeters, pkg.EPS)
			}
			// the detour goes through c either way
			assert.Contains(t, res.Path, g.NodeCoordinate("c"))
		})
	}
}

func TestBlockedNodeMakesTargetUnreachable(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()
	o.BlockNode("d") // the only way into e

	for _, algo := range pkg.StaticAlgorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			search, err := NewStaticSearch(algo, g, o)
			require.NoError(t, err)
			_, err = search.Run("a", "e")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoPathFound))
		})
	}
}

func TestBlockedSourceHasNoPath(t *testing.T) {
	g := diamondGraph(t)
	o := da.NewOverlay()
	o.BlockNode("a")

	for _, algo := range pkg.StaticAlgorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			search, err := NewStaticSearch(algo, g, o)
			require.NoError(t, err)
			_, err = search.Run("a", "e")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoPathFound))
		})
	}
}

func TestNoPathToIsolatedNode(t *testing.T) {
	g, err := da.BuildGraph(
		[]da.RawNode{
			{ID: "a", Lat: 0, Lon: 0},
			{ID: "b", Lat: 0, Lon: 0.01},
			{ID: "island", Lat: 0.5, Lon: 0.5},
		},
		[]da.RawEdge{{From: "a", To: "b", LengthMeters: 1200}},
	)
	require.NoError(t, err)

	_, err = NewDijkstra(g, nil).Run("a", "island")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPathFound))
}

func TestNewStaticSearchRejectsReplanner(t *testing.T) {
	g := diamondGraph(t)
	_, err := NewStaticSearch(pkg.DSTAR_LITE, g, nil)
	assert.Error(t, err)
}
