package datastructure

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildGraph(
		[]RawNode{
			{ID: "a", Lat: 0, Lon: 0},
			{ID: "b", Lat: 0, Lon: 0.01},
			{ID: "c", Lat: 0, Lon: 0.02},
		},
		[]RawEdge{
			{From: "a", To: "b", LengthMeters: 1200},
			{From: "b", To: "c", LengthMeters: 1200},
		},
	)
	require.NoError(t, err)
	return g
}

func TestBuildGraphBidirectional(t *testing.T) {
	g := smallGraph(t)

	assert.Equal(t, 3, g.NumberOfVertices())
	assert.Equal(t, 4, g.NumberOfEdges())

	ab, ok := g.EdgeBetween("a", "b")
	require.True(t, ok)
	assert.Equal(t, 1200.0, ab.GetWeight())
	ba, ok := g.EdgeBetween("b", "a")
	require.True(t, ok)
	assert.Equal(t, 1200.0, ba.GetWeight())
}

func TestBuildGraphRejectsMalformedInput(t *testing.T) {
	nodes := []RawNode{
		{ID: "a", Lat: 0, Lon: 0},
		{ID: "b", Lat: 0, Lon: 0.01},
	}

	tests := []struct {
		name  string
		nodes []RawNode
		edges []RawEdge
	}{
		{
			name:  "duplicate node id",
			nodes: append([]RawNode{{ID: "a", Lat: 1, Lon: 1}}, nodes...),
			edges: nil,
		},
		{
			name:  "unknown endpoint",
			nodes: nodes,
			edges: []RawEdge{{From: "a", To: "ghost", LengthMeters: 10}},
		},
		{
			name:  "self loop",
			nodes: nodes,
			edges: []RawEdge{{From: "a", To: "a", LengthMeters: 10}},
		},
		{
			name:  "zero weight",
			nodes: nodes,
			edges: []RawEdge{{From: "a", To: "b", LengthMeters: 0}},
		},
		{
			name:  "negative weight",
			nodes: nodes,
			edges: []RawEdge{{From: "a", To: "b", LengthMeters: -5}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGraph(tc.nodes, tc.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConstruction))
		})
	}
}

func TestOverlaySymmetricAndIdempotent(t *testing.T) {
	o := NewOverlay()
	o.BlockEdge("b", "a")

	assert.True(t, o.IsEdgeBlocked("a", "b"))
	assert.True(t, o.IsEdgeBlocked("b", "a"))

	o.BlockEdge("a", "b") // same segment, still one entry
	assert.Equal(t, 1, o.NumBlockedEdges())

	o.UnblockEdge("a", "b")
	assert.False(t, o.IsEdgeBlocked("b", "a"))

	o.BlockNode("x")
	assert.True(t, o.IsNodeBlocked("x"))
	o.UnblockNode("x")
	assert.False(t, o.IsNodeBlocked("x"))
}

func TestOverlayCloneIsIndependent(t *testing.T) {
	o := NewOverlay()
	o.BlockEdge("a", "b")

	c := o.Clone()
	c.BlockEdge("b", "c")

	assert.False(t, o.IsEdgeBlocked("b", "c"))
	assert.True(t, c.IsEdgeBlocked("a", "b"))
}

func TestOverlayFingerprintTracksState(t *testing.T) {
	o := NewOverlay()
	base := o.Fingerprint()

	o.BlockEdge("a", "b")
	blocked := o.Fingerprint()
	assert.NotEqual(t, base, blocked)

	o.UnblockEdge("a", "b")
	assert.Equal(t, base, o.Fingerprint())

	// direction of the block call does not matter
	o.BlockEdge("b", "a")
	assert.Equal(t, blocked, o.Fingerprint())
}

func TestForOutEdgesOfSkipsBlocked(t *testing.T) {
	g := smallGraph(t)
	o := NewOverlay()
	o.BlockEdge("b", "c")

	var heads []string
	g.ForOutEdgesOf("b", o, func(e *Edge) {
		heads = append(heads, e.GetTo())
	})
	assert.Equal(t, []string{"a"}, heads)

	// blocking the head node hides the edge too
	o = NewOverlay()
	o.BlockNode("a")
	heads = nil
	g.ForOutEdgesOf("b", o, func(e *Edge) {
		heads = append(heads, e.GetTo())
	})
	assert.Equal(t, []string{"c"}, heads)

	// nil overlay blocks nothing
	heads = nil
	g.ForOutEdgesOf("b", nil, func(e *Edge) {
		heads = append(heads, e.GetTo())
	})
	assert.Len(t, heads, 2)

	// a blocked source node has no outgoing edges at all
	o = NewOverlay()
	o.BlockNode("b")
	heads = nil
	g.ForOutEdgesOf("b", o, func(e *Edge) {
		heads = append(heads, e.GetTo())
	})
	assert.Empty(t, heads)
}

func TestFindNearestNode(t *testing.T) {
	g := smallGraph(t)

	// just east of b
	point := geo.NewCoordinate(0, 0.011)
	n := g.FindNearestNode(point, nil, 0)
	require.NotNil(t, n)
	assert.Equal(t, "b", n.GetId())

	// with b blocked the next candidate wins
	o := NewOverlay()
	o.BlockNode("b")
	n = g.FindNearestNode(point, o, 0)
	require.NotNil(t, n)
	assert.Equal(t, "c", n.GetId())

	// a tight radius leaves no candidates
	n = g.FindNearestNode(point, nil, 10)
	assert.Nil(t, n)
}

func TestIsConnected(t *testing.T) {
	g, err := BuildGraph(
		[]RawNode{
			{ID: "a", Lat: 0, Lon: 0},
			{ID: "b", Lat: 0, Lon: 0.01},
			{ID: "island", Lat: 1, Lon: 1},
		},
		[]RawEdge{{From: "a", To: "b", LengthMeters: 1200}},
	)
	require.NoError(t, err)

	assert.False(t, g.IsConnected(nil))

	// blocking the island removes it from consideration
	o := NewOverlay()
	o.BlockNode("island")
	assert.True(t, g.IsConnected(o))

	// a connecting edge makes the whole graph reachable
	connected, err := BuildGraph(
		[]RawNode{
			{ID: "a", Lat: 0, Lon: 0},
			{ID: "b", Lat: 0, Lon: 0.01},
			{ID: "island", Lat: 1, Lon: 1},
		},
		[]RawEdge{
			{From: "a", To: "b", LengthMeters: 1200},
			{From: "b", To: "island", LengthMeters: 150000},
		},
	)
	require.NoError(t, err)
	assert.True(t, connected.IsConnected(nil))
}

func TestIsConnectedAfterBlockingBridge(t *testing.T) {
	g := smallGraph(t)
	assert.True(t, g.IsConnected(nil))

	o := NewOverlay()
	o.BlockEdge("a", "b")
	assert.False(t, g.IsConnected(o))
}

func TestIsConnectedTrivialCases(t *testing.T) {
	empty, err := BuildGraph(nil, nil)
	require.NoError(t, err)
	assert.True(t, empty.IsConnected(nil))

	single, err := BuildGraph([]RawNode{{ID: "a", Lat: 0, Lon: 0}}, nil)
	require.NoError(t, err)
	assert.True(t, single.IsConnected(nil))
}

func TestGraphSnapshotRoundtrip(t *testing.T) {
	g := smallGraph(t)

	file := filepath.Join(t.TempDir(), "graph.snap.bz2")
	require.NoError(t, g.WriteGraph(file))

	loaded, err := ReadGraph(file)
	require.NoError(t, err)

	assert.Equal(t, g.NumberOfVertices(), loaded.NumberOfVertices())
	assert.Equal(t, g.NumberOfEdges(), loaded.NumberOfEdges())

	e, ok := loaded.EdgeBetween("b", "c")
	require.True(t, ok)
	assert.Equal(t, 1200.0, e.GetWeight())

	n, ok := loaded.GetNode("b")
	require.True(t, ok)
	assert.Equal(t, 0.01, n.GetLon())
}
