package datastructure

import (
	"errors"
	"math"
	"sort"

	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/util"
)

var (
	ErrConstruction = errors.New("malformed raw graph input")
)

// Node is one intersection of the road network. never mutated after build.
type Node struct {
	id  string
	lat float64
	lon float64
}

func NewNode(id string, lat, lon float64) *Node {
	return &Node{id: id, lat: lat, lon: lon}
}

func (n *Node) GetId() string {
	return n.id
}

func (n *Node) GetLat() float64 {
	return n.lat
}

func (n *Node) GetLon() float64 {
	return n.lon
}

func (n *Node) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(n.lat, n.lon)
}

// Edge is a directed adjacency record. every physical road segment becomes
// two opposing Edge records with equal weight.
type Edge struct {
	from   string
	to     string
	weight float64 // meters, always > 0
}

func NewEdge(from, to string, weight float64) *Edge {
	return &Edge{from: from, to: to, weight: weight}
}

func (e *Edge) GetFrom() string {
	return e.from
}

func (e *Edge) GetTo() string {
	return e.to
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

// RawNode and RawEdge are the input contract with the external geodata
// collaborator. RawEdge describes one undirected segment.
type RawNode struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RawEdge struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	LengthMeters float64 `json:"length_meters"`
}

// Graph stores the validated road network. read-mostly after construction:
// searches never mutate it, blocking state lives in an Overlay.
type Graph struct {
	nodes     map[string]*Node
	adjacency map[string][]*Edge
	numEdges  int // directed edge records
}

// BuildGraph validates the raw feed and constructs the adjacency structure,
// inserting both directions of every accepted segment.
//
// Rejected with ErrConstruction: duplicate node ids, edges referencing unknown
// node ids, self-loops, and weights that are non-finite or not strictly
// positive. a zero weight is an input bug, not a free transition.
func BuildGraph(rawNodes []RawNode, rawEdges []RawEdge) (*Graph, error) {
	g := &Graph{
		nodes:     make(map[string]*Node, len(rawNodes)),
		adjacency: make(map[string][]*Edge, len(rawNodes)),
	}

	for _, rn := range rawNodes {
		if _, ok := g.nodes[rn.ID]; ok {
			return nil, util.WrapErrorf(ErrConstruction, util.ErrBadParamInput,
				"duplicate node id %q", rn.ID)
		}
		g.nodes[rn.ID] = NewNode(rn.ID, rn.Lat, rn.Lon)
		g.adjacency[rn.ID] = make([]*Edge, 0, 4)
	}

	for _, re := range rawEdges {
		if _, ok := g.nodes[re.From]; !ok {
			return nil, util.WrapErrorf(ErrConstruction, util.ErrBadParamInput,
				"edge %q->%q references unknown node %q", re.From, re.To, re.From)
		}
		if _, ok := g.nodes[re.To]; !ok {
			return nil, util.WrapErrorf(ErrConstruction, util.ErrBadParamInput,
				"edge %q->%q references unknown node %q", re.From, re.To, re.To)
		}
		if re.From == re.To {
			return nil, util.WrapErrorf(ErrConstruction, util.ErrBadParamInput,
				"self-loop edge on node %q", re.From)
		}
		if math.IsNaN(re.LengthMeters) || math.IsInf(re.LengthMeters, 0) || re.LengthMeters <= 0 {
			return nil, util.WrapErrorf(ErrConstruction, util.ErrBadParamInput,
				"edge %q->%q has invalid weight %v", re.From, re.To, re.LengthMeters)
		}

		g.adjacency[re.From] = append(g.adjacency[re.From], NewEdge(re.From, re.To, re.LengthMeters))
		g.adjacency[re.To] = append(g.adjacency[re.To], NewEdge(re.To, re.From, re.LengthMeters))
		g.numEdges += 2
	}

	return g, nil
}

func (g *Graph) NumberOfVertices() int {
	return len(g.nodes)
}

// NumberOfEdges counts directed edge records (two per segment).
func (g *Graph) NumberOfEdges() int {
	return g.numEdges
}

func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIds returns all node ids in lexicographic order, so that full-graph
// scans (Bellman-Ford passes, connectivity) are deterministic.
func (g *Graph) NodeIds() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForNodes visits every node in unspecified order.
func (g *Graph) ForNodes(fn func(n *Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// GetOutEdges returns the adjacency list of id. callers must not mutate it.
func (g *Graph) GetOutEdges(id string) []*Edge {
	return g.adjacency[id]
}

// ForOutEdgesOf visits the outgoing edges of id that survive the overlay:
// a blocked source node has no outgoing edges, and edges whose segment is
// blocked or whose head node is blocked are skipped. a nil overlay means
// nothing is blocked.
func (g *Graph) ForOutEdgesOf(id string, overlay *Overlay, fn func(e *Edge)) {
	if overlay != nil && overlay.IsNodeBlocked(id) {
		return
	}
	for _, e := range g.adjacency[id] {
		if overlay != nil && (overlay.IsEdgeBlocked(e.from, e.to) || overlay.IsNodeBlocked(e.to)) {
			continue
		}
		fn(e)
	}
}

// EdgeBetween returns the directed edge record from->to if present.
func (g *Graph) EdgeBetween(from, to string) (*Edge, bool) {
	for _, e := range g.adjacency[from] {
		if e.to == to {
			return e, true
		}
	}
	return nil, false
}

// NodeCoordinate panics on an unknown id; ids handed to it always come from
// the graph itself.
func (g *Graph) NodeCoordinate(id string) geo.Coordinate {
	return g.nodes[id].Coordinate()
}
