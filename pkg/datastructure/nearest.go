package datastructure

import (
	"github.com/pathlab/routecompare/pkg"
	"github.com/pathlab/routecompare/pkg/geo"
)

// FindNearestNode scans every unblocked node and returns the one closest to
// point by great-circle distance, or nil when none lies within maxRadius
// (meters). maxRadius <= 0 means unbounded. O(V), the canonical fallback when
// no spatial index is available.
func (g *Graph) FindNearestNode(point geo.Coordinate, overlay *Overlay, maxRadius float64) *Node {
	if maxRadius <= 0 {
		maxRadius = pkg.INF_WEIGHT
	}

	var best *Node
	bestDist := maxRadius
	for _, id := range g.NodeIds() {
		if overlay.IsNodeBlocked(id) {
			continue
		}
		n := g.nodes[id]
		dist := geo.HaversineDistance(point, n.Coordinate())
		if dist < bestDist {
			bestDist = dist
			best = n
		}
	}
	return best
}
