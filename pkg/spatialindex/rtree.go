package spatialindex

import (
	"math"

	"github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[Segment]
}

// Segment is one undirected road segment, indexed by the bounding box of its
// endpoints. snapping picks the segment with the smallest perpendicular
// distance to the query point, then the nearer endpoint.
type Segment struct {
	from string
	to   string
}

func (s Segment) GetFrom() string {
	return s.from
}

func (s Segment) GetTo() string {
	return s.to
}

func newSegment(from, to string) Segment {
	return Segment{from: from, to: to}
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[Segment]
	return &Rtree{
		tr: &tr,
	}
}

// Build indexes every undirected segment, with each leaf bounding box padded
// by boundingBoxRadius meters around both endpoints.
func (rt *Rtree) Build(graph *datastructure.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")

	for _, id := range graph.NodeIds() {
		for _, e := range graph.GetOutEdges(id) {
			if e.GetFrom() > e.GetTo() {
				continue // one entry per segment
			}

			from, _ := graph.GetNode(e.GetFrom())
			to, _ := graph.GetNode(e.GetTo())

			lowerFromLat, lowerFromLon := geo.GetDestinationPoint(from.GetLat(), from.GetLon(), 225, boundingBoxRadius)
			upperFromLat, upperFromLon := geo.GetDestinationPoint(from.GetLat(), from.GetLon(), 45, boundingBoxRadius)

			lowerToLat, lowerToLon := geo.GetDestinationPoint(to.GetLat(), to.GetLon(), 225, boundingBoxRadius)
			upperToLat, upperToLon := geo.GetDestinationPoint(to.GetLat(), to.GetLon(), 45, boundingBoxRadius)

			minLat := math.Min(lowerFromLat, lowerToLat)
			minLon := math.Min(lowerFromLon, lowerToLon)
			maxLat := math.Max(upperFromLat, upperToLat)
			maxLon := math.Max(upperFromLon, upperToLon)

			rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
				newSegment(e.GetFrom(), e.GetTo()))
		}
	}

	log.Info("R-tree spatial index built.", zap.Int("segments", rt.tr.Len()))
}

// SearchWithinRadius returns every candidate segment whose padded bounding
// box intersects a box of the given radius (meters) around the query point.
// the caller ranks candidates by true distance, so no segment inside the box
// may be dropped here.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []Segment {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]Segment, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data Segment) bool {
			results = append(results, data)
			return true
		})
	return results
}
