package osmparser

import (
	"context"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

// routable highway classes, see https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
var acceptedHighways = map[string]struct{}{
	"motorway": {}, "trunk": {}, "primary": {}, "secondary": {}, "tertiary": {},
	"unclassified": {}, "residential": {}, "service": {}, "living_street": {},
	"road": {}, "track": {}, "motorroad": {},
	"motorway_link": {}, "trunk_link": {}, "primary_link": {},
	"secondary_link": {}, "tertiary_link": {},
}

type nodeCoord struct {
	lat float64
	lon float64
}

// OsmParser extracts the road network of an .osm.pbf extract into the raw
// node/edge collections the graph builder consumes. ways are split at their
// node sequence, each consecutive node pair becomes one undirected segment
// weighted by its haversine length.
type OsmParser struct {
	log *zap.Logger

	wayNodes     map[osm.NodeID]struct{}
	nodeCoords   map[osm.NodeID]nodeCoord
	acceptedWays [][]osm.NodeID
}

func NewOsmParser(log *zap.Logger) *OsmParser {
	return &OsmParser{
		log:          log,
		wayNodes:     make(map[osm.NodeID]struct{}),
		nodeCoords:   make(map[osm.NodeID]nodeCoord),
		acceptedWays: make([][]osm.NodeID, 0),
	}
}

// Parse scans the pbf twice: ways first to learn which nodes the road
// network touches, then nodes for their coordinates.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) ([]datastructure.RawNode, []datastructure.RawEdge, error) {
	p.log.Info("parsing OSM extract", zap.String("file", mapFile))

	if err := p.scan(ctx, mapFile, p.handleWay); err != nil {
		return nil, nil, err
	}
	p.log.Info("way scan done",
		zap.Int("accepted_ways", len(p.acceptedWays)),
		zap.Int("way_nodes", len(p.wayNodes)))

	if err := p.scan(ctx, mapFile, p.handleNode); err != nil {
		return nil, nil, err
	}

	return p.buildRawCollections()
}

func (p *OsmParser) scan(ctx context.Context, mapFile string, handle func(osm.Object)) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	defer scanner.Close()

	for scanner.Scan() {
		handle(scanner.Object())
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (p *OsmParser) handleWay(o osm.Object) {
	way, ok := o.(*osm.Way)
	if !ok {
		return
	}
	if _, routable := acceptedHighways[way.Tags.Find("highway")]; !routable {
		return
	}

	nodeIds := make([]osm.NodeID, 0, len(way.Nodes))
	for _, wn := range way.Nodes {
		nodeIds = append(nodeIds, wn.ID)
		p.wayNodes[wn.ID] = struct{}{}
	}
	if len(nodeIds) >= 2 {
		p.acceptedWays = append(p.acceptedWays, nodeIds)
	}
}

func (p *OsmParser) handleNode(o osm.Object) {
	node, ok := o.(*osm.Node)
	if !ok {
		return
	}
	if _, used := p.wayNodes[node.ID]; !used {
		return
	}
	p.nodeCoords[node.ID] = nodeCoord{lat: node.Lat, lon: node.Lon}
}

func (p *OsmParser) buildRawCollections() ([]datastructure.RawNode, []datastructure.RawEdge, error) {
	rawNodes := make([]datastructure.RawNode, 0, len(p.nodeCoords))
	for id, c := range p.nodeCoords {
		rawNodes = append(rawNodes, datastructure.RawNode{
			ID:  strconv.FormatInt(int64(id), 10),
			Lat: c.lat,
			Lon: c.lon,
		})
	}

	seen := make(map[[2]string]struct{})
	rawEdges := make([]datastructure.RawEdge, 0, len(p.acceptedWays)*4)
	for _, way := range p.acceptedWays {
		for i := 0; i+1 < len(way); i++ {
			a, aok := p.nodeCoords[way[i]]
			b, bok := p.nodeCoords[way[i+1]]
			if !aok || !bok || way[i] == way[i+1] {
				continue // incomplete extract or degenerate way geometry
			}

			from := strconv.FormatInt(int64(way[i]), 10)
			to := strconv.FormatInt(int64(way[i+1]), 10)
			key := [2]string{from, to}
			if to < from {
				key = [2]string{to, from}
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			length := geo.CalculateHaversineDistance(a.lat, a.lon, b.lat, b.lon)
			if length <= 0 {
				continue // coincident coordinates, the builder would reject it
			}
			rawEdges = append(rawEdges, datastructure.RawEdge{
				From:         from,
				To:           to,
				LengthMeters: length,
			})
		}
	}

	p.log.Info("road network extracted",
		zap.Int("nodes", len(rawNodes)),
		zap.Int("segments", len(rawEdges)))
	return rawNodes, rawEdges, nil
}
