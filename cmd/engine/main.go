package main

import (
	"context"
	"flag"
	"os"

	"github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/engine"
	"github.com/pathlab/routecompare/pkg/http"
	"github.com/pathlab/routecompare/pkg/http/usecases"
	"github.com/pathlab/routecompare/pkg/logger"
	"github.com/pathlab/routecompare/pkg/osmparser"
	"github.com/pathlab/routecompare/pkg/spatialindex"
	"github.com/pathlab/routecompare/pkg/util"
	"go.uber.org/zap"
)

var (
	mapFile               = flag.String("map", "./data/map.osm.pbf", "openstreetmap extract to parse when no snapshot exists")
	graphFile             = flag.String("graph", "./data/network.graph", "graph snapshot path (read if present, written after parsing)")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 50, "leaf node (r-tree) bounding box radius in meters")
	searchRadius          = flag.Float64("search_radius", 400, "nearest-node search radius in meters")
	useRateLimit          = flag.Bool("rate_limit", false, "enable per-ip rate limiting")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file, using defaults", zap.Error(err))
	}

	graph, err := loadGraph(log)
	if err != nil {
		log.Fatal("could not load road network", zap.Error(err))
	}
	log.Info("road network ready",
		zap.Int("nodes", graph.NumberOfVertices()),
		zap.Int("directed_edges", graph.NumberOfEdges()))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, log)

	routingEngine := engine.NewEngine(graph, rtree, log, *searchRadius)
	routingService := usecases.NewRoutingService(log, routingEngine)

	api := http.NewServer(log)
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, log, *useRateLimit, routingService); err != nil {
		log.Fatal("could not start API", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	log.Info("routecompare engine stopped", zap.String("signal", signal.String()))
	cancel()
}

// loadGraph prefers the snapshot; a missing snapshot triggers a pbf parse
// and writes one for the next start.
func loadGraph(log *zap.Logger) (*datastructure.Graph, error) {
	if _, err := os.Stat(*graphFile); err == nil {
		log.Info("loading graph snapshot", zap.String("file", *graphFile))
		return datastructure.ReadGraph(*graphFile)
	}

	parser := osmparser.NewOsmParser(log)
	rawNodes, rawEdges, err := parser.Parse(context.Background(), *mapFile)
	if err != nil {
		return nil, err
	}

	graph, err := datastructure.BuildGraph(rawNodes, rawEdges)
	if err != nil {
		return nil, err
	}

	if err := graph.WriteGraph(*graphFile); err != nil {
		log.Warn("could not write graph snapshot", zap.Error(err))
	}
	return graph, nil
}
