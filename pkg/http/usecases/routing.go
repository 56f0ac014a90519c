package usecases

import (
	"fmt"
	"sync"

	"github.com/pathlab/routecompare/pkg"
	"github.com/pathlab/routecompare/pkg/engine/routing"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/util"
	"go.uber.org/zap"
)

// RoutingService sits between the HTTP layer and the engine. it owns the
// input-fingerprint cache: overlapping calls with identical inputs (start,
// goal, algorithm, blocking state) collapse onto one in-flight computation
// instead of racing the engine, which itself never deduplicates.
type RoutingService struct {
	log    *zap.Logger
	engine RoutingEngine

	mu       sync.Mutex
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done chan struct{}
	res  *routing.SearchResult
	err  error
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine) *RoutingService {
	return &RoutingService{
		log:      log,
		engine:   engine,
		inflight: make(map[string]*inflightCall),
	}
}

func (rs *RoutingService) fingerprint(algo string, origLat, origLon, dstLat, dstLon float64) string {
	return fmt.Sprintf("%s|%f,%f|%f,%f|%d", algo, origLat, origLon, dstLat, dstLon,
		rs.engine.GetOverlay().Fingerprint())
}

// dedup runs fn once per live fingerprint; concurrent duplicates wait for
// the first call's outcome.
func (rs *RoutingService) dedup(key string, fn func() (*routing.SearchResult, error)) (*routing.SearchResult, error) {
	rs.mu.Lock()
	if call, ok := rs.inflight[key]; ok {
		rs.mu.Unlock()
		<-call.done
		return call.res, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	rs.inflight[key] = call
	rs.mu.Unlock()

	call.res, call.err = fn()
	close(call.done)

	rs.mu.Lock()
	delete(rs.inflight, key)
	rs.mu.Unlock()

	return call.res, call.err
}

func (rs *RoutingService) Route(algorithm string, origLat, origLon, dstLat, dstLon float64) (*routing.SearchResult, string, error) {
	algo, err := pkg.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, "", util.WrapErrorf(err, util.ErrBadParamInput, "%s", err.Error())
	}

	start := geo.NewCoordinate(origLat, origLon)
	goal := geo.NewCoordinate(dstLat, dstLon)

	key := rs.fingerprint(algo.String(), origLat, origLon, dstLat, dstLon)
	res, err := rs.dedup(key, func() (*routing.SearchResult, error) {
		return rs.engine.RunAlgorithm(algo, start, goal)
	})
	if err != nil {
		return nil, "", err
	}

	return res, geo.PolylineFromCoords(res.Path), nil
}

func (rs *RoutingService) Compare(origLat, origLon, dstLat, dstLon float64) (map[string]*routing.SearchResult, error) {
	return rs.engine.RunComparison(
		geo.NewCoordinate(origLat, origLon), geo.NewCoordinate(dstLat, dstLon))
}

func (rs *RoutingService) Replan(origLat, origLon, dstLat, dstLon float64,
	blockedEdges [][2]string, blockedNodes []string) (*routing.SearchResult, string, error) {

	res, err := rs.engine.RunIncrementalReplan(
		geo.NewCoordinate(origLat, origLon), geo.NewCoordinate(dstLat, dstLon),
		blockedEdges, blockedNodes)
	if err != nil {
		return nil, "", err
	}
	return res, geo.PolylineFromCoords(res.Path), nil
}

func (rs *RoutingService) BlockEdge(from, to string) error {
	return rs.engine.BlockEdge(from, to)
}

func (rs *RoutingService) UnblockEdge(from, to string) error {
	return rs.engine.UnblockEdge(from, to)
}

func (rs *RoutingService) BlockNode(id string) error {
	return rs.engine.BlockNode(id)
}

func (rs *RoutingService) UnblockNode(id string) error {
	return rs.engine.UnblockNode(id)
}

func (rs *RoutingService) IsConnected() bool {
	return rs.engine.IsGraphConnected()
}
