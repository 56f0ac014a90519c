package usecases

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/engine/routing"
	"github.com/pathlab/routecompare/pkg/geo"
	"github.com/pathlab/routecompare/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine counts searches and can hold them open so the test controls
// when the first in-flight call completes.
type fakeEngine struct {
	overlay *da.Overlay
	calls   atomic.Int64
	started chan struct{}
	release chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		overlay: da.NewOverlay(),
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (f *fakeEngine) RunAlgorithm(algo pkg.Algorithm, start, goal geo.Coordinate) (*routing.SearchResult, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	<-f.release
	return &routing.SearchResult{
		Path:                []geo.Coordinate{start, goal},
		TotalDistanceMeters: 1000,
	}, nil
}

func (f *fakeEngine) RunComparison(start, goal geo.Coordinate) (map[string]*routing.SearchResult, error) {
	return map[string]*routing.SearchResult{}, nil
}

func (f *fakeEngine) RunIncrementalReplan(start, goal geo.Coordinate,
	blockedEdges [][2]string, blockedNodes []string) (*routing.SearchResult, error) {
	return &routing.SearchResult{Path: []geo.Coordinate{start, goal}}, nil
}

func (f *fakeEngine) BlockEdge(from, to string) error   { return nil }
func (f *fakeEngine) UnblockEdge(from, to string) error { return nil }
func (f *fakeEngine) BlockNode(id string) error         { return nil }
func (f *fakeEngine) UnblockNode(id string) error       { return nil }
func (f *fakeEngine) IsGraphConnected() bool            { return true }
func (f *fakeEngine) GetOverlay() *da.Overlay           { return f.overlay }

func TestRouteCollapsesIdenticalInflightCalls(t *testing.T) {
	eng := newFakeEngine()
	svc := NewRoutingService(logger.NewNop(), eng)

	const concurrency = 8
	var wg sync.WaitGroup
	results := make([]*routing.SearchResult, concurrency)
	errs := make([]error, concurrency)

	// the leader registers the in-flight entry and blocks inside the engine
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, errs[0] = svc.Route("dijkstra", 0, 0, 0, 0.03)
	}()
	<-eng.started

	// duplicates issued while the leader is running must attach to it
	for i := 1; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = svc.Route("dijkstra", 0, 0, 0, 0.03)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(eng.release)
	wg.Wait()

	assert.Equal(t, int64(1), eng.calls.Load())
	for i := 0; i < concurrency; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, 1000.0, results[i].TotalDistanceMeters)
	}
}

func TestRouteDistinctInputsRunSeparately(t *testing.T) {
	eng := newFakeEngine()
	close(eng.release)
	svc := NewRoutingService(logger.NewNop(), eng)

	_, _, err := svc.Route("dijkstra", 0, 0, 0, 0.03)
	require.NoError(t, err)
	_, _, err = svc.Route("astar", 0, 0, 0, 0.03)
	require.NoError(t, err)

	assert.Equal(t, int64(2), eng.calls.Load())
}

func TestRouteRejectsUnknownAlgorithm(t *testing.T) {
	eng := newFakeEngine()
	close(eng.release)
	svc := NewRoutingService(logger.NewNop(), eng)

	_, _, err := svc.Route("bogus", 0, 0, 0, 0.03)
	assert.Error(t, err)
}

func TestRouteReturnsEncodedPolyline(t *testing.T) {
	eng := newFakeEngine()
	close(eng.release)
	svc := NewRoutingService(logger.NewNop(), eng)

	res, poly, err := svc.Route("dijkstra", 0, 0, 0, 0.03)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, poly)

	decoded, err := geo.CoordsFromPolyline(poly)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, 0.03, decoded[1].Lon, 1e-5)
}
