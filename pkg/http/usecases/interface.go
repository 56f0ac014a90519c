package usecases

import (
	"github.com/pathlab/routecompare/pkg"
	da "github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/engine/routing"
	"github.com/pathlab/routecompare/pkg/geo"
)

type RoutingEngine interface {
	RunAlgorithm(algo pkg.Algorithm, start, goal geo.Coordinate) (*routing.SearchResult, error)
	RunComparison(start, goal geo.Coordinate) (map[string]*routing.SearchResult, error)
	RunIncrementalReplan(start, goal geo.Coordinate,
		blockedEdges [][2]string, blockedNodes []string) (*routing.SearchResult, error)
	BlockEdge(from, to string) error
	UnblockEdge(from, to string) error
	BlockNode(id string) error
	UnblockNode(id string) error
	IsGraphConnected() bool
	GetOverlay() *da.Overlay
}
