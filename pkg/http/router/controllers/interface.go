package controllers

import (
	"github.com/pathlab/routecompare/pkg/engine/routing"
)

type RoutingService interface {
	Route(algorithm string, origLat, origLon, dstLat, dstLon float64) (*routing.SearchResult, string, error)
	Compare(origLat, origLon, dstLat, dstLon float64) (map[string]*routing.SearchResult, error)
	Replan(origLat, origLon, dstLat, dstLon float64,
		blockedEdges [][2]string, blockedNodes []string) (*routing.SearchResult, string, error)
	BlockEdge(from, to string) error
	UnblockEdge(from, to string) error
	BlockNode(id string) error
	UnblockNode(id string) error
	IsConnected() bool
}
