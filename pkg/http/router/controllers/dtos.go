package controllers

import (
	"github.com/pathlab/routecompare/pkg/engine/routing"
)

type routeRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

type routeResponse struct {
	Algorithm     string  `json:"algorithm"`
	Polyline      string  `json:"polyline"`
	Distance      float64 `json:"distance_meters"`
	ElapsedMillis float64 `json:"elapsed_millis"`
	NodesVisited  int     `json:"nodes_visited"`
	EdgesExplored int     `json:"edges_explored"`
	PathNodeCount int     `json:"path_node_count"`
}

func NewRouteResponse(algorithm, poly string, res *routing.SearchResult) routeResponse {
	return routeResponse{
		Algorithm:     algorithm,
		Polyline:      poly,
		Distance:      res.TotalDistanceMeters,
		ElapsedMillis: res.ElapsedMillis,
		NodesVisited:  res.NodesVisitedCount,
		EdgesExplored: res.EdgesExploredCount,
		PathNodeCount: res.PathNodeCount,
	}
}

type compareResponse struct {
	Results map[string]*routing.SearchResult `json:"results"`
}

type blockRequest struct {
	// either an edge (both endpoints) or a single node
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	NodeID string `json:"node_id,omitempty"`
}

type replanRequest struct {
	OriginLat      float64     `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64     `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64     `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64     `json:"destination_lon" validate:"required,min=-180,max=180"`
	BlockedEdges   [][2]string `json:"blocked_edges"`
	BlockedNodes   []string    `json:"blocked_nodes"`
}

type connectivityResponse struct {
	Connected bool `json:"connected"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
