package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/pathlab/routecompare/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
	group.GET("/compare", api.compare)
	group.GET("/connectivity", api.connectivity)
	group.POST("/block", api.block)
	group.POST("/unblock", api.unblock)
	group.POST("/replan", api.replan)
}

func (api *routingAPI) parseRouteRequest(r *http.Request) (routeRequest, error) {
	var (
		request routeRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		return request, errors.New("origin_lat is required and must be a valid float")
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		return request, errors.New("origin_lon is required and must be a valid float")
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		return request, errors.New("destination_lat is required and must be a valid float")
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		return request, errors.New("destination_lon is required and must be a valid float")
	}
	return request, nil
}

func (api *routingAPI) validateStruct(s interface{}) []error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		return translateError(err, trans)
	}
	return nil
}

func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := api.parseRouteRequest(r)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if vv := api.validateStruct(request); len(vv) > 0 {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vv))
		return
	}

	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		algorithm = "dijkstra"
	}

	result, poly, err := api.routingService.Route(algorithm,
		request.OriginLat, request.OriginLon, request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRouteResponse(algorithm, poly, result)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) compare(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := api.parseRouteRequest(r)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if vv := api.validateStruct(request); len(vv) > 0 {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vv))
		return
	}

	results, err := api.routingService.Compare(
		request.OriginLat, request.OriginLon, request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": compareResponse{Results: results}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) connectivity(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	resp := connectivityResponse{Connected: api.routingService.IsConnected()}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) block(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.editOverlay(w, r, true)
}

func (api *routingAPI) unblock(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.editOverlay(w, r, false)
}

func (api *routingAPI) editOverlay(w http.ResponseWriter, r *http.Request, block bool) {
	var request blockRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	var err error
	switch {
	case request.NodeID != "":
		if block {
			err = api.routingService.BlockNode(request.NodeID)
		} else {
			err = api.routingService.UnblockNode(request.NodeID)
		}
	case request.From != "" && request.To != "":
		if block {
			err = api.routingService.BlockEdge(request.From, request.To)
		} else {
			err = api.routingService.UnblockEdge(request.From, request.To)
		}
	default:
		api.BadRequestResponse(w, r, errors.New("either node_id or from+to is required"))
		return
	}
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": "ok"}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) replan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request replanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if vv := api.validateStruct(request); len(vv) > 0 {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vv))
		return
	}

	result, poly, err := api.routingService.Replan(
		request.OriginLat, request.OriginLon, request.DestinationLat, request.DestinationLon,
		request.BlockedEdges, request.BlockedNodes)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRouteResponse("dstar-lite", poly, result)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
