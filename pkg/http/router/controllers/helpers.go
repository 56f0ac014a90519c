package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pathlab/routecompare/pkg/datastructure"
	"github.com/pathlab/routecompare/pkg/engine/routing"
	"github.com/pathlab/routecompare/pkg/util"
)

type envelope map[string]interface{}

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
	return nil
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	if err := api.writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func (api *routingAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
}

func (api *routingAPI) UnprocessableResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusUnprocessableEntity, "UNPROCESSABLE", err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusInternalServerError, "INTERNAL", util.MessageInternalServerError)
}

// getStatusCode maps engine error kinds to http statuses. search misses are
// 404, malformed inputs and doomed preconditions are 422, reconstruction
// budget blowups are 500.
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrNoPathFound), errors.Is(err, routing.ErrNoNearbyNode):
		api.NotFoundResponse(w, r, err)
	case errors.Is(err, routing.ErrDisconnectedGraph),
		errors.Is(err, routing.ErrNegativeCycle),
		errors.Is(err, datastructure.ErrConstruction):
		api.UnprocessableResponse(w, r, err)
	case errors.Is(err, routing.ErrReconstructionLimit):
		api.ServerErrorResponse(w, r, err)
	default:
		var domainErr *util.Error
		if errors.As(err, &domainErr) {
			switch domainErr.Code() {
			case util.ErrNotFound:
				api.NotFoundResponse(w, r, err)
			case util.ErrBadParamInput:
				api.BadRequestResponse(w, r, err)
			default:
				api.ServerErrorResponse(w, r, err)
			}
			return
		}
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}

	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
