package httpapi

import (
	"net/http"
	"vehicle-dashboard/internal/control_plane/httpapi/internal"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

func NewCommandController(service usecases.CommandService) *CommandController {
	return &CommandController{
		service: service,
	}
}

var _ httpserver.Controller = &CommandController{}

type CommandController struct {
	service usecases.CommandService
}

func (c *CommandController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /commands", c.listAvailable())
	router.Handle("GET /commands/{tracking_id}", c.getCommand())
	router.Handle("DELETE /commands/{tracking_id}", c.cancelCommand())
	router.Handle("GET /vehicles/{vehicle_id}/commands", c.listVehicleCommands())
	router.Handle("POST /vehicles/{vehicle_id}/commands", c.submitCommand())
}

func (c *CommandController) listAvailable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commands, err := c.service.AvailableCommands(r.Context())
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.CommandListResponse{Commands: commands})
	}
}

func (c *CommandController) submitCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.SubmitCommandRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithErrorKind(w, http.StatusBadRequest, KindBadRequest, "invalid command body")
			return
		}

		handle, err := c.service.Submit(r.Context(), vehicleIDFrom(r), body.ID(), body.Params)
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusAccepted, handle)
	}
}

func (c *CommandController) getCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := c.service.Get(r.Context(), domain.TrackingID(r.PathValue("tracking_id")))
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, handle)
	}
}

func (c *CommandController) cancelCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := c.service.Cancel(r.Context(), domain.TrackingID(r.PathValue("tracking_id")))
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, handle)
	}
}

func (c *CommandController) listVehicleCommands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handles, err := c.service.List(r.Context(), vehicleIDFrom(r))
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.CommandHandleListResponse{Data: handles})
	}
}
