package httpapi

import (
	"net/http"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/httpserver"
)

func NewSessionController(service usecases.SessionService) *SessionController {
	return &SessionController{
		service: service,
	}
}

var _ httpserver.Controller = &SessionController{}

type SessionController struct {
	service usecases.SessionService
}

func (c *SessionController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /session", c.current())
	router.Handle("POST /vehicles/{vehicle_id}/select", c.selectVehicle())
}

func (c *SessionController) current() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, c.service.Current(r.Context()))
	}
}

func (c *SessionController) selectVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := c.service.SelectVehicle(r.Context(), vehicleIDFrom(r))
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, info)
	}
}
