package httpapi

import (
	"net/http"
	"strings"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

func NewVehicleStateController(service usecases.VehicleStateService) *VehicleStateController {
	return &VehicleStateController{
		service: service,
	}
}

var _ httpserver.Controller = &VehicleStateController{}

type VehicleStateController struct {
	service usecases.VehicleStateService
}

func (c *VehicleStateController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /vehicles/{vehicle_id}/state", c.getState())
	router.Handle("POST /vehicles/{vehicle_id}/state/refresh", c.refreshState())
}

func (c *VehicleStateController) getState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := vehicleIDFrom(r)
		if strings.TrimSpace(vehicleID.String()) == "" {
			replyWithDomainError(w, domain.ErrVehicleIDRequired)
			return
		}

		snapshot, ok := c.service.Get(r.Context(), vehicleID)
		if !ok {
			httpserver.ReplyWithErrorKind(w, http.StatusNotFound, KindNotFound, "no state cached for "+vehicleID.String())
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, snapshot)
	}
}

func (c *VehicleStateController) refreshState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := c.service.Refresh(r.Context(), vehicleIDFrom(r))
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, snapshot)
	}
}
