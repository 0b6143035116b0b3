package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"vehicle-dashboard/internal/control_plane/httpapi/internal"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

func NewKeyController(store usecases.KeyStore) *KeyController {
	return &KeyController{
		store: store,
	}
}

var _ httpserver.Controller = &KeyController{}

type KeyController struct {
	store usecases.KeyStore
}

func (c *KeyController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /vehicles/{vehicle_id}/keys", c.getKeys())
	router.Handle("PUT /vehicles/{vehicle_id}/keys", c.setKeys())
	router.Handle("DELETE /vehicles/{vehicle_id}/keys", c.clearKeys())
}

func (c *KeyController) getKeys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := vehicleIDFrom(r)
		bundle, err := c.store.Get(r.Context(), vehicleID)
		if err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromBundle(vehicleID, bundle))
	}
}

func (c *KeyController) setKeys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := vehicleIDFrom(r)

		var body internal.KeysRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithErrorKind(w, http.StatusBadRequest, KindBadRequest, "invalid keys body")
			return
		}

		bundle := body.ToBundle()
		if err := c.store.Set(r.Context(), vehicleID, bundle); err != nil {
			replyWithDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromBundle(vehicleID, bundle))
	}
}

func (c *KeyController) clearKeys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := vehicleIDFrom(r)
		if strings.TrimSpace(vehicleID.String()) == "" {
			replyWithDomainError(w, domain.ErrVehicleIDRequired)
			return
		}

		if err := c.store.Clear(r.Context(), vehicleID); err != nil {
			replyWithDomainError(w, err)
			return
		}

		slog.Info("vehicle credentials cleared", slog.String("vehicle_id", vehicleID.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}
