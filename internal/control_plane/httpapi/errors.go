package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

const (
	KindValidation         = "validation"
	KindInvalidParameters  = "invalid_parameters"
	KindUnknownCommand     = "unknown_command"
	KindMissingCredentials = "missing_credentials"
	KindDispatch           = "dispatch"
	KindFetch              = "fetch"
	KindNotFound           = "not_found"
	KindBadRequest         = "bad_request"
	KindInternal           = "internal"
)

func replyWithDomainError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("kind", kind), slog.Any("error", err))
	}
	httpserver.ReplyWithErrorKind(w, status, kind, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		return http.StatusUnprocessableEntity, KindInvalidParameters
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrVehicleIDRequired):
		return http.StatusUnprocessableEntity, KindValidation
	case errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusNotFound, KindUnknownCommand
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusPreconditionFailed, KindMissingCredentials
	case errors.Is(err, domain.ErrCommandNotFound),
		errors.Is(err, domain.ErrCredentialsNotFound),
		errors.Is(err, domain.ErrNoVehicleSelected):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, domain.ErrDispatchRejected):
		return http.StatusBadGateway, KindDispatch
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway, KindFetch
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func vehicleIDFrom(r *http.Request) domain.VehicleID {
	return domain.VehicleID(r.PathValue("vehicle_id"))
}
