package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"vehicle-dashboard/internal/infra/metrics"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const _tracerName = "vehicle-dashboard"

const (
	dispatchOutcomeAccepted           = "accepted"
	dispatchOutcomeInvalidVehicle     = "invalid_vehicle"
	dispatchOutcomeUnknownCommand     = "unknown_command"
	dispatchOutcomeMissingCredentials = "missing_credentials"
	dispatchOutcomeInvalidParameters  = "invalid_parameters"
	dispatchOutcomeRejected           = "rejected"
)

// CommandDispatcher validates a command locally and submits it once. It never
// retries: a rejected dispatch is reported to the caller as is.
type CommandDispatcher struct {
	catalog CommandResolver
	keys    KeyStore
	sender  CommandSender
	now     func() time.Time
}

func NewCommandDispatcher(catalog CommandResolver, keys KeyStore, sender CommandSender) *CommandDispatcher {
	return &CommandDispatcher{
		catalog: catalog,
		keys:    keys,
		sender:  sender,
		now:     time.Now,
	}
}

// Dispatch runs the pre-flight checks in order (command, credentials,
// parameters) and only then calls the backend.
func (d *CommandDispatcher) Dispatch(
	ctx context.Context,
	vehicleID domain.VehicleID,
	commandID domain.CommandID,
	params map[string]any,
) (domain.CommandHandle, error) {
	ctx, span := otel.Tracer(_tracerName).Start(ctx, "command.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("vehicle.id", vehicleID.String()),
		attribute.String("command.id", commandID.String()),
	)

	handle, outcome, err := d.dispatch(ctx, vehicleID, commandID, params)
	metrics.CommandDispatchTotal.WithLabelValues(commandID.String(), outcome).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		slog.Warn("command dispatch refused",
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("vehicle_id", vehicleID.String()),
			slog.String("command", commandID.String()),
			slog.String("outcome", outcome),
			slog.Any("error", err))
		return domain.CommandHandle{}, err
	}

	slog.Info("command accepted",
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("vehicle_id", vehicleID.String()),
		slog.String("command", commandID.String()),
		slog.String("tracking_id", handle.TrackingID.String()))

	return handle, nil
}

func (d *CommandDispatcher) dispatch(
	ctx context.Context,
	vehicleID domain.VehicleID,
	commandID domain.CommandID,
	params map[string]any,
) (domain.CommandHandle, string, error) {
	if strings.TrimSpace(vehicleID.String()) == "" {
		return domain.CommandHandle{}, dispatchOutcomeInvalidVehicle, &domain.ValidationError{Fields: []string{"vehicle_id"}}
	}

	descriptor, ok := d.catalog.Resolve(commandID)
	if !ok {
		return domain.CommandHandle{}, dispatchOutcomeUnknownCommand, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, commandID)
	}

	bundle, err := d.keys.Get(ctx, vehicleID)
	if errors.Is(err, domain.ErrCredentialsNotFound) {
		return domain.CommandHandle{}, dispatchOutcomeMissingCredentials, fmt.Errorf("%w: no key bundle for %s", domain.ErrMissingCredentials, vehicleID)
	}
	if err != nil {
		return domain.CommandHandle{}, dispatchOutcomeMissingCredentials, fmt.Errorf("reading key bundle: %w", err)
	}
	if missing := bundle.MissingFields(); len(missing) > 0 {
		return domain.CommandHandle{}, dispatchOutcomeMissingCredentials, fmt.Errorf("%w: empty fields [%s]", domain.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	coerced, err := checkParameters(descriptor, params)
	if err != nil {
		return domain.CommandHandle{}, dispatchOutcomeInvalidParameters, err
	}

	request := domain.CommandRequest{
		VehicleID:   vehicleID,
		CommandID:   descriptor.ID,
		Credentials: bundle,
		Params:      coerced,
	}

	start := d.now()
	trackingID, err := d.sender.SendCommand(ctx, request)
	metrics.CommandDispatchLatency.WithLabelValues(commandID.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		var dispatchErr *domain.DispatchError
		if !errors.As(err, &dispatchErr) {
			err = &domain.DispatchError{Reason: "transport failure", Err: err}
		}
		return domain.CommandHandle{}, dispatchOutcomeRejected, err
	}

	handle, err := domain.NewCommandHandleBuilder().
		WithTrackingID(trackingID).
		WithVehicleID(vehicleID).
		WithDescriptor(descriptor).
		WithSubmittedAt(start).
		Build()
	if err != nil {
		return domain.CommandHandle{}, dispatchOutcomeRejected, &domain.DispatchError{Reason: "invalid backend response", Err: err}
	}

	return handle, dispatchOutcomeAccepted, nil
}

// checkParameters rejects keys the command does not declare, coerces numeric
// strings and checks numeric bounds. Missing keys are allowed.
func checkParameters(descriptor domain.CommandDescriptor, params map[string]any) (map[string]any, error) {
	if len(params) == 0 {
		return nil, nil
	}

	unknown := make([]string, 0)
	for key := range params {
		if _, ok := descriptor.Parameter(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, &domain.InvalidParametersError{
			CommandID: descriptor.ID,
			Keys:      unknown,
			Reason:    "not accepted by this command",
		}
	}

	coerced := make(map[string]any, len(params))
	outOfRange := make([]string, 0)
	reasons := make([]string, 0)
	for key, value := range params {
		value = CoerceParam(value)
		spec, _ := descriptor.Parameter(key)
		if err := spec.Check(value); err != nil {
			outOfRange = append(outOfRange, key)
			reasons = append(reasons, err.Error())
		}
		coerced[key] = value
	}
	if len(outOfRange) > 0 {
		slices.Sort(outOfRange)
		slices.Sort(reasons)
		return nil, &domain.InvalidParametersError{
			CommandID: descriptor.ID,
			Keys:      outOfRange,
			Reason:    strings.Join(reasons, "; "),
		}
	}

	return coerced, nil
}

// CoerceParam turns a string holding a finite number into that number
// ("80" becomes 80, "63.5" becomes 63.5). Anything else is returned unchanged.
func CoerceParam(value any) any {
	switch v := value.(type) {
	case string:
		return coerceNumeric(v, value)
	case json.Number:
		return coerceNumeric(v.String(), value)
	default:
		return value
	}
}

func coerceNumeric(s string, original any) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return original
	}
	return f
}
