package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"vehicle-dashboard/internal/control_plane/communication/internal"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	_tracerName      = "vehicle-dashboard/communication"
	_defaultTimeout  = 30 * time.Second
	_maxErrorBodyLen = 512
)

var ErrBaseURLRequired = errors.New("backend base url is required")

type BackendClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// Tokens are used when the request context carries none.
	Tokens domain.SessionTokens
}

func NewBackendClient(config BackendClientConfig) (*BackendClient, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = _defaultTimeout
	}

	return &BackendClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		tokens:     config.Tokens,
		propagator: b3.New(),
	}, nil
}

var (
	_ usecases.CommandSender       = (*BackendClient)(nil)
	_ usecases.StatusReader        = (*BackendClient)(nil)
	_ usecases.VehicleStateFetcher = (*BackendClient)(nil)
	_ usecases.CatalogSource       = (*BackendClient)(nil)
)

// BackendClient talks JSON over HTTP to the vehicle backend. Session headers
// are taken from the request context and fall back to the configured tokens.
type BackendClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     domain.SessionTokens
	propagator propagation.TextMapPropagator
}

func (c *BackendClient) SendCommand(ctx context.Context, request domain.CommandRequest) (domain.TrackingID, error) {
	body, err := json.Marshal(internal.FromCommandRequest(request))
	if err != nil {
		return "", &domain.DispatchError{Reason: "encoding request", Err: err}
	}

	status, payload, err := c.do(ctx, "backend.send_command", http.MethodPost, "/commands", body)
	if err != nil {
		return "", &domain.DispatchError{Reason: "backend unreachable", Err: err}
	}

	if status < 200 || status >= 300 {
		return "", &domain.DispatchError{
			Reason:         "backend refused",
			BackendMessage: errorMessage(payload),
			StatusCode:     status,
		}
	}

	var accepted internal.CommandAccepted
	if err := json.Unmarshal(payload, &accepted); err != nil || strings.TrimSpace(accepted.CommandID) == "" {
		return "", &domain.DispatchError{
			Reason:     "response without command id",
			StatusCode: status,
			Err:        err,
		}
	}

	slog.Info("command accepted by backend",
		slog.String("vehicle_id", request.VehicleID.String()),
		slog.String("command", request.CommandID.String()),
		slog.String("tracking_id", accepted.CommandID))

	return domain.TrackingID(accepted.CommandID), nil
}

func (c *BackendClient) CommandStatus(ctx context.Context, trackingID domain.TrackingID) (usecases.StatusReport, error) {
	status, payload, err := c.do(ctx, "backend.command_status", http.MethodGet, "/command/"+url.PathEscape(trackingID.String()), nil)
	if err != nil {
		return usecases.StatusReport{}, err
	}
	if status < 200 || status >= 300 {
		return usecases.StatusReport{}, fmt.Errorf("command status: backend returned %d: %s", status, errorMessage(payload))
	}

	var body map[string]any
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return usecases.StatusReport{}, fmt.Errorf("%w: %v", domain.ErrUnknownStatus, err)
	}

	return usecases.StatusReport{State: body["state"]}, nil
}

func (c *BackendClient) FetchVehicleState(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, error) {
	status, payload, err := c.do(ctx, "backend.vehicle_state", http.MethodGet, "/vehicle/"+url.PathEscape(vehicleID.String()), nil)
	if err != nil {
		return domain.VehicleStateSnapshot{}, &domain.FetchError{VehicleID: vehicleID, Err: err}
	}
	if status < 200 || status >= 300 {
		return domain.VehicleStateSnapshot{}, &domain.FetchError{
			VehicleID:  vehicleID,
			StatusCode: status,
			Err:        errors.New(errorMessage(payload)),
		}
	}

	signals, err := internal.DecodeSignals(payload)
	if err != nil {
		return domain.VehicleStateSnapshot{}, &domain.FetchError{VehicleID: vehicleID, StatusCode: status, Err: err}
	}

	return domain.VehicleStateSnapshot{
		VehicleID: vehicleID,
		Signals:   signals,
	}, nil
}

func (c *BackendClient) AvailableCommands(ctx context.Context) ([]domain.CommandDescriptor, error) {
	status, payload, err := c.do(ctx, "backend.available_commands", http.MethodGet, "/commands/available", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("available commands: backend returned %d: %s", status, errorMessage(payload))
	}

	var catalog internal.CommandCatalog
	if err := json.Unmarshal(payload, &catalog); err != nil {
		return nil, fmt.Errorf("decoding command catalog: %w", err)
	}
	return catalog.ToDescriptors()
}

func (c *BackendClient) do(ctx context.Context, operation, method, path string, body []byte) (int, []byte, error) {
	ctx, span := otel.Tracer(_tracerName).Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setSessionHeaders(ctx, req.Header)
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, nil, fmt.Errorf("sending HTTP request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
		slog.Warn("backend returned an error status",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
			slog.String("trace_id", span.SpanContext().TraceID().String()))
	}

	return resp.StatusCode, payload, nil
}

func (c *BackendClient) setSessionHeaders(ctx context.Context, header http.Header) {
	tokens, ok := domain.SessionTokensFromContext(ctx)
	if !ok || tokens.IsZero() {
		tokens = c.tokens
	}

	if tokens.CSRFToken != "" {
		header.Set(domain.HeaderCSRFToken, tokens.CSRFToken)
	}
	if tokens.AppSessionToken != "" {
		header.Set(domain.HeaderAppSessionToken, tokens.AppSessionToken)
	}
	if tokens.UserSessionToken != "" {
		header.Set(domain.HeaderUserSessionToken, tokens.UserSessionToken)
	}
}

func errorMessage(payload []byte) string {
	var body internal.ErrorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		if message := body.Message(); message != "" {
			return message
		}
	}

	message := strings.TrimSpace(string(payload))
	if len(message) > _maxErrorBodyLen {
		message = message[:_maxErrorBodyLen]
	}
	return message
}
