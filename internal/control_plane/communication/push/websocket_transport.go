package push

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	_defaultReconnectDelay   = 5 * time.Second
	_defaultHandshakeTimeout = 10 * time.Second
	_maxFrameSize            = 1 << 20
)

type WebSocketTransportConfig struct {
	URL              string
	Tokens           domain.SessionTokens
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
}

func NewWebSocketTransport(config WebSocketTransportConfig, sink StateSink) *WebSocketTransport {
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = _defaultReconnectDelay
	}
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = _defaultHandshakeTimeout
	}

	return &WebSocketTransport{
		config: config,
		sink:   sink,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: config.HandshakeTimeout,
		},
		applied: pushFrameCounter(),
		done:    make(chan struct{}),
	}
}

var _ async.Worker = (*WebSocketTransport)(nil)

// WebSocketTransport keeps a connection to the backend push endpoint open and
// applies every vehicle_update frame to the sink. It reconnects until stopped.
type WebSocketTransport struct {
	config  WebSocketTransportConfig
	sink    StateSink
	dialer  *websocket.Dialer
	applied metric.Int64Counter

	mu       sync.Mutex
	conn     *websocket.Conn
	done     chan struct{}
	shutdown sync.Once
}

func (t *WebSocketTransport) Run(ctx context.Context, done func()) {
	defer done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-t.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		err := t.session(ctx)
		if ctx.Err() != nil {
			slog.Info("push websocket stopped")
			return
		}
		slog.Warn("push websocket disconnected",
			slog.String("url", t.config.URL),
			slog.Any("error", err),
			slog.Duration("retry_in", t.config.ReconnectDelay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.config.ReconnectDelay):
		}
	}
}

func (t *WebSocketTransport) Shutdown() {
	t.shutdown.Do(func() {
		close(t.done)
	})
	t.closeConn()
}

func (t *WebSocketTransport) session(ctx context.Context) error {
	conn, _, err := t.dialer.DialContext(ctx, t.config.URL, t.header())
	if err != nil {
		return err
	}
	conn.SetReadLimit(_maxFrameSize)

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	defer t.closeConn()

	stop := context.AfterFunc(ctx, t.closeConn)
	defer stop()

	slog.Info("push websocket connected", slog.String("url", t.config.URL))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		t.handle(ctx, payload)
	}
}

func (t *WebSocketTransport) handle(ctx context.Context, payload []byte) {
	vehicleID, snapshot, ok, err := decodeFrame(payload, "")
	switch {
	case err != nil:
		t.count(ctx, "invalid")
		slog.Debug("dropping push frame", slog.Any("error", err))
		return
	case !ok:
		t.count(ctx, "ignored")
		return
	}

	if err := t.sink.ApplyPush(ctx, vehicleID, snapshot); err != nil {
		t.count(ctx, "error")
		slog.Error("applying pushed state",
			slog.String("vehicle_id", vehicleID.String()),
			slog.Any("error", err))
		return
	}
	t.count(ctx, "applied")
}

func (t *WebSocketTransport) count(ctx context.Context, result string) {
	if t.applied == nil {
		return
	}
	t.applied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transport", "websocket"),
		attribute.String("result", result),
	))
}

func (t *WebSocketTransport) header() http.Header {
	header := http.Header{}
	if t.config.Tokens.CSRFToken != "" {
		header.Set(domain.HeaderCSRFToken, t.config.Tokens.CSRFToken)
	}
	if t.config.Tokens.AppSessionToken != "" {
		header.Set(domain.HeaderAppSessionToken, t.config.Tokens.AppSessionToken)
	}
	if t.config.Tokens.UserSessionToken != "" {
		header.Set(domain.HeaderUserSessionToken, t.config.Tokens.UserSessionToken)
	}
	return header
}

func (t *WebSocketTransport) closeConn() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return
	}
	err := t.conn.Close()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		slog.Debug("closing push websocket", slog.Any("error", err))
	}
	t.conn = nil
}
