package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const _tracerName = "vehicle-dashboard"

type Server interface {
	Run()
	Shutdown()
}

var _ Server = &StandardServer{}

type Config struct {
	Addr           string
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr: ":3000",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		ShutdownGrace: 10 * time.Second,
	}
}

type StandardServer struct {
	server *http.Server
	config Config
}

func (s *StandardServer) Run() {
	slog.Info("http server listening", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func (s *StandardServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownGrace)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown", slog.Any("error", err))
	}
}

// Handler exposes the fully wrapped handler, mostly for tests.
func (s *StandardServer) Handler() http.Handler {
	return s.server.Handler
}

func NewServer(config Config, controllers ...Controller) *StandardServer {
	if config.Addr == "" {
		config.Addr = DefaultConfig().Addr
	}
	if config.ShutdownGrace <= 0 {
		config.ShutdownGrace = DefaultConfig().ShutdownGrace
	}

	router := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			domain.HeaderCSRFToken,
			domain.HeaderAppSessionToken,
			domain.HeaderUserSessionToken,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	tracingMiddleware := createTracingMiddleware()
	sessionHeaderMiddleware := createSessionHeaderMiddleware()
	metricsMiddleware := MetricsMiddleware()

	server := &StandardServer{
		server: &http.Server{
			Addr: config.Addr,
			Handler: c.Handler(
				metricsMiddleware(
					tracingMiddleware(
						sessionHeaderMiddleware(router),
					),
				),
			),
		},
		config: config,
	}

	router.Handle("GET /healthz", getHealthz())
	router.Handle("GET /metrics", promhttp.Handler())

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return server
}

// createSessionHeaderMiddleware moves the backend session headers into the
// request context so outbound backend calls can forward them.
func createSessionHeaderMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokens := domain.SessionTokens{
				CSRFToken:        r.Header.Get(domain.HeaderCSRFToken),
				AppSessionToken:  r.Header.Get(domain.HeaderAppSessionToken),
				UserSessionToken: r.Header.Get(domain.HeaderUserSessionToken),
			}

			GetSpanFromContext(r).SetAttributes(attribute.Bool("session.present", !tokens.IsZero()))

			if !tokens.IsZero() {
				r = r.WithContext(domain.ContextWithSessionTokens(r.Context(), tokens))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func createTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := b3.New()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			tracer := otel.Tracer(_tracerName)
			ctx, span := tracer.Start(ctx, "http.request",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.remote_addr", r.RemoteAddr),
					attribute.String("component", "http-server"),
				),
			)
			defer span.End()

			r = r.WithContext(ctx)

			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))
		})
	}
}

func getHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span := GetSpanFromContext(r)
		span.SetAttributes(attribute.String("endpoint", "healthz"))

		output := map[string]string{"status": "success"}
		ReplyJSONResponse(w, http.StatusOK, output)
	}
}
