package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

var _ = ginkgo.Describe("HTTPServer", func() {
	var (
		tp *trace.TracerProvider
	)

	ginkgo.BeforeEach(func() {
		tp = trace.NewTracerProvider(
			trace.WithSpanProcessor(tracetest.NewSpanRecorder()),
		)
		otel.SetTracerProvider(tp)
	})

	ginkgo.AfterEach(func() {
		tp.Shutdown(context.Background())
	})

	ginkgo.Context("TracingMiddleware", func() {
		ginkgo.When("using tracing middleware", func() {
			ginkgo.It("should add span to request context", func() {
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					span := GetSpanFromContext(r)
					gomega.Expect(span).NotTo(gomega.BeNil())

					spanCtx := span.SpanContext()
					gomega.Expect(spanCtx.HasSpanID()).To(gomega.BeTrue())

					w.WriteHeader(http.StatusOK)
				})

				middleware := createTracingMiddleware()
				wrappedHandler := middleware(testHandler)

				req := httptest.NewRequest("GET", "/test", nil)
				rec := httptest.NewRecorder()

				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			})
		})
	})

	ginkgo.Context("GetSpanFromContext", func() {
		ginkgo.When("getting span from context", func() {
			ginkgo.It("should return a span even when no span is in context", func() {
				req := httptest.NewRequest("GET", "/test", nil)
				span := GetSpanFromContext(req)

				gomega.Expect(span).NotTo(gomega.BeNil())
			})
		})
	})

	ginkgo.Context("SessionHeaderMiddleware", func() {
		ginkgo.When("the request carries session headers", func() {
			ginkgo.It("should expose them through the request context", func() {
				var tokens domain.SessionTokens
				var found bool
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					tokens, found = domain.SessionTokensFromContext(r.Context())
					w.WriteHeader(http.StatusOK)
				})

				wrappedHandler := createTracingMiddleware()(createSessionHeaderMiddleware()(testHandler))

				req := httptest.NewRequest("GET", "/vehicles/VIN1/state", nil)
				req.Header.Set(domain.HeaderCSRFToken, "csrf")
				req.Header.Set(domain.HeaderAppSessionToken, "app")
				req.Header.Set(domain.HeaderUserSessionToken, "user")
				rec := httptest.NewRecorder()

				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(found).To(gomega.BeTrue())
				gomega.Expect(tokens).To(gomega.Equal(domain.SessionTokens{
					CSRFToken:        "csrf",
					AppSessionToken:  "app",
					UserSessionToken: "user",
				}))
			})
		})

		ginkgo.When("the request has no session headers", func() {
			ginkgo.It("should leave the context untouched", func() {
				var found bool
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, found = domain.SessionTokensFromContext(r.Context())
					w.WriteHeader(http.StatusOK)
				})

				wrappedHandler := createTracingMiddleware()(createSessionHeaderMiddleware()(testHandler))

				req := httptest.NewRequest("GET", "/test", nil)
				rec := httptest.NewRecorder()

				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(found).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Context("NewServer", func() {
		ginkgo.It("should serve healthz and registered controllers", func() {
			server := NewServer(Config{}, controllerFunc(func(router *http.ServeMux) {
				router.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
					ReplyJSONResponse(w, http.StatusOK, map[string]string{"pong": r.URL.Query().Get("v")})
				})
			}))

			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"status":"success"`))

			rec = httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/ping?v=1", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"pong":"1"`))
		})
	})
})

type controllerFunc func(*http.ServeMux)

func (f controllerFunc) AddRoutes(router *http.ServeMux) { f(router) }
