package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/observability"
	"github.com/boddenberg/cashflow-forecast-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// forecastSvc and categorizationSvc may be nil; their routes then answer 503.
func NewRouter(
	forecastSvc *service.ForecastService,
	categorizationSvc *service.CategorizationService,
	breakers []*gobreaker.CircuitBreaker,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(breakers))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/forecast", forecastMetricsHandler(metrics))

		r.Group(func(r chi.Router) {
			if forecastSvc == nil {
				r.Use(unavailable("forecast"))
			}
			r.With(MaxBodyBytes(DefaultMaxBodyBytes), RequireJSON).
				Post("/forecast", projectHandler(forecastSvc, logger))
			r.Get("/customers/{customerId}/forecast", customerForecastHandler(forecastSvc, logger))
		})

		r.Group(func(r chi.Router) {
			if categorizationSvc == nil {
				r.Use(unavailable("categorization"))
			}
			r.Use(MaxBodyBytes(DefaultMaxBodyBytes), RequireJSON)
			r.Post("/categorize", categorizeHandler(categorizationSvc, logger))
			r.Post("/insights", insightsHandler(categorizationSvc, logger))
		})
	})

	return r
}

func unavailable(name string) func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusServiceUnavailable, name+" service unavailable")
		})
	}
}

// healthzHandler reports each collaborator through the state of its
// circuit breaker.
func healthzHandler(breakers []*gobreaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "cashflow-api", Status: "healthy", LastChecked: now},
		}
		overall := "healthy"
		for _, cb := range breakers {
			status := "healthy"
			switch cb.State() {
			case gobreaker.StateOpen:
				status = "unhealthy"
			case gobreaker.StateHalfOpen:
				status = "degraded"
			}
			if status != "healthy" {
				overall = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: cb.Name(), Status: status, LastChecked: now,
			})
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func forecastMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
