package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobeval/internal/platform/metrics"
	"jobeval/internal/platform/middleware"
	dErrors "jobeval/pkg/domain-errors"
	"jobeval/pkg/platform/httputil"
)

// RouteRegistrar mounts a module's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// ReadinessChecker reports whether downstream dependencies are reachable.
type ReadinessChecker interface {
	CheckConnection(ctx context.Context) bool
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Readiness ReadinessChecker
	// Auth guards the API routes; nil leaves them open.
	Auth middleware.JWTValidator
	// MetricsHandler serves /metrics; defaults to the default registry.
	MetricsHandler http.Handler
	// RequestTimeout bounds API requests; zero means 30s.
	RequestTimeout time.Duration
	Modules        []RouteRegistrar
}

// NewRouter wires the probes, /metrics and every module's API routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readyHandler(deps.Readiness))
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Logger(logger))
		api.Use(middleware.Timeout(timeout))
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.LatencyMiddleware(deps.Metrics))
		if deps.Auth != nil {
			api.Use(middleware.RequireAuth(deps.Auth, logger))
		}
		for _, m := range deps.Modules {
			m.Register(api)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

func readyHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil && !checker.CheckConnection(r.Context()) {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":            "unavailable",
				"identity_registry": "unreachable",
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":            "ready",
			"identity_registry": "reachable",
		})
	}
}
