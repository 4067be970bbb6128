package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"

	"jobeval/internal/evaluation"
	"jobeval/internal/evaluation/handler"
	"jobeval/internal/evaluation/ports"
	"jobeval/internal/identity"
	"jobeval/internal/jwttoken"
	"jobeval/internal/platform/metrics"
	"jobeval/pkg/testutil"
)

type readiness bool

func (r readiness) CheckConnection(context.Context) bool { return bool(r) }

type RouterSuite struct {
	suite.Suite
	logger   *slog.Logger
	registry *prometheus.Registry
	tokens   *jwttoken.Service
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.tokens = jwttoken.NewService("router-test-key", "jobeval", "jobeval-api")
}

// router builds a router on a fresh registry; s.registry points at the latest.
func (s *RouterSuite) router(auth bool, ready bool) http.Handler {
	s.registry = prometheus.NewRegistry()
	svc, err := evaluation.NewService(func() ports.IdentityValidator {
		return identity.NewStaticValidator("Azerbaijan", identity.WithValidIdentities("AZE1"))
	}, evaluation.WithLogger(s.logger))
	s.Require().NoError(err)

	deps := Deps{
		Logger:         s.logger,
		Metrics:        metrics.NewWithRegisterer(s.registry),
		Readiness:      readiness(ready),
		MetricsHandler: promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
		RequestTimeout: time.Second,
		Modules:        []RouteRegistrar{handler.New(svc, s.logger)},
	}
	if auth {
		deps.Auth = jwttoken.NewServiceAdapter(s.tokens)
	}
	return NewRouter(deps)
}

const acceptedBody = `{"applicant":{"age":30,"identity_number":"AZE1"},"tech_stack":["C#","RabbitMQ","Microservice","Visual Studio"],"years_of_experience":15}`

func (s *RouterSuite) TestProbes() {
	h := s.router(false, true)
	s.Equal(http.StatusOK, testutil.Serve(h, http.MethodGet, "/healthz", "").Code)
	s.Equal(http.StatusOK, testutil.Serve(h, http.MethodGet, "/readyz", "").Code)
}

func (s *RouterSuite) TestReadyzUnavailableWhenRegistryDown() {
	down := s.router(false, false)
	s.Equal(http.StatusOK, testutil.Serve(down, http.MethodGet, "/healthz", "").Code)

	w := testutil.Serve(down, http.MethodGet, "/readyz", "")
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Contains(w.Body.String(), "unreachable")
}

func (s *RouterSuite) TestEvaluateEndToEnd() {
	h := s.router(false, true)
	w := testutil.Serve(h, http.MethodPost, "/v1/applications/evaluate", acceptedBody)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.NotEmpty(w.Header().Get("X-Request-ID"))
	body := testutil.DecodeJSON[map[string]any](s.T(), w)
	s.Equal("auto_accepted", body["result"])
	s.Equal("detailed", body["validation_mode"])
}

func (s *RouterSuite) TestAuthRequiredWhenConfigured() {
	h := s.router(true, true)

	testutil.AssertError(s.T(), testutil.Serve(h, http.MethodPost, "/v1/applications/evaluate", acceptedBody),
		http.StatusUnauthorized, "unauthorized")
	testutil.AssertError(s.T(), testutil.Serve(h, http.MethodPost, "/v1/applications/evaluate", acceptedBody, testutil.WithBearer("garbage")),
		http.StatusUnauthorized, "unauthorized")

	token, err := s.tokens.Issue("ats", time.Hour)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, testutil.Serve(h, http.MethodPost, "/v1/applications/evaluate", acceptedBody, testutil.WithBearer(token)).Code)

	// Probes stay open.
	s.Equal(http.StatusOK, testutil.Serve(h, http.MethodGet, "/healthz", "").Code)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	h := s.router(false, true)
	testutil.Serve(h, http.MethodPost, "/v1/applications/evaluate", acceptedBody)

	w := testutil.Serve(h, http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "jobeval_http_requests_total")
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	w := testutil.Serve(NewRouter(Deps{}), http.MethodGet, "/nope", "")
	testutil.AssertError(t, w, http.StatusNotFound, "not_found")
}
