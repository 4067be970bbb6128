package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobeval/internal/evaluation/ports"
	"jobeval/internal/identity/cache"
	"jobeval/internal/identity/metrics"
	"jobeval/pkg/platform/circuit"
	"jobeval/pkg/platform/sentinel"
)

// DefaultOfficeCountry is the country of record when none is configured.
const DefaultOfficeCountry = "Azerbaijan"

// RegistryAPI is the remote registry surface. *RegistryClient implements it.
type RegistryAPI interface {
	Lookup(ctx context.Context, identityNumber string, mode ports.ValidationMode) (*Lookup, error)
	Health(ctx context.Context) error
}

// Registry holds the dependencies shared by every RegistryValidator: one
// client, one breaker, one cache. Validators are cheap and carry only their
// own mode.
type Registry struct {
	api     RegistryAPI
	breaker *circuit.Breaker
	cache   cache.ValidityCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	country Country
	tracer  trace.Tracer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

func WithCache(c cache.ValidityCache) RegistryOption {
	return func(r *Registry) { r.cache = c }
}

func WithBreaker(b *circuit.Breaker) RegistryOption {
	return func(r *Registry) { r.breaker = b }
}

func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

func WithOfficeCountry(country string) RegistryOption {
	return func(r *Registry) {
		if strings.TrimSpace(country) != "" {
			r.country = Country(country)
		}
	}
}

// NewRegistry wires a registry. Defaults: 5 minute in-memory cache, breaker
// with default thresholds, slog.Default, no metrics.
func NewRegistry(api RegistryAPI, opts ...RegistryOption) (*Registry, error) {
	if api == nil {
		return nil, errors.New("registry api is required")
	}
	r := &Registry{
		api:     api,
		country: DefaultOfficeCountry,
		tracer:  otel.Tracer("jobeval/internal/identity"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.NewInMemoryCache(5 * time.Minute)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("identity-registry")
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Validator returns a new validator in Quick mode.
func (r *Registry) Validator() *RegistryValidator {
	v := &RegistryValidator{registry: r}
	v.mode.Store(int32(ports.ValidationModeQuick))
	return v
}

// Factory returns a constructor for per-evaluation validators.
func (r *Registry) Factory() func() ports.IdentityValidator {
	return func() ports.IdentityValidator { return r.Validator() }
}

// Breaker exposes the shared breaker, for health reporting.
func (r *Registry) Breaker() *circuit.Breaker {
	return r.breaker
}

// RegistryValidator validates identities against the remote registry.
type RegistryValidator struct {
	registry *Registry
	mode     atomic.Int32
}

var _ ports.IdentityValidator = (*RegistryValidator)(nil)

// IsValid never returns an error: registry failures fall back to a cached
// answer while the circuit is open, and to false otherwise.
func (v *RegistryValidator) IsValid(ctx context.Context, identityNumber string) bool {
	r := v.registry
	number := strings.TrimSpace(identityNumber)
	if number == "" {
		r.metrics.IncrementLookup(metrics.OutcomeBlank)
		return false
	}

	mode := v.ValidationMode()
	ctx, span := r.tracer.Start(ctx, "identity.IsValid",
		trace.WithAttributes(attribute.String("identity.validation_mode", mode.String())))
	defer span.End()

	if mode != ports.ValidationModeDetailed {
		if valid, err := r.cache.Find(ctx, number); err == nil {
			r.metrics.IncrementLookup(metrics.OutcomeCacheHit)
			span.SetAttributes(attribute.String("identity.outcome", metrics.OutcomeCacheHit))
			return valid
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		}
	}

	start := time.Now()
	lookup, err := r.api.Lookup(ctx, number, mode)
	r.metrics.ObserveRegistryLatency("lookup", time.Since(start))
	if err == nil {
		r.recordSuccess(ctx)
		if saveErr := r.cache.Save(ctx, number, lookup.Valid); saveErr != nil {
			r.logger.WarnContext(ctx, "identity cache write failed", "error", saveErr)
		}
		r.metrics.IncrementLookup(metrics.OutcomeRegistry)
		span.SetAttributes(attribute.String("identity.outcome", metrics.OutcomeRegistry))
		return lookup.Valid
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "registry lookup failed")
	r.metrics.IncrementRegistryError(string(CategoryOf(err)))

	if r.recordFailure(ctx, err) {
		if valid, cacheErr := r.cache.Find(ctx, number); cacheErr == nil {
			r.metrics.IncrementLookup(metrics.OutcomeFallback)
			span.SetAttributes(attribute.String("identity.outcome", metrics.OutcomeFallback))
			return valid
		}
	}

	r.logger.WarnContext(ctx, "identity lookup failed, treating as invalid",
		"error", err,
		"category", string(CategoryOf(err)),
		"retryable", IsRetryable(err),
	)
	r.metrics.IncrementLookup(metrics.OutcomeFailClosed)
	span.SetAttributes(attribute.String("identity.outcome", metrics.OutcomeFailClosed))
	return false
}

// CheckConnectionToRemoteServer calls the registry health endpoint. It does
// not touch the breaker.
func (v *RegistryValidator) CheckConnectionToRemoteServer(ctx context.Context) bool {
	r := v.registry
	ctx, span := r.tracer.Start(ctx, "identity.CheckConnection")
	defer span.End()

	start := time.Now()
	err := r.api.Health(ctx)
	r.metrics.ObserveRegistryLatency("health", time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry unreachable")
		r.logger.WarnContext(ctx, "identity registry health check failed", "error", err)
		return false
	}
	return true
}

func (v *RegistryValidator) CountryDataProvider() ports.CountryDataProvider {
	return v.registry.country
}

func (v *RegistryValidator) ValidationMode() ports.ValidationMode {
	return ports.ValidationMode(v.mode.Load())
}

func (v *RegistryValidator) SetValidationMode(mode ports.ValidationMode) {
	v.mode.Store(int32(mode))
}

func (r *Registry) recordSuccess(ctx context.Context) {
	_, change := r.breaker.RecordSuccess()
	if change.Closed {
		r.metrics.SetCircuitOpen(false)
		r.logger.InfoContext(ctx, "identity registry circuit closed", "breaker", r.breaker.Name())
	}
}

// recordFailure reports whether cached answers should be served.
func (r *Registry) recordFailure(ctx context.Context, err error) bool {
	useFallback, change := r.breaker.RecordFailure()
	if change.Opened {
		r.metrics.SetCircuitOpen(true)
		r.logger.WarnContext(ctx, "identity registry circuit opened",
			"breaker", r.breaker.Name(),
			"error", err,
		)
	}
	return useFallback
}
