package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"jobeval/internal/audit"
	kafkapublisher "jobeval/internal/audit/publisher/kafka"
	auditmemory "jobeval/internal/audit/store/memory"
	auditpostgres "jobeval/internal/audit/store/postgres"
	"jobeval/internal/evaluation"
	evalmetrics "jobeval/internal/evaluation/metrics"
	"jobeval/internal/evaluation/ports"
	"jobeval/internal/identity"
	"jobeval/internal/identity/cache"
	idmetrics "jobeval/internal/identity/metrics"
	"jobeval/internal/platform/config"
	"jobeval/internal/platform/postgres"
	platformredis "jobeval/internal/platform/redis"
	"jobeval/pkg/platform/circuit"
)

const auditQueueSize = 256

// components is everything a running process needs, plus the cleanups for
// the connections it opened.
type components struct {
	service *evaluation.Service
	queue   *audit.Queue
	worker  *audit.Worker
	closers []func()
	// background jobs run for the life of the process; they return ctx.Err().
	background []func(ctx context.Context) error
}

func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// staticFlags configure the stand-in validator used when no registry is set.
type staticFlags struct {
	country string
	valid   bool
}

// buildValidators returns the registry-backed factory when a registry is
// configured and a static one otherwise.
func buildValidators(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, static staticFlags, c *components) (evaluation.ValidatorFactory, error) {
	if cfg.Registry.BaseURL == "" {
		country := static.country
		if country == "" {
			country = cfg.Identity.OfficeCountry
		}
		logger.Warn("no identity registry configured, using static validator",
			"country", country,
			"default_validity", static.valid,
		)
		return func() ports.IdentityValidator {
			return identity.NewStaticValidator(country, identity.WithDefaultValidity(static.valid))
		}, nil
	}

	var validity cache.ValidityCache
	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		validity = cache.NewRedisCache(rdb.Client, cfg.Identity.CacheTTL)
		logger.Info("identity cache backed by redis")
	} else {
		memory := cache.NewInMemoryCache(cfg.Identity.CacheTTL)
		c.background = append(c.background, func(ctx context.Context) error {
			return memory.RunJanitor(ctx, cfg.Identity.CacheTTL)
		})
		validity = memory
	}

	breaker := circuit.New("identity-registry",
		circuit.WithFailureThreshold(cfg.Registry.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Registry.SuccessThreshold),
	)
	client := identity.NewRegistryClient(cfg.Registry.BaseURL, cfg.Registry.APIKey, cfg.Registry.Timeout)
	registry, err := identity.NewRegistry(client,
		identity.WithCache(validity),
		identity.WithBreaker(breaker),
		identity.WithMetrics(idmetrics.NewWithRegisterer(reg)),
		identity.WithLogger(logger),
		identity.WithOfficeCountry(cfg.Identity.OfficeCountry),
	)
	if err != nil {
		return nil, err
	}
	return registry.Factory(), nil
}

// buildAuditSink fans out to postgres and kafka when configured, and to an
// in-memory store when neither is.
func buildAuditSink(ctx context.Context, cfg *config.Config, logger *slog.Logger, c *components) (audit.Emitter, error) {
	var sinks []audit.Emitter

	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		store := auditpostgres.New(db, auditpostgres.WithTable(cfg.Postgres.AuditTable))
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate audit store: %w", err)
		}
		sinks = append(sinks, store)
		logger.Info("audit store backed by postgres", "table", cfg.Postgres.AuditTable)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := kafkapublisher.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, pub.Close)
		sinks = append(sinks, pub)
		logger.Info("audit events published to kafka", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	if len(sinks) == 0 {
		logger.Warn("no audit store configured, keeping audit events in memory")
		sinks = append(sinks, auditmemory.NewInMemoryStore())
	}
	return audit.Multi(sinks...), nil
}

// build wires the evaluation service. withAudit adds the queued audit trail;
// one-shot CLI commands leave it off.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, static staticFlags, withAudit bool) (*components, error) {
	c := &components{}
	ok := false
	defer func() {
		if !ok {
			c.close()
		}
	}()

	formula, known := evaluation.ParseMatchRateFormula(cfg.Evaluation.MatchRateFormula)
	if !known {
		return nil, errors.New("unsupported evaluation.match_rate_formula")
	}

	validators, err := buildValidators(ctx, cfg, logger, reg, static, c)
	if err != nil {
		return nil, err
	}

	serviceOpts := []evaluation.ServiceOption{
		evaluation.WithLogger(logger),
		evaluation.WithMetrics(evalmetrics.NewWithRegisterer(reg)),
		evaluation.WithEvaluatorOptions(evaluation.WithMatchRateFormula(formula)),
	}
	if withAudit {
		sink, err := buildAuditSink(ctx, cfg, logger, c)
		if err != nil {
			return nil, err
		}
		c.queue = audit.NewQueue(auditQueueSize)
		c.worker = audit.NewWorker(sink, c.queue, logger)
		serviceOpts = append(serviceOpts, evaluation.WithAuditor(c.queue))
	}

	c.service, err = evaluation.NewService(validators, serviceOpts...)
	if err != nil {
		return nil, err
	}
	ok = true
	return c, nil
}
