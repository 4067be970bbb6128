package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobeval/internal/audit"
	"jobeval/internal/evaluation/metrics"
	"jobeval/internal/evaluation/ports"
	dErrors "jobeval/pkg/domain-errors"
	"jobeval/pkg/requestcontext"
)

// ValidatorFactory returns a fresh validator. The evaluator writes the
// validator's mode, so concurrent evaluations must not share one.
type ValidatorFactory func() ports.IdentityValidator

// Service runs evaluations for transports: one validator per call, metrics,
// tracing, audit and logging around the Evaluator.
type Service struct {
	validators    ValidatorFactory
	evaluatorOpts []Option
	logger        *slog.Logger
	metrics       *metrics.Metrics
	auditor       ports.AuditPort
	clock         func() time.Time
	tracer        trace.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithAuditor(auditor ports.AuditPort) ServiceOption {
	return func(s *Service) { s.auditor = auditor }
}

// WithClock pins EvaluatedAt. Without it the request time from context is used.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

func WithEvaluatorOptions(opts ...Option) ServiceOption {
	return func(s *Service) { s.evaluatorOpts = append(s.evaluatorOpts, opts...) }
}

func NewService(validators ValidatorFactory, opts ...ServiceOption) (*Service, error) {
	if validators == nil {
		return nil, errors.New("validator factory is required")
	}
	s := &Service{
		validators: validators,
		tracer:     otel.Tracer("jobeval/internal/evaluation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Evaluate decides one application. Contract errors from the Evaluator are
// returned unchanged. A failed audit emission is logged and counted but
// does not fail the evaluation.
func (s *Service) Evaluate(ctx context.Context, app JobApplication) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.Evaluate")
	defer span.End()

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	validator := s.validators()
	if validator == nil {
		err := dErrors.New(dErrors.CodeInternal, "validator factory returned nil")
		s.fail(ctx, span, err, requestID)
		return nil, err
	}

	result, err := NewEvaluator(validator, s.evaluatorOpts...).Evaluate(ctx, app)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		s.fail(ctx, span, err, requestID)
		return nil, err
	}

	decision := &Decision{
		ID:             uuid.New(),
		Result:         result,
		ValidationMode: validator.ValidationMode(),
		EvaluatedAt:    s.now(ctx).UTC(),
	}
	s.metrics.IncrementOutcome(result.String())
	span.SetAttributes(
		attribute.String("evaluation.id", decision.ID.String()),
		attribute.String("evaluation.result", result.String()),
		attribute.String("evaluation.validation_mode", decision.ValidationMode.String()),
	)

	s.emitAudit(ctx, app, decision, requestID)

	s.logger.InfoContext(ctx, "application evaluated",
		"evaluation_id", decision.ID,
		"result", result.String(),
		"validation_mode", decision.ValidationMode.String(),
		"request_id", requestID,
	)
	return decision, nil
}

// CheckConnection asks a fresh validator whether its backend is reachable.
func (s *Service) CheckConnection(ctx context.Context) bool {
	ctx, span := s.tracer.Start(ctx, "evaluation.CheckConnection")
	defer span.End()

	validator := s.validators()
	if validator == nil {
		s.metrics.SetRegistryUp(false)
		return false
	}
	up := validator.CheckConnectionToRemoteServer(ctx)
	s.metrics.SetRegistryUp(up)
	span.SetAttributes(attribute.Bool("identity.registry_up", up))
	if !up {
		s.logger.WarnContext(ctx, "identity registry unreachable",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return up
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, requestID string) {
	code := dErrors.CodeOf(err)
	s.metrics.IncrementOutcome(string(code))
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))

	if code == dErrors.CodeInternal {
		s.logger.ErrorContext(ctx, "application evaluation failed",
			"error", err,
			"request_id", requestID,
		)
		return
	}
	s.logger.WarnContext(ctx, "application rejected as invalid",
		"error", err,
		"request_id", requestID,
	)
}

func (s *Service) emitAudit(ctx context.Context, app JobApplication, decision *Decision, requestID string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		ID:             uuid.New(),
		Action:         audit.ActionEvaluated,
		EvaluationID:   decision.ID,
		Result:         decision.Result.String(),
		ValidationMode: decision.ValidationMode.String(),
		RequestID:      requestID,
		Subject:        requestcontext.Subject(ctx),
		EvaluatedAt:    decision.EvaluatedAt,
	}
	if app.Applicant != nil {
		event.IdentityHash = audit.HashIdentity(app.Applicant.IdentityNumber)
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.metrics.IncrementAuditFailure()
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"evaluation_id", decision.ID,
			"request_id", requestID,
		)
	}
}
