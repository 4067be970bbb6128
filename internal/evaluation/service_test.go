package evaluation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"jobeval/internal/audit"
	"jobeval/internal/evaluation"
	"jobeval/internal/evaluation/metrics"
	"jobeval/internal/evaluation/mocks"
	"jobeval/internal/evaluation/ports"
	"jobeval/internal/identity"
	dErrors "jobeval/pkg/domain-errors"
	"jobeval/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	auditor    *mocks.MockAuditPort
	metrics    *metrics.Metrics
	validators []*identity.StaticValidator
	fixedNow   time.Time
	service    *evaluation.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.auditor = mocks.NewMockAuditPort(s.ctrl)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.validators = nil
	s.fixedNow = time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	s.ctx = requestcontext.WithSubject(requestcontext.WithRequestID(context.Background(), "req-42"), "ats")

	svc, err := evaluation.NewService(s.factory(identity.WithValidIdentities("AZE1234567")),
		evaluation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		evaluation.WithMetrics(s.metrics),
		evaluation.WithAuditor(s.auditor),
		evaluation.WithClock(func() time.Time { return s.fixedNow }),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) factory(opts ...identity.StaticOption) evaluation.ValidatorFactory {
	return func() ports.IdentityValidator {
		v := identity.NewStaticValidator("Azerbaijan", opts...)
		s.validators = append(s.validators, v)
		return v
	}
}

func (s *ServiceSuite) outcome(result string) float64 {
	return testutil.ToFloat64(s.metrics.Outcomes.WithLabelValues(result))
}

func application(age int, identityNumber string, years int, stack ...string) evaluation.JobApplication {
	return evaluation.JobApplication{
		Applicant:         &evaluation.Applicant{Age: age, IdentityNumber: identityNumber},
		TechStackList:     stack,
		YearsOfExperience: years,
	}
}

func (s *ServiceSuite) TestNewServiceRequiresFactory() {
	_, err := evaluation.NewService(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestEvaluateAcceptedAndAudited() {
	var emitted audit.Event
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			emitted = e
			return nil
		})

	decision, err := s.service.Evaluate(s.ctx,
		application(30, "AZE1234567", 16, "C#", "RabbitMQ", "Microservice", "Visual Studio"))
	s.Require().NoError(err)

	s.Equal(evaluation.AutoAccepted, decision.Result)
	s.Equal(ports.ValidationModeDetailed, decision.ValidationMode)
	s.Equal(s.fixedNow, decision.EvaluatedAt)
	s.NotEqual(uuid.Nil, decision.ID)

	s.Equal(decision.ID, emitted.EvaluationID)
	s.Equal(audit.ActionEvaluated, emitted.Action)
	s.Equal("auto_accepted", emitted.Result)
	s.Equal("detailed", emitted.ValidationMode)
	s.Equal("req-42", emitted.RequestID)
	s.Equal("ats", emitted.Subject)
	s.Equal(audit.HashIdentity("AZE1234567"), emitted.IdentityHash)
	s.Equal(s.fixedNow, emitted.EvaluatedAt)

	s.Equal(1.0, s.outcome("auto_accepted"))
}

func (s *ServiceSuite) TestEachEvaluationGetsItsOwnValidator() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := s.service.Evaluate(s.ctx, application(30, "AZE1234567", 1))
	s.Require().NoError(err)
	_, err = s.service.Evaluate(s.ctx, application(30, "AZE1234567", 1))
	s.Require().NoError(err)

	s.Require().Len(s.validators, 2)
	s.NotSame(s.validators[0], s.validators[1])
	s.Equal([]string{"AZE1234567"}, s.validators[1].Calls())
}

func (s *ServiceSuite) TestUnderAgeKeepsInitialMode() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	decision, err := s.service.Evaluate(s.ctx, application(17, "AZE1234567", 20))
	s.Require().NoError(err)
	s.Equal(evaluation.AutoRejected, decision.Result)
	s.Equal(ports.ValidationModeNone, decision.ValidationMode)
	s.Empty(s.validators[0].Calls())
}

func (s *ServiceSuite) TestNilApplicantIsInvalidArgument() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(0)

	decision, err := s.service.Evaluate(s.ctx, evaluation.JobApplication{TechStackList: []string{"C#"}})
	s.Nil(decision)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidArgument))
	s.Equal(1.0, s.outcome(string(dErrors.CodeInvalidArgument)))
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailEvaluation() {
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	decision, err := s.service.Evaluate(s.ctx, application(30, "unknown", 20))
	s.Require().NoError(err)
	s.Equal(evaluation.TransferredToHR, decision.Result)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AuditFailures))
}

func (s *ServiceSuite) TestNoAuditorConfigured() {
	svc, err := evaluation.NewService(s.factory(identity.WithDefaultValidity(true)))
	s.Require().NoError(err)

	decision, err := svc.Evaluate(context.Background(),
		application(30, "X", 10, "C#", "RabbitMQ", "Microservice", "Visual Studio"))
	s.Require().NoError(err)
	s.Equal(evaluation.TryAgain, decision.Result, "full stack without enough experience")
	s.WithinDuration(time.Now(), decision.EvaluatedAt, time.Minute)
}

func (s *ServiceSuite) TestEvaluatedAtComesFromRequestTime() {
	svc, err := evaluation.NewService(s.factory())
	s.Require().NoError(err)

	requestTime := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	decision, err := svc.Evaluate(requestcontext.WithTime(context.Background(), requestTime), application(10, "", 0))
	s.Require().NoError(err)
	s.Equal(requestTime, decision.EvaluatedAt)
}

func (s *ServiceSuite) TestScaledFormulaOption() {
	svc, err := evaluation.NewService(s.factory(identity.WithDefaultValidity(true)),
		evaluation.WithEvaluatorOptions(evaluation.WithMatchRateFormula(evaluation.ScaleThenTruncate)))
	s.Require().NoError(err)

	decision, err := svc.Evaluate(context.Background(),
		application(30, "X", 20, "C#", "RabbitMQ", "Microservice"))
	s.Require().NoError(err)
	s.Equal(evaluation.TryAgain, decision.Result)

	decision, err = svc.Evaluate(context.Background(), application(30, "X", 20, "C#"))
	s.Require().NoError(err)
	s.Equal(evaluation.TryAgain, decision.Result, "a 25 rate is not below the reject threshold")
}

func (s *ServiceSuite) TestNilValidatorFromFactory() {
	svc, err := evaluation.NewService(func() ports.IdentityValidator { return nil })
	s.Require().NoError(err)

	_, err = svc.Evaluate(context.Background(), application(30, "X", 20))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.False(svc.CheckConnection(context.Background()))
}

func (s *ServiceSuite) TestCheckConnection() {
	up, err := evaluation.NewService(s.factory(), evaluation.WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.True(up.CheckConnection(s.ctx))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RegistryUp))

	down, err := evaluation.NewService(s.factory(identity.WithReachable(false)), evaluation.WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.False(down.CheckConnection(s.ctx))
	s.Equal(0.0, testutil.ToFloat64(s.metrics.RegistryUp))
}
