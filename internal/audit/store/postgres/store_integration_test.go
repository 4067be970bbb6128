//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"jobeval/internal/audit"
	"jobeval/internal/audit/store/postgres"
	"jobeval/pkg/platform/sentinel"
	"jobeval/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "evaluation_audit"))
}

func newEvent(evaluationID uuid.UUID, at time.Time) audit.Event {
	return audit.Event{
		ID:             uuid.New(),
		Action:         audit.ActionEvaluated,
		EvaluationID:   evaluationID,
		Result:         "try_again",
		ValidationMode: "detailed",
		IdentityHash:   audit.HashIdentity("AZE1234567"),
		RequestID:      "req-1",
		Subject:        "svc-frontend",
		EvaluatedAt:    at,
	}
}

func (s *PostgresStoreSuite) TestMigrateIsIdempotent() {
	s.NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) TestEmitAndList() {
	ctx := context.Background()
	evaluationID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	later := newEvent(evaluationID, base.Add(time.Minute))
	earlier := newEvent(evaluationID, base)
	other := newEvent(uuid.New(), base)

	s.Require().NoError(s.store.Emit(ctx, later))
	s.Require().NoError(s.store.Emit(ctx, earlier))
	s.Require().NoError(s.store.Emit(ctx, other))

	events, err := s.store.ListByEvaluation(ctx, evaluationID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(earlier, events[0])
	s.Equal(later, events[1])
}

func (s *PostgresStoreSuite) TestEmitIgnoresReplays() {
	ctx := context.Background()
	event := newEvent(uuid.New(), time.Now().UTC().Truncate(time.Microsecond))

	s.Require().NoError(s.store.Emit(ctx, event))
	s.Require().NoError(s.store.Emit(ctx, event))

	events, err := s.store.ListByEvaluation(ctx, event.EvaluationID)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *PostgresStoreSuite) TestInsertReportsConflict() {
	ctx := context.Background()
	event := newEvent(uuid.New(), time.Now().UTC().Truncate(time.Microsecond))

	s.Require().NoError(s.store.Insert(ctx, event))
	err := s.store.Insert(ctx, event)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListUnknownEvaluation() {
	events, err := s.store.ListByEvaluation(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.Empty(events)
}
