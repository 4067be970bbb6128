package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"jobeval/internal/audit"
	"jobeval/pkg/platform/sentinel"
)

const (
	defaultTable        = "evaluation_audit"
	pgUniqueViolation   = "23505"
	insertColumnsClause = `(id, action, evaluation_id, result, validation_mode,
			identity_hash, request_id, subject, evaluated_at)`
)

// Store persists evaluation audit events in PostgreSQL.
type Store struct {
	db    *sql.DB
	table string
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the audit table name.
func WithTable(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.table = name
		}
	}
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) quotedTable() string {
	return pq.QuoteIdentifier(s.table)
}

// Migrate creates the audit table and its lookup index if missing.
func (s *Store) Migrate(ctx context.Context) error {
	table := s.quotedTable()
	index := pq.QuoteIdentifier(s.table + "_evaluation_id_idx")
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			id              UUID PRIMARY KEY,
			action          TEXT        NOT NULL,
			evaluation_id   UUID        NOT NULL,
			result          TEXT        NOT NULL,
			validation_mode TEXT        NOT NULL DEFAULT '',
			identity_hash   TEXT        NOT NULL DEFAULT '',
			request_id      TEXT        NOT NULL DEFAULT '',
			subject         TEXT        NOT NULL DEFAULT '',
			evaluated_at    TIMESTAMPTZ NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + index + ` ON ` + table + ` (evaluation_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate audit table: %w", err)
		}
	}
	return nil
}

// Emit inserts the event. Replays of an already stored ID are ignored, so
// at-least-once delivery upstream is safe.
func (s *Store) Emit(ctx context.Context, event audit.Event) error {
	query := `INSERT INTO ` + s.quotedTable() + ` ` + insertColumnsClause + `
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, insertArgs(event)...); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Insert inserts the event and reports sentinel.ErrConflict when the ID is
// already stored.
func (s *Store) Insert(ctx context.Context, event audit.Event) error {
	query := `INSERT INTO ` + s.quotedTable() + ` ` + insertColumnsClause + `
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.db.ExecContext(ctx, query, insertArgs(event)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("audit event %s: %w", event.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByEvaluation returns the events of one evaluation, oldest first.
func (s *Store) ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]audit.Event, error) {
	query := `
		SELECT id, action, evaluation_id, result, validation_mode,
			   identity_hash, request_id, subject, evaluated_at
		FROM ` + s.quotedTable() + `
		WHERE evaluation_id = $1
		ORDER BY evaluated_at ASC`

	rows, err := s.db.QueryContext(ctx, query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event       audit.Event
			evaluatedAt time.Time
		)
		if err := rows.Scan(
			&event.ID,
			&event.Action,
			&event.EvaluationID,
			&event.Result,
			&event.ValidationMode,
			&event.IdentityHash,
			&event.RequestID,
			&event.Subject,
			&evaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.EvaluatedAt = evaluatedAt.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func insertArgs(event audit.Event) []any {
	return []any{
		event.ID,
		event.Action,
		event.EvaluationID,
		event.Result,
		event.ValidationMode,
		event.IdentityHash,
		event.RequestID,
		event.Subject,
		event.EvaluatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
