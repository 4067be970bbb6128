// Package audit records evaluation decisions for later review.
//
// Events never carry raw identity numbers; IdentityHash holds a SHA-256
// digest instead so records can be correlated without storing PII.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ActionEvaluated is the only action emitted today.
const ActionEvaluated = "application_evaluated"

// Event is emitted once per evaluation. Keep it transport-agnostic so stores
// and publishers can fan out.
type Event struct {
	ID             uuid.UUID
	Action         string
	EvaluationID   uuid.UUID
	Result         string
	ValidationMode string
	IdentityHash   string
	RequestID      string
	// Subject is the API caller that requested the evaluation, if any.
	Subject     string
	EvaluatedAt time.Time
}

// Emitter accepts audit events.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// HashIdentity returns the hex SHA-256 of a trimmed identity number, or ""
// when there is nothing to hash.
func HashIdentity(identityNumber string) string {
	identityNumber = strings.TrimSpace(identityNumber)
	if identityNumber == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(identityNumber))
	return hex.EncodeToString(sum[:])
}

type multi struct {
	emitters []Emitter
}

// Multi emits every event to all emitters concurrently. All emitters are
// attempted even when some fail; failures are joined.
func Multi(emitters ...Emitter) Emitter {
	filtered := make([]Emitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return &multi{emitters: filtered}
}

func (m *multi) Emit(ctx context.Context, event Event) error {
	errs := make([]error, len(m.emitters))
	var g errgroup.Group
	for i, e := range m.emitters {
		g.Go(func() error {
			errs[i] = e.Emit(ctx, event)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
