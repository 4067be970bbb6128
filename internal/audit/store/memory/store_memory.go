package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"jobeval/internal/audit"
	"jobeval/pkg/platform/sentinel"
)

// InMemoryStore keeps audit events in process. Used when no database is
// configured and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	seen   map[uuid.UUID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[uuid.UUID]struct{})}
}

// Emit appends the event; replays of an already stored ID are ignored.
func (s *InMemoryStore) Emit(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[event.ID]; ok {
		return nil
	}
	s.seen[event.ID] = struct{}{}
	s.events = append(s.events, event)
	return nil
}

// Insert appends the event and fails with sentinel.ErrConflict on a duplicate ID.
func (s *InMemoryStore) Insert(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[event.ID]; ok {
		return fmt.Errorf("audit event %s: %w", event.ID, sentinel.ErrConflict)
	}
	s.seen[event.ID] = struct{}{}
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByEvaluation(_ context.Context, evaluationID uuid.UUID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.EvaluationID == evaluationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns a copy of every stored event in insertion order.
func (s *InMemoryStore) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...)
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.seen = make(map[uuid.UUID]struct{})
}
