// Package registrytest runs a fake identity registry over httptest.
package registrytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Server is a fake registry. Safe for concurrent use.
type Server struct {
	*httptest.Server

	apiKey  string
	country string

	mu         sync.RWMutex
	identities map[string]bool
	failWith   int
	healthy    bool
	modes      []string

	lookups atomic.Int64
	health  atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithIdentity registers a number with its validity. Unknown numbers get 404.
func WithIdentity(number string, valid bool) Option {
	return func(s *Server) { s.identities[number] = valid }
}

// WithAPIKey requires X-API-Key to match.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithCountry sets the country reported in lookups.
func WithCountry(country string) Option {
	return func(s *Server) { s.country = country }
}

// NewServer starts the fake and closes it on test cleanup.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		identities: make(map[string]bool),
		healthy:    true,
		country:    "Azerbaijan",
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/identities/{number}", s.handleLookup)
	mux.HandleFunc("GET /health", s.handleHealth)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// FailWith makes every lookup answer status until reset with 0.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// SetHealthy toggles the health endpoint.
func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// SetIdentity adds or changes a number.
func (s *Server) SetIdentity(number string, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[number] = valid
}

// Lookups counts lookup requests received.
func (s *Server) Lookups() int { return int(s.lookups.Load()) }

// HealthChecks counts health requests received.
func (s *Server) HealthChecks() int { return int(s.health.Load()) }

// Modes returns the mode query parameter of every lookup, in order.
func (s *Server) Modes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.modes...)
}

func (s *Server) authorized(r *http.Request) bool {
	return s.apiKey == "" || r.Header.Get("X-API-Key") == s.apiKey
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	s.lookups.Add(1)
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	s.modes = append(s.modes, r.URL.Query().Get("mode"))
	failWith := s.failWith
	number := strings.TrimSpace(r.PathValue("number"))
	valid, known := s.identities[number]
	s.mu.Unlock()

	if failWith != 0 {
		w.WriteHeader(failWith)
		return
	}
	if !known {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"identity_number": number,
		"valid":           valid,
		"country":         s.country,
		"checked_at":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.health.Add(1)
	s.mu.RLock()
	healthy := s.healthy
	s.mu.RUnlock()
	if !healthy || !s.authorized(r) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
