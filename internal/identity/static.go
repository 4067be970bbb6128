// Package identity implements identity validators: a fixed-answer
// StaticValidator and a RegistryValidator backed by the remote identity
// registry with caching and a circuit breaker.
package identity

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"jobeval/internal/evaluation/ports"
)

// StaticValidator answers from fixed data. Used when no registry is
// configured, by the CLI, and as a recording stub in tests.
type StaticValidator struct {
	country         Country
	valid           map[string]struct{}
	defaultValidity bool
	reachable       bool
	mode            atomic.Int32

	mu    sync.Mutex
	calls []string
}

// StaticOption configures a StaticValidator.
type StaticOption func(*StaticValidator)

// WithValidIdentities marks the given numbers valid. Unlisted numbers get
// the default validity.
func WithValidIdentities(numbers ...string) StaticOption {
	return func(v *StaticValidator) {
		for _, n := range numbers {
			v.valid[strings.TrimSpace(n)] = struct{}{}
		}
	}
}

// WithDefaultValidity sets the answer for numbers not listed explicitly.
func WithDefaultValidity(valid bool) StaticOption {
	return func(v *StaticValidator) { v.defaultValidity = valid }
}

// WithReachable sets the connectivity check answer.
func WithReachable(reachable bool) StaticOption {
	return func(v *StaticValidator) { v.reachable = reachable }
}

// WithMode sets the initial validation mode.
func WithMode(mode ports.ValidationMode) StaticOption {
	return func(v *StaticValidator) { v.mode.Store(int32(mode)) }
}

// NewStaticValidator defaults to reachable, mode None, and every non-blank
// identity invalid.
func NewStaticValidator(country string, opts ...StaticOption) *StaticValidator {
	v := &StaticValidator{
		country:   Country(country),
		valid:     make(map[string]struct{}),
		reachable: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsValid records the call. Blank numbers are never valid.
func (v *StaticValidator) IsValid(_ context.Context, identityNumber string) bool {
	v.mu.Lock()
	v.calls = append(v.calls, identityNumber)
	v.mu.Unlock()

	number := strings.TrimSpace(identityNumber)
	if number == "" {
		return false
	}
	if _, ok := v.valid[number]; ok {
		return true
	}
	return v.defaultValidity
}

func (v *StaticValidator) CheckConnectionToRemoteServer(context.Context) bool {
	return v.reachable
}

func (v *StaticValidator) CountryDataProvider() ports.CountryDataProvider {
	return v.country
}

func (v *StaticValidator) ValidationMode() ports.ValidationMode {
	return ports.ValidationMode(v.mode.Load())
}

func (v *StaticValidator) SetValidationMode(mode ports.ValidationMode) {
	v.mode.Store(int32(mode))
}

// Calls returns the identity numbers passed to IsValid, in order.
func (v *StaticValidator) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.calls))
	copy(out, v.calls)
	return out
}
