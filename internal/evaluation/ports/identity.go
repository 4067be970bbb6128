package ports

import (
	"context"
	"fmt"
	"strings"
)

// IdentityValidator is the identity-verification capability the evaluator
// depends on. Implementations may be backed by a remote registry; failures
// on that side are folded into a false answer rather than surfaced.
type IdentityValidator interface {
	// IsValid reports whether the identity number is valid.
	IsValid(ctx context.Context, identityNumber string) bool

	// CheckConnectionToRemoteServer reports whether the verification backend
	// is reachable. Not consulted by the decision path.
	CheckConnectionToRemoteServer(ctx context.Context) bool

	// CountryDataProvider exposes the country of record.
	CountryDataProvider() CountryDataProvider

	ValidationMode() ValidationMode
	SetValidationMode(mode ValidationMode)
}

// CountryDataProvider yields the country data backing identity verification.
type CountryDataProvider interface {
	CountryData() CountryData
}

// CountryData holds the country of record.
type CountryData interface {
	Country() string
}

// ValidationMode is the strictness used for identity verification.
type ValidationMode int

const (
	ValidationModeNone ValidationMode = iota
	ValidationModeQuick
	ValidationModeDetailed
)

func (m ValidationMode) String() string {
	switch m {
	case ValidationModeNone:
		return "none"
	case ValidationModeQuick:
		return "quick"
	case ValidationModeDetailed:
		return "detailed"
	default:
		return fmt.Sprintf("validation_mode(%d)", int(m))
	}
}

// ParseValidationMode parses the string form produced by String.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ValidationModeNone, nil
	case "quick":
		return ValidationModeQuick, nil
	case "detailed":
		return ValidationModeDetailed, nil
	default:
		return ValidationModeNone, fmt.Errorf("unknown validation mode %q", s)
	}
}
