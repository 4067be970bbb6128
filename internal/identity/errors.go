package identity

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for registry calls.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorOutage         ErrorCategory = "outage"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorInternal       ErrorCategory = "internal"
)

// RegistryError wraps registry failures with a category.
type RegistryError struct {
	Category  ErrorCategory
	Message   string
	Err       error
	Retryable bool
}

func (e *RegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity registry [%s]: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("identity registry [%s]: %s", e.Category, e.Message)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// NewRegistryError builds a RegistryError; timeouts, outages and rate limits
// are retryable.
func NewRegistryError(category ErrorCategory, message string, err error) *RegistryError {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &RegistryError{
		Category:  category,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable reports whether err is a retryable RegistryError.
func IsRetryable(err error) bool {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// CategoryOf returns the category of a RegistryError, or ErrorInternal.
func CategoryOf(err error) ErrorCategory {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Category
	}
	return ErrorInternal
}
