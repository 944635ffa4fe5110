package types

import (
	"errors"
	"fmt"
)

// Search and provider error kinds. Match them with errors.Is.
var (
	ErrMissingKeyword        = errors.New("keyword or category is required")
	ErrInvalidLocation       = errors.New("location or user coordinates are required")
	ErrMissingProviderKey    = errors.New("places provider API key is not configured")
	ErrProviderAuth          = errors.New("places provider denied the request")
	ErrProviderUnknownStatus = errors.New("places provider returned an unexpected status")
	ErrProviderNotFound      = errors.New("place not found")
	ErrNetwork               = errors.New("places provider is unreachable")
)

// ProviderError carries the provider's raw status and message alongside the
// error kind.
type ProviderError struct {
	Kind    error
	Status  string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	msg := e.Kind.Error()
	if e.Status != "" {
		msg = fmt.Sprintf("%s (status %s)", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorCode returns the stable machine-readable code for err, or
// "INTERNAL_ERROR" when it is not one of the known kinds.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingKeyword):
		return "MISSING_KEYWORD"
	case errors.Is(err, ErrInvalidLocation):
		return "INVALID_LOCATION"
	case errors.Is(err, ErrMissingProviderKey):
		return "MISSING_PROVIDER_KEY"
	case errors.Is(err, ErrProviderAuth):
		return "PROVIDER_AUTH_ERROR"
	case errors.Is(err, ErrProviderUnknownStatus):
		return "PROVIDER_UNKNOWN_STATUS"
	case errors.Is(err, ErrProviderNotFound):
		return "PROVIDER_NOT_FOUND"
	case errors.Is(err, ErrNetwork):
		return "NETWORK_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
