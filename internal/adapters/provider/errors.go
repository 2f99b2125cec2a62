// Package provider holds what the payment provider adapters share: the error
// type they return and the retry decorator.
package provider

import (
	"fmt"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

// ProviderError is returned by adapters when a provider call fails.
// StatusCode is zero when no HTTP response was received.
type ProviderError struct {
	Provider   domain.ProviderName
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s (status: %d): %v", e.Provider, e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s error: %s (status: %d)", e.Provider, e.Message, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether repeating the call may succeed.
func (e *ProviderError) IsRetryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NetworkError wraps a transport failure.
func NetworkError(name domain.ProviderName, err error) *ProviderError {
	return &ProviderError{
		Provider: name,
		Code:     "network_error",
		Message:  "request failed",
		Err:      err,
	}
}
