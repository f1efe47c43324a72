package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap them with fmt.Errorf("%w: ...") to add context.
var (
	// ErrInvalidRequest indicates the search request failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSearchNotFound indicates no history detail exists for an id.
	ErrSearchNotFound = errors.New("search not found")

	// ErrProviderUnavailable indicates the quote provider could not be reached.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderTimeout indicates the quote provider did not answer in time.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrMissingCredentials indicates the provider has no API credentials configured.
	ErrMissingCredentials = errors.New("provider credentials not configured")

	// ErrNoOffers indicates the provider answered with an empty offer list.
	ErrNoOffers = errors.New("no offers found")

	// ErrMalformedOffer indicates the first offer lacks a usable price or itinerary.
	ErrMalformedOffer = errors.New("malformed offer")

	// ErrHistoryPersistence indicates a completed search could not be saved.
	ErrHistoryPersistence = errors.New("history persistence failed")
)

// ProviderError wraps a failure reported by a quote provider.
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a non-retryable provider error.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// NewRetryableProviderError creates a provider error that may succeed on retry.
func NewRetryableProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// NewProviderTimeoutError creates a provider error wrapping ErrProviderTimeout.
func NewProviderTimeoutError(provider string) *ProviderError {
	return &ProviderError{Provider: provider, Err: ErrProviderTimeout, Retryable: true}
}

// WrapInvalidRequest formats a message and wraps ErrInvalidRequest.
func WrapInvalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsInvalidRequest reports whether err is a validation failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsSearchNotFound reports whether err is a missing history detail.
func IsSearchNotFound(err error) bool {
	return errors.Is(err, ErrSearchNotFound)
}

// IsProviderTimeout reports whether err is a provider timeout.
func IsProviderTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}
