package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		underlyingErr error
		wantContains  []string
	}{
		{
			name:          "error message includes provider and underlying error",
			provider:      "amadeus",
			underlyingErr: errors.New("connection failed"),
			wantContains:  []string{"amadeus", "connection failed"},
		},
		{
			name:          "error message with missing credentials",
			provider:      "amadeus",
			underlyingErr: ErrMissingCredentials,
			wantContains:  []string{"amadeus", "credentials"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewProviderError(tt.provider, tt.underlyingErr)

			for _, want := range tt.wantContains {
				assert.Contains(t, err.Error(), want)
			}
			assert.True(t, errors.Is(err, tt.underlyingErr))
			assert.False(t, err.Retryable)
		})
	}
}

func TestProviderError_Constructors(t *testing.T) {
	retryable := NewRetryableProviderError("amadeus", errors.New("rate limit exceeded"))
	assert.True(t, retryable.Retryable)

	timeout := NewProviderTimeoutError("amadeus")
	assert.True(t, IsProviderTimeout(timeout))
	assert.Contains(t, timeout.Error(), "amadeus")

	wrapped := NewRetryableProviderError("amadeus", fmt.Errorf("%w: dial tcp", ErrProviderUnavailable))
	assert.True(t, errors.Is(wrapped, ErrProviderUnavailable))
}

func TestErrorCheckers(t *testing.T) {
	tests := []struct {
		name       string
		checkFunc  func(error) bool
		err        error
		wantResult bool
	}{
		{
			name:       "IsInvalidRequest with ErrInvalidRequest",
			checkFunc:  IsInvalidRequest,
			err:        ErrInvalidRequest,
			wantResult: true,
		},
		{
			name:       "IsInvalidRequest with wrapped error",
			checkFunc:  IsInvalidRequest,
			err:        WrapInvalidRequest("%s is required", "origins"),
			wantResult: true,
		},
		{
			name:       "IsInvalidRequest with validation error",
			checkFunc:  IsInvalidRequest,
			err:        NewValidationError("origins", "required"),
			wantResult: true,
		},
		{
			name:       "IsInvalidRequest with different error",
			checkFunc:  IsInvalidRequest,
			err:        ErrSearchNotFound,
			wantResult: false,
		},
		{
			name:       "IsSearchNotFound with wrapped error",
			checkFunc:  IsSearchNotFound,
			err:        NewProviderError("x", ErrSearchNotFound),
			wantResult: true,
		},
		{
			name:       "IsProviderTimeout with different error",
			checkFunc:  IsProviderTimeout,
			err:        ErrInvalidRequest,
			wantResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, tt.checkFunc(tt.err))
		})
	}
}
