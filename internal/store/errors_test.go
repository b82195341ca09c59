package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "wrapped generic error",
			err:      fmt.Errorf("failed to do something: %w", errors.New("some error")),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrUserNotFound",
			err:      ErrUserNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrUserNotFound",
			err:      fmt.Errorf("failed to find user: %w", ErrUserNotFound),
			expected: true,
		},
		{
			name:     "ErrQuoteNotFound",
			err:      ErrQuoteNotFound,
			expected: true,
		},
		{
			name:     "ErrRequestNotFound",
			err:      ErrRequestNotFound,
			expected: true,
		},
		{
			name:     "ErrFavoriteNotFound",
			err:      ErrFavoriteNotFound,
			expected: true,
		},
		{
			name:     "ErrDailyQuoteNotFound",
			err:      ErrDailyQuoteNotFound,
			expected: true,
		},
		{
			name:     "ErrTaskNotFound",
			err:      ErrTaskNotFound,
			expected: true,
		},
		{
			name:     "ErrDuplicate is not a not-found error",
			err:      ErrDuplicate,
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsNotFoundError(tc.err)
			if got != tc.expected {
				t.Errorf("IsNotFoundError(%v) = %v, want %v", tc.err, got, tc.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrDuplicate",
			err:      ErrDuplicate,
			expected: true,
		},
		{
			name:     "wrapped ErrDuplicate",
			err:      fmt.Errorf("insert failed: %w", ErrDuplicate),
			expected: true,
		},
		{
			name:     "ErrEmailExists",
			err:      ErrEmailExists,
			expected: true,
		},
		{
			name:     "ErrFavoriteExists",
			err:      ErrFavoriteExists,
			expected: true,
		},
		{
			name:     "ErrDailyQuoteExists",
			err:      ErrDailyQuoteExists,
			expected: true,
		},
		{
			name:     "wrapped ErrDailyQuoteExists",
			err:      fmt.Errorf("failed to pin daily quote: %w", ErrDailyQuoteExists),
			expected: true,
		},
		{
			name:     "ErrNotFound is not a duplicate error",
			err:      ErrNotFound,
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsDuplicateError(tc.err)
			if got != tc.expected {
				t.Errorf("IsDuplicateError(%v) = %v, want %v", tc.err, got, tc.expected)
			}
		})
	}
}

func TestEntityErrorsMatchSpecificSentinels(t *testing.T) {
	// Entity-specific errors must match themselves through wrapping, not just
	// their generic parent, so callers can distinguish which entity was missing.
	wrapped := fmt.Errorf("lookup failed: %w", ErrQuoteNotFound)

	if !errors.Is(wrapped, ErrQuoteNotFound) {
		t.Error("wrapped ErrQuoteNotFound should match ErrQuoteNotFound")
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ErrQuoteNotFound should match ErrNotFound")
	}
	if errors.Is(wrapped, ErrUserNotFound) {
		t.Error("wrapped ErrQuoteNotFound should not match ErrUserNotFound")
	}
}
