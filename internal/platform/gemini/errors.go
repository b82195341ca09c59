package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/sophia-api/internal/generation"
)

// Input validation errors for the gemini package.
var (
	// ErrEmptyTheme is returned when quote generation is requested with an
	// empty theme.
	ErrEmptyTheme = errors.New("theme cannot be empty")

	// ErrEmptyQuoteText is returned when image prompt derivation is
	// requested for an empty quote.
	ErrEmptyQuoteText = errors.New("quote text cannot be empty")

	// ErrEmptyDescription is returned when image generation is requested
	// with an empty scene description.
	ErrEmptyDescription = errors.New("image description cannot be empty")
)

// classifyError maps an error returned by the genai SDK onto the
// generation package's sentinel errors so that callers and the retry
// policy can categorize it without inspecting SDK types.
//
// Classification prefers the structured HTTP code carried by
// genai.APIError. Message inspection is a last resort for errors that
// arrive without a code, typically transport failures, because provider
// error strings change without notice.
//
// Errors that do not match any category are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	// Caller cancellation is never reclassified. Without this check the
	// message fallback below would match "context deadline exceeded" and
	// retry an operation whose context is already dead.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrMissingCredential, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", generation.ErrQuotaExhausted, err)
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}

		// The Gemini API rejects bad keys with a 400 INVALID_ARGUMENT
		// rather than a 401, so the code alone cannot identify them.
		if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
			return fmt.Errorf("%w: %v", generation.ErrMissingCredential, err)
		}

		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "quota", "resource exhausted", "resource_exhausted"):
		return fmt.Errorf("%w: %v", generation.ErrQuotaExhausted, err)
	case containsAny(msg, "api key", "permission denied", "unauthorized"):
		return fmt.Errorf("%w: %v", generation.ErrMissingCredential, err)
	case containsAny(msg,
		"overloaded",
		"unavailable",
		"timeout",
		"deadline exceeded",
		"connection reset",
		"connection refused",
		"internal error"):
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	return err
}

// isRetryable reports whether an already-classified error should be
// retried. Only transient failures qualify; quota exhaustion, missing
// credentials, blocked content, and malformed responses will not
// improve on a second attempt.
func isRetryable(err error) bool {
	return errors.Is(err, generation.ErrTransientFailure)
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
