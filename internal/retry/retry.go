// Package retry provides a generic retry wrapper with exponential backoff
// and jitter for calls to external services. Only errors the caller
// classifies as transient are retried; everything else propagates
// immediately.
package retry

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/phrazzld/sophia-api/internal/platform/logger"
)

// Defaults applied when a Policy field is out of range.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 2 * time.Second
)

// MaxAttempts caps the total number of calls per invocation regardless of
// how large Policy.MaxRetries is configured.
const MaxAttempts = 6

// Policy configures the behavior of Do.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Negative values select DefaultMaxRetries.
	MaxRetries int

	// BaseDelay scales the backoff. The delay before retry k is
	// BaseDelay * 2^k, scaled by a jitter factor in [0.5, 1.0).
	// Non-positive values select DefaultBaseDelay.
	BaseDelay time.Duration

	// Retryable reports whether an error is transient and worth retrying.
	// A nil Retryable treats every error as permanent.
	Retryable func(error) bool

	// Sleep waits between attempts. A nil Sleep uses a timer that honors
	// context cancellation. Tests inject a recording no-op here.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do invokes op until it succeeds, fails with a non-retryable error, or the
// attempt budget min(MaxRetries+1, MaxAttempts) is exhausted. The jitter
// window for attempt k is [BaseDelay*2^(k-1), BaseDelay*2^k), so successive
// delays are strictly increasing. On exhaustion the last error is returned
// unmodified so callers can still classify it.
func Do[T any](ctx context.Context, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	log := logger.FromContextOrDefault(ctx, slog.Default())

	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		log.WarnContext(ctx, "Invalid max retries value, using default",
			"max_retries", DefaultMaxRetries)
		maxRetries = DefaultMaxRetries
	}

	baseDelay := policy.BaseDelay
	if baseDelay <= 0 {
		log.WarnContext(ctx, "Invalid retry delay value, using default",
			"base_delay", DefaultBaseDelay)
		baseDelay = DefaultBaseDelay
	}

	attempts := maxRetries + 1
	if attempts > MaxAttempts {
		attempts = MaxAttempts
	}

	sleep := policy.Sleep
	if sleep == nil {
		sleep = waitWithContext
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			if attempt > 0 {
				log.InfoContext(ctx, "Call succeeded after retry",
					"attempt", attempt+1)
			}
			return result, nil
		}
		lastErr = err

		if policy.Retryable == nil || !policy.Retryable(err) {
			log.WarnContext(ctx, "Non-transient error occurred, not retrying",
				"error", err,
				"attempt", attempt+1)
			return zero, err
		}

		if attempt == attempts-1 {
			log.WarnContext(ctx, "Maximum retry attempts reached",
				"attempts", attempts)
			break
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelay) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5 // Between 0.5 and 1.0
		delay := time.Duration(backoff * jitterFactor)

		log.InfoContext(ctx, "Retrying after delay",
			"attempt", attempt+1,
			"delay_seconds", delay.Seconds())

		if err := sleep(ctx, delay); err != nil {
			log.WarnContext(ctx, "Call cancelled during retry delay",
				"attempt", attempt+1,
				"ctx_err", err)
			return zero, err
		}
	}

	return zero, lastErr
}

// waitWithContext blocks for d or until ctx is done.
func waitWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
