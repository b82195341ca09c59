package generation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/stretchr/testify/assert"
)

// TestErrorsAreDistinct verifies that each sentinel error is distinguishable
// with errors.Is, since callers branch on them for retry and user messaging.
func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		generation.ErrGenerationFailed,
		generation.ErrInvalidResponse,
		generation.ErrContentBlocked,
		generation.ErrTransientFailure,
		generation.ErrQuotaExhausted,
		generation.ErrMissingCredential,
		generation.ErrNoImage,
		generation.ErrInvalidConfig,
	}

	for i, sentinel := range sentinels {
		for j, other := range sentinels {
			if i == j {
				assert.ErrorIs(t, sentinel, other)
				continue
			}
			assert.NotErrorIs(t, sentinel, other,
				"%v and %v must not match", sentinel, other)
		}
	}
}

// TestWrappedSentinelsSurviveWrapping verifies the %w convention used across
// the platform clients keeps sentinel identity intact.
func TestWrappedSentinelsSurviveWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: status 503", generation.ErrTransientFailure)
	assert.True(t, errors.Is(wrapped, generation.ErrTransientFailure))
	assert.False(t, errors.Is(wrapped, generation.ErrContentBlocked))

	doubly := fmt.Errorf("calling image model: %w", wrapped)
	assert.True(t, errors.Is(doubly, generation.ErrTransientFailure))
}
