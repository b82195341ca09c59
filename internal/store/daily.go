package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/sophia-api/internal/domain"
)

// DailyQuoteStore defines the interface for daily quote persistence.
// At most one quote is pinned per UTC calendar date; the date carries a
// unique constraint so concurrent pin attempts resolve to a single winner.
type DailyQuoteStore interface {
	// Create pins a quote to its date.
	// Returns ErrDailyQuoteExists if a quote is already pinned for that
	// date. Callers racing to pin the same date should treat that error as
	// "lost the race" and reload the winning row with GetByDate.
	Create(ctx context.Context, daily *domain.DailyQuote) error

	// GetByDate retrieves the daily quote pinned for the given date, where
	// date uses the domain.DailyDateFormat layout (YYYY-MM-DD).
	// Returns ErrDailyQuoteNotFound if no quote is pinned for that date.
	GetByDate(ctx context.Context, date string) (*domain.DailyQuote, error)

	// ListRecent retrieves up to limit daily quotes ordered by date
	// descending, most recent first. Returns an empty slice if none exist.
	ListRecent(ctx context.Context, limit int) ([]*domain.DailyQuote, error)

	// WithTx returns a copy of the store bound to the given transaction.
	// All operations on the returned store execute within that transaction.
	WithTx(tx *sql.Tx) DailyQuoteStore
}
