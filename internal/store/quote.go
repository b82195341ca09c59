package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
)

// QuoteStore defines the interface for quote data persistence.
type QuoteStore interface {
	// Create saves a single quote to the store.
	// Returns validation errors from the domain Quote if data is invalid.
	Create(ctx context.Context, quote *domain.Quote) error

	// CreateBatch saves multiple quotes to the store.
	// IMPORTANT: run this within a transaction so a failure partway through
	// does not leave a partial batch behind. Use WithTx together with
	// store.RunInTransaction:
	//
	//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//	    return quoteStore.WithTx(tx).CreateBatch(ctx, quotes)
	//	})
	//
	// All quotes must be valid according to domain validation rules.
	CreateBatch(ctx context.Context, quotes []*domain.Quote) error

	// GetByID retrieves a quote by its unique ID.
	// Returns ErrQuoteNotFound if the quote does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)

	// ListByRequestID retrieves all quotes produced by a generation request,
	// ordered by creation time. Returns an empty slice if the request has no
	// quotes.
	ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*domain.Quote, error)

	// GetRandom retrieves a single quote chosen uniformly at random from the
	// store. Returns ErrQuoteNotFound if the store holds no quotes.
	GetRandom(ctx context.Context) (*domain.Quote, error)

	// WithTx returns a copy of the store bound to the given transaction.
	// All operations on the returned store execute within that transaction.
	WithTx(tx *sql.Tx) QuoteStore
}
