package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
)

// FavoriteStore defines the interface for favorite data persistence.
// Favorites are keyed by the pair (user ID, exact quote text), so the same
// wording favorited twice resolves to the same row regardless of which quote
// record it came from.
type FavoriteStore interface {
	// Create saves a new favorite to the store.
	// Returns ErrFavoriteExists if the user has already favorited this quote
	// text. Returns validation errors from the domain Favorite if data is
	// invalid.
	Create(ctx context.Context, favorite *domain.Favorite) error

	// Delete removes the favorite matching the given user and quote text.
	// Returns ErrFavoriteNotFound if no such favorite exists.
	Delete(ctx context.Context, userID uuid.UUID, quoteText string) error

	// GetByUserAndText retrieves the favorite matching the given user and
	// quote text. Returns ErrFavoriteNotFound if no such favorite exists.
	GetByUserAndText(ctx context.Context, userID uuid.UUID, quoteText string) (*domain.Favorite, error)

	// ListByUser retrieves all favorites belonging to the given user, newest
	// first. Returns an empty slice if the user has no favorites.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error)

	// WithTx returns a copy of the store bound to the given transaction.
	// All operations on the returned store execute within that transaction.
	WithTx(tx *sql.Tx) FavoriteStore
}
