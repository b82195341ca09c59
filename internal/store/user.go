package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Implementations hash the user's plaintext Password and populate
	// HashedPassword before persisting; the plaintext is never stored.
	// Returns ErrEmailExists if the email is already registered.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user has HashedPassword populated and Password empty.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if no user with that email exists.
	// The returned user has HashedPassword populated and Password empty.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a copy of the store bound to the given transaction.
	// All operations on the returned store execute within that transaction.
	WithTx(tx *sql.Tx) UserStore
}
