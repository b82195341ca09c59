package store

import (
	"errors"
	"fmt"
)

// Common store error types that should be used across all store
// implementations to ensure consistent error handling. Callers check these
// with errors.Is; implementations wrap them with entity context.
var (
	// ErrNotFound indicates that a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates an attempt to create an entity that already
	// exists, typically surfaced by a unique constraint violation.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates the entity failed domain validation before
	// it reached the database.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed indicates an update operation did not complete.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed indicates a delete operation did not complete.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed indicates a transaction could not be started or
	// committed.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific errors wrapping the generic sentinels above. Checking a
// wrapped error against either the specific error or the generic sentinel
// works with errors.Is.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEmailExists indicates a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrQuoteNotFound indicates the requested quote does not exist.
	ErrQuoteNotFound = fmt.Errorf("%w: quote", ErrNotFound)

	// ErrRequestNotFound indicates the requested generation request does not exist.
	ErrRequestNotFound = fmt.Errorf("%w: generation request", ErrNotFound)

	// ErrFavoriteNotFound indicates the requested favorite does not exist.
	ErrFavoriteNotFound = fmt.Errorf("%w: favorite", ErrNotFound)

	// ErrFavoriteExists indicates the user has already favorited this quote text.
	ErrFavoriteExists = fmt.Errorf("%w: favorite", ErrDuplicate)

	// ErrDailyQuoteNotFound indicates no quote has been pinned for the requested date.
	ErrDailyQuoteNotFound = fmt.Errorf("%w: daily quote", ErrNotFound)

	// ErrDailyQuoteExists indicates a quote is already pinned for the given
	// date. Concurrent daily-quote selection relies on this to detect a lost
	// race and reload the winning row.
	ErrDailyQuoteExists = fmt.Errorf("%w: daily quote date", ErrDuplicate)

	// ErrTaskNotFound indicates the requested background task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError returns true if the given error is or wraps ErrNotFound.
// This works for both the generic ErrNotFound and entity-specific variants
// like ErrQuoteNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError returns true if the given error is or wraps ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
