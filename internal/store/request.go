package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
)

// GenerationRequestStore defines the interface for generation request
// persistence. A generation request tracks one asynchronous quote-generation
// job from submission through completion or failure.
type GenerationRequestStore interface {
	// Create saves a new generation request to the store.
	// Returns validation errors from the domain GenerationRequest if data is
	// invalid.
	Create(ctx context.Context, request *domain.GenerationRequest) error

	// GetByID retrieves a generation request by its unique ID.
	// Returns ErrRequestNotFound if the request does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRequest, error)

	// UpdateStatus changes the status of a generation request. The error
	// message is stored alongside failed statuses and should be empty for
	// the others. Returns ErrRequestNotFound if the request does not exist.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		status domain.RequestStatus,
		errorMessage string,
	) error

	// WithTx returns a copy of the store bound to the given transaction.
	// All operations on the returned store execute within that transaction.
	WithTx(tx *sql.Tx) GenerationRequestStore
}
