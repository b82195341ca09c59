package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/store"
)

// PostgresGenerationRequestStore implements the store.GenerationRequestStore
// interface using a PostgreSQL database as the storage backend.
type PostgresGenerationRequestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationRequestStore creates a new PostgreSQL implementation
// of the GenerationRequestStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationRequestStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresGenerationRequestStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationRequestStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_request_store")),
	}
}

// Ensure PostgresGenerationRequestStore implements store.GenerationRequestStore
var _ store.GenerationRequestStore = (*PostgresGenerationRequestStore)(nil)

// Create implements store.GenerationRequestStore.Create
// It saves a new generation request, handling domain validation.
// Returns store.ErrInvalidEntity if the user ID doesn't exist.
func (s *PostgresGenerationRequestStore) Create(
	ctx context.Context,
	request *domain.GenerationRequest,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := request.Validate(); err != nil {
		log.Warn("generation request validation failed during create",
			slog.String("error", err.Error()),
			slog.String("request_id", request.ID.String()))
		return err
	}

	query := `
		INSERT INTO generation_requests (id, user_id, theme, quote_count, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		request.ID,
		request.UserID,
		request.Theme,
		request.Count,
		string(request.Status),
		request.ErrorMessage,
		request.CreatedAt,
		request.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during generation request creation",
				slog.String("error", err.Error()),
				slog.String("request_id", request.ID.String()),
				slog.String("user_id", request.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, request.UserID)
		}

		log.Error("failed to create generation request",
			slog.String("error", err.Error()),
			slog.String("request_id", request.ID.String()))
		return err
	}

	log.Info("generation request created successfully",
		slog.String("request_id", request.ID.String()),
		slog.String("user_id", request.UserID.String()),
		slog.String("theme", request.Theme),
		slog.Int("count", request.Count))
	return nil
}

// GetByID implements store.GenerationRequestStore.GetByID
// It retrieves a generation request by its unique ID.
// Returns store.ErrRequestNotFound if the request does not exist.
func (s *PostgresGenerationRequestStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.GenerationRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, theme, quote_count, status, error_message, created_at, updated_at
		FROM generation_requests
		WHERE id = $1
	`

	var request domain.GenerationRequest
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.UserID,
		&request.Theme,
		&request.Count,
		&status,
		&request.ErrorMessage,
		&request.CreatedAt,
		&request.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation request not found",
				slog.String("request_id", id.String()))
			return nil, store.ErrRequestNotFound
		}
		log.Error("failed to get generation request by ID",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()))
		return nil, err
	}

	request.Status = domain.RequestStatus(status)
	return &request, nil
}

// UpdateStatus implements store.GenerationRequestStore.UpdateStatus
// It changes the status of a generation request, storing the error message
// alongside failed statuses.
// Returns store.ErrRequestNotFound if the request does not exist.
func (s *PostgresGenerationRequestStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.RequestStatus,
	errorMessage string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		log.Warn("invalid status for generation request update",
			slog.String("request_id", id.String()),
			slog.String("status", string(status)))
		return domain.ErrInvalidRequestStatus
	}

	query := `
		UPDATE generation_requests
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		string(status),
		errorMessage,
		time.Now().UTC(),
		id,
	)

	if err != nil {
		log.Error("failed to update generation request status",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrRequestNotFound); err != nil {
		log.Debug("generation request not found for status update",
			slog.String("request_id", id.String()))
		return err
	}

	log.Info("generation request status updated",
		slog.String("request_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// WithTx implements store.GenerationRequestStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresGenerationRequestStore) WithTx(tx *sql.Tx) store.GenerationRequestStore {
	return &PostgresGenerationRequestStore{
		db:     tx,
		logger: s.logger,
	}
}
