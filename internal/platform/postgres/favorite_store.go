package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/store"
)

// PostgresFavoriteStore implements the store.FavoriteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFavoriteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFavoriteStore creates a new PostgreSQL implementation of the
// FavoriteStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFavoriteStore(db store.DBTX, logger *slog.Logger) *PostgresFavoriteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFavoriteStore{
		db:     db,
		logger: logger.With(slog.String("component", "favorite_store")),
	}
}

// Ensure PostgresFavoriteStore implements store.FavoriteStore interface
var _ store.FavoriteStore = (*PostgresFavoriteStore)(nil)

// Create implements store.FavoriteStore.Create
// It saves a new favorite, handling domain validation.
// Returns store.ErrFavoriteExists if the user already favorited this quote
// text, and store.ErrInvalidEntity if the user ID doesn't exist.
func (s *PostgresFavoriteStore) Create(ctx context.Context, favorite *domain.Favorite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := favorite.Validate(); err != nil {
		log.Warn("favorite validation failed during create",
			slog.String("error", err.Error()),
			slog.String("favorite_id", favorite.ID.String()))
		return err
	}

	query := `
		INSERT INTO favorites (id, user_id, quote_text, author, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		favorite.ID,
		favorite.UserID,
		favorite.QuoteText,
		favorite.Author,
		favorite.ImageURL,
		favorite.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("favorite already exists for user and quote text",
				slog.String("user_id", favorite.UserID.String()))
			return MapUniqueViolation(err, store.ErrFavoriteExists)
		}

		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during favorite creation",
				slog.String("error", err.Error()),
				slog.String("user_id", favorite.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, favorite.UserID)
		}

		log.Error("failed to create favorite",
			slog.String("error", err.Error()),
			slog.String("favorite_id", favorite.ID.String()))
		return err
	}

	log.Info("favorite created successfully",
		slog.String("favorite_id", favorite.ID.String()),
		slog.String("user_id", favorite.UserID.String()))
	return nil
}

// Delete implements store.FavoriteStore.Delete
// It removes the favorite matching the given user and quote text.
// Returns store.ErrFavoriteNotFound if no such favorite exists.
func (s *PostgresFavoriteStore) Delete(
	ctx context.Context,
	userID uuid.UUID,
	quoteText string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND quote_text = $2
	`

	result, err := s.db.ExecContext(ctx, query, userID, quoteText)
	if err != nil {
		log.Error("failed to delete favorite",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrFavoriteNotFound); err != nil {
		log.Debug("favorite not found for delete",
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("favorite deleted successfully",
		slog.String("user_id", userID.String()))
	return nil
}

// GetByUserAndText implements store.FavoriteStore.GetByUserAndText
// It retrieves the favorite matching the given user and quote text.
// Returns store.ErrFavoriteNotFound if no such favorite exists.
func (s *PostgresFavoriteStore) GetByUserAndText(
	ctx context.Context,
	userID uuid.UUID,
	quoteText string,
) (*domain.Favorite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, quote_text, author, image_url, created_at
		FROM favorites
		WHERE user_id = $1 AND quote_text = $2
	`

	var favorite domain.Favorite
	err := s.db.QueryRowContext(ctx, query, userID, quoteText).Scan(
		&favorite.ID,
		&favorite.UserID,
		&favorite.QuoteText,
		&favorite.Author,
		&favorite.ImageURL,
		&favorite.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("favorite not found",
				slog.String("user_id", userID.String()))
			return nil, store.ErrFavoriteNotFound
		}
		log.Error("failed to get favorite",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &favorite, nil
}

// ListByUser implements store.FavoriteStore.ListByUser
// It retrieves all favorites belonging to the given user, newest first.
// Returns an empty slice if the user has no favorites.
func (s *PostgresFavoriteStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Favorite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, quote_text, author, image_url, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query favorites by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	favorites := []*domain.Favorite{}
	for rows.Next() {
		var favorite domain.Favorite
		err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.QuoteText,
			&favorite.Author,
			&favorite.ImageURL,
			&favorite.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan favorite row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		favorites = append(favorites, &favorite)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed favorites for user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(favorites)))
	return favorites, nil
}

// WithTx implements store.FavoriteStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresFavoriteStore) WithTx(tx *sql.Tx) store.FavoriteStore {
	return &PostgresFavoriteStore{
		db:     tx,
		logger: s.logger,
	}
}
