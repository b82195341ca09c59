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

// PostgresQuoteStore implements the store.QuoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuoteStore creates a new PostgreSQL implementation of the
// QuoteStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresQuoteStore(db store.DBTX, logger *slog.Logger) *PostgresQuoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "quote_store")),
	}
}

// Ensure PostgresQuoteStore implements store.QuoteStore interface
var _ store.QuoteStore = (*PostgresQuoteStore)(nil)

// Create implements store.QuoteStore.Create
// It saves a new quote to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the request ID references a missing
// generation request.
func (s *PostgresQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := quote.Validate(); err != nil {
		log.Warn("quote validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quote_id", quote.ID.String()))
		return err
	}

	query := `
		INSERT INTO quotes (id, text, author, theme, image_url, image_source, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		quote.ID,
		quote.Text,
		quote.Author,
		quote.Theme,
		quote.ImageURL,
		string(quote.ImageSource),
		quote.RequestID,
		quote.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during quote creation",
				slog.String("error", err.Error()),
				slog.String("quote_id", quote.ID.String()))
			return fmt.Errorf("%w: generation request %s not found",
				store.ErrInvalidEntity, quote.RequestID.UUID)
		}

		log.Error("failed to create quote",
			slog.String("error", err.Error()),
			slog.String("quote_id", quote.ID.String()))
		return err
	}

	log.Debug("quote created successfully",
		slog.String("quote_id", quote.ID.String()),
		slog.String("author", quote.Author))
	return nil
}

// CreateBatch implements store.QuoteStore.CreateBatch
// It saves multiple quotes to the database. Run it within a transaction so a
// failure partway through does not leave a partial batch behind.
func (s *PostgresQuoteStore) CreateBatch(ctx context.Context, quotes []*domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(quotes) == 0 {
		return nil
	}

	for i, quote := range quotes {
		if err := s.Create(ctx, quote); err != nil {
			return fmt.Errorf("failed to create quote %d of %d: %w", i+1, len(quotes), err)
		}
	}

	log.Info("quote batch created successfully",
		slog.Int("count", len(quotes)))
	return nil
}

// GetByID implements store.QuoteStore.GetByID
// It retrieves a quote by its unique ID.
// Returns store.ErrQuoteNotFound if the quote does not exist.
func (s *PostgresQuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, text, author, theme, image_url, image_source, request_id, created_at
		FROM quotes
		WHERE id = $1
	`

	quote, err := scanQuote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("quote not found", slog.String("quote_id", id.String()))
			return nil, store.ErrQuoteNotFound
		}
		log.Error("failed to get quote by ID",
			slog.String("error", err.Error()),
			slog.String("quote_id", id.String()))
		return nil, err
	}

	return quote, nil
}

// ListByRequestID implements store.QuoteStore.ListByRequestID
// It retrieves all quotes produced by a generation request, ordered by
// creation time. Returns an empty slice if the request has no quotes.
func (s *PostgresQuoteStore) ListByRequestID(
	ctx context.Context,
	requestID uuid.UUID,
) ([]*domain.Quote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, text, author, theme, image_url, image_source, request_id, created_at
		FROM quotes
		WHERE request_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, requestID)
	if err != nil {
		log.Error("failed to query quotes by request ID",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	quotes := []*domain.Quote{}
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			log.Error("failed to scan quote row",
				slog.String("error", err.Error()),
				slog.String("request_id", requestID.String()))
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed quotes by request",
		slog.String("request_id", requestID.String()),
		slog.Int("count", len(quotes)))
	return quotes, nil
}

// GetRandom implements store.QuoteStore.GetRandom
// It retrieves a single quote chosen uniformly at random.
// Returns store.ErrQuoteNotFound if the store holds no quotes.
func (s *PostgresQuoteStore) GetRandom(ctx context.Context) (*domain.Quote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, text, author, theme, image_url, image_source, request_id, created_at
		FROM quotes
		ORDER BY RANDOM()
		LIMIT 1
	`

	quote, err := scanQuote(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no quotes available for random selection")
			return nil, store.ErrQuoteNotFound
		}
		log.Error("failed to get random quote",
			slog.String("error", err.Error()))
		return nil, err
	}

	return quote, nil
}

// WithTx implements store.QuoteStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresQuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return &PostgresQuoteStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanQuote reads one quote row in the column order used by every quote query.
func scanQuote(row rowScanner) (*domain.Quote, error) {
	var quote domain.Quote
	var imageSource string

	err := row.Scan(
		&quote.ID,
		&quote.Text,
		&quote.Author,
		&quote.Theme,
		&quote.ImageURL,
		&imageSource,
		&quote.RequestID,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	quote.ImageSource = domain.ImageSource(imageSource)
	return &quote, nil
}
