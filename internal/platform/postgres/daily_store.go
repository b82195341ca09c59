package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/store"
)

// PostgresDailyQuoteStore implements the store.DailyQuoteStore interface
// using a PostgreSQL database as the storage backend. The date column
// carries a unique constraint, which is what makes concurrent pin attempts
// for the same date converge on a single winner.
type PostgresDailyQuoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyQuoteStore creates a new PostgreSQL implementation of the
// DailyQuoteStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDailyQuoteStore(db store.DBTX, logger *slog.Logger) *PostgresDailyQuoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyQuoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_quote_store")),
	}
}

// Ensure PostgresDailyQuoteStore implements store.DailyQuoteStore interface
var _ store.DailyQuoteStore = (*PostgresDailyQuoteStore)(nil)

// Create implements store.DailyQuoteStore.Create
// It pins a quote to its date.
// Returns store.ErrDailyQuoteExists if a quote is already pinned for that
// date, which callers racing on the same date treat as a lost race.
func (s *PostgresDailyQuoteStore) Create(ctx context.Context, daily *domain.DailyQuote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := daily.Validate(); err != nil {
		log.Warn("daily quote validation failed during create",
			slog.String("error", err.Error()),
			slog.String("date", daily.Date))
		return err
	}

	query := `
		INSERT INTO daily_quotes (date, quote_id, created_at)
		VALUES ($1::date, $2, $3)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		daily.Date,
		daily.QuoteID,
		daily.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("daily quote already pinned for date",
				slog.String("date", daily.Date))
			return MapUniqueViolation(err, store.ErrDailyQuoteExists)
		}

		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during daily quote creation",
				slog.String("error", err.Error()),
				slog.String("quote_id", daily.QuoteID.String()))
			return fmt.Errorf("%w: quote with ID %s not found",
				store.ErrInvalidEntity, daily.QuoteID)
		}

		log.Error("failed to create daily quote",
			slog.String("error", err.Error()),
			slog.String("date", daily.Date))
		return err
	}

	log.Info("daily quote pinned",
		slog.String("date", daily.Date),
		slog.String("quote_id", daily.QuoteID.String()))
	return nil
}

// GetByDate implements store.DailyQuoteStore.GetByDate
// It retrieves the daily quote pinned for the given date.
// Returns store.ErrDailyQuoteNotFound if no quote is pinned for that date.
func (s *PostgresDailyQuoteStore) GetByDate(
	ctx context.Context,
	date string,
) (*domain.DailyQuote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), quote_id, created_at
		FROM daily_quotes
		WHERE date = $1::date
	`

	var daily domain.DailyQuote
	err := s.db.QueryRowContext(ctx, query, date).Scan(
		&daily.Date,
		&daily.QuoteID,
		&daily.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no daily quote pinned for date", slog.String("date", date))
			return nil, store.ErrDailyQuoteNotFound
		}
		log.Error("failed to get daily quote by date",
			slog.String("error", err.Error()),
			slog.String("date", date))
		return nil, err
	}

	return &daily, nil
}

// ListRecent implements store.DailyQuoteStore.ListRecent
// It retrieves up to limit daily quotes ordered by date descending.
// Returns an empty slice if none exist.
func (s *PostgresDailyQuoteStore) ListRecent(
	ctx context.Context,
	limit int,
) ([]*domain.DailyQuote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), quote_id, created_at
		FROM daily_quotes
		ORDER BY date DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query recent daily quotes",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	dailies := []*domain.DailyQuote{}
	for rows.Next() {
		var daily domain.DailyQuote
		err := rows.Scan(
			&daily.Date,
			&daily.QuoteID,
			&daily.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan daily quote row",
				slog.String("error", err.Error()))
			return nil, err
		}
		dailies = append(dailies, &daily)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed recent daily quotes", slog.Int("count", len(dailies)))
	return dailies, nil
}

// WithTx implements store.DailyQuoteStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresDailyQuoteStore) WithTx(tx *sql.Tx) store.DailyQuoteStore {
	return &PostgresDailyQuoteStore{
		db:     tx,
		logger: s.logger,
	}
}
