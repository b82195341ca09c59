package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/store"
)

// dailyThemes is the fixed rotation the quote of the day draws from. The
// theme for a date is picked by day of year, so every instance serving the
// same date generates against the same theme.
var dailyThemes = []string{
	"wisdom",
	"courage",
	"love",
	"hope",
	"happiness",
	"freedom",
	"truth",
	"time",
	"nature",
	"change",
	"solitude",
	"purpose",
}

// ImageResolver attaches an image URL to a quote.
type ImageResolver interface {
	Resolve(ctx context.Context, quote *domain.Quote) error
}

// DailyEntry pairs a pinned date with its quote.
type DailyEntry struct {
	Date  string
	Quote *domain.Quote
}

// DailyService provides the quote of the day.
type DailyService interface {
	// GetDailyQuote returns the quote pinned to today's UTC date, creating
	// it on first demand. Every caller on the same date receives the same
	// quote.
	GetDailyQuote(ctx context.Context) (*domain.Quote, error)

	// ListRecent returns up to limit recent daily quotes, most recent
	// first. Entries whose quote record is missing are skipped.
	ListRecent(ctx context.Context, limit int) ([]DailyEntry, error)
}

// dailyServiceImpl implements the DailyService interface
type dailyServiceImpl struct {
	quoteStore store.QuoteStore
	dailyStore store.DailyQuoteStore
	generator  generation.QuoteGenerator
	images     ImageResolver
	db         *sql.DB
	logger     *slog.Logger
	// timeFunc supplies the current time, injectable for tests.
	timeFunc func() time.Time
}

// NewDailyService creates a new DailyService.
// It returns an error if any of the required dependencies are nil.
func NewDailyService(
	quoteStore store.QuoteStore,
	dailyStore store.DailyQuoteStore,
	generator generation.QuoteGenerator,
	images ImageResolver,
	db *sql.DB,
	log *slog.Logger,
) (DailyService, error) {
	if quoteStore == nil {
		return nil, errors.New("daily service: quoteStore cannot be nil")
	}
	if dailyStore == nil {
		return nil, errors.New("daily service: dailyStore cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("daily service: generator cannot be nil")
	}
	if images == nil {
		return nil, errors.New("daily service: images cannot be nil")
	}
	if db == nil {
		return nil, errors.New("daily service: db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &dailyServiceImpl{
		quoteStore: quoteStore,
		dailyStore: dailyStore,
		generator:  generator,
		images:     images,
		db:         db,
		logger:     log.With(slog.String("component", "daily_service")),
		timeFunc:   time.Now,
	}, nil
}

// GetDailyQuote returns the quote pinned to today's UTC date, creating it on
// first demand. Concurrent first requests race on the unique date column;
// losers reload and return the winner's quote.
func (s *dailyServiceImpl) GetDailyQuote(ctx context.Context) (*domain.Quote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.timeFunc().UTC()
	date := now.Format(domain.DailyDateFormat)

	quote, err := s.lookupDailyQuote(ctx, date)
	if err == nil {
		return quote, nil
	}
	if !errors.Is(err, store.ErrDailyQuoteNotFound) {
		return nil, err
	}

	// Nothing pinned yet for this date; produce a candidate and try to pin it
	quote, fresh := s.pickDailyCandidate(ctx, now)
	if quote == nil {
		return nil, ErrQuoteNotFound
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if fresh {
			if err := s.quoteStore.WithTx(tx).Create(ctx, quote); err != nil {
				return fmt.Errorf("failed to save daily quote: %w", err)
			}
		}

		daily, err := domain.NewDailyQuote(now, quote.ID)
		if err != nil {
			return fmt.Errorf("failed to create daily quote pin: %w", err)
		}

		return s.dailyStore.WithTx(tx).Create(ctx, daily)
	})
	if err != nil {
		if errors.Is(err, store.ErrDailyQuoteExists) {
			// Lost the race; another request pinned this date first
			log.Debug("lost daily quote race, reloading winner",
				slog.String("date", date))
			return s.lookupDailyQuote(ctx, date)
		}
		log.Error("failed to pin daily quote",
			slog.String("error", err.Error()),
			slog.String("date", date))
		return nil, fmt.Errorf("failed to pin daily quote: %w", err)
	}

	log.Info("daily quote pinned",
		slog.String("date", date),
		slog.String("quote_id", quote.ID.String()))

	return quote, nil
}

// lookupDailyQuote loads the quote pinned for the given date.
func (s *dailyServiceImpl) lookupDailyQuote(ctx context.Context, date string) (*domain.Quote, error) {
	daily, err := s.dailyStore.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, store.ErrDailyQuoteNotFound) {
			return nil, err
		}
		s.logger.Error("failed to look up daily quote",
			slog.String("error", err.Error()),
			slog.String("date", date))
		return nil, fmt.Errorf("failed to look up daily quote: %w", err)
	}

	quote, err := s.quoteStore.GetByID(ctx, daily.QuoteID)
	if err != nil {
		s.logger.Error("daily quote record points at a missing quote",
			slog.String("error", err.Error()),
			slog.String("date", date),
			slog.String("quote_id", daily.QuoteID.String()))
		return nil, fmt.Errorf("failed to load pinned quote: %w", err)
	}

	return quote, nil
}

// pickDailyCandidate produces the quote to pin for the given moment. It
// generates a fresh quote against the date's rotation theme and resolves an
// image for it; when generation is unavailable it falls back to a random
// stored quote. The boolean reports whether the quote is freshly generated
// and still needs to be saved.
func (s *dailyServiceImpl) pickDailyCandidate(ctx context.Context, now time.Time) (*domain.Quote, bool) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	theme := dailyThemes[now.YearDay()%len(dailyThemes)]

	quotes, err := s.generator.GenerateQuotes(ctx, theme, 1)
	if err != nil || len(quotes) == 0 {
		log.Warn("daily quote generation unavailable, falling back to stored quotes",
			slog.String("theme", theme),
			slog.Any("error", err))

		stored, err := s.quoteStore.GetRandom(ctx)
		if err != nil {
			log.Error("no stored quote available for daily fallback",
				slog.String("error", err.Error()))
			return nil, false
		}
		return stored, false
	}

	quote := quotes[0]
	if err := s.images.Resolve(ctx, quote); err != nil {
		// Serve the quote without an image rather than failing the day
		log.Warn("failed to resolve image for daily quote",
			slog.String("error", err.Error()),
			slog.String("quote_id", quote.ID.String()))
	}

	return quote, true
}

// ListRecent returns up to limit recent daily quotes, most recent first.
func (s *dailyServiceImpl) ListRecent(ctx context.Context, limit int) ([]DailyEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dailies, err := s.dailyStore.ListRecent(ctx, limit)
	if err != nil {
		log.Error("failed to list recent daily quotes",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list recent daily quotes: %w", err)
	}

	entries := make([]DailyEntry, 0, len(dailies))
	for _, daily := range dailies {
		quote, err := s.quoteStore.GetByID(ctx, daily.QuoteID)
		if err != nil {
			log.Warn("skipping daily entry with missing quote",
				slog.String("date", daily.Date),
				slog.String("quote_id", daily.QuoteID.String()),
				slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, DailyEntry{Date: daily.Date, Quote: quote})
	}

	return entries, nil
}
