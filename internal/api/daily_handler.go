package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/redact"
	"github.com/phrazzld/sophia-api/internal/service"
)

// FeedGenerator renders the daily quote history as a syndication feed.
// feed.Generator satisfies it.
type FeedGenerator interface {
	Generate(ctx context.Context) ([]byte, error)
}

// DailyQuoteResponse represents the response data for the quote of the day.
type DailyQuoteResponse struct {
	Date  string        `json:"date"`
	Quote QuoteResponse `json:"quote"`
}

// DailyHandler handles quote-of-the-day HTTP requests
type DailyHandler struct {
	dailyService service.DailyService
	feed         FeedGenerator
	logger       *slog.Logger
}

// NewDailyHandler creates a new DailyHandler
func NewDailyHandler(dailyService service.DailyService, feed FeedGenerator, log *slog.Logger) *DailyHandler {
	if log == nil {
		log = slog.Default()
	}

	return &DailyHandler{
		dailyService: dailyService,
		feed:         feed,
		logger:       log.With(slog.String("component", "daily_handler")),
	}
}

// GetDailyQuote handles GET /api/daily requests. Every caller on the same
// UTC date receives the same quote.
func (h *DailyHandler) GetDailyQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	quote, err := h.dailyService.GetDailyQuote(r.Context())
	if err != nil {
		log.Error("failed to get daily quote", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "Failed to get daily quote")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DailyQuoteResponse{
		Date:  time.Now().UTC().Format(domain.DailyDateFormat),
		Quote: quoteToResponse(quote),
	})
}

// GetDailyFeed handles GET /api/daily/feed.atom requests, serving the
// recent daily quotes as an Atom feed.
func (h *DailyHandler) GetDailyFeed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	data, err := h.feed.Generate(r.Context())
	if err != nil {
		log.Error("failed to generate daily feed", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate feed", err)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write feed response", slog.String("error", err.Error()))
	}
}
