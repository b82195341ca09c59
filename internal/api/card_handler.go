package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/redact"
	"github.com/phrazzld/sophia-api/internal/service"
)

// CardRenderer renders a quote as a shareable card. card.Generator
// satisfies it.
type CardRenderer interface {
	RenderPNG(ctx context.Context, quote *domain.Quote) ([]byte, error)
	RenderHTML(quote *domain.Quote) ([]byte, error)
}

// CardHandler serves composed quote card renditions.
type CardHandler struct {
	quoteService service.QuoteService
	renderer     CardRenderer
	logger       *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(
	quoteService service.QuoteService,
	renderer CardRenderer,
	log *slog.Logger,
) *CardHandler {
	if log == nil {
		log = slog.Default()
	}

	return &CardHandler{
		quoteService: quoteService,
		renderer:     renderer,
		logger:       log.With(slog.String("component", "card_handler")),
	}
}

// GetCardImage handles GET /api/quotes/{id}/card.png requests. It renders
// the quote over its image as a PNG suitable for sharing.
func (h *CardHandler) GetCardImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	quote, ok := h.loadQuote(w, r, log)
	if !ok {
		return
	}

	data, err := h.renderer.RenderPNG(r.Context(), quote)
	if err != nil {
		log.Error("failed to render card image",
			slog.String("error", redact.Error(err)),
			slog.String("quote_id", quote.ID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to render quote card", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write card image response", slog.String("error", err.Error()))
	}
}

// GetCardPage handles GET /api/quotes/{id}/card requests. It renders the
// quote card as a standalone HTML page.
func (h *CardHandler) GetCardPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	quote, ok := h.loadQuote(w, r, log)
	if !ok {
		return
	}

	page, err := h.renderer.RenderHTML(quote)
	if err != nil {
		log.Error("failed to render card page",
			slog.String("error", redact.Error(err)),
			slog.String("quote_id", quote.ID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to render quote card", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		log.Error("failed to write card page response", slog.String("error", err.Error()))
	}
}

// loadQuote extracts the quote ID from the path and fetches the quote,
// writing an error response on failure.
func (h *CardHandler) loadQuote(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (*domain.Quote, bool) {
	quoteID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid quote ID", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	quote, err := h.quoteService.GetQuote(r.Context(), quoteID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve quote")
		return nil, false
	}

	return quote, true
}
