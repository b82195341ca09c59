package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/redact"
	"github.com/phrazzld/sophia-api/internal/service"
)

// GenerateQuotesRequest represents the request body for requesting a batch
// of quotes on a theme. A zero count selects the default batch size.
type GenerateQuotesRequest struct {
	Theme string `json:"theme" validate:"required,min=1,max=200"`
	Count int    `json:"count" validate:"omitempty,min=1,max=10"`
}

// QuoteResponse represents the response data for a single quote.
type QuoteResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"quote"`
	Author      string    `json:"author"`
	Theme       string    `json:"theme,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ImageSource string    `json:"image_source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GenerationRequestResponse represents the response data for a generation request.
type GenerationRequestResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Theme        string          `json:"theme"`
	Count        int             `json:"count"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Quotes       []QuoteResponse `json:"quotes,omitempty"`
}

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService service.QuoteService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService service.QuoteService, log *slog.Logger) *QuoteHandler {
	if log == nil {
		log = slog.Default()
	}

	return &QuoteHandler{
		quoteService: quoteService,
		validator:    validator.New(),
		logger:       log.With(slog.String("component", "quote_handler")),
	}
}

// GenerateQuotes handles POST /api/quotes requests. It records the request
// and schedules background generation, responding before the quotes exist.
func (h *QuoteHandler) GenerateQuotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateQuotesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	request, err := h.quoteService.RequestGeneration(r.Context(), userID, req.Theme, req.Count)
	if err != nil {
		log.Error("failed to request quote generation",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to request quote generation")
		return
	}

	log.Debug("quote generation requested",
		slog.String("request_id", request.ID.String()),
		slog.String("theme", request.Theme))

	// 202 since generation happens asynchronously
	shared.RespondWithJSON(w, r, http.StatusAccepted, requestToResponse(request, nil))
}

// GetGenerationRequest handles GET /api/quotes/requests/{id} requests.
// Only the user who created a request may poll it. Completed requests
// include their quotes.
func (h *QuoteHandler) GetGenerationRequest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, requestID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	request, err := h.quoteService.GetRequestForUser(r.Context(), requestID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve generation request")
		return
	}

	var quotes []*domain.Quote
	if request.Status == domain.RequestStatusCompleted {
		quotes, err = h.quoteService.ListQuotesByRequest(r.Context(), requestID)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to retrieve quotes")
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, requestToResponse(request, quotes))
}

// GetQuote handles GET /api/quotes/{id} requests. Quotes are public once
// generated.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	quoteID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid quote ID", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	quote, err := h.quoteService.GetQuote(r.Context(), quoteID)
	if err != nil {
		if !errors.Is(err, service.ErrQuoteNotFound) {
			log.Error("failed to retrieve quote",
				slog.String("error", redact.Error(err)),
				slog.String("quote_id", quoteID.String()))
		}
		HandleAPIError(w, r, err, "Failed to retrieve quote")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quoteToResponse(quote))
}

// quoteToResponse converts a domain.Quote to a QuoteResponse
func quoteToResponse(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          quote.ID.String(),
		Text:        quote.Text,
		Author:      quote.Author,
		Theme:       quote.Theme,
		ImageURL:    quote.ImageURL,
		ImageSource: string(quote.ImageSource),
		CreatedAt:   quote.CreatedAt,
	}
}

// requestToResponse converts a domain.GenerationRequest and its quotes, if
// any, to a GenerationRequestResponse
func requestToResponse(request *domain.GenerationRequest, quotes []*domain.Quote) GenerationRequestResponse {
	resp := GenerationRequestResponse{
		ID:           request.ID.String(),
		UserID:       request.UserID.String(),
		Theme:        request.Theme,
		Count:        request.Count,
		Status:       string(request.Status),
		ErrorMessage: request.ErrorMessage,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
	}

	for _, quote := range quotes {
		resp.Quotes = append(resp.Quotes, quoteToResponse(quote))
	}

	return resp
}
