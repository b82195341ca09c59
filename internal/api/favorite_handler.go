package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/redact"
	"github.com/phrazzld/sophia-api/internal/service"
)

// ToggleFavoriteRequest represents the request body for toggling a favorite.
// Favorites are keyed by exact quote text, so toggling the same text twice
// returns the user to their starting state.
type ToggleFavoriteRequest struct {
	Text     string `json:"text" validate:"required,min=1"`
	Author   string `json:"author" validate:"required,min=1"`
	ImageURL string `json:"image_url" validate:"omitempty"`
}

// ToggleFavoriteResponse reports the favorite state after a toggle.
type ToggleFavoriteResponse struct {
	Favorited bool   `json:"favorited"`
	Text      string `json:"text"`
}

// FavoriteResponse represents the response data for a saved favorite.
type FavoriteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteHandler handles favorite-related HTTP requests
type FavoriteHandler struct {
	favoriteService service.FavoriteService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteService service.FavoriteService, log *slog.Logger) *FavoriteHandler {
	if log == nil {
		log = slog.Default()
	}

	return &FavoriteHandler{
		favoriteService: favoriteService,
		validator:       validator.New(),
		logger:          log.With(slog.String("component", "favorite_handler")),
	}
}

// ToggleFavorite handles POST /api/favorites/toggle requests
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ToggleFavoriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	favorited, err := h.favoriteService.Toggle(r.Context(), userID, req.Text, req.Author, req.ImageURL)
	if err != nil {
		log.Error("failed to toggle favorite",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to toggle favorite")
		return
	}

	log.Debug("favorite toggled",
		slog.String("user_id", userID.String()),
		slog.Bool("favorited", favorited))

	shared.RespondWithJSON(w, r, http.StatusOK, ToggleFavoriteResponse{
		Favorited: favorited,
		Text:      req.Text,
	})
}

// ListFavorites handles GET /api/favorites requests
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	favorites, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list favorites",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to list favorites")
		return
	}

	// An empty list rather than null keeps clients simple
	responses := lo.Map(favorites, func(favorite *domain.Favorite, _ int) FavoriteResponse {
		return favoriteToResponse(favorite)
	})

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// favoriteToResponse converts a domain.Favorite to a FavoriteResponse
func favoriteToResponse(favorite *domain.Favorite) FavoriteResponse {
	return FavoriteResponse{
		ID:        favorite.ID.String(),
		Text:      favorite.QuoteText,
		Author:    favorite.Author,
		ImageURL:  favorite.ImageURL,
		CreatedAt: favorite.CreatedAt,
	}
}
