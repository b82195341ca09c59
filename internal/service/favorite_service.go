package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/store"
)

// FavoriteService provides operations on a user's saved quotes.
type FavoriteService interface {
	// Toggle flips the favorite state of a quote for the given user, keyed
	// by exact quote text. It reports the resulting state: true when the
	// quote is now favorited, false when it was removed. Toggling twice
	// leaves the list unchanged.
	Toggle(ctx context.Context, userID uuid.UUID, quoteText, author, imageURL string) (bool, error)

	// List retrieves the user's favorites, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error)
}

// FavoriteServiceImpl implements the FavoriteService interface
type FavoriteServiceImpl struct {
	favoriteStore store.FavoriteStore
	logger        *slog.Logger
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(favoriteStore store.FavoriteStore, logger *slog.Logger) FavoriteService {
	return &FavoriteServiceImpl{
		favoriteStore: favoriteStore,
		logger:        logger.With("component", "favorite_service"),
	}
}

// Toggle flips the favorite state of a quote for the given user.
//
// The lookup and the following insert or delete are individual statements
// rather than one transaction: two concurrent toggles of the same text are
// serialized by the unique (user_id, quote_text) index, and the loser's
// sentinel error already tells us the state the winner left behind. A
// surrounding transaction would be poisoned by the unique violation without
// preventing the race.
func (s *FavoriteServiceImpl) Toggle(
	ctx context.Context,
	userID uuid.UUID,
	quoteText, author, imageURL string,
) (bool, error) {
	text := strings.TrimSpace(quoteText)
	if text == "" {
		return false, domain.ErrEmptyFavoriteText
	}

	_, err := s.favoriteStore.GetByUserAndText(ctx, userID, text)
	switch {
	case err == nil:
		// Already favorited, remove it
		if err := s.favoriteStore.Delete(ctx, userID, text); err != nil {
			if errors.Is(err, store.ErrFavoriteNotFound) {
				// A concurrent toggle removed it first
				s.logger.Debug("favorite already removed",
					"user_id", userID)
				return false, nil
			}
			s.logger.Error("failed to remove favorite",
				"error", err,
				"user_id", userID)
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}

		s.logger.Info("favorite removed",
			"user_id", userID)
		return false, nil

	case errors.Is(err, store.ErrFavoriteNotFound):
		favorite, err := domain.NewFavorite(userID, text, author, imageURL)
		if err != nil {
			s.logger.Debug("failed to create favorite object",
				"error", err,
				"user_id", userID)
			return false, fmt.Errorf("failed to create favorite: %w", err)
		}

		if err := s.favoriteStore.Create(ctx, favorite); err != nil {
			if errors.Is(err, store.ErrFavoriteExists) {
				// A concurrent toggle saved it first
				s.logger.Debug("favorite already saved",
					"user_id", userID)
				return true, nil
			}
			s.logger.Error("failed to save favorite",
				"error", err,
				"user_id", userID)
			return false, fmt.Errorf("failed to save favorite: %w", err)
		}

		s.logger.Info("favorite saved",
			"user_id", userID,
			"favorite_id", favorite.ID)
		return true, nil

	default:
		s.logger.Error("failed to look up favorite",
			"error", err,
			"user_id", userID)
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
}

// List retrieves the user's favorites, newest first.
func (s *FavoriteServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
	favorites, err := s.favoriteStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	s.logger.Debug("listed favorites",
		"user_id", userID,
		"count", len(favorites))

	return favorites, nil
}
