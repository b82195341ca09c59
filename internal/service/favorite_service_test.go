package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/store"
)

func TestFavoriteService_Toggle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	quoteText := "The unexamined life is not worth living."
	author := "Socrates"
	imageURL := "https://images.example.com/socrates.png"

	t.Run("saves the quote when absent", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(nil, store.ErrFavoriteNotFound)
		favoriteStore.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Favorite) bool {
			return f.UserID == userID && f.QuoteText == quoteText &&
				f.Author == author && f.ImageURL == imageURL
		})).Return(nil)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.True(t, favorited)
		favoriteStore.AssertExpectations(t)
	})

	t.Run("removes the quote when present", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		existing, err := domain.NewFavorite(userID, quoteText, author, imageURL)
		require.NoError(t, err)

		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(existing, nil)
		favoriteStore.On("Delete", mock.Anything, userID, quoteText).Return(nil)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.False(t, favorited)
		favoriteStore.AssertExpectations(t)
	})

	t.Run("toggling twice restores the original state", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		existing, err := domain.NewFavorite(userID, quoteText, author, imageURL)
		require.NoError(t, err)

		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(nil, store.ErrFavoriteNotFound).Once()
		favoriteStore.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(existing, nil).Once()
		favoriteStore.On("Delete", mock.Anything, userID, quoteText).Return(nil).Once()

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.True(t, favorited)

		favorited, err = svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.False(t, favorited)

		favoriteStore.AssertExpectations(t)
	})

	t.Run("trims surrounding whitespace before matching", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(nil, store.ErrFavoriteNotFound)
		favoriteStore.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, "  "+quoteText+"\n", author, imageURL)
		require.NoError(t, err)
		assert.True(t, favorited)
		favoriteStore.AssertExpectations(t)
	})

	t.Run("empty quote text rejected", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}

		svc := NewFavoriteService(favoriteStore, discardLogger())

		_, err := svc.Toggle(ctx, userID, "   ", author, imageURL)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyFavoriteText)

		favoriteStore.AssertNotCalled(t, "GetByUserAndText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent save converges to favorited", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(nil, store.ErrFavoriteNotFound)
		favoriteStore.On("Create", mock.Anything, mock.Anything).
			Return(store.ErrFavoriteExists)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.True(t, favorited)
	})

	t.Run("concurrent removal converges to unfavorited", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		existing, err := domain.NewFavorite(userID, quoteText, author, imageURL)
		require.NoError(t, err)

		favoriteStore.On("GetByUserAndText", mock.Anything, userID, quoteText).
			Return(existing, nil)
		favoriteStore.On("Delete", mock.Anything, userID, quoteText).
			Return(store.ErrFavoriteNotFound)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorited, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.NoError(t, err)
		assert.False(t, favorited)
	})

	t.Run("lookup failure surfaces", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favoriteStore.On("GetByUserAndText", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		svc := NewFavoriteService(favoriteStore, discardLogger())

		_, err := svc.Toggle(ctx, userID, quoteText, author, imageURL)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to look up favorite")
	})
}

func TestFavoriteService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favorite, err := domain.NewFavorite(userID, "Amor fati.", "Friedrich Nietzsche", "")
		require.NoError(t, err)

		favoriteStore.On("ListByUser", mock.Anything, userID).
			Return([]*domain.Favorite{favorite}, nil)

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorites, err := svc.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, favorite, favorites[0])
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		favoriteStore := &MockFavoriteStore{}
		favoriteStore.On("ListByUser", mock.Anything, userID).
			Return(nil, errors.New("connection reset"))

		svc := NewFavoriteService(favoriteStore, discardLogger())

		favorites, err := svc.List(ctx, userID)
		require.Error(t, err)
		assert.Nil(t, favorites)
		assert.ErrorContains(t, err, "failed to list favorites")
	})
}
