package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/domain"
)

func TestFavoriteHandler_ToggleFavorite(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name           string
		authenticated  bool
		requestBody    interface{}
		setupMock      func(*MockFavoriteService)
		expectedStatus int
		expectedErrMsg string
		expectFavorite bool
	}{
		{
			name:          "favorite_added",
			authenticated: true,
			requestBody: ToggleFavoriteRequest{
				Text:     "The obstacle is the way.",
				Author:   "Marcus Aurelius",
				ImageURL: "https://images.example.com/1.jpg",
			},
			setupMock: func(fs *MockFavoriteService) {
				fs.ToggleFn = func(ctx context.Context, userID uuid.UUID, quoteText, author, imageURL string) (bool, error) {
					assert.Equal(t, fixedUserID, userID)
					assert.Equal(t, "The obstacle is the way.", quoteText)
					assert.Equal(t, "Marcus Aurelius", author)
					assert.Equal(t, "https://images.example.com/1.jpg", imageURL)
					return true, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectFavorite: true,
		},
		{
			name:          "favorite_removed",
			authenticated: true,
			requestBody: ToggleFavoriteRequest{
				Text:   "The obstacle is the way.",
				Author: "Marcus Aurelius",
			},
			setupMock: func(fs *MockFavoriteService) {
				fs.ToggleFn = func(ctx context.Context, userID uuid.UUID, quoteText, author, imageURL string) (bool, error) {
					return false, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectFavorite: false,
		},
		{
			name:           "unauthenticated",
			authenticated:  false,
			requestBody:    ToggleFavoriteRequest{Text: "text", Author: "author"},
			setupMock:      func(*MockFavoriteService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedErrMsg: "User ID not found or invalid",
		},
		{
			name:           "missing_text",
			authenticated:  true,
			requestBody:    ToggleFavoriteRequest{Author: "Marcus Aurelius"},
			setupMock:      func(*MockFavoriteService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Text",
		},
		{
			name:           "missing_author",
			authenticated:  true,
			requestBody:    ToggleFavoriteRequest{Text: "The obstacle is the way."},
			setupMock:      func(*MockFavoriteService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Author",
		},
		{
			name:           "malformed_json",
			authenticated:  true,
			requestBody:    `{"text": }`,
			setupMock:      func(*MockFavoriteService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid request format",
		},
		{
			name:          "service_failure",
			authenticated: true,
			requestBody:   ToggleFavoriteRequest{Text: "text", Author: "author"},
			setupMock: func(fs *MockFavoriteService) {
				fs.ToggleFn = func(ctx context.Context, userID uuid.UUID, quoteText, author, imageURL string) (bool, error) {
					return false, errors.New("database connection lost")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to toggle favorite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favoriteService := &MockFavoriteService{}
			tt.setupMock(favoriteService)

			handler := NewFavoriteHandler(favoriteService, testLogger())

			req := postJSON(t, "/api/favorites/toggle", tt.requestBody)
			if tt.authenticated {
				req = withUser(req, fixedUserID)
			}

			w := httptest.NewRecorder()
			handler.ToggleFavorite(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			body := decodeBody(t, w)
			if tt.expectedErrMsg != "" {
				errorMsg, ok := body["error"].(string)
				assert.True(t, ok, "expected error field in response")
				assert.Contains(t, errorMsg, tt.expectedErrMsg)
				return
			}

			assert.Equal(t, tt.expectFavorite, body["favorited"])
			assert.NotEmpty(t, body["text"])
		})
	}
}

func TestFavoriteHandler_ListFavorites(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("returns_favorites", func(t *testing.T) {
		favorite, err := domain.NewFavorite(fixedUserID, "Know thyself.", "Socrates", "")
		require.NoError(t, err)

		favoriteService := &MockFavoriteService{
			ListFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
				assert.Equal(t, fixedUserID, userID)
				return []*domain.Favorite{favorite}, nil
			},
		}

		handler := NewFavoriteHandler(favoriteService, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
		req = withUser(req, fixedUserID)

		w := httptest.NewRecorder()
		handler.ListFavorites(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var favorites []map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&favorites))
		require.Len(t, favorites, 1)
		assert.Equal(t, "Know thyself.", favorites[0]["text"])
		assert.Equal(t, "Socrates", favorites[0]["author"])
	})

	t.Run("empty_list_is_an_array", func(t *testing.T) {
		favoriteService := &MockFavoriteService{
			ListFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
				return nil, nil
			},
		}

		handler := NewFavoriteHandler(favoriteService, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
		req = withUser(req, fixedUserID)

		w := httptest.NewRecorder()
		handler.ListFavorites(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewFavoriteHandler(&MockFavoriteService{}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)

		w := httptest.NewRecorder()
		handler.ListFavorites(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("service_failure", func(t *testing.T) {
		favoriteService := &MockFavoriteService{
			ListFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
				return nil, errors.New("database connection lost")
			},
		}

		handler := NewFavoriteHandler(favoriteService, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
		req = withUser(req, fixedUserID)

		w := httptest.NewRecorder()
		handler.ListFavorites(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, decodeBody(t, w)["error"], "Failed to list favorites")
	})
}
