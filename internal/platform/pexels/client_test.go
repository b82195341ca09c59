package pexels

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(discardLogger(), config.PexelsConfig{
		APIKey:  "test-pexels-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("rejects an empty API key", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(discardLogger(), config.PexelsConfig{})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("rejects a nil logger", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(nil, config.PexelsConfig{APIKey: "key"})
		assert.Nil(t, client)
		assert.Error(t, err)
	})

	t.Run("defaults the base URL", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(discardLogger(), config.PexelsConfig{APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, defaultBaseURL, client.baseURL)
	})
}

func TestSearchPhoto(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the first photo's landscape URL", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "mountains, mist", r.URL.Query().Get("query"))
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
			assert.Equal(t, "test-pexels-key", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"photos": [
					{
						"id": 3573351,
						"alt": "Misty ridge",
						"src": {
							"original": "https://images.example.com/3573351.png",
							"large": "https://images.example.com/3573351-large.jpg",
							"landscape": "https://images.example.com/3573351-landscape.jpg"
						}
					}
				]
			}`))
		})

		photoURL, err := client.SearchPhoto(ctx, "mountains, mist")
		require.NoError(t, err)
		assert.Equal(t, "https://images.example.com/3573351-landscape.jpg", photoURL)
	})

	t.Run("falls back to the large rendition", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"photos": [
					{"id": 1, "src": {"large": "https://images.example.com/1-large.jpg"}}
				]
			}`))
		})

		photoURL, err := client.SearchPhoto(ctx, "forest")
		require.NoError(t, err)
		assert.Equal(t, "https://images.example.com/1-large.jpg", photoURL)
	})

	t.Run("reports an empty result as no photo", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": []}`))
		})

		photoURL, err := client.SearchPhoto(ctx, "xzqv")
		assert.Empty(t, photoURL)
		assert.ErrorIs(t, err, ErrNoPhoto)
	})

	t.Run("reports photos without any URL as no photo", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": [{"id": 2, "src": {}}]}`))
		})

		photoURL, err := client.SearchPhoto(ctx, "forest")
		assert.Empty(t, photoURL)
		assert.ErrorIs(t, err, ErrNoPhoto)
	})

	t.Run("reports a non-200 status", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})

		photoURL, err := client.SearchPhoto(ctx, "forest")
		assert.Empty(t, photoURL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("reports a malformed response body", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		photoURL, err := client.SearchPhoto(ctx, "forest")
		assert.Empty(t, photoURL)
		assert.Error(t, err)
	})

	t.Run("rejects an empty query", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made for an empty query")
		})

		photoURL, err := client.SearchPhoto(ctx, "   ")
		assert.Empty(t, photoURL)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}
