package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
)

const (
	// defaultBaseURL is the production Pexels API endpoint. Tests point
	// the client at an httptest server instead.
	defaultBaseURL = "https://api.pexels.com/v1"

	// requestTimeout bounds a single search call.
	requestTimeout = 10 * time.Second

	// searchPageSize is the number of photos requested per search. Only
	// the first photo is used.
	searchPageSize = 1
)

var (
	// ErrMissingAPIKey is returned when constructing a client without an
	// API key.
	ErrMissingAPIKey = errors.New("pexels API key cannot be empty")

	// ErrEmptyQuery is returned when searching with an empty query.
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrNoPhoto is returned when a search succeeds but yields no usable
	// photo URL.
	ErrNoPhoto = errors.New("no photo found for query")
)

// Client searches the Pexels photo library.
type Client struct {
	logger  *slog.Logger
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Pexels client from the given configuration. The
// base URL falls back to the production endpoint when unset.
func NewClient(logger *slog.Logger, cfg config.PexelsConfig) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		logger:  logger,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

// SearchPhoto searches for a landscape photo matching the query and
// returns the first result's image URL. Returns ErrNoPhoto when the
// search succeeds but no photo carries a usable URL.
func (c *Client) SearchPhoto(ctx context.Context, query string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return "", fmt.Errorf("failed to build search URL: %w", err)
	}

	params := searchURL.Query()
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(searchPageSize))
	params.Set("orientation", "landscape")
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pexels returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode pexels response: %w", err)
	}

	photoURL := firstPhotoURL(result.Photos)
	if photoURL == "" {
		return "", fmt.Errorf("%w: %q", ErrNoPhoto, query)
	}

	log.DebugContext(ctx, "Found stock photo",
		"query", query,
		"photo_url", photoURL)

	return photoURL, nil
}

// firstPhotoURL returns the first usable image URL, preferring the
// landscape rendition and degrading to large and original.
func firstPhotoURL(photos []photo) string {
	for _, p := range photos {
		switch {
		case p.Src.Landscape != "":
			return p.Src.Landscape
		case p.Src.Large != "":
			return p.Src.Large
		case p.Src.Original != "":
			return p.Src.Original
		}
	}

	return ""
}

// searchResponse is the subset of the Pexels search response the client
// reads.
type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID  int64    `json:"id"`
	Alt string   `json:"alt"`
	Src photoSrc `json:"src"`
}

type photoSrc struct {
	Original  string `json:"original"`
	Large     string `json:"large"`
	Landscape string `json:"landscape"`
}
