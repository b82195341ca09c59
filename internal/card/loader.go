package card

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	// Register the decoders for the formats the image chain produces.
	_ "image/jpeg"
	_ "image/png"
)

// ErrNoBackground indicates the quote carries no image URL to load.
var ErrNoBackground = errors.New("quote has no image to load")

// maxBackgroundBytes caps how much of a remote image is read.
const maxBackgroundBytes = 8 << 20

// BackgroundLoader resolves a quote's image URL into a decoded image.
type BackgroundLoader struct {
	client *http.Client
	logger *slog.Logger
}

// NewBackgroundLoader creates a BackgroundLoader. A nil client gets a
// default with a request timeout.
func NewBackgroundLoader(client *http.Client, log *slog.Logger) *BackgroundLoader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &BackgroundLoader{
		client: client,
		logger: log.With(slog.String("component", "card_background_loader")),
	}
}

// Load fetches and decodes the image behind a quote's URL. Data URIs decode
// locally; http(s) URLs are fetched with a size cap.
func (l *BackgroundLoader) Load(ctx context.Context, imageURL string) (image.Image, error) {
	switch {
	case imageURL == "":
		return nil, ErrNoBackground
	case strings.HasPrefix(imageURL, "data:"):
		return decodeDataURI(imageURL)
	case strings.HasPrefix(imageURL, "http://"), strings.HasPrefix(imageURL, "https://"):
		return l.fetch(ctx, imageURL)
	default:
		return nil, errors.New("unsupported image URL scheme")
	}
}

func (l *BackgroundLoader) fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			l.logger.Warn("failed to close image response body",
				slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxBackgroundBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

func decodeDataURI(uri string) (image.Image, error) {
	header, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("malformed image data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data URI: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image bytes: %w", err)
	}

	return img, nil
}
