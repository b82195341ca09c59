package generation

import (
	"context"

	"github.com/phrazzld/sophia-api/internal/domain"
)

// QuoteGenerator defines the interface for generating themed quotes.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type QuoteGenerator interface {
	// GenerateQuotes creates quote records for the given theme.
	// It returns a slice of Quote domain objects with empty image URLs,
	// or an error if generation fails (see errors.go for specific types).
	GenerateQuotes(ctx context.Context, theme string, count int) ([]*domain.Quote, error)
}

// ImagePrompt is the visual brief derived from a quote: a scene description
// for the image model and search keywords for the stock-photo fallback.
type ImagePrompt struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// ImagePromptDeriver defines the interface for turning quote text into an
// image prompt.
type ImagePromptDeriver interface {
	// DeriveImagePrompt asks the language model for a visual description and
	// stock-search keywords matching the quote.
	DeriveImagePrompt(ctx context.Context, quoteText, author string) (*ImagePrompt, error)
}

// ImageGenerator defines the interface for rendering a background image from
// a visual description.
type ImageGenerator interface {
	// GenerateImage renders the description and returns the result as a
	// base64 data URI. Returns ErrNoImage when the service answers without
	// image bytes.
	GenerateImage(ctx context.Context, description string) (string, error)
}
