package imagery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
)

var (
	// ErrNoSources is returned when constructing a chain without sources.
	ErrNoSources = errors.New("image chain needs at least one source")

	// ErrNoImageResolved is returned when every source in the chain
	// failed. Unreachable when the chain ends with the static source.
	ErrNoImageResolved = errors.New("no image source produced an image")

	// ErrNoPrompt is returned by sources that cannot work without a
	// derived image prompt.
	ErrNoPrompt = errors.New("no image prompt available")
)

// Source is one entry of the image fallback chain.
type Source interface {
	// Name identifies the source in logs and on the stored quote.
	Name() domain.ImageSource

	// Resolve returns an image URL for the quote. The prompt carries the
	// derived scene description and search keywords and may be nil when
	// derivation failed.
	Resolve(ctx context.Context, quote *domain.Quote, prompt *generation.ImagePrompt) (string, error)
}

// Chain attaches images to quotes by walking its sources in order and
// keeping the first success.
type Chain struct {
	logger  *slog.Logger
	deriver generation.ImagePromptDeriver
	sources []Source
}

// NewChain creates an image resolution chain. The deriver may be nil,
// in which case sources run without a derived prompt and degrade to the
// quote's theme where they can.
func NewChain(logger *slog.Logger, deriver generation.ImagePromptDeriver, sources ...Source) (*Chain, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return &Chain{
		logger:  logger,
		deriver: deriver,
		sources: sources,
	}, nil
}

// Resolve derives an image prompt for the quote and attaches the first
// image a source produces, recording which source it came from. The
// quote must not already carry an image.
func (c *Chain) Resolve(ctx context.Context, quote *domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if quote == nil {
		return fmt.Errorf("quote cannot be nil")
	}

	prompt := c.derivePrompt(ctx, quote)

	for _, source := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		imageURL, err := source.Resolve(ctx, quote, prompt)
		if err != nil {
			log.WarnContext(ctx, "Image source failed, trying next",
				"source", string(source.Name()),
				"quote_id", quote.ID.String(),
				"error", err)
			continue
		}

		log.DebugContext(ctx, "Resolved image for quote",
			"source", string(source.Name()),
			"quote_id", quote.ID.String())

		return quote.AttachImage(imageURL, source.Name())
	}

	return ErrNoImageResolved
}

// derivePrompt asks the deriver for a scene description. Failures are
// logged and reported as a nil prompt so the chain can keep going.
func (c *Chain) derivePrompt(ctx context.Context, quote *domain.Quote) *generation.ImagePrompt {
	if c.deriver == nil {
		return nil
	}

	prompt, err := c.deriver.DeriveImagePrompt(ctx, quote.Text, quote.Author)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, c.logger)
		log.WarnContext(ctx, "Image prompt derivation failed, sources degrade to the theme",
			"quote_id", quote.ID.String(),
			"error", err)
		return nil
	}

	return prompt
}
