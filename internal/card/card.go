// Package card renders composed quote cards: the quote's background image
// under a darkened scrim with the wrapped quote text and author drawn on
// top. Cards are produced as PNG downloads and as standalone HTML pages.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
)

// Generator produces quote card renditions.
type Generator struct {
	loader   *BackgroundLoader
	renderer *Renderer
	logger   *slog.Logger
}

// NewGenerator creates a card Generator with the default dimensions and
// bundled fonts.
func NewGenerator(log *slog.Logger) (*Generator, error) {
	if log == nil {
		log = slog.Default()
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card renderer: %w", err)
	}

	return &Generator{
		loader:   NewBackgroundLoader(nil, log),
		renderer: renderer,
		logger:   log.With(slog.String("component", "card_generator")),
	}, nil
}

// RenderPNG renders the quote card as a PNG image. A background that cannot
// be loaded degrades to the renderer's gradient backdrop rather than failing
// the card.
func (g *Generator) RenderPNG(ctx context.Context, quote *domain.Quote) ([]byte, error) {
	if quote == nil {
		return nil, errors.New("quote cannot be nil")
	}

	log := logger.FromContextOrDefault(ctx, g.logger)

	background, err := g.loader.Load(ctx, quote.ImageURL)
	if err != nil {
		if !errors.Is(err, ErrNoBackground) {
			log.Warn("failed to load card background, using gradient backdrop",
				slog.String("quote_id", quote.ID.String()),
				slog.String("error", err.Error()))
		}
		background = nil
	}

	data, err := g.renderer.Render(quote, background)
	if err != nil {
		return nil, fmt.Errorf("failed to render card: %w", err)
	}

	return data, nil
}
