package imagery

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
)

// PhotoSearcher finds a stock photo URL for a search query. Implemented
// by the pexels client.
type PhotoSearcher interface {
	SearchPhoto(ctx context.Context, query string) (string, error)
}

// stockSource searches a stock photo library. It prefers the derived
// keywords as the query and degrades to the scene description and then
// the quote's theme.
type stockSource struct {
	searcher PhotoSearcher
}

// NewStockSource creates the chain entry backed by a stock photo
// library.
func NewStockSource(searcher PhotoSearcher) (Source, error) {
	if searcher == nil {
		return nil, fmt.Errorf("photo searcher cannot be nil")
	}

	return &stockSource{searcher: searcher}, nil
}

func (s *stockSource) Name() domain.ImageSource {
	return domain.ImageSourceStock
}

func (s *stockSource) Resolve(
	ctx context.Context,
	quote *domain.Quote,
	prompt *generation.ImagePrompt,
) (string, error) {
	query := searchQuery(quote, prompt)
	if query == "" {
		return "", ErrNoPrompt
	}

	return s.searcher.SearchPhoto(ctx, query)
}

// searchQuery picks the best available search query for a quote.
func searchQuery(quote *domain.Quote, prompt *generation.ImagePrompt) string {
	if prompt != nil {
		if keywords := strings.TrimSpace(prompt.Keywords); keywords != "" {
			return keywords
		}
		if description := strings.TrimSpace(prompt.Description); description != "" {
			return description
		}
	}

	return strings.TrimSpace(quote.Theme)
}
