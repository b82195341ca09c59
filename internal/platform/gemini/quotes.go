package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/retry"
)

// unknownAuthor is substituted when the model omits an attribution.
const unknownAuthor = "Unknown"

// quoteTemperature nudges the text model toward varied phrasing across
// repeated requests for the same theme.
var quoteTemperature = genai.Ptr[float32](0.9)

// GenerateQuotes sends a themed prompt to the Gemini API and parses the
// JSON response into domain.Quote records with freshly generated IDs and
// no image attached.
//
// The API call is retried for transient failures according to the
// client's retry policy. A count of zero or less falls back to
// domain.DefaultQuoteCount.
func (c *Client) GenerateQuotes(ctx context.Context, theme string, count int) ([]*domain.Quote, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrEmptyTheme
	}

	if count <= 0 {
		count = domain.DefaultQuoteCount
	}

	prompt, err := buildPrompt(c.quoteTmpl, quotePromptData{Theme: theme, Count: count})
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "Requesting quotes from Gemini",
		"theme", theme,
		"count", count,
		"model", c.config.ModelName)

	raw, err := retry.Do(ctx, c.retryPolicy(), func(ctx context.Context) (string, error) {
		return c.generateText(ctx, prompt, quoteListSchema(), quoteTemperature)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	quotes, err := parseQuoteResponse(ctx, log, raw, theme)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Generated quotes",
		"theme", theme,
		"quote_count", len(quotes))

	return quotes, nil
}

// parseQuoteResponse converts the raw response text into domain.Quote
// records. It tolerates markdown code fences around the JSON and a
// {"quotes": [...]} wrapper object despite the schema requesting a bare
// array. An empty author is replaced with "Unknown"; a quote with no
// text fails the whole response.
func parseQuoteResponse(
	ctx context.Context,
	log *slog.Logger,
	raw string,
	theme string,
) ([]*domain.Quote, error) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: response text is empty", generation.ErrInvalidResponse)
	}

	var payload []quotePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		var wrapped quoteListPayload
		if wrapErr := json.Unmarshal([]byte(cleaned), &wrapped); wrapErr != nil || len(wrapped.Quotes) == 0 {
			return nil, fmt.Errorf("%w: failed to parse response JSON: %v",
				generation.ErrInvalidResponse, err)
		}
		payload = wrapped.Quotes
	}

	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no quotes in response", generation.ErrInvalidResponse)
	}

	quotes := make([]*domain.Quote, 0, len(payload))
	for i, item := range payload {
		if strings.TrimSpace(item.Quote) == "" {
			return nil, fmt.Errorf("%w: quote %d has no text", generation.ErrInvalidResponse, i)
		}

		author := strings.TrimSpace(item.Author)
		if author == "" {
			author = unknownAuthor
		}

		quote, err := domain.NewQuote(item.Quote, author, theme)
		if err != nil {
			return nil, fmt.Errorf("failed to create quote: %w", err)
		}

		quotes = append(quotes, quote)

		log.DebugContext(ctx, "Created quote from response",
			"quote_id", quote.ID.String(),
			"author", quote.Author,
			"text_length", len(quote.Text))
	}

	return quotes, nil
}
