package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/retry"
)

// DeriveImagePrompt asks the text model to turn a quote into a short
// visual scene description plus stock photo search keywords. The
// description feeds the image model; the keywords feed the stock photo
// fallback when image generation fails.
func (c *Client) DeriveImagePrompt(
	ctx context.Context,
	quoteText string,
	author string,
) (*generation.ImagePrompt, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	quoteText = strings.TrimSpace(quoteText)
	if quoteText == "" {
		return nil, ErrEmptyQuoteText
	}

	prompt, err := buildPrompt(c.imageTmpl, imagePromptData{
		Quote:  quoteText,
		Author: strings.TrimSpace(author),
	})
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "Deriving image prompt from quote",
		"text_length", len(quoteText),
		"model", c.config.ModelName)

	// No temperature override here. Scene descriptions should be
	// predictable so the same quote lands on a similar image.
	raw, err := retry.Do(ctx, c.retryPolicy(), func(ctx context.Context) (string, error) {
		return c.generateText(ctx, prompt, imagePromptSchema(), nil)
	})
	if err != nil {
		return nil, err
	}

	derived, err := parseImagePromptResponse(raw)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "Derived image prompt",
		"description_length", len(derived.Description),
		"keywords", derived.Keywords)

	return derived, nil
}

// parseImagePromptResponse converts the raw response text into an
// ImagePrompt. The description is required; missing keywords degrade to
// an empty string, which the stock photo fallback treats as "use the
// description instead".
func parseImagePromptResponse(raw string) (*generation.ImagePrompt, error) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: response text is empty", generation.ErrInvalidResponse)
	}

	var payload imagePromptPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response JSON: %v",
			generation.ErrInvalidResponse, err)
	}

	description := strings.TrimSpace(payload.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: image prompt has no description", generation.ErrInvalidResponse)
	}

	return &generation.ImagePrompt{
		Description: description,
		Keywords:    strings.TrimSpace(payload.Keywords),
	}, nil
}
