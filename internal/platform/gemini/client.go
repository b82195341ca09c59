package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/retry"
)

// defaultAspectRatio is used when the configuration does not specify an
// aspect ratio for generated images.
const defaultAspectRatio = "16:9"

// Compile-time checks that Client implements the generation interfaces.
var (
	_ generation.QuoteGenerator     = (*Client)(nil)
	_ generation.ImagePromptDeriver = (*Client)(nil)
	_ generation.ImageGenerator     = (*Client)(nil)
)

// Client talks to the Gemini API. It implements quote generation, image
// prompt derivation, and image generation on top of a single genai
// client, sharing one retry policy and error classification.
type Client struct {
	// logger is used for structured logging of API interactions.
	logger *slog.Logger

	// config contains LLM-specific configuration such as API keys,
	// model names, and retry settings.
	config config.LLMConfig

	// genai is the underlying SDK client.
	genai *genai.Client

	// quoteTmpl renders the quote generation prompt.
	quoteTmpl *template.Template

	// imageTmpl renders the image prompt derivation prompt.
	imageTmpl *template.Template
}

// NewClient creates a Gemini API client from the given configuration.
// It validates the configuration, parses the embedded prompt templates,
// and initializes the underlying SDK client.
//
// Returns an error wrapping generation.ErrInvalidConfig when required
// settings are missing.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ImageModelName == "" {
		return nil, fmt.Errorf("%w: image model name cannot be empty", generation.ErrInvalidConfig)
	}

	quoteTmpl, imageTmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	logger.InfoContext(ctx, "Gemini client initialized",
		"model", cfg.ModelName,
		"image_model", cfg.ImageModelName)

	return &Client{
		logger:    logger,
		config:    cfg,
		genai:     client,
		quoteTmpl: quoteTmpl,
		imageTmpl: imageTmpl,
	}, nil
}

// retryPolicy builds the retry policy shared by all API calls. Only
// errors classified as transient are retried.
func (c *Client) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: c.config.MaxRetries,
		BaseDelay:  time.Duration(c.config.RetryDelaySeconds) * time.Second,
		Retryable:  isRetryable,
	}
}

// generateText sends a prompt to the text model and returns the raw
// response text. The response MIME type is always application/json and
// the given schema constrains the output shape.
func (c *Client) generateText(
	ctx context.Context,
	prompt string,
	schema *genai.Schema,
	temperature *float32,
) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.genai.Models.GenerateContent(ctx, c.config.ModelName, contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			Temperature:      temperature,
		})
	if err != nil {
		return "", classifyError(err)
	}

	return textFromResponse(resp)
}

// textFromResponse extracts the text of the first candidate in a
// response. Blocked prompts and safety-stopped candidates are reported
// as generation.ErrContentBlocked; structurally empty responses as
// generation.ErrInvalidResponse.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: response contains no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidate contains no content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: candidate contains no text", generation.ErrInvalidResponse)
	}

	return text, nil
}
