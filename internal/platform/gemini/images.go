package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/retry"
)

// defaultImageMIMEType is assumed when the API omits the MIME type of a
// generated image.
const defaultImageMIMEType = "image/png"

// GenerateImage renders a background image for the given scene
// description with the Imagen model and returns it as a base64 data URI.
//
// Returns generation.ErrNoImage when the API answers successfully but
// without image bytes. Callers treat any failure here as a signal to
// fall through to the next image source.
func (c *Client) GenerateImage(ctx context.Context, description string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyDescription
	}

	aspectRatio := c.config.ImageAspectRatio
	if aspectRatio == "" {
		aspectRatio = defaultAspectRatio
	}

	log.DebugContext(ctx, "Requesting image from Imagen",
		"description_length", len(description),
		"model", c.config.ImageModelName,
		"aspect_ratio", aspectRatio)

	image, err := retry.Do(ctx, c.retryPolicy(), func(ctx context.Context) (*genai.Image, error) {
		resp, err := c.genai.Models.GenerateImages(ctx, c.config.ImageModelName, description,
			&genai.GenerateImagesConfig{
				NumberOfImages: 1,
				AspectRatio:    aspectRatio,
			})
		if err != nil {
			return nil, classifyError(err)
		}
		return imageFromResponse(resp)
	})
	if err != nil {
		return "", err
	}

	log.InfoContext(ctx, "Generated image",
		"model", c.config.ImageModelName,
		"size_bytes", len(image.ImageBytes))

	return dataURI(image.ImageBytes, image.MIMEType), nil
}

// imageFromResponse extracts the first generated image that carries
// bytes.
func imageFromResponse(resp *genai.GenerateImagesResponse) (*genai.Image, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: response contains no images", generation.ErrNoImage)
	}

	image := resp.GeneratedImages[0].Image
	if image == nil || len(image.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: generated image has no bytes", generation.ErrNoImage)
	}

	return image, nil
}

// dataURI encodes image bytes as a base64 data URI.
func dataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = defaultImageMIMEType
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
