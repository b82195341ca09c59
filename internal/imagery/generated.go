package imagery

import (
	"context"
	"fmt"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
)

// generatedSource renders images with a generative image model. It is
// the first entry of the chain and needs a derived scene description.
type generatedSource struct {
	generator generation.ImageGenerator
}

// NewGeneratedSource creates the chain entry backed by a generative
// image model.
func NewGeneratedSource(generator generation.ImageGenerator) (Source, error) {
	if generator == nil {
		return nil, fmt.Errorf("image generator cannot be nil")
	}

	return &generatedSource{generator: generator}, nil
}

func (s *generatedSource) Name() domain.ImageSource {
	return domain.ImageSourceGenerated
}

func (s *generatedSource) Resolve(
	ctx context.Context,
	quote *domain.Quote,
	prompt *generation.ImagePrompt,
) (string, error) {
	if prompt == nil || prompt.Description == "" {
		return "", ErrNoPrompt
	}

	return s.generator.GenerateImage(ctx, prompt.Description)
}
