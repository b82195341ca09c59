package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/sophia-api/internal/generation"
)

// Prompt templates are embedded so the client has no runtime file
// dependencies. text/template is used rather than html/template because
// prompts are plain text and HTML escaping would mangle apostrophes and
// quotation marks in themes and quotes.

//go:embed prompts/quotes.tmpl
var quotePromptText string

//go:embed prompts/image_prompt.tmpl
var imagePromptText string

// parseTemplates parses the embedded prompt templates. A parse failure
// indicates a broken build rather than bad input, but it is surfaced as
// ErrInvalidConfig so the constructor fails loudly instead of panicking.
func parseTemplates() (quoteTmpl, imageTmpl *template.Template, err error) {
	quoteTmpl, err = template.New("quotes").Parse(quotePromptText)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%w: failed to parse quote prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	imageTmpl, err = template.New("image_prompt").Parse(imagePromptText)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%w: failed to parse image prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return quoteTmpl, imageTmpl, nil
}

// buildPrompt executes a prompt template with the given data.
func buildPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
