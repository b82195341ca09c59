package card

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/phrazzld/sophia-api/internal/domain"
)

//go:embed card.html.tmpl
var cardPageTemplate string

var cardTmpl = template.Must(template.New("card").Parse(cardPageTemplate))

// cardPage is the template context for the HTML rendition of a quote card.
// ImageURL is typed template.URL so data URIs survive the url() context.
type cardPage struct {
	Text     string
	Author   string
	Theme    string
	ImageURL template.URL
}

// RenderHTML renders a quote as a standalone HTML page mirroring the PNG
// card layout.
func (g *Generator) RenderHTML(quote *domain.Quote) ([]byte, error) {
	if quote == nil {
		return nil, errors.New("quote cannot be nil")
	}

	page := cardPage{
		Text:     quote.Text,
		Author:   quote.Author,
		Theme:    quote.Theme,
		ImageURL: template.URL(quote.ImageURL),
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render card page: %w", err)
	}

	return buf.Bytes(), nil
}
