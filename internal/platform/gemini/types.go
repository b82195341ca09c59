package gemini

import "google.golang.org/genai"

// quotePromptData is the input for the quote generation prompt template.
type quotePromptData struct {
	Theme string
	Count int
}

// imagePromptData is the input for the image prompt derivation template.
type imagePromptData struct {
	Quote  string
	Author string
}

// quotePayload is a single quote as returned by the Gemini API.
type quotePayload struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// quoteListPayload tolerates responses that wrap the quote array in an
// object despite the schema requesting a bare array.
type quoteListPayload struct {
	Quotes []quotePayload `json:"quotes"`
}

// imagePromptPayload is the structured image prompt returned by the
// Gemini API for a quote.
type imagePromptPayload struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// quoteListSchema describes the expected quote response: an array of
// objects each carrying a quote and its author. Passing the schema with
// the request constrains the model's output shape.
func quoteListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"quote": {
					Type:        genai.TypeString,
					Description: "The quote text, without surrounding quotation marks",
				},
				"author": {
					Type:        genai.TypeString,
					Description: "The person the quote is attributed to, or Unknown",
				},
			},
			Required: []string{"quote", "author"},
		},
	}
}

// imagePromptSchema describes the expected image prompt response.
func imagePromptSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {
				Type:        genai.TypeString,
				Description: "A short visual scene description for an image model",
			},
			"keywords": {
				Type:        genai.TypeString,
				Description: "Two or three comma-separated search keywords for the scene",
			},
		},
		Required: []string{"description", "keywords"},
	}
}
