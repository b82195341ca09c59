// Package gemini implements the generation interfaces using Google's
// Gemini API via the google.golang.org/genai SDK.
//
// The package provides a single Client that covers three concerns:
//
//   - Quote generation: sends a themed prompt requesting a JSON response
//     (application/json MIME type plus a response schema), cleans any
//     markdown code fences from the returned text, and parses it into
//     domain.Quote records.
//
//   - Image prompt derivation: asks the model to turn a quote into a
//     short visual scene description suitable for an image model.
//
//   - Image generation: calls the Imagen model and returns the result
//     as a base64 data URI.
//
// All API calls run through the retry package with exponential backoff.
// Errors are classified into the generation package's sentinel errors,
// preferring the structured code on genai.APIError over message
// inspection; only errors classified as transient are retried.
//
// Prompt templates are embedded in the binary (see prompts.go) so the
// client has no runtime file dependencies.
package gemini
