// Package generation provides interfaces and error types for interacting
// with external AI/LLM services for content generation. It abstracts the
// details of LLM API integration (Gemini), allowing the application to
// generate themed quotes, image prompts, and background images without
// coupling to specific external services.
package generation
