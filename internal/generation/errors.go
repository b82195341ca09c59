package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when quote generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate quotes for theme")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors (service overloaded or
	// unavailable) that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrQuotaExhausted is returned when the API rejects the request because the
	// account's rate or usage quota is spent
	ErrQuotaExhausted = errors.New("generation quota exhausted")

	// ErrMissingCredential is returned when the API credential is absent or rejected
	ErrMissingCredential = errors.New("missing or invalid API credential")

	// ErrNoImage is returned when the image API answers successfully but yields no image
	ErrNoImage = errors.New("no image in generation response")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
