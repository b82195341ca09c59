package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageSource identifies which entry of the image fallback chain produced
// a quote's image.
type ImageSource string

// Possible image source values. An empty source means no image has been
// attached yet.
const (
	ImageSourceGenerated ImageSource = "generated"
	ImageSourceStock     ImageSource = "stock"
	ImageSourceFallback  ImageSource = "fallback"
)

// Quote-specific validation errors
var (
	// ErrEmptyQuoteID is returned when a quote ID is empty or nil.
	ErrEmptyQuoteID = errors.New("quote ID cannot be empty")

	// ErrEmptyQuoteText is returned when a quote's text is empty.
	ErrEmptyQuoteText = errors.New("quote text cannot be empty")

	// ErrEmptyQuoteAuthor is returned when a quote's author is empty.
	ErrEmptyQuoteAuthor = errors.New("quote author cannot be empty")

	// ErrInvalidImageSource is returned when an image source is not one of
	// the known chain entries.
	ErrInvalidImageSource = errors.New("invalid image source")

	// ErrImageAlreadyAttached is returned when attaching an image to a quote
	// that already carries one. A quote's image is attached exactly once and
	// is immutable afterward.
	ErrImageAlreadyAttached = errors.New("quote image already attached")

	// ErrEmptyImageURL is returned when attaching an empty image URL.
	ErrEmptyImageURL = errors.New("image URL cannot be empty")
)

// Quote represents a single AI-generated quotation. It is created by the
// text-generation client with an empty ImageURL; the image resolution chain
// attaches a URL (data URI or external) exactly once.
type Quote struct {
	ID          uuid.UUID     `json:"id"`
	Text        string        `json:"quote"`
	Author      string        `json:"author"`
	Theme       string        `json:"theme,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	ImageSource ImageSource   `json:"image_source,omitempty"`
	RequestID   uuid.NullUUID `json:"request_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewQuote creates a new Quote with the given text, author, and theme.
// It generates a new UUID for the quote ID and leaves the image fields
// empty for the resolution chain to fill in.
// Returns an error if validation fails.
func NewQuote(text, author, theme string) (*Quote, error) {
	quote := &Quote{
		ID:        uuid.New(),
		Text:      strings.TrimSpace(text),
		Author:    strings.TrimSpace(author),
		Theme:     strings.TrimSpace(theme),
		CreatedAt: time.Now().UTC(),
	}

	if err := quote.Validate(); err != nil {
		return nil, err
	}

	return quote, nil
}

// Validate checks if the Quote has valid data.
// Returns an error if any field fails validation.
func (q *Quote) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQuoteID
	}

	if q.Text == "" {
		return ErrEmptyQuoteText
	}

	if q.Author == "" {
		return ErrEmptyQuoteAuthor
	}

	if q.ImageSource != "" && !isValidImageSource(q.ImageSource) {
		return ErrInvalidImageSource
	}

	return nil
}

// AttachImage sets the quote's image URL and source. A quote's image is
// attached exactly once; attaching to a quote that already has an image
// returns ErrImageAlreadyAttached.
func (q *Quote) AttachImage(url string, source ImageSource) error {
	if q.ImageURL != "" {
		return ErrImageAlreadyAttached
	}

	if url == "" {
		return ErrEmptyImageURL
	}

	if !isValidImageSource(source) {
		return ErrInvalidImageSource
	}

	q.ImageURL = url
	q.ImageSource = source
	return nil
}

// isValidImageSource checks if the given source is a known chain entry.
func isValidImageSource(source ImageSource) bool {
	switch source {
	case ImageSourceGenerated, ImageSourceStock, ImageSourceFallback:
		return true
	default:
		return false
	}
}
