package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Favorite
var (
	ErrEmptyFavoriteID     = errors.New("favorite ID cannot be empty")
	ErrEmptyFavoriteUserID = errors.New("favorite user ID cannot be empty")
	ErrEmptyFavoriteText   = errors.New("favorite quote text cannot be empty")
)

// Favorite is a user's saved copy of a quote. It stores the quote's text,
// author, and image URL as they were at the moment of saving rather than a
// reference to the original quote, so later regenerations never alter a
// saved favorite. Favorites are keyed by exact quote text per user.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	QuoteText string    `json:"quote"`
	Author    string    `json:"author"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFavorite creates a Favorite from the given quote fields, copying them
// rather than referencing a stored quote. It generates a new UUID for the
// favorite ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewFavorite(userID uuid.UUID, quoteText, author, imageURL string) (*Favorite, error) {
	favorite := &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		QuoteText: strings.TrimSpace(quoteText),
		Author:    strings.TrimSpace(author),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := favorite.Validate(); err != nil {
		return nil, err
	}

	return favorite, nil
}

// Validate checks if the Favorite has valid data.
// Returns an error if any field fails validation.
func (f *Favorite) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFavoriteID
	}

	if f.UserID == uuid.Nil {
		return ErrEmptyFavoriteUserID
	}

	if f.QuoteText == "" {
		return ErrEmptyFavoriteText
	}

	return nil
}
