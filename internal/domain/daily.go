package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for DailyQuote
var (
	ErrEmptyDailyDate    = errors.New("daily quote date cannot be empty")
	ErrEmptyDailyQuoteID = errors.New("daily quote ID cannot be empty")
)

// DailyQuote pins a quote to a single UTC calendar date. Every caller asking
// for the quote of the day on that date receives the same quote.
type DailyQuote struct {
	Date      string    `json:"date"`
	QuoteID   uuid.UUID `json:"quote_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyDateFormat is the layout used for DailyQuote.Date values.
const DailyDateFormat = "2006-01-02"

// NewDailyQuote creates a DailyQuote pinning the given quote to the given
// moment's UTC calendar date.
// Returns an error if validation fails.
func NewDailyQuote(now time.Time, quoteID uuid.UUID) (*DailyQuote, error) {
	daily := &DailyQuote{
		Date:      now.UTC().Format(DailyDateFormat),
		QuoteID:   quoteID,
		CreatedAt: time.Now().UTC(),
	}

	if err := daily.Validate(); err != nil {
		return nil, err
	}

	return daily, nil
}

// Validate checks if the DailyQuote has valid data.
// Returns an error if any field fails validation.
func (d *DailyQuote) Validate() error {
	if d.Date == "" {
		return ErrEmptyDailyDate
	}

	if _, err := time.Parse(DailyDateFormat, d.Date); err != nil {
		return ErrEmptyDailyDate
	}

	if d.QuoteID == uuid.Nil {
		return ErrEmptyDailyQuoteID
	}

	return nil
}
