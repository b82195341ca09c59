package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the processing state of a generation request.
type RequestStatus string

// Possible generation request status values
const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusFailed     RequestStatus = "failed"
)

// Bounds on how many quotes a single request may ask for.
const (
	MinQuoteCount     = 1
	MaxQuoteCount     = 10
	DefaultQuoteCount = 5
)

// Common validation errors for GenerationRequest
var (
	ErrEmptyRequestID       = errors.New("generation request ID cannot be empty")
	ErrEmptyRequestUserID   = errors.New("generation request user ID cannot be empty")
	ErrEmptyTheme           = errors.New("theme cannot be empty")
	ErrInvalidQuoteCount    = errors.New("quote count out of range")
	ErrInvalidRequestStatus = errors.New("invalid generation request status")
)

// GenerationRequest represents a user's themed batch request for quotes.
// It tracks the requested theme and count together with the processing
// state of the background pipeline.
type GenerationRequest struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Theme        string        `json:"theme"`
	Count        int           `json:"count"`
	Status       RequestStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewGenerationRequest creates a new GenerationRequest with the given user
// ID, theme, and count. A count of zero selects DefaultQuoteCount. It
// generates a new UUID for the request ID, sets the status to pending, and
// sets the creation/update timestamps.
// Returns an error if validation fails.
func NewGenerationRequest(userID uuid.UUID, theme string, count int) (*GenerationRequest, error) {
	if count == 0 {
		count = DefaultQuoteCount
	}

	request := &GenerationRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Theme:     strings.TrimSpace(theme),
		Count:     count,
		Status:    RequestStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

// Validate checks if the GenerationRequest has valid data.
// Returns an error if any field fails validation.
func (r *GenerationRequest) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRequestID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyRequestUserID
	}

	if r.Theme == "" {
		return ErrEmptyTheme
	}

	if r.Count < MinQuoteCount || r.Count > MaxQuoteCount {
		return ErrInvalidQuoteCount
	}

	if !r.Status.IsValid() {
		return ErrInvalidRequestStatus
	}

	return nil
}

// UpdateStatus updates the request's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (r *GenerationRequest) UpdateStatus(status RequestStatus) error {
	if !status.IsValid() {
		return ErrInvalidRequestStatus
	}

	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// IsValid reports whether the status is one of the recognized
// RequestStatus values.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessing,
		RequestStatusCompleted, RequestStatusFailed:
		return true
	default:
		return false
	}
}
