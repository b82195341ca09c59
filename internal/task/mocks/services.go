// Package mocks provides mock implementations for testing task components.
package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/sophia-api/internal/domain"
)

// RequestService is a mock implementation of task.RequestService
type RequestService struct {
	GetRequestFn          func(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error)
	UpdateRequestStatusFn func(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, errorMessage string) error
}

// GetRequest implements task.RequestService
func (m *RequestService) GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error) {
	if m.GetRequestFn != nil {
		return m.GetRequestFn(ctx, requestID)
	}
	return nil, nil
}

// UpdateRequestStatus implements task.RequestService
func (m *RequestService) UpdateRequestStatus(
	ctx context.Context,
	requestID uuid.UUID,
	status domain.RequestStatus,
	errorMessage string,
) error {
	if m.UpdateRequestStatusFn != nil {
		return m.UpdateRequestStatusFn(ctx, requestID, status, errorMessage)
	}
	return nil
}

// Generator is a simple implementation of the Generator interface.
type Generator struct {
	GenerateQuotesFunc func(ctx context.Context, theme string, count int) ([]*domain.Quote, error)
}

// GenerateQuotes creates quotes on the given theme.
func (m *Generator) GenerateQuotes(ctx context.Context, theme string, count int) ([]*domain.Quote, error) {
	if m.GenerateQuotesFunc != nil {
		return m.GenerateQuotesFunc(ctx, theme, count)
	}
	return nil, nil
}

// ImageResolver is a simple implementation of the ImageResolver interface.
type ImageResolver struct {
	ResolveFunc func(ctx context.Context, quote *domain.Quote) error
}

// Resolve attaches an image to the quote.
func (m *ImageResolver) Resolve(ctx context.Context, quote *domain.Quote) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, quote)
	}
	return nil
}

// QuoteSaver is a simple implementation of the QuoteSaver interface.
type QuoteSaver struct {
	SaveQuotesFunc func(ctx context.Context, quotes []*domain.Quote) error
}

// SaveQuotes persists multiple quotes.
func (m *QuoteSaver) SaveQuotes(ctx context.Context, quotes []*domain.Quote) error {
	if m.SaveQuotesFunc != nil {
		return m.SaveQuotesFunc(ctx, quotes)
	}
	return nil
}
