package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/events"
	"github.com/phrazzld/sophia-api/internal/store"
	"github.com/phrazzld/sophia-api/internal/task"
)

// QuoteService provides quote and generation request operations. It is also
// the persistence seam for the background generation task, which reaches
// requests and quotes exclusively through this service.
type QuoteService interface {
	// RequestGeneration creates a pending generation request for the given
	// theme and emits the event that schedules its background processing.
	// A count of zero selects the default batch size.
	RequestGeneration(ctx context.Context, userID uuid.UUID, theme string, count int) (*domain.GenerationRequest, error)

	// GetRequestForUser retrieves a generation request on behalf of a user.
	// Returns ErrNotOwned when the request belongs to a different user.
	GetRequestForUser(ctx context.Context, requestID, userID uuid.UUID) (*domain.GenerationRequest, error)

	// GetRequest retrieves a generation request by its ID.
	GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error)

	// UpdateRequestStatus transitions a generation request to the given
	// status. The error message accompanies failed statuses and should be
	// empty otherwise.
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, errorMessage string) error

	// ListQuotesByRequest retrieves the quotes produced by a generation
	// request, ordered by creation time.
	ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]*domain.Quote, error)

	// GetQuote retrieves a quote by its ID.
	GetQuote(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error)

	// SaveQuotes persists a batch of quotes atomically.
	SaveQuotes(ctx context.Context, quotes []*domain.Quote) error
}

// Common sentinel errors for QuoteService
var (
	// ErrRequestNotFound indicates that the generation request does not exist
	ErrRequestNotFound = errors.New("generation request not found")

	// ErrQuoteNotFound indicates that the quote does not exist
	ErrQuoteNotFound = errors.New("quote not found")
)

// QuoteServiceError wraps errors from the quote service with context.
type QuoteServiceError struct {
	// Operation is the operation that failed (e.g., "request_generation")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for QuoteServiceError.
func (e *QuoteServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("quote service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *QuoteServiceError) Unwrap() error {
	return e.Err
}

// NewQuoteServiceError creates a new QuoteServiceError.
// It returns known sentinel errors directly without wrapping.
func NewQuoteServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Service-defined sentinels pass through untouched
	if errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrQuoteNotFound) ||
		errors.Is(err, ErrNotOwned) {
		return err
	}

	// Map store-level sentinels to service-level ones
	if errors.Is(err, store.ErrRequestNotFound) {
		return ErrRequestNotFound
	}
	if errors.Is(err, store.ErrQuoteNotFound) {
		return ErrQuoteNotFound
	}

	return &QuoteServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// quoteServiceImpl implements the QuoteService interface
type quoteServiceImpl struct {
	requestStore store.GenerationRequestStore
	quoteStore   store.QuoteStore
	db           *sql.DB
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// The background generation task depends on these seams.
var (
	_ task.RequestService = (*quoteServiceImpl)(nil)
	_ task.QuoteSaver     = (*quoteServiceImpl)(nil)
)

// NewQuoteService creates a new QuoteService.
// It returns an error if any of the required dependencies are nil.
func NewQuoteService(
	requestStore store.GenerationRequestStore,
	quoteStore store.QuoteStore,
	db *sql.DB,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (QuoteService, error) {
	if requestStore == nil {
		return nil, &QuoteServiceError{
			Operation: "create_service",
			Message:   "requestStore cannot be nil",
		}
	}
	if quoteStore == nil {
		return nil, &QuoteServiceError{
			Operation: "create_service",
			Message:   "quoteStore cannot be nil",
		}
	}
	if db == nil {
		return nil, &QuoteServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &QuoteServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &quoteServiceImpl{
		requestStore: requestStore,
		quoteStore:   quoteStore,
		db:           db,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "quote_service"),
	}, nil
}

// RequestGeneration creates a pending generation request and emits a task
// request event for it. The request row commits before the event is emitted,
// so a handler can always load it.
func (s *quoteServiceImpl) RequestGeneration(
	ctx context.Context,
	userID uuid.UUID,
	theme string,
	count int,
) (*domain.GenerationRequest, error) {
	request, err := domain.NewGenerationRequest(userID, theme, count)
	if err != nil {
		s.logger.Debug("failed to create generation request object",
			"error", err,
			"user_id", userID,
			"theme", theme)
		return nil, NewQuoteServiceError("request_generation", "invalid generation request", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.requestStore.WithTx(tx)
		if err := txStore.Create(ctx, request); err != nil {
			s.logger.Error("failed to create generation request in transaction",
				"error", err,
				"user_id", userID,
				"request_id", request.ID)
			return NewQuoteServiceError("request_generation", "failed to save generation request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("generation request created with pending status",
		"request_id", request.ID,
		"user_id", userID,
		"theme", request.Theme,
		"count", request.Count)

	payload := struct {
		RequestID uuid.UUID `json:"request_id"`
	}{
		RequestID: request.ID,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeQuoteGeneration, payload)
	if err != nil {
		s.logger.Error("failed to create quote generation event",
			"error", err,
			"request_id", request.ID)
		return nil, NewQuoteServiceError("request_generation", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit quote generation event",
			"error", err,
			"request_id", request.ID,
			"event_id", event.ID)
		return nil, NewQuoteServiceError("request_generation", "failed to emit event", err)
	}

	s.logger.Info("quote generation event emitted",
		"request_id", request.ID,
		"event_id", event.ID)

	return request, nil
}

// GetRequestForUser retrieves a generation request and verifies ownership.
func (s *quoteServiceImpl) GetRequestForUser(
	ctx context.Context,
	requestID, userID uuid.UUID,
) (*domain.GenerationRequest, error) {
	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.UserID != userID {
		s.logger.Warn("user attempted to access another user's generation request",
			"request_id", requestID,
			"owner_id", request.UserID,
			"user_id", userID)
		return nil, ErrNotOwned
	}

	return request, nil
}

// GetRequest retrieves a generation request by its ID.
func (s *quoteServiceImpl) GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error) {
	request, err := s.requestStore.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			s.logger.Debug("generation request not found",
				"request_id", requestID)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("failed to retrieve generation request",
			"error", err,
			"request_id", requestID)
		return nil, NewQuoteServiceError("get_request", "failed to retrieve generation request", err)
	}

	return request, nil
}

// UpdateRequestStatus transitions a generation request to the given status.
// Uses a transaction to ensure atomicity of the operation.
func (s *quoteServiceImpl) UpdateRequestStatus(
	ctx context.Context,
	requestID uuid.UUID,
	status domain.RequestStatus,
	errorMessage string,
) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.requestStore.WithTx(tx)
		return txStore.UpdateStatus(ctx, requestID, status, errorMessage)
	})
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			s.logger.Debug("generation request not found for status update",
				"request_id", requestID,
				"target_status", status)
			return ErrRequestNotFound
		}
		s.logger.Error("failed to update generation request status",
			"error", err,
			"request_id", requestID,
			"target_status", status)
		return NewQuoteServiceError(
			"update_request_status",
			fmt.Sprintf("failed to update request status to %s", status),
			err,
		)
	}

	s.logger.Info("generation request status updated",
		"request_id", requestID,
		"status", status)

	return nil
}

// ListQuotesByRequest retrieves the quotes produced by a generation request.
func (s *quoteServiceImpl) ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]*domain.Quote, error) {
	quotes, err := s.quoteStore.ListByRequestID(ctx, requestID)
	if err != nil {
		s.logger.Error("failed to list quotes for generation request",
			"error", err,
			"request_id", requestID)
		return nil, NewQuoteServiceError("list_quotes", "failed to list quotes", err)
	}

	return quotes, nil
}

// GetQuote retrieves a quote by its ID.
func (s *quoteServiceImpl) GetQuote(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteStore.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, store.ErrQuoteNotFound) {
			s.logger.Debug("quote not found",
				"quote_id", quoteID)
			return nil, ErrQuoteNotFound
		}
		s.logger.Error("failed to retrieve quote",
			"error", err,
			"quote_id", quoteID)
		return nil, NewQuoteServiceError("get_quote", "failed to retrieve quote", err)
	}

	return quote, nil
}

// SaveQuotes persists a batch of quotes in a single transaction.
func (s *quoteServiceImpl) SaveQuotes(ctx context.Context, quotes []*domain.Quote) error {
	if len(quotes) == 0 {
		s.logger.Debug("no quotes to save")
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.quoteStore.WithTx(tx)
		return txStore.CreateBatch(ctx, quotes)
	})
	if err != nil {
		s.logger.Error("failed to save quotes in transaction",
			"error", err,
			"quote_count", len(quotes))
		return NewQuoteServiceError("save_quotes", "failed to save quotes", err)
	}

	s.logger.Info("quotes saved",
		"quote_count", len(quotes))

	return nil
}
