package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/redact"
)

// Common errors
var (
	ErrNilRequestService = errors.New("request service cannot be nil")
	ErrNilGenerator      = errors.New("generator cannot be nil")
	ErrNilImageResolver  = errors.New("image resolver cannot be nil")
	ErrNilQuoteSaver     = errors.New("quote saver cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyRequestID    = errors.New("request ID cannot be empty")
)

// RequestService defines the generation request operations the task needs
type RequestService interface {
	// GetRequest retrieves a generation request by its ID
	GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error)

	// UpdateRequestStatus updates a request's status and error message
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, errorMessage string) error
}

// Generator defines the interface for quote generation services
type Generator interface {
	// GenerateQuotes creates quotes on the given theme
	GenerateQuotes(ctx context.Context, theme string, count int) ([]*domain.Quote, error)
}

// ImageResolver attaches an image to a quote, trying sources in order
// until one succeeds
type ImageResolver interface {
	Resolve(ctx context.Context, quote *domain.Quote) error
}

// QuoteSaver defines the interface for persisting generated quotes
type QuoteSaver interface {
	// SaveQuotes persists multiple quotes in a single transaction
	SaveQuotes(ctx context.Context, quotes []*domain.Quote) error
}

// quoteGenerationPayload represents the serialized data stored in the task
type quoteGenerationPayload struct {
	RequestID uuid.UUID `json:"request_id"`
}

// QuoteGenerationTask implements the Task interface for generating a batch
// of themed quotes with images
type QuoteGenerationTask struct {
	id        uuid.UUID
	requestID uuid.UUID
	requests  RequestService
	generator Generator
	images    ImageResolver
	saver     QuoteSaver
	logger    *slog.Logger
	status    TaskStatus
}

// NewQuoteGenerationTask creates a new quote generation task
func NewQuoteGenerationTask(
	requestID uuid.UUID,
	requests RequestService,
	generator Generator,
	images ImageResolver,
	saver QuoteSaver,
	logger *slog.Logger,
) (*QuoteGenerationTask, error) {
	// Validate dependencies
	if requests == nil {
		return nil, ErrNilRequestService
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if images == nil {
		return nil, ErrNilImageResolver
	}
	if saver == nil {
		return nil, ErrNilQuoteSaver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	// Validate request ID
	if requestID == uuid.Nil {
		return nil, ErrEmptyRequestID
	}

	return &QuoteGenerationTask{
		id:        uuid.New(),
		requestID: requestID,
		requests:  requests,
		generator: generator,
		images:    images,
		saver:     saver,
		logger:    logger.With("task_type", TaskTypeQuoteGeneration, "request_id", requestID),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *QuoteGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *QuoteGenerationTask) Type() string {
	return TaskTypeQuoteGeneration
}

// Payload returns the task data as a byte slice
func (t *QuoteGenerationTask) Payload() []byte {
	payload := quoteGenerationPayload{
		RequestID: t.requestID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// If marshal fails, return an empty payload with error logged
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *QuoteGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the quote generation task, handling the complete lifecycle
// from fetching the request, updating status, generating quotes, resolving
// an image for each one, saving the batch, and finalizing the request. It
// handles errors at each step and ensures appropriate status updates.
func (t *QuoteGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting quote generation task")

	// Check for context cancellation
	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Retrieve the generation request
	request, err := t.requests.GetRequest(ctx, t.requestID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve generation request", "error", err)
		return fmt.Errorf("failed to retrieve generation request: %w", err)
	}

	t.logger.Info("retrieved generation request",
		"user_id", request.UserID,
		"theme", request.Theme,
		"quote_count", request.Count,
		"request_status", request.Status)

	// 2. Update request status to processing
	err = t.requests.UpdateRequestStatus(ctx, t.requestID, domain.RequestStatusProcessing, "")
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to update request status to processing", "error", err)
		return fmt.Errorf("failed to update request status to processing: %w", err)
	}

	// 3. Generate quotes
	t.logger.Info("generating quotes for theme")
	quotes, err := t.generator.GenerateQuotes(ctx, request.Theme, request.Count)
	if err != nil {
		return t.fail(ctx, fmt.Errorf("failed to generate quotes: %w", err))
	}
	if len(quotes) == 0 {
		return t.fail(ctx, errors.New("generator returned no quotes"))
	}

	t.logger.Info("quotes generated", "count", len(quotes))

	// 4. Resolve an image for every quote concurrently. A request only
	// completes when each of its quotes carries an image.
	for _, quote := range quotes {
		quote.RequestID = uuid.NullUUID{UUID: t.requestID, Valid: true}
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for _, quote := range quotes {
		g.Go(func() error {
			if err := t.images.Resolve(groupCtx, quote); err != nil {
				return fmt.Errorf("failed to resolve image for quote %s: %w", quote.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return t.fail(ctx, err)
	}

	t.logger.Info("images resolved for all quotes", "count", len(quotes))

	// 5. Save the generated quotes in a single transaction
	err = t.saver.SaveQuotes(ctx, quotes)
	if err != nil {
		return t.fail(ctx, fmt.Errorf("failed to save generated quotes: %w", err))
	}
	t.logger.Info("saved generated quotes to database")

	// 6. Update request status to completed
	err = t.requests.UpdateRequestStatus(ctx, t.requestID, domain.RequestStatusCompleted, "")
	if err != nil {
		// Log the error but don't fail the task - the important work is done
		t.logger.Error("failed to update request final status, but quotes were generated and saved",
			"error", err,
			"quotes_generated", len(quotes))
	}

	t.status = TaskStatusCompleted
	t.logger.Info("quote generation task completed successfully", "quotes_generated", len(quotes))
	return nil
}

// fail records the failure on the generation request, marks the task
// failed, and returns the wrapped error. The stored message is redacted
// since provider errors can carry credentials or whole image payloads.
func (t *QuoteGenerationTask) fail(ctx context.Context, cause error) error {
	if err := t.requests.UpdateRequestStatus(ctx, t.requestID, domain.RequestStatusFailed, redact.Error(cause)); err != nil {
		t.logger.Error("failed to update request status to failed", "error", err)
	}
	t.status = TaskStatusFailed
	t.logger.Error("quote generation task failed", "error", cause)
	return cause
}
