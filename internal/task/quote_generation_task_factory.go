package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrEmptyTaskID is returned when rebuilding a task without an identifier
var ErrEmptyTaskID = errors.New("task ID cannot be empty")

// QuoteGenerationTaskFactory creates QuoteGenerationTask instances
type QuoteGenerationTaskFactory struct {
	requests  RequestService
	generator Generator
	images    ImageResolver
	saver     QuoteSaver
	logger    *slog.Logger
}

// Compile-time check that the factory can rebuild recovered tasks
var _ TaskFactory = (*QuoteGenerationTaskFactory)(nil)

// NewQuoteGenerationTaskFactory creates a new factory for QuoteGenerationTasks
func NewQuoteGenerationTaskFactory(
	requests RequestService,
	generator Generator,
	images ImageResolver,
	saver QuoteSaver,
	logger *slog.Logger,
) *QuoteGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteGenerationTaskFactory{
		requests:  requests,
		generator: generator,
		images:    images,
		saver:     saver,
		logger:    logger.With("component", "quote_generation_task_factory"),
	}
}

// CreateTask creates a new QuoteGenerationTask for the specified request
func (f *QuoteGenerationTaskFactory) CreateTask(requestID uuid.UUID) (Task, error) {
	task, err := NewQuoteGenerationTask(
		requestID,
		f.requests,
		f.generator,
		f.images,
		f.saver,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// TaskType returns the task type this factory rebuilds
func (f *QuoteGenerationTaskFactory) TaskType() string {
	return TaskTypeQuoteGeneration
}

// CreateFromPayload rebuilds a recovered task from its persisted payload,
// preserving the original task ID so status updates land on the same row
func (f *QuoteGenerationTaskFactory) CreateFromPayload(id uuid.UUID, payload []byte) (Task, error) {
	if id == uuid.Nil {
		return nil, ErrEmptyTaskID
	}

	var data quoteGenerationPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	task, err := NewQuoteGenerationTask(
		data.RequestID,
		f.requests,
		f.generator,
		f.images,
		f.saver,
		f.logger,
	)
	if err != nil {
		return nil, err
	}

	task.id = id
	return task, nil
}
