package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/sophia-api/internal/events"
)

// TaskCreator builds a runnable task for a generation request
type TaskCreator interface {
	CreateTask(requestID uuid.UUID) (Task, error)
}

// TaskSubmitter persists a task and hands it to the workers
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface
// to handle task creation events and delegate them to the task factory.
type TaskFactoryEventHandler struct {
	taskFactory TaskCreator
	taskRunner  TaskSubmitter
	logger      *slog.Logger
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a new event handler that uses the given
// task factory to create tasks, and submits them to the provided task runner.
func NewTaskFactoryEventHandler(
	taskFactory TaskCreator,
	taskRunner TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes events by creating and submitting tasks.
// It extracts the payload from the event, creates the appropriate task,
// and submits it to the runner for execution.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeQuoteGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	// Extract the request ID from the event payload
	var payload struct {
		RequestID string `json:"request_id"`
	}

	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	requestID, err := uuid.Parse(payload.RequestID)
	if err != nil {
		h.logger.Error("invalid request ID",
			"error", err,
			"request_id", payload.RequestID,
			"event_id", event.ID)
		return fmt.Errorf("invalid request ID: %w", err)
	}

	h.logger.Debug("creating task for generation request",
		"request_id", requestID,
		"event_id", event.ID)
	task, err := h.taskFactory.CreateTask(requestID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"request_id", requestID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.taskRunner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"request_id", requestID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted successfully",
		"task_id", task.ID(),
		"request_id", requestID,
		"event_id", event.ID)
	return nil
}
