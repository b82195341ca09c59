package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/sophia-api/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks
	// If zero, defaults to 5 minutes
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing. It persists every submitted
// task, feeds an in-memory queue consumed by a worker pool, requeues
// unfinished work on startup, and periodically resets tasks stuck in the
// processing state.
type TaskRunner struct {
	store      TaskStore
	queue      *TaskQueue
	pool       *WorkerPool
	factories  map[string]TaskFactory
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultTaskRunnerConfig().QueueSize
	}
	if config.StuckTaskAge <= 0 {
		config.StuckTaskAge = DefaultTaskRunnerConfig().StuckTaskAge
	}
	if config.StuckTaskCheckInterval <= 0 {
		config.StuckTaskCheckInterval = DefaultTaskRunnerConfig().StuckTaskCheckInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &TaskRunner{
		store:      store,
		queue:      NewTaskQueue(config.QueueSize, logger),
		factories:  make(map[string]TaskFactory),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			// Default error handler just logs the error
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}

	r.pool = NewWorkerPool(
		r.queue,
		WorkerPoolConfig{WorkerCount: config.WorkerCount},
		r.processTask,
		logger,
	)

	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// RegisterFactory registers a factory used to rebuild recovered tasks of its
// type. Recovered rows whose type has no registered factory are marked
// failed rather than requeued.
func (r *TaskRunner) RegisterFactory(factory TaskFactory) {
	r.factories[factory.TaskType()] = factory
}

// Submit persists a new task and adds it to the queue
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	// Save task to database first so it survives a crash before execution
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// Start recovers unfinished tasks and begins processing
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	r.pool.Start()

	// Periodically reset tasks stuck in the processing state
	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner. In-flight tasks finish before
// their workers exit.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.pool.Stop()
	r.wg.Wait()
	r.queue.Close()
}

// Recover loads any unfinished tasks from the database and requeues them.
// Tasks found in the processing state were interrupted by a previous crash;
// they are reset to pending before requeuing.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pendingTasks, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	// Age zero fetches every processing task regardless of how recently it
	// was touched
	processingTasks, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pendingTasks),
		"processing_count", len(processingTasks))

	for _, t := range pendingTasks {
		r.requeueRecovered(ctx, t)
	}

	for _, t := range processingTasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}

		r.requeueRecovered(ctx, t)
	}

	return nil
}

// requeueRecovered rebuilds a recovered row into an executable task and
// enqueues it. Rows with no registered factory are marked failed.
func (r *TaskRunner) requeueRecovered(ctx context.Context, t Task) {
	rebuilt, err := r.rebuild(t)
	if err != nil {
		r.logger.Error("failed to rebuild recovered task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, redact.Error(err)); updateErr != nil {
			r.logger.Error("failed to mark unrecoverable task as failed",
				"task_id", t.ID(),
				"error", updateErr)
		}
		return
	}

	if err := r.queue.Enqueue(rebuilt); err != nil {
		r.logger.Error("failed to requeue recovered task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	}
}

// rebuild turns a recovered row into an executable task via the factory
// registered for its type, preserving the original task ID.
func (r *TaskRunner) rebuild(t Task) (Task, error) {
	factory, ok := r.factories[t.Type()]
	if !ok {
		return nil, fmt.Errorf("no factory registered for task type %q", t.Type())
	}

	rebuilt, err := factory.CreateFromPayload(t.ID(), t.Payload())
	if err != nil {
		return nil, fmt.Errorf("factory failed to rebuild task: %w", err)
	}

	return rebuilt, nil
}

// processTask handles execution of a single task, driving the persisted
// status through processing to completed or failed.
func (r *TaskRunner) processTask(_ context.Context, task Task) {
	// Execution continues through shutdown; the pool only stops workers
	// between tasks
	ctx := context.Background()
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
	)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		logger.Error("failed to update task status to processing", "error", err)
		return
	}

	logger.Info("processing task")

	err := r.executeTask(ctx, task)

	if err != nil {
		logger.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, redact.Error(err)); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}

		r.errHandler(task, err)
		return
	}

	logger.Info("task completed successfully")
	if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); updateErr != nil {
		logger.Error("failed to update task status to completed", "error", updateErr)
	}
}

// executeTask runs the task, converting a panic into an error so a bad task
// cannot take down the worker
func (r *TaskRunner) executeTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()

	return task.Execute(ctx)
}

// stuckTaskMonitor periodically checks for tasks that have been in the
// processing state for too long and resets them
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuckTasks, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", "error", err)
				continue
			}

			if len(stuckTasks) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", "count", len(stuckTasks))

			for _, t := range stuckTasks {
				if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task status",
						"task_id", t.ID(),
						"task_type", t.Type(),
						"error", err)
					continue
				}

				r.requeueRecovered(ctx, t)
			}
		}
	}
}
