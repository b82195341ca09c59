package task

import (
	"context"
	"log/slog"
	"sync"
)

// TaskProcessor handles one task pulled off the queue. The worker pool makes
// no assumptions about what processing means; the runner supplies a
// processor that drives status transitions around Execute.
type TaskProcessor func(ctx context.Context, task Task)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// process is invoked for every task a worker pulls off the queue
	process TaskProcessor

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx context.Context

	// cancel is the function to call to cancel the context
	cancel context.CancelFunc

	// logger for structured logging
	logger *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration.
// The process function must not be nil.
func NewWorkerPool(
	taskQueue TaskQueueReader,
	config WorkerPoolConfig,
	process TaskProcessor,
	logger *slog.Logger,
) *WorkerPool {
	if process == nil {
		panic("process cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		process:     process,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the worker goroutines. Each worker consumes tasks from the
// queue until the pool is stopped or the queue's channel is closed.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Debug("worker pool started", "worker_count", p.workerCount)
}

// Stop signals all workers to finish and waits for them to exit. Workers
// complete the task they are currently processing before stopping.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Debug("worker pool stopped")
}

// worker consumes tasks from the queue until shutdown
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-p.taskQueue.GetChannel():
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}

			p.safeProcess(task)
		}
	}
}

// safeProcess invokes the processor, keeping the worker alive if it panics
func (p *WorkerPool) safeProcess(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task processing panicked",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"panic", r)
		}
	}()

	p.process(p.ctx, task)
}
