package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	queue   *TaskQueue
	pool    *WorkerPool
	config  TaskRunnerConfig
	logger  *slog.Logger
	started bool
	mu      sync.Mutex
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	logger = logger.With("component", "task_runner")
	queue := NewTaskQueue(config.QueueSize, logger)

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &TaskRunner{
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
}

// SetErrorHandler allows setting a custom error handler function.
// It must be called before Start.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit adds a new task to the queue. It never blocks: ErrQueueFull is
// returned when the buffer is exhausted and ErrQueueClosed after Stop.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Start begins processing tasks. Calling it more than once is an error.
func (r *TaskRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("task runner already started")
	}
	r.started = true
	r.pool.Start()
	return nil
}

// Stop closes the queue and waits for workers to drain it. If ctx expires
// first, in-flight tasks are cancelled and ctx's error is returned.
func (r *TaskRunner) Stop(ctx context.Context) error {
	r.queue.Close()

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		r.pool.cancel()
		return nil
	}

	if err := r.pool.Wait(ctx); err != nil {
		return fmt.Errorf("task runner stop: %w", err)
	}
	r.logger.Info("task runner stopped")
	return nil
}

// QueueLen returns the number of tasks waiting to be processed
func (r *TaskRunner) QueueLen() int {
	return r.queue.Len()
}
