package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/tasksage-api/internal/domain"
)

// Submitter accepts jobs for background execution
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// RetryConfig configures how long a dispatch keeps retrying in the
// background while the queue is full.
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig returns the default enqueue retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		MaxElapsedTime:  500 * time.Millisecond,
	}
}

// Dispatcher schedules suggestion resolution for newly created tasks
type Dispatcher struct {
	runner   Submitter
	resolver Resolver
	store    SuggestionStore
	logger   *slog.Logger

	retryConfig RetryConfig
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(
	runner Submitter,
	resolver Resolver,
	store SuggestionStore,
	retry RetryConfig,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Dispatcher{
		runner:   runner,
		resolver: resolver,
		store:    store,
		logger:   logger.With("component", "suggestion_dispatcher"),

		retryConfig: retry,
	}, nil
}

// Dispatch enqueues a suggestion job for task and returns without waiting
// for it to run. When the queue is full the job is handed to a background
// retry loop with exponential backoff, so the caller never blocks on queue
// capacity. A closed queue fails immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, task *domain.Task) error {
	job, err := NewSuggestionTask(task.Snapshot(), d.resolver, d.store, d.logger)
	if err != nil {
		return fmt.Errorf("failed to create suggestion job: %w", err)
	}

	err = d.runner.Submit(ctx, job)
	switch {
	case err == nil:
		d.logger.DebugContext(ctx, "suggestion job dispatched",
			"todo_id", task.ID,
			"job_id", job.ID())
		return nil
	case errors.Is(err, ErrQueueFull):
		d.logger.InfoContext(ctx, "task queue full, retrying dispatch in background",
			"todo_id", task.ID,
			"job_id", job.ID())
		d.wg.Add(1)
		go d.retry(context.WithoutCancel(ctx), task.ID, job)
		return nil
	default:
		d.logger.WarnContext(ctx, "failed to dispatch suggestion job",
			"todo_id", task.ID,
			"error", err)
		return fmt.Errorf("failed to dispatch suggestion job: %w", err)
	}
}

// retry resubmits job until it is accepted, the queue closes, or the
// retry budget runs out. The task keeps a null suggestion on failure and
// is resolved on its next read.
func (d *Dispatcher) retry(ctx context.Context, taskID int64, job Task) {
	defer d.wg.Done()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.retryConfig.InitialInterval
	policy.MaxInterval = d.retryConfig.MaxInterval
	policy.MaxElapsedTime = d.retryConfig.MaxElapsedTime

	attempts := 0
	operation := func() error {
		attempts++
		err := d.runner.Submit(ctx, job)
		if err == nil || errors.Is(err, ErrQueueFull) {
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		d.logger.WarnContext(ctx, "gave up dispatching suggestion job",
			"todo_id", taskID,
			"attempts", attempts,
			"error", err)
		return
	}

	d.logger.DebugContext(ctx, "suggestion job dispatched after retry",
		"todo_id", taskID,
		"job_id", job.ID(),
		"attempts", attempts)
}

// Wait blocks until every background retry has finished or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
