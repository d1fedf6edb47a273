package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/events"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/redact"
	"github.com/phrazzld/tasksage-api/internal/store"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
)

// SuggestionResolver produces a suggestion for a task snapshot
type SuggestionResolver interface {
	Resolve(ctx context.Context, task domain.TaskSnapshot, directive suggestion.Directive) (string, error)
}

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask validates and stores a new task, then schedules its
	// suggestion in the background. It never waits for the suggestion.
	CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)

	// ListTasks returns the tasks matching filter in ID order
	ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// GetTask retrieves a task by its ID
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask applies a partial update to a task
	UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task
	DeleteTask(ctx context.Context, id int64) error

	// GetSummary aggregates counts over all tasks
	GetSummary(ctx context.Context) (domain.TaskSummary, error)

	// GetSuggestion returns the task's stored suggestion, resolving and
	// storing a new one when none exists yet or directive is set
	GetSuggestion(ctx context.Context, id int64, directive suggestion.Directive) (string, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks        store.TaskStore
	resolver     SuggestionResolver
	eventEmitter events.EventEmitter
	logger       *slog.Logger
	now          func() time.Time
}

// Option customizes a TaskService.
type Option func(*taskServiceImpl)

// WithClock overrides the clock used for validation and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	resolver SuggestionResolver,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if resolver == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "resolver cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:        tasks,
		resolver:     resolver,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "task_service"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// CreateTask stores the task and emits a task.created event. A failed emit
// is logged but does not fail the request: the suggestion is then resolved
// on first read.
func (s *taskServiceImpl) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	log := s.log(ctx)

	task, err := domain.NewTask(params, s.now())
	if err != nil {
		log.DebugContext(ctx, "rejected invalid task", "error", err)
		return nil, err
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		log.ErrorContext(ctx, "failed to save task", "error", redact.Error(err))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.InfoContext(ctx, "task created", "todo_id", created.ID, "priority", created.Priority)

	event, err := events.NewTaskCreatedEvent(created.ID)
	if err != nil {
		log.ErrorContext(ctx, "failed to create task event", "error", err, "todo_id", created.ID)
		return created, nil
	}
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "suggestion not scheduled, it will be resolved on read",
			"todo_id", created.ID,
			"event_id", event.ID,
			"error", redact.Error(err))
	}

	return created, nil
}

// ListTasks returns the tasks matching filter
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to a task
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.log(ctx).InfoContext(ctx, "task updated", "todo_id", id)
	return task, nil
}

// DeleteTask removes a task
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.log(ctx).InfoContext(ctx, "task deleted", "todo_id", id)
	return nil
}

// GetSummary aggregates counts over all tasks
func (s *taskServiceImpl) GetSummary(ctx context.Context) (domain.TaskSummary, error) {
	tasks, err := s.tasks.List(ctx, store.TaskFilter{})
	if err != nil {
		return domain.TaskSummary{}, NewTaskServiceError("get_summary", "failed to list tasks", err)
	}
	return domain.Summarize(tasks, s.now()), nil
}

// GetSuggestion returns the stored suggestion or resolves a new one. A
// concurrent background resolution may overwrite the result later; the last
// write wins.
func (s *taskServiceImpl) GetSuggestion(
	ctx context.Context,
	id int64,
	directive suggestion.Directive,
) (string, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return "", NewTaskServiceError("get_suggestion", "failed to retrieve task", err)
	}

	if !directive.IsSet() && task.AISuggestion != nil && *task.AISuggestion != "" {
		return *task.AISuggestion, nil
	}

	text, err := s.resolver.Resolve(ctx, task.Snapshot(), directive)
	if err != nil {
		return "", NewTaskServiceError("get_suggestion", "failed to resolve suggestion", err)
	}

	if err := s.tasks.SetSuggestion(ctx, id, text); err != nil {
		return "", NewTaskServiceError("get_suggestion", "failed to store suggestion", err)
	}

	s.log(ctx).InfoContext(ctx, "suggestion refreshed",
		"todo_id", id,
		"directive", string(directive))
	return text, nil
}
