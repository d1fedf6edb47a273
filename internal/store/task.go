package store

import (
	"context"

	"github.com/phrazzld/tasksage-api/internal/domain"
)

// TaskFilter narrows a task listing. Zero-valued fields match everything.
type TaskFilter struct {
	Status   domain.TaskStatus
	Priority domain.Priority
}

// Matches reports whether task satisfies the filter.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	return true
}

// TaskStore defines the interface for task data persistence.
// Implementations return copies, so callers may freely mutate what they get back.
// Version: 1.0
type TaskStore interface {
	// Create assigns the next sequential ID to task and saves it.
	// Returns ErrInvalidEntity wrapping the validation error if task is invalid.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns the tasks matching filter in ID order.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update applies a partial update to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)

	// SetSuggestion replaces the task's AI suggestion in a single assignment.
	// Returns ErrTaskNotFound if the task was deleted in the meantime.
	SetSuggestion(ctx context.Context, id int64, suggestion string) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}
