package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/store"
)

// TaskStore implements the store.TaskStore interface with a map keyed by
// sequential IDs. All access goes through mu, which also makes the
// suggestion write a single atomic replacement from readers' point of view.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	nextID int64
	now    func() time.Time
	logger *slog.Logger
}

// Compile-time check to ensure TaskStore implements store.TaskStore.
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty store whose first task gets ID 1.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	return &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
		now:    time.Now,
		logger: logger.With("component", "memory_task_store"),
	}
}

// WithClock replaces the time source used for UpdatedAt stamps.
func (s *TaskStore) WithClock(now func() time.Time) *TaskStore {
	s.now = now
	return s
}

// Create assigns the next ID and stores a copy of task.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, store.NewStoreError("task", "create", "invalid task",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	stored := task.Clone()
	stored.ID = s.nextID
	s.nextID++
	s.tasks[stored.ID] = stored
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).DebugContext(ctx, "task created", "task_id", stored.ID)
	return stored.Clone(), nil
}

// GetByID returns a copy of the task with id.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// List returns copies of all tasks matching filter, ordered by ID.
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.mu.RLock()
	result := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Matches(task) {
			result = append(result, task.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update applies update to the stored task.
func (s *TaskStore) Update(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if err := task.Apply(update, s.now()); err != nil {
		return nil, store.NewStoreError("task", "update", "update rejected", err)
	}
	return task.Clone(), nil
}

// SetSuggestion overwrites the task's suggestion. Last writer wins.
func (s *TaskStore) SetSuggestion(ctx context.Context, id int64, suggestion string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	task.AISuggestion = &suggestion
	return nil
}

// Delete removes the task with id.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
