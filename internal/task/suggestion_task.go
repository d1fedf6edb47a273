package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/store"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
)

// Common errors
var (
	ErrNilResolver = errors.New("resolver cannot be nil")
	ErrNilStore    = errors.New("suggestion store cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
	ErrEmptyTaskID = errors.New("task ID cannot be empty")
)

// Resolver produces a suggestion for a task snapshot
type Resolver interface {
	Resolve(ctx context.Context, task domain.TaskSnapshot, directive suggestion.Directive) (string, error)
}

// SuggestionStore persists resolved suggestions
type SuggestionStore interface {
	SetSuggestion(ctx context.Context, id int64, suggestion string) error
}

// suggestionPayload represents the serialized data carried by the job
type suggestionPayload struct {
	TaskID int64 `json:"task_id"`
}

// SuggestionTask implements the Task interface for resolving the AI
// suggestion of a freshly created task with the default policy and storing it
type SuggestionTask struct {
	id       uuid.UUID
	snapshot domain.TaskSnapshot
	resolver Resolver
	store    SuggestionStore
	logger   *slog.Logger

	mu     sync.RWMutex
	status TaskStatus
}

// NewSuggestionTask creates a new suggestion job for snapshot
func NewSuggestionTask(
	snapshot domain.TaskSnapshot,
	resolver Resolver,
	store SuggestionStore,
	logger *slog.Logger,
) (*SuggestionTask, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if snapshot.ID <= 0 {
		return nil, ErrEmptyTaskID
	}

	return &SuggestionTask{
		id:       uuid.New(),
		snapshot: snapshot,
		resolver: resolver,
		store:    store,
		logger:   logger.With("task_type", TaskTypeSuggestion, "todo_id", snapshot.ID),
		status:   TaskStatusPending,
	}, nil
}

// ID returns the job's unique identifier
func (t *SuggestionTask) ID() uuid.UUID {
	return t.id
}

// Type returns the job type identifier
func (t *SuggestionTask) Type() string {
	return TaskTypeSuggestion
}

// Payload returns the job data as a byte slice
func (t *SuggestionTask) Payload() []byte {
	data, err := json.Marshal(suggestionPayload{TaskID: t.snapshot.ID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current job status
func (t *SuggestionTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *SuggestionTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Execute resolves the suggestion and stores it. A task deleted while the
// job was queued is not an error.
func (t *SuggestionTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	log := logger.FromContextOrDefault(ctx, t.logger)

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	text, err := t.resolver.Resolve(ctx, t.snapshot, suggestion.DirectiveUnset)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to resolve suggestion: %w", err)
	}

	if err := t.store.SetSuggestion(ctx, t.snapshot.ID, text); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.InfoContext(ctx, "task deleted before suggestion was stored", "todo_id", t.snapshot.ID)
			t.setStatus(TaskStatusCompleted)
			return nil
		}
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to store suggestion: %w", err)
	}

	t.setStatus(TaskStatusCompleted)
	log.InfoContext(ctx, "suggestion stored", "todo_id", t.snapshot.ID)
	return nil
}
