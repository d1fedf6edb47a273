package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/events"
	"github.com/phrazzld/tasksage-api/internal/store"
)

// TaskReader loads the current state of a task
type TaskReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
}

// SuggestionDispatcher schedules suggestion resolution for a task
type SuggestionDispatcher interface {
	Dispatch(ctx context.Context, task *domain.Task) error
}

// SuggestionEventHandler implements events.EventHandler by scheduling a
// suggestion job for every created task.
type SuggestionEventHandler struct {
	tasks      TaskReader
	dispatcher SuggestionDispatcher
	logger     *slog.Logger
}

// NewSuggestionEventHandler creates a new SuggestionEventHandler
func NewSuggestionEventHandler(
	tasks TaskReader,
	dispatcher SuggestionDispatcher,
	logger *slog.Logger,
) *SuggestionEventHandler {
	return &SuggestionEventHandler{
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     logger.With("component", "suggestion_event_handler"),
	}
}

// HandleEvent dispatches a suggestion job for task.created events and
// ignores everything else.
func (h *SuggestionEventHandler) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	if event.Type != events.TypeTaskCreated {
		h.logger.DebugContext(ctx, "ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.TaskCreatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := h.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			h.logger.InfoContext(ctx, "task deleted before suggestion was scheduled",
				"todo_id", payload.TaskID,
				"event_id", event.ID)
			return nil
		}
		return fmt.Errorf("failed to load task %d: %w", payload.TaskID, err)
	}

	if err := h.dispatcher.Dispatch(ctx, task); err != nil {
		return fmt.Errorf("failed to dispatch suggestion for task %d: %w", payload.TaskID, err)
	}
	return nil
}

var _ events.EventHandler = (*SuggestionEventHandler)(nil)
