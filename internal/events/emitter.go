package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasksage-api/internal/redact"
)

// InMemoryEventEmitter dispatches events synchronously to the handlers
// subscribed to their type.
type InMemoryEventEmitter struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		handlers: make(map[string][]EventHandler),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// Subscribe registers handler for events of eventType.
func (e *InMemoryEventEmitter) Subscribe(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[eventType] = append(e.handlers[eventType], handler)
	e.logger.Debug("registered event handler",
		"event_type", eventType,
		"handler_count", len(e.handlers[eventType]))
}

// EmitEvent publishes the given event to every handler subscribed to its type.
// A failing handler does not stop the others; the first error is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers[event.Type]...)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.WarnContext(ctx, "no handlers registered for event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "handler failed to process event",
				"error", redact.Error(err),
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)
