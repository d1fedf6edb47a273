package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/store"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}

	return id, nil
}

// parseTaskFilter reads the optional status and priority query parameters.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	filter := store.TaskFilter{
		Status:   domain.TaskStatus(query.Get("status")),
		Priority: domain.Priority(query.Get("priority")),
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return store.TaskFilter{}, domain.NewValidationError(
			"status", "must be one of todo, in_progress, done", domain.ErrInvalidStatus)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return store.TaskFilter{}, domain.NewValidationError(
			"priority", "must be one of low, medium, high", domain.ErrInvalidPriority)
	}

	return filter, nil
}
