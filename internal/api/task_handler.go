package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasksage-api/internal/api/shared"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/service"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// Routes returns a router for the task endpoints, meant to be mounted at /tasks.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateTask)
	r.Get("/", h.ListTasks)
	r.Get("/analytics/summary", h.GetSummary)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Put("/", h.UpdateTask)
		r.Delete("/", h.DeleteTask)
		r.Get("/ai-suggestion", h.GetSuggestion)
	})
	return r
}

func (h *TaskHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// CreateTask handles POST /tasks requests. The AI suggestion is scheduled
// in the background, so the response carries a null ai_suggestion.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.ToParams())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks requests with optional status and priority filters
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskToResponse(t))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetTask handles GET /tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.ToUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// GetSuggestion handles GET /tasks/{id}/ai-suggestion requests. The optional
// model query parameter forces a fresh suggestion from that tier.
func (h *TaskHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	directive, err := suggestion.ParseDirective(r.URL.Query().Get("model"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		return
	}

	text, err := h.taskService.GetSuggestion(r.Context(), id, directive)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get suggestion")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuggestionResponse{Suggestion: text})
}

// GetSummary handles GET /tasks/analytics/summary requests
func (h *TaskHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.taskService.GetSummary(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute summary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// pathID parses the {id} path parameter, writing a 400 response on failure.
func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.log(r).Debug("invalid task id", slog.String("param_name", "id"))
		HandleAPIError(w, r, err, "")
		return 0, false
	}
	return id, true
}
