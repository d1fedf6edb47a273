package api

import (
	"time"

	"github.com/phrazzld/tasksage-api/internal/domain"
)

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// ToParams converts the request into domain parameters. The domain layer
// applies the remaining rules, such as the due date being in the future.
func (r CreateTaskRequest) ToParams() domain.NewTaskParams {
	return domain.NewTaskParams{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.Priority(r.Priority),
		DueDate:     r.DueDate,
	}
}

// UpdateTaskRequest defines the payload for a partial task update.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=todo in_progress done"`
}

// ToUpdate converts the request into a domain update.
func (r UpdateTaskRequest) ToUpdate() domain.TaskUpdate {
	update := domain.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		update.Priority = &p
	}
	if r.Status != nil {
		s := domain.TaskStatus(*r.Status)
		update.Status = &s
	}
	return update
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	Status       string     `json:"status"`
	AISuggestion *string    `json:"ai_suggestion"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SummaryResponse reports aggregate task counts.
type SummaryResponse struct {
	TotalTasks   int            `json:"total_tasks"`
	ByStatus     map[string]int `json:"by_status"`
	ByPriority   map[string]int `json:"by_priority"`
	OverdueCount int            `json:"overdue_count"`
}

// SuggestionResponse wraps a task's AI suggestion.
type SuggestionResponse struct {
	Suggestion string `json:"suggestion"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// RootResponse is returned by the service root.
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     string(task.Priority),
		DueDate:      task.DueDate,
		Status:       string(task.Status),
		AISuggestion: task.AISuggestion,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// summaryToResponse converts a domain.TaskSummary to a SummaryResponse
func summaryToResponse(summary domain.TaskSummary) SummaryResponse {
	resp := SummaryResponse{
		TotalTasks:   summary.TotalTasks,
		ByStatus:     make(map[string]int, len(summary.ByStatus)),
		ByPriority:   make(map[string]int, len(summary.ByPriority)),
		OverdueCount: summary.OverdueCount,
	}
	for status, n := range summary.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for priority, n := range summary.ByPriority {
		resp.ByPriority[string(priority)] = n
	}
	return resp
}
