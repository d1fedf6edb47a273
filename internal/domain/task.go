package domain

import (
	"strings"
	"time"
)

// Priority ranks how urgent a task is.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// TaskStatus represents the progress of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every valid status in workflow order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task is a unit of work tracked by the API. AISuggestion is nil until the
// first suggestion resolution completes and is replaced wholesale afterwards.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	Status       TaskStatus `json:"status"`
	AISuggestion *string    `json:"ai_suggestion"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskSnapshot is the read-only view of a task handed to suggestion
// resolution. It holds copies, so later edits to the task do not leak in.
type TaskSnapshot struct {
	ID          int64
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// Snapshot copies the fields suggestion resolution reads.
func (t *Task) Snapshot() TaskSnapshot {
	s := TaskSnapshot{
		ID:       t.ID,
		Title:    t.Title,
		Priority: t.Priority,
	}
	if t.Description != nil {
		s.Description = *t.Description
	}
	if t.DueDate != nil {
		due := *t.DueDate
		s.DueDate = &due
	}
	return s
}

// Clone returns a deep copy of the task so callers outside the store never
// share pointers with the stored record.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.AISuggestion != nil {
		s := *t.AISuggestion
		c.AISuggestion = &s
	}
	return &c
}

// IsOverdue reports whether the task has a past due date and is not done.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusDone
}

// NewTaskParams holds the caller-supplied fields for a new task.
type NewTaskParams struct {
	Title       string
	Description *string
	Priority    Priority
	DueDate     *time.Time
}

// NewTask builds a validated task in the todo state. ID is left at zero for
// the store to assign. Priority defaults to medium.
func NewTask(p NewTaskParams, now time.Time) (*Task, error) {
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}

	task := &Task{
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		Status:      TaskStatusTodo,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDueDate(task.DueDate, now); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's field constraints. The due-date-in-future rule
// only applies when a due date is set or changed, see ValidateDueDate.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyTitle)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of todo, in_progress, done", ErrInvalidStatus)
	}
	return nil
}

// ValidateDueDate rejects due dates that are not after now. A nil due date is valid.
func ValidateDueDate(due *time.Time, now time.Time) error {
	if due != nil && !due.After(now) {
		return NewValidationError("due_date", "must be in the future", ErrDueDateInPast)
	}
	return nil
}

// TaskUpdate carries a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	Status      *TaskStatus
}

// Apply merges u into t and refreshes UpdatedAt. The task is left untouched
// if the merged result does not validate.
func (t *Task) Apply(u TaskUpdate, now time.Time) error {
	next := t.Clone()

	if u.Title != nil {
		next.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		d := *u.Description
		next.Description = &d
	}
	if u.Priority != nil {
		next.Priority = *u.Priority
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.DueDate != nil {
		if err := ValidateDueDate(u.DueDate, now); err != nil {
			return err
		}
		due := *u.DueDate
		next.DueDate = &due
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = now.UTC()
	*t = *next
	return nil
}

// TaskSummary aggregates task counts for the analytics endpoint.
type TaskSummary struct {
	TotalTasks   int                `json:"total_tasks"`
	ByStatus     map[TaskStatus]int `json:"by_status"`
	ByPriority   map[Priority]int   `json:"by_priority"`
	OverdueCount int                `json:"overdue_count"`
}

// Summarize counts tasks by status and priority. Every known status and
// priority appears in the maps, with zero when absent.
func Summarize(tasks []*Task, now time.Time) TaskSummary {
	summary := TaskSummary{
		TotalTasks: len(tasks),
		ByStatus:   make(map[TaskStatus]int, len(TaskStatuses)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, s := range TaskStatuses {
		summary.ByStatus[s] = 0
	}
	for _, p := range Priorities {
		summary.ByPriority[p] = 0
	}

	for _, t := range tasks {
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
		if t.IsOverdue(now) {
			summary.OverdueCount++
		}
	}

	return summary
}
