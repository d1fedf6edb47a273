package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasksage-api/internal/api/shared"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/service"
	"github.com/phrazzld/tasksage-api/internal/store"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn    func(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)
	ListTasksFn     func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	GetTaskFn       func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTaskFn    func(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn    func(ctx context.Context, id int64) error
	GetSummaryFn    func(ctx context.Context) (domain.TaskSummary, error)
	GetSuggestionFn func(ctx context.Context, id int64, directive suggestion.Directive) (string, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, params)
	}
	return nil, errors.New("CreateTask not configured")
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, update)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

func (m *MockTaskService) GetSummary(ctx context.Context) (domain.TaskSummary, error) {
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx)
	}
	return domain.TaskSummary{}, nil
}

func (m *MockTaskService) GetSuggestion(
	ctx context.Context,
	id int64,
	directive suggestion.Directive,
) (string, error) {
	if m.GetSuggestionFn != nil {
		return m.GetSuggestionFn(ctx, id, directive)
	}
	return "", nil
}

var fixedTime = time.Date(2030, time.April, 1, 12, 0, 0, 0, time.UTC)

func sampleTask(id int64) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Write report",
		Priority:  domain.PriorityHigh,
		Status:    domain.TaskStatusTodo,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func newTestRouter(svc service.TaskService) http.Handler {
	r := chi.NewRouter()
	r.Mount("/tasks", NewTaskHandler(svc, logger.DiscardLogger()).Routes())
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
		expectedErrMsg string
		checkParams    func(t *testing.T, p domain.NewTaskParams)
	}{
		{
			name:           "created",
			body:           map[string]interface{}{"title": "Write report", "priority": "high"},
			expectedStatus: http.StatusCreated,
			checkParams: func(t *testing.T, p domain.NewTaskParams) {
				assert.Equal(t, "Write report", p.Title)
				assert.Equal(t, domain.PriorityHigh, p.Priority)
				assert.Nil(t, p.DueDate)
			},
		},
		{
			name:           "priority omitted",
			body:           map[string]interface{}{"title": "Write report"},
			expectedStatus: http.StatusCreated,
			checkParams: func(t *testing.T, p domain.NewTaskParams) {
				assert.Equal(t, domain.Priority(""), p.Priority)
			},
		},
		{
			name:           "malformed json",
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid request format",
		},
		{
			name:           "missing title",
			body:           map[string]interface{}{"priority": "low"},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid title: required field",
		},
		{
			name:           "title too long",
			body:           map[string]interface{}{"title": string(bytes.Repeat([]byte("x"), 201))},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid title: too long",
		},
		{
			name:           "invalid priority",
			body:           map[string]interface{}{"title": "x", "priority": "urgent"},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid priority: invalid value",
		},
		{
			name:           "description too long",
			body:           map[string]interface{}{"title": "x", "description": string(bytes.Repeat([]byte("d"), 1001))},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid description: too long",
		},
		{
			name:           "due date in past",
			body:           map[string]interface{}{"title": "x", "due_date": "2001-01-01T00:00:00Z"},
			serviceErr:     domain.NewValidationError("due_date", "must be in the future", domain.ErrDueDateInPast),
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid due_date: must be in the future",
		},
		{
			name:           "store failure",
			body:           map[string]interface{}{"title": "x"},
			serviceErr:     service.NewTaskServiceError("create_task", "failed to save task", errors.New("disk full")),
			expectedStatus: http.StatusInternalServerError,
			expectedErrMsg: "Failed to create task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &MockTaskService{
				CreateTaskFn: func(_ context.Context, p domain.NewTaskParams) (*domain.Task, error) {
					if tt.checkParams != nil {
						tt.checkParams(t, p)
					}
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					task := sampleTask(1)
					task.Title = p.Title
					return task, nil
				},
			}

			w := doRequest(t, newTestRouter(svc), http.MethodPost, "/tasks", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, decodeError(t, w))
				return
			}
			var resp TaskResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, int64(1), resp.ID)
			assert.Nil(t, resp.AISuggestion)
			assert.Contains(t, w.Body.String(), `"ai_suggestion":null`)
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedFilter store.TaskFilter
	}{
		{name: "no filter", query: "", expectedStatus: http.StatusOK},
		{
			name:           "status and priority",
			query:          "?status=in_progress&priority=low",
			expectedStatus: http.StatusOK,
			expectedFilter: store.TaskFilter{Status: domain.TaskStatusInProgress, Priority: domain.PriorityLow},
		},
		{name: "invalid status", query: "?status=blocked", expectedStatus: http.StatusBadRequest},
		{name: "invalid priority", query: "?priority=urgent", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotFilter store.TaskFilter
			svc := &MockTaskService{
				ListTasksFn: func(_ context.Context, f store.TaskFilter) ([]*domain.Task, error) {
					gotFilter = f
					return []*domain.Task{sampleTask(1), sampleTask(2)}, nil
				},
			}

			w := doRequest(t, newTestRouter(svc), http.MethodGet, "/tasks"+tt.query, nil)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.expectedFilter, gotFilter)
			var resp []TaskResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp, 2)
		})
	}

	t.Run("empty list encodes as array", func(t *testing.T) {
		t.Parallel()
		w := doRequest(t, newTestRouter(&MockTaskService{}), http.MethodGet, "/tasks", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	svc := &MockTaskService{
		GetTaskFn: func(_ context.Context, id int64) (*domain.Task, error) {
			if id == 7 {
				return sampleTask(7), nil
			}
			return nil, service.NewTaskServiceError("get_task", "failed to retrieve task", store.ErrTaskNotFound)
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedErrMsg string
	}{
		{name: "found", path: "/tasks/7", expectedStatus: http.StatusOK},
		{name: "not found", path: "/tasks/8", expectedStatus: http.StatusNotFound, expectedErrMsg: "Task not found"},
		{name: "non numeric id", path: "/tasks/abc", expectedStatus: http.StatusBadRequest},
		{name: "zero id", path: "/tasks/0", expectedStatus: http.StatusBadRequest},
		{name: "negative id", path: "/tasks/-3", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := doRequest(t, router, http.MethodGet, tt.path, nil)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, decodeError(t, w))
			}
		})
	}
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()
		var got domain.TaskUpdate
		svc := &MockTaskService{
			UpdateTaskFn: func(_ context.Context, id int64, u domain.TaskUpdate) (*domain.Task, error) {
				got = u
				task := sampleTask(id)
				task.Status = *u.Status
				return task, nil
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPut, "/tasks/3", map[string]interface{}{"status": "done"})

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.TaskStatusDone, *got.Status)
		assert.Nil(t, got.Title)
		assert.Nil(t, got.Priority)
		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "done", resp.Status)
	})

	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
	}{
		{name: "invalid status", body: map[string]interface{}{"status": "blocked"}, expectedStatus: http.StatusBadRequest},
		{name: "empty title", body: map[string]interface{}{"title": ""}, expectedStatus: http.StatusBadRequest},
		{
			name:           "blank title rejected by domain",
			body:           map[string]interface{}{"title": "   "},
			serviceErr:     domain.NewValidationError("title", "is required", domain.ErrEmptyTitle),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown task",
			body:           map[string]interface{}{"status": "done"},
			serviceErr:     service.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &MockTaskService{
				UpdateTaskFn: func(_ context.Context, id int64, _ domain.TaskUpdate) (*domain.Task, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return sampleTask(id), nil
				},
			}

			w := doRequest(t, newTestRouter(svc), http.MethodPut, "/tasks/3", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	svc := &MockTaskService{
		DeleteTaskFn: func(_ context.Context, id int64) error {
			if id == 1 {
				return nil
			}
			return service.ErrTaskNotFound
		},
	}
	router := newTestRouter(svc)

	w := doRequest(t, router, http.MethodDelete, "/tasks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, w.Body.String())

	w = doRequest(t, router, http.MethodDelete, "/tasks/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decodeError(t, w))
}

func TestTaskHandler_GetSuggestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		query             string
		serviceText       string
		serviceErr        error
		expectedStatus    int
		expectedDirective suggestion.Directive
		expectedBody      string
		expectedErrMsg    string
	}{
		{
			name:              "default policy",
			serviceText:       "Start with an outline.",
			expectedStatus:    http.StatusOK,
			expectedDirective: suggestion.DirectiveUnset,
			expectedBody:      `{"suggestion":"Start with an outline."}`,
		},
		{
			name:              "mock directive",
			query:             "?model=mock",
			serviceText:       suggestion.MockSuggestionHigh,
			expectedStatus:    http.StatusOK,
			expectedDirective: suggestion.DirectiveMock,
		},
		{
			name:              "directive is case insensitive",
			query:             "?model=CLOUD",
			serviceText:       "cloud text",
			expectedStatus:    http.StatusOK,
			expectedDirective: suggestion.DirectiveCloud,
		},
		{
			name:           "unknown directive",
			query:          "?model=gpt",
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid model: must be one of local, cloud, mock",
		},
		{
			name:  "local unavailable",
			query: "?model=local",
			serviceErr: service.NewTaskServiceError("get_suggestion", "failed to resolve suggestion",
				fmt.Errorf("%w: no healthy endpoints", suggestion.ErrLocalUnavailable)),
			expectedStatus:    http.StatusServiceUnavailable,
			expectedDirective: suggestion.DirectiveLocal,
			expectedErrMsg:    "Local LLM unavailable",
		},
		{
			name:              "unknown task",
			serviceErr:        service.ErrTaskNotFound,
			expectedStatus:    http.StatusNotFound,
			expectedDirective: suggestion.DirectiveUnset,
			expectedErrMsg:    "Task not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			called := false
			svc := &MockTaskService{
				GetSuggestionFn: func(_ context.Context, id int64, d suggestion.Directive) (string, error) {
					called = true
					assert.Equal(t, int64(5), id)
					assert.Equal(t, tt.expectedDirective, d)
					return tt.serviceText, tt.serviceErr
				},
			}

			w := doRequest(t, newTestRouter(svc), http.MethodGet, "/tasks/5/ai-suggestion"+tt.query, nil)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedErrMsg != "" {
				assert.Equal(t, tt.expectedErrMsg, decodeError(t, w))
			}
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if tt.expectedStatus == http.StatusBadRequest {
				assert.False(t, called, "service must not be called for an invalid directive")
			}
		})
	}
}

func TestTaskHandler_GetSummary(t *testing.T) {
	t.Parallel()

	svc := &MockTaskService{
		GetSummaryFn: func(context.Context) (domain.TaskSummary, error) {
			return domain.Summarize([]*domain.Task{sampleTask(1)}, fixedTime), nil
		},
		GetTaskFn: func(context.Context, int64) (*domain.Task, error) {
			t.Error("summary route must not resolve to GetTask")
			return nil, nil
		},
	}

	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/tasks/analytics/summary", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_tasks": 1,
		"by_status": {"todo": 1, "in_progress": 0, "done": 0},
		"by_priority": {"low": 0, "medium": 0, "high": 1},
		"overdue_count": 0
	}`, w.Body.String())
}
