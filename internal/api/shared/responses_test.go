package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTraceID = "0123456789abcdef0123456789abcdef"

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req = req.WithContext(SetTraceID(req.Context(), testTraceID))
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, testTraceID, w.Header().Get(TraceIDHeader))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/tasks/9", nil)
	req = req.WithContext(SetTraceID(req.Context(), testTraceID))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Task not found", resp.Error)
	assert.Equal(t, testTraceID, resp.TraceID)
	assert.NotContains(t, w.Body.String(), "404", "status code is not serialized")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "dependency unavailable", status: http.StatusServiceUnavailable, wantLevel: "WARN"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "elevated client error", status: http.StatusBadRequest, elevate: true, wantLevel: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.GetTestLogger(t)
			ctx := logger.WithLogger(SetTraceID(context.Background(), testTraceID), log)
			req := httptest.NewRequest(http.MethodGet, "/tasks/1/ai-suggestion", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			cause := errors.New("dial tcp: password=hunter2 refused")
			var opts []ResponseOption
			if tt.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tt.status, "Something failed", cause, opts...)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Something failed", resp.Error)
			assert.NotContains(t, w.Body.String(), "dial tcp")

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
			assert.NotContains(t, entries[0]["error"], "hunter2")
		})
	}
}
