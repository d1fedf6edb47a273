package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/tasksage-api/internal/api/shared"
)

// HealthHandler serves the root and liveness endpoints.
type HealthHandler struct {
	appName string
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler reporting appName.
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName, now: time.Now}
}

// Root handles GET / requests
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, RootResponse{
		Message: h.appName + " API",
		Status:  "running",
	})
}

// Health handles GET /health requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
	})
}
