package ollama

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultHealthTimeout bounds a single health probe.
const DefaultHealthTimeout = 5 * time.Second

// HealthChecker probes endpoints with a GET on a fixed path.
type HealthChecker struct {
	client *http.Client
	path   string
	logger *slog.Logger
}

// NewHealthChecker creates a HealthChecker. A non-positive timeout uses
// DefaultHealthTimeout.
func NewHealthChecker(path string, timeout time.Duration, logger *slog.Logger) *HealthChecker {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthChecker{
		client: &http.Client{Timeout: timeout},
		path:   path,
		logger: logger,
	}
}

// Check reports whether endpoint answered its health probe with a 2xx status.
// Every failure, including timeouts, is reported as false. There is no retry.
func (h *HealthChecker) Check(ctx context.Context, endpoint Endpoint) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL(h.path), nil)
	if err != nil {
		h.logger.DebugContext(ctx, "health probe request invalid",
			"endpoint", string(endpoint),
			"error", err)
		return false
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.DebugContext(ctx, "health probe failed",
			"endpoint", string(endpoint),
			"error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	healthy := resp.StatusCode >= 200 && resp.StatusCode < 300
	h.logger.DebugContext(ctx, "health probe completed",
		"endpoint", string(endpoint),
		"status_code", resp.StatusCode,
		"healthy", healthy)
	return healthy
}
