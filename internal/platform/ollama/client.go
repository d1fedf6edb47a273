package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/tasksage-api/internal/config"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/redact"
)

// GeneratePath is the completion route exposed by every node.
const GeneratePath = "/api/generate"

// DefaultGenerateTimeout bounds a single generation call.
const DefaultGenerateTimeout = 30 * time.Second

// Sampling options sent with every generation request.
const (
	defaultTemperature = 0.7
	defaultNumPredict  = 100
)

// maxResponseBytes caps how much of a node's reply is read.
const maxResponseBytes = 1 << 20

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// ClusterClient generates completions on the local cluster. It is safe for
// concurrent use.
type ClusterClient struct {
	loadBalancer Endpoint
	pool         *EndpointPool
	health       *HealthChecker
	http         *http.Client
	logger       *slog.Logger
}

// NewClusterClient builds a ClusterClient from the local LLM settings.
func NewClusterClient(cfg config.LocalLLMConfig, logger *slog.Logger) (*ClusterClient, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	lb := NewEndpoint(cfg.LoadBalancerURL)
	if lb == "" {
		return nil, fmt.Errorf("%w: load balancer URL cannot be empty", ErrInvalidConfig)
	}

	timeout := cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}

	log := logger.With("component", "local_llm")

	return &ClusterClient{
		loadBalancer: lb,
		pool:         NewEndpointPool(cfg.Endpoints),
		health:       NewHealthChecker(cfg.HealthPath, cfg.HealthTimeout, log),
		http:         &http.Client{Timeout: timeout},
		logger:       log,
	}, nil
}

// Pool returns the client's endpoint pool.
func (c *ClusterClient) Pool() *EndpointPool {
	return c.pool
}

// ResolveHealthyEndpoint walks the pool from the cursor and returns the first
// endpoint whose health probe succeeds. Each endpoint is probed at most once
// per call, and the cursor is left just past the returned endpoint.
func (c *ClusterClient) ResolveHealthyEndpoint(ctx context.Context) (Endpoint, error) {
	for range c.pool.Len() {
		endpoint, ok := c.pool.Next()
		if !ok {
			break
		}
		if c.health.Check(ctx, endpoint) {
			return endpoint, nil
		}
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoHealthyEndpoints, err)
		}
	}
	return "", ErrNoHealthyEndpoints
}

// GenerateCompletion sends prompt to the load balancer, and on any failure
// retries once against a healthy endpoint from the pool.
func (c *ClusterClient) GenerateCompletion(ctx context.Context, prompt, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	text, err := c.generate(ctx, c.loadBalancer, prompt, model)
	if err == nil {
		return text, nil
	}

	log.WarnContext(ctx, "load balancer failed, trying direct endpoint",
		"endpoint", string(c.loadBalancer),
		"error", redact.Error(err))

	endpoint, resolveErr := c.ResolveHealthyEndpoint(ctx)
	if resolveErr != nil {
		return "", resolveErr
	}

	text, err = c.generate(ctx, endpoint, prompt, model)
	if err != nil {
		return "", fmt.Errorf("direct endpoint %s: %w", endpoint, err)
	}
	return text, nil
}

func (c *ClusterClient) generate(ctx context.Context, endpoint Endpoint, prompt, model string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: defaultTemperature,
			NumPredict:  defaultNumPredict,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL(GeneratePath), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyResponse
	}

	return out.Response, nil
}
