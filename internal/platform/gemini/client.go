package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/tasksage-api/internal/config"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/redact"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// Breaker settings for the cloud tier.
const (
	breakerName             = "gemini"
	breakerHalfOpenRequests = 3
	breakerOpenTimeout      = 30 * time.Second
	breakerTripFailures     = 5
)

const defaultTemperature float32 = 0.7

// contentGenerator is the subset of the genai client used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// CloudClient generates task suggestions with a Gemini model.
type CloudClient struct {
	models  contentGenerator
	model   string
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

var _ suggestion.CloudModel = (*CloudClient)(nil)

// NewCloudClient creates a CloudClient backed by the Gemini API.
func NewCloudClient(ctx context.Context, cfg config.CloudLLMConfig, logger *slog.Logger) (*CloudClient, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, redact.Error(err))
	}

	return newCloudClient(client.Models, cfg.Model, logger), nil
}

func newCloudClient(models contentGenerator, model string, logger *slog.Logger) *CloudClient {
	log := logger.With("component", "cloud_llm", "model", model)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation and safety refusals say nothing about availability.
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, ErrContentBlocked)
		},
	})

	return &CloudClient{
		models:  models,
		model:   model,
		breaker: breaker,
		logger:  log,
	}
}

// BreakerState reports the circuit breaker's current state.
func (c *CloudClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Generate returns a suggestion for task. Any failure is wrapped in
// suggestion.ErrCloudModel.
func (c *CloudClient) Generate(ctx context.Context, task domain.TaskSnapshot) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	prompt := suggestion.BuildCloudPrompt(task)

	log.DebugContext(ctx, "calling Gemini API",
		"task_id", task.ID,
		"prompt_length", len(prompt))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.call(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.WarnContext(ctx, "Gemini call rejected by circuit breaker", "task_id", task.ID)
		}
		return "", fmt.Errorf("%w: %w", suggestion.ErrCloudModel, err)
	}

	text, _ := result.(string)
	return text, nil
}

func (c *CloudClient) call(ctx context.Context, prompt string) (string, error) {
	temperature := defaultTemperature
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: suggestion.SystemPrompt}},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	return extractText(resp)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", ErrContentBlocked
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: no text in response", ErrInvalidResponse)
	}
	return b.String(), nil
}
