package gemini

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/tasksage-api/internal/config"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records calls and returns a canned response.
type fakeModels struct {
	mu         sync.Mutex
	resp       *genai.GenerateContentResponse
	err        error
	calls      int
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	lastPrompt string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastModel = model
	f.lastConfig = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func (f *fakeModels) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func testSnapshot() domain.TaskSnapshot {
	return domain.TaskSnapshot{ID: 3, Title: "Prepare slides", Priority: domain.PriorityHigh}
}

func TestNewCloudClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewCloudClient(context.Background(), config.CloudLLMConfig{Model: "gemini-1.5-flash"}, logger.DiscardLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCloudClient(context.Background(), config.CloudLLMConfig{APIKey: "key"}, logger.DiscardLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCloudClient(context.Background(), config.CloudLLMConfig{APIKey: "key", Model: "m"}, nil)
	assert.Error(t, err)
}

func TestCloudClient_Generate(t *testing.T) {
	t.Parallel()

	t.Run("concatenates text parts", func(t *testing.T) {
		t.Parallel()
		models := &fakeModels{resp: textResponse("Open the deck ", "and outline three sections.")}
		client := newCloudClient(models, "gemini-1.5-flash", logger.DiscardLogger())

		text, err := client.Generate(context.Background(), testSnapshot())

		require.NoError(t, err)
		assert.Equal(t, "Open the deck and outline three sections.", text)
		assert.Equal(t, "gemini-1.5-flash", models.lastModel)
		assert.Contains(t, models.lastPrompt, "Task: Prepare slides")
		require.NotNil(t, models.lastConfig)
		require.NotNil(t, models.lastConfig.SystemInstruction)
		assert.Equal(t, suggestion.SystemPrompt, models.lastConfig.SystemInstruction.Parts[0].Text)
	})

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		wantErr error
	}{
		{name: "api error", err: errors.New("quota exceeded"), wantErr: suggestion.ErrCloudModel},
		{name: "nil response", wantErr: ErrInvalidResponse},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: ErrInvalidResponse},
		{
			name: "safety block",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			wantErr: ErrContentBlocked,
		},
		{name: "blank text", resp: textResponse("  "), wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newCloudClient(&fakeModels{resp: tt.resp, err: tt.err}, "m", logger.DiscardLogger())

			_, err := client.Generate(context.Background(), testSnapshot())

			assert.ErrorIs(t, err, suggestion.ErrCloudModel)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCloudClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	models := &fakeModels{err: errors.New("unavailable")}
	client := newCloudClient(models, "m", logger.DiscardLogger())

	for range breakerTripFailures {
		_, err := client.Generate(context.Background(), testSnapshot())
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	_, err := client.Generate(context.Background(), testSnapshot())
	assert.ErrorIs(t, err, suggestion.ErrCloudModel)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, breakerTripFailures, models.Calls(), "open breaker must not reach the API")
}

func TestCloudClient_SafetyBlocksDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}}
	client := newCloudClient(models, "m", logger.DiscardLogger())

	for range breakerTripFailures + 1 {
		_, _ = client.Generate(context.Background(), testSnapshot())
	}
	assert.Equal(t, gobreaker.StateClosed, client.BreakerState())
}
