package suggestion_test

import (
	"testing"
	"time"

	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected suggestion.Directive
		wantErr  bool
	}{
		{raw: "", expected: suggestion.DirectiveUnset},
		{raw: "local", expected: suggestion.DirectiveLocal},
		{raw: "CLOUD", expected: suggestion.DirectiveCloud},
		{raw: " mock ", expected: suggestion.DirectiveMock},
		{raw: "gpt", wantErr: true},
		{raw: "fallback", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			d, err := suggestion.ParseDirective(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, suggestion.ErrInvalidDirective)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestMockSuggestion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, suggestion.MockSuggestionHigh, suggestion.MockSuggestion(domain.PriorityHigh))
	assert.Equal(t, suggestion.MockSuggestionMedium, suggestion.MockSuggestion(domain.PriorityMedium))
	assert.Equal(t, suggestion.MockSuggestionLow, suggestion.MockSuggestion(domain.PriorityLow))
	assert.Equal(t, suggestion.MockSuggestionDefault, suggestion.MockSuggestion(domain.Priority("urgent")))
}

func TestBuildPrompts(t *testing.T) {
	t.Parallel()

	due := time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)

	t.Run("defaults for missing fields", func(t *testing.T) {
		t.Parallel()
		p := suggestion.BuildLocalPrompt(domain.TaskSnapshot{Title: "Plan trip", Priority: domain.PriorityLow})

		assert.Contains(t, p, suggestion.SystemPrompt)
		assert.Contains(t, p, "Task: Plan trip")
		assert.Contains(t, p, "Description: No description")
		assert.Contains(t, p, "Priority: low")
		assert.Contains(t, p, "Due: No deadline")
		assert.Contains(t, p, "Suggest how to approach this task effectively:")
	})

	t.Run("cloud prompt omits the system prompt", func(t *testing.T) {
		t.Parallel()
		p := suggestion.BuildCloudPrompt(domain.TaskSnapshot{
			Title:       "Plan trip",
			Description: "Book flights",
			Priority:    domain.PriorityHigh,
			DueDate:     &due,
		})

		assert.NotContains(t, p, suggestion.SystemPrompt)
		assert.Contains(t, p, "Description: Book flights")
		assert.Contains(t, p, "Due: 2030-01-02T15:04:05Z")
		assert.Contains(t, p, "Suggest how to approach this task effectively.")
	})
}
