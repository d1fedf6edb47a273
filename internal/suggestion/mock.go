package suggestion

import "github.com/phrazzld/tasksage-api/internal/domain"

// Canned suggestions served by the mock tier.
const (
	MockSuggestionHigh    = "🔥 High priority! Break this into smaller chunks and tackle immediately."
	MockSuggestionMedium  = "📋 Consider time-blocking 30-45 minutes to focus on this task."
	MockSuggestionLow     = "⏰ Schedule this for a quiet time when you have mental bandwidth."
	MockSuggestionDefault = "Focus on one step at a time."
)

// MockSuggestion returns the canned suggestion for priority. It performs no
// I/O and cannot fail.
func MockSuggestion(priority domain.Priority) string {
	switch priority {
	case domain.PriorityHigh:
		return MockSuggestionHigh
	case domain.PriorityMedium:
		return MockSuggestionMedium
	case domain.PriorityLow:
		return MockSuggestionLow
	default:
		return MockSuggestionDefault
	}
}
