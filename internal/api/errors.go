package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasksage-api/internal/api/shared"
	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/store"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, suggestion.ErrInvalidDirective),
		errors.Is(err, shared.ErrInvalidBody),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	// The caller asked for the local model and it could not answer
	case errors.Is(err, suggestion.ErrLocalUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		verrs  validator.ValidationErrors
		domErr *domain.ValidationError
	)

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, suggestion.ErrLocalUnavailable):
		return "Local LLM unavailable"

	case errors.Is(err, suggestion.ErrInvalidDirective):
		return "Invalid model: must be one of local, cloud, mock"

	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"

	case errors.As(err, &verrs):
		return SanitizeValidationError(err)

	case errors.As(err, &domErr):
		return fmt.Sprintf("Invalid %s: %s", domErr.Field, domErr.Message)

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a message naming the
// first offending field, without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	first := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt":
		return "must be positive"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message replaces the generic text for 500 responses only, so mapped
// client errors keep their specific wording.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	userMessage := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && message != "" {
		userMessage = message
	}

	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
