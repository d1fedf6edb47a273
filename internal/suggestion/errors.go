package suggestion

import "errors"

// Common errors returned by the suggestion package
var (
	// ErrLocalUnavailable is returned when the caller demanded the local tier
	// and it could not produce a suggestion. It is the only resolution error
	// surfaced to end callers.
	ErrLocalUnavailable = errors.New("local LLM unavailable")

	// ErrCloudModel wraps any failure of the hosted model. The resolver
	// absorbs it and falls back to the mock tier.
	ErrCloudModel = errors.New("cloud model request failed")

	// ErrInvalidDirective is returned when a model directive is not one of
	// local, cloud or mock.
	ErrInvalidDirective = errors.New("invalid model directive")

	// ErrNilLocalModel is returned when a resolver is built without a local client.
	ErrNilLocalModel = errors.New("local model cannot be nil")

	// ErrNilLogger is returned when a resolver is built without a logger.
	ErrNilLogger = errors.New("logger cannot be nil")
)
