package ollama

import "errors"

// Error definitions for the ollama package.
var (
	// ErrNoHealthyEndpoints is returned when a full scan of the pool found no
	// endpoint answering its health probe.
	ErrNoHealthyEndpoints = errors.New("no healthy LLM endpoints available")

	// ErrUnexpectedStatus is returned when a node answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from LLM endpoint")

	// ErrEmptyResponse is returned when a node answers without any text.
	ErrEmptyResponse = errors.New("empty response from LLM endpoint")

	// ErrInvalidConfig is returned when the client is built from unusable settings.
	ErrInvalidConfig = errors.New("invalid local LLM configuration")
)
