package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the client is built from unusable settings.
	ErrInvalidConfig = errors.New("invalid cloud model configuration")

	// ErrContentBlocked is returned when the model refused to answer on safety grounds.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrInvalidResponse is returned when the model reply carries no usable text.
	ErrInvalidResponse = errors.New("invalid response from cloud model")
)
