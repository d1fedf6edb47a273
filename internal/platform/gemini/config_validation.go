package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasksage-api/internal/config"
)

// validateConfig checks that the cloud settings are complete enough to build
// a client.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.CloudLLMConfig) error {
	if cfg.APIKey == "" {
		logger.ErrorContext(ctx, "Missing cloud API key",
			"error", "api_key is empty")
		return fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}

	if cfg.Model == "" {
		logger.ErrorContext(ctx, "Missing cloud model name",
			"error", "model is empty")
		return fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	return nil
}
