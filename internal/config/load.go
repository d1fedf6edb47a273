package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TASKSAGE_SERVER_PORT or TASKSAGE_LOCAL_ENDPOINTS.
const EnvPrefix = "TASKSAGE"

// setDefaults registers a default for every known key. Viper only binds
// environment variables for keys it knows about, so each field needs one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("app.name", "AI Task Manager")

	v.SetDefault("suggestion.prefer_local", true)

	v.SetDefault("local.load_balancer_url", "http://localhost:8080")
	v.SetDefault("local.endpoints", []string{
		"http://localhost:11434",
		"http://localhost:11435",
	})
	v.SetDefault("local.model", "phi3:mini")
	v.SetDefault("local.health_path", "/api/health")
	v.SetDefault("local.health_timeout", 5*time.Second)
	v.SetDefault("local.generate_timeout", 30*time.Second)

	v.SetDefault("cloud.api_key", "")
	v.SetDefault("cloud.model", "gemini-1.5-flash")

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Endpoint lists arriving via env may carry stray whitespace around commas
	cfg.Local.Endpoints = trimAll(cfg.Local.Endpoints)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
