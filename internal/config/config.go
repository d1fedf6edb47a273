package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	App        AppConfig        `mapstructure:"app"        validate:"required"`
	Suggestion SuggestionConfig `mapstructure:"suggestion"`
	Local      LocalLLMConfig   `mapstructure:"local"      validate:"required"`
	Cloud      CloudLLMConfig   `mapstructure:"cloud"      validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AppConfig contains user-facing application metadata.
type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

// SuggestionConfig controls the default suggestion resolution policy.
type SuggestionConfig struct {
	// PreferLocal makes the local cluster the first tier when a request
	// carries no explicit model directive.
	PreferLocal bool `mapstructure:"prefer_local"`
}

// LocalLLMConfig describes the local inference cluster.
type LocalLLMConfig struct {
	// LoadBalancerURL is tried first for every generation call.
	LoadBalancerURL string `mapstructure:"load_balancer_url" validate:"required,url"`

	// Endpoints are the directly addressable nodes behind the load balancer,
	// in round-robin order.
	Endpoints []string `mapstructure:"endpoints" validate:"dive,url"`

	Model           string        `mapstructure:"model"            validate:"required"`
	HealthPath      string        `mapstructure:"health_path"      validate:"required,startswith=/"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"   validate:"gt=0"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout" validate:"gt=0"`
}

// CloudLLMConfig contains the hosted model settings. An empty APIKey
// disables the cloud tier entirely.
type CloudLLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"   validate:"required"`
}

// Enabled reports whether a cloud credential has been configured.
func (c CloudLLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gt=0"`
}
