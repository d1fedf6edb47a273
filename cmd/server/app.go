package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasksage-api/internal/config"
	"github.com/phrazzld/tasksage-api/internal/events"
	"github.com/phrazzld/tasksage-api/internal/platform/gemini"
	"github.com/phrazzld/tasksage-api/internal/platform/memory"
	"github.com/phrazzld/tasksage-api/internal/platform/metrics"
	"github.com/phrazzld/tasksage-api/internal/platform/ollama"
	"github.com/phrazzld/tasksage-api/internal/redact"
	"github.com/phrazzld/tasksage-api/internal/service"
	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/phrazzld/tasksage-api/internal/task"
)

// application holds all the shared application dependencies. Everything is
// built once here and passed down explicitly.
type application struct {
	config *config.Config
	logger *slog.Logger

	metrics   *metrics.Registry
	taskStore *memory.TaskStore
	localLLM  *ollama.ClusterClient
	resolver  *suggestion.Resolver

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
	dispatcher   *task.Dispatcher
	taskService  service.TaskService
}

// newApplication creates a new application instance with all dependencies
// initialized. The task runner is created but not started; Run starts it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewRegistry(),
	}

	app.taskStore = memory.NewTaskStore(logger)

	var err error
	app.localLLM, err = ollama.NewClusterClient(cfg.Local, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local LLM client: %w", err)
	}
	logger.Info("local LLM cluster configured",
		"load_balancer", redact.String(cfg.Local.LoadBalancerURL),
		"endpoints", app.localLLM.Pool().Len(),
		"model", cfg.Local.Model)

	cloud := newCloudTier(ctx, cfg.Cloud, logger)

	app.resolver, err = suggestion.NewResolver(
		app.localLLM,
		cloud,
		app.metrics,
		suggestion.ResolverConfig{
			PreferLocal: cfg.Suggestion.PreferLocal,
			LocalModel:  cfg.Local.Model,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion resolver: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	app.dispatcher, err = task.NewDispatcher(
		app.taskRunner,
		app.resolver,
		app.taskStore,
		task.DefaultRetryConfig(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion dispatcher: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.Subscribe(
		events.TypeTaskCreated,
		task.NewSuggestionEventHandler(app.taskStore, app.dispatcher, logger),
	)

	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.resolver,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newCloudTier builds the hosted model tier. A client that fails to
// initialize leaves the tier absent instead of failing startup.
func newCloudTier(ctx context.Context, cfg config.CloudLLMConfig, logger *slog.Logger) suggestion.OptionalCloud {
	if !cfg.Enabled() {
		logger.Info("cloud LLM disabled, no API key configured")
		return suggestion.NoCloud()
	}

	client, err := gemini.NewCloudClient(ctx, cfg, logger)
	if err != nil {
		logger.Warn("cloud LLM unavailable, continuing without cloud tier",
			"model", cfg.Model,
			"error", redact.Error(err))
		return suggestion.NoCloud()
	}

	logger.Info("cloud LLM configured", "model", cfg.Model)
	return suggestion.SomeCloud(client)
}
