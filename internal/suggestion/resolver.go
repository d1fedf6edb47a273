package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasksage-api/internal/domain"
	"github.com/phrazzld/tasksage-api/internal/platform/logger"
	"github.com/phrazzld/tasksage-api/internal/redact"
)

// LocalModel generates completions on the local inference cluster.
type LocalModel interface {
	GenerateCompletion(ctx context.Context, prompt, model string) (string, error)
}

// CloudModel generates a suggestion for a task using a hosted model.
type CloudModel interface {
	Generate(ctx context.Context, task domain.TaskSnapshot) (string, error)
}

// OptionalCloud holds a CloudModel that may be absent. The cloud tier only
// exists when a credential was configured, so callers check Get explicitly.
type OptionalCloud struct {
	model CloudModel
}

// SomeCloud wraps a configured cloud model. A nil model yields NoCloud().
func SomeCloud(model CloudModel) OptionalCloud {
	return OptionalCloud{model: model}
}

// NoCloud represents an unconfigured cloud tier.
func NoCloud() OptionalCloud {
	return OptionalCloud{}
}

// Get returns the cloud model and whether it is present.
func (o OptionalCloud) Get() (CloudModel, bool) {
	return o.model, o.model != nil
}

// ResolverConfig holds the policy settings of a Resolver.
type ResolverConfig struct {
	// PreferLocal makes the local tier the first choice when no directive is given.
	PreferLocal bool

	// LocalModel is the model name requested from the local cluster.
	LocalModel string
}

// Resolver picks a suggestion tier for each request and degrades to the
// mock tier whenever the others fail.
type Resolver struct {
	local    LocalModel
	cloud    OptionalCloud
	recorder Recorder
	config   ResolverConfig
	logger   *slog.Logger
}

// NewResolver creates a Resolver. A nil recorder is replaced by NopRecorder.
func NewResolver(
	local LocalModel,
	cloud OptionalCloud,
	recorder Recorder,
	config ResolverConfig,
	logger *slog.Logger,
) (*Resolver, error) {
	if local == nil {
		return nil, ErrNilLocalModel
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &Resolver{
		local:    local,
		cloud:    cloud,
		recorder: recorder,
		config:   config,
		logger:   logger.With("component", "suggestion_resolver"),
	}, nil
}

// Resolve produces a suggestion for task. The tiers are tried in this order:
//
//  1. DirectiveMock returns the mock suggestion immediately.
//  2. DirectiveCloud tries the cloud model, falling back to mock.
//  3. DirectiveLocal, or no directive with PreferLocal, tries the local
//     cluster. Success returns at once. Failure returns ErrLocalUnavailable
//     for DirectiveLocal and continues otherwise.
//  4. With no directive, the cloud model is tried if configured.
//  5. The mock suggestion is returned.
//
// The only error returned for a valid directive is ErrLocalUnavailable.
func (r *Resolver) Resolve(ctx context.Context, task domain.TaskSnapshot, directive Directive) (string, error) {
	if !directive.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirective, string(directive))
	}

	log := logger.FromContextOrDefault(ctx, r.logger).With(
		"task_id", task.ID,
		"directive", string(directive),
	)

	switch directive {
	case DirectiveMock:
		return r.fallback(task), nil

	case DirectiveCloud:
		if text, ok := r.tryCloud(ctx, log, task); ok {
			return text, nil
		}
		return r.fallback(task), nil
	}

	if directive == DirectiveLocal || (!directive.IsSet() && r.config.PreferLocal) {
		text, err := r.tryLocal(ctx, log, task)
		if err == nil {
			return text, nil
		}
		if directive == DirectiveLocal {
			return "", fmt.Errorf("%w: %w", ErrLocalUnavailable, err)
		}
	}

	if !directive.IsSet() {
		if text, ok := r.tryCloud(ctx, log, task); ok {
			return text, nil
		}
	}

	return r.fallback(task), nil
}

func (r *Resolver) tryLocal(ctx context.Context, log *slog.Logger, task domain.TaskSnapshot) (string, error) {
	log.InfoContext(ctx, "ai analysis started", "model_type", ModelLocal)

	result, err := r.local.GenerateCompletion(ctx, BuildLocalPrompt(task), r.config.LocalModel)
	if err != nil {
		log.WarnContext(ctx, "local LLM failed", "model_type", ModelLocal, "error", redact.Error(err))
		return "", err
	}

	r.record(StatusSuccess, ModelLocal)
	log.InfoContext(ctx, "ai analysis completed", "model_type", ModelLocal)
	return strings.TrimSpace(result), nil
}

// tryCloud reports false when the cloud tier is absent or fails; failures
// are logged and never propagated.
func (r *Resolver) tryCloud(ctx context.Context, log *slog.Logger, task domain.TaskSnapshot) (string, bool) {
	cloud, ok := r.cloud.Get()
	if !ok {
		log.DebugContext(ctx, "cloud model not configured, skipping", "model_type", ModelCloud)
		return "", false
	}

	log.InfoContext(ctx, "ai analysis started", "model_type", ModelCloud)

	result, err := cloud.Generate(ctx, task)
	if err != nil {
		if !errors.Is(err, ErrCloudModel) {
			err = fmt.Errorf("%w: %w", ErrCloudModel, err)
		}
		log.ErrorContext(ctx, "cloud LLM failed", "model_type", ModelCloud, "error", redact.Error(err))
		return "", false
	}

	r.record(StatusSuccess, ModelCloud)
	log.InfoContext(ctx, "ai analysis completed", "model_type", ModelCloud)
	return result, true
}

func (r *Resolver) fallback(task domain.TaskSnapshot) string {
	r.record(StatusMock, ModelFallback)
	return MockSuggestion(task.Priority)
}

func (r *Resolver) record(status OutcomeStatus, model ModelType) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("outcome recorder panicked", "panic", rec)
		}
	}()
	r.recorder.Record(status, model)
}
