// Package suggestion resolves the AI suggestion attached to each task.
//
// A Resolver chooses between three tiers in a fixed order: the local
// inference cluster, the hosted cloud model, and a deterministic mock that
// needs no network. Callers may force a tier with a Directive. Every path
// except an explicitly requested but unavailable local tier ends with some
// suggestion text, so resolution never fails a task.
//
// The package only defines the policy and the boundaries it depends on
// (LocalModel, CloudModel, Recorder); the concrete clients live under
// internal/platform.
package suggestion
