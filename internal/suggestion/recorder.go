package suggestion

// OutcomeStatus labels how a resolution ended.
type OutcomeStatus string

// Possible outcome statuses
const (
	StatusSuccess OutcomeStatus = "success"
	StatusMock    OutcomeStatus = "mock"
)

// ModelType labels which tier produced a suggestion.
type ModelType string

// Possible model types
const (
	ModelLocal    ModelType = "local"
	ModelCloud    ModelType = "cloud"
	ModelFallback ModelType = "fallback"
)

// Recorder observes resolution outcomes. Implementations must return
// quickly and must not panic; the resolver treats them as fire-and-forget.
type Recorder interface {
	Record(status OutcomeStatus, model ModelType)
}

// RecorderFunc adapts a plain function to the Recorder interface.
type RecorderFunc func(status OutcomeStatus, model ModelType)

// Record calls f(status, model).
func (f RecorderFunc) Record(status OutcomeStatus, model ModelType) {
	f(status, model)
}

// NopRecorder discards every outcome.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(OutcomeStatus, ModelType) {}
