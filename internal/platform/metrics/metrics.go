// Package metrics exports suggestion outcomes as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/phrazzld/tasksage-api/internal/suggestion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AIRequestsName is the name of the suggestion outcome counter.
const AIRequestsName = "ai_requests_total"

// Registry owns the application's collectors.
type Registry struct {
	registry   *prometheus.Registry
	aiRequests *prometheus.CounterVec
}

// NewRegistry creates a Registry with the outcome counter and the standard
// Go runtime and process collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		registry: reg,
		aiRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: AIRequestsName,
			Help: "Total AI suggestion resolutions by outcome status and model type.",
		}, []string{"status", "model_type"}),
	}
}

// Record implements suggestion.Recorder.
func (r *Registry) Record(status suggestion.OutcomeStatus, model suggestion.ModelType) {
	r.aiRequests.WithLabelValues(string(status), string(model)).Inc()
}

// AIRequests exposes the outcome counter.
func (r *Registry) AIRequests() *prometheus.CounterVec {
	return r.aiRequests
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var _ suggestion.Recorder = (*Registry)(nil)
