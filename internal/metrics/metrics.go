package metrics

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Metrics records pipeline events. It implements [ideas.Hook].
type Metrics struct {
	registry *prometheus.Registry

	stagesTotal     *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	itemsProduced   *prometheus.CounterVec
	skippedFragment prometheus.Counter
}

// New registers the pipeline metrics together with the Go runtime and process collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // defaults
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		stagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct // defaults
				Name: "ideaforge_stage_completions_total",
				Help: "Total number of pipeline stage runs by outcome",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{ //nolint:exhaustruct // defaults
				Name:    "ideaforge_stage_duration_seconds",
				Help:    "Duration of pipeline stages including the model completion",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"stage"},
		),
		itemsProduced: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct // defaults
				Name: "ideaforge_stage_items_total",
				Help: "Total number of ideas or suggestion details produced by stage",
			},
			[]string{"stage"},
		),
		skippedFragment: factory.NewCounter(
			prometheus.CounterOpts{ //nolint:exhaustruct // defaults
				Name: "ideaforge_ranking_fragments_skipped_total",
				Help: "Total number of JSON fragments discarded while salvaging rankings",
			},
		),
	}
}

func (m *Metrics) Observe(_ context.Context, e ideas.Event) {
	stage := string(e.Stage)
	m.stagesTotal.WithLabelValues(stage, string(e.Outcome)).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(e.Duration.Seconds())
	if e.Items > 0 {
		m.itemsProduced.WithLabelValues(stage).Add(float64(e.Items))
	}
	if e.Skipped > 0 {
		m.skippedFragment.Add(float64(e.Skipped))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct // defaults
}
