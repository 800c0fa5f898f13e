package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/recolor/pkg/domain"
)

// Metrics holds the recolor collectors.
type Metrics struct {
	Runs           *prometheus.CounterVec
	NodesProcessed prometheus.Counter
	NodesConverted prometheus.Counter
	ImportFailures prometheus.Counter
	RunDuration    prometheus.Histogram
	InFlight       prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_runs_total",
				Help: "Conversion runs by terminal status",
			},
			[]string{"status"},
		),
		NodesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recolor_nodes_processed_total",
			Help: "Nodes visited by the conversion loop",
		}),
		NodesConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recolor_nodes_converted_total",
			Help: "Nodes whose fills or strokes changed",
		}),
		ImportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recolor_variable_import_failures_total",
			Help: "Variable keys that failed to import",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recolor_run_duration_seconds",
			Help:    "Duration of conversion runs",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recolor_runs_in_flight",
			Help: "Conversion runs currently executing",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Runs, m.NodesProcessed, m.NodesConverted, m.ImportFailures, m.RunDuration, m.InFlight)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) {
			m.InFlight.Inc()
		},
		OnNodeConverted: func(_ context.Context, e *domain.NodeEvent) {
			m.NodesProcessed.Inc()
			if e.Changed {
				m.NodesConverted.Inc()
			}
		},
		OnImportFailure: func(context.Context, *domain.ImportFailureEvent) {
			m.ImportFailures.Inc()
		},
		OnRunFinish: func(_ context.Context, o *domain.Outcome) {
			m.InFlight.Dec()
			m.Runs.WithLabelValues(string(o.Status)).Inc()
			m.RunDuration.Observe(o.Duration.Seconds())
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// CombineHooks fans every callback out to all hooks, in order.
func CombineHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnNodeConverted: func(ctx context.Context, e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnNodeConverted != nil {
					h.OnNodeConverted(ctx, e)
				}
			}
		},
		OnImportFailure: func(ctx context.Context, e *domain.ImportFailureEvent) {
			for _, h := range hooks {
				if h.OnImportFailure != nil {
					h.OnImportFailure(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, o *domain.Outcome) {
			for _, h := range hooks {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, o)
				}
			}
		},
	}
}
