package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minutes"

// PrometheusRecorder implements Recorder on a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	searchAttempts  *prometheus.CounterVec
	factChecks      *prometheus.CounterVec
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	meetingsCreated prometheus.Counter
	meetingsIndexed *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
}

// NewPrometheus registers the application collectors plus Go runtime and
// process collectors on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		searchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_attempts_total",
			Help:      "Web search calls per credential attempt.",
		}, []string{"outcome"}),
		factChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fact_checks_total",
			Help:      "Fact-check requests by outcome.",
		}, []string{"outcome"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Agent tool dispatches by tool and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Agent tool handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		meetingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_created_total",
			Help:      "Meetings persisted.",
		}),
		meetingsIndexed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_indexed_total",
			Help:      "Vector index writes by outcome.",
		}, []string{"outcome"}),
		authEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Signup and login attempts by outcome.",
		}, []string{"event", "outcome"}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncSearchAttempt(outcome string) {
	p.searchAttempts.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncFactCheck(outcome string) {
	p.factChecks.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncToolCall(tool, outcome string) {
	p.toolCalls.WithLabelValues(tool, outcome).Inc()
}

func (p *PrometheusRecorder) ObserveToolDuration(tool string, duration time.Duration) {
	p.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncMeetingCreated() {
	p.meetingsCreated.Inc()
}

func (p *PrometheusRecorder) IncMeetingIndexed(outcome string) {
	p.meetingsIndexed.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncAuthEvent(event, outcome string) {
	p.authEvents.WithLabelValues(event, outcome).Inc()
}
