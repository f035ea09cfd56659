// Package metrics exposes the page controllers' telemetry events as
// Prometheus series. Every component accepts the same Record-style
// Telemetry interface; Recorder adapts it onto a counter vector keyed by
// event name plus a few dimensioned counters for the hot paths.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements the components' Telemetry interfaces over a
// Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	events    *prometheus.CounterVec
	platforms *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewRecorder builds a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_events_total",
		Help: "Controller events by name",
	}, []string{"event"})
	r.platforms = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_platform_switches_total",
		Help: "Platform selections by platform",
	}, []string{"platform"})
	r.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_refresh_failures_total",
		Help: "Refresh failures by platform",
	}, []string{"platform"})

	r.registry.MustRegister(r.events, r.platforms, r.failures)
	return r
}

// Record implements the Telemetry interface shared by the components.
func (r *Recorder) Record(_ context.Context, event string, payload map[string]any) {
	r.events.WithLabelValues(event).Inc()

	switch event {
	case "analytics.platform.switch":
		if platform, ok := payload["platform"].(string); ok {
			r.platforms.WithLabelValues(platform).Inc()
		}
	case "analytics.refresh.error":
		if platform, ok := payload["platform"].(string); ok {
			r.failures.WithLabelValues(platform).Inc()
		}
	}
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// EventCounter returns the counter for one event name, mainly for tests
// and dashboards wired directly against the recorder.
func (r *Recorder) EventCounter(event string) (prometheus.Counter, error) {
	metric, err := r.events.GetMetricWithLabelValues(event)
	if err != nil {
		return nil, fmt.Errorf("metrics: event %q: %w", event, err)
	}
	return metric, nil
}
