// Package metrics exposes Prometheus collectors for the gesture pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-frame pipeline activity.
type Metrics struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	frames        prometheus.Counter
	modeFrames    *prometheus.CounterVec
	transitions   prometheus.Counter
	detectErrors  prometheus.Counter
	skippedFrames prometheus.Counter
	frameDuration prometheus.Histogram
	viewScale     prometheus.Gauge
	viewAngle     prometheus.Gauge
}

// Option configures Metrics.
type Option func(*Metrics)

// WithNamespace overrides the metric namespace (default "hastaview").
func WithNamespace(ns string) Option {
	return func(m *Metrics) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithBuckets overrides the frame duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(m *Metrics) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers the collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Metrics) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// New creates and registers the collectors. Each call uses its own registry
// unless WithRegistry is given, so tests can build as many as they like.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "hastaview",
		// A frame budget is ~33ms at 30fps.
		buckets: []float64{0.002, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)

	m.frames = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "frames_total",
		Help:      "Frames processed by the gesture pipeline.",
	})
	m.modeFrames = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "mode_frames_total",
		Help:      "Frames processed per gesture mode.",
	}, []string{"mode"})
	m.transitions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "mode_transitions_total",
		Help:      "Changes of gesture mode between consecutive frames.",
	})
	m.detectErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "detect_errors_total",
		Help:      "Frames whose hand-pose estimation failed and were treated as having no hands.",
	})
	m.skippedFrames = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "motion_skipped_frames_total",
		Help:      "Static frames that reused the previous landmarks.",
	})
	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "frame_duration_seconds",
		Help:      "Wall time of one pipeline iteration.",
		Buckets:   m.buckets,
	})
	m.viewScale = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "view_scale",
		Help:      "Smoothed zoom factor of the displayed image.",
	})
	m.viewAngle = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "view_angle_degrees",
		Help:      "Smoothed rotation of the displayed image in degrees.",
	})

	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveFrame counts one processed frame in mode and its duration.
func (m *Metrics) ObserveFrame(mode string, d time.Duration) {
	m.frames.Inc()
	m.modeFrames.WithLabelValues(mode).Inc()
	m.frameDuration.Observe(d.Seconds())
}

// RecordTransition counts a change of gesture mode.
func (m *Metrics) RecordTransition() {
	m.transitions.Inc()
}

// RecordDetectError counts a failed estimation.
func (m *Metrics) RecordDetectError() {
	m.detectErrors.Inc()
}

// RecordSkippedFrame counts a frame the motion gate kept from the detector.
func (m *Metrics) RecordSkippedFrame() {
	m.skippedFrames.Inc()
}

// SetView publishes the smoothed scale and angle.
func (m *Metrics) SetView(scale, angle float64) {
	m.viewScale.Set(scale)
	m.viewAngle.Set(angle)
}
