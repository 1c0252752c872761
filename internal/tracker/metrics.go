package tracker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the tracker's Prometheus collectors on a private registry.
type Metrics struct {
	registry       *prometheus.Registry
	frames         prometheus.Counter
	failures       prometheus.Counter
	handDetected   prometheus.Gauge
	jointsDetected *prometheus.GaugeVec
}

// NewMetrics creates and registers the tracker collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "handjoints_frames_total",
			Help: "Hand frames normalized and published.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "handjoints_estimator_failures_total",
			Help: "Pose estimator errors.",
		}),
		handDetected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "handjoints_hand_detected",
			Help: "1 when the latest frame had at least one detected joint.",
		}),
		jointsDetected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "handjoints_joints_detected",
			Help: "Detected joints in the latest set of the primary group.",
		}, []string{"group"}),
	}
	m.registry.MustRegister(m.frames, m.failures, m.handDetected, m.jointsDetected)
	return m
}

// Registry returns the registry holding the tracker collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
