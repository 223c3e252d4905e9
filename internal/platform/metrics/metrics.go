package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Feature packages register
// their own metrics; this covers the HTTP surface shared by all of them.
type Metrics struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates and registers the shared HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "revloop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
		RequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "revloop_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// TrackInFlight increments the in-flight gauge and returns the matching
// decrement.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.RequestsInFlight.Inc()
	return m.RequestsInFlight.Dec
}
