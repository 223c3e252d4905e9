package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the performance ledger. All methods are
// nil-safe so the pipeline can run without metrics in tests.
type Metrics struct {
	EntriesWritten  *prometheus.CounterVec
	EntriesDropped  prometheus.Counter
	PublishFailures prometheus.Counter
	QueueDepth      prometheus.Gauge
}

// New creates and registers all ledger metrics.
func New() *Metrics {
	return &Metrics{
		EntriesWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "revloop_ledger_entries_written_total",
			Help: "Ledger entries durably appended, by action",
		}, []string{"action"}),

		EntriesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_ledger_entries_dropped_total",
			Help: "Ledger entries dropped because the inbox was full",
		}),

		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_ledger_publish_failures_total",
			Help: "Failed downstream hand-offs (store append or Kafka produce)",
		}),

		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "revloop_ledger_queue_depth",
			Help: "Entries buffered in the ledger inbox",
		}),
	}
}

// IncWritten records one durably appended entry.
func (m *Metrics) IncWritten(action string) {
	if m != nil {
		m.EntriesWritten.WithLabelValues(action).Inc()
	}
}

// IncDropped records one entry dropped at the inbox.
func (m *Metrics) IncDropped() {
	if m != nil {
		m.EntriesDropped.Inc()
	}
}

// IncPublishFailure records one failed downstream hand-off.
func (m *Metrics) IncPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

// SetQueueDepth records the current inbox depth.
func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
