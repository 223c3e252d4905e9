package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the objection loop. All methods are
// nil-safe so services can run without metrics in tests.
type Metrics struct {
	ObjectionsCaptured  *prometheus.CounterVec
	PatchesApplied      prometheus.Counter
	PatchesBlocked      prometheus.Counter
	IterationsCompleted prometheus.Counter
	FrictionCurrent     prometheus.Gauge
	PersistenceFailures prometheus.Counter
	SchedulerTicks      prometheus.Counter
}

// New creates and registers all loop metrics.
func New() *Metrics {
	return &Metrics{
		ObjectionsCaptured: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "revloop_objections_captured_total",
			Help: "Objections captured by category and severity",
		}, []string{"category", "severity"}),

		PatchesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_patches_applied_total",
			Help: "Content patches that cleared the policy gate and were applied",
		}),

		PatchesBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_patches_blocked_total",
			Help: "Content patches blocked by the policy gate",
		}),

		IterationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_iterations_completed_total",
			Help: "Loop iterations closed with a measured friction value",
		}),

		FrictionCurrent: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "revloop_friction_current",
			Help: "Current friction metric of the active loop",
		}),

		PersistenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_persistence_failures_total",
			Help: "State snapshot writes that failed; the in-memory state kept going",
		}),

		SchedulerTicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revloop_scheduler_ticks_total",
			Help: "Scheduler ticks executed",
		}),
	}
}

// IncObjection records one captured objection.
func (m *Metrics) IncObjection(category, severity string) {
	if m != nil {
		m.ObjectionsCaptured.WithLabelValues(category, severity).Inc()
	}
}

// IncPatchesApplied records applied patches.
func (m *Metrics) IncPatchesApplied(n int) {
	if m != nil {
		m.PatchesApplied.Add(float64(n))
	}
}

// IncPatchesBlocked records blocked patches.
func (m *Metrics) IncPatchesBlocked(n int) {
	if m != nil {
		m.PatchesBlocked.Add(float64(n))
	}
}

// IncIterationCompleted records a closed iteration.
func (m *Metrics) IncIterationCompleted() {
	if m != nil {
		m.IterationsCompleted.Inc()
	}
}

// SetFriction records the loop's current friction value.
func (m *Metrics) SetFriction(v float64) {
	if m != nil {
		m.FrictionCurrent.Set(v)
	}
}

// IncPersistenceFailure records a failed snapshot write.
func (m *Metrics) IncPersistenceFailure() {
	if m != nil {
		m.PersistenceFailures.Inc()
	}
}

// IncSchedulerTick records one executed tick.
func (m *Metrics) IncSchedulerTick() {
	if m != nil {
		m.SchedulerTicks.Inc()
	}
}
