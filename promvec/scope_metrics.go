package promvec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baxromumarov/safevec"
)

// ScopeMetrics holds gauges fed from scope snapshots. Create one per
// logical workload and wire its Observe method into the scope through
// [safevec.WithOnMetrics]. Values are gauges rather than counters: a
// new scope starts its counts over.
type ScopeMetrics struct {
	spawned   prometheus.Gauge
	active    prometheus.Gauge
	completed prometheus.Gauge
	errored   prometheus.Gauge
	panicked  prometheus.Gauge
	longest   prometheus.Gauge
}

// NewScopeMetrics registers the scope gauges with reg. The scope label
// carries the workload name.
func NewScopeMetrics(reg prometheus.Registerer, scope string) *ScopeMetrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"scope": scope}
	return &ScopeMetrics{
		spawned: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_workers_spawned",
			Help:        "Workers spawned by the most recent scope.",
			ConstLabels: labels,
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_workers_active",
			Help:        "Workers currently executing.",
			ConstLabels: labels,
		}),
		completed: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_workers_completed",
			Help:        "Workers finished in the most recent scope.",
			ConstLabels: labels,
		}),
		errored: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_workers_errored",
			Help:        "Workers that returned an error.",
			ConstLabels: labels,
		}),
		panicked: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_workers_panicked",
			Help:        "Workers that panicked and were captured.",
			ConstLabels: labels,
		}),
		longest: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "safevec_scope_longest_active_seconds",
			Help:        "Elapsed time of the oldest running worker.",
			ConstLabels: labels,
		}),
	}
}

// Observe records one snapshot. It matches the callback shape of
// [safevec.WithOnMetrics].
func (sm *ScopeMetrics) Observe(m safevec.Metrics) {
	sm.spawned.Set(float64(m.TotalSpawned))
	sm.active.Set(float64(m.ActiveTasks))
	sm.completed.Set(float64(m.Completed))
	sm.errored.Set(float64(m.Errored))
	sm.panicked.Set(float64(m.Panicked))
	sm.longest.Set(m.LongestActive.Seconds())
}
