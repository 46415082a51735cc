package promvec

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/baxromumarov/safevec"
)

// Source is the slice of the array surface the collector reads. Every
// [safevec.Array] instantiation satisfies it.
type Source interface {
	Stats() safevec.Stats
}

// Collector exposes an array's stats as Prometheus metrics. Register
// one Collector per array; the array label keeps them apart. Collect
// reads only atomic counters, so scrapes never contend with workers.
type Collector struct {
	src Source

	length        *prometheus.Desc
	capacity      *prometheus.Desc
	generation    *prometheus.Desc
	pushes        *prometheus.Desc
	removes       *prometheus.Desc
	grows         *prometheus.Desc
	scopes        *prometheus.Desc
	drains        *prometheus.Desc
	invalidations *prometheus.Desc
}

// NewCollector returns a collector for src. The name becomes the value
// of the array label on every metric.
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"array": name}
	return &Collector{
		src: src,
		length: prometheus.NewDesc(
			"safevec_array_length",
			"Live elements in the array.",
			nil, labels),
		capacity: prometheus.NewDesc(
			"safevec_array_capacity",
			"Allocated capacity of the array.",
			nil, labels),
		generation: prometheus.NewDesc(
			"safevec_array_generation",
			"Current structural generation of the array.",
			nil, labels),
		pushes: prometheus.NewDesc(
			"safevec_array_pushes_total",
			"Elements appended since creation.",
			nil, labels),
		removes: prometheus.NewDesc(
			"safevec_array_removes_total",
			"Elements removed by index since creation.",
			nil, labels),
		grows: prometheus.NewDesc(
			"safevec_array_grows_total",
			"Backing buffer reallocations since creation.",
			nil, labels),
		scopes: prometheus.NewDesc(
			"safevec_array_scopes_total",
			"Mutation scopes completed against the array.",
			nil, labels),
		drains: prometheus.NewDesc(
			"safevec_array_drains_total",
			"Drains opened against the array.",
			nil, labels),
		invalidations: prometheus.NewDesc(
			"safevec_array_invalidations_total",
			"Iterator and drain invalidations observed.",
			nil, labels),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.capacity
	ch <- c.generation
	ch <- c.pushes
	ch <- c.removes
	ch <- c.grows
	ch <- c.scopes
	ch <- c.drains
	ch <- c.invalidations
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(st.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Cap))
	ch <- prometheus.MustNewConstMetric(c.generation, prometheus.GaugeValue, float64(st.Generation))
	ch <- prometheus.MustNewConstMetric(c.pushes, prometheus.CounterValue, float64(st.Pushes))
	ch <- prometheus.MustNewConstMetric(c.removes, prometheus.CounterValue, float64(st.Removes))
	ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(st.Grows))
	ch <- prometheus.MustNewConstMetric(c.scopes, prometheus.CounterValue, float64(st.Scopes))
	ch <- prometheus.MustNewConstMetric(c.drains, prometheus.CounterValue, float64(st.Drains))
	ch <- prometheus.MustNewConstMetric(c.invalidations, prometheus.CounterValue, float64(st.Invalidations))
}
