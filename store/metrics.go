package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector mirrors the persistent_metrics table as Prometheus
// gauges, supplementing the distilled spec with the cumulative
// counters the original implementation persists on every Decided
// (original_source/app/src/metrics.rs; see SPEC_FULL.md §4).
type MetricsCollector struct {
	store *Store
	gauge *prometheus.GaugeVec
}

// Metric names, matching the persistent_metrics table's string keys.
const (
	MetricTransactionCount = "transaction_count"
	MetricChainByteSize    = "chain_byte_size"
	MetricElapsedSeconds   = "elapsed_seconds"
)

func NewMetricsCollector(s *Store) *MetricsCollector {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "emerald",
		Subsystem: "store",
		Name:      "persistent_metric",
		Help:      "Cumulative counters persisted in the persistent_metrics table.",
	}, []string{"name"})
	return &MetricsCollector{store: s, gauge: gauge}
}

// Describe and Collect implement prometheus.Collector by delegating
// to the underlying GaugeVec after refreshing its values from the
// store.
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.gauge.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range []string{MetricTransactionCount, MetricChainByteSize, MetricElapsedSeconds} {
		value, err := c.store.Metric(name)
		if err != nil {
			continue
		}
		c.gauge.WithLabelValues(name).Set(float64(value))
	}
	c.gauge.Collect(ch)
}
