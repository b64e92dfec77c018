package engine

// metrics.go mirrors the teacher's pkg/metrics.go noop/Prometheus split,
// retargeted from per-shard CLOCK-Pro counters to the engine-wide LRU
// counters this spec defines.
//
// © 2025 redstone authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

type metricsSink interface {
	incHit()
	incMiss()
	incEvict()
	setResidentBytes(v int64)
	setEntries(v int64)
}

type noopMetrics struct{}

func (noopMetrics) incHit()                 {}
func (noopMetrics) incMiss()                {}
func (noopMetrics) incEvict()               {}
func (noopMetrics) setResidentBytes(int64)  {}
func (noopMetrics) setEntries(int64)        {}

type promMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	resident  prometheus.Gauge
	entries   prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Name:      "hits_total",
			Help:      "Number of cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Name:      "misses_total",
			Help:      "Number of cache misses.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Name:      "evictions_total",
			Help:      "Number of entries evicted to reclaim capacity.",
		}),
		resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tensorcache",
			Name:      "resident_bytes",
			Help:      "Bytes currently resident in the cache.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tensorcache",
			Name:      "entries",
			Help:      "Number of entries currently resident in the cache.",
		}),
	}
	reg.MustRegister(pm.hits, pm.misses, pm.evictions, pm.resident, pm.entries)
	return pm
}

func (m *promMetrics) incHit()                { m.hits.Inc() }
func (m *promMetrics) incMiss()               { m.misses.Inc() }
func (m *promMetrics) incEvict()              { m.evictions.Inc() }
func (m *promMetrics) setResidentBytes(v int64) { m.resident.Set(float64(v)) }
func (m *promMetrics) setEntries(v int64)       { m.entries.Set(float64(v)) }

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
