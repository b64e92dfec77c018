package cluster

import "github.com/prometheus/client_golang/prometheus"

type metricsSink interface {
	incAttempt()
	incRetry()
	incTimeout()
}

type noopMetrics struct{}

func (noopMetrics) incAttempt() {}
func (noopMetrics) incRetry()   {}
func (noopMetrics) incTimeout() {}

type promMetrics struct {
	attempts prometheus.Counter
	retries  prometheus.Counter
	timeouts prometheus.Counter
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Subsystem: "router",
			Name:      "attempts_total",
			Help:      "Number of router dispatch attempts, across all operations.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Subsystem: "router",
			Name:      "retries_total",
			Help:      "Number of retried router dispatch attempts.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tensorcache",
			Subsystem: "router",
			Name:      "timeouts_total",
			Help:      "Number of per-attempt timeouts observed by the router.",
		}),
	}
	reg.MustRegister(pm.attempts, pm.retries, pm.timeouts)
	return pm
}

func (m *promMetrics) incAttempt() { m.attempts.Inc() }
func (m *promMetrics) incRetry()   { m.retries.Inc() }
func (m *promMetrics) incTimeout() { m.timeouts.Inc() }
