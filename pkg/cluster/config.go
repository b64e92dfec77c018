package cluster

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// RouterConfig carries the retry/timeout/placement policy for a Router.
// Defaults mirror the reference implementation's
// ClusterClientConfig::new_default (spec.md §6): 3 retries, a 5 second
// per-attempt timeout, 50 virtual nodes per physical node.
type RouterConfig struct {
	MaxRetries       int
	Timeout          time.Duration
	VirtualNodeCount int
}

// DefaultRouterConfig returns the spec-mandated defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{MaxRetries: 3, Timeout: 5 * time.Second, VirtualNodeCount: 50}
}

// Option configures a Router at construction time, following the
// functional-options pattern used throughout this module.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	metrics  metricsSink
	dialOpts []grpc.DialOption
}

func defaultConfig() *config {
	return &config{logger: zap.NewNop(), metrics: noopMetrics{}}
}

// WithDialOptions passes additional grpc.DialOption values through to
// every connection the Router's NodePool opens — primarily useful in
// tests to install a bufconn dialer.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *config) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// WithLogger plugs an external zap.Logger. Retries and timeouts are
// logged at Warn; a nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus counters for attempts, retries and
// timeouts under the given registry. Passing nil disables metrics
// (default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.metrics = newPromMetrics(reg)
		}
	}
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}
