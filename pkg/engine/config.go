package engine

// config.go follows the teacher's pkg/config.go shape: a private config
// object filled in with defaults, then mutated by functional Options, then
// validated before the Cache is built.
//
// © 2025 redstone authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Cache at construction time.
type Option func(*config)

type config struct {
	maxBytes uint64
	logger   *zap.Logger
	registry *prometheus.Registry
}

func defaultConfig(maxBytes uint64) *config {
	return &config{
		maxBytes: maxBytes,
		logger:   zap.NewNop(),
	}
}

// WithLogger plugs an external zap.Logger. The engine logs only evictions:
// each entry evicted by Put is emitted at Debug level. Get, Delete and
// construction errors are not logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default); metric updates then go to a no-op sink.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

func applyOptions(cfg *config, opts []Option) error {
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxBytes == 0 {
		return ErrInvalidSize
	}
	return nil
}
