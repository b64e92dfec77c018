package cluster

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pri1712/redstone/pkg/client"
	"github.com/pri1712/redstone/pkg/tensor"
)

// backoffUnit is the linear backoff step from spec.md §4.5: attempt N's
// post-failure sleep is backoffUnit × N.
const backoffUnit = 50 * time.Millisecond

// Router dispatches keyed operations to the node the ring assigns them
// to, retrying retryable failures with linear backoff and re-resolving
// the ring on every attempt (spec.md §4.5).
type Router struct {
	ring *Ring
	pool *NodePool
	cfg  RouterConfig

	logger  *zap.Logger
	metrics metricsSink

	// sf collapses concurrent local Get calls for the same key into one
	// remote round trip. This is an enrichment beyond spec.md, not a
	// requirement of it, and has no effect on pkg/engine semantics — see
	// SPEC_FULL.md §5.
	sf singleflight.Group
}

// NewRouter builds a Router over the given physical nodes.
func NewRouter(nodes []Node, cfg RouterConfig, opts ...Option) *Router {
	c := defaultConfig()
	applyOptions(c, opts)

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRouterConfig().MaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRouterConfig().Timeout
	}
	if cfg.VirtualNodeCount <= 0 {
		cfg.VirtualNodeCount = DefaultRouterConfig().VirtualNodeCount
	}

	return &Router{
		ring:    NewRing(nodes, cfg.VirtualNodeCount),
		pool:    NewNodePool(c.dialOpts...),
		cfg:     cfg,
		logger:  c.logger,
		metrics: c.metrics,
	}
}

// Close tears down every pooled connection.
func (r *Router) Close() error { return r.pool.Close() }

type getResult struct {
	tensor tensor.Tensor
	ok     bool
}

// Get fetches key, deduplicating concurrent local callers for the same
// key into a single remote round trip.
func (r *Router) Get(ctx context.Context, key string) (tensor.Tensor, bool, error) {
	v, err, _ := r.sf.Do(key, func() (any, error) {
		out, err := r.dispatch(ctx, key, func(attemptCtx context.Context, c *client.Client) (any, error) {
			t, ok, err := c.Get(attemptCtx, key)
			if err != nil {
				return nil, err
			}
			return getResult{tensor: t, ok: ok}, nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return tensor.Tensor{}, false, err
	}
	gr := v.(getResult)
	return gr.tensor, gr.ok, nil
}

// Put stores t under key on the node the ring assigns it to.
func (r *Router) Put(ctx context.Context, key string, t tensor.Tensor) error {
	_, err := r.dispatch(ctx, key, func(attemptCtx context.Context, c *client.Client) (any, error) {
		return nil, c.Put(attemptCtx, key, t)
	})
	return err
}

// Delete removes key and reports whether it was present.
func (r *Router) Delete(ctx context.Context, key string) (bool, error) {
	out, err := r.dispatch(ctx, key, func(attemptCtx context.Context, c *client.Client) (any, error) {
		return c.Delete(attemptCtx, key)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// GetStats fetches a snapshot from an arbitrary node known to the ring.
// Per spec.md §4.5, stats dispatch is not keyed; this is single-target,
// not an aggregate across the cluster.
func (r *Router) GetStats(ctx context.Context) (client.Stats, error) {
	nodes := r.ring.Nodes()
	if len(nodes) == 0 {
		return client.Stats{}, ErrEmptyRing
	}

	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		r.metrics.incAttempt()
		node := nodes[(attempt-1)%len(nodes)]

		c, err := r.pool.GetOrCreate(node)
		if err != nil {
			lastErr = err
		} else {
			attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
			stats, statsErr := c.GetStats(attemptCtx)
			cancel()
			if statsErr == nil {
				return stats, nil
			}
			lastErr = statsErr
		}

		if !isRetryable(lastErr) {
			return client.Stats{}, lastErr
		}
		if attempt == r.cfg.MaxRetries {
			break
		}
		r.metrics.incRetry()
		r.logger.Warn("retrying redstone GetStats", zap.Int("attempt", attempt), zap.Error(lastErr))
		time.Sleep(time.Duration(attempt) * backoffUnit)
	}
	return client.Stats{}, fmt.Errorf("%w: last error: %v", ErrMaxRetriesExceeded, lastErr)
}

// dispatch implements spec.md §4.5's five-step operation dispatch for a
// single keyed operation: resolve, acquire, call-under-timeout, classify,
// backoff-and-retry.
func (r *Router) dispatch(ctx context.Context, key string, op func(context.Context, *client.Client) (any, error)) (any, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		r.metrics.incAttempt()

		node, err := r.ring.Lookup(key)
		if err != nil {
			return nil, err
		}
		c, err := r.pool.GetOrCreate(node)
		if err != nil {
			lastErr = err
		} else {
			attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
			out, opErr := op(attemptCtx, c)
			cancel()
			if opErr == nil {
				return out, nil
			}
			if attemptCtx.Err() == context.DeadlineExceeded {
				r.metrics.incTimeout()
			}
			lastErr = opErr
		}

		if !isRetryable(lastErr) {
			return nil, lastErr
		}
		if attempt == r.cfg.MaxRetries {
			break
		}
		r.metrics.incRetry()
		r.logger.Warn("retrying redstone operation",
			zap.String("key", key), zap.Int("attempt", attempt), zap.Error(lastErr))
		time.Sleep(time.Duration(attempt) * backoffUnit)
	}
	return nil, fmt.Errorf("%w: last error: %v", ErrMaxRetriesExceeded, lastErr)
}
