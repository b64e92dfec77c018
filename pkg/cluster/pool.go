package cluster

import (
	"fmt"
	"sync"

	"google.golang.org/grpc"

	"github.com/pri1712/redstone/pkg/client"
)

// NodePool caches one *client.Client per node address, opening new
// connections lazily and never closing them implicitly (spec.md §4.5:
// "the pool never closes clients implicitly in this spec").
type NodePool struct {
	mu      sync.RWMutex
	clients map[string]*client.Client

	dialOpts []grpc.DialOption
}

// NewNodePool constructs an empty pool. dialOpts are passed through to
// client.Dial for every connection the pool opens.
func NewNodePool(dialOpts ...grpc.DialOption) *NodePool {
	return &NodePool{clients: make(map[string]*client.Client), dialOpts: dialOpts}
}

// GetOrCreate returns the pooled client for node, opening a new
// connection on first use. Concurrent callers racing on the same node
// perform the classic fast-path-read / slow-path-double-check dance:
// only one connection survives, the loser's is dropped (spec.md §4.5,
// §9 "Client pool double-check").
func (p *NodePool) GetOrCreate(n Node) (*client.Client, error) {
	p.mu.RLock()
	c, ok := p.clients[n.Address]
	p.mu.RUnlock()
	if ok {
		return c, nil
	}

	newClient, err := client.Dial(n.Address, p.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("redstone: connecting to node %s: %w", n, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients[n.Address]; ok {
		_ = newClient.Close()
		return existing, nil
	}
	p.clients[n.Address] = newClient
	return newClient, nil
}

// Close tears down every pooled connection. The pool must not be used
// afterwards.
func (p *NodePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for addr, c := range p.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("redstone: closing connection to %s: %w", addr, err)
		}
	}
	p.clients = make(map[string]*client.Client)
	return firstErr
}
