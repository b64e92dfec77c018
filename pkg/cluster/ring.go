// Package cluster implements the consistent-hash routing layer: a ring
// of virtual nodes over physical redstone nodes, a pooled-connection
// client cache, and a retrying router that dispatches Put/Get/Delete/
// GetStats to the correct node, per spec.md §4.5.
//
// © 2025 redstone authors. MIT License.
package cluster

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// virtualNodeSeparator is part of the ring's wire contract: changing it
// reshuffles every key's owner (spec.md §4.5).
const virtualNodeSeparator = ":#:"

// Node is an immutable (name, address) pair identifying a physical
// redstone node. name is the cluster-unique hashing identity; address is
// the transport endpoint dialed by NodePool.
type Node struct {
	Name    string
	Address string
}

func (n Node) String() string { return n.Name + "@" + n.Address }

// ErrEmptyRing is returned by Ring.Lookup when no nodes have been added.
var ErrEmptyRing = errors.New("redstone: hash ring has no nodes")

// Ring is a consistent-hash ring keyed by XXH64(seed=0). It is built
// once at construction and is immutable thereafter (spec.md §3: "ring
// membership is immutable after construction in this spec"); Lookup and
// Nodes still take the shared read lock.
type Ring struct {
	mu        sync.RWMutex
	positions []uint64
	owners    []string
	nodes     map[string]Node
}

// NewRing builds a ring placing vnodes virtual positions per physical
// node. Later insertions win position collisions, matching spec.md §3's
// "if a collision occurs the later insertion wins" (deterministic given
// a fixed iteration order over nodes).
func NewRing(nodes []Node, vnodes int) *Ring {
	r := &Ring{nodes: make(map[string]Node, len(nodes))}
	posToOwner := make(map[uint64]string)

	for _, n := range nodes {
		r.nodes[n.Name] = n
		for i := 0; i < vnodes; i++ {
			pos := xxhash.Sum64String(n.Name + virtualNodeSeparator + strconv.Itoa(i))
			posToOwner[pos] = n.Name
		}
	}

	r.positions = make([]uint64, 0, len(posToOwner))
	for pos := range posToOwner {
		r.positions = append(r.positions, pos)
	}
	sort.Slice(r.positions, func(i, j int) bool { return r.positions[i] < r.positions[j] })

	r.owners = make([]string, len(r.positions))
	for i, pos := range r.positions {
		r.owners[i] = posToOwner[pos]
	}
	return r
}

// Lookup returns the physical node owning key: the node whose virtual
// position is the smallest one ≥ H(key), wrapping to index 0 if none is.
func (r *Ring) Lookup(key string) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.positions) == 0 {
		return Node{}, ErrEmptyRing
	}
	h := xxhash.Sum64String(key)
	idx := sort.Search(len(r.positions), func(i int) bool { return r.positions[i] >= h })
	if idx == len(r.positions) {
		idx = 0
	}
	return r.nodes[r.owners[idx]], nil
}

// Nodes returns every physical node known to the ring, in no particular
// order. Used by Router.GetStats to pick an arbitrary target.
func (r *Ring) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	return out
}
