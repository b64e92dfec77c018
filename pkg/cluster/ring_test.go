package cluster

import (
	"fmt"
	"testing"
)

func fiveNodeRing() *Ring {
	nodes := make([]Node, 5)
	for i := range nodes {
		nodes[i] = Node{Name: fmt.Sprintf("node-%d", i), Address: fmt.Sprintf("10.0.0.%d:9000", i)}
	}
	return NewRing(nodes, 50)
}

// Scenario 7: hash distribution is near-uniform across physical nodes.
func TestRingDistributionIsNearUniform(t *testing.T) {
	r := fiveNodeRing()
	const numKeys = 10000
	const numNodes = 5

	counts := make(map[string]int)
	for i := 0; i < numKeys; i++ {
		n, err := r.Lookup(fmt.Sprintf("key-%d", i))
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		counts[n.Name]++
	}

	mean := numKeys / numNodes
	for name, count := range counts {
		if count < mean/2 || count > mean*3/2 {
			t.Fatalf("node %s received %d keys, want within 50%%-150%% of mean %d", name, count, mean)
		}
	}
	if len(counts) != numNodes {
		t.Fatalf("only %d of %d nodes received any key", len(counts), numNodes)
	}
}

// Scenario 8: ring routing is deterministic for a fixed membership.
func TestRingLookupIsDeterministic(t *testing.T) {
	r := fiveNodeRing()
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("key-%d", i)
		first, err := r.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		for j := 0; j < 5; j++ {
			again, err := r.Lookup(key)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if again != first {
				t.Fatalf("Lookup(%s) = %v on repeat %d, want %v", key, again, j, first)
			}
		}
	}
}

func TestRingLookupEmptyRing(t *testing.T) {
	r := NewRing(nil, 50)
	if _, err := r.Lookup("k"); err != ErrEmptyRing {
		t.Fatalf("Lookup err = %v, want ErrEmptyRing", err)
	}
}

func TestRingVirtualNodesDoNotCollideAcrossNodes(t *testing.T) {
	r := fiveNodeRing()
	if len(r.positions) != 5*50 {
		t.Fatalf("len(positions) = %d, want %d (no collisions expected at this scale)", len(r.positions), 5*50)
	}
}
