package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator hands out "trace-000001", "trace-000002", ... so
// tests can tell invocations apart while staying deterministic.
//
// It can be reset for test reuse: after Reset the same sequence repeats.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDGenerator creates a generator starting at 0.
// An empty prefix means "trace".
//
// The first call to Generate() returns "<prefix>-000001".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "trace"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate increments the counter and returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%06d", g.prefix, g.seq)
}

// Count returns how many IDs have been generated since the last reset.
func (g *SequentialIDGenerator) Count() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence.
func (g *SequentialIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
