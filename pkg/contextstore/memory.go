package contextstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/driftsec/sentry/internal/types"
)

// Memory is an in-process store with the same semantics as the Redis-backed
// client: last-write-wins upserts and fire-and-forget broadcasts. It backs
// tests and single-process runs without an external store.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]*types.Snapshot
	published map[types.Domain][]*types.Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]*types.Snapshot),
		published: make(map[types.Domain][]*types.Snapshot),
	}
}

func memoryKey(domain types.Domain, label string) string {
	return fmt.Sprintf("%s:%s", domain, label)
}

// PutContext upserts the snapshot under its key.
func (m *Memory) PutContext(ctx context.Context, domain types.Domain, label string, snap *types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[memoryKey(domain, label)] = snap
	return nil
}

// GetContext returns the latest snapshot for the key, or nil when the key was
// never written.
func (m *Memory) GetContext(ctx context.Context, domain types.Domain, label string) (*types.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[memoryKey(domain, label)], nil
}

// Publish records the broadcast for inspection.
func (m *Memory) Publish(ctx context.Context, domain types.Domain, snap *types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[domain] = append(m.published[domain], snap)
	return nil
}

// Published returns the broadcasts recorded for a domain.
func (m *Memory) Published(domain types.Domain) []*types.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.Snapshot, len(m.published[domain]))
	copy(out, m.published[domain])
	return out
}
