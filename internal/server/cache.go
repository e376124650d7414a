package server

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/docklike/internal/model"
)

// SnapshotCache keeps the last dock snapshot for a short time so a burst of
// read-only tool calls costs one trip through the event loop.
type SnapshotCache struct {
	mu        sync.Mutex
	snap      model.DockSnapshot
	timestamp time.Time
	valid     bool
	ttl       time.Duration
	now       func() time.Time
}

// NewSnapshotCache creates a new cache. A ttl of 0 disables caching.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

// Snapshot returns the cached snapshot if within TTL, otherwise reads fresh.
func (c *SnapshotCache) Snapshot(ctx context.Context, dock Dock) (model.DockSnapshot, error) {
	if c.ttl == 0 {
		return dock.Snapshot(ctx)
	}

	c.mu.Lock()
	if c.valid && c.now().Sub(c.timestamp) < c.ttl {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	snap, err := dock.Snapshot(ctx)
	if err != nil {
		return model.DockSnapshot{}, err
	}

	c.mu.Lock()
	c.snap, c.timestamp, c.valid = snap, c.now(), true
	c.mu.Unlock()

	return snap, nil
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
