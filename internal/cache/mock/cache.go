// Package mock provides an in-memory Cache for tests.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/cache"
	"github.com/google/uuid"
)

// Cache satisfies cache.Cache with an in-process map. TTLs are honored for
// run locks; job statuses never expire within a test's lifetime.
type Cache struct {
	mu       sync.Mutex
	locks    map[string]lockEntry
	statuses map[uuid.UUID]string
	counters map[string]int64

	// IncrErr, when set, is returned by every IncrWithExpiry call.
	IncrErr error
}

type lockEntry struct {
	token   string
	expires time.Time
}

func New() *Cache {
	return &Cache{
		locks:    make(map[string]lockEntry),
		statuses: make(map[uuid.UUID]string),
		counters: make(map[string]int64),
	}
}

func (c *Cache) Ping(context.Context) error { return nil }
func (c *Cache) Close() error               { return nil }

func (c *Cache) AcquireRunLock(_ context.Context, stage string, ttl time.Duration) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.locks[cache.RunLockKey(stage)]; ok && time.Now().Before(e.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	c.locks[cache.RunLockKey(stage)] = lockEntry{token: token, expires: time.Now().Add(ttl)}
	return token, true, nil
}

func (c *Cache) ReleaseRunLock(_ context.Context, stage, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.locks[cache.RunLockKey(stage)]; ok && e.token == token {
		delete(c.locks, cache.RunLockKey(stage))
	}
	return nil
}

func (c *Cache) SetJobStatus(_ context.Context, jobID uuid.UUID, status string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[jobID] = status
	return nil
}

func (c *Cache) GetJobStatus(_ context.Context, jobID uuid.UUID) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[jobID]
	return s, ok, nil
}

func (c *Cache) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.IncrErr != nil {
		return 0, c.IncrErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

var _ cache.Cache = (*Cache)(nil)
