package scenario

import (
	"context"
	"sync"

	"interrogation/internal/game"
)

// CachedStore memoises successful loads of another store for the life of
// the process. Failures are not cached.
type CachedStore struct {
	next Store

	mu        sync.Mutex
	scenarios map[string]*game.Scenario
}

func NewCachedStore(next Store) *CachedStore {
	return &CachedStore{next: next, scenarios: make(map[string]*game.Scenario)}
}

func (c *CachedStore) Load(ctx context.Context, id string) (*game.Scenario, error) {
	c.mu.Lock()
	s, ok := c.scenarios[id]
	c.mu.Unlock()
	if ok {
		return s, nil
	}

	s, err := c.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.scenarios[id]; ok {
		return cached, nil
	}
	c.scenarios[id] = s
	return s, nil
}
