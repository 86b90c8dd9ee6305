package zarr

import (
	"context"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CachedStore wraps a Store with a bounded in-memory chunk cache. Entries are
// keyed by the xxhash of the store key and evicted least-frequently-used
// first. Only successful reads are cached; callers must treat returned
// buffers as read-only since hits share the cached backing slice.
type CachedStore struct {
	store      Store
	maxEntries int

	mu     sync.Mutex
	cache  map[uint64][]byte
	usages map[uint64]int
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(store Store, maxEntries int) *CachedStore {
	return &CachedStore{
		store:      store,
		maxEntries: maxEntries,
		cache:      make(map[uint64][]byte),
		usages:     make(map[uint64]int),
	}
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sum := xxhash.Sum64String(key)

	c.mu.Lock()
	if val, ok := c.cache[sum]; ok {
		c.usages[sum]++
		c.mu.Unlock()
		return val, nil
	}
	c.mu.Unlock()

	val, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another reader may have filled the slot while the fetch ran
	if cached, ok := c.cache[sum]; ok {
		c.usages[sum]++
		return cached, nil
	}
	if len(c.cache) >= c.maxEntries {
		c.evict()
	}
	c.cache[sum] = val
	c.usages[sum] = 1
	return val, nil
}

// Len returns the number of cached entries.
func (c *CachedStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

func (c *CachedStore) evict() {
	least := math.MaxInt
	var victim uint64
	for sum, usage := range c.usages {
		if usage < least {
			least = usage
			victim = sum
		}
	}
	delete(c.cache, victim)
	delete(c.usages, victim)
}
