package cache

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"reciperag/internal/domain"
	"reciperag/internal/logging"
	"reciperag/internal/port"
)

// QueryCache is a bounded LRU of retrieval results with a per-entry TTL.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string // least recently used first
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	docs    []domain.Document
	storeAt time.Time
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, k int) string {
	return strconv.Itoa(k) + "\x00" + query
}

// Get returns a copy of the cached documents for (query, k).
func (c *QueryCache) Get(query string, k int) ([]domain.Document, bool) {
	key := cacheKey(query, k)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storeAt) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return cloneDocs(entry.docs), true
}

func (c *QueryCache) Put(query string, k int, docs []domain.Document) {
	key := cacheKey(query, k)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.moveToEnd(key)
	} else {
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &cacheEntry{docs: cloneDocs(docs), storeAt: c.now()}
}

// Invalidate drops every entry, e.g. after the index is rebuilt.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	delete(c.entries, c.order[0])
	c.order = c.order[1:]
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func cloneDocs(docs []domain.Document) []domain.Document {
	if docs == nil {
		return nil
	}
	out := make([]domain.Document, len(docs))
	copy(out, docs)
	return out
}

// CachedBackend serves repeated queries from a QueryCache. Failed lookups
// are never stored.
type CachedBackend struct {
	backend port.DocumentBackend
	cache   *QueryCache
	logger  *zap.Logger
}

func NewCachedBackend(backend port.DocumentBackend, cache *QueryCache, logger *zap.Logger) *CachedBackend {
	return &CachedBackend{
		backend: backend,
		cache:   cache,
		logger:  logging.OrNop(logger),
	}
}

func (b *CachedBackend) RetrieveDocuments(query string, numResults int) ([]domain.Document, error) {
	if docs, hit := b.cache.Get(query, numResults); hit {
		b.logger.Debug("query cache hit", zap.String("query", query), zap.Int("num_results", numResults))
		return docs, nil
	}

	docs, err := b.backend.RetrieveDocuments(query, numResults)
	if err != nil {
		return nil, err
	}

	b.cache.Put(query, numResults, docs)
	return docs, nil
}

func (b *CachedBackend) RequiredEnvVars() []string {
	return b.backend.RequiredEnvVars()
}
