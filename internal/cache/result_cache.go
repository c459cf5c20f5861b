package cache

import (
	"container/list"
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

// DefaultResultTTL is how long provider results for a (mood, language) pair stay fresh
const DefaultResultTTL = time.Hour

// ResultCache stores provider results per (mood, language) pair.
// Implementations must be safe for concurrent use; concurrent Puts on the
// same pair may race and the last write wins.
type ResultCache interface {
	// Get returns the cached videos, or false when absent or expired
	Get(ctx context.Context, mood, language string) ([]*models.VideoCandidate, bool)

	// Put stores videos for the pair, replacing any previous entry
	Put(ctx context.Context, mood, language string, videos []*models.VideoCandidate)
}

// ResultKey derives the cache key for a (mood, language) pair.
// The pair is hashed exactly as given; callers normalize before calling.
func ResultKey(mood, language string) string {
	sum := md5.Sum([]byte(mood + "_" + language))
	return hex.EncodeToString(sum[:])
}

// MemoryResultCache is an in-process ResultCache with lazy expiry.
// An expired entry is removed by the lookup that finds it; there is no sweeper.
type MemoryResultCache struct {
	ttl      time.Duration
	maxItems int // 0 means unbounded
	items    map[string]*list.Element
	lru      *list.List
	now      func() time.Time
	mu       sync.Mutex
}

type resultItem struct {
	key        string
	videos     []*models.VideoCandidate
	insertedAt time.Time
}

// MemoryOption configures a MemoryResultCache
type MemoryOption func(*MemoryResultCache)

// WithMaxItems caps the number of entries, evicting the least recently used
func WithMaxItems(n int) MemoryOption {
	return func(c *MemoryResultCache) {
		if n > 0 {
			c.maxItems = n
		}
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryResultCache) {
		c.now = now
	}
}

// NewMemoryResultCache creates a cache whose entries live for ttl after insertion
func NewMemoryResultCache(ttl time.Duration, opts ...MemoryOption) *MemoryResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	c := &MemoryResultCache{
		ttl:   ttl,
		items: make(map[string]*list.Element),
		lru:   list.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached videos for the pair
func (c *MemoryResultCache) Get(_ context.Context, mood, language string) ([]*models.VideoCandidate, bool) {
	key := ResultKey(mood, language)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.items[key]
	if !found {
		metrics.CacheLookupsTotal.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}

	item := elem.Value.(*resultItem)
	if c.now().Sub(item.insertedAt) >= c.ttl {
		c.removeElement(elem)
		metrics.CacheLookupsTotal.WithLabelValues("memory", "expired").Inc()
		return nil, false
	}

	c.lru.MoveToFront(elem)
	metrics.CacheLookupsTotal.WithLabelValues("memory", "hit").Inc()
	return models.CloneCandidates(item.videos), true
}

// Put stores a copy of videos for the pair
func (c *MemoryResultCache) Put(_ context.Context, mood, language string, videos []*models.VideoCandidate) {
	key := ResultKey(mood, language)
	stored := models.CloneCandidates(videos)
	if stored == nil {
		stored = []*models.VideoCandidate{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.items[key]; found {
		item := elem.Value.(*resultItem)
		item.videos = stored
		item.insertedAt = c.now()
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(&resultItem{
		key:        key,
		videos:     stored,
		insertedAt: c.now(),
	})
	c.items[key] = elem

	for c.maxItems > 0 && c.lru.Len() > c.maxItems {
		c.removeElement(c.lru.Back())
	}
}

// Len returns the number of entries, including expired ones not yet looked up
func (c *MemoryResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// removeElement drops an entry; callers hold mu
func (c *MemoryResultCache) removeElement(elem *list.Element) {
	item := elem.Value.(*resultItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}
