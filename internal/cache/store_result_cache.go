package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

const resultKeyPrefix = "moodtunes:results:"

// StoreResultCache keeps results in a byte-level Cache such as Valkey.
// Backend errors are logged and reported as misses.
type StoreResultCache struct {
	store Cache
	ttl   time.Duration
	tier  string
}

// NewStoreResultCache serializes results as JSON into store with the given TTL
func NewStoreResultCache(store Cache, ttl time.Duration) *StoreResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &StoreResultCache{store: store, ttl: ttl, tier: "valkey"}
}

func (c *StoreResultCache) Get(ctx context.Context, mood, language string) ([]*models.VideoCandidate, bool) {
	key := resultKeyPrefix + ResultKey(mood, language)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Result cache read failed", "tier", c.tier, "mood", mood, "language", language, "error", err)
		metrics.CacheLookupsTotal.WithLabelValues(c.tier, "error").Inc()
		return nil, false
	}
	if data == nil {
		metrics.CacheLookupsTotal.WithLabelValues(c.tier, "miss").Inc()
		return nil, false
	}

	var videos []*models.VideoCandidate
	if err := json.Unmarshal(data, &videos); err != nil {
		slog.Warn("Discarding undecodable cache entry", "tier", c.tier, "key", key, "error", err)
		_ = c.store.Delete(ctx, key)
		metrics.CacheLookupsTotal.WithLabelValues(c.tier, "error").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues(c.tier, "hit").Inc()
	return videos, true
}

func (c *StoreResultCache) Put(ctx context.Context, mood, language string, videos []*models.VideoCandidate) {
	key := resultKeyPrefix + ResultKey(mood, language)
	if videos == nil {
		videos = []*models.VideoCandidate{}
	}

	data, err := json.Marshal(videos)
	if err != nil {
		slog.Warn("Failed to encode results for cache", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		slog.Warn("Result cache write failed", "tier", c.tier, "mood", mood, "language", language, "error", err)
	}
}
