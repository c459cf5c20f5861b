package cache

import (
	"context"
	"log/slog"

	"moodtunes/internal/models"
)

// TieredResultCache checks tiers fastest first and back-fills the faster
// tiers when a slower one hits. Put writes through to every tier.
type TieredResultCache struct {
	tiers []ResultCache
}

// NewTieredResultCache orders tiers as given; nil tiers are skipped
func NewTieredResultCache(tiers ...ResultCache) *TieredResultCache {
	t := &TieredResultCache{}
	for _, tier := range tiers {
		if tier != nil {
			t.tiers = append(t.tiers, tier)
		}
	}
	return t
}

func (t *TieredResultCache) Get(ctx context.Context, mood, language string) ([]*models.VideoCandidate, bool) {
	for i, tier := range t.tiers {
		videos, ok := tier.Get(ctx, mood, language)
		if !ok {
			continue
		}
		for _, faster := range t.tiers[:i] {
			faster.Put(ctx, mood, language, videos)
		}
		return videos, true
	}
	return nil, false
}

func (t *TieredResultCache) Put(ctx context.Context, mood, language string, videos []*models.VideoCandidate) {
	for _, tier := range t.tiers {
		tier.Put(ctx, mood, language, videos)
	}
}

// Tiers returns how many tiers are configured
func (t *TieredResultCache) Tiers() int {
	return len(t.tiers)
}

// Stats reports the tier count plus whatever the in-process and MongoDB
// tiers can summarize. A failing tier is logged and left out.
func (t *TieredResultCache) Stats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{"tiers": len(t.tiers)}
	for _, tier := range t.tiers {
		switch c := tier.(type) {
		case *MemoryResultCache:
			stats["memory_entries"] = c.Len()
		case *StoreResultCache:
			stats["valkey"] = true
		case *PersistentResultCache:
			persistent, err := c.Stats(ctx)
			if err != nil {
				slog.Warn("Failed to read persistent cache stats", "error", err)
				continue
			}
			stats["persistent"] = persistent
		}
	}
	return stats
}
