package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Options selects which result cache tiers are built
type Options struct {
	TTL       time.Duration
	MaxItems  int             // in-process cap, 0 = unbounded
	ValkeyURL string          // empty skips the shared tier
	Mongo     *mongo.Database // nil skips the persistent tier
}

// NewResultCache builds the tiered result cache: in-process first, then
// Valkey and MongoDB when configured. The returned close function releases
// the Valkey connection.
func NewResultCache(ctx context.Context, opts Options) (*TieredResultCache, func() error, error) {
	var memoryOpts []MemoryOption
	if opts.MaxItems > 0 {
		memoryOpts = append(memoryOpts, WithMaxItems(opts.MaxItems))
	}
	tiers := []ResultCache{NewMemoryResultCache(opts.TTL, memoryOpts...)}
	closeFn := func() error { return nil }

	if opts.ValkeyURL != "" {
		store, err := NewValkeyCache(opts.ValkeyURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize valkey cache: %w", err)
		}
		tiers = append(tiers, NewStoreResultCache(store, opts.TTL))
		closeFn = store.Close
		slog.Info("Valkey result cache enabled")
	}

	if opts.Mongo != nil {
		tiers = append(tiers, NewPersistentResultCache(ctx, opts.Mongo, opts.TTL))
		slog.Info("MongoDB result cache enabled", "database", opts.Mongo.Name())
	}

	return NewTieredResultCache(tiers...), closeFn, nil
}
