//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtunes/internal/cache"
	"moodtunes/internal/models"
)

func sampleCandidates() []*models.VideoCandidate {
	return []*models.VideoCandidate{
		{ID: "a", Title: "Song A", CategoryID: models.MusicCategoryID, ViewCount: 10},
		{ID: "b", Title: "Song B", CategoryID: models.MusicCategoryID, ViewCount: 20},
	}
}

func TestValkeyResultCache(t *testing.T) {
	url := os.Getenv("VALKEY_URL")
	if url == "" {
		t.Skip("VALKEY_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := cache.NewValkeyCache(url)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Health(ctx))

	rc := cache.NewStoreResultCache(store, time.Minute)
	mood := "integration-" + uuid.NewString()

	_, ok := rc.Get(ctx, mood, "English")
	assert.False(t, ok)

	rc.Put(ctx, mood, "English", sampleCandidates())
	got, ok := rc.Get(ctx, mood, "English")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestMongoResultCache(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := models.NewDatabase(ctx, url, "moodtunes_integration")
	require.NoError(t, err)
	defer db.Close(context.Background())

	rc := cache.NewPersistentResultCache(ctx, db.DB, time.Minute)
	mood := "integration-" + uuid.NewString()

	rc.Put(ctx, mood, "Hindi", sampleCandidates())
	got, ok := rc.Get(ctx, mood, "Hindi")
	require.True(t, ok)
	assert.Equal(t, "a", got[0].ID)

	stats, err := rc.Stats(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stats)
}

func TestTieredCache_BackfillsFromMongo(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := models.NewDatabase(ctx, url, "moodtunes_integration")
	require.NoError(t, err)
	defer db.Close(context.Background())

	persistent := cache.NewPersistentResultCache(ctx, db.DB, time.Minute)
	mood := "integration-" + uuid.NewString()
	persistent.Put(ctx, mood, "Tamil", sampleCandidates())

	memory := cache.NewMemoryResultCache(time.Minute)
	tiered := cache.NewTieredResultCache(memory, persistent)

	_, ok := tiered.Get(ctx, mood, "Tamil")
	require.True(t, ok)
	assert.Equal(t, 1, memory.Len())
}
