package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtunes/internal/models"
)

// MockCache implements the byte-level Cache interface in memory
type MockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, &CacheError{Operation: "get", Key: key, Err: assert.AnError}
	}
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = expiration
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.data[key]
	return exists, nil
}

func (m *MockCache) Close() error { return nil }

func (m *MockCache) Health(ctx context.Context) error { return nil }

func sampleVideos(ids ...string) []*models.VideoCandidate {
	videos := make([]*models.VideoCandidate, 0, len(ids))
	for i, id := range ids {
		videos = append(videos, &models.VideoCandidate{
			ID:         id,
			Title:      "Song " + id,
			CategoryID: models.MusicCategoryID,
			ViewCount:  int64(1000 * (i + 1)),
		})
	}
	return videos
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestResultKey(t *testing.T) {
	assert.Equal(t, ResultKey("happy", "Hindi"), ResultKey("happy", "Hindi"))
	assert.Len(t, ResultKey("happy", "Hindi"), 32)

	// No normalization: case matters
	assert.NotEqual(t, ResultKey("happy", "Hindi"), ResultKey("happy", "hindi"))
	assert.NotEqual(t, ResultKey("Happy", "Hindi"), ResultKey("happy", "Hindi"))
	assert.NotEqual(t, ResultKey("sad", "Tamil"), ResultKey("sad", "Telugu"))
}

func TestMemoryResultCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour)

	_, ok := c.Get(ctx, "happy", "English")
	assert.False(t, ok)

	c.Put(ctx, "happy", "English", sampleVideos("a", "b", "c"))

	videos, ok := c.Get(ctx, "happy", "English")
	require.True(t, ok)
	require.Len(t, videos, 3)
	assert.Equal(t, "a", videos[0].ID)
	assert.Equal(t, "c", videos[2].ID)

	_, ok = c.Get(ctx, "happy", "english")
	assert.False(t, ok, "keys are case-sensitive")
}

func TestMemoryResultCache_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryResultCache(time.Hour, WithClock(clock.Now))

	c.Put(ctx, "sad", "Tamil", sampleVideos("x"))

	clock.Advance(59 * time.Minute)
	_, ok := c.Get(ctx, "sad", "Tamil")
	assert.True(t, ok)

	// Reading does not refresh the insertion time
	clock.Advance(time.Minute)
	_, ok = c.Get(ctx, "sad", "Tamil")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is removed by the lookup")
}

func TestMemoryResultCache_ExpiredEntryStaysUntilLookedUp(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryResultCache(time.Second, WithClock(clock.Now))

	c.Put(ctx, "calm", "Korean", sampleVideos("k1"))
	clock.Advance(time.Hour)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, "calm", "Korean")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryResultCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour)

	original := sampleVideos("a")
	c.Put(ctx, "happy", "Hindi", original)
	original[0].Title = "mutated after put"

	first, ok := c.Get(ctx, "happy", "Hindi")
	require.True(t, ok)
	assert.Equal(t, "Song a", first[0].Title)

	first[0].Emotion = "Happy"
	second, ok := c.Get(ctx, "happy", "Hindi")
	require.True(t, ok)
	assert.Empty(t, second[0].Emotion)
}

func TestMemoryResultCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour)

	c.Put(ctx, "dark", "Spanish", sampleVideos("a"))
	c.Put(ctx, "dark", "Spanish", sampleVideos("b", "c"))

	videos, ok := c.Get(ctx, "dark", "Spanish")
	require.True(t, ok)
	require.Len(t, videos, 2)
	assert.Equal(t, "b", videos[0].ID)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryResultCache_MaxItems(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour, WithMaxItems(2))

	c.Put(ctx, "happy", "English", sampleVideos("1"))
	c.Put(ctx, "happy", "Hindi", sampleVideos("2"))

	// Touch English so Hindi becomes least recently used
	_, ok := c.Get(ctx, "happy", "English")
	require.True(t, ok)

	c.Put(ctx, "happy", "Tamil", sampleVideos("3"))

	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(ctx, "happy", "Hindi")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "happy", "English")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "happy", "Tamil")
	assert.True(t, ok)
}

func TestMemoryResultCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := models.SupportedLanguages[i%len(models.SupportedLanguages)]
			c.Put(ctx, "happy", lang, sampleVideos(fmt.Sprintf("v%d", i)))
			c.Get(ctx, "happy", lang)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(models.SupportedLanguages), c.Len())
}

func TestStoreResultCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockCache()
	c := NewStoreResultCache(store, 30*time.Minute)

	_, ok := c.Get(ctx, "energetic", "Punjabi")
	assert.False(t, ok)

	c.Put(ctx, "energetic", "Punjabi", sampleVideos("p1", "p2"))

	key := resultKeyPrefix + ResultKey("energetic", "Punjabi")
	assert.Equal(t, 30*time.Minute, store.ttls[key])

	videos, ok := c.Get(ctx, "energetic", "Punjabi")
	require.True(t, ok)
	require.Len(t, videos, 2)
	assert.Equal(t, "p1", videos[0].ID)
	assert.Equal(t, int64(2000), videos[1].ViewCount)
}

func TestStoreResultCache_BackendErrorIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMockCache()
	c := NewStoreResultCache(store, time.Hour)
	c.Put(ctx, "sad", "Hindi", sampleVideos("a"))

	store.failGet = true
	_, ok := c.Get(ctx, "sad", "Hindi")
	assert.False(t, ok)
}

func TestStoreResultCache_CorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	store := NewMockCache()
	c := NewStoreResultCache(store, time.Hour)

	key := resultKeyPrefix + ResultKey("sad", "Hindi")
	require.NoError(t, store.Set(ctx, key, []byte("{not json"), time.Hour))

	_, ok := c.Get(ctx, "sad", "Hindi")
	assert.False(t, ok)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTieredResultCache_BackfillsFasterTiers(t *testing.T) {
	ctx := context.Background()
	fast := NewMemoryResultCache(time.Hour)
	slow := NewStoreResultCache(NewMockCache(), time.Hour)
	tiered := NewTieredResultCache(fast, nil, slow)

	assert.Equal(t, 2, tiered.Tiers())

	slow.Put(ctx, "intense", "Telugu", sampleVideos("t1"))

	_, ok := fast.Get(ctx, "intense", "Telugu")
	require.False(t, ok)

	videos, ok := tiered.Get(ctx, "intense", "Telugu")
	require.True(t, ok)
	assert.Equal(t, "t1", videos[0].ID)

	videos, ok = fast.Get(ctx, "intense", "Telugu")
	require.True(t, ok)
	assert.Equal(t, "t1", videos[0].ID)
}

func TestTieredResultCache_PutWritesAllTiers(t *testing.T) {
	ctx := context.Background()
	fast := NewMemoryResultCache(time.Hour)
	slow := NewStoreResultCache(NewMockCache(), time.Hour)
	tiered := NewTieredResultCache(fast, slow)

	tiered.Put(ctx, "exciting", "Korean", sampleVideos("k"))

	_, ok := fast.Get(ctx, "exciting", "Korean")
	assert.True(t, ok)
	_, ok = slow.Get(ctx, "exciting", "Korean")
	assert.True(t, ok)
}

func TestNewResultCache_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	c, closeFn, err := NewResultCache(ctx, Options{TTL: time.Hour, MaxItems: 1})
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, 1, c.Tiers())

	c.Put(ctx, "happy", "English", sampleVideos("1"))
	c.Put(ctx, "happy", "Hindi", sampleVideos("2"))

	_, ok := c.Get(ctx, "happy", "English")
	assert.False(t, ok, "max items should evict the older entry")
	videos, ok := c.Get(ctx, "happy", "Hindi")
	require.True(t, ok)
	assert.Equal(t, "2", videos[0].ID)
}

func TestNewResultCache_BadValkeyURL(t *testing.T) {
	_, _, err := NewResultCache(context.Background(), Options{TTL: time.Hour, ValkeyURL: "valkey://"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize valkey cache")
}

func TestTieredResultCache_Stats(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryResultCache(time.Hour)
	tiered := NewTieredResultCache(memory, NewStoreResultCache(NewMockCache(), time.Hour))

	tiered.Put(ctx, "sad", "Korean", sampleVideos("a"))
	tiered.Put(ctx, "sad", "Tamil", sampleVideos("b"))

	stats := tiered.Stats(ctx)
	assert.Equal(t, 2, stats["tiers"])
	assert.Equal(t, 2, stats["memory_entries"])
	assert.Equal(t, true, stats["valkey"])
	assert.NotContains(t, stats, "persistent")
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Operation: "get", Key: "test-key", Err: assert.AnError}

	assert.Equal(t, "cache get failed for key 'test-key': assert.AnError general error for testing", err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestParseValkeyURL(t *testing.T) {
	addr, password, err := parseValkeyURL("valkey://:secret@cache.internal:6379/0")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6379", addr)
	assert.Equal(t, "secret", password)

	_, _, err = parseValkeyURL("valkey://")
	assert.Error(t, err)
}

func BenchmarkMemoryResultCache_Get(b *testing.B) {
	ctx := context.Background()
	c := NewMemoryResultCache(time.Hour)
	for _, lang := range models.SupportedLanguages {
		c.Put(ctx, "happy", lang, sampleVideos("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, "happy", models.SupportedLanguages[i%len(models.SupportedLanguages)])
	}
}
