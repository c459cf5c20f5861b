package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"moodtunes/internal/cache"
	"moodtunes/internal/models"
)

// MusicSearchService turns a (mood, language) pair into music videos,
// serving repeated pairs from the result cache
type MusicSearchService struct {
	provider SearchProvider
	cache    cache.ResultCache
	group    singleflight.Group
}

// NewMusicSearchService creates a search service over provider and resultCache
func NewMusicSearchService(provider SearchProvider, resultCache cache.ResultCache) *MusicSearchService {
	return &MusicSearchService{
		provider: provider,
		cache:    resultCache,
	}
}

// Search returns up to maxResults music videos for the mood in the given language.
// Provider failures are logged and yield an empty result; the error return
// is reserved for a cancelled context.
func (s *MusicSearchService) Search(ctx context.Context, mood, language string, maxResults int) ([]*models.VideoCandidate, error) {
	if maxResults <= 0 {
		return []*models.VideoCandidate{}, nil
	}

	if cached, ok := s.cache.Get(ctx, mood, language); ok && len(cached) > 0 {
		slog.Debug("Using cached results", "mood", mood, "language", language, "count", len(cached))
		return truncate(cached, maxResults), nil
	}

	// Identical concurrent misses share one provider round trip. The shared
	// call outlives any single caller; the provider timeout bounds it.
	key := cache.ResultKey(mood, language) + fmt.Sprintf(":%d", maxResults)
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (videos interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Video search panicked", "mood", mood, "language", language, "panic", r)
				videos = []*models.VideoCandidate{}
			}
		}()

		if cached, ok := s.cache.Get(shared, mood, language); ok && len(cached) > 0 {
			return cached, nil
		}
		return s.fetch(shared, mood, language, maxResults), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return truncate(models.CloneCandidates(res.Val.([]*models.VideoCandidate)), maxResults), nil
	}
}

// fetch runs one provider search plus the batched detail lookups and caches
// the music-only list before truncation
func (s *MusicSearchService) fetch(ctx context.Context, mood, language string, maxResults int) []*models.VideoCandidate {
	query := fmt.Sprintf("%s %s song", mood, SearchKeyword(language))

	limit := maxResults
	if max := s.provider.MaxResultsPerSearch(); max > 0 && limit > max {
		limit = max
	}

	ids, err := s.provider.SearchByQuery(ctx, SearchRequest{
		Query:      query,
		CategoryID: models.MusicCategoryID,
		MaxResults: limit,
		Order:      "relevance",
		SafeSearch: "none",
	})
	if err != nil {
		slog.Warn("Video search failed", "query", query, "error", err)
		return []*models.VideoCandidate{}
	}
	if len(ids) == 0 {
		slog.Warn("No search results", "query", query)
		return []*models.VideoCandidate{}
	}

	videos := s.fetchDetails(ctx, ids)

	music := make([]*models.VideoCandidate, 0, len(videos))
	for _, v := range videos {
		if v.IsMusic() {
			music = append(music, v)
		}
	}

	s.cache.Put(ctx, mood, language, music)
	return music
}

// fetchDetails resolves ids in sequential batches no larger than the provider
// allows. A failed batch is skipped so the others still count.
func (s *MusicSearchService) fetchDetails(ctx context.Context, ids []string) []*models.VideoCandidate {
	batchSize := s.provider.MaxIDsPerLookup()
	if batchSize <= 0 {
		batchSize = len(ids)
	}

	videos := make([]*models.VideoCandidate, 0, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		batch, err := s.provider.FetchDetails(ctx, ids[start:end])
		if err != nil {
			slog.Warn("Video detail lookup failed", "batch_start", start, "batch_size", end-start, "error", err)
			continue
		}
		for _, v := range batch {
			if v != nil {
				videos = append(videos, v)
			}
		}
	}
	return videos
}

func truncate(videos []*models.VideoCandidate, n int) []*models.VideoCandidate {
	if len(videos) > n {
		return videos[:n]
	}
	return videos
}
