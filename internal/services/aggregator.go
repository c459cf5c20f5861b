package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

// DefaultCallInterval is the minimum spacing between provider calls
const DefaultCallInterval = 100 * time.Millisecond

// VideoSearcher finds music videos for a single (mood, language) pair
type VideoSearcher interface {
	Search(ctx context.Context, mood, language string, maxResults int) ([]*models.VideoCandidate, error)
}

// Aggregator fans a mood out over several languages and merges the results
// into one deduplicated pool ordered by popularity
type Aggregator struct {
	searcher    VideoSearcher
	limiter     *rate.Limiter
	concurrency int
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithCallInterval sets the minimum spacing between searches; zero disables throttling
func WithCallInterval(interval time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if interval <= 0 {
			a.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		a.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithConcurrency sets how many languages are searched at once
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewAggregator creates an aggregator that searches one language at a time
// with DefaultCallInterval between calls unless configured otherwise
func NewAggregator(searcher VideoSearcher, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		searcher:    searcher,
		limiter:     rate.NewLimiter(rate.Every(DefaultCallInterval), 1),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate searches every language for the mood and returns the merged pool.
// A language that fails contributes nothing; the rest still count.
func (a *Aggregator) Aggregate(ctx context.Context, mood string, languages []string, maxPerLanguage int) []*models.VideoCandidate {
	// One slot per language keeps merge order equal to query order
	slots := make([][]*models.VideoCandidate, len(languages))

	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, language := range languages {
		g.Go(func() error {
			videos, err := a.searchLanguage(ctx, mood, language, maxPerLanguage)
			if err != nil {
				slog.Warn("Language search failed", "mood", mood, "language", language, "error", err)
				metrics.LanguageFetchFailures.WithLabelValues(language).Inc()
				return nil
			}
			slots[i] = videos
			return nil
		})
	}
	_ = g.Wait()

	return mergeByPopularity(slots)
}

// searchLanguage runs one throttled search and tags the results with their
// searched bucket and inferred language
func (a *Aggregator) searchLanguage(ctx context.Context, mood, language string, maxResults int) (videos []*models.VideoCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			videos, err = nil, fmt.Errorf("panic searching %s: %v", language, r)
		}
	}()

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	found, err := a.searcher.Search(ctx, mood, language, maxResults)
	if err != nil {
		return nil, err
	}

	videos = make([]*models.VideoCandidate, 0, len(found))
	for _, v := range found {
		if v == nil {
			continue
		}
		c := v.Clone()
		c.SearchedLanguage = language
		c.Language = InferLanguage(c)
		videos = append(videos, c)
	}

	slog.Debug("Fetched language results", "mood", mood, "language", language, "count", len(videos))
	return videos, nil
}

// mergeByPopularity concatenates the slots in order, keeps the first
// occurrence of each ID and sorts by view count, highest first
func mergeByPopularity(slots [][]*models.VideoCandidate) []*models.VideoCandidate {
	seen := make(map[string]struct{})
	merged := make([]*models.VideoCandidate, 0)

	for _, videos := range slots {
		for _, v := range videos {
			if _, ok := seen[v.ID]; ok {
				continue
			}
			seen[v.ID] = struct{}{}
			merged = append(merged, v)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ViewCount > merged[j].ViewCount
	})
	return merged
}
