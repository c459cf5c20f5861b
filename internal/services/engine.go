package services

import (
	"moodtunes/internal/cache"
	"moodtunes/internal/config"
)

// NewEngine chains search, aggregation and selection over provider and resultCache
func NewEngine(provider SearchProvider, resultCache cache.ResultCache, tuning *config.Tuning) *Recommender {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}

	search := NewMusicSearchService(provider, resultCache)
	aggregator := NewAggregator(search,
		WithCallInterval(tuning.CallInterval),
		WithConcurrency(tuning.FetchConcurrency),
	)
	return NewRecommender(aggregator, tuning)
}
