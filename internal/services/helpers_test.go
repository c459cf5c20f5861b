package services

import (
	"context"
	"sync"

	"moodtunes/internal/models"
)

// fakeSearcher serves canned results per language and records call order
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]*models.VideoCandidate
	errs    map[string]error
	panics  map[string]bool
	calls   []string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]*models.VideoCandidate),
		errs:    make(map[string]error),
		panics:  make(map[string]bool),
	}
}

func (f *fakeSearcher) Search(ctx context.Context, mood, language string, maxResults int) ([]*models.VideoCandidate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, language)
	f.mu.Unlock()

	if f.panics[language] {
		panic("search blew up for " + language)
	}
	if err := f.errs[language]; err != nil {
		return nil, err
	}
	return truncate(f.results[language], maxResults), nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakePool is a PoolAggregator returning a fixed pool
type fakePool struct {
	pool      []*models.VideoCandidate
	mood      string
	languages []string
	perLang   int

	onAggregate func()
}

func (f *fakePool) Aggregate(ctx context.Context, mood string, languages []string, maxPerLanguage int) []*models.VideoCandidate {
	f.mood = mood
	f.languages = languages
	f.perLang = maxPerLanguage
	if f.onAggregate != nil {
		f.onAggregate()
	}
	return models.CloneCandidates(f.pool)
}
