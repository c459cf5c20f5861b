package services

import (
	"context"
	"fmt"

	"moodtunes/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockSearchProvider is a mock implementation of SearchProvider for testing
type MockSearchProvider struct {
	mock.Mock
	maxResults int
	maxIDs     int
}

// NewMockSearchProvider creates a mock with the YouTube per-call limits
func NewMockSearchProvider() *MockSearchProvider {
	return &MockSearchProvider{maxResults: 50, maxIDs: 50}
}

func (m *MockSearchProvider) SearchByQuery(ctx context.Context, req SearchRequest) ([]string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSearchProvider) FetchDetails(ctx context.Context, ids []string) ([]*models.VideoCandidate, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VideoCandidate), args.Error(1)
}

func (m *MockSearchProvider) MaxResultsPerSearch() int { return m.maxResults }

func (m *MockSearchProvider) MaxIDsPerLookup() int { return m.maxIDs }

// MockResultCache is a mock implementation of cache.ResultCache for testing
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, mood, language string) ([]*models.VideoCandidate, bool) {
	args := m.Called(ctx, mood, language)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]*models.VideoCandidate), args.Bool(1)
}

func (m *MockResultCache) Put(ctx context.Context, mood, language string, videos []*models.VideoCandidate) {
	m.Called(ctx, mood, language, videos)
}

// VideoBuilder provides a fluent interface for creating test candidates
type VideoBuilder struct {
	video *models.VideoCandidate
}

// NewVideoBuilder creates a music video candidate with the given ID
func NewVideoBuilder(id string) *VideoBuilder {
	return &VideoBuilder{
		video: &models.VideoCandidate{
			ID:           id,
			Title:        "Song " + id,
			ChannelTitle: "Channel " + id,
			CategoryID:   models.MusicCategoryID,
			EmbedURL:     "https://www.youtube.com/embed/" + id,
			WatchURL:     "https://www.youtube.com/watch?v=" + id,
			ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", id),
		},
	}
}

func (b *VideoBuilder) WithTitle(title string) *VideoBuilder {
	b.video.Title = title
	return b
}

func (b *VideoBuilder) WithChannel(channel string) *VideoBuilder {
	b.video.ChannelTitle = channel
	return b
}

func (b *VideoBuilder) WithDescription(description string) *VideoBuilder {
	b.video.Description = description
	return b
}

func (b *VideoBuilder) WithViews(views int64) *VideoBuilder {
	b.video.ViewCount = views
	return b
}

func (b *VideoBuilder) WithCategory(category string) *VideoBuilder {
	b.video.CategoryID = category
	return b
}

// WithLanguage sets the inferred language directly
func (b *VideoBuilder) WithLanguage(language string) *VideoBuilder {
	b.video.Language = language
	return b
}

func (b *VideoBuilder) Build() *models.VideoCandidate {
	return b.video.Clone()
}
