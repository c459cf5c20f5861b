package testutil

import (
	"context"

	"moodtunes/internal/models"
	"moodtunes/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockRecommender is a mock implementation of handlers.Recommender for testing
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, req services.RecommendRequest) ([]models.RecommendationRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecommendationRecord), args.Error(1)
}

func (m *MockRecommender) Languages() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockRecommender) SongCountByEmotion() map[string]int {
	args := m.Called()
	return args.Get(0).(map[string]int)
}

// Helper functions for setting up mock expectations

// ExpectRecommend sets up expectation for Recommend with the given request
func ExpectRecommend(m *MockRecommender, req services.RecommendRequest, records []models.RecommendationRecord, err error) {
	m.On("Recommend", mock.Anything, req).Return(records, err)
}

// ExpectLanguages sets up expectation for Languages
func ExpectLanguages(m *MockRecommender) {
	m.On("Languages").Return(models.SupportedLanguages)
}
