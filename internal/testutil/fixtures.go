package testutil

import (
	"fmt"
	"strings"

	"moodtunes/internal/models"
)

// RecordBuilder provides a fluent interface for creating test recommendations
type RecordBuilder struct {
	record models.RecommendationRecord
}

// NewRecordBuilder creates a record for the given video ID with default values
func NewRecordBuilder(id string) *RecordBuilder {
	return &RecordBuilder{
		record: models.RecommendationRecord{
			SongName:     "Test Song",
			Artist:       "Test Artist",
			Language:     "English",
			Emotion:      "Happy",
			Genre:        models.Genre,
			YouTubeID:    id,
			YouTubeURL:   "https://www.youtube.com/watch?v=" + id,
			EmbedURL:     "https://www.youtube.com/embed/" + id,
			Thumbnail:    fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", id),
			ChannelTitle: "Test Artist",
		},
	}
}

// WithLanguage sets the record language
func (b *RecordBuilder) WithLanguage(language string) *RecordBuilder {
	b.record.Language = language
	return b
}

// WithEmotion sets the record emotion
func (b *RecordBuilder) WithEmotion(emotion string) *RecordBuilder {
	b.record.Emotion = emotion
	return b
}

// WithViews sets the view count and the score for the given confidence
func (b *RecordBuilder) WithViews(views int64, confidence float64) *RecordBuilder {
	b.record.ViewCount = views
	b.record.RecommendationScore = confidence * float64(views) / 1_000_000
	return b
}

func (b *RecordBuilder) Build() models.RecommendationRecord {
	return b.record
}

// Test data constants
const (
	TestVideoID1 = "kJQP7kiw5Fk"
	TestVideoID2 = "JGwWNGJdvx8"
	TestVideoID3 = "hT_nvWreIhg"
)

// CreateTestRecords returns three records in different languages
func CreateTestRecords() []models.RecommendationRecord {
	return []models.RecommendationRecord{
		NewRecordBuilder(TestVideoID1).WithLanguage("Spanish").WithViews(8_000_000_000, 1).Build(),
		NewRecordBuilder(TestVideoID2).WithLanguage("English").WithViews(6_000_000_000, 1).Build(),
		NewRecordBuilder(TestVideoID3).WithLanguage("Hindi").WithViews(3_000_000_000, 1).Build(),
	}
}

// CreateTestEmotionResult returns a classifier result with a detected face
func CreateTestEmotionResult(emotion string, confidence float64) *models.EmotionResult {
	return &models.EmotionResult{
		Emotion:    emotion,
		Confidence: confidence,
		AllEmotions: map[string]float64{
			emotion:   confidence,
			"Neutral": 1 - confidence,
		},
		FaceDetected: true,
	}
}

// YouTubeVideo describes one video served by the fake YouTube API
type YouTubeVideo struct {
	ID         string
	Title      string
	Channel    string
	CategoryID string
	Views      int64
}

// YouTubeSearchResponse creates a mock search.list response
func YouTubeSearchResponse(ids ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]interface{}{
			"id": map[string]string{
				"kind":    "youtube#video",
				"videoId": id,
			},
		})
	}
	return map[string]interface{}{"items": items}
}

// YouTubeVideosResponse creates a mock videos.list response
func YouTubeVideosResponse(videos ...YouTubeVideo) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(videos))
	for _, v := range videos {
		category := v.CategoryID
		if category == "" {
			category = models.MusicCategoryID
		}
		items = append(items, map[string]interface{}{
			"id": v.ID,
			"snippet": map[string]interface{}{
				"title":        v.Title,
				"channelTitle": v.Channel,
				"publishedAt":  "2023-01-01T00:00:00Z",
				"categoryId":   category,
				"thumbnails": map[string]interface{}{
					"high": map[string]string{"url": "https://i.ytimg.com/vi/" + v.ID + "/hqdefault.jpg"},
				},
			},
			"statistics": map[string]string{
				"viewCount": fmt.Sprintf("%d", v.Views),
				"likeCount": fmt.Sprintf("%d", v.Views/100),
			},
			"contentDetails": map[string]string{"duration": "PT3M30S"},
		})
	}
	return map[string]interface{}{"items": items}
}

// FilterYouTubeVideos returns the videos whose IDs appear in the
// comma-separated id parameter of a videos.list call
func FilterYouTubeVideos(idParam string, catalog map[string]YouTubeVideo) []YouTubeVideo {
	var out []YouTubeVideo
	for _, id := range strings.Split(idParam, ",") {
		if v, ok := catalog[id]; ok {
			out = append(out, v)
		}
	}
	return out
}
