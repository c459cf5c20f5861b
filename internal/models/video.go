package models

import (
	"strings"
	"time"
)

// MusicCategoryID is the provider category that marks a video as music
const MusicCategoryID = "10"

// SupportedLanguages lists every language the engine fans out over, in query order
var SupportedLanguages = []string{"English", "Hindi", "Punjabi", "Tamil", "Telugu", "Korean", "Spanish"}

// DefaultLanguage is assigned when no language keyword matches a video
const DefaultLanguage = "English"

// VideoCandidate represents one music video returned by the search provider
type VideoCandidate struct {
	// Provider identifiers
	ID       string `json:"id" bson:"id"`
	EmbedURL string `json:"embed_url" bson:"embed_url"`
	WatchURL string `json:"watch_url" bson:"watch_url"`

	// Snippet metadata
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	ChannelTitle string    `json:"channel_title" bson:"channel_title"`
	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
	ThumbnailURL string    `json:"thumbnail" bson:"thumbnail"`
	CategoryID   string    `json:"category_id" bson:"category_id"`
	Duration     string    `json:"duration" bson:"duration"` // ISO-8601, e.g. PT3M21S

	// Statistics
	ViewCount int64 `json:"view_count" bson:"view_count"`
	LikeCount int64 `json:"like_count" bson:"like_count"`

	// Set while building recommendations
	SearchedLanguage string  `json:"searched_language,omitempty" bson:"-"`
	Language         string  `json:"language,omitempty" bson:"-"`
	Emotion          string  `json:"emotion,omitempty" bson:"-"`
	MoodMatchScore   float64 `json:"mood_match_score,omitempty" bson:"-"`
}

// IsMusic reports whether the provider filed the video under the music category
func (v *VideoCandidate) IsMusic() bool {
	return v.CategoryID == MusicCategoryID
}

// RankScore is the popularity weighted by how well the video matches the mood
func (v *VideoCandidate) RankScore() float64 {
	return float64(v.ViewCount) * v.MoodMatchScore
}

// Clone returns a copy that can be stamped without touching cached data
func (v *VideoCandidate) Clone() *VideoCandidate {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CloneCandidates copies every candidate in the slice
func CloneCandidates(videos []*VideoCandidate) []*VideoCandidate {
	if videos == nil {
		return nil
	}
	out := make([]*VideoCandidate, 0, len(videos))
	for _, v := range videos {
		if v != nil {
			out = append(out, v.Clone())
		}
	}
	return out
}

// CanonicalLanguage returns the supported spelling of a language name
func CanonicalLanguage(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, lang := range SupportedLanguages {
		if strings.EqualFold(lang, trimmed) {
			return lang, true
		}
	}
	return "", false
}
