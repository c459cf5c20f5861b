package services

import (
	"strings"

	"moodtunes/internal/models"
)

// ExtractArtist derives an artist name from a video's channel or title.
// Auto-generated "- Topic" channels and VEVO suffixes are stripped; titles
// written as "Song - Artist" are used when the channel gives nothing.
func ExtractArtist(video *models.VideoCandidate) string {
	channel := video.ChannelTitle
	if channel != "" {
		artist := strings.ReplaceAll(channel, " - Topic", "")
		artist = strings.TrimSpace(strings.ReplaceAll(artist, "VEVO", ""))
		if artist != "" {
			return artist
		}
	}

	if _, after, found := strings.Cut(video.Title, " - "); found {
		return strings.TrimSpace(after)
	}

	if channel != "" {
		return channel
	}
	return "Unknown Artist"
}

// formatRecommendation builds the client-facing record for a ranked video
func formatRecommendation(video *models.VideoCandidate) models.RecommendationRecord {
	channel := video.ChannelTitle
	if channel == "" {
		channel = "Unknown"
	}

	return models.RecommendationRecord{
		SongName:            video.Title,
		Artist:              ExtractArtist(video),
		Language:            video.Language,
		Emotion:             video.Emotion,
		Genre:               models.Genre,
		YouTubeID:           video.ID,
		YouTubeURL:          video.WatchURL,
		EmbedURL:            video.EmbedURL,
		Thumbnail:           video.ThumbnailURL,
		ViewCount:           video.ViewCount,
		LikeCount:           video.LikeCount,
		RecommendationScore: video.MoodMatchScore * (float64(video.ViewCount) / 1_000_000),
		ChannelTitle:        channel,
	}
}
