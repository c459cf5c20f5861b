package models

// Genre is the only genre the engine reports; every result is a music video
const Genre = "Music"

// EmotionResult is what the facial emotion classifier hands to the engine
type EmotionResult struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	AllEmotions  map[string]float64 `json:"all_emotions,omitempty"`
	FaceDetected bool               `json:"face_detected"`
	Error        string             `json:"error,omitempty"` // set by the classifier when no face was found
}

// RecommendationRecord is a single formatted recommendation returned to clients
type RecommendationRecord struct {
	SongName            string  `json:"song_name"`
	Artist              string  `json:"artist"`
	Language            string  `json:"language"`
	Emotion             string  `json:"emotion"`
	Genre               string  `json:"genre"`
	YouTubeID           string  `json:"youtube_id"`
	YouTubeURL          string  `json:"youtube_url"`
	EmbedURL            string  `json:"embed_url"`
	Thumbnail           string  `json:"thumbnail"`
	ViewCount           int64   `json:"view_count"`
	LikeCount           int64   `json:"like_count"`
	RecommendationScore float64 `json:"recommendation_score"`
	ChannelTitle        string  `json:"channel_title"`
}
