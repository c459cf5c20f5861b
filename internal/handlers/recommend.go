package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moodtunes/internal/handlers/render"
	"moodtunes/internal/models"
	"moodtunes/internal/services"
)

// Recommender is the engine the handlers call
type Recommender interface {
	Recommend(ctx context.Context, req services.RecommendRequest) ([]models.RecommendationRecord, error)
	Languages() []string
	SongCountByEmotion() map[string]int
}

// RecommendRequest is the body of POST /api/recommend. Emotion must be
// present but may be any label; unknown labels map to the default mood.
type RecommendRequest struct {
	Emotion    *string  `json:"emotion"`
	Confidence *float64 `json:"confidence,omitempty"` // defaults to 1.0
	Language   string   `json:"language,omitempty"`
	TopN       *int     `json:"top_n,omitempty"` // defaults to services.DefaultTopN
}

// DetectAndRecommendRequest is the body of POST /api/detect-and-recommend.
// The emotion result comes from the face classifier running upstream.
type DetectAndRecommendRequest struct {
	EmotionResult *models.EmotionResult `json:"emotion_result" binding:"required"`
	Language      string                `json:"language,omitempty"`
	TopN          *int                  `json:"top_n,omitempty"`
}

// CacheStats reports result cache statistics for /api/stats
type CacheStats interface {
	Stats(ctx context.Context) map[string]interface{}
}

// RecommendHandler serves the recommendation API
type RecommendHandler struct {
	recommender Recommender
	timeout     time.Duration
	cacheStats  CacheStats
}

// NewRecommendHandler creates a handler. A nil recommender means the engine
// is not configured; recommendation calls then answer 503.
func NewRecommendHandler(recommender Recommender, timeout time.Duration) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		timeout:     timeout,
	}
}

// WithCacheStats adds result cache statistics to /api/stats
func (h *RecommendHandler) WithCacheStats(stats CacheStats) *RecommendHandler {
	h.cacheStats = stats
	return h
}

func topNOrDefault(topN *int) int {
	if topN == nil {
		return services.DefaultTopN
	}
	return *topN
}

// Recommend handles POST /api/recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Emotion == nil {
		render.Error(c, http.StatusBadRequest, "Emotion not provided", render.ValidationError)
		return
	}

	if h.recommender == nil {
		render.NotConfigured(c, nil)
		return
	}

	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	records, ok := h.recommend(c, services.RecommendRequest{
		Emotion:    *req.Emotion,
		Confidence: confidence,
		TopN:       topNOrDefault(req.TopN),
		Language:   req.Language,
	})
	if !ok {
		return
	}

	render.Success(c, gin.H{
		"recommendations": records,
		"count":           len(records),
	})
}

// DetectAndRecommend handles POST /api/detect-and-recommend
func (h *RecommendHandler) DetectAndRecommend(c *gin.Context) {
	var req DetectAndRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.Error(c, http.StatusBadRequest, "No emotion result provided", render.ValidationError)
		return
	}

	result := req.EmotionResult
	if !result.FaceDetected {
		message := result.Error
		if message == "" {
			message = "No face detected in image"
		}
		render.ErrorWith(c, http.StatusBadRequest, message, "", gin.H{"face_detected": false})
		return
	}
	if result.Emotion == "" {
		render.Error(c, http.StatusBadRequest, "Emotion not provided", render.ValidationError)
		return
	}

	detected := gin.H{
		"emotion":      result.Emotion,
		"confidence":   result.Confidence,
		"all_emotions": result.AllEmotions,
	}

	if h.recommender == nil {
		detected["recommendations"] = []models.RecommendationRecord{}
		render.NotConfigured(c, detected)
		return
	}

	records, ok := h.recommend(c, services.RecommendRequest{
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
		TopN:       topNOrDefault(req.TopN),
		Language:   req.Language,
	})
	if !ok {
		return
	}

	detected["recommendations"] = records
	detected["count"] = len(records)
	render.Success(c, detected)
}

// recommend runs the engine under the request timeout and renders any failure
func (h *RecommendHandler) recommend(c *gin.Context, req services.RecommendRequest) ([]models.RecommendationRecord, bool) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	records, err := h.recommender.Recommend(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUnsupportedLanguage), errors.Is(err, services.ErrInvalidTopN):
		render.Error(c, http.StatusBadRequest, err.Error(), render.ValidationError)
		return nil, false
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("Recommendation timed out", "emotion", req.Emotion, "error", err)
		render.Error(c, http.StatusGatewayTimeout, "Recommendation timed out", render.TimeoutError)
		return nil, false
	default:
		slog.Error("Failed to build recommendations", "emotion", req.Emotion, "error", err)
		render.Error(c, http.StatusInternalServerError, "Internal server error: "+err.Error(), render.InternalError)
		return nil, false
	}

	slog.Info("Served recommendations",
		"emotion", req.Emotion,
		"language", req.Language,
		"count", len(records),
		"request_id", c.GetString(RequestIDKey),
	)
	return records, true
}

// Languages handles GET /api/languages
func (h *RecommendHandler) Languages(c *gin.Context) {
	languages := models.SupportedLanguages
	if h.recommender != nil {
		languages = h.recommender.Languages()
	}
	render.Success(c, gin.H{"languages": languages})
}

// Stats handles GET /api/stats
func (h *RecommendHandler) Stats(c *gin.Context) {
	if h.recommender == nil {
		render.NotConfigured(c, nil)
		return
	}

	counts := h.recommender.SongCountByEmotion()
	total := 0
	for _, n := range counts {
		total += n
	}

	stats := gin.H{
		"song_count_by_emotion": counts,
		"languages":             h.recommender.Languages(),
		"total_songs":           total,
	}
	if h.cacheStats != nil {
		stats["cache"] = h.cacheStats.Stats(c.Request.Context())
	}

	render.Success(c, gin.H{"stats": stats})
}

// Health handles GET /api/health
func (h *RecommendHandler) Health(c *gin.Context) {
	render.Success(c, gin.H{
		"youtube_configured": h.recommender != nil,
	})
}
