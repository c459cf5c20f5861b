package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"moodtunes/internal/config"
	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

// DefaultTopN is the count callers use when a request names none
const DefaultTopN = 5

// DefaultMood is used for emotions the mood table does not know
const DefaultMood = "happy"

// estimatedSongsPerEmotion is the catalog size advertised by the stats endpoint
const estimatedSongsPerEmotion = 10_000_000

// ErrUnsupportedLanguage is returned when a language filter names a language
// the engine does not search
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrInvalidTopN is returned for a negative result count
var ErrInvalidTopN = errors.New("top_n must not be negative")

var emotionMoods = map[string]string{
	"Happy":    "happy",
	"Sad":      "sad",
	"Angry":    "energetic",
	"Neutral":  "calm",
	"Surprise": "exciting",
	"Fear":     "dark",
	"Disgust":  "intense",
}

// emotionOrder is the order emotions are listed in stats
var emotionOrder = []string{"Happy", "Sad", "Angry", "Neutral", "Surprise", "Fear", "Disgust"}

// MoodForEmotion maps a classifier emotion label to a search mood
func MoodForEmotion(emotion string) string {
	if mood, ok := emotionMoods[emotion]; ok {
		return mood
	}
	return DefaultMood
}

// PoolAggregator builds the candidate pool for a mood across languages
type PoolAggregator interface {
	Aggregate(ctx context.Context, mood string, languages []string, maxPerLanguage int) []*models.VideoCandidate
}

// RecommendRequest is a single recommendation call
type RecommendRequest struct {
	Emotion    string
	Confidence float64
	TopN       int    // 0 yields no recommendations
	Language   string // optional filter
}

// Recommender selects and ranks music videos for a detected emotion
type Recommender struct {
	aggregator PoolAggregator
	tuning     *config.Tuning
}

// NewRecommender creates a recommender; a nil tuning uses the defaults
func NewRecommender(aggregator PoolAggregator, tuning *config.Tuning) *Recommender {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	return &Recommender{
		aggregator: aggregator,
		tuning:     tuning,
	}
}

// Recommend returns up to req.TopN recommendations ordered by rank score.
// An empty pool is a normal outcome and yields an empty slice. When ctx ends
// while the pool is being gathered its error is returned, even if some
// languages already produced candidates.
func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest) ([]models.RecommendationRecord, error) {
	topN := req.TopN
	if topN < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
	}
	confidence := clamp(req.Confidence, 0, 1)

	language := ""
	if req.Language != "" {
		canonical, ok := models.CanonicalLanguage(req.Language)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
		}
		language = canonical
	}

	if topN == 0 {
		return []models.RecommendationRecord{}, nil
	}

	mood := MoodForEmotion(req.Emotion)
	languages := r.searchLanguages(language)

	slog.Info("Building recommendations",
		"emotion", req.Emotion,
		"mood", mood,
		"confidence", confidence,
		"top_n", topN,
		"languages", languages,
	)

	pool := r.aggregator.Aggregate(ctx, mood, languages, r.tuning.PerLanguageResults)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("gathering candidates for %s: %w", mood, err)
	}
	if len(pool) == 0 {
		slog.Warn("No videos found for mood", "mood", mood)
		metrics.EmptyRecommendations.WithLabelValues(mood).Inc()
		return []models.RecommendationRecord{}, nil
	}

	for _, v := range pool {
		v.Emotion = req.Emotion
		v.MoodMatchScore = confidence
	}

	selected := pool
	if language != "" {
		selected = preferLanguage(pool, language, topN, r.tuning.PreferredQuota)
	}

	selected = ensureDiversity(selected, topN, r.tuning.DiversityLanguages)

	ranked := make([]*models.VideoCandidate, len(selected))
	copy(ranked, selected)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore() > ranked[j].RankScore()
	})
	ranked = truncate(ranked, topN)

	records := make([]models.RecommendationRecord, 0, len(ranked))
	for _, v := range ranked {
		records = append(records, formatRecommendation(v))
	}

	label := language
	if label == "" {
		label = "all"
	}
	metrics.RecommendationsServed.WithLabelValues(req.Emotion, label).Add(float64(len(records)))

	return records, nil
}

// searchLanguages returns the requested language plus a few others for
// variety, or every supported language when nothing was requested
func (r *Recommender) searchLanguages(language string) []string {
	if language == "" {
		languages := make([]string, len(models.SupportedLanguages))
		copy(languages, models.SupportedLanguages)
		return languages
	}

	languages := []string{language}
	for _, other := range models.SupportedLanguages {
		if len(languages) > r.tuning.ExtraLanguages {
			break
		}
		if other != language {
			languages = append(languages, other)
		}
	}
	return languages
}

// Languages returns the supported languages in query order
func (r *Recommender) Languages() []string {
	languages := make([]string, len(models.SupportedLanguages))
	copy(languages, models.SupportedLanguages)
	return languages
}

// SongCountByEmotion returns the estimated catalog size per emotion
func (r *Recommender) SongCountByEmotion() map[string]int {
	counts := make(map[string]int, len(emotionOrder))
	for _, emotion := range emotionOrder {
		counts[emotion] = estimatedSongsPerEmotion
	}
	return counts
}

// Emotions returns the emotion labels the mood table knows
func Emotions() []string {
	emotions := make([]string, len(emotionOrder))
	copy(emotions, emotionOrder)
	return emotions
}

// Moods returns every search mood the emotion table can produce
func Moods() []string {
	moods := make([]string, 0, len(emotionOrder))
	for _, emotion := range emotionOrder {
		moods = append(moods, emotionMoods[emotion])
	}
	return moods
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
