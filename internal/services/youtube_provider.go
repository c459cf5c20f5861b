package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"moodtunes/internal/config"
	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

// YouTube Data API v3 limits
const (
	youtubeMaxResults = 50
	youtubeMaxIDs     = 50
)

// youtubeProvider implements SearchProvider against the YouTube Data API v3
type youtubeProvider struct {
	client *resty.Client
	apiKey string
}

// YouTubeOption customizes the provider's HTTP client
type YouTubeOption func(*resty.Client)

// WithRetries sets how many times a failed transport call is retried
func WithRetries(count int, wait time.Duration) YouTubeOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(4 * wait)
	}
}

// NewYouTubeProvider creates a provider from cfg. A missing API key is a
// configuration error and the provider is not built.
func NewYouTubeProvider(cfg config.ProviderConfig, opts ...YouTubeOption) (SearchProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider config: %w", err)
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	for _, opt := range opts {
		opt(client)
	}

	return &youtubeProvider{
		client: client,
		apiKey: cfg.APIKey,
	}, nil
}

func (p *youtubeProvider) MaxResultsPerSearch() int { return youtubeMaxResults }

func (p *youtubeProvider) MaxIDsPerLookup() int { return youtubeMaxIDs }

// SearchByQuery calls search.list and returns the video IDs in result order
func (p *youtubeProvider) SearchByQuery(ctx context.Context, req SearchRequest) ([]string, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > youtubeMaxResults {
		maxResults = youtubeMaxResults
	}

	params := map[string]string{
		"part":       "snippet",
		"q":          req.Query,
		"type":       "video",
		"maxResults": strconv.Itoa(maxResults),
	}
	if req.CategoryID != "" {
		params["videoCategoryId"] = req.CategoryID
	}
	if req.Order != "" {
		params["order"] = req.Order
	}
	if req.SafeSearch != "" {
		params["safeSearch"] = req.SafeSearch
	}

	var result youtubeSearchResponse
	if err := p.get(ctx, "search", "/search", params, &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// FetchDetails calls videos.list for up to youtubeMaxIDs IDs
func (p *youtubeProvider) FetchDetails(ctx context.Context, ids []string) ([]*models.VideoCandidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > youtubeMaxIDs {
		return nil, &ProviderError{
			Provider:  "youtube",
			Operation: "videos",
			Message:   fmt.Sprintf("%d ids exceed the per-call limit of %d", len(ids), youtubeMaxIDs),
		}
	}

	params := map[string]string{
		"part": "snippet,statistics,contentDetails",
		"id":   strings.Join(ids, ","),
	}

	var result youtubeVideosResponse
	if err := p.get(ctx, "videos", "/videos", params, &result); err != nil {
		return nil, err
	}

	videos := make([]*models.VideoCandidate, 0, len(result.Items))
	for i := range result.Items {
		videos = append(videos, convertYouTubeVideo(&result.Items[i]))
	}
	return videos, nil
}

// get performs an authenticated GET and decodes the JSON body into out
func (p *youtubeProvider) get(ctx context.Context, operation, path string, params map[string]string, out interface{}) error {
	start := time.Now()

	var apiErr youtubeErrorResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("key", p.apiKey).
		SetResult(out).
		SetError(&apiErr).
		Get(path)

	metrics.ProviderCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(operation, "error").Inc()
		return &ProviderError{
			Provider:  "youtube",
			Operation: operation,
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		metrics.ProviderCallsTotal.WithLabelValues(operation, "error").Inc()
		message := apiErr.Error.Message
		if message == "" {
			message = fmt.Sprintf("API returned status %d", resp.StatusCode())
		}
		return &ProviderError{
			Provider:   "youtube",
			Operation:  operation,
			StatusCode: resp.StatusCode(),
			Message:    message,
		}
	}

	metrics.ProviderCallsTotal.WithLabelValues(operation, "success").Inc()
	return nil
}

// convertYouTubeVideo maps a videos.list item onto a VideoCandidate
func convertYouTubeVideo(item *youtubeVideo) *models.VideoCandidate {
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

	return &models.VideoCandidate{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  publishedAt,
		ThumbnailURL: item.Snippet.Thumbnails.best(),
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		Duration:     item.ContentDetails.Duration,
		CategoryID:   item.Snippet.CategoryID,
		EmbedURL:     "https://www.youtube.com/embed/" + item.ID,
		WatchURL:     "https://www.youtube.com/watch?v=" + item.ID,
	}
}

// parseCount reads a statistics counter; the API sends them as decimal strings
// and omits them when hidden by the uploader
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// YouTube API response structures
type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type youtubeVideosResponse struct {
	Items []youtubeVideo `json:"items"`
}

type youtubeVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string            `json:"title"`
		Description  string            `json:"description"`
		ChannelTitle string            `json:"channelTitle"`
		PublishedAt  string            `json:"publishedAt"`
		CategoryID   string            `json:"categoryId"`
		Thumbnails   youtubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
		LikeCount string `json:"likeCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

type youtubeThumbnail struct {
	URL string `json:"url"`
}

type youtubeThumbnails struct {
	Default youtubeThumbnail `json:"default"`
	Medium  youtubeThumbnail `json:"medium"`
	High    youtubeThumbnail `json:"high"`
}

// best prefers the high resolution thumbnail
func (t youtubeThumbnails) best() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

type youtubeErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
