package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtunes/internal/config"
)

func newTestYouTubeProvider(t *testing.T, handler http.HandlerFunc) SearchProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewYouTubeProvider(config.ProviderConfig{
		Name:    "youtube",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}, WithRetries(0, 10*time.Millisecond))
	require.NoError(t, err)
	return provider
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewYouTubeProvider_MissingAPIKey(t *testing.T) {
	_, err := NewYouTubeProvider(config.ProviderConfig{
		Name:    "youtube",
		BaseURL: "https://example.com",
		Timeout: time.Second,
	})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewYouTubeProvider(config.ProviderConfig{
		Name:    "youtube",
		APIKey:  "   ",
		BaseURL: "https://example.com",
		Timeout: time.Second,
	})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewYouTubeProvider_InvalidConfig(t *testing.T) {
	_, err := NewYouTubeProvider(config.ProviderConfig{
		Name:   "youtube",
		APIKey: "key",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider config")
}

func TestYouTubeProvider_SearchByQuery(t *testing.T) {
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "happy hindi song", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "10", q.Get("videoCategoryId"))
		assert.Equal(t, "10", q.Get("maxResults"))
		assert.Equal(t, "relevance", q.Get("order"))
		assert.Equal(t, "none", q.Get("safeSearch"))

		writeJSON(w, http.StatusOK, `{
			"items": [
				{"id": {"kind": "youtube#video", "videoId": "abc"}},
				{"id": {"kind": "youtube#channel"}},
				{"id": {"kind": "youtube#video", "videoId": "def"}}
			]
		}`)
	})

	ids, err := provider.SearchByQuery(context.Background(), SearchRequest{
		Query:      "happy hindi song",
		CategoryID: "10",
		MaxResults: 10,
		Order:      "relevance",
		SafeSearch: "none",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, ids)
}

func TestYouTubeProvider_SearchByQuery_CapsMaxResults(t *testing.T) {
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		writeJSON(w, http.StatusOK, `{"items": []}`)
	})

	ids, err := provider.SearchByQuery(context.Background(), SearchRequest{Query: "calm", MaxResults: 500})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestYouTubeProvider_SearchByQuery_APIError(t *testing.T) {
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
	})

	_, err := provider.SearchByQuery(context.Background(), SearchRequest{Query: "sad"})
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "search", providerErr.Operation)
	assert.Equal(t, http.StatusForbidden, providerErr.StatusCode)
	assert.Equal(t, "quotaExceeded", providerErr.Message)
}

func TestYouTubeProvider_SearchByQuery_ErrorWithoutBody(t *testing.T) {
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := provider.SearchByQuery(context.Background(), SearchRequest{Query: "sad"})

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Contains(t, providerErr.Message, "400")
}

func TestYouTubeProvider_FetchDetails(t *testing.T) {
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "snippet,statistics,contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "abc,def", r.URL.Query().Get("id"))

		writeJSON(w, http.StatusOK, `{
			"items": [
				{
					"id": "abc",
					"snippet": {
						"title": "Kesariya - Arijit Singh",
						"description": "Bollywood hit",
						"channelTitle": "Sony Music India",
						"publishedAt": "2022-07-17T06:30:00Z",
						"categoryId": "10",
						"thumbnails": {
							"default": {"url": "https://i.ytimg.com/vi/abc/default.jpg"},
							"high": {"url": "https://i.ytimg.com/vi/abc/hqdefault.jpg"}
						}
					},
					"statistics": {"viewCount": "123456789", "likeCount": "4567"},
					"contentDetails": {"duration": "PT4M28S"}
				},
				{
					"id": "def",
					"snippet": {
						"title": "Vlog",
						"channelTitle": "Someone",
						"categoryId": "22",
						"thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/def/mqdefault.jpg"}}
					},
					"statistics": {}
				}
			]
		}`)
	})

	videos, err := provider.FetchDetails(context.Background(), []string{"abc", "def"})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	first := videos[0]
	assert.Equal(t, "abc", first.ID)
	assert.Equal(t, "Kesariya - Arijit Singh", first.Title)
	assert.Equal(t, "Sony Music India", first.ChannelTitle)
	assert.Equal(t, int64(123456789), first.ViewCount)
	assert.Equal(t, int64(4567), first.LikeCount)
	assert.Equal(t, "PT4M28S", first.Duration)
	assert.Equal(t, "10", first.CategoryID)
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", first.ThumbnailURL)
	assert.Equal(t, "https://www.youtube.com/embed/abc", first.EmbedURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", first.WatchURL)
	assert.Equal(t, time.Date(2022, 7, 17, 6, 30, 0, 0, time.UTC), first.PublishedAt.UTC())
	assert.True(t, first.IsMusic())

	second := videos[1]
	assert.Equal(t, int64(0), second.ViewCount)
	assert.Equal(t, int64(0), second.LikeCount)
	assert.Equal(t, "https://i.ytimg.com/vi/def/mqdefault.jpg", second.ThumbnailURL)
	assert.False(t, second.IsMusic())
}

func TestYouTubeProvider_FetchDetails_Limits(t *testing.T) {
	called := false
	provider := newTestYouTubeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, http.StatusOK, `{"items": []}`)
	})

	videos, err := provider.FetchDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)

	ids := make([]string, 51)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%d", i)
	}
	_, err = provider.FetchDetails(context.Background(), ids)
	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Contains(t, providerErr.Message, "exceed")
	assert.False(t, called, "no request should be made")
}

func TestYouTubeProvider_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider, err := NewYouTubeProvider(config.ProviderConfig{
		Name:    "youtube",
		APIKey:  "key",
		BaseURL: url,
		Timeout: time.Second,
	}, WithRetries(0, time.Millisecond))
	require.NoError(t, err)

	_, err = provider.SearchByQuery(context.Background(), SearchRequest{Query: "calm"})
	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "request failed", providerErr.Message)
	assert.NotNil(t, providerErr.Unwrap())
}

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ProviderError
		expected string
	}{
		{
			name:     "status and message",
			err:      &ProviderError{Provider: "youtube", Operation: "search", StatusCode: 403, Message: "quotaExceeded"},
			expected: "youtube search failed (status 403): quotaExceeded",
		},
		{
			name:     "wrapped error",
			err:      &ProviderError{Provider: "youtube", Operation: "videos", Message: "request failed", Err: errors.New("timeout")},
			expected: "youtube videos failed: request failed - timeout",
		},
		{
			name:     "bare",
			err:      &ProviderError{Provider: "youtube", Operation: "search"},
			expected: "youtube search failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(42), parseCount("42"))
	assert.Equal(t, int64(0), parseCount(""))
	assert.Equal(t, int64(0), parseCount("-5"))
	assert.Equal(t, int64(0), parseCount(strings.Repeat("9", 30)))
}
