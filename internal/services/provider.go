package services

import (
	"context"
	"errors"
	"fmt"

	"moodtunes/internal/models"
)

// ErrMissingAPIKey is returned when the provider is built without a credential
var ErrMissingAPIKey = errors.New("YouTube API key not found; set the YOUTUBE_API_KEY environment variable")

// SearchProvider is the external video search service the engine queries
type SearchProvider interface {
	// SearchByQuery returns candidate video IDs for a query, best match first
	SearchByQuery(ctx context.Context, req SearchRequest) ([]string, error)

	// FetchDetails resolves IDs into full metadata. Callers keep len(ids)
	// within MaxIDsPerLookup.
	FetchDetails(ctx context.Context, ids []string) ([]*models.VideoCandidate, error)

	// MaxResultsPerSearch is the most results a single search may request
	MaxResultsPerSearch() int

	// MaxIDsPerLookup is the most IDs a single detail lookup may carry
	MaxIDsPerLookup() int
}

// SearchRequest describes a single provider search
type SearchRequest struct {
	Query      string `json:"query"`
	CategoryID string `json:"category_id,omitempty"`
	MaxResults int    `json:"max_results"`
	Order      string `json:"order,omitempty"`       // "relevance", "viewCount", ...
	SafeSearch string `json:"safe_search,omitempty"` // "none", "moderate", "strict"
}

// ProviderError represents a failed call to the search provider
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + " " + e.Operation + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
