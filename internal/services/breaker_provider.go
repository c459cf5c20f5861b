package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"moodtunes/internal/metrics"
	"moodtunes/internal/models"
)

// BreakerSettings configures the provider circuit breaker
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state counter reset period
	Timeout      time.Duration // open-state duration before probing
	MinRequests  uint32        // requests needed before the failure ratio counts
	FailureRatio float64
}

// DefaultBreakerSettings opens after 60% of at least 10 calls fail in a minute
// and probes again after 30 seconds
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "youtube-api",
		MaxRequests:  2,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// breakerProvider guards a SearchProvider with a circuit breaker so a
// provider outage fails fast instead of spending the timeout on every language
type breakerProvider struct {
	next SearchProvider
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerProvider wraps next with a circuit breaker
func NewBreakerProvider(next SearchProvider, settings BreakerSettings) SearchProvider {
	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Cancellations come from our caller, not from the provider
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Provider circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &breakerProvider{next: next, cb: cb, name: settings.Name}
}

func (b *breakerProvider) SearchByQuery(ctx context.Context, req SearchRequest) ([]string, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.next.SearchByQuery(ctx, req)
	})
	if err != nil {
		return nil, b.wrap("search", err)
	}
	ids, _ := result.([]string)
	return ids, nil
}

func (b *breakerProvider) FetchDetails(ctx context.Context, ids []string) ([]*models.VideoCandidate, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.next.FetchDetails(ctx, ids)
	})
	if err != nil {
		return nil, b.wrap("videos", err)
	}
	videos, _ := result.([]*models.VideoCandidate)
	return videos, nil
}

func (b *breakerProvider) MaxResultsPerSearch() int { return b.next.MaxResultsPerSearch() }

func (b *breakerProvider) MaxIDsPerLookup() int { return b.next.MaxIDsPerLookup() }

// wrap turns breaker rejections into ProviderErrors; provider errors pass through
func (b *breakerProvider) wrap(operation string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &ProviderError{
			Provider:  "youtube",
			Operation: operation,
			Message:   "circuit breaker " + b.name + " rejected the call",
			Err:       err,
		}
	}
	return err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
