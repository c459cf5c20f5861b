package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtunes_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Provider metrics
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_provider_calls_total",
			Help: "Total number of video provider calls",
		},
		[]string{"operation", "status"}, // status: "success", "error"
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtunes_provider_call_duration_seconds",
			Help:    "Video provider call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache metrics
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_result_cache_lookups_total",
			Help: "Result cache lookups by tier and outcome",
		},
		[]string{"tier", "result"}, // result: "hit", "miss", "expired"
	)

	// Aggregation and recommendation metrics
	LanguageFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_language_fetch_failures_total",
			Help: "Languages that contributed no candidates because of a failure",
		},
		[]string{"language"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_recommendations_served_total",
			Help: "Recommendation records returned to callers",
		},
		[]string{"emotion", "language"},
	)

	EmptyRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_empty_recommendations_total",
			Help: "Recommendation requests that produced no results",
		},
		[]string{"mood"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodtunes_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)
