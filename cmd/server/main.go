package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"moodtunes/internal/cache"
	"moodtunes/internal/config"
	"moodtunes/internal/handlers"
	"moodtunes/internal/models"
	"moodtunes/internal/services"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	tuning, err := config.LoadTuning(cfg.TuningConfigPath)
	if err != nil {
		slog.Error("Failed to load tuning", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Optional persistent tier
	var db *models.Database
	if cfg.MongodbURL != "" {
		db, err = models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongoDatabase)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close(context.Background())
	}

	cacheOpts := cache.Options{
		TTL:       tuning.CacheTTL,
		MaxItems:  cfg.CacheMaxItems,
		ValkeyURL: cfg.ValkeyURL,
	}
	if db != nil {
		cacheOpts.Mongo = db.DB
	}
	resultCache, closeCache, err := cache.NewResultCache(ctx, cacheOpts)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	// Without a provider credential the API still serves health and
	// languages, and recommendation calls report the configuration error
	var recommender handlers.Recommender
	provider, err := services.NewYouTubeProvider(cfg.Provider())
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		slog.Error("Recommendation engine disabled", "error", err)
	case err != nil:
		slog.Error("Failed to create YouTube provider", "error", err)
		os.Exit(1)
	default:
		guarded := services.NewBreakerProvider(provider, services.DefaultBreakerSettings())
		recommender = services.NewEngine(guarded, resultCache, tuning)
	}

	handler := handlers.NewRecommendHandler(recommender, cfg.RequestTimeout).WithCacheStats(resultCache)
	router := handlers.NewRouter(handlers.RouterConfig{
		GinMode:        cfg.GinMode,
		AllowedOrigins: cfg.AllowedOrigins,
	}, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"youtube_configured", recommender != nil,
			"cache_tiers", resultCache.Tiers(),
			"fetch_concurrency", tuning.FetchConcurrency,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
