package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"moodtunes/internal/cache"
	"moodtunes/internal/config"
	"moodtunes/internal/models"
	"moodtunes/internal/services"
)

func main() {
	limit := flag.Int("limit", 0, "maximum number of (mood, language) pairs to fetch; 0 means all")
	moodList := flag.String("moods", "", "comma-separated moods to warm; empty means every mood")
	flag.Parse()

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

	provider, err := services.NewYouTubeProvider(cfg.Provider())
	if err != nil {
		slog.Error("Failed to create YouTube provider", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

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

	if resultCache.Tiers() < 2 {
		slog.Warn("No shared cache tier configured; warmed results are lost when this process exits")
	}

	search := services.NewMusicSearchService(
		services.NewBreakerProvider(provider, services.DefaultBreakerSettings()),
		resultCache,
	)

	pairs := warmPairs(parseMoods(*moodList), models.SupportedLanguages, *limit)
	slog.Info("Starting cache warm-up", "pairs", len(pairs))

	warmed, empty := 0, 0
	for i, p := range pairs {
		if i > 0 && tuning.CallInterval > 0 {
			time.Sleep(tuning.CallInterval)
		}

		videos, err := search.Search(ctx, p.mood, p.language, tuning.PerLanguageResults)
		if err != nil {
			slog.Error("Warm-up aborted", "mood", p.mood, "language", p.language, "error", err)
			break
		}
		if len(videos) == 0 {
			empty++
			slog.Warn("No results to cache", "mood", p.mood, "language", p.language)
			continue
		}

		warmed++
		slog.Info("Warmed cache entry", "mood", p.mood, "language", p.language, "videos", len(videos))
	}

	slog.Info("Cache warm-up completed", "warmed", warmed, "empty", empty)

	fmt.Println("Cache warm-up completed!")
	fmt.Printf("Warmed: %d pairs\n", warmed)
	fmt.Printf("Empty: %d pairs\n", empty)
}

type pair struct {
	mood     string
	language string
}

// parseMoods splits the -moods flag; an empty flag selects every mood
func parseMoods(list string) []string {
	if strings.TrimSpace(list) == "" {
		return dedupe(services.Moods())
	}

	var moods []string
	for _, m := range strings.Split(list, ",") {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			moods = append(moods, m)
		}
	}
	return dedupe(moods)
}

// warmPairs crosses moods with languages, stopping at limit when positive
func warmPairs(moods, languages []string, limit int) []pair {
	var pairs []pair
	for _, mood := range moods {
		for _, language := range languages {
			if limit > 0 && len(pairs) >= limit {
				return pairs
			}
			pairs = append(pairs, pair{mood: mood, language: language})
		}
	}
	return pairs
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
