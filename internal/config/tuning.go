package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Tuning holds the engine's tunable constants. They are read once at
// startup; changing them needs a restart.
type Tuning struct {
	// How long provider results stay cached per (mood, language)
	CacheTTL time.Duration

	// Minimum spacing between provider calls
	CallInterval time.Duration

	// How many languages are fetched at the same time; 1 is sequential
	FetchConcurrency int

	// Candidates fetched per language
	PerLanguageResults int

	// Minimum distinct languages the selector tries to keep
	DiversityLanguages int

	// How many requested-language videos are kept ahead of the others
	PreferredQuota int

	// Extra languages searched next to a requested one
	ExtraLanguages int
}

// tuningFile mirrors tuning.toml; durations are Go duration strings
type tuningFile struct {
	CacheTTL           string `toml:"cache_ttl"`
	CallInterval       string `toml:"call_interval"`
	FetchConcurrency   int    `toml:"fetch_concurrency"`
	PerLanguageResults int    `toml:"per_language_results"`
	DiversityLanguages int    `toml:"diversity_languages"`
	PreferredQuota     int    `toml:"preferred_quota"`
	ExtraLanguages     int    `toml:"extra_languages"`
}

// DefaultTuning returns the reference values
func DefaultTuning() *Tuning {
	return &Tuning{
		CacheTTL:           time.Hour,
		CallInterval:       100 * time.Millisecond,
		FetchConcurrency:   1,
		PerLanguageResults: 10,
		DiversityLanguages: 3,
		PreferredQuota:     2,
		ExtraLanguages:     2,
	}
}

// LoadTuning reads the tuning file at path, or the first file found in the
// default locations when path is empty. Missing files yield the defaults.
func LoadTuning(path string) (*Tuning, error) {
	tuning := DefaultTuning()

	candidates := []string{path}
	if path == "" {
		candidates = candidateTuningPaths()
	}

	for _, p := range candidates {
		file, err := readTuningFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load tuning config %s: %w", p, err)
		}
		if file == nil {
			continue
		}
		if err := mergeTuning(tuning, file); err != nil {
			return nil, fmt.Errorf("invalid tuning config %s: %w", p, err)
		}
		slog.Info("Loaded tuning config", "path", p)
		return tuning, nil
	}

	if path != "" {
		slog.Warn("Tuning config not found; using defaults", "path", path)
	}
	return tuning, nil
}

func readTuningFile(path string) (*tuningFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var file tuningFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// mergeTuning overrides base with every positive value set in file
func mergeTuning(base *Tuning, file *tuningFile) error {
	if file.CacheTTL != "" {
		d, err := time.ParseDuration(file.CacheTTL)
		if err != nil || d <= 0 {
			return fmt.Errorf("cache_ttl %q is not a positive duration", file.CacheTTL)
		}
		base.CacheTTL = d
	}
	if file.CallInterval != "" {
		d, err := time.ParseDuration(file.CallInterval)
		if err != nil || d < 0 {
			return fmt.Errorf("call_interval %q is not a valid duration", file.CallInterval)
		}
		base.CallInterval = d
	}
	if file.FetchConcurrency > 0 {
		base.FetchConcurrency = file.FetchConcurrency
	}
	if file.PerLanguageResults > 0 {
		base.PerLanguageResults = file.PerLanguageResults
	}
	if file.DiversityLanguages > 0 {
		base.DiversityLanguages = file.DiversityLanguages
	}
	if file.PreferredQuota > 0 {
		base.PreferredQuota = file.PreferredQuota
	}
	if file.ExtraLanguages > 0 {
		base.ExtraLanguages = file.ExtraLanguages
	}
	return nil
}

// candidateTuningPaths returns common locations to auto-discover tuning.toml
func candidateTuningPaths() []string {
	paths := []string{
		"tuning.toml",
		filepath.Join("config", "tuning.toml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "moodtunes", "tuning.toml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "moodtunes", "tuning.toml"))
	}

	paths = append(paths, filepath.Join(string(os.PathSeparator), "etc", "moodtunes", "tuning.toml"))
	return paths
}
