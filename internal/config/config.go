package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rehierl/html-outliner/internal/dom"
	"github.com/rehierl/html-outliner/internal/outline"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Outline defaults. Outline holds option key/value pairs as accepted by
	// outline.ParseOptions; requests may override them.
	DefaultRoot string
	Outline     map[string]string

	// Lint
	MaxTitleLen int

	// Job state and stats
	JobTTL      time.Duration
	StatsWindow time.Duration

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("OUTLINER_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		DefaultRoot: envOr("OUTLINE_ROOT", dom.DefaultRoot),
		Outline:     outlineEnv(),

		MaxTitleLen: envInt("LINT_MAX_TITLE_LEN", 120),

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxTitleLen <= 0 {
		cfg.MaxTitleLen = 120
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OUTLINER_API_KEY is required")
	}
	if strings.TrimSpace(c.DefaultRoot) == "" {
		return fmt.Errorf("OUTLINE_ROOT must not be empty")
	}
	if _, err := c.OutlineOptions(nil); err != nil {
		return fmt.Errorf("outline defaults: %w", err)
	}
	return nil
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// OutlineOptions merges overrides on top of the configured defaults.
func (c Config) OutlineOptions(overrides map[string]string) (outline.Options, error) {
	merged := make(map[string]string, len(c.Outline)+len(overrides))
	for k, v := range c.Outline {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return outline.ParseOptions(merged)
}

// EnvName maps an outline option key to its variable, e.g. "ignore-hidden"
// to OUTLINE_IGNORE_HIDDEN.
func EnvName(key string) string {
	return "OUTLINE_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func outlineEnv() map[string]string {
	settings := make(map[string]string)
	for _, key := range outline.Keys() {
		if v := os.Getenv(EnvName(key)); v != "" {
			settings[key] = v
		}
	}
	return settings
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
