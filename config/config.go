package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/snap-point/directory-api/cache"
	"github.com/snap-point/directory-api/clients"
	"github.com/snap-point/directory-api/services"
)

type PlacesConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxEntries    int
}

type Config struct {
	Port           string
	GinMode        string
	LogLevel       slog.Level
	AllowedOrigins []string

	Places PlacesConfig
	Cache  CacheConfig

	DatabaseURL    string
	DetailsTTL     time.Duration
	DetailsWorkers int
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        os.Getenv("GIN_MODE"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Places: PlacesConfig{
			APIKey:  os.Getenv("GOOGLE_PLACES_API_KEY"),
			BaseURL: getEnv("GOOGLE_PLACES_BASE_URL", clients.DefaultBaseURL),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.Places.Timeout, err = getDuration("PLACES_TIMEOUT", clients.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = getDuration("SEARCH_CACHE_TTL", cache.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.Cache.SweepInterval, err = getDuration("SEARCH_CACHE_SWEEP_INTERVAL", cache.DefaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.Cache.MaxEntries, err = getInt("SEARCH_CACHE_MAX_ENTRIES", 0); err != nil {
		return nil, err
	}
	if cfg.DetailsTTL, err = getDuration("DETAILS_CACHE_TTL", services.DefaultDetailsTTL); err != nil {
		return nil, err
	}
	if cfg.DetailsWorkers, err = getInt("DETAILS_WORKERS", 4); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q", v)
	}
	return level, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
