package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DefaultLocale    string
	DatabaseURL      string
	GeoIPDBPath      string
	StoragePath      string
	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	LeaderboardSheetsURL    string
	LeaderboardUseFallback  bool
	LeaderboardFallbackFile string
	LeaderboardFetchTimeout time.Duration
	LeaderboardAllowManual  bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                  getEnv("APP_ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		DefaultLocale:           getEnv("DEFAULT_LOCALE", "en"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		GeoIPDBPath:             os.Getenv("GEOIP_DB_PATH"),
		StoragePath:             getEnv("STORAGE_PATH", "./storage"),
		CORSOrigins:             splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:         time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:        time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:         time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:         getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		LeaderboardSheetsURL:    strings.TrimSpace(os.Getenv("LEADERBOARD_SHEETS_URL")),
		LeaderboardUseFallback:  getEnvBool("LEADERBOARD_USE_FALLBACK", true),
		LeaderboardFallbackFile: os.Getenv("LEADERBOARD_FALLBACK_FILE"),
		LeaderboardFetchTimeout: time.Second * time.Duration(getEnvInt("LEADERBOARD_FETCH_TIMEOUT_SECONDS", 10)),
		LeaderboardAllowManual:  getEnvBool("LEADERBOARD_ALLOW_MANUAL", false),
	}

	if cfg.LeaderboardSheetsURL != "" {
		u, err := url.Parse(cfg.LeaderboardSheetsURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("LEADERBOARD_SHEETS_URL must be an absolute http(s) url")
		}
	}

	if cfg.LeaderboardFetchTimeout <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_FETCH_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
