// Package config loads and validates environment variables at startup.
// Malformed values fail fast; missing optional values take their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the discovery service.
type Config struct {
	Port        string
	GRPCPort    string
	DatabaseURL string
	RedisURL    string // empty disables the response cache and events

	SearchAPIKeys  []string
	SearchEngineID string
	SearchEndpoint string
	PageOffsets    []int
	ResultsPerPage int
	SearchTimeout  time.Duration
	DateRestrict   string
	Sort           string
	Geo            string // provider gl parameter
	Country        string // provider cr parameter
	KeyRPS         float64
	CacheTTL       time.Duration

	DefaultGeo         string // appended to composed queries
	ExpiryGrace        time.Duration
	RelevanceRulesFile string

	SeedQueries          []string
	RefreshIntervalHours int

	LogLevel       string
	LogDevelopment bool
}

// LoadDotEnv reads the given env files in order without overriding
// variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	c := &Config{
		Port:               envOr("DISCOVERY_PORT", "8081"),
		GRPCPort:           envOr("GRPC_PORT", "9081"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		SearchEngineID:     os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		SearchEndpoint:     envOr("SEARCH_ENDPOINT", "https://www.googleapis.com/customsearch/v1"),
		DateRestrict:       envOr("SEARCH_DATE_RESTRICT", "m3"),
		Sort:               envOr("SEARCH_SORT", "date:d:s"),
		Geo:                envOr("SEARCH_GEO", "in"),
		Country:            envOr("SEARCH_COUNTRY", "countryIN"),
		DefaultGeo:         envOr("DEFAULT_GEO", "India"),
		RelevanceRulesFile: os.Getenv("RELEVANCE_RULES_FILE"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}

	c.SearchAPIKeys = splitList(os.Getenv("GOOGLE_SEARCH_API_KEYS"))
	if len(c.SearchAPIKeys) == 0 {
		c.SearchAPIKeys = splitList(os.Getenv("GOOGLE_SEARCH_API_KEY"))
	}
	c.SeedQueries = splitList(os.Getenv("SEED_QUERIES"))

	var err error
	if c.PageOffsets, err = offsetsEnv("SEARCH_PAGE_OFFSETS", []int{1, 11}); err != nil {
		return nil, err
	}
	if c.ResultsPerPage, err = intEnv("SEARCH_RESULTS_PER_PAGE", 10, 1, 10); err != nil {
		return nil, err
	}
	if c.RefreshIntervalHours, err = intEnv("REFRESH_INTERVAL_HOURS", 6, 1, 24*7); err != nil {
		return nil, err
	}
	if c.SearchTimeout, err = durationEnv("SEARCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if c.SearchTimeout <= 0 || c.SearchTimeout > 10*time.Second {
		return nil, fmt.Errorf("SEARCH_TIMEOUT must be in (0s, 10s], got %s", c.SearchTimeout)
	}
	if c.ExpiryGrace, err = durationEnv("EXPIRY_GRACE_PERIOD", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.ExpiryGrace <= 0 {
		return nil, fmt.Errorf("EXPIRY_GRACE_PERIOD must be positive, got %s", c.ExpiryGrace)
	}
	if c.CacheTTL, err = durationEnv("SEARCH_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if c.CacheTTL < 0 {
		return nil, fmt.Errorf("SEARCH_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.KeyRPS, err = floatEnv("SEARCH_KEY_RPS", 1); err != nil {
		return nil, err
	}
	if c.LogDevelopment, err = boolEnv("LOG_DEVELOPMENT", false); err != nil {
		return nil, err
	}

	return c, nil
}

// RequireDatabase reports an error when DATABASE_URL is not set.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer in [%d,%d], got %q", key, lo, hi, s)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, s)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 24h, got %q", key, s)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, s)
	}
	return v, nil
}

func offsetsEnv(key string, def []int) ([]int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	var out []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%s must be a comma-separated list of positive integers, got %q", key, s)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s must list at least one offset", key)
	}
	return out, nil
}
