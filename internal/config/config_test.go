package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity/discovery-service/internal/config"
)

var allVars = []string{
	"DISCOVERY_PORT", "GRPC_PORT", "DATABASE_URL", "REDIS_URL",
	"GOOGLE_SEARCH_API_KEYS", "GOOGLE_SEARCH_API_KEY", "GOOGLE_SEARCH_ENGINE_ID", "SEARCH_ENDPOINT",
	"SEARCH_PAGE_OFFSETS", "SEARCH_RESULTS_PER_PAGE", "SEARCH_TIMEOUT", "SEARCH_DATE_RESTRICT",
	"SEARCH_SORT", "SEARCH_GEO", "SEARCH_COUNTRY", "SEARCH_KEY_RPS", "SEARCH_CACHE_TTL",
	"DEFAULT_GEO", "EXPIRY_GRACE_PERIOD", "RELEVANCE_RULES_FILE", "SEED_QUERIES",
	"REFRESH_INTERVAL_HOURS", "LOG_LEVEL", "LOG_DEVELOPMENT", "DOTENV_ONLY",
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", c.Port)
	assert.Equal(t, "9081", c.GRPCPort)
	assert.Empty(t, c.SearchAPIKeys)
	assert.Equal(t, []int{1, 11}, c.PageOffsets)
	assert.Equal(t, 10, c.ResultsPerPage)
	assert.Equal(t, 10*time.Second, c.SearchTimeout)
	assert.Equal(t, "m3", c.DateRestrict)
	assert.Equal(t, "date:d:s", c.Sort)
	assert.Equal(t, "India", c.DefaultGeo)
	assert.Equal(t, 24*time.Hour, c.ExpiryGrace)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.Equal(t, 6, c.RefreshIntervalHours)
	assert.InDelta(t, 1.0, c.KeyRPS, 0)
	assert.False(t, c.LogDevelopment)
	assert.Error(t, c.RequireDatabase())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/discovery")
	t.Setenv("GOOGLE_SEARCH_API_KEYS", " k1, ,k2,k3 ")
	t.Setenv("GOOGLE_SEARCH_API_KEY", "ignored")
	t.Setenv("SEARCH_PAGE_OFFSETS", "1, 11, 21")
	t.Setenv("SEARCH_TIMEOUT", "5s")
	t.Setenv("EXPIRY_GRACE_PERIOD", "72h")
	t.Setenv("SEED_QUERIES", "AI hackathon,summer internship")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("SEARCH_CACHE_TTL", "0s")

	c, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2", "k3"}, c.SearchAPIKeys)
	assert.Equal(t, []int{1, 11, 21}, c.PageOffsets)
	assert.Equal(t, 5*time.Second, c.SearchTimeout)
	assert.Equal(t, 72*time.Hour, c.ExpiryGrace)
	assert.Equal(t, []string{"AI hackathon", "summer internship"}, c.SeedQueries)
	assert.True(t, c.LogDevelopment)
	assert.Zero(t, c.CacheTTL)
	assert.NoError(t, c.RequireDatabase())
}

func TestLoad_SingleKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SEARCH_API_KEY", "solo")
	c, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, c.SearchAPIKeys)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"SEARCH_PAGE_OFFSETS":     "1,zero",
		"SEARCH_RESULTS_PER_PAGE": "11",
		"SEARCH_TIMEOUT":          "30s",
		"EXPIRY_GRACE_PERIOD":     "soon",
		"SEARCH_CACHE_TTL":        "-1m",
		"SEARCH_KEY_RPS":          "-2",
		"REFRESH_INTERVAL_HOURS":  "0",
		"LOG_DEVELOPMENT":         "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("DOTENV_ONLY"))
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("DOTENV_ONLY=local\n"), 0o600))
	require.NoError(t, os.WriteFile(base, []byte("DOTENV_ONLY=base\nDEFAULT_GEO=Canada\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(local, base, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_ONLY") })

	assert.Equal(t, "local", os.Getenv("DOTENV_ONLY"))
	// already-set variables win over files, even when set to empty
	assert.Equal(t, "", os.Getenv("DEFAULT_GEO"))
}
