package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity/discovery-service/internal/discovery"
	"opportunity/discovery-service/internal/model"
)

// runApp executes the CLI with an env file that does not exist so only the
// test's environment is read.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"GOOGLE_SEARCH_API_KEYS", "GOOGLE_SEARCH_API_KEY", "GOOGLE_SEARCH_ENGINE_ID", "REDIS_URL", "DATABASE_URL", "RELEVANCE_RULES_FILE"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	full := append([]string{"discovery", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func TestSearchCommand_NoKeysServesBuiltInDataset(t *testing.T) {
	out, err := runApp(t, "search", "--query", "hackathon")
	require.NoError(t, err)

	var res discovery.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "mock", res.Source)
	assert.Equal(t, len(res.Opportunities), res.Count)
	assert.NotZero(t, res.Count)
	assert.Contains(t, res.Query, "hackathon")
	for _, rec := range res.Opportunities {
		assert.True(t, rec.IsCached)
	}
}

func TestSearchCommand_TypeFilter(t *testing.T) {
	out, err := runApp(t, "search", "--query", "internship", "--type", "internship", "--year", "2027")
	require.NoError(t, err)

	var res discovery.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res.Query, "2027")
	for _, rec := range res.Opportunities {
		assert.Equal(t, model.TypeInternship, rec.Type)
	}
}

func TestSearchCommand_Errors(t *testing.T) {
	_, err := runApp(t, "search")
	assert.Error(t, err, "query flag is required")

	_, err = runApp(t, "search", "--query", "x", "--type", "job")
	assert.Error(t, err)

	_, err = runApp(t, "search", "--query", "x", "--year", "26")
	var verr *discovery.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSuggestCommand(t *testing.T) {
	out, err := runApp(t, "suggest", "--skills", "React", "--skills", "Docker", "--major", "Computer Science")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "Web development hackathon "))
}

func TestServeCommand_RequiresDatabase(t *testing.T) {
	_, err := runApp(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "discovery-service ")
}
