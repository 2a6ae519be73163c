package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/notify"
	"github.com/Loan69/ai-agent-prospection/internal/places"
)

// withConfig installs c as the global configuration for one test.
func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "prospect.db")},
		LLM:   config.LLMConfig{Provider: config.ProviderAnthropic, TimeoutSecs: 30},
		Scan: config.ScanConfig{
			Zones:               []string{"Annecy, France"},
			Radius:              1500,
			MaxResultsPerZone:   5,
			Keywords:            []string{"boulangerie"},
			MinReviews:          3,
			MinRating:           4.2,
			ContactThreshold:    7,
			ItemDelayMs:         250,
			EnforceNoProblemCap: true,
		},
		Feed:   config.FeedConfig{URL: "https://www.codeur.com/projects.rss", Skills: []string{"Go"}, MaxAgeHours: 4},
		Server: config.ServerConfig{Port: 3000},
	}
}

func TestAgentConfig(t *testing.T) {
	pc := agentConfig(testConfig(t), true)

	assert.Equal(t, []string{"Annecy, France"}, pc.Zones)
	assert.Equal(t, 1500, pc.Radius)
	assert.Equal(t, 5, pc.MaxResultsPerZone)
	assert.Equal(t, []string{"boulangerie"}, pc.Keywords)
	assert.Equal(t, 3, pc.Filter.MinReviews)
	assert.InDelta(t, 4.2, pc.Filter.MinRating, 0.001)
	assert.NotEmpty(t, pc.Filter.Types)
	assert.Equal(t, 7, pc.ContactThreshold)
	assert.Equal(t, 250*time.Millisecond, pc.ItemDelay)
	assert.True(t, pc.EnforceNoProblemCap)
	assert.True(t, pc.Heuristic)
	assert.Equal(t, []string{"Go"}, pc.Matcher.Skills)
	assert.Equal(t, 4*time.Hour, pc.Matcher.MaxAge)
}

func TestAgentConfig_EmptyKeepsDefaults(t *testing.T) {
	pc := agentConfig(&config.Config{}, false)
	assert.Len(t, pc.Zones, 6)
	assert.Equal(t, 3000, pc.Radius)
	assert.Equal(t, 6, pc.ContactThreshold)
	assert.NotEmpty(t, pc.Matcher.Skills)
}

func TestStoredView(t *testing.T) {
	v := storedView(agentConfig(testConfig(t), false))
	assert.Equal(t, []string{"Annecy, France"}, v.Zones)
	assert.Equal(t, 1500, v.Radius)
	assert.Equal(t, []string{"boulangerie"}, v.PrioritySectors)
	assert.Equal(t, 3, v.MinReviews)
}

func TestInitStore_SQLite(t *testing.T) {
	withConfig(t, testConfig(t))

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	exists, err := st.LeadExists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	c := testConfig(t)
	c.Store.Driver = "mysql"
	withConfig(t, c)

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestInitCompleter_NoKey(t *testing.T) {
	withConfig(t, testConfig(t))

	c, closer, err := initCompleter(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)
}

func TestInitCompleter_Anthropic(t *testing.T) {
	c := testConfig(t)
	c.LLM.AnthropicKey = "sk-ant-test"
	c.LLM.AnthropicModel = "claude-sonnet-4-5-20250929"
	withConfig(t, c)

	completer, closer, err := initCompleter(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, completer)
	assert.Nil(t, closer)
}

func TestInitSearcher_NoKey(t *testing.T) {
	withConfig(t, testConfig(t))
	assert.Nil(t, initSearcher())
}

func TestInitSearcher_WithRetries(t *testing.T) {
	c := testConfig(t)
	c.Google.PlacesKey = "places-key"
	c.Google.Retries = 2
	withConfig(t, c)
	assert.IsType(t, &places.GoogleSearcher{}, initSearcher())
}

func TestInitNotifier_Disabled(t *testing.T) {
	withConfig(t, testConfig(t))
	assert.Equal(t, notify.Noop{}, initNotifier())
}

func TestInitAgent(t *testing.T) {
	c := testConfig(t)
	c.Google.PlacesKey = "places-key"
	withConfig(t, c)

	env, err := initAgent(context.Background(), config.ModePlacesHeuristic, true)
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Store)
	require.NotNil(t, env.Agent)
	assert.True(t, env.Agent.Config().Heuristic)
}

func TestInitAgent_ValidationFails(t *testing.T) {
	withConfig(t, testConfig(t))

	_, err := initAgent(context.Background(), config.ModePlaces, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.places_key is required")
}
