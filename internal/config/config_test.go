package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("MCP_WEBSEARCH_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg := load()

	assert.Empty(t, cfg.TavilyAPIKey)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-test-key")
	t.Setenv("MCP_WEBSEARCH_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg := load()
	assert.Equal(t, "tvly-test-key", cfg.TavilyAPIKey)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("tavily:\n  rate_limit: 5.0\n  timeout_seconds: 10\n")
	require.NoError(t, os.WriteFile(configPath, content, 0600))

	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("MCP_WEBSEARCH_CONFIG", configPath)

	cfg := load()
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_MalformedYAMLIgnored(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("tavily: [not a mapping"), 0600))

	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("MCP_WEBSEARCH_CONFIG", configPath)

	cfg := load()
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestLoad_ZeroYAMLValuesKeepDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("tavily:\n  rate_limit: 0\n  timeout_seconds: 0\n")
	require.NoError(t, os.WriteFile(configPath, content, 0600))

	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("MCP_WEBSEARCH_CONFIG", configPath)

	cfg := load()
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestConfigFilePath_Override(t *testing.T) {
	t.Setenv("MCP_WEBSEARCH_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", configFilePath())
}

func TestValidateForSearch(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateForSearch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TAVILY_API_KEY")

	cfg.TavilyAPIKey = "tvly-key"
	assert.NoError(t, cfg.ValidateForSearch())
}
