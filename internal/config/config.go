// Package config builds the process-wide configuration once at startup.
// Values come from the environment (a .env file is honoured if present),
// with an optional YAML file at ~/.mcp-websearch/config.yaml supplying
// non-secret defaults. The environment always wins for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRateLimit is the maximum Tavily API requests per second
	DefaultRateLimit = 2.0

	// DefaultRequestTimeout is the timeout for outbound Tavily API requests
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds all process-wide configuration, loaded once at startup
// and passed explicitly to the components that need it
type Config struct {
	// TavilyAPIKey authenticates against the Tavily search API.
	// Required whenever any search tool is enabled.
	TavilyAPIKey string

	// RateLimit is the maximum outbound search requests per second
	RateLimit float64

	// RequestTimeout bounds each outbound search request
	RequestTimeout time.Duration
}

// fileConfig is the YAML shape of the optional config file
type fileConfig struct {
	Tavily struct {
		RateLimit      float64 `yaml:"rate_limit"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"tavily"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Get returns the process-wide configuration, loading it on first use
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = load()
	})
	return globalConfig
}

// load reads the .env file (if any), the optional YAML config file,
// and the environment, in that order
func load() *Config {
	// Best effort: a missing .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		RateLimit:      DefaultRateLimit,
		RequestTimeout: DefaultRequestTimeout,
	}

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err == nil {
				if fc.Tavily.RateLimit > 0 {
					cfg.RateLimit = fc.Tavily.RateLimit
				}
				if fc.Tavily.TimeoutSeconds > 0 {
					cfg.RequestTimeout = time.Duration(fc.Tavily.TimeoutSeconds) * time.Second
				}
			}
		}
	}

	cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")

	return cfg
}

// configFilePath returns the optional YAML config file location,
// or "" when the home directory cannot be determined
func configFilePath() string {
	if override := os.Getenv("MCP_WEBSEARCH_CONFIG"); override != "" {
		return override
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".mcp-websearch", "config.yaml")
}

// ValidateForSearch checks that the configuration is sufficient to run
// the search tools. Absence of the API key is a fatal startup error.
func (c *Config) ValidateForSearch() error {
	if c.TavilyAPIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY environment variable is required")
	}
	return nil
}
