// Package config loads the .sitekit.yaml project file and translation
// credentials. The file is the sole source of truth for the locale set
// and its iteration order; there is no ambient global configuration —
// callers pass the loaded value into every operation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/sitekit/langmeta"
	"github.com/minios-linux/sitekit/locpath"
)

// FileName is the project config file name.
const FileName = ".sitekit.yaml"

// apiKeyEnvVars are checked in priority order for the provider key.
var apiKeyEnvVars = []string{"SITEKIT_API_KEY", "OPENAI_API_KEY"}

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .sitekit.yaml structure.
type Config struct {
	// DefaultLocale is the unprefixed locale (default "en").
	DefaultLocale string `yaml:"default_locale,omitempty"`
	// Locales is the full locale list in iteration order. The order is
	// load-bearing: alternates merges and conflict tie-breaks follow it.
	Locales []string `yaml:"locales"`
	// ContentDir is the content root relative to the project root
	// (default "content").
	ContentDir string `yaml:"content_dir,omitempty"`
	// Fields are the translatable front matter field names in document
	// order of interest (default title, description, summary).
	Fields []string `yaml:"fields,omitempty"`
	// Prompt overrides the built-in system prompt.
	Prompt string `yaml:"prompt,omitempty"`
	// Provider configures the translation backend.
	Provider ProviderConfig `yaml:"provider,omitempty"`
	// Cache configures the optional shared result cache.
	Cache CacheConfig `yaml:"cache,omitempty"`
}

// ProviderConfig selects and tunes the translation backend.
type ProviderConfig struct {
	// Model is the model identifier.
	Model string `yaml:"model,omitempty"`
	// BaseURL points at an OpenAI-compatible endpoint when set.
	BaseURL string `yaml:"base_url,omitempty"`
	// TimeoutSeconds is the per-request timeout (default 120).
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the per-request timeout as a duration.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheConfig enables the shared Redis result cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string `yaml:"redis_url,omitempty"`
	// TTLSeconds bounds cached entry lifetime (0 = no expiry).
	TTLSeconds int `yaml:"ttl_seconds,omitempty"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads and validates .sitekit.yaml from rootDir. A missing file is
// an error: unlike auto-detected projects, the locale order must be
// declared explicitly.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if len(c.Fields) == 0 {
		c.Fields = []string{"title", "description", "summary"}
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("%s: locales list is empty", path)
	}
	for _, l := range c.Locales {
		if _, err := langmeta.Canonical(l); err != nil {
			return fmt.Errorf("%s: invalid locale %q: %w", path, l, err)
		}
	}
	if !contains(c.Locales, c.DefaultLocale) {
		return fmt.Errorf("%s: default_locale %q is not in locales", path, c.DefaultLocale)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = 120
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Resolver builds the path/locale resolver for this configuration.
func (c *Config) Resolver() locpath.Resolver {
	return locpath.Resolver{Default: c.DefaultLocale, Locales: c.Locales}
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// APIKey resolves the provider API key: an optional .env file in rootDir
// is loaded first, then SITEKIT_API_KEY and OPENAI_API_KEY are checked in
// order. Missing credentials are the caller's precondition failure, not
// this function's error.
func APIKey(rootDir string) string {
	// .env is optional; real environments provide the variables directly.
	_ = godotenv.Load(filepath.Join(rootDir, ".env"))

	for _, name := range apiKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
