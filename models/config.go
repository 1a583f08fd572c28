// Package models defines the data structures shared by the pipeline, the
// run store and the command line.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML file,
// then environment variables, then CLI flags.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	Enrich  EnrichConfig  `yaml:"enrich"`
	Payment PaymentConfig `yaml:"payment"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	DataDir      string        `yaml:"data_dir"`
	CleanupToken string        `yaml:"cleanup_token"`
	SweepEvery   time.Duration `yaml:"sweep_every"`
}

// CrawlConfig selects the crawl provider. An empty APIKey with the firecrawl
// provider leaves crawling unavailable.
type CrawlConfig struct {
	Provider string        `yaml:"provider"` // firecrawl | direct
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	MaxPages int           `yaml:"max_pages"`
	Timeout  time.Duration `yaml:"timeout"`

	// CacheDir enables the on-disk page cache for the direct provider.
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// EnrichConfig configures the chat-completion provider. An empty APIKey
// disables enrichment.
type EnrichConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	MaxPages int           `yaml:"max_pages"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	SecretKey     string `yaml:"secret_key"`
	PriceID       string `yaml:"price_id"`
	WebhookSecret string `yaml:"webhook_secret"`
	APIBase       string `yaml:"api_base"`
}

const (
	CrawlProviderFirecrawl = "firecrawl"
	CrawlProviderDirect    = "direct"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:       "3000",
			DataDir:    "llmstxt_data",
			SweepEvery: time.Hour,
		},
		Crawl: CrawlConfig{
			Provider: CrawlProviderFirecrawl,
			Endpoint: "https://api.firecrawl.dev/v1/crawl",
			MaxPages: 40,
			Timeout:  90 * time.Second,
			CacheTTL: 6 * time.Hour,
		},
		Enrich: EnrichConfig{
			BaseURL:  "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
			MaxPages: 12,
			Timeout:  25 * time.Second,
		},
		Payment: PaymentConfig{
			APIBase: "https://api.stripe.com",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults and applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// applyEnv overrides credentials and endpoints from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.DataDir, "DATA_DIR")
	set(&c.Server.CleanupToken, "CLEANUP_TOKEN")
	set(&c.Crawl.APIKey, "FIRECRAWL_API_KEY")
	set(&c.Crawl.Provider, "CRAWL_PROVIDER")
	set(&c.Enrich.APIKey, "OPENAI_API_KEY")
	set(&c.Enrich.BaseURL, "OPENAI_BASE_URL")
	set(&c.Enrich.Model, "OPENAI_MODEL")
	set(&c.Payment.SecretKey, "STRIPE_SECRET_KEY")
	set(&c.Payment.PriceID, "STRIPE_PRICE_ID")
	set(&c.Payment.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
}

// DBPath returns the sqlite file inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.Server.DataDir, "llmstxt.db")
}

// LoadSurvey reads a RawSurvey from a YAML (or JSON) file.
func LoadSurvey(path string) (RawSurvey, error) {
	var raw RawSurvey
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("failed to read survey %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("failed to parse survey %s: %w", path, err)
	}
	return raw, nil
}
