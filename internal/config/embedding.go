package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvEmbeddingBaseURL = "QUARRY_EMBEDDING_BASE_URL"
	EnvEmbeddingModel   = "QUARRY_EMBEDDING_MODEL"
	EnvEmbeddingAPIKey  = "QUARRY_EMBEDDING_API_KEY"
	EnvEmbeddingTimeout = "QUARRY_EMBEDDING_TIMEOUT"
)

// EmbeddingConfig holds parameters for the embedding service used by the
// semantic splitter and the sink.
type EmbeddingConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EmbeddingConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EmbeddingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EmbeddingConfig) Merge(overlay *EmbeddingConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *EmbeddingConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "nomic-embed-text"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *EmbeddingConfig) loadEnv() {
	if v := os.Getenv(EnvEmbeddingBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvEmbeddingAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvEmbeddingTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *EmbeddingConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
