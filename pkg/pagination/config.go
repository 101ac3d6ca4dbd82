// Package pagination provides page request parsing and paged result
// envelopes for list endpoints.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds the page sizes clients may request.
type Config struct {
	DefaultPageSize int `json:"default_page_size" toml:"default_page_size"`
	MaxPageSize     int `json:"max_page_size" toml:"max_page_size"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	set := func(name string, dst *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	set(env.DefaultPageSize, &c.DefaultPageSize)
	set(env.MaxPageSize, &c.MaxPageSize)
}

func (c *Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be positive")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	return nil
}
