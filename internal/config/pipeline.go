package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineChunkSize         = "QUARRY_PIPELINE_CHUNK_SIZE"
	EnvPipelineChunkOverlap      = "QUARRY_PIPELINE_CHUNK_OVERLAP"
	EnvPipelineMaxRetries        = "QUARRY_PIPELINE_MAX_RETRIES"
	EnvPipelinePreviewLength     = "QUARRY_PIPELINE_PREVIEW_LENGTH"
	EnvPipelineHistoryCap        = "QUARRY_PIPELINE_HISTORY_CAP"
	EnvPipelineSemanticThreshold = "QUARRY_PIPELINE_SEMANTIC_THRESHOLD"
	EnvPipelineRunTimeout        = "QUARRY_PIPELINE_RUN_TIMEOUT"
	EnvPipelineWorkers           = "QUARRY_PIPELINE_WORKERS"
)

// PipelineConfig holds the tuning knobs for the ingestion workflow: chunk
// geometry, retry bounds, and batch concurrency.
type PipelineConfig struct {
	ChunkSize         int    `toml:"chunk_size"`
	ChunkOverlap      int    `toml:"chunk_overlap"`
	MaxRetries        int    `toml:"max_retries"`
	PreviewLength     int    `toml:"preview_length"`
	HistoryCap        int    `toml:"history_cap"`
	SemanticThreshold int    `toml:"semantic_threshold"`
	RunTimeout        string `toml:"run_timeout"`
	Workers           int    `toml:"workers"`
}

// RunTimeoutDuration returns RunTimeout as a time.Duration.
func (c *PipelineConfig) RunTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RunTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap != 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.PreviewLength != 0 {
		c.PreviewLength = overlay.PreviewLength
	}
	if overlay.HistoryCap != 0 {
		c.HistoryCap = overlay.HistoryCap
	}
	if overlay.SemanticThreshold != 0 {
		c.SemanticThreshold = overlay.SemanticThreshold
	}
	if overlay.RunTimeout != "" {
		c.RunTimeout = overlay.RunTimeout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 150
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 5
	}
	if c.PreviewLength == 0 {
		c.PreviewLength = 500
	}
	if c.HistoryCap == 0 {
		c.HistoryCap = 3
	}
	if c.SemanticThreshold == 0 {
		c.SemanticThreshold = 95
	}
	if c.RunTimeout == "" {
		c.RunTimeout = "10m"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	setInt := func(envVar string, dst *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(EnvPipelineChunkSize, &c.ChunkSize)
	setInt(EnvPipelineChunkOverlap, &c.ChunkOverlap)
	setInt(EnvPipelineMaxRetries, &c.MaxRetries)
	setInt(EnvPipelinePreviewLength, &c.PreviewLength)
	setInt(EnvPipelineHistoryCap, &c.HistoryCap)
	setInt(EnvPipelineSemanticThreshold, &c.SemanticThreshold)
	setInt(EnvPipelineWorkers, &c.Workers)

	if v := os.Getenv(EnvPipelineRunTimeout); v != "" {
		c.RunTimeout = v
	}
}

func (c *PipelineConfig) validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("invalid chunk_size: %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be non-negative and less than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("invalid max_retries: %d", c.MaxRetries)
	}
	if c.SemanticThreshold < 1 || c.SemanticThreshold > 100 {
		return fmt.Errorf("semantic_threshold %d must be a percentile in [1, 100]", c.SemanticThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if _, err := time.ParseDuration(c.RunTimeout); err != nil {
		return fmt.Errorf("invalid run_timeout: %w", err)
	}
	return nil
}
