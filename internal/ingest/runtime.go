// Package ingest drives document ingestion: it assembles the workflow
// runtime from infrastructure and configuration, runs batches of documents
// with bounded concurrency, and optionally watches a folder for new files.
package ingest

import (
	"github.com/siamdocs/quarry/internal/config"
	"github.com/siamdocs/quarry/internal/embedding"
	"github.com/siamdocs/quarry/internal/extraction"
	"github.com/siamdocs/quarry/internal/infrastructure"
	"github.com/siamdocs/quarry/internal/oracle"
	"github.com/siamdocs/quarry/internal/sink"
	"github.com/siamdocs/quarry/internal/splitter"
	"github.com/siamdocs/quarry/internal/workflow"
)

// NewRuntime wires the workflow's collaborators from infrastructure and
// configuration: extraction, the three oracles, the splitter with its
// embedding client, and the Postgres-plus-blob sink.
func NewRuntime(infra *infrastructure.Infrastructure, cfg *config.Config) *workflow.Runtime {
	agent := cfg.Agent.Build()

	embedder := embedding.NewClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.APIKey,
		cfg.Embedding.TimeoutDuration(),
	)

	split := splitter.New(embedder, splitter.Options{
		ChunkSize:         cfg.Pipeline.ChunkSize,
		ChunkOverlap:      cfg.Pipeline.ChunkOverlap,
		SemanticThreshold: cfg.Pipeline.SemanticThreshold,
	}, infra.Logger)

	return &workflow.Runtime{
		Extractor: extraction.New(infra.Logger),
		Strategy:  oracle.NewStrategy(agent, infra.Logger),
		Quality:   oracle.NewQuality(agent, infra.Logger),
		Describer: oracle.NewDescriber(agent, infra.Logger),
		Splitter:  split,
		Sink:      sink.New(infra.Database.Pool(), infra.Storage, embedder, infra.Logger),
		Options: workflow.Options{
			MaxRetries:    cfg.Pipeline.MaxRetries,
			PreviewLength: cfg.Pipeline.PreviewLength,
			HistoryCap:    cfg.Pipeline.HistoryCap,
		},
		Logger: infra.Logger.With("system", "workflow"),
	}
}
