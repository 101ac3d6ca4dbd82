package oracle

import (
	"context"
	"fmt"
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/formatting"
)

type metadataResponse struct {
	DocumentTitle string   `json:"document_title"`
	DocumentType  string   `json:"document_type"`
	Summary       string   `json:"summary"`
	MainTopics    []string `json:"main_topics"`
}

// Describer is the LLM-backed metadata generator. Callers degrade to
// filename-derived metadata when it fails; a bad response never aborts a
// run.
type Describer struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

func NewDescriber(agent gaconfig.AgentConfig, logger *slog.Logger) *Describer {
	return &Describer{
		agent:  agent,
		logger: systemLogger(logger, "oracle.metadata"),
	}
}

func (o *Describer) Describe(ctx context.Context, preview, filename string) (workflow.Metadata, error) {
	prompt := fmt.Sprintf(metadataPrompt, filename, preview)

	content, err := chat(ctx, o.agent, prompt)
	if err != nil {
		return workflow.Metadata{}, fmt.Errorf("describe: %w", err)
	}

	parsed, err := formatting.Parse[metadataResponse](content)
	if err != nil {
		return workflow.Metadata{}, fmt.Errorf("describe: %w", err)
	}

	meta := workflow.Metadata{
		Title:   parsed.DocumentTitle,
		Type:    parsed.DocumentType,
		Summary: parsed.Summary,
		Topics:  parsed.MainTopics,
	}

	o.logger.InfoContext(
		ctx, "metadata described",
		"title", meta.Title,
		"type", meta.Type,
	)

	return meta, nil
}
