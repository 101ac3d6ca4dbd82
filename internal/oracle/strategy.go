package oracle

import (
	"context"
	"fmt"
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/formatting"
)

// layoutSection decodes strategy as a raw string so one unrecognized value
// does not reject an otherwise usable layout; the resolver degrades unknown
// strategies per section.
type layoutSection struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	CharStart int    `json:"char_start"`
	CharEnd   int    `json:"char_end"`
	Strategy  string `json:"strategy"`
}

type layoutResponse struct {
	Sections []layoutSection `json:"sections"`
}

// Strategy is the LLM-backed layout strategist. It proposes a sectioned
// layout for a document; the caller validates the proposal and falls back
// to a whole-document layout when it is unusable.
type Strategy struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

func NewStrategy(agent gaconfig.AgentConfig, logger *slog.Logger) *Strategy {
	return &Strategy{
		agent:  agent,
		logger: systemLogger(logger, "oracle.strategy"),
	}
}

func (o *Strategy) ProposeLayout(ctx context.Context, preview string, textLen int, meta workflow.Metadata) ([]workflow.Section, error) {
	prompt := fmt.Sprintf(
		layoutPrompt,
		meta.Title,
		meta.Type,
		meta.Summary,
		textLen,
		preview,
	)

	content, err := chat(ctx, o.agent, prompt)
	if err != nil {
		return nil, fmt.Errorf("propose layout: %w", err)
	}

	parsed, err := formatting.Parse[layoutResponse](content)
	if err != nil {
		return nil, fmt.Errorf("propose layout: %w", err)
	}

	sections := make([]workflow.Section, len(parsed.Sections))
	for i, sec := range parsed.Sections {
		sections[i] = workflow.Section{
			ID:        sec.ID,
			Title:     sec.Title,
			CharStart: sec.CharStart,
			CharEnd:   sec.CharEnd,
			Strategy:  workflow.Strategy(sec.Strategy),
		}
	}

	o.logger.InfoContext(
		ctx, "layout proposed",
		"section_count", len(sections),
	)

	return sections, nil
}
