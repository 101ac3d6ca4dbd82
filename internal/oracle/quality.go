package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/formatting"
)

// Quality is the LLM-backed chunk judge. Parse failures surface as errors
// wrapping formatting.ErrParseFailed so the quality gate can distinguish a
// malformed verdict from an unreachable model.
type Quality struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

func NewQuality(agent gaconfig.AgentConfig, logger *slog.Logger) *Quality {
	return &Quality{
		agent:  agent,
		logger: systemLogger(logger, "oracle.quality"),
	}
}

func (o *Quality) Judge(ctx context.Context, req workflow.JudgeRequest) (workflow.Verdict, error) {
	prompt := fmt.Sprintf(
		judgePrompt,
		req.Topic,
		req.Section.ID,
		req.Section.Title,
		req.Section.Strategy,
		workflow.NoPreviousChunk,
		req.Previous,
		req.Current,
		historyBlock(req.History),
	)

	content, err := chat(ctx, o.agent, prompt)
	if err != nil {
		return workflow.Verdict{}, fmt.Errorf("judge: %w", err)
	}

	verdict, err := formatting.Parse[workflow.Verdict](content)
	if err != nil {
		return workflow.Verdict{}, fmt.Errorf("judge: %w", err)
	}

	o.logger.DebugContext(
		ctx, "chunk judged",
		"section_id", req.Section.ID,
		"is_valid", verdict.IsValid,
	)

	return verdict, nil
}

// historyBlock renders prior failed attempts for the prompt, empty when the
// ledger is clean.
func historyBlock(history []workflow.Attempt) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(judgeHistoryHeader)
	for _, a := range history {
		line, err := json.Marshal(a)
		if err != nil {
			continue
		}
		sb.Write(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
