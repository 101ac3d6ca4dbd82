// Package oracle implements the LLM-backed collaborators of the ingestion
// workflow: layout strategy, per-chunk quality judgment, and document
// metadata. Each oracle creates a fresh agent per call and parses the
// model's response with formatting.Parse.
package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

func chat(ctx context.Context, cfg gaconfig.AgentConfig, prompt string) (string, error) {
	a, err := agent.New(&cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Text(), nil
}

func systemLogger(l *slog.Logger, system string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("system", system)
}
