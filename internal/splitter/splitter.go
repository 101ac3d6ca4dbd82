// Package splitter derives ordered chunks from a document's clean text
// according to its sectioned layout. Three strategies are supported:
// recursive (deterministic size/overlap splitting), structural (marker
// anchored), and semantic (embedding driven). Structural and semantic fail
// over to recursive; nothing in this package aborts a run.
package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siamdocs/quarry/internal/workflow"
)

// Embedder produces one vector per input text. The semantic strategy uses
// it to locate topic shifts between adjacent sentences.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Options holds the splitting knobs shared across strategies.
type Options struct {
	ChunkSize         int
	ChunkOverlap      int
	SemanticThreshold int
}

// Service implements section splitting over a resolved layout.
type Service struct {
	embedder Embedder
	opts     Options
	logger   *slog.Logger
}

func New(embedder Embedder, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder: embedder,
		opts:     opts,
		logger:   logger.With("system", "splitter"),
	}
}

// Split slices the clean text per section, dispatches each slice to the
// section's strategy, and numbers the resulting chunks contiguously across
// the whole document starting at 1. Whitespace-only sections are skipped.
// A document with no splittable content yields zero chunks.
func (s *Service) Split(ctx context.Context, cleanText string, layout []workflow.Section, meta workflow.Metadata) []workflow.Chunk {
	runes := []rune(cleanText)

	var chunks []workflow.Chunk
	seq := 1

	for _, sec := range layout {
		text := sliceSection(runes, sec)
		if strings.TrimSpace(text) == "" {
			s.logger.DebugContext(
				ctx, "skipping empty section",
				"section_id", sec.ID,
			)
			continue
		}

		pieces, used := s.dispatch(ctx, text, sec.Strategy)
		for _, piece := range pieces {
			chunks = append(chunks, workflow.Chunk{
				Content:        enrich(meta.Title, sec.Title, piece),
				SectionID:      sec.ID,
				SequenceNumber: seq,
				StrategyUsed:   used,
			})
			seq++
		}
	}

	s.logger.InfoContext(
		ctx, "document split",
		"sections", len(layout),
		"chunks", len(chunks),
	)

	return chunks
}

// dispatch runs the section's strategy and reports which strategy actually
// produced the pieces after failover.
func (s *Service) dispatch(ctx context.Context, text string, strategy workflow.Strategy) ([]string, workflow.Strategy) {
	switch strategy {
	case workflow.StrategyStructural:
		if pieces := splitStructural(text, s.opts.ChunkSize, s.opts.ChunkOverlap); len(pieces) > 0 {
			return pieces, workflow.StrategyStructural
		}
		s.logger.DebugContext(ctx, "no structural markers, falling back to recursive")
	case workflow.StrategySemantic:
		pieces, err := s.splitSemantic(ctx, text)
		if err == nil && len(pieces) > 0 {
			return pieces, workflow.StrategySemantic
		}
		s.logger.WarnContext(
			ctx, "semantic splitting failed, falling back to recursive",
			"error", err,
		)
	}
	return splitRecursive(text, s.opts.ChunkSize, s.opts.ChunkOverlap), workflow.StrategyRecursive
}

// sliceSection clips the section's character range to the text bounds.
func sliceSection(runes []rune, sec workflow.Section) string {
	start, end := sec.CharStart, sec.CharEnd
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// enrich prepends the retrieval preamble naming the document and section.
func enrich(docTitle, sectionTitle, text string) string {
	if sectionTitle != "" {
		return fmt.Sprintf("From document: %s\nSection: %s\n\n%s", docTitle, sectionTitle, text)
	}
	return fmt.Sprintf("From document: %s\n\n%s", docTitle, text)
}
