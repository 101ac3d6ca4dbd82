package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// MetadataNode returns a state node that derives the document's descriptive
// metadata from a text preview. Metadata is gate context, not load-bearing
// structure, so oracle failure degrades to filename-derived fields instead
// of failing the run.
func MetadataNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("metadata: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		preview := preview(run.CleanText, rt.Options.PreviewLength)
		filename := filepath.Base(run.DocumentRef)

		meta, err := rt.Describer.Describe(ctx, preview, filename)
		if err != nil {
			rt.Logger.WarnContext(
				ctx, "metadata oracle failed, using filename fallback",
				"run_id", run.ID,
				"error", err,
			)
			meta = FallbackMetadata(filename)
		}

		run.Metadata = meta
		rt.Logger.InfoContext(
			ctx, "metadata node complete",
			"run_id", run.ID,
			"title", meta.Title,
			"type", meta.Type,
		)

		return s.Set(KeyRun, run), nil
	})
}

// FallbackMetadata builds minimal metadata from a filename when the oracle
// cannot provide any.
func FallbackMetadata(filename string) Metadata {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if title == "" {
		title = filename
	}
	return Metadata{
		Title: title,
		Type:  "other",
	}
}

// preview returns up to n runes of text for oracle prompts.
func preview(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
