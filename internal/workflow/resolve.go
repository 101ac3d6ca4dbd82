package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ResolveNode returns a state node that partitions the document into
// sections via one strategy oracle call. The oracle's layout is validated
// before use; an error, a malformed response, or range violations all
// degrade to a single whole-document section split recursively. This node
// never fails a run.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		textLen := len([]rune(run.CleanText))
		sections, err := rt.Strategy.ProposeLayout(
			ctx,
			preview(run.CleanText, rt.Options.PreviewLength),
			textLen,
			run.Metadata,
		)
		if err != nil {
			rt.Logger.WarnContext(
				ctx, "strategy oracle failed, using whole-document layout",
				"run_id", run.ID,
				"error", err,
			)
			sections = nil
		}

		layout, ok := normalizeLayout(sections, textLen)
		if !ok {
			rt.Logger.WarnContext(
				ctx, "proposed layout invalid, using whole-document layout",
				"run_id", run.ID,
				"sections", len(sections),
			)
			layout = fallbackLayout(run.Metadata.Title, textLen)
		}

		run.Layout = layout
		rt.Logger.InfoContext(
			ctx, "resolve node complete",
			"run_id", run.ID,
			"sections", len(layout),
		)

		return s.Set(KeyRun, run), nil
	})
}

// normalizeLayout validates the oracle's sections: unique IDs, in-bounds
// non-overlapping ranges in ascending order. Sections without a recognized
// strategy fall back to recursive individually. Returns ok=false when the
// layout as a whole cannot be trusted.
func normalizeLayout(sections []Section, textLen int) ([]Section, bool) {
	if len(sections) == 0 {
		return nil, false
	}

	var seen []int
	prevEnd := 0
	out := make([]Section, 0, len(sections))

	for _, sec := range sections {
		if slices.Contains(seen, sec.ID) {
			return nil, false
		}
		if sec.CharStart < prevEnd || sec.CharStart > sec.CharEnd || sec.CharEnd > textLen {
			return nil, false
		}
		if _, err := ParseStrategy(string(sec.Strategy)); err != nil {
			sec.Strategy = StrategyRecursive
		}
		seen = append(seen, sec.ID)
		prevEnd = sec.CharEnd
		out = append(out, sec)
	}

	return out, true
}

// fallbackLayout is the safe default: one section spanning the whole
// document, split recursively.
func fallbackLayout(title string, textLen int) []Section {
	return []Section{{
		ID:        1,
		Title:     title,
		CharStart: 0,
		CharEnd:   textLen,
		Strategy:  StrategyRecursive,
	}}
}
