package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// SplitNode returns a state node that derives the run's chunks from the
// current layout. A pending RETRY_SECTION remediation is consumed here: the
// target section's strategy is overridden before dispatch, and the override
// sticks for later passes while other sections keep their prior strategies.
// Layout and chunks are rebuilt wholesale on every invocation so chunk
// numbering stays globally contiguous.
func SplitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("split: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		if rem := run.PendingRemediation; rem != nil {
			if rem.Action == ActionRetrySection {
				if sec, ok := run.SectionByID(rem.TargetSectionID); ok {
					rt.Logger.InfoContext(
						ctx, "applying remediation",
						"run_id", run.ID,
						"section", sec.ID,
						"from", sec.Strategy,
						"to", rem.SuggestedStrategy,
					)
					sec.Strategy = rem.SuggestedStrategy
				}
			}
			run.PendingRemediation = nil
		}

		run.Chunks = rt.Splitter.Split(ctx, run.CleanText, run.Layout, run.Metadata)
		rt.Logger.InfoContext(
			ctx, "split node complete",
			"run_id", run.ID,
			"chunks", len(run.Chunks),
		)

		return s.Set(KeyRun, run), nil
	})
}
