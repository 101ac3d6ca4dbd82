package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ExtractNode returns a state node that produces normalized clean text from
// the run's document reference. Extraction failure is fatal: no later stage
// can do anything without text.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		text, err := rt.Extractor.Extract(ctx, run.DocumentRef)
		if err != nil {
			failWith(run, ErrExtractFailed, err)
			rt.Logger.ErrorContext(
				ctx, "extraction failed",
				"run_id", run.ID,
				"document", run.DocumentRef,
				"error", err,
			)
			return s.Set(KeyRun, run), nil
		}

		run.CleanText = text
		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"run_id", run.ID,
			"document", run.DocumentRef,
			"chars", len(text),
		)

		return s.Set(KeyRun, run), nil
	})
}

func extractRun(s state.State) (*Run, error) {
	val, ok := s.Get(KeyRun)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyRun)
	}

	run, ok := val.(*Run)
	if !ok {
		return nil, fmt.Errorf("%s is not *Run", KeyRun)
	}

	return run, nil
}
