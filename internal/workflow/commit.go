package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// CommitNode returns a state node that hands the finalized run to the sink.
// The sink's commit is all-or-nothing; a failure here is terminal for the
// run and surfaces through FatalError like any other upstream failure.
func CommitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("commit: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		if err := rt.Sink.Commit(ctx, run); err != nil {
			failWith(run, ErrCommitFailed, err)
			rt.Logger.ErrorContext(
				ctx, "commit failed",
				"run_id", run.ID,
				"error", err,
			)
			return s.Set(KeyRun, run), nil
		}

		rt.Logger.InfoContext(
			ctx, "commit node complete",
			"run_id", run.ID,
			"chunks", len(run.Chunks),
		)

		return s.Set(KeyRun, run), nil
	})
}

// FinishNode returns the graph's terminal node. A run arriving here without
// a passing sweep and without a recorded error has exhausted its retries;
// that is stamped onto FatalError in this single place so the router itself
// stays side-effect free.
func FinishNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("finish: %w", err)
		}

		if !run.QualityPassed && !run.Failed() {
			run.Fail(ReasonExhausted)
		}

		if run.Failed() {
			rt.Logger.ErrorContext(
				ctx, "run failed",
				"run_id", run.ID,
				"document", run.DocumentRef,
				"reason", run.FatalError,
				"attempts", len(run.Ledger),
			)
		} else {
			rt.Logger.InfoContext(
				ctx, "run complete",
				"run_id", run.ID,
				"document", run.DocumentRef,
				"chunks", len(run.Chunks),
			)
		}

		return s.Set(KeyRun, run), nil
	})
}
