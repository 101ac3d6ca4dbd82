package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/siamdocs/quarry/pkg/formatting"
)

// judgeContextLimit bounds how much of each chunk is sent to the quality
// oracle per judgment.
const judgeContextLimit = 1000

// GateNode returns a state node that sweeps the chunks in sequence order
// through the quality oracle. The sweep stops at the first invalid chunk:
// later chunks would be regenerated by the section retry anyway, so judging
// them wastes oracle calls. The failing verdict is appended to the ledger
// and its recommendation becomes the pending remediation for the next
// splitter pass. A fully passing sweep clears the ledger.
func GateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		run, err := extractRun(s)
		if err != nil {
			return s, fmt.Errorf("gate: %w", err)
		}
		if run.Failed() {
			return s, nil
		}

		sweep(ctx, rt, run)
		return s.Set(KeyRun, run), nil
	})
}

func sweep(ctx context.Context, rt *Runtime, run *Run) {
	run.QualityPassed = false

	if len(run.Chunks) == 0 {
		// Nothing to retry against: a structural violation, not a
		// quality failure.
		run.Fail(ReasonNoChunks)
		rt.Logger.ErrorContext(
			ctx, "gate rejected run",
			"run_id", run.ID,
			"reason", ReasonNoChunks,
		)
		return
	}

	previous := NoPreviousChunk
	for _, chunk := range run.Chunks {
		verdict, err := judgeChunk(ctx, rt, run, previous, chunk)
		if err != nil {
			if errors.Is(err, formatting.ErrParseFailed) {
				giveUp(ctx, rt, run, chunk, "malformed oracle response")
				return
			}
			run.Fail(fmt.Sprintf("quality oracle: %v", err))
			rt.Logger.ErrorContext(
				ctx, "quality oracle unavailable",
				"run_id", run.ID,
				"chunk", chunk.SequenceNumber,
				"error", err,
			)
			return
		}

		if !verdict.IsValid {
			applyFailure(ctx, rt, run, chunk, verdict)
			return
		}

		previous = chunk.Content
	}

	run.QualityPassed = true
	run.ClearLedger()
	run.PendingRemediation = nil
	rt.Logger.InfoContext(
		ctx, "gate node complete",
		"run_id", run.ID,
		"chunks", len(run.Chunks),
	)
}

func judgeChunk(ctx context.Context, rt *Runtime, run *Run, previous string, chunk Chunk) (Verdict, error) {
	section := Section{ID: chunk.SectionID, Strategy: chunk.StrategyUsed}
	if sec, ok := run.SectionByID(chunk.SectionID); ok {
		section = *sec
	}

	return rt.Quality.Judge(ctx, JudgeRequest{
		Topic:    run.Metadata.Title,
		Previous: clip(previous, judgeContextLimit),
		Current:  clip(chunk.Content, judgeContextLimit),
		Section:  section,
		History:  run.RecentAttempts(rt.Options.HistoryCap),
	})
}

// applyFailure records the failing verdict and stages its remediation for
// the next splitter pass. A missing recommendation or a RETRY_SECTION
// target absent from the layout cannot drive a retry, so both degrade to
// giving up rather than guessing.
func applyFailure(ctx context.Context, rt *Runtime, run *Run, chunk Chunk, verdict Verdict) {
	rec := verdict.Recommendation
	if rec == nil {
		giveUp(ctx, rt, run, chunk, verdict.Reason)
		return
	}

	if rec.Action == ActionGiveUp {
		run.RecordAttempt(verdict.Reason, verdict.Diagnosis, *rec)
		run.Fail(ReasonGiveUp)
		rt.Logger.ErrorContext(
			ctx, "gate rejected run",
			"run_id", run.ID,
			"chunk", chunk.SequenceNumber,
			"reason", verdict.Reason,
		)
		return
	}

	if _, ok := run.SectionByID(rec.TargetSectionID); !ok {
		giveUp(ctx, rt, run, chunk, fmt.Sprintf("remediation targets unknown section %d", rec.TargetSectionID))
		return
	}

	attempt := run.RecordAttempt(verdict.Reason, verdict.Diagnosis, *rec)
	run.PendingRemediation = rec
	rt.Logger.InfoContext(
		ctx, "gate failed chunk",
		"run_id", run.ID,
		"chunk", chunk.SequenceNumber,
		"attempt", attempt.AttemptNumber,
		"reason", verdict.Reason,
		"target_section", rec.TargetSectionID,
		"suggested_strategy", rec.SuggestedStrategy,
	)
}

func giveUp(ctx context.Context, rt *Runtime, run *Run, chunk Chunk, reason string) {
	run.RecordAttempt(reason, "", Remediation{Action: ActionGiveUp})
	run.Fail(ReasonGiveUp)
	rt.Logger.ErrorContext(
		ctx, "gate rejected run",
		"run_id", run.ID,
		"chunk", chunk.SequenceNumber,
		"reason", reason,
	)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
