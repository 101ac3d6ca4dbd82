// Package workflow implements the ingestion workflow for quarry: a state
// graph that extracts a document, derives metadata, resolves a section
// layout, splits sections into chunks, validates chunk quality, and commits
// the result. Failing sweeps loop through section-targeted retries until
// the quality gate passes or the retry ceiling is reached.
package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for workflow operations.
var (
	ErrInvalidStrategy = errors.New("unknown splitting strategy")
	ErrExtractFailed   = errors.New("extraction failed")
	ErrCommitFailed    = errors.New("commit failed")
	ErrRunFailed       = errors.New("workflow run failed")
)

// Terminal failure reasons recorded on Run.FatalError.
const (
	ReasonExhausted = "exhausted retries"
	ReasonNoChunks  = "splitter produced no chunks"
	ReasonGiveUp    = "quality oracle recommended giving up"
)

// failWith stamps a sentinel-prefixed fatal error onto the run, keeping the
// sentinel text as the single source of the recorded failure reason.
func failWith(run *Run, sentinel error, err error) {
	run.Fail(fmt.Sprintf("%s: %v", sentinel, err))
}
