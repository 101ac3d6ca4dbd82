package workflow

import (
	"context"
	"log/slog"
)

// StrategyOracle partitions a document into sections, each with a
// recommended splitting strategy. Implementations must return
// non-overlapping sections in ascending order covering the text; the layout
// resolver validates and degrades on violations rather than trusting this.
type StrategyOracle interface {
	ProposeLayout(ctx context.Context, preview string, textLen int, meta Metadata) ([]Section, error)
}

// JudgeRequest carries everything the quality oracle sees for one chunk:
// the document's main topic, the preceding chunk's content (NoPreviousChunk
// for the first), the chunk under review, the section it belongs to, and a
// capped slice of prior failed attempts so the oracle does not repeat a
// remediation that already failed.
type JudgeRequest struct {
	Topic    string
	Previous string
	Current  string
	Section  Section
	History  []Attempt
}

// Verdict is the quality oracle's judgment of a single chunk.
// Recommendation must be non-nil whenever IsValid is false.
type Verdict struct {
	IsValid        bool         `json:"is_valid"`
	Reason         string       `json:"reason"`
	Diagnosis      string       `json:"diagnosis"`
	Recommendation *Remediation `json:"recommendation"`
}

// QualityOracle judges one chunk against its context. A returned error
// wrapping formatting.ErrParseFailed marks a malformed response; any other
// error is treated as an upstream failure.
type QualityOracle interface {
	Judge(ctx context.Context, req JudgeRequest) (Verdict, error)
}

// MetadataOracle derives descriptive metadata from a document preview.
// Implementations degrade to filename-derived metadata on failure rather
// than returning an error that would abort the run.
type MetadataOracle interface {
	Describe(ctx context.Context, preview, filename string) (Metadata, error)
}

// Extractor produces normalized clean text from a document reference.
// Failure is fatal for the run: there is nothing to chunk.
type Extractor interface {
	Extract(ctx context.Context, ref string) (string, error)
}

// SectionSplitter derives ordered chunks from the clean text per the layout.
// It never fails a run: section-level strategy failures degrade to
// recursive splitting, and an unworkable document yields zero chunks.
type SectionSplitter interface {
	Split(ctx context.Context, cleanText string, layout []Section, meta Metadata) []Chunk
}

// Sink persists a finalized run. Commit must be all-or-nothing.
type Sink interface {
	Commit(ctx context.Context, run *Run) error
}

// Options bundles the pipeline knobs the workflow nodes read.
type Options struct {
	MaxRetries    int
	PreviewLength int
	HistoryCap    int
}

// Runtime bundles the dependencies that workflow nodes require. It is
// constructed by higher-level composition code; nodes never reach for
// ambient globals.
type Runtime struct {
	Extractor Extractor
	Strategy  StrategyOracle
	Quality   QualityOracle
	Describer MetadataOracle
	Splitter  SectionSplitter
	Sink      Sink
	Options   Options
	Logger    *slog.Logger
}
