package workflow

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	// KeyRun is the state-bag key holding the typed Run record.
	KeyRun = "run"

	// NoPreviousChunk is the sentinel passed to the quality oracle
	// when judging the first chunk of a sweep.
	NoPreviousChunk = "none"
)

// Strategy identifies the method used to split a section's text.
type Strategy string

// Splitting strategies.
const (
	StrategyStructural Strategy = "structural"
	StrategySemantic   Strategy = "semantic"
	StrategyRecursive  Strategy = "recursive"
)

var strategies = []Strategy{
	StrategyStructural,
	StrategySemantic,
	StrategyRecursive,
}

// ParseStrategy validates a string as a known splitting strategy.
// Returns ErrInvalidStrategy if the value is not recognized.
func ParseStrategy(s string) (Strategy, error) {
	v := Strategy(s)
	if !slices.Contains(strategies, v) {
		return "", ErrInvalidStrategy
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known strategy value.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStrategy(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Action is the remediation action the quality oracle prescribes after a
// failed sweep.
type Action string

// Remediation actions.
const (
	ActionRetrySection Action = "RETRY_SECTION"
	ActionGiveUp       Action = "GIVE_UP"
)

// Metadata holds the descriptive fields derived for a document. Title feeds
// the quality gate as the document's main topic; Type and Summary are
// persisted alongside the document by the sink.
type Metadata struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// Section is a contiguous character range of the clean text assigned a
// splitting strategy. Offsets count runes, not bytes.
// IDs are unique within a layout and stable across
// splitter invocations so remediations can target them.
type Section struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	CharStart int      `json:"char_start"`
	CharEnd   int      `json:"char_end"`
	Strategy  Strategy `json:"strategy"`
}

// Chunk is a retrieval-sized content unit derived from a section.
// SequenceNumber is globally unique and contiguous within a run.
type Chunk struct {
	Content        string   `json:"content"`
	SectionID      int      `json:"section_id"`
	SequenceNumber int      `json:"sequence_number"`
	StrategyUsed   Strategy `json:"strategy_used"`
}

// Remediation is a structured instruction for the next splitter pass:
// retry one section with a different strategy, or abandon the run.
type Remediation struct {
	Action            Action   `json:"action"`
	TargetSectionID   int      `json:"target_section_id"`
	SuggestedStrategy Strategy `json:"suggested_strategy"`
}

// Attempt records one failed validation sweep and the remediation the
// oracle prescribed for it. Immutable once appended to the ledger.
type Attempt struct {
	AttemptNumber  int         `json:"attempt_number"`
	Reason         string      `json:"reason"`
	Diagnosis      string      `json:"diagnosis"`
	Recommendation Remediation `json:"recommendation"`
}

// Run is the mutable workflow state for a single document, threaded through
// every stage of the graph. It is owned exclusively by its run; stages
// mutate it in place and the router reads it to pick the next stage.
type Run struct {
	ID          uuid.UUID `json:"id"`
	DocumentRef string    `json:"document_ref"`
	StartedAt   time.Time `json:"started_at"`

	CleanText string    `json:"-"`
	Metadata  Metadata  `json:"metadata"`
	Layout    []Section `json:"layout"`
	Chunks    []Chunk   `json:"chunks"`

	Ledger             []Attempt    `json:"ledger"`
	QualityPassed      bool         `json:"quality_passed"`
	FatalError         string       `json:"fatal_error,omitempty"`
	PendingRemediation *Remediation `json:"pending_remediation,omitempty"`
}

// NewRun creates the workflow state for one document.
func NewRun(documentRef string) *Run {
	return &Run{
		ID:          uuid.New(),
		DocumentRef: documentRef,
		StartedAt:   time.Now(),
	}
}

// Failed reports whether a terminal error has been recorded.
func (r *Run) Failed() bool {
	return r.FatalError != ""
}

// Fail records a terminal error. The first recorded error wins; later
// stages must not run once it is set.
func (r *Run) Fail(msg string) {
	if r.FatalError == "" {
		r.FatalError = msg
	}
}

// RecordAttempt appends a failed-sweep record to the ledger and returns it.
// The attempt number is the ledger length at append time plus one.
func (r *Run) RecordAttempt(reason, diagnosis string, rec Remediation) Attempt {
	a := Attempt{
		AttemptNumber:  len(r.Ledger) + 1,
		Reason:         reason,
		Diagnosis:      diagnosis,
		Recommendation: rec,
	}
	r.Ledger = append(r.Ledger, a)
	return a
}

// ClearLedger discards the failure history after a passing sweep.
func (r *Run) ClearLedger() {
	r.Ledger = nil
}

// RecentAttempts returns up to the last n ledger entries, oldest first.
// The oracle prompt context is capped here so payload size stays bounded
// independent of the retry ceiling.
func (r *Run) RecentAttempts(n int) []Attempt {
	if n <= 0 || len(r.Ledger) == 0 {
		return nil
	}
	if len(r.Ledger) <= n {
		return r.Ledger
	}
	return r.Ledger[len(r.Ledger)-n:]
}

// SectionByID looks up a section in the current layout.
func (r *Run) SectionByID(id int) (*Section, bool) {
	for i := range r.Layout {
		if r.Layout[i].ID == id {
			return &r.Layout[i], true
		}
	}
	return nil, false
}
