package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/siamdocs/quarry/internal/workflow"
)

// RunStatus is the lifecycle state of a tracked ingestion run.
type RunStatus string

const (
	StatusQueued    RunStatus = "queued"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunRecord tracks one document's ingestion as observed through the API.
// Ledger carries the failed run's diagnostic attempts for post-mortem.
type RunRecord struct {
	ID        uuid.UUID          `json:"id"`
	Document  string             `json:"document"`
	Status    RunStatus          `json:"status"`
	Error     string             `json:"error,omitempty"`
	Chunks    int                `json:"chunks,omitempty"`
	Ledger    []workflow.Attempt `json:"ledger,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
// Finished records age out; the durable record lives in the database.
type RunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*RunRecord
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[uuid.UUID]*RunRecord),
		ttl:  ttl,
	}
}

// Create registers a queued record for the document and returns it.
func (s *RunStore) Create(document string) *RunRecord {
	now := time.Now()
	rec := &RunRecord{
		ID:        uuid.New(),
		Document:  document,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rec.ID] = rec
	return rec
}

// Get returns a copy of the record, or nil when unknown.
func (s *RunStore) Get(id uuid.UUID) *RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[id]
	if !ok {
		return nil
	}
	out := *rec
	return &out
}

// List returns copies of all records, newest first not guaranteed.
func (s *RunStore) List() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, *rec)
	}
	return out
}

// Update applies fn to the record under the store lock.
func (s *RunStore) Update(id uuid.UUID, fn func(*RunRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.runs[id]; ok {
		fn(rec)
		rec.UpdatedAt = time.Now()
	}
}

// Cleanup removes finished records older than the TTL.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, rec := range s.runs {
		done := rec.Status == StatusCompleted || rec.Status == StatusFailed
		if done && rec.UpdatedAt.Before(cutoff) {
			delete(s.runs, id)
		}
	}
}
