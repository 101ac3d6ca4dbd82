// Package sink persists finalized ingestion runs. A commit embeds every
// chunk, archives the source document to blob storage, and writes the
// knowledge item with all of its chunks in a single transaction. Partial
// commits are never left behind: a failed transaction removes the archived
// blob.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/repository"
	"github.com/siamdocs/quarry/pkg/storage"
)

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Service implements workflow.Sink over Postgres and blob storage.
type Service struct {
	pool     *pgxpool.Pool
	storage  storage.System
	embedder Embedder
	logger   *slog.Logger
}

func New(pool *pgxpool.Pool, store storage.System, embedder Embedder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pool:     pool,
		storage:  store,
		embedder: embedder,
		logger:   logger.With("system", "sink"),
	}
}

// Commit persists the run: embeddings first, then the source archive, then
// the knowledge item and its chunks transactionally. The archived blob is
// deleted when the transaction fails so storage and database stay in step.
func (s *Service) Commit(ctx context.Context, run *workflow.Run) error {
	if len(run.Chunks) == 0 {
		return fmt.Errorf("%w: run %s has no chunks", ErrNothingToCommit, run.ID)
	}

	texts := make([]string, len(run.Chunks))
	for i, c := range run.Chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	archiveKey, err := s.archive(ctx, run)
	if err != nil {
		return fmt.Errorf("archive source: %w", err)
	}

	if _, err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, s.insertRun(ctx, tx, run, vectors, archiveKey)
	}); err != nil {
		s.unarchive(ctx, archiveKey)
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	s.logger.InfoContext(
		ctx, "run committed",
		"run_id", run.ID,
		"chunks", len(run.Chunks),
		"archive_key", archiveKey,
	)

	return nil
}

func (s *Service) insertRun(ctx context.Context, tx pgx.Tx, run *workflow.Run, vectors [][]float64, archiveKey string) error {
	itemMeta, err := json.Marshal(map[string]any{
		"original_filename": filepath.Base(run.DocumentRef),
		"category":          run.Metadata.Type,
		"tags":              run.Metadata.Topics,
		"summary":           run.Metadata.Summary,
		"archive_key":       archiveKey,
	})
	if err != nil {
		return fmt.Errorf("marshal item metadata: %w", err)
	}

	_, err = repository.QueryOne(ctx, tx,
		`INSERT INTO knowledge_items (id, source_type, status, title, full_content, metadata)
		 VALUES ($1, 'ingest', 'active', $2, $3, $4)
		 RETURNING id`,
		[]any{run.ID, run.Metadata.Title, run.CleanText, itemMeta},
		func(row pgx.Row) (string, error) {
			var id string
			err := row.Scan(&id)
			return id, err
		},
	)
	if err != nil {
		return fmt.Errorf("insert knowledge item: %w", err)
	}

	for i, chunk := range run.Chunks {
		chunkMeta, err := json.Marshal(map[string]any{
			"section_id":    chunk.SectionID,
			"strategy_used": chunk.StrategyUsed,
		})
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}

		embedding, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("marshal embedding: %w", err)
		}

		if err := repository.ExecExpectOne(ctx, tx,
			`INSERT INTO knowledge_chunks (knowledge_item_id, chunk_text, chunk_sequence, embedding, metadata)
			 VALUES ($1, $2, $3, $4, $5)`,
			run.ID, chunk.Content, chunk.SequenceNumber, embedding, chunkMeta,
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.SequenceNumber, err)
		}
	}

	return nil
}

// archive uploads the source document when it is a readable local file.
// Runs ingested from refs without a backing file skip archival.
func (s *Service) archive(ctx context.Context, run *workflow.Run) (string, error) {
	f, err := os.Open(run.DocumentRef)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s", run.ID, filepath.Base(run.DocumentRef))
	if err := s.storage.Upload(ctx, key, f, "application/octet-stream"); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) unarchive(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.WarnContext(
			ctx, "failed to remove archived blob after rollback",
			"archive_key", key,
			"error", err,
		)
	}
}
