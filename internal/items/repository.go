package items

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siamdocs/quarry/pkg/pagination"
	"github.com/siamdocs/quarry/pkg/query"
	"github.com/siamdocs/quarry/pkg/repository"
	"github.com/siamdocs/quarry/pkg/storage"
)

type repo struct {
	pool       *pgxpool.Pool
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a knowledge item repository implementing the System interface.
func New(
	pool *pgxpool.Pool,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		pool:       pool,
		storage:    store,
		logger:     logger.With("system", "items"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Item], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "SourceType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	rows, err := repository.QueryMany(ctx, r.pool, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	result := pagination.NewPageResult(rows, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ItemDetail, error) {
	q, args := query.NewBuilder(detailProjection).BuildSingle("ID", id)

	detail, err := repository.FindOne(ctx, r.pool, q, args, scanDetail)
	if err != nil {
		return nil, repository.MapError(err, ErrItemNotFound, ErrItemExists)
	}

	return &detail, nil
}

func (r *repo) Chunks(ctx context.Context, id uuid.UUID) ([]Chunk, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	chunks, err := repository.QueryMany(ctx, r.pool,
		`SELECT id, chunk_sequence, chunk_text, metadata
		 FROM knowledge_chunks
		 WHERE knowledge_item_id = $1
		 ORDER BY chunk_sequence`,
		[]any{id}, scanChunk,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	return chunks, nil
}

// Delete removes the item's rows and its archived source blob. Chunks go
// with the item via ON DELETE CASCADE; the blob removal is best effort
// after the transaction commits.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	detail, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if _, err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx,
			`DELETE FROM knowledge_items WHERE id = $1`, id)
		return struct{}{}, err
	}); err != nil {
		return repository.MapError(err, ErrItemNotFound, ErrItemExists)
	}

	if key := archiveKey(detail.Metadata); key != "" {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn(
				"failed to delete archived blob",
				"item_id", id,
				"archive_key", key,
				"error", err,
			)
		}
	}

	r.logger.Info("knowledge item deleted", "item_id", id)
	return nil
}

func archiveKey(metadata json.RawMessage) string {
	var meta struct {
		ArchiveKey string `json:"archive_key"`
	}
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return ""
	}
	return meta.ArchiveKey
}
