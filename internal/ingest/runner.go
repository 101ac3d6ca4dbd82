package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/siamdocs/quarry/internal/extraction"
	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/formatting"
)

// Summary reports the outcome of a batch.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
}

// Runner executes one workflow per document with bounded concurrency.
// Per-document failures are logged and counted; they never stop the batch.
type Runner struct {
	runtime    *workflow.Runtime
	workers    int
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewRunner(rt *workflow.Runtime, workers int, runTimeout time.Duration, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		runtime:    rt,
		workers:    workers,
		runTimeout: runTimeout,
		logger:     logger.With("system", "ingest"),
	}
}

// Run ingests the document at path, or every supported document under it
// when path is a directory.
func (r *Runner) Run(ctx context.Context, path string) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !extraction.IsSupported(path) {
			return Summary{}, fmt.Errorf("%s: unsupported extension", path)
		}
		return r.RunBatch(ctx, []string{path}), nil
	}

	docs, err := Discover(path)
	if err != nil {
		return Summary{}, err
	}
	if len(docs) == 0 {
		r.logger.WarnContext(ctx, "no supported documents found", "path", path)
		return Summary{}, nil
	}

	return r.RunBatch(ctx, docs), nil
}

// RunBatch ingests the given documents with up to workers in flight.
func (r *Runner) RunBatch(ctx context.Context, docs []string) Summary {
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, doc := range docs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err := r.runOne(gctx, doc); err != nil {
				failed.Add(1)
				r.logger.ErrorContext(
					gctx, "document ingestion failed",
					"document", doc,
					"error", err,
				)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}

	// Per-document errors are swallowed above; Wait only surfaces
	// cancellation.
	_ = g.Wait()

	summary := Summary{
		Processed: len(docs),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
	r.logger.InfoContext(
		ctx, "batch complete",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary
}

func (r *Runner) runOne(ctx context.Context, doc string) error {
	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	if info, err := os.Stat(doc); err == nil {
		r.logger.InfoContext(
			ctx, "ingesting document",
			"document", doc,
			"size", formatting.FormatBytes(info.Size(), 1),
		)
	}

	run, err := workflow.Execute(ctx, r.runtime, doc)
	if err != nil {
		return err
	}

	r.logger.InfoContext(
		ctx, "document ingested",
		"document", doc,
		"run_id", run.ID,
		"chunks", len(run.Chunks),
	)
	return nil
}

// Discover walks root collecting files with supported extensions.
func Discover(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extraction.IsSupported(path) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return docs, nil
}
