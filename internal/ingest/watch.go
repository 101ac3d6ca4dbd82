package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/siamdocs/quarry/internal/extraction"
)

// settleDelay gives writers time to finish before a new file is ingested.
const settleDelay = 2 * time.Second

// Watch ingests documents as they appear under dir until ctx is canceled.
// Create and rename events for supported extensions trigger a single-file
// ingestion after a settle delay; everything else is ignored.
func (r *Runner) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	r.logger.InfoContext(ctx, "watching for documents", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !extraction.IsSupported(event.Name) {
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(settleDelay):
			}

			r.RunBatch(ctx, []string{event.Name})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.WarnContext(ctx, "watcher error", "error", err)
		}
	}
}
