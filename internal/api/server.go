// Package api exposes the ingestion service over HTTP: submit documents,
// observe in-flight runs, and browse committed knowledge items.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/siamdocs/quarry/internal/config"
	"github.com/siamdocs/quarry/internal/items"
	"github.com/siamdocs/quarry/internal/workflow"
	"github.com/siamdocs/quarry/pkg/middleware"
	"github.com/siamdocs/quarry/pkg/routes"
)

const storeTTL = 24 * time.Hour

// Server is the HTTP surface of the ingestion service.
type Server struct {
	handler  http.Handler
	runtime  *workflow.Runtime
	store    *RunStore
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
	baseCtx  context.Context
	ingestCh chan ingestTask
}

type ingestTask struct {
	record   *RunRecord
	document string
}

// NewServer assembles the router: health and ingestion endpoints plus the
// knowledge item module mounted under /api.
func NewServer(
	ctx context.Context,
	cfg *config.APIConfig,
	rt *workflow.Runtime,
	itemSys items.System,
	workers int,
	timeout time.Duration,
	logger *slog.Logger,
) *Server {
	if workers < 1 {
		workers = 1
	}

	s := &Server{
		runtime:  rt,
		store:    NewRunStore(storeTTL),
		workers:  workers,
		timeout:  timeout,
		logger:   logger.With("system", "api"),
		baseCtx:  ctx,
		ingestCh: make(chan ingestTask, 256),
	}
	s.setupRoutes(cfg, itemSys)
	s.startWorkers(ctx)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(cfg *config.APIConfig, itemSys items.System) {
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Logger(s.logger))
	routes.Register(apiRouter,
		routes.Group{
			Prefix: "/runs",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: s.handleListRuns},
				{Method: "GET", Pattern: "/{id}", Handler: s.handleFindRun},
			},
		},
		itemSys.Handler().Routes(),
	)
	apiRouter.Post("/ingest", s.handleIngest)

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Mount(cfg.BasePath, apiRouter)

	chain := middleware.New()
	chain.Use(chimiddleware.Recoverer)
	chain.Use(chimiddleware.RequestID)
	chain.Use(middleware.CORS(&cfg.CORS))
	s.handler = chain.Apply(r)
}

// startWorkers launches the bounded ingestion workers and the store
// janitor. They run until the base context is canceled.
func (s *Server) startWorkers(ctx context.Context) {
	for range s.workers {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-s.ingestCh:
					s.process(ctx, task)
				}
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.store.Cleanup()
			}
		}
	}()
}

func (s *Server) process(ctx context.Context, task ingestTask) {
	s.store.Update(task.record.ID, func(r *RunRecord) {
		r.Status = StatusRunning
	})

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run, err := workflow.Execute(ctx, s.runtime, task.document)
	s.store.Update(task.record.ID, func(r *RunRecord) {
		if run != nil {
			r.Ledger = run.Ledger
		}
		if err != nil {
			r.Status = StatusFailed
			r.Error = err.Error()
			return
		}
		r.Status = StatusCompleted
		r.Chunks = len(run.Chunks)
	})
}
