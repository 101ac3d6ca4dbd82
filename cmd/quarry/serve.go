package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siamdocs/quarry/internal/api"
	"github.com/siamdocs/quarry/internal/config"
	"github.com/siamdocs/quarry/internal/infrastructure"
	"github.com/siamdocs/quarry/internal/ingest"
	"github.com/siamdocs/quarry/internal/items"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingestion service",
	Long: `Start the HTTP API. Documents are submitted by path to POST /api/ingest
and processed by a bounded worker pool; run status and committed knowledge
items are queryable while the service runs.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	infra.Logger.Info(
		"quarry starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	if err := infra.Start(); err != nil {
		return err
	}

	runtime := ingest.NewRuntime(infra, cfg)
	itemSys := items.New(
		infra.Database.Pool(),
		infra.Storage,
		infra.Logger,
		cfg.API.Pagination,
	)

	server := api.NewServer(
		infra.Lifecycle.Context(),
		&cfg.API,
		runtime,
		itemSys,
		cfg.Pipeline.Workers,
		cfg.Pipeline.RunTimeoutDuration(),
		infra.Logger,
	)

	if err := newHTTPServer(&cfg.Server, server, infra.Logger).Start(infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		infra.Lifecycle.WaitForStartup()
		infra.Logger.Info("all subsystems ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	infra.Logger.Info("initiating shutdown")
	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	infra.Logger.Info("quarry stopped")
	return nil
}
