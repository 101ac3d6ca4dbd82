package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siamdocs/quarry/internal/config"
	"github.com/siamdocs/quarry/internal/infrastructure"
	"github.com/siamdocs/quarry/internal/ingest"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Ingest a document or directory",
	Long: `Run the ingestion pipeline against a single document or every supported
document under a directory. With --watch the directory is monitored and new
files are ingested as they appear, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch the directory and ingest new files as they appear")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	if err := infra.Start(); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()

	defer func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			infra.Logger.Error("shutdown error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := ingest.NewRunner(
		ingest.NewRuntime(infra, cfg),
		cfg.Pipeline.Workers,
		cfg.Pipeline.RunTimeoutDuration(),
		infra.Logger,
	)

	if ingestWatch {
		return runner.Watch(ctx, args[0])
	}

	summary, err := runner.Run(ctx, args[0])
	if err != nil {
		return err
	}

	infra.Logger.Info(
		"ingest complete",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Processed)
	}
	return nil
}
