package main

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/siamdocs/quarry/internal/config"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	migrateDSN   string
	migrateDown  bool
	migrateSteps int
	migrateForce int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded schema migrations. Without flags, all pending up
migrations run. The connection string comes from --dsn or the database
section of the loaded configuration.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "database connection string (defaults to configured database)")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "revert all migrations")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations (positive=up, negative=down)")
	migrateCmd.Flags().IntVar(&migrateForce, "force", -1, "force set version (use with caution)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn := migrateDSN
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		dsn = cfg.Database.Dsn()
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch {
	case cmd.Flags().Changed("force"):
		if err := m.Force(migrateForce); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		fmt.Printf("forced to version %d\n", migrateForce)
	case migrateDown:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("revert migrations: %w", err)
		}
		fmt.Println("migrations reverted")
	case migrateSteps != 0:
		if err := m.Steps(migrateSteps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migration steps: %w", err)
		}
		fmt.Printf("applied %d migration steps\n", migrateSteps)
	default:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}
		fmt.Println("migrations applied")
	}

	return nil
}
