// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Refuses to overwrite a destination that already holds data unless forced.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/config"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateToBackend     string
	migrateToDataDir     string
	migrateToDatabaseURL string
	migrateForce         bool
	migrateDryRun        bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every exercise, workout and workout entry from the current backend
to another one.

The source is the backend selected by config, environment or --backend.
The destination is described by the --to-* flags; unset --to-data-dir and
--to-database-url fall back to the source values.

IMPORTANT:

  - Ids are reassigned by the destination
  - A destination that already holds data is only overwritten with --force
  - Run with --dry-run first to see what would be copied

USAGE:

  gymlog migrate --to-backend kv --dry-run
  gymlog migrate --to-backend postgres --to-database-url postgres://...
  gymlog --backend kv migrate --to-backend sqlite --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dstCfg := &config.Config{
			Backend:     migrateToBackend,
			DataDir:     cfg.DataDir,
			DatabaseURL: cfg.DatabaseURL,
		}
		if cmd.Flags().Changed("to-data-dir") {
			dstCfg.DataDir = migrateToDataDir
		}
		if cmd.Flags().Changed("to-database-url") {
			dstCfg.DatabaseURL = migrateToDatabaseURL
		}
		if sameTarget(cfg, dstCfg) {
			return errors.New("source and destination are the same storage")
		}

		data, err := repo.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would copy from %s to %s:\n", cfg.GetBackend(), dstCfg.GetBackend())
			printSummary(&storage.CopySummary{
				Exercises:        len(data.Exercises),
				Workouts:         len(data.Workouts),
				WorkoutExercises: len(data.WorkoutExercises),
			})
			return nil
		}

		dst, err := dstCfg.OpenStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		if !migrateForce {
			hasData, err := holdsData(ctx, dst)
			if err != nil {
				return err
			}
			if hasData {
				return fmt.Errorf("destination %s already holds data (use --force to replace it)", dstCfg.GetBackend())
			}
		}

		summary, err := storage.CopyData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Copied %s to %s", cfg.GetBackend(), dstCfg.GetBackend())
		printSummary(summary)
		return nil
	},
}

// sameTarget reports whether two configs point at the same storage.
func sameTarget(a, b *config.Config) bool {
	if a.GetBackend() != b.GetBackend() {
		return false
	}
	if a.GetBackend() == config.BackendPostgres {
		return a.DatabaseURL == b.DatabaseURL
	}
	return a.GetDataDir() == b.GetDataDir()
}

func holdsData(ctx context.Context, r storage.Repository) (bool, error) {
	data, err := r.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read destination: %w", err)
	}
	return len(data.Exercises)+len(data.Workouts) > 0, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateToBackend, "to-backend", "", "destination backend: sqlite, postgres or kv")
	migrateCmd.Flags().StringVar(&migrateToDataDir, "to-data-dir", "", "destination data directory")
	migrateCmd.Flags().StringVar(&migrateToDatabaseURL, "to-database-url", "", "destination PostgreSQL connection string")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace data already in the destination")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("to-backend")
	rootCmd.AddCommand(migrateCmd)
}
