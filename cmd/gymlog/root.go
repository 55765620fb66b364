// ABOUTME: Root Cobra command for the gymlog CLI.
// ABOUTME: Loads config, sets up logging and opens storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/gymlog/internal/config"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository

	flagBackend     string
	flagDataDir     string
	flagDatabaseURL string
	flagLogLevel    string
	flagLogJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "gymlog",
	Short: "Workout and exercise log",
	Long: `Gymlog keeps a log of exercises and the workouts they were performed in.

WHAT IT TRACKS:

  Exercises          name (unique), category, whether equipment is needed
  Workouts           date, duration in minutes, optional notes
  Workout exercises  an exercise performed in a workout with reps, sets
                     and/or a duration in seconds

QUICK START:

  $ gymlog exercise add Squat --category Strength --equipment
  $ gymlog workout add 2024-03-01 --duration 45 --notes "Leg day"
  $ gymlog workout log 1 1 --reps 10 --sets 4
  $ gymlog workout show 1

SERVERS:

  $ gymlog serve     # HTTP API on :5555 (see --help)
  $ gymlog mcp       # Model Context Protocol server over stdio

STORAGE:

  The default backend is SQLite at ~/.local/share/gymlog/gymlog.db.
  Select another with --backend (sqlite, postgres, kv) or in
  ~/.config/gymlog/config.json. GYMLOG_* environment variables override
  the file and flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		if err := logging.Setup(os.Stderr, logging.Options{
			Level: cfg.GetLogLevel(),
			JSON:  flagLogJSON,
		}); err != nil {
			return err
		}

		repo, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logging.Component("cli").Debug("storage opened", "backend", cfg.GetBackend())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRepo()
	},
}

// closeRepo releases storage. PersistentPostRunE is skipped when RunE fails,
// so Execute calls this again.
func closeRepo() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

// applyFlagOverrides copies explicitly set persistent flags onto c.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		c.Backend = flagBackend
	}
	if flags.Changed("data-dir") {
		c.DataDir = flagDataDir
	}
	if flags.Changed("database-url") {
		c.DatabaseURL = flagDatabaseURL
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBackend, "backend", "", "storage backend: sqlite, postgres or kv")
	pf.StringVar(&flagDataDir, "data-dir", "", "data directory for the sqlite and kv backends")
	pf.StringVar(&flagDatabaseURL, "database-url", "", "PostgreSQL connection string")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&flagLogJSON, "log-json", false, "write logs as JSON")
}
