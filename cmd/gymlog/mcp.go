// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/gymlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and uses the same storage backend
as the rest of the CLI.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "gymlog": {
        "command": "gymlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_exercise       Create an exercise
  list_exercises     List all exercises
  delete_exercise    Delete an exercise and its log entries
  add_workout        Create a workout for a date
  list_workouts      List recent workouts with their exercises
  get_workout        Get a workout with its entries
  delete_workout     Delete a workout
  log_exercise       Record an exercise in a workout
  remove_log_entry   Remove one entry from a workout

AVAILABLE RESOURCES:

  gymlog://exercises         Exercise catalogue
  gymlog://workouts/recent   Recent workouts with totals`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
