// ABOUTME: CLI commands for exporting, importing and seeding workout log data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	seedFile     string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workout log data",
	Long: `Export all exercises and workouts.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, same shape as the seed fixture)
  markdown   Markdown tables (for documentation/sharing)

Workout entries reference exercises by name, so an export can be imported
into any backend.

EXAMPLES:

  gymlog export json                 # Export all data as JSON
  gymlog export json -o backup.json  # Save to file
  gymlog export markdown             # Print Markdown tables`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(cmd.Context(), repo)
		case "yaml":
			data, err = storage.ExportYAML(cmd.Context(), repo)
		case "markdown":
			var md string
			md, err = storage.ExportMarkdown(cmd.Context(), repo)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workout log data from JSON or YAML",
	Long: `Import a document written by 'gymlog export json' or 'gymlog export yaml'.

The document is validated in full first. On success it REPLACES all stored
data in one transaction; on failure nothing is changed. Files ending in
.yaml or .yml are read as YAML, everything else as JSON.

EXAMPLES:

  gymlog import backup.json
  gymlog import routine.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		summary, err := storage.ImportDocument(cmd.Context(), repo, doc)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", args[0])
		printSummary(summary)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo fixture",
	Long: `Replace all stored data with a fixture document.

Without --file the built-in fixture is loaded: five exercises, three
workouts and one exercise entry per workout.

CAUTION:

  Existing exercises and workouts are deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc *storage.Document
		if seedFile != "" {
			var err error
			if doc, err = readDocument(seedFile); err != nil {
				return err
			}
		}

		summary, err := storage.Seed(cmd.Context(), repo, doc)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		color.Green("✓ Seeded database")
		printSummary(summary)
		return nil
	},
}

func readDocument(path string) (*storage.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return storage.ParseYAMLDocument(data)
	default:
		return storage.ParseJSONDocument(data)
	}
}

func printSummary(s *storage.CopySummary) {
	fmt.Printf("  Exercises: %d\n", s.Exercises)
	fmt.Printf("  Workouts: %d\n", s.Workouts)
	fmt.Printf("  Workout exercises: %d\n", s.WorkoutExercises)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture document to load instead of the built-in one")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}
