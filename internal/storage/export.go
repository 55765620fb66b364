// ABOUTME: Export functionality for workout log data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	doc, err := BuildDocument(ctx, repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	doc, err := BuildDocument(ctx, repo)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// ExportMarkdown renders exercises and workouts as Markdown tables.
func ExportMarkdown(ctx context.Context, repo Repository) (string, error) {
	doc, err := BuildDocument(ctx, repo)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Workout Log Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Exercises\n\n")
	sb.WriteString("| Name | Category | Equipment |\n")
	sb.WriteString("|------|----------|-----------|\n")
	for _, e := range doc.Exercises {
		equipment := "no"
		if e.EquipmentNeeded {
			equipment = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", e.Name, e.Category, equipment))
	}
	sb.WriteString("\n")

	if len(doc.Workouts) == 0 {
		return sb.String(), nil
	}

	sb.WriteString("## Workouts\n\n")
	for _, w := range doc.Workouts {
		sb.WriteString(fmt.Sprintf("### %s (%d min)\n\n", w.Date, w.DurationMinutes))
		if w.Notes != nil && *w.Notes != "" {
			sb.WriteString(*w.Notes + "\n\n")
		}
		if len(w.Entries) == 0 {
			continue
		}
		sb.WriteString("| Exercise | Sets | Reps | Duration |\n")
		sb.WriteString("|----------|------|------|----------|\n")
		for _, entry := range w.Entries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				entry.Exercise, formatCount(entry.Sets), formatCount(entry.Reps), formatSeconds(entry.DurationSeconds)))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatSeconds(v *int) string {
	if v == nil {
		return ""
	}
	return (time.Duration(*v) * time.Second).String()
}
