// ABOUTME: Formatting and argument helpers shared by CLI commands.
// ABOUTME: Parses numeric ids and renders workouts and exercises as text.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/models"
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", kind, raw)
	}
	return id, nil
}

func faintID(id int64) string {
	return color.New(color.Faint).Sprintf("%4d", id)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// measurementText renders the non-empty measurements of an entry, e.g. "4x10, 60s".
func measurementText(we *models.WorkoutExercise) string {
	var parts []string
	reps, sets := we.Reps(), we.Sets()
	switch {
	case reps != nil && sets != nil:
		parts = append(parts, fmt.Sprintf("%dx%d", *sets, *reps))
	case reps != nil:
		parts = append(parts, fmt.Sprintf("%d reps", *reps))
	case sets != nil:
		parts = append(parts, fmt.Sprintf("%d sets", *sets))
	}
	if d := we.DurationSeconds(); d != nil {
		parts = append(parts, fmt.Sprintf("%ds", *d))
	}
	return strings.Join(parts, ", ")
}

// newestFirst orders workouts by date descending, keeping id order within a day.
func newestFirst(workouts []*models.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date().After(workouts[j].Date())
	})
}

func printWorkoutLine(w *models.Workout) {
	notes := ""
	if n := w.Notes(); n != nil && *n != "" {
		notes = color.New(color.Faint).Sprintf(" (%s)", truncate(*n, 30))
	}
	fmt.Printf("%s %s %s%s\n",
		faintID(w.ID()),
		w.DateString(),
		padRight(fmt.Sprintf("%d min", w.DurationMinutes()), 8),
		notes)
}
