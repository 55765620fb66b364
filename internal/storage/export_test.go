// ABOUTME: Tests for export, import and seeding.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and the default fixture.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/gymlog/internal/models"
)

func TestSeedLoadsDefaultFixture(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		require.NoError(t, repo.CreateExercise(ctx, newExercise(t, "Leftover", "Old", false)))

		summary, err := Seed(ctx, repo, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Exercises)
		assert.Equal(t, 3, summary.Workouts)
		assert.Equal(t, 3, summary.WorkoutExercises)

		exercises, err := repo.ListExercises(ctx)
		require.NoError(t, err)
		require.Len(t, exercises, 5)
		assert.Equal(t, "Push-Up", exercises[0].Name())
		assert.True(t, exercises[2].EquipmentNeeded())

		details, err := repo.ListWorkoutDetails(ctx)
		require.NoError(t, err)
		require.Len(t, details, 3)
		assert.Equal(t, "Leg day", *details[0].Workout.Notes())
		require.Len(t, details[0].Exercises, 1)
		assert.Equal(t, "Squat", details[0].Exercises[0].Name())
		require.Len(t, details[2].WorkoutExercises, 1)
		assert.Equal(t, 1800, *details[2].WorkoutExercises[0].DurationSeconds())

		// Seeding twice leaves the same graph.
		_, err = Seed(ctx, repo, nil)
		require.NoError(t, err)
		exercises, err = repo.ListExercises(ctx)
		require.NoError(t, err)
		assert.Len(t, exercises, 5)
	})
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db, nil)
	require.NoError(t, err)

	data, err := ExportJSON(ctx, db)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "gymlog", doc.Tool)
	assert.Len(t, doc.Exercises, 5)
	require.Len(t, doc.Workouts, 3)
	require.Len(t, doc.Workouts[1].Entries, 1)
	assert.Equal(t, "Bench Press", doc.Workouts[1].Entries[0].Exercise)
	assert.Equal(t, 8, *doc.Workouts[1].Entries[0].Reps)
}

func TestExportYAML(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()
	_, err := Seed(ctx, kv, nil)
	require.NoError(t, err)

	data, err := ExportYAML(ctx, kv)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "gymlog", parsed["tool"])
	assert.Contains(t, string(data), "duration_seconds: 1800")
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db, nil)
	require.NoError(t, err)

	md, err := ExportMarkdown(ctx, db)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Workout Log Export"))
	assert.Contains(t, md, "| Bench Press | Strength | yes |")
	assert.Contains(t, md, "### 2025-01-03 (60 min)")
	assert.Contains(t, md, "| Running |  |  | 30m0s |")
}

func TestImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, src, nil)
	require.NoError(t, err)

	data, err := ExportJSON(ctx, src)
	require.NoError(t, err)
	doc, err := ParseJSONDocument(data)
	require.NoError(t, err)

	dst := setupTestKV(t)
	summary, err := ImportDocument(ctx, dst, doc)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.WorkoutExercises)

	again, err := ExportJSON(ctx, dst)
	require.NoError(t, err)
	redoc, err := ParseJSONDocument(again)
	require.NoError(t, err)
	assert.Equal(t, doc.Exercises, redoc.Exercises)
	assert.Equal(t, doc.Workouts, redoc.Workouts)
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"short name", Document{Exercises: []DocumentExercise{{Name: "ab", Category: "x"}}}},
		{"zero duration", Document{Workouts: []DocumentWorkout{{Date: "2025-01-01", DurationMinutes: 0}}}},
		{"bad date", Document{Workouts: []DocumentWorkout{{Date: "tomorrow", DurationMinutes: 10}}}},
		{"empty entry", Document{
			Exercises: []DocumentExercise{{Name: "Squat", Category: "Strength"}},
			Workouts: []DocumentWorkout{{Date: "2025-01-01", DurationMinutes: 10, Entries: []DocumentEntry{
				{Exercise: "Squat"},
			}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Dataset()
			assert.True(t, errors.Is(err, models.ErrInvalidAttribute), "expected invalid attribute, got %v", err)
		})
	}

	doc := Document{Workouts: []DocumentWorkout{{Date: "2025-01-01", DurationMinutes: 10, Entries: []DocumentEntry{
		{Exercise: "Missing", Reps: models.IntPtr(3)},
	}}}}
	_, err := doc.Dataset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown exercise "Missing"`)
}
