// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Opens throwaway SQLite and Badger stores and builds fixture entities.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/gymlog/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gymlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestKV(t *testing.T) *KVStore {
	t.Helper()
	s, err := OpenKVInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// forEachBackend runs fn against a fresh SQLite database and a fresh KV store.
func forEachBackend(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestDB(t)) })
	t.Run("kv", func(t *testing.T) { fn(t, setupTestKV(t)) })
}

func newExercise(t *testing.T, name, category string, equipment bool) *models.Exercise {
	t.Helper()
	e, err := models.NewExercise(name, category, equipment)
	require.NoError(t, err)
	return e
}

func newWorkout(t *testing.T, date string, minutes int) *models.Workout {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	w, err := models.NewWorkout(d, minutes)
	require.NoError(t, err)
	return w
}

func newEntry(t *testing.T, workoutID, exerciseID int64, reps, sets, seconds int) *models.WorkoutExercise {
	t.Helper()
	m := models.Measurements{}
	if reps > 0 {
		m.Reps = models.IntPtr(reps)
	}
	if sets > 0 {
		m.Sets = models.IntPtr(sets)
	}
	if seconds > 0 {
		m.DurationSeconds = models.IntPtr(seconds)
	}
	we, err := models.NewWorkoutExercise(workoutID, exerciseID, m)
	require.NoError(t, err)
	return we
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
