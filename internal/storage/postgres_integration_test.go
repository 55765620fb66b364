//go:build integration

// ABOUTME: Runs the repository contract against a real PostgreSQL container.
// ABOUTME: Requires Docker; enabled with the integration build tag.
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/harperreed/gymlog/internal/models"
)

func setupPostgres(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("gymlog"),
		postgrescontainer.WithUsername("gymlog"),
		postgrescontainer.WithPassword("gymlog"),
		postgrescontainer.BasicWaitStrategies(),
		testcontainers.WithEnv(map[string]string{"TZ": "UTC"}),
	)
	testcontainers.CleanupContainer(t, pg)
	require.NoError(t, err)

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := OpenPostgres(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgresRepository(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	t.Run("seed and relationships", func(t *testing.T) {
		_, err := Seed(ctx, db, nil)
		require.NoError(t, err)

		details, err := db.ListWorkoutDetails(ctx)
		require.NoError(t, err)
		require.Len(t, details, 3)
		assert.Equal(t, "2025-01-01", details[0].Workout.DateString())
		assert.Equal(t, "Squat", details[0].Exercises[0].Name())
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := db.CreateExercise(ctx, newExercise(t, "Squat", "Strength", false))
		assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
	})

	t.Run("cascade delete", func(t *testing.T) {
		exercises, err := db.ListExercises(ctx)
		require.NoError(t, err)
		squat := exercises[1]

		require.NoError(t, db.DeleteExercise(ctx, squat.ID()))
		data, err := db.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, data.WorkoutExercises, 2)
		for _, we := range data.WorkoutExercises {
			assert.NotEqual(t, squat.ID(), we.ExerciseID())
		}
	})

	t.Run("check constraint", func(t *testing.T) {
		w := newWorkout(t, "2025-02-01", 20)
		require.NoError(t, db.CreateWorkout(ctx, w))

		_, err := db.db.ExecContext(ctx, "UPDATE workouts SET duration_minutes = -1 WHERE id = $1", w.ID())
		require.Error(t, err)
		assert.ErrorIs(t, translateError("update workout", "workouts", err), ErrConstraintViolation)

		got, err := db.GetWorkout(ctx, w.ID())
		require.NoError(t, err)
		assert.Equal(t, 20, got.DurationMinutes())
	})

	t.Run("missing parent", func(t *testing.T) {
		we, err := models.NewWorkoutExercise(999, 1, models.Measurements{Reps: models.IntPtr(5)})
		require.NoError(t, err)
		assert.ErrorIs(t, db.CreateWorkoutExercise(ctx, we), ErrNotFound)
	})
}
