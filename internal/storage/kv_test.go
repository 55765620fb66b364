// ABOUTME: Tests specific to the Badger KV backend.
// ABOUTME: Covers cascade deletes racing association inserts.
package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVDeleteWorkoutConflictsWithInterleavedLog(t *testing.T) {
	s := setupTestKV(t)
	ctx := context.Background()

	squat := newExercise(t, "Squat", "Strength", false)
	require.NoError(t, s.CreateExercise(ctx, squat))
	w := newWorkout(t, "2024-03-01", 45)
	require.NoError(t, s.CreateWorkout(ctx, w))

	// Same steps as DeleteWorkout, with an insert committing after the index scan.
	txn := s.db.NewTransaction(true)
	defer txn.Discard()
	ok, err := keyExists(txn, idKey(WorkoutPrefix, w.ID()))
	require.NoError(t, err)
	require.True(t, ok)
	entryIDs, err := indexedIDs(txn, byWorkoutScan(w.ID()))
	require.NoError(t, err)
	require.Empty(t, entryIDs)

	we := newEntry(t, w.ID(), squat.ID(), 10, 4, 0)
	require.NoError(t, s.CreateWorkoutExercise(ctx, we))

	require.NoError(t, txn.Delete(idKey(WorkoutPrefix, w.ID())))
	assert.ErrorIs(t, txn.Commit(), badger.ErrConflict)

	_, err = s.GetWorkout(ctx, w.ID())
	require.NoError(t, err)
	_, err = s.GetWorkoutExercise(ctx, we.ID())
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorkout(ctx, w.ID()))
	_, err = s.GetWorkoutExercise(ctx, we.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVDeleteExerciseConflictsWithInterleavedLog(t *testing.T) {
	s := setupTestKV(t)
	ctx := context.Background()

	squat := newExercise(t, "Squat", "Strength", false)
	require.NoError(t, s.CreateExercise(ctx, squat))
	w := newWorkout(t, "2024-03-01", 45)
	require.NoError(t, s.CreateWorkout(ctx, w))

	txn := s.db.NewTransaction(true)
	defer txn.Discard()
	row, ok, err := getJSON[exerciseRow](txn, idKey(ExercisePrefix, squat.ID()))
	require.NoError(t, err)
	require.True(t, ok)
	entryIDs, err := indexedIDs(txn, byExerciseScan(squat.ID()))
	require.NoError(t, err)
	require.Empty(t, entryIDs)

	we := newEntry(t, w.ID(), squat.ID(), 0, 0, 60)
	require.NoError(t, s.CreateWorkoutExercise(ctx, we))

	require.NoError(t, txn.Delete(exerciseNameKey(row.Name)))
	require.NoError(t, txn.Delete(idKey(ExercisePrefix, squat.ID())))
	assert.ErrorIs(t, txn.Commit(), badger.ErrConflict)

	_, err = s.GetWorkoutExercise(ctx, we.ID())
	require.NoError(t, err)
}

func TestKVConcurrentLogAndDeleteLeaveNoOrphans(t *testing.T) {
	s := setupTestKV(t)
	ctx := context.Background()

	squat := newExercise(t, "Squat", "Strength", false)
	require.NoError(t, s.CreateExercise(ctx, squat))

	for i := 0; i < 100; i++ {
		w := newWorkout(t, "2024-03-01", 30)
		require.NoError(t, s.CreateWorkout(ctx, w))
		we := newEntry(t, w.ID(), squat.ID(), 5, 0, 0)

		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			errs[0] = s.CreateWorkoutExercise(ctx, we)
		}()
		go func() {
			defer wg.Done()
			<-start
			errs[1] = s.DeleteWorkout(ctx, w.ID())
		}()
		close(start)
		wg.Wait()

		for _, err := range errs {
			if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConstraintViolation) {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	data, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NoError(t, data.checkReferences())
}
