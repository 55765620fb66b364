// ABOUTME: Workout and WorkoutExercise operations for the Badger KV store.
// ABOUTME: Associations are indexed by both parents so either delete can cascade.
package storage

import (
	"context"
	"sort"
	"strconv"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/gymlog/internal/models"
)

func (s *KVStore) CreateWorkout(ctx context.Context, w *models.Workout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := nextID(s.workouts)
	if err != nil {
		return err
	}
	err = s.update("create workout", "workouts", func(txn *badger.Txn) error {
		row := workoutToRow(w)
		row.ID = id
		return putJSON(txn, idKey(WorkoutPrefix, id), row)
	})
	if err != nil {
		return err
	}
	w.WithID(id)
	return nil
}

func (s *KVStore) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	var w *models.Workout
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		w, err = getWorkoutKV(txn, id)
		return err
	})
	return w, err
}

func getWorkoutKV(txn *badger.Txn, id int64) (*models.Workout, error) {
	row, ok, err := getJSON[workoutRow](txn, idKey(WorkoutPrefix, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "workout", ID: id}
	}
	return row.model()
}

func (s *KVStore) GetWorkoutDetail(ctx context.Context, id int64) (*WorkoutDetail, error) {
	var detail *WorkoutDetail
	err := s.db.View(func(txn *badger.Txn) error {
		w, err := getWorkoutKV(txn, id)
		if err != nil {
			return err
		}
		entries, err := workoutEntriesKV(txn, id)
		if err != nil {
			return err
		}
		exercises, err := exercisesForEntriesKV(txn, entries)
		if err != nil {
			return err
		}
		detail = assembleDetails([]*models.Workout{w}, entries, exercises)[0]
		return nil
	})
	return detail, err
}

func (s *KVStore) ListWorkouts(ctx context.Context) ([]*models.Workout, error) {
	var out []*models.Workout
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = listWorkoutsKV(txn)
		return err
	})
	return out, err
}

func listWorkoutsKV(txn *badger.Txn) ([]*models.Workout, error) {
	rows, err := listJSON[workoutRow](txn, WorkoutPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Workout, 0, len(rows))
	for _, r := range rows {
		w, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *KVStore) ListWorkoutDetails(ctx context.Context) ([]*WorkoutDetail, error) {
	var details []*WorkoutDetail
	err := s.db.View(func(txn *badger.Txn) error {
		workouts, err := listWorkoutsKV(txn)
		if err != nil {
			return err
		}
		entries, err := listWorkoutExercisesKV(txn)
		if err != nil {
			return err
		}
		exercises, err := listExercisesKV(txn)
		if err != nil {
			return err
		}
		details = assembleDetails(workouts, entries, exercises)
		return nil
	})
	return details, err
}

func (s *KVStore) UpdateWorkout(ctx context.Context, id int64, fn func(*models.Workout) error) (*models.Workout, error) {
	var w *models.Workout
	err := s.update("update workout", "workouts", func(txn *badger.Txn) error {
		current, err := getWorkoutKV(txn, id)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		w = current
		return putJSON(txn, idKey(WorkoutPrefix, id), workoutToRow(current))
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkout removes the workout and every association in one transaction.
func (s *KVStore) DeleteWorkout(ctx context.Context, id int64) error {
	return s.update("delete workout", "workouts", func(txn *badger.Txn) error {
		ok, err := keyExists(txn, idKey(WorkoutPrefix, id))
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "workout", ID: id}
		}

		entryIDs, err := indexedIDs(txn, byWorkoutScan(id))
		if err != nil {
			return err
		}
		for _, entryID := range entryIDs {
			if err := deleteWorkoutExerciseKV(txn, entryID); err != nil {
				return err
			}
		}
		return txn.Delete(idKey(WorkoutPrefix, id))
	})
}

func (s *KVStore) ExercisesForWorkout(ctx context.Context, workoutID int64) ([]*models.Exercise, error) {
	var out []*models.Exercise
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := getWorkoutKV(txn, workoutID); err != nil {
			return err
		}
		entries, err := workoutEntriesKV(txn, workoutID)
		if err != nil {
			return err
		}
		out, err = exercisesForEntriesKV(txn, entries)
		return err
	})
	return out, err
}

// exercisesForEntriesKV returns the distinct exercises referenced by entries in id order.
func exercisesForEntriesKV(txn *badger.Txn, entries []*models.WorkoutExercise) ([]*models.Exercise, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, we := range entries {
		if !seen[we.ExerciseID()] {
			seen[we.ExerciseID()] = true
			ids = append(ids, we.ExerciseID())
		}
	}
	sortIDs(ids)

	out := make([]*models.Exercise, 0, len(ids))
	for _, id := range ids {
		e, err := getExerciseKV(txn, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// CreateWorkoutExercise rewrites both parent keys unchanged. Badger only
// detects conflicts on point reads, and the parent deletes point-read those
// keys, so a delete racing this insert fails at commit instead of missing the
// new row in its index scan.
func (s *KVStore) CreateWorkoutExercise(ctx context.Context, we *models.WorkoutExercise) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := nextID(s.entries)
	if err != nil {
		return err
	}

	err = s.update("create workout exercise", "workout_exercises", func(txn *badger.Txn) error {
		ok, err := touchKey(txn, idKey(WorkoutPrefix, we.WorkoutID()))
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "workout", ID: we.WorkoutID()}
		}
		ok, err = touchKey(txn, idKey(ExercisePrefix, we.ExerciseID()))
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "exercise", ID: we.ExerciseID()}
		}
		return insertWorkoutExerciseKV(txn, id, we)
	})
	if err != nil {
		return err
	}
	we.WithID(id)
	return nil
}

func insertWorkoutExerciseKV(txn *badger.Txn, id int64, we *models.WorkoutExercise) error {
	row := workoutExerciseToRow(we)
	row.ID = id
	if err := putJSON(txn, idKey(WorkoutExercisePrefix, id), row); err != nil {
		return err
	}
	value := []byte(strconv.FormatInt(id, 10))
	if err := txn.Set(byWorkoutKey(row.WorkoutID, id), value); err != nil {
		return err
	}
	return txn.Set(byExerciseKey(row.ExerciseID, id), value)
}

func (s *KVStore) GetWorkoutExercise(ctx context.Context, id int64) (*models.WorkoutExercise, error) {
	var we *models.WorkoutExercise
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		we, err = getWorkoutExerciseKV(txn, id)
		return err
	})
	return we, err
}

func getWorkoutExerciseKV(txn *badger.Txn, id int64) (*models.WorkoutExercise, error) {
	row, ok, err := getJSON[workoutExerciseRow](txn, idKey(WorkoutExercisePrefix, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "workout_exercise", ID: id}
	}
	return row.model()
}

func (s *KVStore) ListWorkoutExercises(ctx context.Context, workoutID int64) ([]*models.WorkoutExercise, error) {
	var out []*models.WorkoutExercise
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := getWorkoutKV(txn, workoutID); err != nil {
			return err
		}
		var err error
		out, err = workoutEntriesKV(txn, workoutID)
		return err
	})
	return out, err
}

func workoutEntriesKV(txn *badger.Txn, workoutID int64) ([]*models.WorkoutExercise, error) {
	ids, err := indexedIDs(txn, byWorkoutScan(workoutID))
	if err != nil {
		return nil, err
	}
	out := make([]*models.WorkoutExercise, 0, len(ids))
	for _, id := range ids {
		we, err := getWorkoutExerciseKV(txn, id)
		if err != nil {
			return nil, err
		}
		out = append(out, we)
	}
	return out, nil
}

func listWorkoutExercisesKV(txn *badger.Txn) ([]*models.WorkoutExercise, error) {
	rows, err := listJSON[workoutExerciseRow](txn, WorkoutExercisePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]*models.WorkoutExercise, 0, len(rows))
	for _, r := range rows {
		we, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, we)
	}
	return out, nil
}

func (s *KVStore) DeleteWorkoutExercise(ctx context.Context, id int64) error {
	return s.update("delete workout exercise", "workout_exercises", func(txn *badger.Txn) error {
		return deleteWorkoutExerciseKV(txn, id)
	})
}

// deleteWorkoutExerciseKV removes the row and both index keys.
func deleteWorkoutExerciseKV(txn *badger.Txn, id int64) error {
	row, ok, err := getJSON[workoutExerciseRow](txn, idKey(WorkoutExercisePrefix, id))
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: "workout_exercise", ID: id}
	}
	if err := txn.Delete(byWorkoutKey(row.WorkoutID, id)); err != nil {
		return err
	}
	if err := txn.Delete(byExerciseKey(row.ExerciseID, id)); err != nil {
		return err
	}
	return txn.Delete(idKey(WorkoutExercisePrefix, id))
}

func (s *KVStore) Snapshot(ctx context.Context) (*Dataset, error) {
	data := &Dataset{}
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if data.Exercises, err = listExercisesKV(txn); err != nil {
			return err
		}
		if data.Workouts, err = listWorkoutsKV(txn); err != nil {
			return err
		}
		data.WorkoutExercises, err = listWorkoutExercisesKV(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ReplaceAll clears every row and index key, then writes data with fresh ids.
func (s *KVStore) ReplaceAll(ctx context.Context, data *Dataset) error {
	if err := data.checkReferences(); err != nil {
		return err
	}

	ids := newIDMap()
	for _, e := range data.Exercises {
		id, err := nextID(s.exercises)
		if err != nil {
			return err
		}
		ids.exercises[e.ID()] = id
	}
	for _, w := range data.Workouts {
		id, err := nextID(s.workouts)
		if err != nil {
			return err
		}
		ids.workouts[w.ID()] = id
	}

	err := s.update("replace all", "workouts", func(txn *badger.Txn) error {
		for _, prefix := range []string{byWorkoutPrefix, byExercisePrefix, WorkoutExercisePrefix, WorkoutPrefix, ExerciseNamePrefix, ExercisePrefix} {
			if err := deleteKeys(txn, prefix); err != nil {
				return err
			}
		}

		for _, e := range data.Exercises {
			if err := insertExerciseKV(txn, ids.exercises[e.ID()], e); err != nil {
				return err
			}
		}
		for _, w := range data.Workouts {
			row := workoutToRow(w)
			row.ID = ids.workouts[w.ID()]
			if err := putJSON(txn, idKey(WorkoutPrefix, row.ID), row); err != nil {
				return err
			}
		}
		for i, we := range data.WorkoutExercises {
			remapped, err := ids.remap(we)
			if err != nil {
				return err
			}
			id, err := nextID(s.entries)
			if err != nil {
				return err
			}
			if err := insertWorkoutExerciseKV(txn, id, remapped); err != nil {
				return err
			}
			ids.entries[i] = remapped.WithID(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ids.apply(data)
	return nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
