// ABOUTME: Exercise operations for the Badger KV store.
// ABOUTME: The exercise_name index key is read inside every write so races conflict.
package storage

import (
	"context"
	"strconv"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/gymlog/internal/models"
)

func (s *KVStore) CreateExercise(ctx context.Context, e *models.Exercise) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := nextID(s.exercises)
	if err != nil {
		return err
	}

	err = s.update("create exercise", "exercises", func(txn *badger.Txn) error {
		return insertExerciseKV(txn, id, e)
	})
	if err != nil {
		return err
	}
	e.WithID(id)
	return nil
}

func insertExerciseKV(txn *badger.Txn, id int64, e *models.Exercise) error {
	taken, err := keyExists(txn, exerciseNameKey(e.Name()))
	if err != nil {
		return err
	}
	if taken {
		return &ConstraintError{Op: "create exercise", Table: "exercises", Kind: KindUnique, Column: "name"}
	}

	row := exerciseToRow(e)
	row.ID = id
	if err := putJSON(txn, idKey(ExercisePrefix, id), row); err != nil {
		return err
	}
	return txn.Set(exerciseNameKey(e.Name()), []byte(strconv.FormatInt(id, 10)))
}

func (s *KVStore) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var e *models.Exercise
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		e, err = getExerciseKV(txn, id)
		return err
	})
	return e, err
}

func getExerciseKV(txn *badger.Txn, id int64) (*models.Exercise, error) {
	row, ok, err := getJSON[exerciseRow](txn, idKey(ExercisePrefix, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "exercise", ID: id}
	}
	return row.model()
}

func (s *KVStore) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	var out []*models.Exercise
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = listExercisesKV(txn)
		return err
	})
	return out, err
}

func listExercisesKV(txn *badger.Txn) ([]*models.Exercise, error) {
	rows, err := listJSON[exerciseRow](txn, ExercisePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Exercise, 0, len(rows))
	for _, r := range rows {
		e, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *KVStore) UpdateExercise(ctx context.Context, id int64, fn func(*models.Exercise) error) (*models.Exercise, error) {
	var e *models.Exercise
	err := s.update("update exercise", "exercises", func(txn *badger.Txn) error {
		current, err := getExerciseKV(txn, id)
		if err != nil {
			return err
		}
		oldName := current.Name()
		if err := fn(current); err != nil {
			return err
		}

		if current.Name() != oldName {
			taken, err := keyExists(txn, exerciseNameKey(current.Name()))
			if err != nil {
				return err
			}
			if taken {
				return &ConstraintError{Op: "update exercise", Table: "exercises", Kind: KindUnique, Column: "name"}
			}
			if err := txn.Delete(exerciseNameKey(oldName)); err != nil {
				return err
			}
			if err := txn.Set(exerciseNameKey(current.Name()), []byte(strconv.FormatInt(id, 10))); err != nil {
				return err
			}
		}
		e = current
		return putJSON(txn, idKey(ExercisePrefix, id), exerciseToRow(current))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExercise removes the exercise, its name index and every association.
func (s *KVStore) DeleteExercise(ctx context.Context, id int64) error {
	return s.update("delete exercise", "exercises", func(txn *badger.Txn) error {
		row, ok, err := getJSON[exerciseRow](txn, idKey(ExercisePrefix, id))
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "exercise", ID: id}
		}

		entryIDs, err := indexedIDs(txn, byExerciseScan(id))
		if err != nil {
			return err
		}
		for _, entryID := range entryIDs {
			if err := deleteWorkoutExerciseKV(txn, entryID); err != nil {
				return err
			}
		}

		if err := txn.Delete(exerciseNameKey(row.Name)); err != nil {
			return err
		}
		return txn.Delete(idKey(ExercisePrefix, id))
	})
}

func (s *KVStore) WorkoutsForExercise(ctx context.Context, exerciseID int64) ([]*models.Workout, error) {
	var out []*models.Workout
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := getExerciseKV(txn, exerciseID); err != nil {
			return err
		}
		entryIDs, err := indexedIDs(txn, byExerciseScan(exerciseID))
		if err != nil {
			return err
		}

		seen := make(map[int64]bool)
		var workoutIDs []int64
		for _, entryID := range entryIDs {
			we, err := getWorkoutExerciseKV(txn, entryID)
			if err != nil {
				return err
			}
			if !seen[we.WorkoutID()] {
				seen[we.WorkoutID()] = true
				workoutIDs = append(workoutIDs, we.WorkoutID())
			}
		}
		sortIDs(workoutIDs)

		out = make([]*models.Workout, 0, len(workoutIDs))
		for _, wid := range workoutIDs {
			w, err := getWorkoutKV(txn, wid)
			if err != nil {
				return err
			}
			out = append(out, w)
		}
		return nil
	})
	return out, err
}
