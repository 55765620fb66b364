// ABOUTME: Whole-graph snapshot and replacement for SQL storage.
// ABOUTME: Replacement deletes children before parents and inserts parents before children.
package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/harperreed/gymlog/internal/models"
)

// Snapshot reads every row in one transaction.
func (d *DB) Snapshot(ctx context.Context) (*Dataset, error) {
	data := &Dataset{}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if data.Exercises, err = d.listExercises(ctx, tx); err != nil {
			return err
		}
		if data.Workouts, err = d.listWorkouts(ctx, tx); err != nil {
			return err
		}
		data.WorkoutExercises, err = d.listWorkoutExercises(ctx, tx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ReplaceAll swaps the stored graph for data atomically. On success every
// entity in data carries its newly assigned id.
func (d *DB) ReplaceAll(ctx context.Context, data *Dataset) error {
	if err := data.checkReferences(); err != nil {
		return err
	}

	var ids idMap
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"workout_exercises", "workouts", "exercises"} {
			if err := d.deleteWhere(ctx, tx, table, nil); err != nil {
				return err
			}
		}

		ids = newIDMap()
		for _, e := range data.Exercises {
			id, err := d.insertExercise(ctx, tx, e)
			if err != nil {
				return err
			}
			ids.exercises[e.ID()] = id
		}
		for _, w := range data.Workouts {
			id, err := d.insertWorkout(ctx, tx, w)
			if err != nil {
				return err
			}
			ids.workouts[w.ID()] = id
		}
		for i, we := range data.WorkoutExercises {
			remapped, err := ids.remap(we)
			if err != nil {
				return err
			}
			id, err := d.insertWorkoutExercise(ctx, tx, remapped)
			if err != nil {
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

// idMap tracks old to new ids while a dataset is written.
type idMap struct {
	exercises map[int64]int64
	workouts  map[int64]int64
	entries   map[int]*models.WorkoutExercise
}

func newIDMap() idMap {
	return idMap{
		exercises: make(map[int64]int64),
		workouts:  make(map[int64]int64),
		entries:   make(map[int]*models.WorkoutExercise),
	}
}

func (m idMap) remap(we *models.WorkoutExercise) (*models.WorkoutExercise, error) {
	return models.NewWorkoutExercise(m.workouts[we.WorkoutID()], m.exercises[we.ExerciseID()], we.Measurements())
}

func (m idMap) apply(data *Dataset) {
	for _, e := range data.Exercises {
		e.WithID(m.exercises[e.ID()])
	}
	for _, w := range data.Workouts {
		w.WithID(m.workouts[w.ID()])
	}
	for i, we := range m.entries {
		data.WorkoutExercises[i] = we
	}
}

// checkReferences verifies that ids are unique per entity and that every
// association points at entities inside the dataset.
func (data *Dataset) checkReferences() error {
	exercises := make(map[int64]bool, len(data.Exercises))
	for _, e := range data.Exercises {
		if exercises[e.ID()] {
			return fmt.Errorf("dataset: duplicate exercise id %d", e.ID())
		}
		exercises[e.ID()] = true
	}
	workouts := make(map[int64]bool, len(data.Workouts))
	for _, w := range data.Workouts {
		if workouts[w.ID()] {
			return fmt.Errorf("dataset: duplicate workout id %d", w.ID())
		}
		workouts[w.ID()] = true
	}
	for _, we := range data.WorkoutExercises {
		if !workouts[we.WorkoutID()] {
			return &NotFoundError{Entity: "workout", ID: we.WorkoutID()}
		}
		if !exercises[we.ExerciseID()] {
			return &NotFoundError{Entity: "exercise", ID: we.ExerciseID()}
		}
	}
	return nil
}
