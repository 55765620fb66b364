// ABOUTME: Row structs shared by the SQL and KV backends.
// ABOUTME: Rows are rebuilt into models through their validating constructors.
package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

// sqlDate stores a calendar date as YYYY-MM-DD text and scans either text or time values.
type sqlDate struct {
	time.Time
}

func (d *sqlDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

func (d *sqlDate) parse(s string) error {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return fmt.Errorf("scan date: %w", err)
	}
	d.Time = t
	return nil
}

func (d sqlDate) Value() (driver.Value, error) {
	return d.Format(models.DateLayout), nil
}

func (d sqlDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(models.DateLayout))
}

func (d *sqlDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.parse(s)
}

type exerciseRow struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Category        string `db:"category" json:"category"`
	EquipmentNeeded bool   `db:"equipment_needed" json:"equipment_needed"`
}

func exerciseToRow(e *models.Exercise) exerciseRow {
	return exerciseRow{
		ID:              e.ID(),
		Name:            e.Name(),
		Category:        e.Category(),
		EquipmentNeeded: e.EquipmentNeeded(),
	}
}

func (r exerciseRow) model() (*models.Exercise, error) {
	e, err := models.NewExercise(r.Name, r.Category, r.EquipmentNeeded)
	if err != nil {
		return nil, &DecodeError{Entity: "exercise", ID: r.ID, Err: err}
	}
	return e.WithID(r.ID), nil
}

type workoutRow struct {
	ID              int64   `db:"id" json:"id"`
	Date            sqlDate `db:"date" json:"date"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	Notes           *string `db:"notes" json:"notes,omitempty"`
}

func workoutToRow(w *models.Workout) workoutRow {
	return workoutRow{
		ID:              w.ID(),
		Date:            sqlDate{w.Date()},
		DurationMinutes: w.DurationMinutes(),
		Notes:           w.Notes(),
	}
}

func (r workoutRow) model() (*models.Workout, error) {
	w, err := models.NewWorkout(r.Date.Time, r.DurationMinutes)
	if err != nil {
		return nil, &DecodeError{Entity: "workout", ID: r.ID, Err: err}
	}
	w.SetNotes(r.Notes)
	return w.WithID(r.ID), nil
}

type workoutExerciseRow struct {
	ID              int64 `db:"id" json:"id"`
	WorkoutID       int64 `db:"workout_id" json:"workout_id"`
	ExerciseID      int64 `db:"exercise_id" json:"exercise_id"`
	Reps            *int  `db:"reps" json:"reps,omitempty"`
	Sets            *int  `db:"sets" json:"sets,omitempty"`
	DurationSeconds *int  `db:"duration_seconds" json:"duration_seconds,omitempty"`
}

func workoutExerciseToRow(we *models.WorkoutExercise) workoutExerciseRow {
	return workoutExerciseRow{
		ID:              we.ID(),
		WorkoutID:       we.WorkoutID(),
		ExerciseID:      we.ExerciseID(),
		Reps:            we.Reps(),
		Sets:            we.Sets(),
		DurationSeconds: we.DurationSeconds(),
	}
}

func (r workoutExerciseRow) model() (*models.WorkoutExercise, error) {
	we, err := models.NewWorkoutExercise(r.WorkoutID, r.ExerciseID, models.Measurements{
		Reps:            r.Reps,
		Sets:            r.Sets,
		DurationSeconds: r.DurationSeconds,
	})
	if err != nil {
		return nil, &DecodeError{Entity: "workout_exercise", ID: r.ID, Err: err}
	}
	return we.WithID(r.ID), nil
}

func exerciseModels(rows []exerciseRow) ([]*models.Exercise, error) {
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

func workoutModels(rows []workoutRow) ([]*models.Workout, error) {
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

func workoutExerciseModels(rows []workoutExerciseRow) ([]*models.WorkoutExercise, error) {
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
