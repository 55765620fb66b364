// ABOUTME: Workout CRUD operations for SQL storage.
// ABOUTME: Deleting a workout removes its associations in the same transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/harperreed/gymlog/internal/models"
)

var workoutColumns = []string{"id", "date", "duration_minutes", "notes"}

// CreateWorkout inserts w and assigns its id.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := d.insertWorkout(ctx, tx, w)
		if err != nil {
			return err
		}
		w.WithID(id)
		return nil
	})
}

func (d *DB) insertWorkout(ctx context.Context, q sqlx.QueryerContext, w *models.Workout) (int64, error) {
	row := workoutToRow(w)
	query, args, err := d.sb.Insert("workouts").
		Columns("date", "duration_minutes", "notes").
		Values(row.Date, row.DurationMinutes, row.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert workout: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError("create workout", "workouts", err)
	}
	return id, nil
}

// GetWorkout retrieves a workout by id without its associations.
func (d *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	return d.getWorkout(ctx, d.db, id, false)
}

func (d *DB) getWorkout(ctx context.Context, q sqlx.QueryerContext, id int64, lock bool) (*models.Workout, error) {
	b := d.sb.Select(workoutColumns...).
		From("workouts").
		Where(sq.Eq{"id": id})
	if lock {
		b = d.forUpdate(b)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get workout: %w", err)
	}

	var row workoutRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "workout", ID: id}
		}
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return row.model()
}

// GetWorkoutDetail retrieves a workout with its associations and exercises in one transaction.
func (d *DB) GetWorkoutDetail(ctx context.Context, id int64) (*WorkoutDetail, error) {
	var detail *WorkoutDetail
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		w, err := d.getWorkout(ctx, tx, id, false)
		if err != nil {
			return err
		}
		entries, err := d.listWorkoutExercises(ctx, tx, sq.Eq{"workout_id": id})
		if err != nil {
			return err
		}
		exercises, err := d.exercisesForWorkout(ctx, tx, id)
		if err != nil {
			return err
		}
		detail = assembleDetails([]*models.Workout{w}, entries, exercises)[0]
		return nil
	})
	return detail, err
}

// ListWorkouts retrieves all workouts ordered by id.
func (d *DB) ListWorkouts(ctx context.Context) ([]*models.Workout, error) {
	return d.listWorkouts(ctx, d.db)
}

func (d *DB) listWorkouts(ctx context.Context, q sqlx.QueryerContext) ([]*models.Workout, error) {
	query, args, err := d.sb.Select(workoutColumns...).
		From("workouts").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list workouts: %w", err)
	}

	var rows []workoutRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workoutModels(rows)
}

// ListWorkoutDetails retrieves every workout with its associations using three queries.
func (d *DB) ListWorkoutDetails(ctx context.Context) ([]*WorkoutDetail, error) {
	var details []*WorkoutDetail
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		workouts, err := d.listWorkouts(ctx, tx)
		if err != nil {
			return err
		}
		entries, err := d.listWorkoutExercises(ctx, tx, nil)
		if err != nil {
			return err
		}
		exercises, err := d.listExercises(ctx, tx)
		if err != nil {
			return err
		}
		details = assembleDetails(workouts, entries, exercises)
		return nil
	})
	return details, err
}

// UpdateWorkout loads workout id, lets fn modify it and writes it back in one
// transaction.
func (d *DB) UpdateWorkout(ctx context.Context, id int64, fn func(*models.Workout) error) (*models.Workout, error) {
	var w *models.Workout
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := d.getWorkout(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}

		row := workoutToRow(current)
		query, args, err := d.sb.Update("workouts").
			Set("date", row.Date).
			Set("duration_minutes", row.DurationMinutes).
			Set("notes", row.Notes).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update workout: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return translateError("update workout", "workouts", err)
		}
		if err := expectRow(result, "workout", id); err != nil {
			return err
		}
		w = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkout removes a workout and its associations.
func (d *DB) DeleteWorkout(ctx context.Context, id int64) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := d.deleteWhere(ctx, tx, "workout_exercises", sq.Eq{"workout_id": id}); err != nil {
			return fmt.Errorf("delete workout associations: %w", err)
		}

		query, args, err := d.sb.Delete("workouts").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete workout: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return translateError("delete workout", "workouts", err)
		}
		return expectRow(result, "workout", id)
	})
}

// ExercisesForWorkout lists the distinct exercises logged in a workout.
func (d *DB) ExercisesForWorkout(ctx context.Context, workoutID int64) ([]*models.Exercise, error) {
	var out []*models.Exercise
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := d.getWorkout(ctx, tx, workoutID, false); err != nil {
			return err
		}
		var err error
		out, err = d.exercisesForWorkout(ctx, tx, workoutID)
		return err
	})
	return out, err
}

func (d *DB) exercisesForWorkout(ctx context.Context, q sqlx.QueryerContext, workoutID int64) ([]*models.Exercise, error) {
	query, args, err := d.sb.Select("e.id", "e.name", "e.category", "e.equipment_needed").
		Distinct().
		From("exercises e").
		Join("workout_exercises we ON we.exercise_id = e.id").
		Where(sq.Eq{"we.workout_id": workoutID}).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build exercises for workout: %w", err)
	}

	var rows []exerciseRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("exercises for workout: %w", err)
	}
	return exerciseModels(rows)
}
