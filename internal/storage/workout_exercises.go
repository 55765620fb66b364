// ABOUTME: WorkoutExercise operations for SQL storage.
// ABOUTME: Creation checks both parents inside the inserting transaction.
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

var workoutExerciseColumns = []string{"id", "workout_id", "exercise_id", "reps", "sets", "duration_seconds"}

// CreateWorkoutExercise links an existing workout and exercise and assigns the row id.
func (d *DB) CreateWorkoutExercise(ctx context.Context, we *models.WorkoutExercise) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := d.requireParents(ctx, tx, we.WorkoutID(), we.ExerciseID()); err != nil {
			return err
		}
		id, err := d.insertWorkoutExercise(ctx, tx, we)
		if err != nil {
			return err
		}
		we.WithID(id)
		return nil
	})
}

func (d *DB) requireParents(ctx context.Context, q sqlx.QueryerContext, workoutID, exerciseID int64) error {
	ok, err := d.exists(ctx, q, "workouts", workoutID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: "workout", ID: workoutID}
	}

	ok, err = d.exists(ctx, q, "exercises", exerciseID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: "exercise", ID: exerciseID}
	}
	return nil
}

func (d *DB) insertWorkoutExercise(ctx context.Context, q sqlx.QueryerContext, we *models.WorkoutExercise) (int64, error) {
	row := workoutExerciseToRow(we)
	query, args, err := d.sb.Insert("workout_exercises").
		Columns("workout_id", "exercise_id", "reps", "sets", "duration_seconds").
		Values(row.WorkoutID, row.ExerciseID, row.Reps, row.Sets, row.DurationSeconds).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert workout exercise: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError("create workout exercise", "workout_exercises", err)
	}
	return id, nil
}

// GetWorkoutExercise retrieves a single association by id.
func (d *DB) GetWorkoutExercise(ctx context.Context, id int64) (*models.WorkoutExercise, error) {
	query, args, err := d.sb.Select(workoutExerciseColumns...).
		From("workout_exercises").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get workout exercise: %w", err)
	}

	var row workoutExerciseRow
	if err := sqlx.GetContext(ctx, d.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "workout_exercise", ID: id}
		}
		return nil, fmt.Errorf("get workout exercise: %w", err)
	}
	return row.model()
}

// ListWorkoutExercises retrieves the associations of one workout ordered by id.
func (d *DB) ListWorkoutExercises(ctx context.Context, workoutID int64) ([]*models.WorkoutExercise, error) {
	var out []*models.WorkoutExercise
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := d.getWorkout(ctx, tx, workoutID, false); err != nil {
			return err
		}
		var err error
		out, err = d.listWorkoutExercises(ctx, tx, sq.Eq{"workout_id": workoutID})
		return err
	})
	return out, err
}

// listWorkoutExercises lists associations matching pred, or all of them when pred is nil.
func (d *DB) listWorkoutExercises(ctx context.Context, q sqlx.QueryerContext, pred any) ([]*models.WorkoutExercise, error) {
	builder := d.sb.Select(workoutExerciseColumns...).From("workout_exercises").OrderBy("id")
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list workout exercises: %w", err)
	}

	var rows []workoutExerciseRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}
	return workoutExerciseModels(rows)
}

// DeleteWorkoutExercise removes a single association.
func (d *DB) DeleteWorkoutExercise(ctx context.Context, id int64) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := d.sb.Delete("workout_exercises").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete workout exercise: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return translateError("delete workout exercise", "workout_exercises", err)
		}
		return expectRow(result, "workout_exercise", id)
	})
}
