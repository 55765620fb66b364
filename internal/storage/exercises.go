// ABOUTME: Exercise CRUD operations for SQL storage.
// ABOUTME: Uniqueness is left to the unique index; violations surface as ConstraintError.
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

var exerciseColumns = []string{"id", "name", "category", "equipment_needed"}

// CreateExercise inserts e and assigns its id.
func (d *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := d.insertExercise(ctx, tx, e)
		if err != nil {
			return err
		}
		e.WithID(id)
		return nil
	})
}

func (d *DB) insertExercise(ctx context.Context, q sqlx.QueryerContext, e *models.Exercise) (int64, error) {
	query, args, err := d.sb.Insert("exercises").
		Columns("name", "category", "equipment_needed").
		Values(e.Name(), e.Category(), e.EquipmentNeeded()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert exercise: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError("create exercise", "exercises", err)
	}
	return id, nil
}

// GetExercise retrieves an exercise by id.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return d.getExercise(ctx, d.db, id, false)
}

func (d *DB) getExercise(ctx context.Context, q sqlx.QueryerContext, id int64, lock bool) (*models.Exercise, error) {
	b := d.sb.Select(exerciseColumns...).
		From("exercises").
		Where(sq.Eq{"id": id})
	if lock {
		b = d.forUpdate(b)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get exercise: %w", err)
	}

	var row exerciseRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "exercise", ID: id}
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return row.model()
}

// ListExercises retrieves all exercises ordered by id.
func (d *DB) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	return d.listExercises(ctx, d.db)
}

func (d *DB) listExercises(ctx context.Context, q sqlx.QueryerContext) ([]*models.Exercise, error) {
	query, args, err := d.sb.Select(exerciseColumns...).
		From("exercises").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list exercises: %w", err)
	}

	var rows []exerciseRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exerciseModels(rows)
}

// UpdateExercise loads exercise id, lets fn modify it and writes it back in
// one transaction. The row stays locked from the read to the write.
func (d *DB) UpdateExercise(ctx context.Context, id int64, fn func(*models.Exercise) error) (*models.Exercise, error) {
	var e *models.Exercise
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := d.getExercise(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}

		query, args, err := d.sb.Update("exercises").
			Set("name", current.Name()).
			Set("category", current.Category()).
			Set("equipment_needed", current.EquipmentNeeded()).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update exercise: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return translateError("update exercise", "exercises", err)
		}
		if err := expectRow(result, "exercise", id); err != nil {
			return err
		}
		e = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExercise removes an exercise and every association referencing it.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := d.deleteWhere(ctx, tx, "workout_exercises", sq.Eq{"exercise_id": id}); err != nil {
			return fmt.Errorf("delete exercise associations: %w", err)
		}

		query, args, err := d.sb.Delete("exercises").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete exercise: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return translateError("delete exercise", "exercises", err)
		}
		return expectRow(result, "exercise", id)
	})
}

// WorkoutsForExercise lists the distinct workouts that include the exercise.
func (d *DB) WorkoutsForExercise(ctx context.Context, exerciseID int64) ([]*models.Workout, error) {
	var out []*models.Workout
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := d.getExercise(ctx, tx, exerciseID, false); err != nil {
			return err
		}

		query, args, err := d.sb.Select("w.id", "w.date", "w.duration_minutes", "w.notes").
			Distinct().
			From("workouts w").
			Join("workout_exercises we ON we.workout_id = w.id").
			Where(sq.Eq{"we.exercise_id": exerciseID}).
			OrderBy("w.id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build workouts for exercise: %w", err)
		}

		var rows []workoutRow
		if err := sqlx.SelectContext(ctx, tx, &rows, query, args...); err != nil {
			return fmt.Errorf("workouts for exercise: %w", err)
		}
		out, err = workoutModels(rows)
		return err
	})
	return out, err
}

func (d *DB) deleteWhere(ctx context.Context, tx *sqlx.Tx, table string, pred any) error {
	builder := d.sb.Delete(table)
	if pred != nil {
		builder = builder.Where(pred)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateError("delete "+table, table, err)
	}
	return nil
}

// exists reports whether a row with id is present in table.
func (d *DB) exists(ctx context.Context, q sqlx.QueryerContext, table string, id int64) (bool, error) {
	query, args, err := d.sb.Select("1").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists %s: %w", table, err)
	}
	var one int
	if err := sqlx.GetContext(ctx, q, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return true, nil
}

func expectRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
