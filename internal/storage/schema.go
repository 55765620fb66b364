// ABOUTME: SQL schema definition and initialization for both dialects.
// ABOUTME: Integrity rules live here: unique names, positive durations, cascading FKs.
package storage

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		equipment_needed BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_exercises_name ON exercises(name)`,

	`CREATE TABLE IF NOT EXISTS workouts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT,
		CONSTRAINT ck_workouts_duration_positive CHECK (duration_minutes > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		exercise_id INTEGER NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		reps INTEGER,
		sets INTEGER,
		duration_seconds INTEGER,
		CONSTRAINT ck_workout_exercises_reps CHECK (reps IS NULL OR reps >= 0),
		CONSTRAINT ck_workout_exercises_sets CHECK (sets IS NULL OR sets >= 0),
		CONSTRAINT ck_workout_exercises_duration CHECK (duration_seconds IS NULL OR duration_seconds >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_exercise ON workout_exercises(exercise_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS exercises (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		equipment_needed BOOLEAN NOT NULL DEFAULT FALSE,
		CONSTRAINT uq_exercises_name UNIQUE (name)
	)`,

	`CREATE TABLE IF NOT EXISTS workouts (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		date DATE NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT,
		CONSTRAINT ck_workouts_duration_positive CHECK (duration_minutes > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		workout_id BIGINT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		exercise_id BIGINT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		reps INTEGER,
		sets INTEGER,
		duration_seconds INTEGER,
		CONSTRAINT ck_workout_exercises_reps CHECK (reps IS NULL OR reps >= 0),
		CONSTRAINT ck_workout_exercises_sets CHECK (sets IS NULL OR sets >= 0),
		CONSTRAINT ck_workout_exercises_duration CHECK (duration_seconds IS NULL OR duration_seconds >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_exercise ON workout_exercises(exercise_id)`,
}

// initSchema creates the tables and indexes if they do not exist.
func (d *DB) initSchema(ctx context.Context) error {
	statements := sqliteSchema
	if d.dialect == DialectPostgres {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
