// ABOUTME: Repository interface for workout log storage.
// ABOUTME: Defines the contract for exercises, workouts and their associations.
package storage

import (
	"context"

	"github.com/harperreed/gymlog/internal/models"
)

// Repository defines the storage interface shared by the SQL and KV backends.
// Every multi-row change is atomic; lookups of unknown ids return ErrNotFound.
type Repository interface {
	// Exercise operations
	CreateExercise(ctx context.Context, e *models.Exercise) error
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]*models.Exercise, error)
	// UpdateExercise applies fn to the stored exercise and saves the result atomically.
	UpdateExercise(ctx context.Context, id int64, fn func(*models.Exercise) error) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id int64) error
	WorkoutsForExercise(ctx context.Context, exerciseID int64) ([]*models.Workout, error)

	// Workout operations
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	GetWorkoutDetail(ctx context.Context, id int64) (*WorkoutDetail, error)
	ListWorkouts(ctx context.Context) ([]*models.Workout, error)
	ListWorkoutDetails(ctx context.Context) ([]*WorkoutDetail, error)
	UpdateWorkout(ctx context.Context, id int64, fn func(*models.Workout) error) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id int64) error
	ExercisesForWorkout(ctx context.Context, workoutID int64) ([]*models.Exercise, error)

	// Workout exercise operations
	CreateWorkoutExercise(ctx context.Context, we *models.WorkoutExercise) error
	GetWorkoutExercise(ctx context.Context, id int64) (*models.WorkoutExercise, error)
	ListWorkoutExercises(ctx context.Context, workoutID int64) ([]*models.WorkoutExercise, error)
	DeleteWorkoutExercise(ctx context.Context, id int64) error

	// Bulk operations
	Snapshot(ctx context.Context) (*Dataset, error)
	ReplaceAll(ctx context.Context, data *Dataset) error

	// Lifecycle
	Close() error
}

// WorkoutDetail is a workout with its join rows and the distinct exercises they reference.
type WorkoutDetail struct {
	Workout          *models.Workout
	WorkoutExercises []*models.WorkoutExercise
	Exercises        []*models.Exercise
}

// Dataset is a full copy of the stored graph. Ids inside a Dataset only need to
// be consistent with each other; ReplaceAll assigns fresh ids on insert.
type Dataset struct {
	Exercises        []*models.Exercise
	Workouts         []*models.Workout
	WorkoutExercises []*models.WorkoutExercise
}

// assembleDetails groups entries and exercises under their workouts.
// Exercises are listed once per workout in id order.
func assembleDetails(workouts []*models.Workout, entries []*models.WorkoutExercise, exercises []*models.Exercise) []*WorkoutDetail {
	byWorkout := make(map[int64]*WorkoutDetail, len(workouts))
	details := make([]*WorkoutDetail, 0, len(workouts))
	for _, w := range workouts {
		d := &WorkoutDetail{
			Workout:          w,
			WorkoutExercises: []*models.WorkoutExercise{},
			Exercises:        []*models.Exercise{},
		}
		byWorkout[w.ID()] = d
		details = append(details, d)
	}

	linked := make(map[int64]map[int64]bool, len(workouts))
	for _, we := range entries {
		d, ok := byWorkout[we.WorkoutID()]
		if !ok {
			continue
		}
		d.WorkoutExercises = append(d.WorkoutExercises, we)
		if linked[we.WorkoutID()] == nil {
			linked[we.WorkoutID()] = make(map[int64]bool)
		}
		linked[we.WorkoutID()][we.ExerciseID()] = true
	}

	for _, e := range exercises {
		for wid, ids := range linked {
			if ids[e.ID()] {
				byWorkout[wid].Exercises = append(byWorkout[wid].Exercises, e)
			}
		}
	}
	return details
}
