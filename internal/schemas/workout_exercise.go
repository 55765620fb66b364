// ABOUTME: Inbound loading and outbound dumping for workout/exercise associations.
// ABOUTME: Parent ids come from the request path; the body carries measurements.
package schemas

import (
	"github.com/harperreed/gymlog/internal/models"
)

const msgNoWork = "WorkoutExercise requires at least one of reps, sets, or duration_seconds."

// WorkoutExerciseInput is a fully validated association payload.
type WorkoutExerciseInput struct {
	WorkoutID  int64
	ExerciseID int64
	models.Measurements
}

// Build constructs the entity, running the attribute validators again.
func (in WorkoutExerciseInput) Build() (*models.WorkoutExercise, error) {
	return models.NewWorkoutExercise(in.WorkoutID, in.ExerciseID, in.Measurements)
}

// LoadWorkoutExercise validates measurements for the given parents. Parent ids
// may be repeated in the body but must then match the path.
func LoadWorkoutExercise(workoutID, exerciseID int64, raw map[string]any) (WorkoutExerciseInput, error) {
	r := newReader(raw)
	r.rejectUnknown("reps", "sets", "duration_seconds", "workout_id", "exercise_id")

	in := WorkoutExerciseInput{WorkoutID: workoutID, ExerciseID: exerciseID}
	if id := r.id("workout_id", false); id != nil && *id != workoutID {
		r.errs.Add("workout_id", "Does not match the workout in the path.")
	}
	if id := r.id("exercise_id", false); id != nil && *id != exerciseID {
		r.errs.Add("exercise_id", "Does not match the exercise in the path.")
	}

	in.Reps = measurement(r, "reps")
	in.Sets = measurement(r, "sets")
	in.DurationSeconds = measurement(r, "duration_seconds")

	// The cross-field rule only runs once every field loaded cleanly.
	if len(r.errs.Fields) == 0 && !in.HasWork() {
		r.errs.Add(SchemaKey, msgNoWork)
	}

	if err := r.errs.Err(); err != nil {
		return WorkoutExerciseInput{}, err
	}
	return in, nil
}

func measurement(r *reader, field string) *int {
	v := r.integer(field, false, true)
	if v == nil {
		return nil
	}
	n, err := models.ValidateMeasurement(field, v)
	if err != nil {
		r.attribute(err)
		return nil
	}
	return n
}

// WorkoutExerciseView is the outbound association representation.
type WorkoutExerciseView struct {
	ID              int64 `json:"id" yaml:"id"`
	WorkoutID       int64 `json:"workout_id" yaml:"workout_id"`
	ExerciseID      int64 `json:"exercise_id" yaml:"exercise_id"`
	Reps            *int  `json:"reps" yaml:"reps"`
	Sets            *int  `json:"sets" yaml:"sets"`
	DurationSeconds *int  `json:"duration_seconds" yaml:"duration_seconds"`
}

func DumpWorkoutExercise(we *models.WorkoutExercise) WorkoutExerciseView {
	return WorkoutExerciseView{
		ID:              we.ID(),
		WorkoutID:       we.WorkoutID(),
		ExerciseID:      we.ExerciseID(),
		Reps:            we.Reps(),
		Sets:            we.Sets(),
		DurationSeconds: we.DurationSeconds(),
	}
}
