// ABOUTME: WorkoutExercise joins one workout to one exercise with measurements.
// ABOUTME: Reps, sets and duration are optional but must be positive when present.
package models

// Measurements groups the optional per-entry quantities.
type Measurements struct {
	Reps            *int
	Sets            *int
	DurationSeconds *int
}

// HasWork reports whether at least one measurement is present and positive.
func (m Measurements) HasWork() bool {
	for _, v := range []*int{m.Reps, m.Sets, m.DurationSeconds} {
		if v != nil && *v > 0 {
			return true
		}
	}
	return false
}

// WorkoutExercise records an exercise performed within a workout.
type WorkoutExercise struct {
	id              int64
	workoutID       int64
	exerciseID      int64
	reps            *int
	sets            *int
	durationSeconds *int
}

// NewWorkoutExercise returns a validated association between existing parents.
func NewWorkoutExercise(workoutID, exerciseID int64, m Measurements) (*WorkoutExercise, error) {
	if workoutID <= 0 {
		return nil, invalid("workout_exercise", "workout_id", "Workout id is required.")
	}
	if exerciseID <= 0 {
		return nil, invalid("workout_exercise", "exercise_id", "Exercise id is required.")
	}
	we := &WorkoutExercise{workoutID: workoutID, exerciseID: exerciseID}
	if err := we.SetReps(m.Reps); err != nil {
		return nil, err
	}
	if err := we.SetSets(m.Sets); err != nil {
		return nil, err
	}
	if err := we.SetDurationSeconds(m.DurationSeconds); err != nil {
		return nil, err
	}
	return we, nil
}

var measurementReasons = map[string]string{
	"reps":             "Reps must be positive if provided.",
	"sets":             "Sets must be positive if provided.",
	"duration_seconds": "Duration must be positive if provided.",
}

// ValidateMeasurement accepts nil or a strictly positive value for the named field.
func ValidateMeasurement(field string, v *int) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v <= 0 {
		reason, ok := measurementReasons[field]
		if !ok {
			reason = "Value must be positive if provided."
		}
		return nil, invalid("workout_exercise", field, reason)
	}
	n := *v
	return &n, nil
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// WithID sets the storage-assigned identifier.
func (we *WorkoutExercise) WithID(id int64) *WorkoutExercise {
	we.id = id
	return we
}

func (we *WorkoutExercise) ID() int64         { return we.id }
func (we *WorkoutExercise) WorkoutID() int64  { return we.workoutID }
func (we *WorkoutExercise) ExerciseID() int64 { return we.exerciseID }

func (we *WorkoutExercise) Reps() *int            { return copyInt(we.reps) }
func (we *WorkoutExercise) Sets() *int            { return copyInt(we.sets) }
func (we *WorkoutExercise) DurationSeconds() *int { return copyInt(we.durationSeconds) }

// Measurements returns copies of all three quantities.
func (we *WorkoutExercise) Measurements() Measurements {
	return Measurements{Reps: we.Reps(), Sets: we.Sets(), DurationSeconds: we.DurationSeconds()}
}

func (we *WorkoutExercise) SetReps(v *int) error {
	n, err := ValidateMeasurement("reps", v)
	if err != nil {
		return err
	}
	we.reps = n
	return nil
}

func (we *WorkoutExercise) SetSets(v *int) error {
	n, err := ValidateMeasurement("sets", v)
	if err != nil {
		return err
	}
	we.sets = n
	return nil
}

func (we *WorkoutExercise) SetDurationSeconds(v *int) error {
	n, err := ValidateMeasurement("duration_seconds", v)
	if err != nil {
		return err
	}
	we.durationSeconds = n
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
