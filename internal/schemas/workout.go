// ABOUTME: Inbound loading and outbound dumping for workouts.
// ABOUTME: The outbound view nests join rows and exercises exactly one level deep.
package schemas

import (
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

// MinWorkoutDuration mirrors the storage check on duration_minutes.
const MinWorkoutDuration = 1

// WorkoutInput is a fully validated create payload.
type WorkoutInput struct {
	Date            time.Time
	DurationMinutes int
	Notes           *string
}

// Build constructs the entity, running the attribute validators again.
func (in WorkoutInput) Build() (*models.Workout, error) {
	w, err := models.NewWorkout(in.Date, in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	w.SetNotes(in.Notes)
	return w, nil
}

// LoadWorkout validates a create payload.
func LoadWorkout(raw map[string]any) (WorkoutInput, error) {
	r := newReader(raw)
	r.rejectUnknown("date", "duration_minutes", "notes")

	var in WorkoutInput
	if d := r.date("date", true); d != nil {
		in.Date = *d
	}
	if minutes := r.integer("duration_minutes", true, false); minutes != nil {
		if *minutes < MinWorkoutDuration {
			r.errs.Add("duration_minutes", "Must be greater than or equal to 1.")
		} else {
			in.DurationMinutes = *minutes
		}
	}
	in.Notes = r.str("notes", false, true)

	if err := r.errs.Err(); err != nil {
		return WorkoutInput{}, err
	}
	return in, nil
}

// WorkoutPatch carries only the fields supplied in a partial update.
// NotesSet distinguishes an explicit null (clear) from an absent key.
type WorkoutPatch struct {
	Date            *time.Time
	DurationMinutes *int
	Notes           *string
	NotesSet        bool
}

// LoadWorkoutPatch validates a partial update payload.
func LoadWorkoutPatch(raw map[string]any) (WorkoutPatch, error) {
	r := newReader(raw)
	r.rejectUnknown("date", "duration_minutes", "notes")

	var p WorkoutPatch
	p.Date = r.date("date", false)
	if minutes := r.integer("duration_minutes", false, false); minutes != nil {
		if *minutes < MinWorkoutDuration {
			r.errs.Add("duration_minutes", "Must be greater than or equal to 1.")
		} else {
			p.DurationMinutes = minutes
		}
	}
	if r.has("notes") {
		p.NotesSet = true
		p.Notes = r.str("notes", false, true)
	}

	if err := r.errs.Err(); err != nil {
		return WorkoutPatch{}, err
	}
	return p, nil
}

// Apply mutates w through its setters.
func (p WorkoutPatch) Apply(w *models.Workout) error {
	if p.Date != nil {
		if err := w.SetDate(*p.Date); err != nil {
			return err
		}
	}
	if p.DurationMinutes != nil {
		if err := w.SetDuration(*p.DurationMinutes); err != nil {
			return err
		}
	}
	if p.NotesSet {
		w.SetNotes(p.Notes)
	}
	return nil
}

// WorkoutSummaryView is a workout without its nested collections.
type WorkoutSummaryView struct {
	ID              int64   `json:"id" yaml:"id"`
	Date            string  `json:"date" yaml:"date"`
	DurationMinutes int     `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           *string `json:"notes" yaml:"notes"`
}

// WorkoutView is the outbound workout representation.
type WorkoutView struct {
	ID               int64                 `json:"id" yaml:"id"`
	Date             string                `json:"date" yaml:"date"`
	DurationMinutes  int                   `json:"duration_minutes" yaml:"duration_minutes"`
	Notes            *string               `json:"notes" yaml:"notes"`
	WorkoutExercises []WorkoutExerciseView `json:"workout_exercises" yaml:"workout_exercises"`
	Exercises        []ExerciseView        `json:"exercises" yaml:"exercises"`
}

func DumpWorkoutSummary(w *models.Workout) WorkoutSummaryView {
	return WorkoutSummaryView{
		ID:              w.ID(),
		Date:            w.DateString(),
		DurationMinutes: w.DurationMinutes(),
		Notes:           w.Notes(),
	}
}

func DumpWorkoutSummaries(list []*models.Workout) []WorkoutSummaryView {
	views := make([]WorkoutSummaryView, 0, len(list))
	for _, w := range list {
		views = append(views, DumpWorkoutSummary(w))
	}
	return views
}

// DumpWorkout nests the workout's join rows and its distinct exercises.
func DumpWorkout(w *models.Workout, entries []*models.WorkoutExercise, exercises []*models.Exercise) WorkoutView {
	view := WorkoutView{
		ID:               w.ID(),
		Date:             w.DateString(),
		DurationMinutes:  w.DurationMinutes(),
		Notes:            w.Notes(),
		WorkoutExercises: make([]WorkoutExerciseView, 0, len(entries)),
		Exercises:        DumpExercises(exercises),
	}
	for _, we := range entries {
		view.WorkoutExercises = append(view.WorkoutExercises, DumpWorkoutExercise(we))
	}
	return view
}
