// ABOUTME: Workout model for a dated training session with a positive duration.
// ABOUTME: Dates are calendar days normalized to UTC midnight.
package models

import (
	"time"
)

// DateLayout is the ISO-8601 calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// Workout represents a training session on a given day.
type Workout struct {
	id              int64
	date            time.Time
	durationMinutes int
	notes           *string
}

// NewWorkout returns a validated Workout without an ID.
func NewWorkout(date time.Time, durationMinutes int) (*Workout, error) {
	w := &Workout{}
	if err := w.SetDate(date); err != nil {
		return nil, err
	}
	if err := w.SetDuration(durationMinutes); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidateWorkoutDate rejects the zero time and strips the clock part.
func ValidateWorkoutDate(d time.Time) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, invalid("workout", "date", "Workout date is required.")
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
}

// ValidateWorkoutDuration requires a strictly positive number of minutes.
func ValidateWorkoutDuration(minutes int) (int, error) {
	if minutes <= 0 {
		return 0, invalid("workout", "duration_minutes", "Workout duration must be greater than 0.")
	}
	return minutes, nil
}

// WithID sets the storage-assigned identifier.
func (w *Workout) WithID(id int64) *Workout {
	w.id = id
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.notes = &notes
	return w
}

func (w *Workout) ID() int64            { return w.id }
func (w *Workout) Date() time.Time      { return w.date }
func (w *Workout) DurationMinutes() int { return w.durationMinutes }

// Notes returns a copy of the notes, or nil when none were recorded.
func (w *Workout) Notes() *string {
	if w.notes == nil {
		return nil
	}
	n := *w.notes
	return &n
}

// DateString formats the date with DateLayout.
func (w *Workout) DateString() string {
	return w.date.Format(DateLayout)
}

func (w *Workout) SetDate(d time.Time) error {
	date, err := ValidateWorkoutDate(d)
	if err != nil {
		return err
	}
	w.date = date
	return nil
}

func (w *Workout) SetDuration(minutes int) error {
	v, err := ValidateWorkoutDuration(minutes)
	if err != nil {
		return err
	}
	w.durationMinutes = v
	return nil
}

// SetNotes replaces the notes; nil clears them.
func (w *Workout) SetNotes(notes *string) {
	if notes == nil {
		w.notes = nil
		return
	}
	n := *notes
	w.notes = &n
}
