// ABOUTME: Exercise model with validated name and category attributes.
// ABOUTME: Every mutation goes through a setter that re-runs validation.
package models

import (
	"strings"
	"unicode/utf8"
)

// MinExerciseNameLength is the shortest accepted exercise name, counted after trimming.
const MinExerciseNameLength = 3

// Exercise is a named movement that can be logged in many workouts.
type Exercise struct {
	id              int64
	name            string
	category        string
	equipmentNeeded bool
}

// NewExercise returns a validated Exercise without an ID.
func NewExercise(name, category string, equipmentNeeded bool) (*Exercise, error) {
	e := &Exercise{equipmentNeeded: equipmentNeeded}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetCategory(category); err != nil {
		return nil, err
	}
	return e, nil
}

// ValidateExerciseName trims raw and checks its length.
func ValidateExerciseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", invalid("exercise", "name", "Exercise name must not be empty.")
	}
	if utf8.RuneCountInString(name) < MinExerciseNameLength {
		return "", invalid("exercise", "name", "Exercise name must be at least 3 characters long.")
	}
	return name, nil
}

// ValidateExerciseCategory trims raw and rejects blank categories.
func ValidateExerciseCategory(raw string) (string, error) {
	category := strings.TrimSpace(raw)
	if category == "" {
		return "", invalid("exercise", "category", "Exercise category must not be empty.")
	}
	return category, nil
}

// WithID sets the storage-assigned identifier.
func (e *Exercise) WithID(id int64) *Exercise {
	e.id = id
	return e
}

func (e *Exercise) ID() int64             { return e.id }
func (e *Exercise) Name() string          { return e.name }
func (e *Exercise) Category() string      { return e.category }
func (e *Exercise) EquipmentNeeded() bool { return e.equipmentNeeded }

// SetName validates and stores a trimmed name. The old value is kept on error.
func (e *Exercise) SetName(raw string) error {
	name, err := ValidateExerciseName(raw)
	if err != nil {
		return err
	}
	e.name = name
	return nil
}

// SetCategory validates and stores a trimmed category. The old value is kept on error.
func (e *Exercise) SetCategory(raw string) error {
	category, err := ValidateExerciseCategory(raw)
	if err != nil {
		return err
	}
	e.category = category
	return nil
}

func (e *Exercise) SetEquipmentNeeded(needed bool) {
	e.equipmentNeeded = needed
}
