// ABOUTME: Portable document format for export, import and seed fixtures.
// ABOUTME: Entries reference exercises by their unique name instead of by id.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/gymlog/internal/models"
)

const (
	documentVersion = "1.0"
	documentTool    = "gymlog"
)

// Document is the full export format for workout log data.
type Document struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Exercises  []DocumentExercise `json:"exercises" yaml:"exercises"`
	Workouts   []DocumentWorkout  `json:"workouts" yaml:"workouts"`
}

type DocumentExercise struct {
	Name            string `json:"name" yaml:"name"`
	Category        string `json:"category" yaml:"category"`
	EquipmentNeeded bool   `json:"equipment_needed" yaml:"equipment_needed"`
}

type DocumentWorkout struct {
	Date            string          `json:"date" yaml:"date"`
	DurationMinutes int             `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           *string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Entries         []DocumentEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

type DocumentEntry struct {
	Exercise        string `json:"exercise" yaml:"exercise"`
	Reps            *int   `json:"reps,omitempty" yaml:"reps,omitempty"`
	Sets            *int   `json:"sets,omitempty" yaml:"sets,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

// CopySummary holds counts of written entities.
type CopySummary struct {
	Exercises        int
	Workouts         int
	WorkoutExercises int
}

func summarize(data *Dataset) *CopySummary {
	return &CopySummary{
		Exercises:        len(data.Exercises),
		Workouts:         len(data.Workouts),
		WorkoutExercises: len(data.WorkoutExercises),
	}
}

// BuildDocument snapshots repo into a Document.
func BuildDocument(ctx context.Context, repo Repository) (*Document, error) {
	data, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return NewDocument(data), nil
}

// NewDocument converts a dataset into its portable form.
func NewDocument(data *Dataset) *Document {
	doc := &Document{
		Version:    documentVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       documentTool,
		Exercises:  make([]DocumentExercise, 0, len(data.Exercises)),
		Workouts:   make([]DocumentWorkout, 0, len(data.Workouts)),
	}

	names := make(map[int64]string, len(data.Exercises))
	for _, e := range data.Exercises {
		names[e.ID()] = e.Name()
		doc.Exercises = append(doc.Exercises, DocumentExercise{
			Name:            e.Name(),
			Category:        e.Category(),
			EquipmentNeeded: e.EquipmentNeeded(),
		})
	}

	index := make(map[int64]int, len(data.Workouts))
	for _, w := range data.Workouts {
		index[w.ID()] = len(doc.Workouts)
		doc.Workouts = append(doc.Workouts, DocumentWorkout{
			Date:            w.DateString(),
			DurationMinutes: w.DurationMinutes(),
			Notes:           w.Notes(),
		})
	}

	for _, we := range data.WorkoutExercises {
		i, ok := index[we.WorkoutID()]
		if !ok {
			continue
		}
		doc.Workouts[i].Entries = append(doc.Workouts[i].Entries, DocumentEntry{
			Exercise:        names[we.ExerciseID()],
			Reps:            we.Reps(),
			Sets:            we.Sets(),
			DurationSeconds: we.DurationSeconds(),
		})
	}
	return doc
}

// Dataset validates the document through the entity constructors and assigns
// provisional ids that ReplaceAll will replace.
func (doc *Document) Dataset() (*Dataset, error) {
	data := &Dataset{}
	byName := make(map[string]int64, len(doc.Exercises))

	for i, de := range doc.Exercises {
		e, err := models.NewExercise(de.Name, de.Category, de.EquipmentNeeded)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i+1, err)
		}
		id := int64(i + 1)
		if _, dup := byName[e.Name()]; dup {
			return nil, &ConstraintError{Op: "load document", Table: "exercises", Kind: KindUnique, Column: "name"}
		}
		byName[e.Name()] = id
		data.Exercises = append(data.Exercises, e.WithID(id))
	}

	for i, dw := range doc.Workouts {
		date, err := models.ParseDate(dw.Date)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i+1, &models.AttributeError{
				Entity: "workout", Field: "date", Reason: "Not a valid date.",
			})
		}
		w, err := models.NewWorkout(date, dw.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i+1, err)
		}
		w.SetNotes(dw.Notes)
		workoutID := int64(i + 1)
		data.Workouts = append(data.Workouts, w.WithID(workoutID))

		for j, entry := range dw.Entries {
			exerciseID, ok := byName[entry.Exercise]
			if !ok {
				return nil, fmt.Errorf("workout %d entry %d: unknown exercise %q", i+1, j+1, entry.Exercise)
			}
			m := models.Measurements{Reps: entry.Reps, Sets: entry.Sets, DurationSeconds: entry.DurationSeconds}
			if !m.HasWork() {
				return nil, fmt.Errorf("workout %d entry %d: %w", i+1, j+1, &models.AttributeError{
					Entity: "workout_exercise", Field: "reps", Reason: "At least one of reps, sets, or duration_seconds is required.",
				})
			}
			we, err := models.NewWorkoutExercise(workoutID, exerciseID, m)
			if err != nil {
				return nil, fmt.Errorf("workout %d entry %d: %w", i+1, j+1, err)
			}
			data.WorkoutExercises = append(data.WorkoutExercises, we)
		}
	}
	return data, nil
}

// ParseJSONDocument decodes a JSON export.
func ParseJSONDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &doc, nil
}

// ParseYAMLDocument decodes a YAML export or fixture file.
func ParseYAMLDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return &doc, nil
}

// ImportDocument replaces everything in repo with the document's contents.
func ImportDocument(ctx context.Context, repo Repository, doc *Document) (*CopySummary, error) {
	data, err := doc.Dataset()
	if err != nil {
		return nil, err
	}
	if err := repo.ReplaceAll(ctx, data); err != nil {
		return nil, fmt.Errorf("replace data: %w", err)
	}
	return summarize(data), nil
}
