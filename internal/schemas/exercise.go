// ABOUTME: Inbound loading and outbound dumping for exercises.
// ABOUTME: Loads reuse the entity validators so every failure is reported in one pass.
package schemas

import (
	"github.com/harperreed/gymlog/internal/models"
)

// ExerciseInput is a fully validated create payload.
type ExerciseInput struct {
	Name            string
	Category        string
	EquipmentNeeded bool
}

// Build constructs the entity, running the attribute validators again.
func (in ExerciseInput) Build() (*models.Exercise, error) {
	return models.NewExercise(in.Name, in.Category, in.EquipmentNeeded)
}

// LoadExercise validates a create payload.
func LoadExercise(raw map[string]any) (ExerciseInput, error) {
	r := newReader(raw)
	r.rejectUnknown("name", "category", "equipment_needed")

	var in ExerciseInput
	if name := r.str("name", true, false); name != nil {
		if v, err := models.ValidateExerciseName(*name); err != nil {
			r.attribute(err)
		} else {
			in.Name = v
		}
	}
	if category := r.str("category", true, false); category != nil {
		if v, err := models.ValidateExerciseCategory(*category); err != nil {
			r.attribute(err)
		} else {
			in.Category = v
		}
	}
	if equipment := r.boolean("equipment_needed", true); equipment != nil {
		in.EquipmentNeeded = *equipment
	}

	if err := r.errs.Err(); err != nil {
		return ExerciseInput{}, err
	}
	return in, nil
}

// ExercisePatch carries only the fields supplied in a partial update.
type ExercisePatch struct {
	Name            *string
	Category        *string
	EquipmentNeeded *bool
}

// LoadExercisePatch validates a partial update payload.
func LoadExercisePatch(raw map[string]any) (ExercisePatch, error) {
	r := newReader(raw)
	r.rejectUnknown("name", "category", "equipment_needed")

	var p ExercisePatch
	if name := r.str("name", false, false); name != nil {
		if v, err := models.ValidateExerciseName(*name); err != nil {
			r.attribute(err)
		} else {
			p.Name = &v
		}
	}
	if category := r.str("category", false, false); category != nil {
		if v, err := models.ValidateExerciseCategory(*category); err != nil {
			r.attribute(err)
		} else {
			p.Category = &v
		}
	}
	p.EquipmentNeeded = r.boolean("equipment_needed", false)

	if err := r.errs.Err(); err != nil {
		return ExercisePatch{}, err
	}
	return p, nil
}

// Apply mutates e through its setters.
func (p ExercisePatch) Apply(e *models.Exercise) error {
	if p.Name != nil {
		if err := e.SetName(*p.Name); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := e.SetCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.EquipmentNeeded != nil {
		e.SetEquipmentNeeded(*p.EquipmentNeeded)
	}
	return nil
}

// ExerciseView is the outbound exercise representation.
type ExerciseView struct {
	ID              int64  `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Category        string `json:"category" yaml:"category"`
	EquipmentNeeded bool   `json:"equipment_needed" yaml:"equipment_needed"`
}

func DumpExercise(e *models.Exercise) ExerciseView {
	return ExerciseView{
		ID:              e.ID(),
		Name:            e.Name(),
		Category:        e.Category(),
		EquipmentNeeded: e.EquipmentNeeded(),
	}
}

// DumpExercises never returns nil so empty lists serialize as [].
func DumpExercises(list []*models.Exercise) []ExerciseView {
	views := make([]ExerciseView, 0, len(list))
	for _, e := range list {
		views = append(views, DumpExercise(e))
	}
	return views
}
