// ABOUTME: MCP tool implementations for the workout log.
// ABOUTME: Inputs pass through the same schema loaders as the HTTP API.
package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/metrics"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/harperreed/gymlog/internal/storage"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Create an exercise. Names are unique and at least three characters.",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List all exercises",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise and every log entry that uses it",
	}, s.handleDeleteExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Create a workout session for a date",
	}, s.handleAddWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts with their exercises, newest first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its log entries and exercises",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout and its log entries",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_exercise",
		Description: "Record an exercise in a workout with reps, sets or a duration",
	}, s.handleLogExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_log_entry",
		Description: "Remove one exercise entry from a workout",
	}, s.handleRemoveLogEntry)
}

// Tool input/output types

type addExerciseInput struct {
	Name            string `json:"name" jsonschema:"exercise name, unique, at least three characters"`
	Category        string `json:"category" jsonschema:"category such as Strength or Cardio"`
	EquipmentNeeded *bool  `json:"equipment_needed" jsonschema:"whether the exercise needs equipment"`
}

type exerciseOutput struct {
	Exercise schemas.ExerciseView `json:"exercise"`
	Message  string               `json:"message"`
}

type listExercisesInput struct{}

type exerciseListOutput struct {
	Exercises []schemas.ExerciseView `json:"exercises"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"numeric id"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type addWorkoutInput struct {
	Date            string  `json:"date" jsonschema:"workout date as YYYY-MM-DD"`
	DurationMinutes int     `json:"duration_minutes" jsonschema:"duration in minutes, at least 1"`
	Notes           *string `json:"notes,omitempty" jsonschema:"optional notes"`
}

type workoutOutput struct {
	Workout schemas.WorkoutView `json:"workout"`
	Message string              `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max results, default 20"`
}

type workoutListOutput struct {
	Workouts []schemas.WorkoutView `json:"workouts"`
}

type logExerciseInput struct {
	WorkoutID       int64 `json:"workout_id" jsonschema:"workout id"`
	ExerciseID      int64 `json:"exercise_id" jsonschema:"exercise id"`
	Reps            *int  `json:"reps,omitempty" jsonschema:"repetitions per set"`
	Sets            *int  `json:"sets,omitempty" jsonschema:"number of sets"`
	DurationSeconds *int  `json:"duration_seconds,omitempty" jsonschema:"duration in seconds"`
}

type logEntryOutput struct {
	Entry   schemas.WorkoutExerciseView `json:"entry"`
	Message string                      `json:"message"`
}

// reject counts a refused write and wraps it for the client.
func (s *Server) reject(op string, err error) error {
	metrics.RecordRejection(err)
	s.logger.Debug("tool call rejected", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Tool handlers

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	raw := map[string]any{
		"name":     input.Name,
		"category": input.Category,
	}
	if input.EquipmentNeeded != nil {
		raw["equipment_needed"] = *input.EquipmentNeeded
	}
	in, err := schemas.LoadExercise(raw)
	if err != nil {
		return nil, exerciseOutput{}, s.reject("add exercise", err)
	}
	e, err := in.Build()
	if err != nil {
		return nil, exerciseOutput{}, s.reject("add exercise", err)
	}
	if err := s.repo.CreateExercise(ctx, e); err != nil {
		return nil, exerciseOutput{}, s.reject("add exercise", err)
	}

	return nil, exerciseOutput{
		Exercise: schemas.DumpExercise(e),
		Message:  fmt.Sprintf("Added exercise %s (ID: %d)", e.Name(), e.ID()),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, exerciseListOutput, error) {
	list, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, exerciseListOutput{}, fmt.Errorf("failed to list exercises: %w", err)
	}
	return nil, exerciseListOutput{Exercises: schemas.DumpExercises(list)}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteExercise(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, s.reject("delete exercise", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted exercise: %d", input.ID)}, nil
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	raw := map[string]any{
		"date":             input.Date,
		"duration_minutes": input.DurationMinutes,
	}
	if input.Notes != nil {
		raw["notes"] = *input.Notes
	}
	in, err := schemas.LoadWorkout(raw)
	if err != nil {
		return nil, workoutOutput{}, s.reject("add workout", err)
	}
	w, err := in.Build()
	if err != nil {
		return nil, workoutOutput{}, s.reject("add workout", err)
	}
	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, workoutOutput{}, s.reject("add workout", err)
	}

	return nil, workoutOutput{
		Workout: schemas.DumpWorkout(w, nil, nil),
		Message: fmt.Sprintf("Added workout on %s (ID: %d)", w.DateString(), w.ID()),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, workoutListOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	views, err := s.recentWorkouts(ctx, input.Limit)
	if err != nil {
		return nil, workoutListOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}
	return nil, workoutListOutput{Workouts: views}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, schemas.WorkoutView, error) {
	d, err := s.repo.GetWorkoutDetail(ctx, input.ID)
	if err != nil {
		return nil, schemas.WorkoutView{}, fmt.Errorf("get workout: %w", err)
	}
	return nil, schemas.DumpWorkout(d.Workout, d.WorkoutExercises, d.Exercises), nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteWorkout(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, s.reject("delete workout", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %d", input.ID)}, nil
}

func (s *Server) handleLogExercise(ctx context.Context, req *mcp.CallToolRequest, input logExerciseInput) (*mcp.CallToolResult, logEntryOutput, error) {
	raw := map[string]any{}
	for key, v := range map[string]*int{
		"reps":             input.Reps,
		"sets":             input.Sets,
		"duration_seconds": input.DurationSeconds,
	} {
		if v != nil {
			raw[key] = *v
		}
	}

	in, err := schemas.LoadWorkoutExercise(input.WorkoutID, input.ExerciseID, raw)
	if err != nil {
		return nil, logEntryOutput{}, s.reject("log exercise", err)
	}
	we, err := in.Build()
	if err != nil {
		return nil, logEntryOutput{}, s.reject("log exercise", err)
	}
	if err := s.repo.CreateWorkoutExercise(ctx, we); err != nil {
		return nil, logEntryOutput{}, s.reject("log exercise", err)
	}

	return nil, logEntryOutput{
		Entry:   schemas.DumpWorkoutExercise(we),
		Message: fmt.Sprintf("Logged exercise %d in workout %d (entry ID: %d)", we.ExerciseID(), we.WorkoutID(), we.ID()),
	}, nil
}

func (s *Server) handleRemoveLogEntry(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteWorkoutExercise(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, s.reject("remove log entry", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed log entry: %d", input.ID)}, nil
}

// recentWorkouts returns up to limit workouts ordered by date, newest first.
func (s *Server) recentWorkouts(ctx context.Context, limit int) ([]schemas.WorkoutView, error) {
	details, err := s.repo.ListWorkoutDetails(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Workout.Date().After(details[j].Workout.Date())
	})
	if len(details) > limit {
		details = details[:limit]
	}

	views := make([]schemas.WorkoutView, 0, len(details))
	for _, d := range details {
		views = append(views, dumpDetail(d))
	}
	return views, nil
}

func dumpDetail(d *storage.WorkoutDetail) schemas.WorkoutView {
	return schemas.DumpWorkout(d.Workout, d.WorkoutExercises, d.Exercises)
}
