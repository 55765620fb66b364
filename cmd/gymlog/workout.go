// ABOUTME: CLI commands for managing workouts and their exercise entries.
// ABOUTME: Supports add, list, show, edit, delete, log, and unlog subcommands.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/spf13/cobra"
)

var (
	workoutDuration   int
	workoutNotes      string
	workoutDate       string
	workoutClearNotes bool
	workoutLimit      int

	logReps            int
	logSets            int
	logDurationSeconds int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track workout sessions and the exercises performed in them.

WORKFLOW:

  1. Create a workout:      gymlog workout add 2024-03-01 --duration 45
  2. Log exercises to it:   gymlog workout log 1 3 --reps 10 --sets 4
  3. View workout details:  gymlog workout show 1

COMMANDS:

  add      Create a workout for a date
  list     List recent workouts, newest first
  show     View a workout with its entries and exercises
  edit     Change date, duration or notes
  delete   Delete a workout and its entries
  log      Record an exercise in a workout
  unlog    Remove one entry from a workout

Every entry needs at least one of --reps, --sets or --duration-seconds.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add [date]",
	Short: "Add a new workout",
	Long: `Add a workout. The date is YYYY-MM-DD and defaults to today.

Examples:
  gymlog workout add --duration 30
  gymlog workout add 2024-03-01 -d 45 --notes "Leg day"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(models.DateLayout)
		if len(args) == 1 {
			date = args[0]
		}

		raw := map[string]any{
			"date":             date,
			"duration_minutes": workoutDuration,
		}
		if cmd.Flags().Changed("notes") {
			raw["notes"] = workoutNotes
		}
		in, err := schemas.LoadWorkout(raw)
		if err != nil {
			return err
		}
		w, err := in.Build()
		if err != nil {
			return err
		}
		if err := repo.CreateWorkout(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Added workout on %s", w.DateString())
		fmt.Printf("  ID: %d\n", w.ID())
		fmt.Printf("  Duration: %d min\n", w.DurationMinutes())
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := repo.ListWorkouts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		newestFirst(workouts)
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}
		for _, w := range workouts {
			printWorkoutLine(w)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("workout", args[0])
		if err != nil {
			return err
		}
		d, err := repo.GetWorkoutDetail(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		w := d.Workout
		fmt.Printf("Workout: %d\n", w.ID())
		fmt.Printf("Date: %s\n", w.DateString())
		fmt.Printf("Duration: %d min\n", w.DurationMinutes())
		if n := w.Notes(); n != nil {
			fmt.Printf("Notes: %s\n", *n)
		}

		if len(d.WorkoutExercises) > 0 {
			names := make(map[int64]string, len(d.Exercises))
			for _, e := range d.Exercises {
				names[e.ID()] = e.Name()
			}
			fmt.Println("\nExercises:")
			for _, we := range d.WorkoutExercises {
				fmt.Printf("  %s %s %s\n",
					faintID(we.ID()),
					padRight(names[we.ExerciseID()], 20),
					measurementText(we))
			}
		}
		return nil
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a workout",
	Long: `Change one or more attributes of a workout. Only the flags you pass
are updated.

Examples:
  gymlog workout edit 2 --duration 50
  gymlog workout edit 2 --date 2024-03-02 --notes "Moved"
  gymlog workout edit 2 --clear-notes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("workout", args[0])
		if err != nil {
			return err
		}

		raw := map[string]any{}
		flags := cmd.Flags()
		if flags.Changed("date") {
			raw["date"] = workoutDate
		}
		if flags.Changed("duration") {
			raw["duration_minutes"] = workoutDuration
		}
		switch {
		case workoutClearNotes:
			raw["notes"] = nil
		case flags.Changed("notes"):
			raw["notes"] = workoutNotes
		}
		if len(raw) == 0 {
			return fmt.Errorf("nothing to change: pass --date, --duration, --notes or --clear-notes")
		}

		patch, err := schemas.LoadWorkoutPatch(raw)
		if err != nil {
			return err
		}
		w, err := repo.UpdateWorkout(cmd.Context(), id, patch.Apply)
		if err != nil {
			return fmt.Errorf("failed to update workout: %w", err)
		}

		color.Green("✓ Updated workout %d", w.ID())
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout and every exercise entry recorded in it.

There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("workout", args[0])
		if err != nil {
			return err
		}

		w, err := repo.GetWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if err := repo.DeleteWorkout(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Yellow("✗ Deleted workout %d", id)
		fmt.Printf("  %s %d min\n", w.DateString(), w.DurationMinutes())
		return nil
	},
}

var workoutLogCmd = &cobra.Command{
	Use:   "log <workout-id> <exercise-id>",
	Short: "Log an exercise in a workout",
	Long: `Record an exercise performed in a workout.

Examples:
  gymlog workout log 1 3 --reps 10 --sets 4
  gymlog workout log 1 5 --duration-seconds 1800`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseID("workout", args[0])
		if err != nil {
			return err
		}
		exerciseID, err := parseID("exercise", args[1])
		if err != nil {
			return err
		}

		raw := map[string]any{}
		flags := cmd.Flags()
		if flags.Changed("reps") {
			raw["reps"] = logReps
		}
		if flags.Changed("sets") {
			raw["sets"] = logSets
		}
		if flags.Changed("duration-seconds") {
			raw["duration_seconds"] = logDurationSeconds
		}

		in, err := schemas.LoadWorkoutExercise(workoutID, exerciseID, raw)
		if err != nil {
			return err
		}
		we, err := in.Build()
		if err != nil {
			return err
		}
		if err := repo.CreateWorkoutExercise(cmd.Context(), we); err != nil {
			return fmt.Errorf("failed to log exercise: %w", err)
		}

		color.Green("✓ Logged exercise %d in workout %d", exerciseID, workoutID)
		fmt.Printf("  Entry ID: %d  %s\n", we.ID(), measurementText(we))
		return nil
	},
}

var workoutUnlogCmd = &cobra.Command{
	Use:   "unlog <entry-id>",
	Short: "Remove an exercise entry from a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("entry", args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteWorkoutExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}

		color.Yellow("✗ Removed entry %d", id)
		return nil
	},
}

func init() {
	workoutAddCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutAddCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "workout notes")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutEditCmd.Flags().StringVar(&workoutDate, "date", "", "new date (YYYY-MM-DD)")
	workoutEditCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "new duration in minutes")
	workoutEditCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "new notes")
	workoutEditCmd.Flags().BoolVar(&workoutClearNotes, "clear-notes", false, "remove the notes")

	workoutLogCmd.Flags().IntVarP(&logReps, "reps", "r", 0, "repetitions per set")
	workoutLogCmd.Flags().IntVarP(&logSets, "sets", "s", 0, "number of sets")
	workoutLogCmd.Flags().IntVar(&logDurationSeconds, "duration-seconds", 0, "duration in seconds")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutUnlogCmd)
	rootCmd.AddCommand(workoutCmd)
}
