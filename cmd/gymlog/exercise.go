// ABOUTME: CLI commands for managing exercises.
// ABOUTME: Supports add, list, show, edit, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory  string
	exerciseEquipment bool
	exerciseName      string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage exercises",
	Long: `Manage the exercise catalogue.

Exercise names are unique (case-sensitive) and at least three characters
after trimming. Every exercise has a category and records whether it needs
equipment.

COMMANDS:

  add      Create an exercise
  list     List all exercises
  show     View an exercise and the workouts it was performed in
  edit     Change name, category or equipment
  delete   Delete an exercise and every log entry that uses it`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the catalogue.

Examples:
  gymlog exercise add Squat --category Strength --equipment
  gymlog exercise add "Push-Up" -c Strength`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := schemas.LoadExercise(map[string]any{
			"name":             args[0],
			"category":         exerciseCategory,
			"equipment_needed": exerciseEquipment,
		})
		if err != nil {
			return err
		}
		e, err := in.Build()
		if err != nil {
			return err
		}
		if err := repo.CreateExercise(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added exercise %s", e.Name())
		fmt.Printf("  ID: %d\n", e.ID())
		fmt.Printf("  Category: %s\n", e.Category())
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := repo.ListExercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range list {
			equipment := ""
			if e.EquipmentNeeded() {
				equipment = faint.Sprint(" [equipment]")
			}
			fmt.Printf("%s %s %s%s\n",
				faintID(e.ID()),
				padRight(e.Name(), 20),
				e.Category(),
				equipment)
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an exercise and its workouts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("exercise", args[0])
		if err != nil {
			return err
		}
		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		workouts, err := repo.WorkoutsForExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workouts: %w", err)
		}

		fmt.Printf("Exercise: %d\n", e.ID())
		fmt.Printf("Name: %s\n", e.Name())
		fmt.Printf("Category: %s\n", e.Category())
		fmt.Printf("Equipment: %s\n", yesNo(e.EquipmentNeeded()))

		if len(workouts) > 0 {
			fmt.Println("\nWorkouts:")
			newestFirst(workouts)
			for _, w := range workouts {
				fmt.Print("  ")
				printWorkoutLine(w)
			}
		}
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an exercise",
	Long: `Change one or more attributes of an exercise. Only the flags you pass
are updated.

Examples:
  gymlog exercise edit 3 --name "Back Squat"
  gymlog exercise edit 3 --equipment=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("exercise", args[0])
		if err != nil {
			return err
		}

		raw := map[string]any{}
		flags := cmd.Flags()
		if flags.Changed("name") {
			raw["name"] = exerciseName
		}
		if flags.Changed("category") {
			raw["category"] = exerciseCategory
		}
		if flags.Changed("equipment") {
			raw["equipment_needed"] = exerciseEquipment
		}
		if len(raw) == 0 {
			return fmt.Errorf("nothing to change: pass --name, --category or --equipment")
		}

		patch, err := schemas.LoadExercisePatch(raw)
		if err != nil {
			return err
		}
		e, err := repo.UpdateExercise(cmd.Context(), id, patch.Apply)
		if err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}

		color.Green("✓ Updated exercise %s", e.Name())
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an exercise",
	Long: `Delete an exercise by its ID.

CAUTION:

  Every workout entry that uses this exercise is deleted with it.
  There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("exercise", args[0])
		if err != nil {
			return err
		}

		// Fetch first so the confirmation can name what was deleted
		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		if err := repo.DeleteExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Yellow("✗ Deleted exercise %s", e.Name())
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "exercise category (e.g. Strength, Cardio)")
	exerciseAddCmd.Flags().BoolVar(&exerciseEquipment, "equipment", false, "exercise needs equipment")

	exerciseEditCmd.Flags().StringVar(&exerciseName, "name", "", "new name")
	exerciseEditCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "new category")
	exerciseEditCmd.Flags().BoolVar(&exerciseEquipment, "equipment", false, "exercise needs equipment")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseShowCmd)
	exerciseCmd.AddCommand(exerciseEditCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
