// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary SQLite database and checks stored state.
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string no truncation", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "needs truncation", input: "hello world this is a long string", maxLen: 10, want: "hello w..."},
		{name: "empty string", input: "", maxLen: 10, want: ""},
		{name: "very short maxLen", input: "hello", maxLen: 3, want: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{name: "needs padding", input: "hi", length: 5, want: "hi   "},
		{name: "exact length", input: "hello", length: 5, want: "hello"},
		{name: "longer than length", input: "hello world", length: 5, want: "hello world"},
		{name: "empty string", input: "", length: 5, want: "     "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "1", want: 1},
		{input: " 42 ", want: 42},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseID("workout", tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseID(%q) expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseID(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMeasurementText(t *testing.T) {
	tests := []struct {
		name string
		m    models.Measurements
		want string
	}{
		{name: "sets and reps", m: models.Measurements{Reps: models.IntPtr(10), Sets: models.IntPtr(4)}, want: "4x10"},
		{name: "reps only", m: models.Measurements{Reps: models.IntPtr(12)}, want: "12 reps"},
		{name: "sets only", m: models.Measurements{Sets: models.IntPtr(3)}, want: "3 sets"},
		{name: "duration only", m: models.Measurements{DurationSeconds: models.IntPtr(1800)}, want: "1800s"},
		{name: "all three", m: models.Measurements{Reps: models.IntPtr(5), Sets: models.IntPtr(5), DurationSeconds: models.IntPtr(90)}, want: "5x5, 90s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			we, err := models.NewWorkoutExercise(1, 1, tt.m)
			if err != nil {
				t.Fatalf("NewWorkoutExercise failed: %v", err)
			}
			if got := measurementText(we); got != tt.want {
				t.Errorf("measurementText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "gymlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "gymlog")
	}

	for _, name := range []string{"backend", "data-dir", "database-url", "log-level", "log-json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent --%s flag on root command", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		parent *cobra.Command
		want   []string
	}{
		{parent: rootCmd, want: []string{"exercise", "workout", "seed", "export", "import", "migrate", "serve", "mcp"}},
		{parent: exerciseCmd, want: []string{"add", "list", "show", "edit", "delete"}},
		{parent: workoutCmd, want: []string{"add", "list", "show", "edit", "delete", "log", "unlog"}},
	}

	for _, tt := range tests {
		names := make(map[string]bool)
		for _, cmd := range tt.parent.Commands() {
			names[cmd.Name()] = true
		}
		for _, want := range tt.want {
			if !names[want] {
				t.Errorf("Expected %s subcommand %q not found", tt.parent.Name(), want)
			}
		}
	}
}

func TestWorkoutListCmdFlags(t *testing.T) {
	limitFlag := workoutListCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on workout list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("Expected %d valid args, got %v", len(want), exportCmd.ValidArgs)
	}
	for _, arg := range exportCmd.ValidArgs {
		if !want[arg] {
			t.Errorf("Unexpected valid arg %q", arg)
		}
	}
}

// setupTestCLI points the CLI at a fresh data directory and returns a
// separate handle on the same SQLite file for checking results.
func setupTestCLI(t *testing.T) (*storage.DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("GYMLOG_BACKEND", "sqlite")
	t.Setenv("GYMLOG_DATA_DIR", tmpDir)
	t.Setenv("GYMLOG_DATABASE_URL", "")
	t.Setenv("GYMLOG_LOG_LEVEL", "error")

	testDB, err := storage.Open(filepath.Join(tmpDir, "gymlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	return testDB, tmpDir
}

// resetFlags restores every flag to its default so values from one
// invocation do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return Execute()
}

func mustCreateExercise(t *testing.T, db *storage.DB, name string) *models.Exercise {
	t.Helper()
	e, err := models.NewExercise(name, "Strength", false)
	if err != nil {
		t.Fatalf("NewExercise failed: %v", err)
	}
	if err := db.CreateExercise(context.Background(), e); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	return e
}

func mustCreateWorkout(t *testing.T, db *storage.DB, date string, minutes int) *models.Workout {
	t.Helper()
	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	w, err := models.NewWorkout(d, minutes)
	if err != nil {
		t.Fatalf("NewWorkout failed: %v", err)
	}
	if err := db.CreateWorkout(context.Background(), w); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	return w
}

func TestExerciseAddCmdWithDB(t *testing.T) {
	testDB, _ := setupTestCLI(t)

	if err := runCLI(t, "exercise", "add", "  Squat  ", "--category", "Strength", "--equipment"); err != nil {
		t.Fatalf("exercise add failed: %v", err)
	}

	list, err := testDB.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 exercise, got %d", len(list))
	}
	if list[0].Name() != "Squat" {
		t.Errorf("Expected trimmed name Squat, got %q", list[0].Name())
	}
	if !list[0].EquipmentNeeded() {
		t.Error("Expected equipment_needed to be true")
	}
}

func TestExerciseAddCmdRejectsShortName(t *testing.T) {
	testDB, _ := setupTestCLI(t)

	err := runCLI(t, "exercise", "add", "ab", "--category", "Strength")
	if !errors.Is(err, schemas.ErrSchemaValidationFailed) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	list, _ := testDB.ListExercises(context.Background())
	if len(list) != 0 {
		t.Errorf("Expected no exercises, got %d", len(list))
	}
}

func TestExerciseAddCmdDuplicateName(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Squat")

	err := runCLI(t, "exercise", "add", "Squat", "--category", "Strength")
	if !errors.Is(err, storage.ErrConstraintViolation) {
		t.Fatalf("Expected constraint violation, got %v", err)
	}
}

func TestExerciseListAndShowCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	e := mustCreateExercise(t, testDB, "Squat")

	if err := runCLI(t, "exercise", "list"); err != nil {
		t.Errorf("exercise list failed: %v", err)
	}
	if err := runCLI(t, "exercise", "show", "1"); err != nil {
		t.Errorf("exercise show failed: %v", err)
	}
	if e.ID() != 1 {
		t.Errorf("Expected first exercise id 1, got %d", e.ID())
	}
}

func TestExerciseShowCmdNotFound(t *testing.T) {
	setupTestCLI(t)

	err := runCLI(t, "exercise", "show", "99")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestExerciseEditCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	e := mustCreateExercise(t, testDB, "Squat")

	if err := runCLI(t, "exercise", "edit", "1", "--name", "Back Squat", "--equipment"); err != nil {
		t.Fatalf("exercise edit failed: %v", err)
	}

	got, err := testDB.GetExercise(context.Background(), e.ID())
	if err != nil {
		t.Fatalf("GetExercise failed: %v", err)
	}
	if got.Name() != "Back Squat" {
		t.Errorf("Expected name Back Squat, got %q", got.Name())
	}
	if got.Category() != "Strength" {
		t.Errorf("Expected category unchanged, got %q", got.Category())
	}
	if !got.EquipmentNeeded() {
		t.Error("Expected equipment_needed to be true")
	}
}

func TestExerciseEditCmdNothingToChange(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Squat")

	if err := runCLI(t, "exercise", "edit", "1"); err == nil {
		t.Error("Expected error when no flags are given")
	}
}

func TestExerciseDeleteCmdCascades(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	ctx := context.Background()
	e := mustCreateExercise(t, testDB, "Squat")
	w := mustCreateWorkout(t, testDB, "2025-01-01", 45)
	we, _ := models.NewWorkoutExercise(w.ID(), e.ID(), models.Measurements{Reps: models.IntPtr(10)})
	if err := testDB.CreateWorkoutExercise(ctx, we); err != nil {
		t.Fatalf("CreateWorkoutExercise failed: %v", err)
	}

	if err := runCLI(t, "exercise", "delete", "1"); err != nil {
		t.Fatalf("exercise delete failed: %v", err)
	}

	if _, err := testDB.GetWorkoutExercise(ctx, we.ID()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected entry to be deleted with its exercise, got %v", err)
	}
	if _, err := testDB.GetWorkout(ctx, w.ID()); err != nil {
		t.Errorf("Expected workout to survive, got %v", err)
	}
}

func TestWorkoutAddCmdWithDB(t *testing.T) {
	testDB, _ := setupTestCLI(t)

	if err := runCLI(t, "workout", "add", "2024-03-01", "--duration", "45", "--notes", "Leg day"); err != nil {
		t.Fatalf("workout add failed: %v", err)
	}

	list, err := testDB.ListWorkouts(context.Background())
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 workout, got %d", len(list))
	}
	w := list[0]
	if w.DateString() != "2024-03-01" {
		t.Errorf("Expected date 2024-03-01, got %s", w.DateString())
	}
	if w.DurationMinutes() != 45 {
		t.Errorf("Expected duration 45, got %d", w.DurationMinutes())
	}
	if w.Notes() == nil || *w.Notes() != "Leg day" {
		t.Errorf("Expected notes Leg day, got %v", w.Notes())
	}
}

func TestWorkoutAddCmdDefaultsToToday(t *testing.T) {
	testDB, _ := setupTestCLI(t)

	if err := runCLI(t, "workout", "add", "-d", "30"); err != nil {
		t.Fatalf("workout add failed: %v", err)
	}

	list, _ := testDB.ListWorkouts(context.Background())
	if len(list) != 1 {
		t.Fatalf("Expected 1 workout, got %d", len(list))
	}
	if list[0].Notes() != nil {
		t.Errorf("Expected no notes, got %q", *list[0].Notes())
	}
	// Allow for the date rolling over between the command and the check.
	today := time.Now().Format(models.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	if d := list[0].DateString(); d != today && d != yesterday {
		t.Errorf("Expected today's date, got %s", d)
	}
}

func TestWorkoutAddCmdRejectsInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing duration", args: []string{"workout", "add", "2024-03-01"}},
		{name: "negative duration", args: []string{"workout", "add", "2024-03-01", "-d", "-5"}},
		{name: "invalid date", args: []string{"workout", "add", "03/01/2024", "-d", "30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, _ := setupTestCLI(t)

			err := runCLI(t, tt.args...)
			if !errors.Is(err, schemas.ErrSchemaValidationFailed) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			list, _ := testDB.ListWorkouts(context.Background())
			if len(list) != 0 {
				t.Errorf("Expected no workouts, got %d", len(list))
			}
		})
	}
}

func TestWorkoutListAndShowCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	if _, err := storage.Seed(context.Background(), testDB, nil); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if err := runCLI(t, "workout", "list", "-n", "2"); err != nil {
		t.Errorf("workout list failed: %v", err)
	}
	if err := runCLI(t, "workout", "show", "1"); err != nil {
		t.Errorf("workout show failed: %v", err)
	}
}

func TestWorkoutListCmdEmpty(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "workout", "list"); err != nil {
		t.Errorf("workout list on empty db failed: %v", err)
	}
}

func TestWorkoutShowCmdInvalidID(t *testing.T) {
	setupTestCLI(t)

	err := runCLI(t, "workout", "show", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid workout id") {
		t.Errorf("Expected invalid id error, got %v", err)
	}
}

func TestWorkoutEditCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	w := mustCreateWorkout(t, testDB, "2025-01-01", 45)

	if err := runCLI(t, "workout", "edit", "1", "--duration", "50", "--notes", "Moved"); err != nil {
		t.Fatalf("workout edit failed: %v", err)
	}
	got, _ := testDB.GetWorkout(context.Background(), w.ID())
	if got.DurationMinutes() != 50 {
		t.Errorf("Expected duration 50, got %d", got.DurationMinutes())
	}
	if got.Notes() == nil || *got.Notes() != "Moved" {
		t.Errorf("Expected notes Moved, got %v", got.Notes())
	}
	if got.DateString() != "2025-01-01" {
		t.Errorf("Expected date unchanged, got %s", got.DateString())
	}

	if err := runCLI(t, "workout", "edit", "1", "--clear-notes"); err != nil {
		t.Fatalf("workout edit --clear-notes failed: %v", err)
	}
	got, _ = testDB.GetWorkout(context.Background(), w.ID())
	if got.Notes() != nil {
		t.Errorf("Expected notes cleared, got %q", *got.Notes())
	}
}

func TestWorkoutEditCmdRejectsZeroDuration(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	w := mustCreateWorkout(t, testDB, "2025-01-01", 45)

	err := runCLI(t, "workout", "edit", "1", "--duration", "0")
	if !errors.Is(err, schemas.ErrSchemaValidationFailed) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	got, _ := testDB.GetWorkout(context.Background(), w.ID())
	if got.DurationMinutes() != 45 {
		t.Errorf("Expected duration unchanged, got %d", got.DurationMinutes())
	}
}

func TestWorkoutDeleteCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	w := mustCreateWorkout(t, testDB, "2025-01-01", 45)

	if err := runCLI(t, "workout", "delete", "1"); err != nil {
		t.Fatalf("workout delete failed: %v", err)
	}
	if _, err := testDB.GetWorkout(context.Background(), w.ID()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected workout to be deleted, got %v", err)
	}
}

func TestWorkoutDeleteCmdNotFound(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "workout", "delete", "42"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestWorkoutLogCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Squat")
	w := mustCreateWorkout(t, testDB, "2025-01-01", 45)

	if err := runCLI(t, "workout", "log", "1", "1", "--reps", "10", "--sets", "3"); err != nil {
		t.Fatalf("workout log failed: %v", err)
	}

	entries, err := testDB.ListWorkoutExercises(context.Background(), w.ID())
	if err != nil {
		t.Fatalf("ListWorkoutExercises failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if r := entries[0].Reps(); r == nil || *r != 10 {
		t.Errorf("Expected reps 10, got %v", r)
	}
	if s := entries[0].Sets(); s == nil || *s != 3 {
		t.Errorf("Expected sets 3, got %v", s)
	}
	if entries[0].DurationSeconds() != nil {
		t.Errorf("Expected no duration, got %d", *entries[0].DurationSeconds())
	}
}

func TestWorkoutLogCmdRequiresMeasurement(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Squat")
	mustCreateWorkout(t, testDB, "2025-01-01", 45)

	err := runCLI(t, "workout", "log", "1", "1")
	if !errors.Is(err, schemas.ErrSchemaValidationFailed) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	err = runCLI(t, "workout", "log", "1", "1", "--reps", "0")
	if !errors.Is(err, schemas.ErrSchemaValidationFailed) {
		t.Fatalf("Expected validation error for zero reps, got %v", err)
	}
}

func TestWorkoutLogCmdMissingParent(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateWorkout(t, testDB, "2025-01-01", 45)

	err := runCLI(t, "workout", "log", "1", "7", "--reps", "10")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found for missing exercise, got %v", err)
	}
}

func TestWorkoutUnlogCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	ctx := context.Background()
	e := mustCreateExercise(t, testDB, "Running")
	w := mustCreateWorkout(t, testDB, "2025-01-03", 60)
	we, _ := models.NewWorkoutExercise(w.ID(), e.ID(), models.Measurements{DurationSeconds: models.IntPtr(1800)})
	if err := testDB.CreateWorkoutExercise(ctx, we); err != nil {
		t.Fatalf("CreateWorkoutExercise failed: %v", err)
	}

	if err := runCLI(t, "workout", "unlog", "1"); err != nil {
		t.Fatalf("workout unlog failed: %v", err)
	}
	entries, _ := testDB.ListWorkoutExercises(ctx, w.ID())
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
	if err := runCLI(t, "workout", "unlog", "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found on second unlog, got %v", err)
	}
}

func TestSeedCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Deadlift")

	if err := runCLI(t, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	snap, err := testDB.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Exercises) != 5 || len(snap.Workouts) != 3 || len(snap.WorkoutExercises) != 3 {
		t.Errorf("Expected 5/3/3 after seed, got %d/%d/%d",
			len(snap.Exercises), len(snap.Workouts), len(snap.WorkoutExercises))
	}
	for _, e := range snap.Exercises {
		if e.Name() == "Deadlift" {
			t.Error("Expected seed to replace existing data")
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	ctx := context.Background()
	if _, err := storage.Seed(ctx, testDB, nil); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(tmpDir, "backup."+format)
			if err := runCLI(t, "export", format, "-o", out); err != nil {
				t.Fatalf("export %s failed: %v", format, err)
			}
			if _, err := os.Stat(out); err != nil {
				t.Fatalf("Expected export file: %v", err)
			}

			mustCreateExercise(t, testDB, "Deadlift "+format)

			if err := runCLI(t, "import", out); err != nil {
				t.Fatalf("import %s failed: %v", format, err)
			}
			list, _ := testDB.ListExercises(ctx)
			if len(list) != 5 {
				t.Errorf("Expected import to restore 5 exercises, got %d", len(list))
			}
		})
	}
}

func TestExportMarkdownCmd(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "export", "markdown"); err != nil {
		t.Errorf("export markdown failed: %v", err)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "export", "csv"); err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestImportCmdInvalidDocument(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	mustCreateExercise(t, testDB, "Squat")

	path := filepath.Join(tmpDir, "bad.json")
	doc := `{"exercises":[{"name":"ab","category":"Strength"}],"workouts":[]}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "import", path); err == nil {
		t.Fatal("Expected import of an invalid document to fail")
	}
	list, _ := testDB.ListExercises(context.Background())
	if len(list) != 1 {
		t.Errorf("Expected existing data untouched, got %d exercises", len(list))
	}
}

func TestImportCmdFileNotFound(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "import", "/nonexistent/backup.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMigrateCmdToKV(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	ctx := context.Background()
	if _, err := storage.Seed(ctx, testDB, nil); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if err := runCLI(t, "migrate", "--to-backend", "kv"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	kv, err := storage.OpenKV(filepath.Join(tmpDir, "kv"))
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	snap, err := kv.Snapshot(ctx)
	kv.Close()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Exercises) != 5 || len(snap.Workouts) != 3 || len(snap.WorkoutExercises) != 3 {
		t.Errorf("Expected 5/3/3 in kv, got %d/%d/%d",
			len(snap.Exercises), len(snap.Workouts), len(snap.WorkoutExercises))
	}

	if err := runCLI(t, "migrate", "--to-backend", "kv"); err == nil {
		t.Error("Expected second migrate into a non-empty destination to fail")
	}
	if err := runCLI(t, "migrate", "--to-backend", "kv", "--force"); err != nil {
		t.Errorf("migrate --force failed: %v", err)
	}
}

func TestMigrateCmdDryRun(t *testing.T) {
	_, tmpDir := setupTestCLI(t)

	if err := runCLI(t, "migrate", "--to-backend", "kv", "--dry-run"); err != nil {
		t.Fatalf("migrate --dry-run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "kv")); !os.IsNotExist(err) {
		t.Error("Expected dry run not to create the destination")
	}
}

func TestMigrateCmdSameTarget(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "migrate", "--to-backend", "sqlite"); err == nil {
		t.Error("Expected error when source and destination are the same")
	}
}

func TestMigrateCmdRequiresBackend(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "migrate"); err == nil {
		t.Error("Expected error without --to-backend")
	}
}

func TestBackendFlagOverridesEnv(t *testing.T) {
	_, tmpDir := setupTestCLI(t)

	if err := runCLI(t, "--backend", "kv", "exercise", "add", "Squat", "-c", "Strength"); err != nil {
		t.Fatalf("exercise add on kv failed: %v", err)
	}

	kv, err := storage.OpenKV(filepath.Join(tmpDir, "kv"))
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	defer kv.Close()
	list, err := kv.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(list) != 1 || list[0].Name() != "Squat" {
		t.Errorf("Expected Squat in the kv backend, got %d exercises", len(list))
	}
}
