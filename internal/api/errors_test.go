// ABOUTME: Tests for mapping domain and storage errors onto HTTP responses.
// ABOUTME: Covers the status precedence between wrapped error types.
package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

func TestClassifyInvalidStoredRowIsServerError(t *testing.T) {
	err := fmt.Errorf("get workout detail: %w", &storage.DecodeError{
		Entity: "workout_exercise",
		ID:     5,
		Err:    &models.AttributeError{Entity: "WorkoutExercise", Field: "reps", Reason: "Must be greater than 0."},
	})

	status, body := classify(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Stored workout_exercise 5 is invalid.", body.Message)
	assert.Empty(t, body.Errors)
}

func TestClassifyAttributeErrorIsBadRequest(t *testing.T) {
	status, body := classify(&models.AttributeError{Entity: "Workout", Field: "duration_minutes", Reason: "Must be positive."})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Must be positive."}, body.Errors["duration_minutes"])
}
