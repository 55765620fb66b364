// ABOUTME: Maps domain and storage errors onto HTTP status codes and bodies.
// ABOUTME: Every error body carries "message"; validation failures also carry "errors".
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/harperreed/gymlog/internal/metrics"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/harperreed/gymlog/internal/storage"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var constraintMessages = map[storage.ConstraintKind]string{
	storage.KindUnique:     "Value must be unique.",
	storage.KindCheck:      "Value violates a check constraint.",
	storage.KindForeignKey: "Referenced record does not exist.",
	storage.KindNotNull:    "Missing required value.",
	storage.KindConflict:   "Write conflicted with a concurrent change.",
}

// classify returns the status and body for err.
func classify(err error) (int, errorBody) {
	var (
		vErr  *schemas.ValidationError
		aErr  *models.AttributeError
		cErr  *storage.ConstraintError
		nfErr *storage.NotFoundError
		dErr  *storage.DecodeError
	)
	switch {
	case errors.As(err, &dErr):
		// Must precede the AttributeError case, which it wraps.
		return http.StatusInternalServerError, errorBody{
			Message: fmt.Sprintf("Stored %s %d is invalid.", dErr.Entity, dErr.ID),
		}
	case errors.As(err, &vErr):
		return http.StatusBadRequest, errorBody{Message: "Validation failed.", Errors: vErr.Fields}
	case errors.As(err, &aErr):
		return http.StatusBadRequest, errorBody{
			Message: aErr.Reason,
			Errors:  map[string][]string{aErr.Field: {aErr.Reason}},
		}
	case errors.As(err, &cErr):
		msg, ok := constraintMessages[cErr.Kind]
		if !ok {
			msg = "Constraint violated."
		}
		if cErr.Kind == storage.KindUnique && cErr.Table == "exercises" {
			msg = "Exercise name must be unique."
		}
		return http.StatusBadRequest, errorBody{Message: msg}
	case errors.As(err, &nfErr):
		return http.StatusNotFound, errorBody{Message: nfErr.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Message: "Internal server error."}
	}
}

// fail writes the error response, logs server faults and counts rejected writes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "err", err)
	}
	if r.Method != http.MethodGet {
		metrics.RecordRejection(err)
	}
	writeJSON(w, status, body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}
