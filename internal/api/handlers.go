// ABOUTME: JSON HTTP handlers for exercises, workouts and their associations.
// ABOUTME: Requests flow through the schema loaders, the entities and then the repository.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/harperreed/gymlog/internal/storage"
)

const maxBodyBytes = 1 << 20

// Handler coordinates HTTP requests with the repository.
type Handler struct {
	repo   storage.Repository
	logger *log.Logger
}

// NewHandler builds a Handler. A nil logger falls back to the process-wide one.
func NewHandler(repo storage.Repository, logger *log.Logger) *Handler {
	if logger == nil {
		logger = logging.Component("api")
	}
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /exercises", h.listExercises)
	mux.HandleFunc("POST /exercises", h.createExercise)
	mux.HandleFunc("GET /exercises/{id}", h.getExercise)
	mux.HandleFunc("PATCH /exercises/{id}", h.updateExercise)
	mux.HandleFunc("DELETE /exercises/{id}", h.deleteExercise)
	mux.HandleFunc("GET /exercises/{id}/workouts", h.exerciseWorkouts)

	mux.HandleFunc("GET /workouts", h.listWorkouts)
	mux.HandleFunc("POST /workouts", h.createWorkout)
	mux.HandleFunc("GET /workouts/{id}", h.getWorkout)
	mux.HandleFunc("PATCH /workouts/{id}", h.updateWorkout)
	mux.HandleFunc("DELETE /workouts/{id}", h.deleteWorkout)

	mux.HandleFunc("POST /workouts/{workout_id}/exercises/{exercise_id}/workout_exercises", h.createWorkoutExercise)
	mux.HandleFunc("GET /workout_exercises/{id}", h.getWorkoutExercise)
	mux.HandleFunc("DELETE /workout_exercises/{id}", h.deleteWorkoutExercise)

	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Routes returns the full handler chain: request ids, then logging and metrics, then the mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return requestID(observe(h.logger, mux))
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListExercises(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas.DumpExercises(list))
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := schemas.LoadExercise(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := in.Build()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.repo.CreateExercise(r.Context(), e); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schemas.DumpExercise(e))
}

func (h *Handler) getExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exercise", "id")
	if !ok {
		return
	}
	e, err := h.repo.GetExercise(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas.DumpExercise(e))
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exercise", "id")
	if !ok {
		return
	}
	raw, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := schemas.LoadExercisePatch(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := h.repo.UpdateExercise(r.Context(), id, patch.Apply)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas.DumpExercise(e))
}

func (h *Handler) deleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exercise", "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteExercise(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exerciseWorkouts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exercise", "id")
	if !ok {
		return
	}
	list, err := h.repo.WorkoutsForExercise(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas.DumpWorkoutSummaries(list))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	details, err := h.repo.ListWorkoutDetails(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	views := make([]schemas.WorkoutView, 0, len(details))
	for _, d := range details {
		views = append(views, dumpDetail(d))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := schemas.LoadWorkout(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	wo, err := in.Build()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.repo.CreateWorkout(r.Context(), wo); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schemas.DumpWorkout(wo, nil, nil))
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workout", "id")
	if !ok {
		return
	}
	d, err := h.repo.GetWorkoutDetail(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dumpDetail(d))
}

func (h *Handler) updateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workout", "id")
	if !ok {
		return
	}
	raw, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := schemas.LoadWorkoutPatch(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.repo.UpdateWorkout(r.Context(), id, patch.Apply); err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.repo.GetWorkoutDetail(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dumpDetail(d))
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workout", "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteWorkout(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, ok := pathID(w, r, "workout", "workout_id")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exercise", "exercise_id")
	if !ok {
		return
	}
	raw, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := schemas.LoadWorkoutExercise(workoutID, exerciseID, raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	we, err := in.Build()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.repo.CreateWorkoutExercise(r.Context(), we); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schemas.DumpWorkoutExercise(we))
}

func (h *Handler) getWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workout exercise", "id")
	if !ok {
		return
	}
	we, err := h.repo.GetWorkoutExercise(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas.DumpWorkoutExercise(we))
}

func (h *Handler) deleteWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workout exercise", "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteWorkoutExercise(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dumpDetail(d *storage.WorkoutDetail) schemas.WorkoutView {
	return schemas.DumpWorkout(d.Workout, d.WorkoutExercises, d.Exercises)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	return schemas.DecodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// pathID parses a positive integer path value. Anything else cannot name a
// stored row, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, entity, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusNotFound, entity+" "+strconv.Quote(raw)+" not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
