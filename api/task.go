package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/andrebq/tasktape/auth"
	"github.com/andrebq/tasktape/internal/logutil"
	"github.com/andrebq/tasktape/ledger"
	"github.com/julienschmidt/httprouter"
)

type (
	taskAPI struct {
		book *ledger.Ledger
	}

	taskPayload struct {
		ID          int64      `json:"id,omitempty"`
		Title       string     `json:"title"`
		Description string     `json:"description,omitempty"`
		DueDate     *time.Time `json:"due_date,omitempty"`
		IsCompleted bool       `json:"is_completed"`
	}
)

func (t *taskAPI) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		unprotectedRoute(w, r)
		return
	}
	tasks, err := t.book.TasksByUser(r.Context(), userID)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("unable to list tasks")
		http.Error(w, "unable to list tasks", http.StatusInternalServerError)
		return
	}
	out := make([]taskPayload, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, fromLedger(task))
	}
	writeJSON(w, http.StatusOK, out)
}

func (t *taskAPI) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		unprotectedRoute(w, r)
		return
	}
	var req taskPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "request body must be a JSON task", http.StatusBadRequest)
		return
	}
	task := ledger.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	}
	id, err := t.book.InsertTask(r.Context(), task)
	if err != nil {
		var invalid ledger.InvalidInput
		if errors.As(err, &invalid) {
			http.Error(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("unable to insert task")
		http.Error(w, "unable to create task", http.StatusInternalServerError)
		return
	}
	task.ID = id
	writeJSON(w, http.StatusCreated, fromLedger(task))
}

func (t *taskAPI) fetch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		unprotectedRoute(w, r)
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	task, err := t.book.TaskByID(r.Context(), userID, taskID)
	if err != nil {
		taskError(w, r, err, "unable to fetch task")
		return
	}
	writeJSON(w, http.StatusOK, fromLedger(*task))
}

func (t *taskAPI) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		unprotectedRoute(w, r)
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	var req taskPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "request body must be a JSON task", http.StatusBadRequest)
		return
	}
	task := ledger.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	}
	if err := t.book.UpdateTask(r.Context(), userID, task); err != nil {
		taskError(w, r, err, "unable to update task")
		return
	}
	writeJSON(w, http.StatusOK, fromLedger(task))
}

func (t *taskAPI) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		unprotectedRoute(w, r)
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	if err := t.book.DeleteTask(r.Context(), userID, taskID); err != nil {
		taskError(w, r, err, "unable to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "task id must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func taskError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var notFound ledger.TaskNotFound
	var invalid ledger.InvalidInput
	switch {
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusBadRequest)
	default:
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func fromLedger(t ledger.Task) taskPayload {
	return taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted,
	}
}

// unprotectedRoute only fires when a /tasks handler gets mounted
// without going through Realm.Protect, which is a wiring bug.
func unprotectedRoute(w http.ResponseWriter, r *http.Request) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Str("req.path", r.URL.Path).Msg("handler reached without an authenticated user in the context")
	http.Error(w, "misconfigured route", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
