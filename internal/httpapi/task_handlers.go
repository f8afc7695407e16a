package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskdeck.org/internal/audit"
	"taskdeck.org/internal/auth"
	"taskdeck.org/internal/task"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Completed   bool   `json:"completed"`
}

type createTaskResponse struct {
	ID int64 `json:"id"`
}

func (a *API) handleTasksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createTask(w, r)
	case http.MethodGet:
		a.listTasks(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTaskResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	// Task ids are positive integers; anything else is as good as absent.
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, "task not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateTask(w, r, id)
	case http.MethodDelete:
		a.deleteTask(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.tasks.Create(r.Context(), ownerID, req.Title, req.Description, req.Date)
	if err != nil {
		if errors.Is(err, task.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "title is required")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "error adding task")
		return
	}

	_ = audit.LogEvent(r.Context(), "task.create", map[string]any{
		"task_id": strconv.FormatInt(id, 10),
	})
	writeJSON(w, http.StatusCreated, createTaskResponse{ID: id})
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	tasks, err := a.tasks.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "error fetching tasks")
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request, id int64) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := a.tasks.Update(r.Context(), task.Task{
		ID:          id,
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Completed:   req.Completed,
	})
	if err != nil {
		a.handleTaskError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "task.update", map[string]any{
		"task_id": strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request, id int64) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := a.tasks.Delete(r.Context(), id, ownerID); err != nil {
		a.handleTaskError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "task.delete", map[string]any{
		"task_id": strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		// Absent and foreign-owned are deliberately the same response.
		writeError(w, r, http.StatusNotFound, "task not found or unauthorized")
	case errors.Is(err, task.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
