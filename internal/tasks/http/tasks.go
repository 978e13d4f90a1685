package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/service"
	"github.com/aussiebroadwan/tasktab/pkg/httpx"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
	"github.com/aussiebroadwan/tasktab/pkg/slogx"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

type createTaskRequest struct {
	Name string `json:"name"`
}

// updateTaskRequest distinguishes absent fields from present ones via
// pointers. A field left out of the JSON body keeps its stored value.
type updateTaskRequest struct {
	Name             *string `json:"name"`
	Completed        *bool   `json:"completed"`
	ReminderInterval *int64  `json:"reminder_interval"`
}

type reminderRequest struct {
	ReminderInterval *int64 `json:"reminder_interval"`
}

// HandleList returns every task owned by the authenticated user.
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		errInvalidToken.WriteError(w)
		return
	}

	tasks, err := h.TaskService.ListTasks(ctx, caller)
	if err != nil {
		log.Error("failed to list tasks", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskListResponse(tasks))
}

// HandleCreate creates a new incomplete task owned by the caller.
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		errInvalidToken.WriteError(w)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	task, err := h.TaskService.CreateTask(ctx, caller, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			errInvalidRequest.WriteError(w)
		default:
			log.Error("failed to create task", "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskResponse(task))
}

// HandleUpdate applies a partial update to one of the caller's tasks.
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		errInvalidToken.WriteError(w)
		return
	}

	taskID, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		// An unparseable id cannot name an existing task, so it gets the
		// same response as a missing one.
		errTaskNotFound.WriteError(w)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	patch := domain.TaskPatch{
		Name:             req.Name,
		Completed:        req.Completed,
		ReminderInterval: req.ReminderInterval,
	}

	task, err := h.TaskService.UpdateTask(ctx, caller, taskID, patch)
	if err != nil {
		h.writeTaskError(w, log, "failed to update task", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskResponse(task))
}

// HandleDelete removes one of the caller's tasks.
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		errInvalidToken.WriteError(w)
		return
	}

	taskID, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		errTaskNotFound.WriteError(w)
		return
	}

	if err := h.TaskService.DeleteTask(ctx, caller, taskID); err != nil {
		h.writeTaskError(w, log, "failed to delete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleReminder sets or clears the reminder interval on one of the
// caller's tasks without touching any other field.
func (h *TasksHandler) HandleReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		errInvalidToken.WriteError(w)
		return
	}

	taskID, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		errTaskNotFound.WriteError(w)
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	task, err := h.TaskService.UpdateReminder(ctx, caller, taskID, req.ReminderInterval)
	if err != nil {
		h.writeTaskError(w, log, "failed to update reminder", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TasksHandler) writeTaskError(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		errTaskNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		errInvalidRequest.WriteError(w)
	default:
		log.Error(msg, "err", err)
		errServerError.WriteError(w)
	}
}
