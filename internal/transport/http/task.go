package transporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	"wardflow/internal/service"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createTaskRequest struct {
	PatientID       string     `json:"patient_id"`
	Name            string     `json:"name"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status,omitempty"`
	IsPublicVisible bool       `json:"is_public_visible"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	SubTasks        []string   `json:"subtasks,omitempty"`
}

type updateTaskRequest struct {
	Name    *string    `json:"name,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
	Status  *string    `json:"status,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

type assignTaskRequest struct {
	UserID string `json:"user_id"`
}

type subTaskNameRequest struct {
	Name string `json:"name"`
}

func taskIDFrom(r *http.Request) (id.TaskID, error) {
	return id.ParseTaskID(chi.URLParam(r, "taskID"))
}

func subTaskIDFrom(r *http.Request) (id.SubTaskID, error) {
	return id.ParseSubTaskID(chi.URLParam(r, "subTaskID"))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createTaskRequest](w, r)
	if !ok {
		return
	}
	patientID, err := id.ParsePatientID(req.PatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	input := service.CreateTaskInput{
		PatientID:       patientID,
		Name:            req.Name,
		Notes:           req.Notes,
		IsPublicVisible: req.IsPublicVisible,
		DueDate:         req.DueDate,
		SubTaskNames:    req.SubTasks,
	}
	if req.Status != "" {
		status, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.Status = status
	}
	task, err := h.svc.CreateTask(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) handleTasksAssignedToCaller(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.GetTasksAssignedToCaller(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleTasksByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tasks, err := h.svc.GetTasksByPatient(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	task, err := h.svc.GetTask(r.Context(), taskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateTaskRequest](w, r)
	if !ok {
		return
	}
	update := repository.TaskUpdate{
		Name:    req.Name,
		Notes:   req.Notes,
		DueDate: req.DueDate,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		update.Status = &status
	}
	task, err := h.svc.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteTask(r.Context(), taskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[assignTaskRequest](w, r)
	if !ok {
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	task, err := h.svc.AssignTask(r.Context(), taskID, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUnassignTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	task, err := h.svc.UnassignTask(r.Context(), taskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleCreateSubTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[subTaskNameRequest](w, r)
	if !ok {
		return
	}
	subTask, err := h.svc.CreateSubTask(r.Context(), taskID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, subTask)
}

func (h *Handler) handleUpdateSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := subTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[subTaskNameRequest](w, r)
	if !ok {
		return
	}
	subTask, err := h.svc.UpdateSubTask(r.Context(), subTaskID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, subTask)
}

func (h *Handler) handleCompleteSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := subTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	subTask, err := h.svc.CompleteSubTask(r.Context(), subTaskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, subTask)
}

func (h *Handler) handleUncompleteSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := subTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	subTask, err := h.svc.UncompleteSubTask(r.Context(), subTaskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, subTask)
}

func (h *Handler) handleDeleteSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := subTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteSubTask(r.Context(), subTaskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
