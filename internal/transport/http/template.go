package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createTemplateRequest struct {
	WardID          *string `json:"ward_id,omitempty"`
	Name            string  `json:"name"`
	Notes           string  `json:"notes"`
	IsPublicVisible bool    `json:"is_public_visible"`
}

type updateTemplateRequest struct {
	Name            *string `json:"name,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	IsPublicVisible *bool   `json:"is_public_visible,omitempty"`
}

type instantiateTemplateRequest struct {
	PatientID string `json:"patient_id"`
}

func templateIDFrom(r *http.Request) (id.TaskTemplateID, error) {
	return id.ParseTaskTemplateID(chi.URLParam(r, "templateID"))
}

func templateSubTaskIDFrom(r *http.Request) (id.TemplateSubTaskID, error) {
	return id.ParseTemplateSubTaskID(chi.URLParam(r, "subTaskID"))
}

func (h *Handler) handlePersonalTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.GetPersonalTemplates(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, templates)
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createTemplateRequest](w, r)
	if !ok {
		return
	}
	var wardID *id.WardID
	if req.WardID != nil {
		parsed, err := id.ParseWardID(*req.WardID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		wardID = &parsed
	}
	template, err := h.svc.CreateTemplate(r.Context(), wardID, req.Name, req.Notes, req.IsPublicVisible)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, template)
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := templateIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	template, err := h.svc.GetTemplate(r.Context(), templateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, template)
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := templateIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateTemplateRequest](w, r)
	if !ok {
		return
	}
	template, err := h.svc.UpdateTemplate(r.Context(), templateID, repository.TemplateUpdate{
		Name:            req.Name,
		Notes:           req.Notes,
		IsPublicVisible: req.IsPublicVisible,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, template)
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := templateIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteTemplate(r.Context(), templateID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleInstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := templateIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[instantiateTemplateRequest](w, r)
	if !ok {
		return
	}
	patientID, err := id.ParsePatientID(req.PatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	task, err := h.svc.CreateTaskFromTemplate(r.Context(), templateID, patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) handleCreateTemplateSubTask(w http.ResponseWriter, r *http.Request) {
	templateID, err := templateIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[subTaskNameRequest](w, r)
	if !ok {
		return
	}
	subTask, err := h.svc.CreateTemplateSubTask(r.Context(), templateID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, subTask)
}

func (h *Handler) handleUpdateTemplateSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := templateSubTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[subTaskNameRequest](w, r)
	if !ok {
		return
	}
	subTask, err := h.svc.UpdateTemplateSubTask(r.Context(), subTaskID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, subTask)
}

func (h *Handler) handleDeleteTemplateSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := templateSubTaskIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteTemplateSubTask(r.Context(), subTaskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
