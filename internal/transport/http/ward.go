package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createWardRequest struct {
	Name string `json:"name"`
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func wardIDFrom(r *http.Request) (id.WardID, error) {
	return id.ParseWardID(chi.URLParam(r, "wardID"))
}

func (h *Handler) handleListWards(w http.ResponseWriter, r *http.Request) {
	wards, err := h.svc.GetWards(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wards)
}

func (h *Handler) handleCreateWard(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createWardRequest](w, r)
	if !ok {
		return
	}
	ward, err := h.svc.CreateWard(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ward)
}

func (h *Handler) handleWardOverviews(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.svc.GetWardOverviews(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overviews)
}

func (h *Handler) handleGetWard(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ward, err := h.svc.GetWard(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ward)
}

func (h *Handler) handleUpdateWard(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateNameRequest](w, r)
	if !ok {
		return
	}
	ward, err := h.svc.UpdateWard(r.Context(), wardID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ward)
}

func (h *Handler) handleDeleteWard(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteWard(r.Context(), wardID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleWardDetails(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	details, err := h.svc.GetWardDetails(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) handleRoomOverviews(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	overviews, err := h.svc.GetRoomOverviewsByWard(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overviews)
}

func (h *Handler) handleWardTemplates(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	templates, err := h.svc.GetWardTemplates(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, templates)
}
