package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createRoomRequest struct {
	WardID string `json:"ward_id"`
	Name   string `json:"name"`
}

func roomIDFrom(r *http.Request) (id.RoomID, error) {
	return id.ParseRoomID(chi.URLParam(r, "roomID"))
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createRoomRequest](w, r)
	if !ok {
		return
	}
	wardID, err := id.ParseWardID(req.WardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	room, err := h.svc.CreateRoom(r.Context(), wardID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, room)
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	room, err := h.svc.GetRoom(r.Context(), roomID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, room)
}

func (h *Handler) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateNameRequest](w, r)
	if !ok {
		return
	}
	room, err := h.svc.UpdateRoom(r.Context(), roomID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, room)
}

func (h *Handler) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteRoom(r.Context(), roomID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
