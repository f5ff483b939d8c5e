package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createBedRequest struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

type updateBedRequest struct {
	Name   string  `json:"name"`
	RoomID *string `json:"room_id,omitempty"`
}

func bedIDFrom(r *http.Request) (id.BedID, error) {
	return id.ParseBedID(chi.URLParam(r, "bedID"))
}

func (h *Handler) handleListBeds(w http.ResponseWriter, r *http.Request) {
	var roomID *id.RoomID
	if raw := r.URL.Query().Get("roomId"); raw != "" {
		parsed, err := id.ParseRoomID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		roomID = &parsed
	}
	beds, err := h.svc.GetBeds(r.Context(), roomID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, beds)
}

func (h *Handler) handleCreateBed(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createBedRequest](w, r)
	if !ok {
		return
	}
	roomID, err := id.ParseRoomID(req.RoomID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	bed, err := h.svc.CreateBed(r.Context(), roomID, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, bed)
}

func (h *Handler) handleGetBed(w http.ResponseWriter, r *http.Request) {
	bedID, err := bedIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	bed, err := h.svc.GetBed(r.Context(), bedID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bed)
}

func (h *Handler) handleUpdateBed(w http.ResponseWriter, r *http.Request) {
	bedID, err := bedIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateBedRequest](w, r)
	if !ok {
		return
	}
	var roomID *id.RoomID
	if req.RoomID != nil {
		parsed, err := id.ParseRoomID(*req.RoomID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		roomID = &parsed
	}
	bed, err := h.svc.UpdateBed(r.Context(), bedID, req.Name, roomID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bed)
}

func (h *Handler) handleDeleteBed(w http.ResponseWriter, r *http.Request) {
	bedID, err := bedIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteBed(r.Context(), bedID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
