package transporthttp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/httputil"
)

type createPatientRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

type updatePatientRequest struct {
	Name  *string `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type assignBedRequest struct {
	BedID string `json:"bed_id"`
}

func patientIDFrom(r *http.Request) (id.PatientID, error) {
	return id.ParsePatientID(chi.URLParam(r, "patientID"))
}

// handlePatientList serves the partitioned patient list; an optional wardId
// query narrows the active partition.
func (h *Handler) handlePatientList(w http.ResponseWriter, r *http.Request) {
	var wardID *id.WardID
	if raw := r.URL.Query().Get("wardId"); raw != "" {
		parsed, err := id.ParseWardID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		wardID = &parsed
	}
	list, err := h.svc.GetPatientList(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleRecentPatients(w http.ResponseWriter, r *http.Request) {
	recent, err := h.svc.GetRecentPatients(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recent)
}

func (h *Handler) handlePatientsByWard(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patients, err := h.svc.GetPatientsByWard(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patients)
}

func (h *Handler) handlePatientAssignments(w http.ResponseWriter, r *http.Request) {
	wardID, err := wardIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assignments, err := h.svc.GetPatientAssignmentByWard(r.Context(), wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assignments)
}

func (h *Handler) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createPatientRequest](w, r)
	if !ok {
		return
	}
	patient, err := h.svc.CreatePatient(r.Context(), req.Name, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, patient)
}

func (h *Handler) handlePatientDetails(w http.ResponseWriter, r *http.Request) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	details, err := h.svc.GetPatientDetails(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) handleUpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updatePatientRequest](w, r)
	if !ok {
		return
	}
	patient, err := h.svc.UpdatePatient(r.Context(), patientID, req.Name, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) handleDeletePatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeletePatient(r.Context(), patientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleAssignBed(w http.ResponseWriter, r *http.Request) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[assignBedRequest](w, r)
	if !ok {
		return
	}
	bedID, err := id.ParseBedID(req.BedID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.svc.AssignBed(r.Context(), patientID, bedID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) handleUnassignBed(w http.ResponseWriter, r *http.Request) {
	h.patientTransition(w, r, h.svc.UnassignBed)
}

func (h *Handler) handleDischarge(w http.ResponseWriter, r *http.Request) {
	h.patientTransition(w, r, h.svc.DischargePatient)
}

func (h *Handler) handleReadmit(w http.ResponseWriter, r *http.Request) {
	h.patientTransition(w, r, h.svc.ReadmitPatient)
}

func (h *Handler) patientTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, patientID id.PatientID) (*domain.Patient, error)) {
	patientID, err := patientIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := op(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}
