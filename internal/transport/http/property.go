package transporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/httputil"
)

type optionInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsCustom    bool   `json:"is_custom,omitempty"`
}

type optionUpdate struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type createPropertyRequest struct {
	SubjectType        string        `json:"subject_type"`
	FieldType          string        `json:"field_type"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	SetID              *string       `json:"set_id,omitempty"`
	IsAllowingFreetext bool          `json:"is_allowing_freetext,omitempty"`
	Options            []optionInput `json:"options,omitempty"`
}

type updatePropertyRequest struct {
	Name               *string        `json:"name,omitempty"`
	Description        *string        `json:"description,omitempty"`
	IsArchived         *bool          `json:"is_archived,omitempty"`
	SetID              *string        `json:"set_id,omitempty"`
	IsAllowingFreetext *bool          `json:"is_allowing_freetext,omitempty"`
	AddOptions         []optionInput  `json:"add_options,omitempty"`
	UpdateOptions      []optionUpdate `json:"update_options,omitempty"`
	RemoveOptions      []string       `json:"remove_options,omitempty"`
}

type multiSelectDeltaRequest struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

func propertyIDFrom(r *http.Request) (id.PropertyID, error) {
	return id.ParsePropertyID(chi.URLParam(r, "propertyID"))
}

func subjectFrom(r *http.Request) (domain.SubjectType, id.SubjectID, error) {
	subjectType, err := domain.ParseSubjectType(chi.URLParam(r, "subjectType"))
	if err != nil {
		return "", id.SubjectID{}, err
	}
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		return "", id.SubjectID{}, err
	}
	return subjectType, subjectID, nil
}

func toOptionInputs(in []optionInput) []repository.OptionInput {
	out := make([]repository.OptionInput, 0, len(in))
	for _, opt := range in {
		out = append(out, repository.OptionInput{
			Name:        opt.Name,
			Description: opt.Description,
			IsCustom:    opt.IsCustom,
		})
	}
	return out
}

func parseOptionIDs(in []string) ([]id.SelectOptionID, error) {
	out := make([]id.SelectOptionID, 0, len(in))
	for _, raw := range in {
		optionID, err := id.ParseSelectOptionID(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, optionID)
	}
	return out, nil
}

// handleListProperties lists non-archived properties for one subject type,
// given as a required subjectType query parameter.
func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("subjectType")
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "subjectType query parameter is required"))
		return
	}
	subjectType, err := domain.ParseSubjectType(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	properties, err := h.svc.GetPropertiesBySubjectType(r.Context(), subjectType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, properties)
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createPropertyRequest](w, r)
	if !ok {
		return
	}
	subjectType, err := domain.ParseSubjectType(req.SubjectType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fieldType, err := domain.ParseFieldType(req.FieldType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	property, err := h.svc.CreateProperty(r.Context(), repository.CreatePropertyParams{
		SubjectType:        subjectType,
		FieldType:          fieldType,
		Name:               req.Name,
		Description:        req.Description,
		SetID:              req.SetID,
		IsAllowingFreetext: req.IsAllowingFreetext,
		Options:            toOptionInputs(req.Options),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, property)
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := propertyIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	property, err := h.svc.GetProperty(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := propertyIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updatePropertyRequest](w, r)
	if !ok {
		return
	}
	removeIDs, err := parseOptionIDs(req.RemoveOptions)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	updates := make([]repository.OptionUpdate, 0, len(req.UpdateOptions))
	for _, opt := range req.UpdateOptions {
		optionID, err := id.ParseSelectOptionID(opt.ID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		updates = append(updates, repository.OptionUpdate{
			ID:          optionID,
			Name:        opt.Name,
			Description: opt.Description,
		})
	}
	property, err := h.svc.UpdateProperty(r.Context(), propertyID, repository.PropertyUpdate{
		Name:               req.Name,
		Description:        req.Description,
		IsArchived:         req.IsArchived,
		SetID:              req.SetID,
		IsAllowingFreetext: req.IsAllowingFreetext,
		Options: repository.OptionDelta{
			Add:    toOptionInputs(req.AddOptions),
			Update: updates,
			Remove: removeIDs,
		},
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *Handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := propertyIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteProperty(r.Context(), propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleGetAttachedValues(w http.ResponseWriter, r *http.Request) {
	subjectType, subjectID, err := subjectFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.svc.GetAttachedValues(r.Context(), subjectType, subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAttachedValueEntries(entries))
}

func (h *Handler) handleAttachValue(w http.ResponseWriter, r *http.Request) {
	subjectType, subjectID, err := subjectFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	propertyID, err := propertyIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.Decode[valueBody](w, r)
	if !ok {
		return
	}
	value, err := body.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attached, err := h.svc.AttachValue(r.Context(), propertyID, subjectType, subjectID, value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAttachedValueResponse(attached))
}

func (h *Handler) handleMultiSelectDelta(w http.ResponseWriter, r *http.Request) {
	subjectType, subjectID, err := subjectFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	propertyID, err := propertyIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[multiSelectDeltaRequest](w, r)
	if !ok {
		return
	}
	add, err := parseOptionIDs(req.Add)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	remove, err := parseOptionIDs(req.Remove)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attached, err := h.svc.ApplyMultiSelectDelta(r.Context(), propertyID, subjectType, subjectID, add, remove)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAttachedValueResponse(attached))
}
