package service

import (
	"context"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// AttachedValueEntry joins an attached value with the property that defines
// its meaning, so callers never need a second lookup to render a value.
type AttachedValueEntry struct {
	Property domain.Property      `json:"property"`
	Value    domain.AttachedValue `json:"value"`
}

// GetProperty returns a single property by id.
func (s *Service) GetProperty(ctx context.Context, propertyID id.PropertyID) (*domain.Property, error) {
	property, err := s.repos.Properties.Find(ctx, propertyID)
	if err != nil {
		return nil, coerce(err)
	}
	return property, nil
}

// GetPropertiesBySubjectType lists the non-archived properties attachable to
// the given subject type.
func (s *Service) GetPropertiesBySubjectType(ctx context.Context, subjectType domain.SubjectType) ([]domain.Property, error) {
	return s.repos.Properties.FindBySubjectType(ctx, subjectType), nil
}

// CreateProperty defines a new attachable field. Select option ids are
// assigned here and never reused.
func (s *Service) CreateProperty(ctx context.Context, params repository.CreatePropertyParams) (*domain.Property, error) {
	property, err := s.repos.Properties.Create(ctx, params)
	if err != nil {
		return nil, coerce(err)
	}
	s.logger.InfoContext(ctx, "property created",
		"property_id", property.ID, "field_type", property.FieldType)
	return property, nil
}

// UpdateProperty partially updates a property; the option delta applies to
// select properties only. Removing an option scrubs it from every attached
// value.
func (s *Service) UpdateProperty(ctx context.Context, propertyID id.PropertyID, update repository.PropertyUpdate) (*domain.Property, error) {
	property, err := s.repos.Properties.Update(ctx, propertyID, update)
	if err != nil {
		return nil, coerce(err)
	}
	return property, nil
}

// DeleteProperty removes a property definition and every value attached
// under it.
func (s *Service) DeleteProperty(ctx context.Context, propertyID id.PropertyID) error {
	if err := s.repos.Properties.Delete(ctx, propertyID); err != nil {
		return coerce(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues("property").Inc()
	}
	s.logger.InfoContext(ctx, "property deleted", "property_id", propertyID)
	return nil
}

// GetAttachedValues returns the subject's values joined with their property
// definitions, in attachment order. The subject must exist.
func (s *Service) GetAttachedValues(ctx context.Context, subjectType domain.SubjectType, subjectID id.SubjectID) ([]AttachedValueEntry, error) {
	if err := s.requireSubject(ctx, subjectType, subjectID); err != nil {
		return nil, err
	}
	entries := make([]AttachedValueEntry, 0)
	for _, value := range s.repos.Values.FindBySubject(ctx, subjectType, subjectID) {
		property, err := s.repos.Properties.Find(ctx, value.PropertyID)
		if err != nil {
			return nil, coerce(err)
		}
		entries = append(entries, AttachedValueEntry{Property: *property, Value: value})
	}
	return entries, nil
}

// AttachValue sets the subject's value under a property, replacing any
// previous one. Multi-select properties reject replacement; use
// ApplyMultiSelectDelta.
func (s *Service) AttachValue(ctx context.Context, propertyID id.PropertyID, subjectType domain.SubjectType, subjectID id.SubjectID, value domain.Value) (*domain.AttachedValue, error) {
	if err := s.requireSubject(ctx, subjectType, subjectID); err != nil {
		return nil, err
	}
	attached, err := s.repos.Values.Attach(ctx, propertyID, subjectType, subjectID, value)
	if err != nil {
		return nil, coerce(err)
	}
	return attached, nil
}

// ApplyMultiSelectDelta mutates a multi-select value by explicit add/remove
// option ids. A subject without a prior value starts from the empty set.
func (s *Service) ApplyMultiSelectDelta(ctx context.Context, propertyID id.PropertyID, subjectType domain.SubjectType, subjectID id.SubjectID, add, remove []id.SelectOptionID) (*domain.AttachedValue, error) {
	if err := s.requireSubject(ctx, subjectType, subjectID); err != nil {
		return nil, err
	}
	attached, err := s.repos.Values.ApplyMultiSelectDelta(ctx, propertyID, subjectType, subjectID, add, remove)
	if err != nil {
		return nil, coerce(err)
	}
	return attached, nil
}

// requireSubject checks the subject id against the collection its type names.
func (s *Service) requireSubject(ctx context.Context, subjectType domain.SubjectType, subjectID id.SubjectID) error {
	switch subjectType {
	case domain.SubjectTypePatient:
		_, err := s.repos.Patients.Find(ctx, id.PatientID(subjectID))
		return coerce(err)
	case domain.SubjectTypeTask:
		_, err := s.repos.Tasks.Find(ctx, id.TaskID(subjectID))
		return coerce(err)
	}
	return dErrors.Newf(dErrors.CodeValidation, "unknown subject type %q", subjectType)
}
