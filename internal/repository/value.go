package repository

import (
	"context"
	"fmt"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Values is the repository for attached property values, keyed by
// (property, subject): at most one value per pair.
type Values struct {
	store *storage.Store
}

func (r *Values) FindBySubject(_ context.Context, subjectType domain.SubjectType, subjectID id.SubjectID) []domain.AttachedValue {
	var out []domain.AttachedValue
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Values().Where(func(v domain.AttachedValue) bool {
			return v.SubjectType == subjectType && v.SubjectID == subjectID
		})
		return nil
	})
	return out
}

// Attach sets the value for the (property, subject) pair, replacing any
// previous one. Multi-select values are mutated via ApplyMultiSelectDelta,
// never replaced wholesale.
func (r *Values) Attach(ctx context.Context, propertyID id.PropertyID, subjectType domain.SubjectType, subjectID id.SubjectID, value domain.Value) (*domain.AttachedValue, error) {
	if _, isMulti := value.(domain.MultiSelectValue); isMulti {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			"multi-select values are mutated via add/remove deltas, not replacement")
	}
	now := requestcontext.Now(ctx)
	var out domain.AttachedValue
	err := r.store.Update(func(tx *storage.Tx) error {
		property, ok := tx.Properties().Get(propertyID)
		if !ok {
			return fmt.Errorf("property %s: %w", propertyID, sentinel.ErrNotFound)
		}
		if property.SubjectType != subjectType {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"property %s attaches to %s subjects, got %s",
				propertyID, property.SubjectType, subjectType)
		}
		if err := domain.CheckValueShape(&property, value); err != nil {
			return err
		}
		out = domain.AttachedValue{
			PropertyID:  propertyID,
			SubjectID:   subjectID,
			SubjectType: subjectType,
			Value:       value,
			UpdatedAt:   now,
		}
		tx.Values().Insert(out.Key(), out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyMultiSelectDelta mutates the option set of a multi-select value by
// explicit add/remove ids. A missing prior value starts from the empty set.
func (r *Values) ApplyMultiSelectDelta(ctx context.Context, propertyID id.PropertyID, subjectType domain.SubjectType, subjectID id.SubjectID, add, remove []id.SelectOptionID) (*domain.AttachedValue, error) {
	now := requestcontext.Now(ctx)
	var out domain.AttachedValue
	err := r.store.Update(func(tx *storage.Tx) error {
		property, ok := tx.Properties().Get(propertyID)
		if !ok {
			return fmt.Errorf("property %s: %w", propertyID, sentinel.ErrNotFound)
		}
		if property.FieldType != domain.FieldTypeMultiSelect {
			return dErrors.Newf(dErrors.CodeInvalidFieldType,
				"property %s holds %s values, deltas apply to multiSelect only",
				propertyID, property.FieldType)
		}
		if property.SubjectType != subjectType {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"property %s attaches to %s subjects, got %s",
				propertyID, property.SubjectType, subjectType)
		}
		for _, optionID := range add {
			if _, defined := property.SelectData.FindOption(optionID); !defined {
				return dErrors.Newf(dErrors.CodeValidation,
					"option %s is not defined on property %s", optionID, propertyID)
			}
		}

		current := domain.MultiSelectValue{}
		key := domain.ValueKey{PropertyID: propertyID, SubjectID: subjectID}
		if existing, ok := tx.Values().Get(key); ok {
			current = existing.Value.(domain.MultiSelectValue)
		}
		out = domain.AttachedValue{
			PropertyID:  propertyID,
			SubjectID:   subjectID,
			SubjectType: subjectType,
			Value:       current.ApplyDelta(add, remove),
			UpdatedAt:   now,
		}
		tx.Values().Insert(key, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
