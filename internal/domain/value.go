package domain

import (
	"time"

	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// Value is the tagged variant held by an attached property value. Exactly one
// concrete type exists per field type, so a value can never carry stale data
// for a field type it does not have.
type Value interface {
	FieldType() FieldType
}

type TextValue string

type NumberValue float64

type CheckboxValue bool

type DateValue time.Time

type DateTimeValue time.Time

type SingleSelectValue id.SelectOptionID

// MultiSelectValue is an ordered set of option ids. Mutation goes through
// ApplyDelta, never full replacement.
type MultiSelectValue []id.SelectOptionID

func (TextValue) FieldType() FieldType         { return FieldTypeText }
func (NumberValue) FieldType() FieldType       { return FieldTypeNumber }
func (CheckboxValue) FieldType() FieldType     { return FieldTypeCheckbox }
func (DateValue) FieldType() FieldType         { return FieldTypeDate }
func (DateTimeValue) FieldType() FieldType     { return FieldTypeDateTime }
func (SingleSelectValue) FieldType() FieldType { return FieldTypeSingleSelect }
func (MultiSelectValue) FieldType() FieldType  { return FieldTypeMultiSelect }

// Contains reports membership of an option id in the set.
func (v MultiSelectValue) Contains(optionID id.SelectOptionID) bool {
	for _, existing := range v {
		if existing == optionID {
			return true
		}
	}
	return false
}

// ApplyDelta adds then removes option ids, preserving insertion order and
// ignoring adds already present and removes already absent.
func (v MultiSelectValue) ApplyDelta(add, remove []id.SelectOptionID) MultiSelectValue {
	out := make(MultiSelectValue, 0, len(v)+len(add))
	out = append(out, v...)
	for _, optionID := range add {
		if !out.Contains(optionID) {
			out = append(out, optionID)
		}
	}
	if len(remove) == 0 {
		return out
	}
	removed := make(map[id.SelectOptionID]struct{}, len(remove))
	for _, optionID := range remove {
		removed[optionID] = struct{}{}
	}
	kept := out[:0]
	for _, optionID := range out {
		if _, drop := removed[optionID]; !drop {
			kept = append(kept, optionID)
		}
	}
	return kept
}

// ValueKey identifies an attached value: at most one value exists per
// (property, subject) pair.
type ValueKey struct {
	PropertyID id.PropertyID
	SubjectID  id.SubjectID
}

// AttachedValue binds one value to one subject under one property.
//
// Invariants:
//   - PropertyID references an existing property
//   - Value's field type equals the property's field type
//   - select values reference options the property actually defines
type AttachedValue struct {
	PropertyID  id.PropertyID `json:"property_id"`
	SubjectID   id.SubjectID  `json:"subject_id"`
	SubjectType SubjectType   `json:"subject_type"`
	Value       Value         `json:"-"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Key returns the (property, subject) pair the value is stored under.
func (v *AttachedValue) Key() ValueKey {
	return ValueKey{PropertyID: v.PropertyID, SubjectID: v.SubjectID}
}

// CheckValueShape verifies a value against the property it attaches under:
// field types must match and select values must reference defined options.
func CheckValueShape(p *Property, value Value) error {
	if value == nil {
		return dErrors.New(dErrors.CodeValidation, "value must not be empty")
	}
	if value.FieldType() != p.FieldType {
		return dErrors.Newf(dErrors.CodeInvalidFieldType,
			"property %s holds %s values, got %s", p.ID, p.FieldType, value.FieldType())
	}
	switch v := value.(type) {
	case SingleSelectValue:
		if _, ok := p.SelectData.FindOption(id.SelectOptionID(v)); !ok {
			return dErrors.Newf(dErrors.CodeValidation,
				"option %s is not defined on property %s", id.SelectOptionID(v), p.ID)
		}
	case MultiSelectValue:
		for _, optionID := range v {
			if _, ok := p.SelectData.FindOption(optionID); !ok {
				return dErrors.Newf(dErrors.CodeValidation,
					"option %s is not defined on property %s", optionID, p.ID)
			}
		}
	}
	return nil
}
