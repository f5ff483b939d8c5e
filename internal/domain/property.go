package domain

import (
	"time"

	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// SubjectType names which entity kind a property can attach to.
type SubjectType string

const (
	SubjectTypePatient SubjectType = "patient"
	SubjectTypeTask    SubjectType = "task"
)

func ParseSubjectType(s string) (SubjectType, error) {
	switch SubjectType(s) {
	case SubjectTypePatient, SubjectTypeTask:
		return SubjectType(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown subject type %q", s)
}

// FieldType names the value shape of a property.
type FieldType string

const (
	FieldTypeText         FieldType = "text"
	FieldTypeNumber       FieldType = "number"
	FieldTypeDate         FieldType = "date"
	FieldTypeDateTime     FieldType = "dateTime"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeSingleSelect FieldType = "singleSelect"
	FieldTypeMultiSelect  FieldType = "multiSelect"
)

// ParseFieldType rejects unknown field types. Dispatch on an unrecognized
// field type anywhere deeper in is a programming error surfaced as
// CodeInvalidFieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeDateTime,
		FieldTypeCheckbox, FieldTypeSingleSelect, FieldTypeMultiSelect:
		return FieldType(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidFieldType, "unknown field type %q", s)
}

// IsSelect reports whether the field type carries select options.
func (ft FieldType) IsSelect() bool {
	return ft == FieldTypeSingleSelect || ft == FieldTypeMultiSelect
}

// SelectOption is one choice of a select property. Option ids are opaque,
// store-assigned at creation, and never reused.
type SelectOption struct {
	ID          id.SelectOptionID `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	IsCustom    bool              `json:"is_custom"`
}

// SelectData carries the option list of a select property. Option order is
// meaningful and preserved.
type SelectData struct {
	IsAllowingFreetext bool           `json:"is_allowing_freetext"`
	Options            []SelectOption `json:"options"`
}

// FindOption returns the option with the given id, if present.
func (d *SelectData) FindOption(optionID id.SelectOptionID) (SelectOption, bool) {
	for _, opt := range d.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return SelectOption{}, false
}

// Property describes one attachable field.
//
// Invariants:
//   - SelectData is present iff FieldType is singleSelect or multiSelect
//   - archived properties keep their attached values but stop appearing in
//     subject-type listings for new attachment
type Property struct {
	ID          id.PropertyID `json:"id"`
	SubjectType SubjectType   `json:"subject_type"`
	FieldType   FieldType     `json:"field_type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	IsArchived  bool          `json:"is_archived"`
	SetID       *string       `json:"set_id,omitempty"`
	SelectData  *SelectData   `json:"select_data,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ValidateShape enforces the select-data invariant after any construction or
// partial update.
func (p *Property) ValidateShape() error {
	if p.FieldType.IsSelect() {
		if p.SelectData == nil {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"property with field type %s requires select data", p.FieldType)
		}
		return nil
	}
	if p.SelectData != nil {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"property with field type %s must not carry select data", p.FieldType)
	}
	return nil
}
