// Package domain holds the shared domain primitives: one opaque, typed id per
// entity kind. Typed ids make cross-aggregate mixups (passing a bed id where a
// patient id belongs) a compile error instead of a runtime miss.
package domain

import (
	"github.com/google/uuid"

	dErrors "wardflow/pkg/domain-errors"
)

type (
	OrganizationID    uuid.UUID
	WardID            uuid.UUID
	RoomID            uuid.UUID
	BedID             uuid.UUID
	PatientID         uuid.UUID
	TaskID            uuid.UUID
	SubTaskID         uuid.UUID
	TaskTemplateID    uuid.UUID
	TemplateSubTaskID uuid.UUID
	PropertyID        uuid.UUID
	SelectOptionID    uuid.UUID
	UserID            uuid.UUID

	// SubjectID addresses whichever entity a property value is attached to
	// (a patient or a task, disambiguated by the subject type).
	SubjectID uuid.UUID
)

// parseUUID enforces the shared invariant: ids must be valid, non-empty,
// non-nil UUIDs. Enforced at trust boundaries (transport decode), never
// re-checked deeper in.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "malformed id %q", s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id must not be the nil UUID")
	}
	return u, nil
}

func ParseOrganizationID(s string) (OrganizationID, error) {
	u, err := parseUUID(s)
	return OrganizationID(u), err
}

func ParseWardID(s string) (WardID, error) {
	u, err := parseUUID(s)
	return WardID(u), err
}

func ParseRoomID(s string) (RoomID, error) {
	u, err := parseUUID(s)
	return RoomID(u), err
}

func ParseBedID(s string) (BedID, error) {
	u, err := parseUUID(s)
	return BedID(u), err
}

func ParsePatientID(s string) (PatientID, error) {
	u, err := parseUUID(s)
	return PatientID(u), err
}

func ParseTaskID(s string) (TaskID, error) {
	u, err := parseUUID(s)
	return TaskID(u), err
}

func ParseSubTaskID(s string) (SubTaskID, error) {
	u, err := parseUUID(s)
	return SubTaskID(u), err
}

func ParseTaskTemplateID(s string) (TaskTemplateID, error) {
	u, err := parseUUID(s)
	return TaskTemplateID(u), err
}

func ParseTemplateSubTaskID(s string) (TemplateSubTaskID, error) {
	u, err := parseUUID(s)
	return TemplateSubTaskID(u), err
}

func ParsePropertyID(s string) (PropertyID, error) {
	u, err := parseUUID(s)
	return PropertyID(u), err
}

func ParseSelectOptionID(s string) (SelectOptionID, error) {
	u, err := parseUUID(s)
	return SelectOptionID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s)
	return SubjectID(u), err
}

func (id OrganizationID) String() string    { return uuid.UUID(id).String() }
func (id WardID) String() string            { return uuid.UUID(id).String() }
func (id RoomID) String() string            { return uuid.UUID(id).String() }
func (id BedID) String() string             { return uuid.UUID(id).String() }
func (id PatientID) String() string         { return uuid.UUID(id).String() }
func (id TaskID) String() string            { return uuid.UUID(id).String() }
func (id SubTaskID) String() string         { return uuid.UUID(id).String() }
func (id TaskTemplateID) String() string    { return uuid.UUID(id).String() }
func (id TemplateSubTaskID) String() string { return uuid.UUID(id).String() }
func (id PropertyID) String() string        { return uuid.UUID(id).String() }
func (id SelectOptionID) String() string    { return uuid.UUID(id).String() }
func (id UserID) String() string            { return uuid.UUID(id).String() }
func (id SubjectID) String() string         { return uuid.UUID(id).String() }

func (id OrganizationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id WardID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id RoomID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id BedID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id TaskID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id SubTaskID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id TaskTemplateID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TemplateSubTaskID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PropertyID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SelectOptionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep typed ids JSON-friendly as plain UUID strings.
func (id WardID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id RoomID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id BedID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id PatientID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id TaskID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id SubTaskID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id TaskTemplateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id TemplateSubTaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
func (id PropertyID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id SelectOptionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id SubjectID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id OrganizationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *WardID) UnmarshalText(b []byte) error {
	parsed, err := ParseWardID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RoomID) UnmarshalText(b []byte) error {
	parsed, err := ParseRoomID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *BedID) UnmarshalText(b []byte) error {
	parsed, err := ParseBedID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PatientID) UnmarshalText(b []byte) error {
	parsed, err := ParsePatientID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *TaskID) UnmarshalText(b []byte) error {
	parsed, err := ParseTaskID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SubTaskID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubTaskID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *TaskTemplateID) UnmarshalText(b []byte) error {
	parsed, err := ParseTaskTemplateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *TemplateSubTaskID) UnmarshalText(b []byte) error {
	parsed, err := ParseTemplateSubTaskID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PropertyID) UnmarshalText(b []byte) error {
	parsed, err := ParsePropertyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SelectOptionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSelectOptionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SubjectID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubjectID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *OrganizationID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrganizationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
