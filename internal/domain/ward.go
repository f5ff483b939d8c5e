package domain

import (
	"strings"
	"time"

	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// Ward is the aggregate root of the physical hierarchy: Ward owns Rooms,
// Rooms own Beds.
//
// Invariants:
//   - Name is non-empty and at most 255 characters
//   - OrganizationID references an existing organization
//   - Deleting a ward cascades to its rooms, beds, and ward-scoped task
//     templates; patients occupying those beds are unassigned, not deleted
type Ward struct {
	ID             id.WardID         `json:"id"`
	OrganizationID id.OrganizationID `json:"organization_id"`
	Name           string            `json:"name"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ValidateName is shared by every named entity (ward, room, bed, task,
// template, property): trimmed, non-empty, bounded.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	if len(name) > 255 {
		return "", dErrors.New(dErrors.CodeValidation, "name must be 255 characters or less")
	}
	return name, nil
}

// Room belongs to exactly one ward.
type Room struct {
	ID        id.RoomID `json:"id"`
	WardID    id.WardID `json:"ward_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bed belongs to exactly one room. Occupancy is not stored here: a patient
// holds a weak reference to the bed, and at most one non-discharged patient
// may reference a given bed at any time.
type Bed struct {
	ID        id.BedID  `json:"id"`
	RoomID    id.RoomID `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
