package domain

import (
	"time"

	id "wardflow/pkg/domain"
)

// Patient is the admission aggregate root; it owns Tasks.
//
// State machine: {admitted, discharged}, freely reversible. While admitted,
// the patient carries an occupancy sub-state {assigned(bedId), unassigned}.
//
// Invariants:
//   - BedID, when set, references an existing bed
//   - for any bed, at most one non-discharged patient references it
//     (enforced by the repository with last-writer-wins reassignment)
//   - a discharged patient never holds a bed
//   - readmission does not restore a previously held bed
type Patient struct {
	ID         id.PatientID `json:"id"`
	Name       string       `json:"name"`
	Notes      string       `json:"notes"`
	Discharged bool         `json:"discharged"`
	BedID      *id.BedID    `json:"bed_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsAssigned reports whether the patient currently occupies a bed.
func (p *Patient) IsAssigned() bool {
	return p.BedID != nil
}

// ApplyAssignBed points the patient at a bed. Clearing the previous occupant
// of that bed is the repository's job; the entity only knows its own side of
// the relation.
func (p *Patient) ApplyAssignBed(bedID id.BedID, now time.Time) {
	b := bedID
	p.BedID = &b
	p.UpdatedAt = now
}

// ApplyUnassignBed clears the occupancy reference. Idempotent.
func (p *Patient) ApplyUnassignBed(now time.Time) {
	p.BedID = nil
	p.UpdatedAt = now
}

// ApplyDischarge transitions to discharged and releases the bed. Idempotent.
func (p *Patient) ApplyDischarge(now time.Time) {
	p.Discharged = true
	p.BedID = nil
	p.UpdatedAt = now
}

// ApplyReadmit transitions back to admitted. The patient comes back
// unassigned; the bed held before discharge is not restored. Readmitting an
// already-admitted patient changes nothing.
func (p *Patient) ApplyReadmit(now time.Time) {
	if !p.Discharged {
		return
	}
	p.Discharged = false
	p.UpdatedAt = now
}
