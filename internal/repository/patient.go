package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Patients is the repository for the patient aggregate root. It owns the bed
// occupancy invariant: for any bed, at most one non-discharged patient
// references it.
type Patients struct {
	store *storage.Store
}

func (r *Patients) Find(_ context.Context, patientID id.PatientID) (*domain.Patient, error) {
	var out domain.Patient
	err := r.store.View(func(tx *storage.Tx) error {
		p, ok := tx.Patients().Get(patientID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Patients) FindAll(_ context.Context) []domain.Patient {
	var out []domain.Patient
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Patients().All()
		return nil
	})
	return out
}

func (r *Patients) Create(ctx context.Context, name, notes string) (*domain.Patient, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	patient := domain.Patient{
		ID:        id.PatientID(uuid.New()),
		Name:      name,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		tx.Patients().Insert(patient.ID, patient)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// Update applies a partial update; nil fields are left untouched.
func (r *Patients) Update(ctx context.Context, patientID id.PatientID, name, notes *string) (*domain.Patient, error) {
	if name != nil {
		valid, err := domain.ValidateName(*name)
		if err != nil {
			return nil, err
		}
		name = &valid
	}
	now := requestcontext.Now(ctx)
	var out domain.Patient
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Patients().ReplaceKey(patientID, func(p domain.Patient) domain.Patient {
			if name != nil {
				p.Name = *name
			}
			if notes != nil {
				p.Notes = *notes
			}
			p.UpdatedAt = now
			out = p
			return p
		})
		if !ok {
			return sentinel.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignBed points the patient at the bed and clears the reference on
// whichever other patient held it: last-writer-wins, not an error. The scan
// over all patients is linear; fine at ward scale and kept deliberately
// simple over a reverse index.
func (r *Patients) AssignBed(ctx context.Context, patientID id.PatientID, bedID id.BedID) (*domain.Patient, error) {
	now := requestcontext.Now(ctx)
	var out domain.Patient
	err := r.store.Update(func(tx *storage.Tx) error {
		p, ok := tx.Patients().Get(patientID)
		if !ok {
			return fmt.Errorf("patient %s: %w", patientID, sentinel.ErrNotFound)
		}
		if _, ok := tx.Beds().Get(bedID); !ok {
			return fmt.Errorf("bed %s: %w", bedID, sentinel.ErrNotFound)
		}
		if p.Discharged {
			return dErrors.New(dErrors.CodeInvariantViolation,
				"cannot assign a bed to a discharged patient")
		}
		tx.Patients().Replace(
			func(other domain.Patient) bool {
				return other.ID != patientID && !other.Discharged &&
					other.BedID != nil && *other.BedID == bedID
			},
			func(other domain.Patient) domain.Patient {
				other.ApplyUnassignBed(now)
				return other
			},
		)
		p.ApplyAssignBed(bedID, now)
		tx.Patients().Insert(p.ID, p)
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UnassignBed clears the occupancy reference. Idempotent.
func (r *Patients) UnassignBed(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	return r.transition(ctx, patientID, (*domain.Patient).ApplyUnassignBed)
}

// Discharge transitions the patient to discharged and releases the bed.
// Idempotent.
func (r *Patients) Discharge(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	return r.transition(ctx, patientID, (*domain.Patient).ApplyDischarge)
}

// Readmit transitions the patient back to admitted, unassigned. Readmitting
// an admitted patient changes nothing and does not error.
func (r *Patients) Readmit(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	return r.transition(ctx, patientID, (*domain.Patient).ApplyReadmit)
}

// Delete removes the patient, its tasks and their subtasks, and any property
// values attached to the patient or those tasks.
func (r *Patients) Delete(ctx context.Context, patientID id.PatientID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Patients().Get(patientID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindPatient, uuid.UUID(patientID), now)
		return nil
	})
}

func (r *Patients) transition(ctx context.Context, patientID id.PatientID, apply func(p *domain.Patient, now time.Time)) (*domain.Patient, error) {
	now := requestcontext.Now(ctx)
	var out domain.Patient
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Patients().ReplaceKey(patientID, func(p domain.Patient) domain.Patient {
			apply(&p, now)
			out = p
			return p
		})
		if !ok {
			return sentinel.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
