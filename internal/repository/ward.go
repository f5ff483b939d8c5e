package repository

import (
	"context"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Wards is the repository for the ward aggregate root.
type Wards struct {
	store *storage.Store
}

func (r *Wards) Find(_ context.Context, wardID id.WardID) (*domain.Ward, error) {
	var out domain.Ward
	err := r.store.View(func(tx *storage.Tx) error {
		ward, ok := tx.Wards().Get(wardID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = ward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Wards) FindAll(_ context.Context) []domain.Ward {
	var out []domain.Ward
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Wards().All()
		return nil
	})
	return out
}

// Create stores a new ward under the bootstrap organization. Tenant scoping
// is not enforced, so the first seeded organization serves as the owner; a
// ward created in an empty store carries a nil organization reference.
func (r *Wards) Create(ctx context.Context, name string) (*domain.Ward, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	ward := domain.Ward{
		ID:        id.WardID(uuid.New()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if orgs := tx.Organizations().All(); len(orgs) > 0 {
			ward.OrganizationID = orgs[0].ID
		}
		tx.Wards().Insert(ward.ID, ward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ward, nil
}

func (r *Wards) Update(ctx context.Context, wardID id.WardID, name string) (*domain.Ward, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var out domain.Ward
	err = r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Wards().ReplaceKey(wardID, func(w domain.Ward) domain.Ward {
			w.Name = name
			w.UpdatedAt = now
			out = w
			return w
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

// Delete removes the ward and walks the ownership graph: rooms and their beds
// are deleted, occupying patients are unassigned, ward-scoped templates are
// deleted with their subtasks.
func (r *Wards) Delete(ctx context.Context, wardID id.WardID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Wards().Get(wardID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindWard, uuid.UUID(wardID), now)
		return nil
	})
}
