package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Beds is the repository for beds within the ward aggregate.
type Beds struct {
	store *storage.Store
}

func (r *Beds) Find(_ context.Context, bedID id.BedID) (*domain.Bed, error) {
	var out domain.Bed
	err := r.store.View(func(tx *storage.Tx) error {
		bed, ok := tx.Beds().Get(bedID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = bed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindMany returns all beds, or only the beds of one room when a filter is
// given.
func (r *Beds) FindMany(_ context.Context, roomID *id.RoomID) []domain.Bed {
	var out []domain.Bed
	_ = r.store.View(func(tx *storage.Tx) error {
		if roomID == nil {
			out = tx.Beds().All()
			return nil
		}
		out = tx.Beds().Where(func(b domain.Bed) bool { return b.RoomID == *roomID })
		return nil
	})
	return out
}

func (r *Beds) Create(ctx context.Context, roomID id.RoomID, name string) (*domain.Bed, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	bed := domain.Bed{
		ID:        id.BedID(uuid.New()),
		RoomID:    roomID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Rooms().Get(roomID); !ok {
			return fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
		}
		tx.Beds().Insert(bed.ID, bed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

// Update renames the bed and optionally moves it to another room.
func (r *Beds) Update(ctx context.Context, bedID id.BedID, name string, roomID *id.RoomID) (*domain.Bed, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var out domain.Bed
	err = r.store.Update(func(tx *storage.Tx) error {
		if roomID != nil {
			if _, ok := tx.Rooms().Get(*roomID); !ok {
				return fmt.Errorf("room %s: %w", *roomID, sentinel.ErrNotFound)
			}
		}
		ok := tx.Beds().ReplaceKey(bedID, func(b domain.Bed) domain.Bed {
			b.Name = name
			if roomID != nil {
				b.RoomID = *roomID
			}
			b.UpdatedAt = now
			out = b
			return b
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

// Delete removes the bed and unassigns its occupant, if any. The patient row
// itself survives.
func (r *Beds) Delete(ctx context.Context, bedID id.BedID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Beds().Get(bedID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindBed, uuid.UUID(bedID), now)
		return nil
	})
}
