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

// Rooms is the repository for rooms within the ward aggregate.
type Rooms struct {
	store *storage.Store
}

func (r *Rooms) Find(_ context.Context, roomID id.RoomID) (*domain.Room, error) {
	var out domain.Room
	err := r.store.View(func(tx *storage.Tx) error {
		room, ok := tx.Rooms().Get(roomID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Rooms) FindByWard(_ context.Context, wardID id.WardID) []domain.Room {
	var out []domain.Room
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Rooms().Where(func(room domain.Room) bool { return room.WardID == wardID })
		return nil
	})
	return out
}

func (r *Rooms) Create(ctx context.Context, wardID id.WardID, name string) (*domain.Room, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	room := domain.Room{
		ID:        id.RoomID(uuid.New()),
		WardID:    wardID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Wards().Get(wardID); !ok {
			return fmt.Errorf("ward %s: %w", wardID, sentinel.ErrNotFound)
		}
		tx.Rooms().Insert(room.ID, room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Rooms) Update(ctx context.Context, roomID id.RoomID, name string) (*domain.Room, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var out domain.Room
	err = r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Rooms().ReplaceKey(roomID, func(room domain.Room) domain.Room {
			room.Name = name
			room.UpdatedAt = now
			out = room
			return room
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

// Delete removes the room, its beds, and unassigns any patients occupying
// those beds.
func (r *Rooms) Delete(ctx context.Context, roomID id.RoomID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Rooms().Get(roomID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindRoom, uuid.UUID(roomID), now)
		return nil
	})
}
