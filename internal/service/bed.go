package service

import (
	"context"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

// GetBed returns a single bed by id.
func (s *Service) GetBed(ctx context.Context, bedID id.BedID) (*domain.Bed, error) {
	bed, err := s.repos.Beds.Find(ctx, bedID)
	if err != nil {
		return nil, coerce(err)
	}
	return bed, nil
}

// GetBeds returns all beds, optionally restricted to one room. The room, when
// given, must exist.
func (s *Service) GetBeds(ctx context.Context, roomID *id.RoomID) ([]domain.Bed, error) {
	if roomID != nil {
		if _, err := s.repos.Rooms.Find(ctx, *roomID); err != nil {
			return nil, coerce(err)
		}
	}
	return s.repos.Beds.FindMany(ctx, roomID), nil
}

// CreateBed creates a bed inside an existing room.
func (s *Service) CreateBed(ctx context.Context, roomID id.RoomID, name string) (*domain.Bed, error) {
	bed, err := s.repos.Beds.Create(ctx, roomID, name)
	if err != nil {
		return nil, coerce(err)
	}
	s.logger.InfoContext(ctx, "bed created", "bed_id", bed.ID, "room_id", roomID)
	return bed, nil
}

// UpdateBed renames a bed and optionally moves it to another room.
func (s *Service) UpdateBed(ctx context.Context, bedID id.BedID, name string, roomID *id.RoomID) (*domain.Bed, error) {
	bed, err := s.repos.Beds.Update(ctx, bedID, name, roomID)
	if err != nil {
		return nil, coerce(err)
	}
	return bed, nil
}

// DeleteBed removes a bed; an occupying patient is unassigned, not deleted.
func (s *Service) DeleteBed(ctx context.Context, bedID id.BedID) error {
	if err := s.repos.Beds.Delete(ctx, bedID); err != nil {
		return coerce(err)
	}
	s.logger.InfoContext(ctx, "bed deleted", "bed_id", bedID)
	return nil
}
