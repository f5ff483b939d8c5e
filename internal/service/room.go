package service

import (
	"context"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

// RoomOverview is the ward-screen row for one room: every bed with its
// current occupant, if any.
type RoomOverview struct {
	Room domain.Room   `json:"room"`
	Beds []BedOverview `json:"beds"`
}

// BedOverview shows a bed together with the patient occupying it. Occupant is
// nil for a free bed. Task counts cover the occupant's tasks.
type BedOverview struct {
	Bed             domain.Bed      `json:"bed"`
	Occupant        *domain.Patient `json:"occupant,omitempty"`
	TasksTodo       int             `json:"tasks_todo"`
	TasksInProgress int             `json:"tasks_in_progress"`
	TasksDone       int             `json:"tasks_done"`
}

// GetRoom returns a single room by id.
func (s *Service) GetRoom(ctx context.Context, roomID id.RoomID) (*domain.Room, error) {
	room, err := s.repos.Rooms.Find(ctx, roomID)
	if err != nil {
		return nil, coerce(err)
	}
	return room, nil
}

// GetRoomOverviewsByWard returns every room of the ward with per-bed
// occupancy. The ward must exist.
func (s *Service) GetRoomOverviewsByWard(ctx context.Context, wardID id.WardID) ([]RoomOverview, error) {
	if _, err := s.repos.Wards.Find(ctx, wardID); err != nil {
		return nil, coerce(err)
	}
	overviews := make([]RoomOverview, 0)
	for _, room := range s.repos.Rooms.FindByWard(ctx, wardID) {
		roomID := room.ID
		overview := RoomOverview{Room: room, Beds: make([]BedOverview, 0)}
		for _, bed := range s.repos.Beds.FindMany(ctx, &roomID) {
			row := BedOverview{Bed: bed}
			if occupant, ok := s.occupantOf(ctx, bed.ID); ok {
				row.Occupant = occupant
				row.TasksTodo, row.TasksInProgress, row.TasksDone = s.taskCountsOf(ctx, occupant.ID)
			}
			overview.Beds = append(overview.Beds, row)
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// CreateRoom creates a room inside an existing ward.
func (s *Service) CreateRoom(ctx context.Context, wardID id.WardID, name string) (*domain.Room, error) {
	room, err := s.repos.Rooms.Create(ctx, wardID, name)
	if err != nil {
		return nil, coerce(err)
	}
	s.logger.InfoContext(ctx, "room created", "room_id", room.ID, "ward_id", wardID)
	return room, nil
}

// UpdateRoom renames a room.
func (s *Service) UpdateRoom(ctx context.Context, roomID id.RoomID, name string) (*domain.Room, error) {
	room, err := s.repos.Rooms.Update(ctx, roomID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return room, nil
}

// DeleteRoom removes a room and its beds; occupying patients are unassigned.
func (s *Service) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	if err := s.repos.Rooms.Delete(ctx, roomID); err != nil {
		return coerce(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues("room").Inc()
	}
	s.logger.InfoContext(ctx, "room deleted", "room_id", roomID)
	return nil
}
