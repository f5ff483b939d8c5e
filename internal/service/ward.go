package service

import (
	"context"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
)

// WardDetails is the fully expanded ward: its rooms with their beds, plus the
// task templates shared within the ward.
type WardDetails struct {
	Ward      domain.Ward           `json:"ward"`
	Rooms     []RoomWithBeds        `json:"rooms"`
	Templates []domain.TaskTemplate `json:"task_templates"`
}

// RoomWithBeds pairs a room with its beds.
type RoomWithBeds struct {
	Room domain.Room  `json:"room"`
	Beds []domain.Bed `json:"beds"`
}

// WardOverview is the dashboard row for one ward: how many beds it has and
// how its patients' tasks are distributed over the three states.
type WardOverview struct {
	Ward            domain.Ward `json:"ward"`
	BedCount        int         `json:"bed_count"`
	TasksTodo       int         `json:"tasks_todo"`
	TasksInProgress int         `json:"tasks_in_progress"`
	TasksDone       int         `json:"tasks_done"`
}

// GetWard returns a single ward by id.
func (s *Service) GetWard(ctx context.Context, wardID id.WardID) (*domain.Ward, error) {
	ward, err := s.repos.Wards.Find(ctx, wardID)
	if err != nil {
		return nil, coerce(err)
	}
	return ward, nil
}

// GetWards returns all wards in insertion order.
func (s *Service) GetWards(ctx context.Context) ([]domain.Ward, error) {
	return s.repos.Wards.FindAll(ctx), nil
}

// GetWardDetails expands a ward into its room/bed hierarchy and its shared
// task templates.
func (s *Service) GetWardDetails(ctx context.Context, wardID id.WardID) (*WardDetails, error) {
	ward, err := s.repos.Wards.Find(ctx, wardID)
	if err != nil {
		return nil, coerce(err)
	}
	details := &WardDetails{
		Ward:      *ward,
		Rooms:     make([]RoomWithBeds, 0),
		Templates: make([]domain.TaskTemplate, 0),
	}
	for _, room := range s.repos.Rooms.FindByWard(ctx, wardID) {
		roomID := room.ID
		details.Rooms = append(details.Rooms, RoomWithBeds{
			Room: room,
			Beds: append(make([]domain.Bed, 0), s.repos.Beds.FindMany(ctx, &roomID)...),
		})
	}
	wid := wardID
	details.Templates = append(details.Templates,
		s.repos.Templates.FindMany(ctx, repository.TemplateFilter{WardID: &wid})...)
	return details, nil
}

// GetWardOverviews returns the dashboard rows for every ward. Task counts
// cover the tasks of every patient currently assigned to a bed of the ward;
// unassigned patients belong to no ward and are not counted anywhere.
func (s *Service) GetWardOverviews(ctx context.Context) ([]WardOverview, error) {
	overviews := make([]WardOverview, 0)
	for _, ward := range s.repos.Wards.FindAll(ctx) {
		overview := WardOverview{Ward: ward}
		for _, room := range s.repos.Rooms.FindByWard(ctx, ward.ID) {
			roomID := room.ID
			for _, bed := range s.repos.Beds.FindMany(ctx, &roomID) {
				overview.BedCount++
				occupant, ok := s.occupantOf(ctx, bed.ID)
				if !ok {
					continue
				}
				todo, inProgress, done := s.taskCountsOf(ctx, occupant.ID)
				overview.TasksTodo += todo
				overview.TasksInProgress += inProgress
				overview.TasksDone += done
			}
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// CreateWard creates a ward under the bootstrap organization.
func (s *Service) CreateWard(ctx context.Context, name string) (*domain.Ward, error) {
	ward, err := s.repos.Wards.Create(ctx, name)
	if err != nil {
		return nil, coerce(err)
	}
	if s.metrics != nil {
		s.metrics.WardsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "ward created", "ward_id", ward.ID)
	return ward, nil
}

// UpdateWard renames a ward.
func (s *Service) UpdateWard(ctx context.Context, wardID id.WardID, name string) (*domain.Ward, error) {
	ward, err := s.repos.Wards.Update(ctx, wardID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return ward, nil
}

// DeleteWard removes a ward and everything it owns: rooms, beds, and the
// ward's shared task templates. Patients occupying the deleted beds stay
// admitted and become unassigned.
func (s *Service) DeleteWard(ctx context.Context, wardID id.WardID) error {
	if err := s.repos.Wards.Delete(ctx, wardID); err != nil {
		return coerce(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues("ward").Inc()
	}
	s.logger.InfoContext(ctx, "ward deleted", "ward_id", wardID)
	return nil
}

func (s *Service) occupantOf(ctx context.Context, bedID id.BedID) (*domain.Patient, bool) {
	for _, patient := range s.repos.Patients.FindAll(ctx) {
		if !patient.Discharged && patient.BedID != nil && *patient.BedID == bedID {
			p := patient
			return &p, true
		}
	}
	return nil, false
}

func (s *Service) taskCountsOf(ctx context.Context, patientID id.PatientID) (todo, inProgress, done int) {
	for _, task := range s.repos.Tasks.FindByPatient(ctx, patientID) {
		switch task.Status {
		case domain.TaskStatusTodo:
			todo++
		case domain.TaskStatusInProgress:
			inProgress++
		case domain.TaskStatusDone:
			done++
		}
	}
	return todo, inProgress, done
}
