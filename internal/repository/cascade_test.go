package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
)

type CascadeSuite struct {
	suite.Suite
	store *storage.Store
	repos *Repositories
	ctx   context.Context
}

func (s *CascadeSuite) SetupTest() {
	s.store = storage.New()
	s.repos = New(s.store)
	s.ctx = context.Background()
}

func TestCascadeSuite(t *testing.T) {
	suite.Run(t, new(CascadeSuite))
}

// TestWardCascadeCompleteness: deleting a ward with rooms and beds leaves no
// room or bed rows behind, and patients occupying those beds end up
// unassigned but alive.
func (s *CascadeSuite) TestWardCascadeCompleteness() {
	ward, err := s.repos.Wards.Create(s.ctx, "North")
	s.Require().NoError(err)

	var bedIDs []id.BedID
	for _, roomName := range []string{"101", "102"} {
		room, err := s.repos.Rooms.Create(s.ctx, ward.ID, roomName)
		s.Require().NoError(err)
		for _, bedName := range []string{"Bed 1", "Bed 2", "Bed 3"} {
			bed, err := s.repos.Beds.Create(s.ctx, room.ID, bedName)
			s.Require().NoError(err)
			bedIDs = append(bedIDs, bed.ID)
		}
	}

	patient, err := s.repos.Patients.Create(s.ctx, "Maier", "")
	s.Require().NoError(err)
	_, err = s.repos.Patients.AssignBed(s.ctx, patient.ID, bedIDs[0])
	s.Require().NoError(err)

	wardTemplate, err := s.repos.Templates.Create(s.ctx, &ward.ID, "Admission", "", id.UserID(uuid.New()), true)
	s.Require().NoError(err)
	_, err = s.repos.Templates.CreateSubTask(s.ctx, wardTemplate.ID, "Record allergies")
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Wards.Delete(s.ctx, ward.ID))

	_ = s.store.View(func(tx *storage.Tx) error {
		s.Zero(tx.Rooms().Len(), "rooms must be gone")
		s.Zero(tx.Beds().Len(), "beds must be gone")
		s.Zero(tx.Templates().Len(), "ward templates must be gone")
		s.Zero(tx.TemplateSubTasks().Len(), "template subtasks must be gone")
		return nil
	})

	survivor, err := s.repos.Patients.Find(s.ctx, patient.ID)
	s.Require().NoError(err, "patient must survive the cascade")
	s.Nil(survivor.BedID, "patient must be unassigned")
}

func (s *CascadeSuite) TestRoomDeleteUnassignsOccupants() {
	ward, err := s.repos.Wards.Create(s.ctx, "North")
	s.Require().NoError(err)
	room, err := s.repos.Rooms.Create(s.ctx, ward.ID, "101")
	s.Require().NoError(err)
	bed, err := s.repos.Beds.Create(s.ctx, room.ID, "Bed 1")
	s.Require().NoError(err)
	patient, err := s.repos.Patients.Create(s.ctx, "Maier", "")
	s.Require().NoError(err)
	_, err = s.repos.Patients.AssignBed(s.ctx, patient.ID, bed.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Rooms.Delete(s.ctx, room.ID))

	survivor, err := s.repos.Patients.Find(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Nil(survivor.BedID)

	_, err = s.repos.Beds.Find(s.ctx, bed.ID)
	s.Require().Error(err)
}

func (s *CascadeSuite) TestPatientDeleteRemovesTaskTree() {
	patient, err := s.repos.Patients.Create(s.ctx, "Maier", "")
	s.Require().NoError(err)
	task, subTasks, err := s.repos.Tasks.Create(s.ctx, CreateTaskParams{
		PatientID:    patient.ID,
		Name:         "Prep discharge",
		Status:       domain.TaskStatusTodo,
		CreatorID:    id.UserID(uuid.New()),
		SubTaskNames: []string{"papers", "signatures"},
	})
	s.Require().NoError(err)
	s.Require().Len(subTasks, 2)

	property, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
		SubjectType: domain.SubjectTypeTask,
		FieldType:   domain.FieldTypeText,
		Name:        "Handover note",
	})
	s.Require().NoError(err)
	_, err = s.repos.Values.Attach(s.ctx, property.ID, domain.SubjectTypeTask,
		id.SubjectID(task.ID), domain.TextValue("call pharmacy"))
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Patients.Delete(s.ctx, patient.ID))

	_ = s.store.View(func(tx *storage.Tx) error {
		s.Zero(tx.Tasks().Len())
		s.Zero(tx.SubTasks().Len())
		s.Zero(tx.Values().Len(), "values attached to cascaded tasks must be purged")
		return nil
	})
}

// TestPropertyDeletePurgesValues pins the declarative-graph behavior: the
// property cascade removes attached value rows instead of leaving danglers.
func (s *CascadeSuite) TestPropertyDeletePurgesValues() {
	patient, err := s.repos.Patients.Create(s.ctx, "Maier", "")
	s.Require().NoError(err)
	property, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
		SubjectType: domain.SubjectTypePatient,
		FieldType:   domain.FieldTypeCheckbox,
		Name:        "Fall risk",
	})
	s.Require().NoError(err)
	_, err = s.repos.Values.Attach(s.ctx, property.ID, domain.SubjectTypePatient,
		id.SubjectID(patient.ID), domain.CheckboxValue(true))
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Properties.Delete(s.ctx, property.ID))

	values := s.repos.Values.FindBySubject(s.ctx, domain.SubjectTypePatient, id.SubjectID(patient.ID))
	s.Empty(values)
}
