package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	svc    *Service
	ctx    context.Context
	caller id.UserID
}

func (s *ServiceSuite) SetupTest() {
	store := storage.New()
	s.svc = New(repository.New(store))
	s.caller = id.UserID(uuid.New())
	s.ctx = requestcontext.WithUserID(context.Background(), s.caller)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) buildWard() (id.WardID, id.RoomID, id.BedID) {
	ward, err := s.svc.CreateWard(s.ctx, "North")
	s.Require().NoError(err)
	room, err := s.svc.CreateRoom(s.ctx, ward.ID, "101")
	s.Require().NoError(err)
	bed, err := s.svc.CreateBed(s.ctx, room.ID, "Bed 1")
	s.Require().NoError(err)
	return ward.ID, room.ID, bed.ID
}

func (s *ServiceSuite) admit(name string) id.PatientID {
	patient, err := s.svc.CreatePatient(s.ctx, name, "")
	s.Require().NoError(err)
	return patient.ID
}

func (s *ServiceSuite) TestRoomOverviewTracksOccupancy() {
	wardID, roomID, bedID := s.buildWard()
	patientID := s.admit("Maier")

	overviews, err := s.svc.GetRoomOverviewsByWard(s.ctx, wardID)
	s.Require().NoError(err)
	s.Require().Len(overviews, 1)
	s.Require().Len(overviews[0].Beds, 1)
	s.Nil(overviews[0].Beds[0].Occupant)

	_, err = s.svc.AssignBed(s.ctx, patientID, bedID)
	s.Require().NoError(err)

	overviews, err = s.svc.GetRoomOverviewsByWard(s.ctx, wardID)
	s.Require().NoError(err)
	occupant := overviews[0].Beds[0].Occupant
	s.Require().NotNil(occupant)
	s.Equal(patientID, occupant.ID)
	s.Equal(roomID, overviews[0].Room.ID)

	_, err = s.svc.DischargePatient(s.ctx, patientID)
	s.Require().NoError(err)

	overviews, err = s.svc.GetRoomOverviewsByWard(s.ctx, wardID)
	s.Require().NoError(err)
	s.Nil(overviews[0].Beds[0].Occupant)
}

func (s *ServiceSuite) TestWardOverviewCountsBedsAndTasks() {
	wardID, _, bedID := s.buildWard()
	patientID := s.admit("Huber")
	_, err := s.svc.AssignBed(s.ctx, patientID, bedID)
	s.Require().NoError(err)

	for _, status := range []domain.TaskStatus{
		domain.TaskStatusTodo, domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone,
	} {
		_, err := s.svc.CreateTask(s.ctx, CreateTaskInput{
			PatientID: patientID,
			Name:      "check vitals",
			Status:    status,
		})
		s.Require().NoError(err)
	}

	overviews, err := s.svc.GetWardOverviews(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(overviews, 1)
	s.Equal(wardID, overviews[0].Ward.ID)
	s.Equal(1, overviews[0].BedCount)
	s.Equal(2, overviews[0].TasksTodo)
	s.Equal(1, overviews[0].TasksInProgress)
	s.Equal(1, overviews[0].TasksDone)
}

func (s *ServiceSuite) TestCreateTaskRequiresCaller() {
	patientID := s.admit("Maier")
	_, err := s.svc.CreateTask(context.Background(), CreateTaskInput{
		PatientID: patientID,
		Name:      "check vitals",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestTaskRoundTripWithSubTasks() {
	patientID := s.admit("Maier")

	created, err := s.svc.CreateTask(s.ctx, CreateTaskInput{
		PatientID:    patientID,
		Name:         "prepare discharge",
		SubTaskNames: []string{"write letter", "order transport"},
	})
	s.Require().NoError(err)
	s.Equal(s.caller, created.Task.CreatorID)
	s.Equal(domain.TaskStatusTodo, created.Task.Status)
	s.Require().Len(created.SubTasks, 2)

	_, err = s.svc.CompleteSubTask(s.ctx, created.SubTasks[0].ID)
	s.Require().NoError(err)

	got, err := s.svc.GetTask(s.ctx, created.Task.ID)
	s.Require().NoError(err)
	s.True(got.SubTasks[0].IsDone)
	s.False(got.SubTasks[1].IsDone)

	_, err = s.svc.AssignTask(s.ctx, created.Task.ID, s.caller)
	s.Require().NoError(err)
	mine, err := s.svc.GetTasksAssignedToCaller(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(created.Task.ID, mine[0].Task.ID)
}

func (s *ServiceSuite) TestPatientListPartitionsByOccupancy() {
	wardID, _, bedID := s.buildWard()

	active := s.admit("In bed")
	_, err := s.svc.AssignBed(s.ctx, active, bedID)
	s.Require().NoError(err)
	unassigned := s.admit("Waiting")
	discharged := s.admit("Gone")
	_, err = s.svc.DischargePatient(s.ctx, discharged)
	s.Require().NoError(err)

	list, err := s.svc.GetPatientList(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(list.Active, 1)
	s.Equal(active, list.Active[0].ID)
	s.Require().Len(list.Unassigned, 1)
	s.Equal(unassigned, list.Unassigned[0].ID)
	s.Require().Len(list.Discharged, 1)
	s.Equal(discharged, list.Discharged[0].ID)

	s.Run("ward filter narrows active only", func() {
		otherWard, err := s.svc.CreateWard(s.ctx, "South")
		s.Require().NoError(err)
		filtered, err := s.svc.GetPatientList(s.ctx, &otherWard.ID)
		s.Require().NoError(err)
		s.Empty(filtered.Active)
		s.Len(filtered.Unassigned, 1)
		s.Len(filtered.Discharged, 1)

		filtered, err = s.svc.GetPatientList(s.ctx, &wardID)
		s.Require().NoError(err)
		s.Len(filtered.Active, 1)
	})
}

func (s *ServiceSuite) TestRecentPatientsOrderedAndCapped() {
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	var last id.PatientID
	for i := 0; i < 12; i++ {
		ctx := requestcontext.WithTime(s.ctx, base.Add(time.Duration(i)*time.Minute))
		patient, err := s.svc.CreatePatient(ctx, "Patient", "")
		s.Require().NoError(err)
		last = patient.ID
	}

	recent, err := s.svc.GetRecentPatients(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recent, 10)
	s.Equal(last, recent[0].ID)
	s.True(recent[0].UpdatedAt.After(recent[9].UpdatedAt))

	s.Run("discharged patients drop out", func() {
		_, err := s.svc.DischargePatient(s.ctx, last)
		s.Require().NoError(err)
		recent, err := s.svc.GetRecentPatients(s.ctx)
		s.Require().NoError(err)
		s.NotEqual(last, recent[0].ID)
	})
}

func (s *ServiceSuite) TestPatientDetailsResolvesLocation() {
	wardID, roomID, bedID := s.buildWard()
	patientID := s.admit("Maier")
	_, err := s.svc.AssignBed(s.ctx, patientID, bedID)
	s.Require().NoError(err)

	details, err := s.svc.GetPatientDetails(s.ctx, patientID)
	s.Require().NoError(err)
	s.Require().NotNil(details.Location)
	s.Equal(bedID, details.Location.Bed.ID)
	s.Equal(roomID, details.Location.Room.ID)
	s.Equal(wardID, details.Location.Ward.ID)
}

func (s *ServiceSuite) TestSingleSelectAttachJoinsProperty() {
	patientID := s.admit("Maier")
	property, err := s.svc.CreateProperty(s.ctx, repository.CreatePropertyParams{
		SubjectType: domain.SubjectTypePatient,
		FieldType:   domain.FieldTypeSingleSelect,
		Name:        "Diet",
		Options:     []repository.OptionInput{{Name: "vegetarian"}, {Name: "vegan"}},
	})
	s.Require().NoError(err)
	optionID := property.SelectData.Options[1].ID

	_, err = s.svc.AttachValue(s.ctx, property.ID, domain.SubjectTypePatient,
		id.SubjectID(patientID), domain.SingleSelectValue(optionID))
	s.Require().NoError(err)

	entries, err := s.svc.GetAttachedValues(s.ctx, domain.SubjectTypePatient, id.SubjectID(patientID))
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Diet", entries[0].Property.Name)
	s.Equal(domain.SingleSelectValue(optionID), entries[0].Value.Value)
}

func (s *ServiceSuite) TestAttachValueRejectsMissingSubject() {
	property, err := s.svc.CreateProperty(s.ctx, repository.CreatePropertyParams{
		SubjectType: domain.SubjectTypePatient,
		FieldType:   domain.FieldTypeText,
		Name:        "Allergies",
	})
	s.Require().NoError(err)

	_, err = s.svc.AttachValue(s.ctx, property.ID, domain.SubjectTypePatient,
		id.SubjectID(uuid.New()), domain.TextValue("nuts"))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreateTaskFromTemplate() {
	patientID := s.admit("Maier")
	template, err := s.svc.CreateTemplate(s.ctx, nil, "Admission", "standard intake", false)
	s.Require().NoError(err)
	for _, name := range []string{"take bloods", "measure weight"} {
		_, err := s.svc.CreateTemplateSubTask(s.ctx, template.ID, name)
		s.Require().NoError(err)
	}

	task, err := s.svc.CreateTaskFromTemplate(s.ctx, template.ID, patientID)
	s.Require().NoError(err)
	s.Equal("Admission", task.Task.Name)
	s.Equal(patientID, task.Task.PatientID)
	s.Require().Len(task.SubTasks, 2)
	s.False(task.SubTasks[0].IsDone)
}

func (s *ServiceSuite) TestMissingIDsSurfaceAsNotFound() {
	_, err := s.svc.GetWard(s.ctx, id.WardID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.GetRoomOverviewsByWard(s.ctx, id.WardID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.GetPatientDetails(s.ctx, id.PatientID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestNamesAreValidatedOnWrite() {
	s.Run("empty names are rejected everywhere", func() {
		_, err := s.svc.CreateWard(s.ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.svc.CreatePatient(s.ctx, "   ", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.svc.CreateTemplate(s.ctx, nil, "", "", false)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.svc.CreateProperty(s.ctx, repository.CreatePropertyParams{
			SubjectType: domain.SubjectTypePatient,
			FieldType:   domain.FieldTypeText,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		patientID := s.admit("Maier")
		_, err = s.svc.CreateTask(s.ctx, CreateTaskInput{PatientID: patientID, Name: " "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("overlong names are rejected", func() {
		_, err := s.svc.CreateWard(s.ctx, strings.Repeat("x", 256))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("renames are validated too", func() {
		ward, err := s.svc.CreateWard(s.ctx, "North")
		s.Require().NoError(err)
		_, err = s.svc.UpdateWard(s.ctx, ward.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("surrounding whitespace is trimmed", func() {
		ward, err := s.svc.CreateWard(s.ctx, "  South  ")
		s.Require().NoError(err)
		s.Equal("South", ward.Name)
	})
}

func (s *ServiceSuite) TestWardDetailsCollectionsNeverNil() {
	ward, err := s.svc.CreateWard(s.ctx, "North")
	s.Require().NoError(err)

	details, err := s.svc.GetWardDetails(s.ctx, ward.ID)
	s.Require().NoError(err)
	s.NotNil(details.Rooms)
	s.NotNil(details.Templates)
	s.Empty(details.Rooms)
	s.Empty(details.Templates)

	_, err = s.svc.CreateRoom(s.ctx, ward.ID, "101")
	s.Require().NoError(err)

	details, err = s.svc.GetWardDetails(s.ctx, ward.ID)
	s.Require().NoError(err)
	s.Require().Len(details.Rooms, 1)
	s.NotNil(details.Rooms[0].Beds)
	s.Empty(details.Rooms[0].Beds)
}
