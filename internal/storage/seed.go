package storage

import (
	"time"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

// Seed installs the built-in fixture: one organization, two wards with rooms
// and beds, a mix of admitted and discharged patients, tasks with subtasks,
// ward and personal task templates, and one property per subject type. Entity
// ids are opaque and freshly generated each process start; contents are
// fixed.
func Seed(s *Store) {
	now := time.Now()
	seedUser := id.UserID(uuid.New())

	_ = s.Update(func(tx *Tx) error {
		org := domain.Organization{
			ID:              id.OrganizationID(uuid.New()),
			LongName:        "Musterklinikum Example City",
			ShortName:       "MK-EC",
			ContactEmail:    "ops@musterklinikum.example",
			IsEmailVerified: true,
			CreatedAt:       now,
		}
		tx.Organizations().Insert(org.ID, org)

		general := seedWard(tx, org.ID, "General Ward", now)
		icu := seedWard(tx, org.ID, "Intensive Care", now)

		room1 := seedRoom(tx, general, "Room 101", now)
		room2 := seedRoom(tx, general, "Room 102", now)
		icuRoom := seedRoom(tx, icu, "ICU Bay 1", now)

		bed1 := seedBed(tx, room1, "Bed 1", now)
		seedBed(tx, room1, "Bed 2", now)
		bed3 := seedBed(tx, room2, "Bed 1", now)
		seedBed(tx, icuRoom, "Bed 1", now)

		assigned := seedPatient(tx, "Patient Maier", "post-op, mobilize twice daily", &bed1, false, now)
		seedPatient(tx, "Patient Schmidt", "admission pending triage", nil, false, now)
		seedPatient(tx, "Patient Weber", "discharged after observation", nil, true, now)
		inICU := seedPatient(tx, "Patient Fischer", "ventilated, sedation protocol", &bed3, false, now)

		task1 := seedTask(tx, assigned, "Prepare discharge papers", "check insurance forms",
			domain.TaskStatusTodo, seedUser, now)
		seedSubTask(tx, task1, "Collect signatures", now)
		seedSubTask(tx, task1, "Print summary", now)
		seedTask(tx, inICU, "Hourly vitals check", "escalate on MAP below 65",
			domain.TaskStatusInProgress, seedUser, now)

		wardTemplate := domain.TaskTemplate{
			ID:              id.TaskTemplateID(uuid.New()),
			WardID:          &general,
			Name:            "Admission checklist",
			Notes:           "standard intake steps",
			CreatorID:       seedUser,
			IsPublicVisible: true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		tx.Templates().Insert(wardTemplate.ID, wardTemplate)
		intake := domain.TemplateSubTask{
			ID:         id.TemplateSubTaskID(uuid.New()),
			TemplateID: wardTemplate.ID,
			Name:       "Record allergies",
			CreatedAt:  now,
		}
		tx.TemplateSubTasks().Insert(intake.ID, intake)

		personal := domain.TaskTemplate{
			ID:              id.TaskTemplateID(uuid.New()),
			Name:            "My round notes",
			CreatorID:       seedUser,
			IsPublicVisible: false,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		tx.Templates().Insert(personal.ID, personal)

		diet := domain.Property{
			ID:          id.PropertyID(uuid.New()),
			SubjectType: domain.SubjectTypePatient,
			FieldType:   domain.FieldTypeSingleSelect,
			Name:        "Diet",
			Description: "dietary restriction",
			SelectData: &domain.SelectData{
				Options: []domain.SelectOption{
					{ID: id.SelectOptionID(uuid.New()), Name: "Regular"},
					{ID: id.SelectOptionID(uuid.New()), Name: "Vegetarian"},
					{ID: id.SelectOptionID(uuid.New()), Name: "Liquid only"},
				},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		tx.Properties().Insert(diet.ID, diet)

		urgency := domain.Property{
			ID:          id.PropertyID(uuid.New()),
			SubjectType: domain.SubjectTypeTask,
			FieldType:   domain.FieldTypeNumber,
			Name:        "Urgency",
			Description: "1 (low) to 5 (critical)",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		tx.Properties().Insert(urgency.ID, urgency)

		return nil
	})
}

func seedWard(tx *Tx, orgID id.OrganizationID, name string, now time.Time) id.WardID {
	w := domain.Ward{
		ID:             id.WardID(uuid.New()),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	tx.Wards().Insert(w.ID, w)
	return w.ID
}

func seedRoom(tx *Tx, wardID id.WardID, name string, now time.Time) id.RoomID {
	r := domain.Room{
		ID:        id.RoomID(uuid.New()),
		WardID:    wardID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.Rooms().Insert(r.ID, r)
	return r.ID
}

func seedBed(tx *Tx, roomID id.RoomID, name string, now time.Time) id.BedID {
	b := domain.Bed{
		ID:        id.BedID(uuid.New()),
		RoomID:    roomID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.Beds().Insert(b.ID, b)
	return b.ID
}

func seedPatient(tx *Tx, name, notes string, bedID *id.BedID, discharged bool, now time.Time) id.PatientID {
	p := domain.Patient{
		ID:         id.PatientID(uuid.New()),
		Name:       name,
		Notes:      notes,
		Discharged: discharged,
		BedID:      bedID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tx.Patients().Insert(p.ID, p)
	return p.ID
}

func seedTask(tx *Tx, patientID id.PatientID, name, notes string, status domain.TaskStatus, creator id.UserID, now time.Time) id.TaskID {
	t := domain.Task{
		ID:        id.TaskID(uuid.New()),
		PatientID: patientID,
		Name:      name,
		Notes:     notes,
		Status:    status,
		CreatedAt: now,
		CreatorID: creator,
		UpdatedAt: now,
	}
	tx.Tasks().Insert(t.ID, t)
	return t.ID
}

func seedSubTask(tx *Tx, taskID id.TaskID, name string, now time.Time) {
	st := domain.SubTask{
		ID:        id.SubTaskID(uuid.New()),
		TaskID:    taskID,
		Name:      name,
		CreatedAt: now,
	}
	tx.SubTasks().Insert(st.ID, st)
}
