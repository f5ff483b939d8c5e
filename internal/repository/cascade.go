package repository

import (
	"time"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
)

// The delete behavior of every aggregate is declared once in the ownership
// graph below and walked by a single executor, so no aggregate can end up
// with a hand-written, incomplete cascade.
//
// Rules:
//   - ruleCascade: children are deleted recursively (they may own children of
//     their own)
//   - ruleUnassign: rows referencing the deleted entity keep existing but the
//     weak reference is cleared (bed occupancy)
//   - rulePurge: leaf rows referencing the deleted entity are removed
//     wholesale (attached property values own nothing themselves)
type kind int

const (
	kindWard kind = iota
	kindRoom
	kindBed
	kindPatient
	kindTask
	kindSubTask
	kindTemplate
	kindTemplateSubTask
	kindProperty
)

type rule int

const (
	ruleCascade rule = iota
	ruleUnassign
	rulePurge
)

type edge struct {
	rule     rule
	child    kind                                               // ruleCascade only
	children func(tx *storage.Tx, parent uuid.UUID) []uuid.UUID // ruleCascade only
	detach   func(tx *storage.Tx, parent uuid.UUID, now time.Time)
}

var ownership = map[kind][]edge{
	kindWard: {
		{rule: ruleCascade, child: kindRoom, children: roomsOfWard},
		{rule: ruleCascade, child: kindTemplate, children: templatesOfWard},
	},
	kindRoom: {
		{rule: ruleCascade, child: kindBed, children: bedsOfRoom},
	},
	kindBed: {
		{rule: ruleUnassign, detach: unassignBedOccupants},
	},
	kindPatient: {
		{rule: ruleCascade, child: kindTask, children: tasksOfPatient},
		{rule: rulePurge, detach: purgeValuesOfSubject},
	},
	kindTask: {
		{rule: ruleCascade, child: kindSubTask, children: subTasksOfTask},
		{rule: rulePurge, detach: purgeValuesOfSubject},
	},
	kindTemplate: {
		{rule: ruleCascade, child: kindTemplateSubTask, children: subTasksOfTemplate},
	},
	kindProperty: {
		{rule: rulePurge, detach: purgeValuesOfProperty},
	},
}

var removers = map[kind]func(tx *storage.Tx, entityID uuid.UUID) bool{
	kindWard: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Wards().RemoveKey(id.WardID(entityID))
	},
	kindRoom: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Rooms().RemoveKey(id.RoomID(entityID))
	},
	kindBed: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Beds().RemoveKey(id.BedID(entityID))
	},
	kindPatient: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Patients().RemoveKey(id.PatientID(entityID))
	},
	kindTask: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Tasks().RemoveKey(id.TaskID(entityID))
	},
	kindSubTask: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.SubTasks().RemoveKey(id.SubTaskID(entityID))
	},
	kindTemplate: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Templates().RemoveKey(id.TaskTemplateID(entityID))
	},
	kindTemplateSubTask: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.TemplateSubTasks().RemoveKey(id.TemplateSubTaskID(entityID))
	},
	kindProperty: func(tx *storage.Tx, entityID uuid.UUID) bool {
		return tx.Properties().RemoveKey(id.PropertyID(entityID))
	},
}

// cascadeDelete walks the ownership graph depth-first from the given entity
// and removes it last. Runs inside one store Update, so the whole cascade is
// one logical operation.
func cascadeDelete(tx *storage.Tx, k kind, rootID uuid.UUID, now time.Time) bool {
	for _, e := range ownership[k] {
		switch e.rule {
		case ruleCascade:
			for _, childID := range e.children(tx, rootID) {
				cascadeDelete(tx, e.child, childID, now)
			}
		case ruleUnassign, rulePurge:
			e.detach(tx, rootID, now)
		}
	}
	return removers[k](tx, rootID)
}

func roomsOfWard(tx *storage.Tx, wardID uuid.UUID) []uuid.UUID {
	rooms := tx.Rooms().Where(func(r domain.Room) bool { return r.WardID == id.WardID(wardID) })
	out := make([]uuid.UUID, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, uuid.UUID(r.ID))
	}
	return out
}

func templatesOfWard(tx *storage.Tx, wardID uuid.UUID) []uuid.UUID {
	templates := tx.Templates().Where(func(t domain.TaskTemplate) bool {
		return t.WardID != nil && *t.WardID == id.WardID(wardID)
	})
	out := make([]uuid.UUID, 0, len(templates))
	for _, t := range templates {
		out = append(out, uuid.UUID(t.ID))
	}
	return out
}

func bedsOfRoom(tx *storage.Tx, roomID uuid.UUID) []uuid.UUID {
	beds := tx.Beds().Where(func(b domain.Bed) bool { return b.RoomID == id.RoomID(roomID) })
	out := make([]uuid.UUID, 0, len(beds))
	for _, b := range beds {
		out = append(out, uuid.UUID(b.ID))
	}
	return out
}

func tasksOfPatient(tx *storage.Tx, patientID uuid.UUID) []uuid.UUID {
	tasks := tx.Tasks().Where(func(t domain.Task) bool { return t.PatientID == id.PatientID(patientID) })
	out := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, uuid.UUID(t.ID))
	}
	return out
}

func subTasksOfTask(tx *storage.Tx, taskID uuid.UUID) []uuid.UUID {
	subs := tx.SubTasks().Where(func(st domain.SubTask) bool { return st.TaskID == id.TaskID(taskID) })
	out := make([]uuid.UUID, 0, len(subs))
	for _, st := range subs {
		out = append(out, uuid.UUID(st.ID))
	}
	return out
}

func subTasksOfTemplate(tx *storage.Tx, templateID uuid.UUID) []uuid.UUID {
	subs := tx.TemplateSubTasks().Where(func(st domain.TemplateSubTask) bool {
		return st.TemplateID == id.TaskTemplateID(templateID)
	})
	out := make([]uuid.UUID, 0, len(subs))
	for _, st := range subs {
		out = append(out, uuid.UUID(st.ID))
	}
	return out
}

// unassignBedOccupants clears the weak occupancy reference on any patient
// holding the deleted bed. Patients are never deleted by a bed cascade.
func unassignBedOccupants(tx *storage.Tx, bedID uuid.UUID, now time.Time) {
	tx.Patients().Replace(
		func(p domain.Patient) bool { return p.BedID != nil && *p.BedID == id.BedID(bedID) },
		func(p domain.Patient) domain.Patient {
			p.ApplyUnassignBed(now)
			return p
		},
	)
}

func purgeValuesOfSubject(tx *storage.Tx, subjectID uuid.UUID, _ time.Time) {
	tx.Values().Remove(func(v domain.AttachedValue) bool {
		return v.SubjectID == id.SubjectID(subjectID)
	})
}

func purgeValuesOfProperty(tx *storage.Tx, propertyID uuid.UUID, _ time.Time) {
	tx.Values().Remove(func(v domain.AttachedValue) bool {
		return v.PropertyID == id.PropertyID(propertyID)
	})
}
