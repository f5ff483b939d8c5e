// Package storage implements the in-memory domain store: a shared, mutable
// table-of-tables holding every entity instance for the process lifetime.
//
// The store is constructed explicitly and injected into repositories, never
// reached through package state, so tests get isolated instances. It favors
// clarity over performance; contention is ward-scale, not service-scale.
package storage

import (
	"sync"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

// tables is the full entity universe. Each field is one collection.
type tables struct {
	organizations    Table[id.OrganizationID, domain.Organization]
	wards            Table[id.WardID, domain.Ward]
	rooms            Table[id.RoomID, domain.Room]
	beds             Table[id.BedID, domain.Bed]
	patients         Table[id.PatientID, domain.Patient]
	tasks            Table[id.TaskID, domain.Task]
	subTasks         Table[id.SubTaskID, domain.SubTask]
	templates        Table[id.TaskTemplateID, domain.TaskTemplate]
	templateSubTasks Table[id.TemplateSubTaskID, domain.TemplateSubTask]
	properties       Table[id.PropertyID, domain.Property]
	values           Table[domain.ValueKey, domain.AttachedValue]
}

func newTables() tables {
	return tables{
		organizations:    newTable[id.OrganizationID, domain.Organization](),
		wards:            newTable[id.WardID, domain.Ward](),
		rooms:            newTable[id.RoomID, domain.Room](),
		beds:             newTable[id.BedID, domain.Bed](),
		patients:         newTable[id.PatientID, domain.Patient](),
		tasks:            newTable[id.TaskID, domain.Task](),
		subTasks:         newTable[id.SubTaskID, domain.SubTask](),
		templates:        newTable[id.TaskTemplateID, domain.TaskTemplate](),
		templateSubTasks: newTable[id.TemplateSubTaskID, domain.TemplateSubTask](),
		properties:       newTable[id.PropertyID, domain.Property](),
		values:           newTable[domain.ValueKey, domain.AttachedValue](),
	}
}

// Store serializes access to the tables with one RWMutex per instance. Every
// mutating repository operation runs inside a single Update callback, so a
// multi-table mutation (bed reassignment, cascade delete) is observed as one
// atomic step by all other callers of the same instance.
type Store struct {
	mu   sync.RWMutex
	tabs tables
}

// New returns an empty store.
func New() *Store {
	return &Store{tabs: newTables()}
}

// Tx is the view handed to View/Update callbacks. It is only valid for the
// duration of the callback and must not escape it.
type Tx struct {
	t *tables
}

// View runs fn with shared (read) access. Reads may run concurrently with
// each other but never with a writer.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{t: &s.tabs})
}

// Update runs fn with exclusive access. A returned error aborts nothing
// retroactively: callbacks are expected to validate before mutating
// (validate-then-mutate), which the exclusive lock makes race-free.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{t: &s.tabs})
}

func (tx *Tx) Organizations() *Table[id.OrganizationID, domain.Organization] {
	return &tx.t.organizations
}

func (tx *Tx) Wards() *Table[id.WardID, domain.Ward] { return &tx.t.wards }

func (tx *Tx) Rooms() *Table[id.RoomID, domain.Room] { return &tx.t.rooms }

func (tx *Tx) Beds() *Table[id.BedID, domain.Bed] { return &tx.t.beds }

func (tx *Tx) Patients() *Table[id.PatientID, domain.Patient] { return &tx.t.patients }

func (tx *Tx) Tasks() *Table[id.TaskID, domain.Task] { return &tx.t.tasks }

func (tx *Tx) SubTasks() *Table[id.SubTaskID, domain.SubTask] { return &tx.t.subTasks }

func (tx *Tx) Templates() *Table[id.TaskTemplateID, domain.TaskTemplate] {
	return &tx.t.templates
}

func (tx *Tx) TemplateSubTasks() *Table[id.TemplateSubTaskID, domain.TemplateSubTask] {
	return &tx.t.templateSubTasks
}

func (tx *Tx) Properties() *Table[id.PropertyID, domain.Property] {
	return &tx.t.properties
}

func (tx *Tx) Values() *Table[domain.ValueKey, domain.AttachedValue] {
	return &tx.t.values
}
