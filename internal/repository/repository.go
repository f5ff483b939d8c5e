// Package repository implements one repository per aggregate over the shared
// store. Repositories own their aggregate's invariants and cascade rules;
// every mutating operation runs as a single store Update so multi-table
// effects (reassignment, cascades) are atomic within the process.
//
// Error contract: a missing id surfaces as sentinel.ErrNotFound (optionally
// wrapped with which reference missed); broken aggregate rules surface as
// coded domain errors. The facade translates both for external callers.
package repository

import (
	"wardflow/internal/storage"
)

// Repositories bundles every aggregate repository over one store instance.
type Repositories struct {
	Wards      *Wards
	Rooms      *Rooms
	Beds       *Beds
	Patients   *Patients
	Tasks      *Tasks
	Templates  *Templates
	Properties *Properties
	Values     *Values
}

// New wires all repositories against the given store.
func New(store *storage.Store) *Repositories {
	return &Repositories{
		Wards:      &Wards{store: store},
		Rooms:      &Rooms{store: store},
		Beds:       &Beds{store: store},
		Patients:   &Patients{store: store},
		Tasks:      &Tasks{store: store},
		Templates:  &Templates{store: store},
		Properties: &Properties{store: store},
		Values:     &Values{store: store},
	}
}
