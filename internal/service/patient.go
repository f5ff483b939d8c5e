package service

import (
	"context"
	"sort"

	"wardflow/internal/domain"
	id "wardflow/pkg/domain"
)

// recentPatientCap bounds the GetRecentPatients result.
const recentPatientCap = 10

// PatientDetails is the fully expanded patient: its tasks with their
// subtasks, plus where the patient currently lies, if anywhere.
type PatientDetails struct {
	Patient  domain.Patient     `json:"patient"`
	Tasks    []TaskWithSubTasks `json:"tasks"`
	Location *PatientLocation   `json:"location,omitempty"`
}

// PatientLocation resolves the occupied bed up the physical hierarchy.
type PatientLocation struct {
	Bed  domain.Bed  `json:"bed"`
	Room domain.Room `json:"room"`
	Ward domain.Ward `json:"ward"`
}

// PatientList partitions all patients by occupancy state.
type PatientList struct {
	Active     []domain.Patient `json:"active"`
	Unassigned []domain.Patient `json:"unassigned"`
	Discharged []domain.Patient `json:"discharged"`
}

// BedAssignment is one row of a ward's assignment sheet.
type BedAssignment struct {
	Room    domain.Room     `json:"room"`
	Bed     domain.Bed      `json:"bed"`
	Patient *domain.Patient `json:"patient,omitempty"`
}

// GetPatient returns a single patient by id.
func (s *Service) GetPatient(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	patient, err := s.repos.Patients.Find(ctx, patientID)
	if err != nil {
		return nil, coerce(err)
	}
	return patient, nil
}

// GetPatientDetails expands a patient into its task tree and its current
// location.
func (s *Service) GetPatientDetails(ctx context.Context, patientID id.PatientID) (*PatientDetails, error) {
	patient, err := s.repos.Patients.Find(ctx, patientID)
	if err != nil {
		return nil, coerce(err)
	}
	details := &PatientDetails{Patient: *patient, Tasks: make([]TaskWithSubTasks, 0)}
	for _, task := range s.repos.Tasks.FindByPatient(ctx, patientID) {
		details.Tasks = append(details.Tasks, TaskWithSubTasks{
			Task:     task,
			SubTasks: s.repos.Tasks.SubTasksOf(ctx, task.ID),
		})
	}
	if patient.BedID != nil {
		details.Location = s.locate(ctx, *patient.BedID)
	}
	return details, nil
}

// GetPatientsByWard returns the admitted patients occupying a bed of the
// ward, in bed order.
func (s *Service) GetPatientsByWard(ctx context.Context, wardID id.WardID) ([]domain.Patient, error) {
	if _, err := s.repos.Wards.Find(ctx, wardID); err != nil {
		return nil, coerce(err)
	}
	patients := make([]domain.Patient, 0)
	for _, bed := range s.bedsOfWard(ctx, wardID) {
		if occupant, ok := s.occupantOf(ctx, bed.ID); ok {
			patients = append(patients, *occupant)
		}
	}
	return patients, nil
}

// GetPatientAssignmentByWard returns the ward's full assignment sheet: every
// bed of every room with the patient occupying it, free beds included.
func (s *Service) GetPatientAssignmentByWard(ctx context.Context, wardID id.WardID) ([]BedAssignment, error) {
	if _, err := s.repos.Wards.Find(ctx, wardID); err != nil {
		return nil, coerce(err)
	}
	assignments := make([]BedAssignment, 0)
	for _, room := range s.repos.Rooms.FindByWard(ctx, wardID) {
		roomID := room.ID
		for _, bed := range s.repos.Beds.FindMany(ctx, &roomID) {
			row := BedAssignment{Room: room, Bed: bed}
			if occupant, ok := s.occupantOf(ctx, bed.ID); ok {
				row.Patient = occupant
			}
			assignments = append(assignments, row)
		}
	}
	return assignments, nil
}

// GetPatientList partitions all patients into active (admitted, in a bed),
// unassigned (admitted, no bed), and discharged. A ward filter narrows the
// active partition to that ward's beds; unassigned and discharged patients
// belong to no ward and always appear in full.
func (s *Service) GetPatientList(ctx context.Context, wardID *id.WardID) (*PatientList, error) {
	var wardBeds map[id.BedID]struct{}
	if wardID != nil {
		if _, err := s.repos.Wards.Find(ctx, *wardID); err != nil {
			return nil, coerce(err)
		}
		wardBeds = make(map[id.BedID]struct{})
		for _, bed := range s.bedsOfWard(ctx, *wardID) {
			wardBeds[bed.ID] = struct{}{}
		}
	}
	list := &PatientList{
		Active:     make([]domain.Patient, 0),
		Unassigned: make([]domain.Patient, 0),
		Discharged: make([]domain.Patient, 0),
	}
	for _, patient := range s.repos.Patients.FindAll(ctx) {
		switch {
		case patient.Discharged:
			list.Discharged = append(list.Discharged, patient)
		case patient.BedID == nil:
			list.Unassigned = append(list.Unassigned, patient)
		default:
			if wardBeds != nil {
				if _, inWard := wardBeds[*patient.BedID]; !inWard {
					continue
				}
			}
			list.Active = append(list.Active, patient)
		}
	}
	return list, nil
}

// GetRecentPatients returns the most recently updated admitted patients,
// newest first, capped at ten.
func (s *Service) GetRecentPatients(ctx context.Context) ([]domain.Patient, error) {
	recent := make([]domain.Patient, 0)
	for _, patient := range s.repos.Patients.FindAll(ctx) {
		if !patient.Discharged {
			recent = append(recent, patient)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > recentPatientCap {
		recent = recent[:recentPatientCap]
	}
	return recent, nil
}

// CreatePatient admits a new patient; the patient starts unassigned.
func (s *Service) CreatePatient(ctx context.Context, name, notes string) (*domain.Patient, error) {
	patient, err := s.repos.Patients.Create(ctx, name, notes)
	if err != nil {
		return nil, coerce(err)
	}
	if s.metrics != nil {
		s.metrics.PatientsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "patient created", "patient_id", patient.ID)
	return patient, nil
}

// UpdatePatient partially updates name and notes; nil fields are untouched.
func (s *Service) UpdatePatient(ctx context.Context, patientID id.PatientID, name, notes *string) (*domain.Patient, error) {
	patient, err := s.repos.Patients.Update(ctx, patientID, name, notes)
	if err != nil {
		return nil, coerce(err)
	}
	return patient, nil
}

// AssignBed puts the patient into the given bed. If another admitted patient
// already occupies the bed, that patient is silently unassigned: the last
// writer wins.
func (s *Service) AssignBed(ctx context.Context, patientID id.PatientID, bedID id.BedID) (*domain.Patient, error) {
	patient, err := s.repos.Patients.AssignBed(ctx, patientID, bedID)
	if err != nil {
		return nil, coerce(err)
	}
	if s.metrics != nil {
		s.metrics.BedAssignments.Inc()
	}
	s.logger.InfoContext(ctx, "bed assigned", "patient_id", patientID, "bed_id", bedID)
	return patient, nil
}

// UnassignBed releases the patient's bed. Idempotent.
func (s *Service) UnassignBed(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	patient, err := s.repos.Patients.UnassignBed(ctx, patientID)
	if err != nil {
		return nil, coerce(err)
	}
	return patient, nil
}

// DischargePatient discharges the patient and releases their bed. Idempotent.
func (s *Service) DischargePatient(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	patient, err := s.repos.Patients.Discharge(ctx, patientID)
	if err != nil {
		return nil, coerce(err)
	}
	if s.metrics != nil {
		s.metrics.Discharges.Inc()
	}
	s.logger.InfoContext(ctx, "patient discharged", "patient_id", patientID)
	return patient, nil
}

// ReadmitPatient brings a discharged patient back, unassigned; the bed held
// before discharge is not restored.
func (s *Service) ReadmitPatient(ctx context.Context, patientID id.PatientID) (*domain.Patient, error) {
	patient, err := s.repos.Patients.Readmit(ctx, patientID)
	if err != nil {
		return nil, coerce(err)
	}
	s.logger.InfoContext(ctx, "patient readmitted", "patient_id", patientID)
	return patient, nil
}

// DeletePatient removes the patient, their task tree, and every property
// value attached to the patient or those tasks.
func (s *Service) DeletePatient(ctx context.Context, patientID id.PatientID) error {
	if err := s.repos.Patients.Delete(ctx, patientID); err != nil {
		return coerce(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues("patient").Inc()
	}
	s.logger.InfoContext(ctx, "patient deleted", "patient_id", patientID)
	return nil
}

func (s *Service) bedsOfWard(ctx context.Context, wardID id.WardID) []domain.Bed {
	beds := make([]domain.Bed, 0)
	for _, room := range s.repos.Rooms.FindByWard(ctx, wardID) {
		roomID := room.ID
		beds = append(beds, s.repos.Beds.FindMany(ctx, &roomID)...)
	}
	return beds
}

func (s *Service) locate(ctx context.Context, bedID id.BedID) *PatientLocation {
	bed, err := s.repos.Beds.Find(ctx, bedID)
	if err != nil {
		return nil
	}
	room, err := s.repos.Rooms.Find(ctx, bed.RoomID)
	if err != nil {
		return nil
	}
	ward, err := s.repos.Wards.Find(ctx, room.WardID)
	if err != nil {
		return nil
	}
	return &PatientLocation{Bed: *bed, Room: *room, Ward: *ward}
}
