package domain

import (
	"time"

	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// TaskStatus is an unrestricted three-state machine: any transition between
// the states is legal.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inProgress"
	TaskStatusDone       TaskStatus = "done"
)

// ParseTaskStatus validates a status string at the trust boundary.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown task status %q", s)
}

// Task belongs to exactly one patient and owns SubTasks.
//
// Invariants:
//   - PatientID references an existing patient
//   - Status is one of the three known states
//   - AssigneeID and CreatorID are weak references to user ids managed by the
//     external auth collaborator; they are never resolved locally
type Task struct {
	ID              id.TaskID    `json:"id"`
	PatientID       id.PatientID `json:"patient_id"`
	Name            string       `json:"name"`
	Notes           string       `json:"notes"`
	Status          TaskStatus   `json:"status"`
	AssigneeID      *id.UserID   `json:"assignee_id,omitempty"`
	IsPublicVisible bool         `json:"is_public_visible"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	CreatorID       id.UserID    `json:"creator_id"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ApplyStatus moves the task to the given state. Any transition is legal.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.UpdatedAt = now
}

// ApplyAssignment sets or clears the assignee.
func (t *Task) ApplyAssignment(userID *id.UserID, now time.Time) {
	t.AssigneeID = userID
	t.UpdatedAt = now
}

// SubTask belongs to exactly one task.
type SubTask struct {
	ID        id.SubTaskID `json:"id"`
	TaskID    id.TaskID    `json:"task_id"`
	Name      string       `json:"name"`
	IsDone    bool         `json:"is_done"`
	CreatedAt time.Time    `json:"created_at"`
}
