package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Tasks is the repository for the task aggregate, subtasks included.
type Tasks struct {
	store *storage.Store
}

// CreateTaskParams carries everything a new task needs. Initial subtasks are
// created in the same store update as the task itself.
type CreateTaskParams struct {
	PatientID       id.PatientID
	Name            string
	Notes           string
	Status          domain.TaskStatus
	IsPublicVisible bool
	DueDate         *time.Time
	CreatorID       id.UserID
	SubTaskNames    []string
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Name    *string
	Notes   *string
	DueDate *time.Time
	Status  *domain.TaskStatus
}

func (r *Tasks) Find(_ context.Context, taskID id.TaskID) (*domain.Task, error) {
	var out domain.Task
	err := r.store.View(func(tx *storage.Tx) error {
		task, ok := tx.Tasks().Get(taskID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Tasks) FindByPatient(_ context.Context, patientID id.PatientID) []domain.Task {
	var out []domain.Task
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Tasks().Where(func(t domain.Task) bool { return t.PatientID == patientID })
		return nil
	})
	return out
}

func (r *Tasks) FindByAssignee(_ context.Context, userID id.UserID) []domain.Task {
	var out []domain.Task
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Tasks().Where(func(t domain.Task) bool {
			return t.AssigneeID != nil && *t.AssigneeID == userID
		})
		return nil
	})
	return out
}

func (r *Tasks) SubTasksOf(_ context.Context, taskID id.TaskID) []domain.SubTask {
	var out []domain.SubTask
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.SubTasks().Where(func(st domain.SubTask) bool { return st.TaskID == taskID })
		return nil
	})
	return out
}

func (r *Tasks) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, []domain.SubTask, error) {
	name, err := domain.ValidateName(params.Name)
	if err != nil {
		return nil, nil, err
	}
	params.Name = name
	for i, subTaskName := range params.SubTaskNames {
		valid, err := domain.ValidateName(subTaskName)
		if err != nil {
			return nil, nil, err
		}
		params.SubTaskNames[i] = valid
	}
	now := requestcontext.Now(ctx)
	task := domain.Task{
		ID:              id.TaskID(uuid.New()),
		PatientID:       params.PatientID,
		Name:            params.Name,
		Notes:           params.Notes,
		Status:          params.Status,
		IsPublicVisible: params.IsPublicVisible,
		DueDate:         params.DueDate,
		CreatedAt:       now,
		CreatorID:       params.CreatorID,
		UpdatedAt:       now,
	}
	subTasks := make([]domain.SubTask, 0, len(params.SubTaskNames))
	err = r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Patients().Get(params.PatientID); !ok {
			return fmt.Errorf("patient %s: %w", params.PatientID, sentinel.ErrNotFound)
		}
		tx.Tasks().Insert(task.ID, task)
		for _, name := range params.SubTaskNames {
			st := domain.SubTask{
				ID:        id.SubTaskID(uuid.New()),
				TaskID:    task.ID,
				Name:      name,
				CreatedAt: now,
			}
			tx.SubTasks().Insert(st.ID, st)
			subTasks = append(subTasks, st)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &task, subTasks, nil
}

func (r *Tasks) Update(ctx context.Context, taskID id.TaskID, update TaskUpdate) (*domain.Task, error) {
	if update.Name != nil {
		valid, err := domain.ValidateName(*update.Name)
		if err != nil {
			return nil, err
		}
		update.Name = &valid
	}
	now := requestcontext.Now(ctx)
	var out domain.Task
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Tasks().ReplaceKey(taskID, func(t domain.Task) domain.Task {
			if update.Name != nil {
				t.Name = *update.Name
			}
			if update.Notes != nil {
				t.Notes = *update.Notes
			}
			if update.DueDate != nil {
				due := *update.DueDate
				t.DueDate = &due
			}
			if update.Status != nil {
				t.ApplyStatus(*update.Status, now)
			}
			t.UpdatedAt = now
			out = t
			return t
		})
		if !ok {
			return sentinel.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Assign sets the assignee; userID is a weak reference to the external auth
// collaborator's user and is not resolved locally.
func (r *Tasks) Assign(ctx context.Context, taskID id.TaskID, userID id.UserID) (*domain.Task, error) {
	return r.updateAssignment(ctx, taskID, &userID)
}

// Unassign clears the assignee. Idempotent.
func (r *Tasks) Unassign(ctx context.Context, taskID id.TaskID) (*domain.Task, error) {
	return r.updateAssignment(ctx, taskID, nil)
}

func (r *Tasks) updateAssignment(ctx context.Context, taskID id.TaskID, userID *id.UserID) (*domain.Task, error) {
	now := requestcontext.Now(ctx)
	var out domain.Task
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Tasks().ReplaceKey(taskID, func(t domain.Task) domain.Task {
			t.ApplyAssignment(userID, now)
			out = t
			return t
		})
		if !ok {
			return sentinel.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the task, its subtasks, and any property values attached to
// it.
func (r *Tasks) Delete(ctx context.Context, taskID id.TaskID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Tasks().Get(taskID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindTask, uuid.UUID(taskID), now)
		return nil
	})
}

func (r *Tasks) CreateSubTask(ctx context.Context, taskID id.TaskID, name string) (*domain.SubTask, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	st := domain.SubTask{
		ID:        id.SubTaskID(uuid.New()),
		TaskID:    taskID,
		Name:      name,
		CreatedAt: now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Tasks().Get(taskID); !ok {
			return fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
		}
		tx.SubTasks().Insert(st.ID, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *Tasks) UpdateSubTask(_ context.Context, subTaskID id.SubTaskID, name string) (*domain.SubTask, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	return r.replaceSubTask(subTaskID, func(st domain.SubTask) domain.SubTask {
		st.Name = name
		return st
	})
}

// SetSubTaskDone flips the completion flag. Both directions are legal, both
// idempotent.
func (r *Tasks) SetSubTaskDone(_ context.Context, subTaskID id.SubTaskID, done bool) (*domain.SubTask, error) {
	return r.replaceSubTask(subTaskID, func(st domain.SubTask) domain.SubTask {
		st.IsDone = done
		return st
	})
}

func (r *Tasks) DeleteSubTask(_ context.Context, subTaskID id.SubTaskID) error {
	return r.store.Update(func(tx *storage.Tx) error {
		if !tx.SubTasks().RemoveKey(subTaskID) {
			return sentinel.ErrNotFound
		}
		return nil
	})
}

func (r *Tasks) replaceSubTask(subTaskID id.SubTaskID, apply func(domain.SubTask) domain.SubTask) (*domain.SubTask, error) {
	var out domain.SubTask
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.SubTasks().ReplaceKey(subTaskID, func(st domain.SubTask) domain.SubTask {
			st = apply(st)
			out = st
			return st
		})
		if !ok {
			return sentinel.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
