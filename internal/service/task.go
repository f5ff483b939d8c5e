package service

import (
	"context"
	"time"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/requestcontext"
)

// TaskWithSubTasks pairs a task with its subtasks in creation order.
type TaskWithSubTasks struct {
	Task     domain.Task      `json:"task"`
	SubTasks []domain.SubTask `json:"subtasks"`
}

// CreateTaskInput is the boundary shape for task creation. The creator comes
// from the request context, never the payload.
type CreateTaskInput struct {
	PatientID       id.PatientID
	Name            string
	Notes           string
	Status          domain.TaskStatus
	IsPublicVisible bool
	DueDate         *time.Time
	SubTaskNames    []string
}

// GetTask returns a single task with its subtasks.
func (s *Service) GetTask(ctx context.Context, taskID id.TaskID) (*TaskWithSubTasks, error) {
	task, err := s.repos.Tasks.Find(ctx, taskID)
	if err != nil {
		return nil, coerce(err)
	}
	return &TaskWithSubTasks{Task: *task, SubTasks: s.repos.Tasks.SubTasksOf(ctx, taskID)}, nil
}

// GetTasksByPatient returns the patient's tasks with their subtasks. The
// patient must exist.
func (s *Service) GetTasksByPatient(ctx context.Context, patientID id.PatientID) ([]TaskWithSubTasks, error) {
	if _, err := s.repos.Patients.Find(ctx, patientID); err != nil {
		return nil, coerce(err)
	}
	out := make([]TaskWithSubTasks, 0)
	for _, task := range s.repos.Tasks.FindByPatient(ctx, patientID) {
		out = append(out, TaskWithSubTasks{Task: task, SubTasks: s.repos.Tasks.SubTasksOf(ctx, task.ID)})
	}
	return out, nil
}

// GetTasksAssignedToCaller returns the tasks assigned to the authenticated
// caller, taken from the request context.
func (s *Service) GetTasksAssignedToCaller(ctx context.Context) ([]TaskWithSubTasks, error) {
	callerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TaskWithSubTasks, 0)
	for _, task := range s.repos.Tasks.FindByAssignee(ctx, callerID) {
		out = append(out, TaskWithSubTasks{Task: task, SubTasks: s.repos.Tasks.SubTasksOf(ctx, task.ID)})
	}
	return out, nil
}

// CreateTask creates a task for a patient, with any initial subtasks, in one
// atomic step. The caller becomes the creator.
func (s *Service) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskWithSubTasks, error) {
	creatorID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = domain.TaskStatusTodo
	}
	task, subTasks, err := s.repos.Tasks.Create(ctx, repository.CreateTaskParams{
		PatientID:       input.PatientID,
		Name:            input.Name,
		Notes:           input.Notes,
		Status:          input.Status,
		IsPublicVisible: input.IsPublicVisible,
		DueDate:         input.DueDate,
		CreatorID:       creatorID,
		SubTaskNames:    input.SubTaskNames,
	})
	if err != nil {
		return nil, coerce(err)
	}
	if s.metrics != nil {
		s.metrics.TasksCreated.Inc()
	}
	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "patient_id", task.PatientID)
	return &TaskWithSubTasks{Task: *task, SubTasks: subTasks}, nil
}

// UpdateTask partially updates a task; nil fields are untouched.
func (s *Service) UpdateTask(ctx context.Context, taskID id.TaskID, update repository.TaskUpdate) (*domain.Task, error) {
	task, err := s.repos.Tasks.Update(ctx, taskID, update)
	if err != nil {
		return nil, coerce(err)
	}
	return task, nil
}

// AssignTask sets the task's assignee.
func (s *Service) AssignTask(ctx context.Context, taskID id.TaskID, userID id.UserID) (*domain.Task, error) {
	task, err := s.repos.Tasks.Assign(ctx, taskID, userID)
	if err != nil {
		return nil, coerce(err)
	}
	return task, nil
}

// UnassignTask clears the task's assignee.
func (s *Service) UnassignTask(ctx context.Context, taskID id.TaskID) (*domain.Task, error) {
	task, err := s.repos.Tasks.Unassign(ctx, taskID)
	if err != nil {
		return nil, coerce(err)
	}
	return task, nil
}

// DeleteTask removes a task, its subtasks, and its attached property values.
func (s *Service) DeleteTask(ctx context.Context, taskID id.TaskID) error {
	if err := s.repos.Tasks.Delete(ctx, taskID); err != nil {
		return coerce(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues("task").Inc()
	}
	return nil
}

// CreateSubTask appends a subtask to an existing task; it starts not done.
func (s *Service) CreateSubTask(ctx context.Context, taskID id.TaskID, name string) (*domain.SubTask, error) {
	subTask, err := s.repos.Tasks.CreateSubTask(ctx, taskID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// UpdateSubTask renames a subtask.
func (s *Service) UpdateSubTask(ctx context.Context, subTaskID id.SubTaskID, name string) (*domain.SubTask, error) {
	subTask, err := s.repos.Tasks.UpdateSubTask(ctx, subTaskID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// CompleteSubTask marks a subtask done. Idempotent.
func (s *Service) CompleteSubTask(ctx context.Context, subTaskID id.SubTaskID) (*domain.SubTask, error) {
	subTask, err := s.repos.Tasks.SetSubTaskDone(ctx, subTaskID, true)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// UncompleteSubTask marks a subtask not done. Idempotent.
func (s *Service) UncompleteSubTask(ctx context.Context, subTaskID id.SubTaskID) (*domain.SubTask, error) {
	subTask, err := s.repos.Tasks.SetSubTaskDone(ctx, subTaskID, false)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// DeleteSubTask removes a single subtask.
func (s *Service) DeleteSubTask(ctx context.Context, subTaskID id.SubTaskID) error {
	if err := s.repos.Tasks.DeleteSubTask(ctx, subTaskID); err != nil {
		return coerce(err)
	}
	return nil
}

// callerID resolves the authenticated user from the request context.
func callerID(ctx context.Context) (id.UserID, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	return userID, nil
}
