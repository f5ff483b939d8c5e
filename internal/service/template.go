package service

import (
	"context"

	"wardflow/internal/domain"
	"wardflow/internal/repository"
	id "wardflow/pkg/domain"
)

// TemplateWithSubTasks pairs a template with its subtask blueprints.
type TemplateWithSubTasks struct {
	Template domain.TaskTemplate      `json:"template"`
	SubTasks []domain.TemplateSubTask `json:"subtasks"`
}

// GetTemplate returns a single template with its subtasks.
func (s *Service) GetTemplate(ctx context.Context, templateID id.TaskTemplateID) (*TemplateWithSubTasks, error) {
	template, err := s.repos.Templates.Find(ctx, templateID)
	if err != nil {
		return nil, coerce(err)
	}
	return &TemplateWithSubTasks{Template: *template, SubTasks: s.repos.Templates.SubTasksOf(ctx, templateID)}, nil
}

// GetWardTemplates returns the templates shared within a ward. The ward must
// exist.
func (s *Service) GetWardTemplates(ctx context.Context, wardID id.WardID) ([]TemplateWithSubTasks, error) {
	if _, err := s.repos.Wards.Find(ctx, wardID); err != nil {
		return nil, coerce(err)
	}
	wid := wardID
	return s.expandTemplates(ctx, repository.TemplateFilter{WardID: &wid}), nil
}

// GetPersonalTemplates returns the caller's personal templates.
func (s *Service) GetPersonalTemplates(ctx context.Context) ([]TemplateWithSubTasks, error) {
	creatorID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.expandTemplates(ctx, repository.TemplateFilter{CreatorID: &creatorID}), nil
}

// CreateTemplate creates a template. With a ward id it is shared within that
// ward; without one it is personal to the caller.
func (s *Service) CreateTemplate(ctx context.Context, wardID *id.WardID, name, notes string, public bool) (*domain.TaskTemplate, error) {
	creatorID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	template, err := s.repos.Templates.Create(ctx, wardID, name, notes, creatorID, public)
	if err != nil {
		return nil, coerce(err)
	}
	s.logger.InfoContext(ctx, "task template created", "template_id", template.ID)
	return template, nil
}

// UpdateTemplate partially updates a template; nil fields are untouched.
func (s *Service) UpdateTemplate(ctx context.Context, templateID id.TaskTemplateID, update repository.TemplateUpdate) (*domain.TaskTemplate, error) {
	template, err := s.repos.Templates.Update(ctx, templateID, update)
	if err != nil {
		return nil, coerce(err)
	}
	return template, nil
}

// DeleteTemplate removes a template and its subtask blueprints.
func (s *Service) DeleteTemplate(ctx context.Context, templateID id.TaskTemplateID) error {
	if err := s.repos.Templates.Delete(ctx, templateID); err != nil {
		return coerce(err)
	}
	return nil
}

// CreateTemplateSubTask appends a subtask blueprint to a template.
func (s *Service) CreateTemplateSubTask(ctx context.Context, templateID id.TaskTemplateID, name string) (*domain.TemplateSubTask, error) {
	subTask, err := s.repos.Templates.CreateSubTask(ctx, templateID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// UpdateTemplateSubTask renames a subtask blueprint.
func (s *Service) UpdateTemplateSubTask(ctx context.Context, subTaskID id.TemplateSubTaskID, name string) (*domain.TemplateSubTask, error) {
	subTask, err := s.repos.Templates.UpdateSubTask(ctx, subTaskID, name)
	if err != nil {
		return nil, coerce(err)
	}
	return subTask, nil
}

// DeleteTemplateSubTask removes a subtask blueprint.
func (s *Service) DeleteTemplateSubTask(ctx context.Context, subTaskID id.TemplateSubTaskID) error {
	if err := s.repos.Templates.DeleteSubTask(ctx, subTaskID); err != nil {
		return coerce(err)
	}
	return nil
}

// CreateTaskFromTemplate instantiates a template as a concrete task for a
// patient: the template's subtask names become fresh, not-done subtasks.
func (s *Service) CreateTaskFromTemplate(ctx context.Context, templateID id.TaskTemplateID, patientID id.PatientID) (*TaskWithSubTasks, error) {
	template, err := s.repos.Templates.Find(ctx, templateID)
	if err != nil {
		return nil, coerce(err)
	}
	names := make([]string, 0)
	for _, subTask := range s.repos.Templates.SubTasksOf(ctx, templateID) {
		names = append(names, subTask.Name)
	}
	return s.CreateTask(ctx, CreateTaskInput{
		PatientID:       patientID,
		Name:            template.Name,
		Notes:           template.Notes,
		Status:          domain.TaskStatusTodo,
		IsPublicVisible: template.IsPublicVisible,
		SubTaskNames:    names,
	})
}

func (s *Service) expandTemplates(ctx context.Context, filter repository.TemplateFilter) []TemplateWithSubTasks {
	out := make([]TemplateWithSubTasks, 0)
	for _, template := range s.repos.Templates.FindMany(ctx, filter) {
		out = append(out, TemplateWithSubTasks{
			Template: template,
			SubTasks: s.repos.Templates.SubTasksOf(ctx, template.ID),
		})
	}
	return out
}
