package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Templates is the repository for task templates and their subtasks.
type Templates struct {
	store *storage.Store
}

// TemplateFilter selects ward-scoped or personal templates. Exactly one field
// is set; the facade validates that.
type TemplateFilter struct {
	WardID    *id.WardID
	CreatorID *id.UserID
}

// TemplateUpdate is a partial update; nil fields are left untouched.
type TemplateUpdate struct {
	Name            *string
	Notes           *string
	IsPublicVisible *bool
}

func (r *Templates) Find(_ context.Context, templateID id.TaskTemplateID) (*domain.TaskTemplate, error) {
	var out domain.TaskTemplate
	err := r.store.View(func(tx *storage.Tx) error {
		t, ok := tx.Templates().Get(templateID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Templates) FindMany(_ context.Context, filter TemplateFilter) []domain.TaskTemplate {
	var out []domain.TaskTemplate
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Templates().Where(func(t domain.TaskTemplate) bool {
			switch {
			case filter.WardID != nil:
				return t.WardID != nil && *t.WardID == *filter.WardID
			case filter.CreatorID != nil:
				return t.IsPersonal() && t.CreatorID == *filter.CreatorID
			default:
				return true
			}
		})
		return nil
	})
	return out
}

func (r *Templates) SubTasksOf(_ context.Context, templateID id.TaskTemplateID) []domain.TemplateSubTask {
	var out []domain.TemplateSubTask
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.TemplateSubTasks().Where(func(st domain.TemplateSubTask) bool {
			return st.TemplateID == templateID
		})
		return nil
	})
	return out
}

func (r *Templates) Create(ctx context.Context, wardID *id.WardID, name, notes string, creator id.UserID, public bool) (*domain.TaskTemplate, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	template := domain.TaskTemplate{
		ID:              id.TaskTemplateID(uuid.New()),
		WardID:          wardID,
		Name:            name,
		Notes:           notes,
		CreatorID:       creator,
		IsPublicVisible: public,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if wardID != nil {
			if _, ok := tx.Wards().Get(*wardID); !ok {
				return fmt.Errorf("ward %s: %w", *wardID, sentinel.ErrNotFound)
			}
		}
		tx.Templates().Insert(template.ID, template)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *Templates) Update(ctx context.Context, templateID id.TaskTemplateID, update TemplateUpdate) (*domain.TaskTemplate, error) {
	if update.Name != nil {
		valid, err := domain.ValidateName(*update.Name)
		if err != nil {
			return nil, err
		}
		update.Name = &valid
	}
	now := requestcontext.Now(ctx)
	var out domain.TaskTemplate
	err := r.store.Update(func(tx *storage.Tx) error {
		ok := tx.Templates().ReplaceKey(templateID, func(t domain.TaskTemplate) domain.TaskTemplate {
			if update.Name != nil {
				t.Name = *update.Name
			}
			if update.Notes != nil {
				t.Notes = *update.Notes
			}
			if update.IsPublicVisible != nil {
				t.IsPublicVisible = *update.IsPublicVisible
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

// Delete removes the template with its subtasks.
func (r *Templates) Delete(ctx context.Context, templateID id.TaskTemplateID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Templates().Get(templateID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindTemplate, uuid.UUID(templateID), now)
		return nil
	})
}

func (r *Templates) CreateSubTask(ctx context.Context, templateID id.TaskTemplateID, name string) (*domain.TemplateSubTask, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	st := domain.TemplateSubTask{
		ID:         id.TemplateSubTaskID(uuid.New()),
		TemplateID: templateID,
		Name:       name,
		CreatedAt:  now,
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Templates().Get(templateID); !ok {
			return fmt.Errorf("template %s: %w", templateID, sentinel.ErrNotFound)
		}
		tx.TemplateSubTasks().Insert(st.ID, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *Templates) UpdateSubTask(_ context.Context, subTaskID id.TemplateSubTaskID, name string) (*domain.TemplateSubTask, error) {
	name, err := domain.ValidateName(name)
	if err != nil {
		return nil, err
	}
	var out domain.TemplateSubTask
	err = r.store.Update(func(tx *storage.Tx) error {
		ok := tx.TemplateSubTasks().ReplaceKey(subTaskID, func(st domain.TemplateSubTask) domain.TemplateSubTask {
			st.Name = name
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

func (r *Templates) DeleteSubTask(_ context.Context, subTaskID id.TemplateSubTaskID) error {
	return r.store.Update(func(tx *storage.Tx) error {
		if !tx.TemplateSubTasks().RemoveKey(subTaskID) {
			return sentinel.ErrNotFound
		}
		return nil
	})
}
