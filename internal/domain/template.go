package domain

import (
	"time"

	id "wardflow/pkg/domain"
)

// TaskTemplate is a reusable task blueprint. A template with a WardID is
// shared within that ward; without one it is personal to its creator.
// Templates hold no completion state: their subtasks carry names only.
type TaskTemplate struct {
	ID              id.TaskTemplateID `json:"id"`
	WardID          *id.WardID        `json:"ward_id,omitempty"`
	Name            string            `json:"name"`
	Notes           string            `json:"notes"`
	CreatorID       id.UserID         `json:"creator_id"`
	IsPublicVisible bool              `json:"is_public_visible"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsPersonal reports whether the template belongs to its creator rather than
// a ward.
func (t *TaskTemplate) IsPersonal() bool {
	return t.WardID == nil
}

// TemplateSubTask belongs to exactly one task template.
type TemplateSubTask struct {
	ID         id.TemplateSubTaskID `json:"id"`
	TemplateID id.TaskTemplateID    `json:"template_id"`
	Name       string               `json:"name"`
	CreatedAt  time.Time            `json:"created_at"`
}
