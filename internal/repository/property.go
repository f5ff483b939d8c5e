package repository

import (
	"context"

	"github.com/google/uuid"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/sentinel"
	"wardflow/pkg/requestcontext"
)

// Properties is the repository for the property aggregate. Select option ids
// are assigned here, at creation, and never reused.
type Properties struct {
	store *storage.Store
}

// OptionInput describes a new select option; the store assigns its id.
type OptionInput struct {
	Name        string
	Description string
	IsCustom    bool
}

// OptionUpdate is a partial update of an existing option.
type OptionUpdate struct {
	ID          id.SelectOptionID
	Name        *string
	Description *string
}

// OptionDelta mutates the option list of a select property.
type OptionDelta struct {
	Add    []OptionInput
	Update []OptionUpdate
	Remove []id.SelectOptionID
}

func (d OptionDelta) isEmpty() bool {
	return len(d.Add) == 0 && len(d.Update) == 0 && len(d.Remove) == 0
}

// CreatePropertyParams carries everything a new property needs.
type CreatePropertyParams struct {
	SubjectType        domain.SubjectType
	FieldType          domain.FieldType
	Name               string
	Description        string
	SetID              *string
	IsAllowingFreetext bool
	Options            []OptionInput
}

// PropertyUpdate is a partial update; nil fields are left untouched. The
// option delta only applies to select properties.
type PropertyUpdate struct {
	Name               *string
	Description        *string
	IsArchived         *bool
	SetID              *string
	IsAllowingFreetext *bool
	Options            OptionDelta
}

func (r *Properties) Find(_ context.Context, propertyID id.PropertyID) (*domain.Property, error) {
	var out domain.Property
	err := r.store.View(func(tx *storage.Tx) error {
		p, ok := tx.Properties().Get(propertyID)
		if !ok {
			return sentinel.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindBySubjectType returns the non-archived properties attachable to the
// given subject kind. Archived properties stay addressable by id via Find.
func (r *Properties) FindBySubjectType(_ context.Context, subjectType domain.SubjectType) []domain.Property {
	var out []domain.Property
	_ = r.store.View(func(tx *storage.Tx) error {
		out = tx.Properties().Where(func(p domain.Property) bool {
			return p.SubjectType == subjectType && !p.IsArchived
		})
		return nil
	})
	return out
}

func (r *Properties) Create(ctx context.Context, params CreatePropertyParams) (*domain.Property, error) {
	name, err := domain.ValidateName(params.Name)
	if err != nil {
		return nil, err
	}
	params.Name = name
	now := requestcontext.Now(ctx)
	property := domain.Property{
		ID:          id.PropertyID(uuid.New()),
		SubjectType: params.SubjectType,
		FieldType:   params.FieldType,
		Name:        params.Name,
		Description: params.Description,
		SetID:       params.SetID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.FieldType.IsSelect() {
		data := &domain.SelectData{IsAllowingFreetext: params.IsAllowingFreetext}
		for _, in := range params.Options {
			data.Options = append(data.Options, domain.SelectOption{
				ID:          id.SelectOptionID(uuid.New()),
				Name:        in.Name,
				Description: in.Description,
				IsCustom:    in.IsCustom,
			})
		}
		property.SelectData = data
	}
	if err := property.ValidateShape(); err != nil {
		return nil, err
	}
	err = r.store.Update(func(tx *storage.Tx) error {
		tx.Properties().Insert(property.ID, property)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Update applies a partial update including select option deltas. Option
// removal also scrubs the removed ids out of attached values, so no value
// ever references an option its property no longer defines.
func (r *Properties) Update(ctx context.Context, propertyID id.PropertyID, update PropertyUpdate) (*domain.Property, error) {
	if update.Name != nil {
		valid, err := domain.ValidateName(*update.Name)
		if err != nil {
			return nil, err
		}
		update.Name = &valid
	}
	now := requestcontext.Now(ctx)
	var out domain.Property
	err := r.store.Update(func(tx *storage.Tx) error {
		p, ok := tx.Properties().Get(propertyID)
		if !ok {
			return sentinel.ErrNotFound
		}
		if (!update.Options.isEmpty() || update.IsAllowingFreetext != nil) && !p.FieldType.IsSelect() {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"property %s has field type %s and carries no select options", p.ID, p.FieldType)
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Description != nil {
			p.Description = *update.Description
		}
		if update.IsArchived != nil {
			p.IsArchived = *update.IsArchived
		}
		if update.SetID != nil {
			p.SetID = update.SetID
		}
		if p.FieldType.IsSelect() {
			if update.IsAllowingFreetext != nil {
				p.SelectData.IsAllowingFreetext = *update.IsAllowingFreetext
			}
			if err := applyOptionDelta(tx, &p, update.Options); err != nil {
				return err
			}
		}
		if err := p.ValidateShape(); err != nil {
			return err
		}
		p.UpdatedAt = now
		tx.Properties().Insert(p.ID, p)
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the property and every value attached under it.
func (r *Properties) Delete(ctx context.Context, propertyID id.PropertyID) error {
	now := requestcontext.Now(ctx)
	return r.store.Update(func(tx *storage.Tx) error {
		if _, ok := tx.Properties().Get(propertyID); !ok {
			return sentinel.ErrNotFound
		}
		cascadeDelete(tx, kindProperty, uuid.UUID(propertyID), now)
		return nil
	})
}

func applyOptionDelta(tx *storage.Tx, p *domain.Property, delta OptionDelta) error {
	data := *p.SelectData
	options := append([]domain.SelectOption(nil), data.Options...)

	for _, upd := range delta.Update {
		found := false
		for i := range options {
			if options[i].ID == upd.ID {
				if upd.Name != nil {
					options[i].Name = *upd.Name
				}
				if upd.Description != nil {
					options[i].Description = *upd.Description
				}
				found = true
				break
			}
		}
		if !found {
			return dErrors.Newf(dErrors.CodeNotFound,
				"option %s is not defined on property %s", upd.ID, p.ID)
		}
	}

	for _, in := range delta.Add {
		options = append(options, domain.SelectOption{
			ID:          id.SelectOptionID(uuid.New()),
			Name:        in.Name,
			Description: in.Description,
			IsCustom:    in.IsCustom,
		})
	}

	if len(delta.Remove) > 0 {
		removed := make(map[id.SelectOptionID]struct{}, len(delta.Remove))
		for _, optionID := range delta.Remove {
			removed[optionID] = struct{}{}
		}
		kept := options[:0]
		for _, opt := range options {
			if _, drop := removed[opt.ID]; !drop {
				kept = append(kept, opt)
			}
		}
		options = kept
		scrubRemovedOptions(tx, p.ID, removed)
	}

	data.Options = options
	p.SelectData = &data
	return nil
}

// scrubRemovedOptions drops dangling option references from attached values:
// single-select values pointing at a removed option are deleted, multi-select
// sets are filtered.
func scrubRemovedOptions(tx *storage.Tx, propertyID id.PropertyID, removed map[id.SelectOptionID]struct{}) {
	tx.Values().Remove(func(v domain.AttachedValue) bool {
		if v.PropertyID != propertyID {
			return false
		}
		single, ok := v.Value.(domain.SingleSelectValue)
		if !ok {
			return false
		}
		_, drop := removed[id.SelectOptionID(single)]
		return drop
	})
	tx.Values().Replace(
		func(v domain.AttachedValue) bool {
			if v.PropertyID != propertyID {
				return false
			}
			multi, ok := v.Value.(domain.MultiSelectValue)
			if !ok {
				return false
			}
			for _, optionID := range multi {
				if _, drop := removed[optionID]; drop {
					return true
				}
			}
			return false
		},
		func(v domain.AttachedValue) domain.AttachedValue {
			multi := v.Value.(domain.MultiSelectValue)
			kept := make(domain.MultiSelectValue, 0, len(multi))
			for _, optionID := range multi {
				if _, drop := removed[optionID]; !drop {
					kept = append(kept, optionID)
				}
			}
			v.Value = kept
			return v
		},
	)
}
