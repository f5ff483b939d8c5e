package transporthttp

import (
	"time"

	"wardflow/internal/domain"
	"wardflow/internal/service"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// valueBody is the wire shape of a property value: exactly one variant field
// set on input. multi_select appears on output only; deltas mutate it.
type valueBody struct {
	Text                 *string    `json:"text,omitempty"`
	Number               *float64   `json:"number,omitempty"`
	Checkbox             *bool      `json:"checkbox,omitempty"`
	Date                 *string    `json:"date,omitempty"`
	DateTime             *time.Time `json:"date_time,omitempty"`
	SingleSelectOptionID *string    `json:"single_select_option_id,omitempty"`
	MultiSelect          []string   `json:"multi_select,omitempty"`
}

// toDomain maps the wire value to the domain variant, rejecting payloads with
// zero or several variants set.
func (b valueBody) toDomain() (domain.Value, error) {
	var out domain.Value
	set := 0
	if b.Text != nil {
		out = domain.TextValue(*b.Text)
		set++
	}
	if b.Number != nil {
		out = domain.NumberValue(*b.Number)
		set++
	}
	if b.Checkbox != nil {
		out = domain.CheckboxValue(*b.Checkbox)
		set++
	}
	if b.Date != nil {
		ts, err := time.Parse(dateLayout, *b.Date)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeValidation, "date must match %s", dateLayout)
		}
		out = domain.DateValue(ts)
		set++
	}
	if b.DateTime != nil {
		out = domain.DateTimeValue(*b.DateTime)
		set++
	}
	if b.SingleSelectOptionID != nil {
		optionID, err := id.ParseSelectOptionID(*b.SingleSelectOptionID)
		if err != nil {
			return nil, err
		}
		out = domain.SingleSelectValue(optionID)
		set++
	}
	if len(b.MultiSelect) > 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			"multi-select values are mutated via add/remove deltas, not replacement")
	}
	if set != 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "exactly one value variant must be set")
	}
	return out, nil
}

func renderValue(v domain.Value) valueBody {
	var body valueBody
	switch value := v.(type) {
	case domain.TextValue:
		s := string(value)
		body.Text = &s
	case domain.NumberValue:
		n := float64(value)
		body.Number = &n
	case domain.CheckboxValue:
		b := bool(value)
		body.Checkbox = &b
	case domain.DateValue:
		s := time.Time(value).Format(dateLayout)
		body.Date = &s
	case domain.DateTimeValue:
		ts := time.Time(value)
		body.DateTime = &ts
	case domain.SingleSelectValue:
		s := id.SelectOptionID(value).String()
		body.SingleSelectOptionID = &s
	case domain.MultiSelectValue:
		body.MultiSelect = make([]string, 0, len(value))
		for _, optionID := range value {
			body.MultiSelect = append(body.MultiSelect, optionID.String())
		}
	}
	return body
}

type attachedValueResponse struct {
	PropertyID  id.PropertyID      `json:"property_id"`
	SubjectID   id.SubjectID       `json:"subject_id"`
	SubjectType domain.SubjectType `json:"subject_type"`
	Value       valueBody          `json:"value"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toAttachedValueResponse(v *domain.AttachedValue) attachedValueResponse {
	return attachedValueResponse{
		PropertyID:  v.PropertyID,
		SubjectID:   v.SubjectID,
		SubjectType: v.SubjectType,
		Value:       renderValue(v.Value),
		UpdatedAt:   v.UpdatedAt,
	}
}

type attachedValueEntryResponse struct {
	Property domain.Property       `json:"property"`
	Value    attachedValueResponse `json:"value"`
}

func toAttachedValueEntries(entries []service.AttachedValueEntry) []attachedValueEntryResponse {
	out := make([]attachedValueEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, attachedValueEntryResponse{
			Property: entries[i].Property,
			Value:    toAttachedValueResponse(&entries[i].Value),
		})
	}
	return out
}
