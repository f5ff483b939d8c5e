package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"wardflow/internal/domain"
	"wardflow/internal/storage"
	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

type ValueSuite struct {
	suite.Suite
	repos   *Repositories
	ctx     context.Context
	subject id.SubjectID
}

func (s *ValueSuite) SetupTest() {
	s.repos = New(storage.New())
	s.ctx = context.Background()
	patient, err := s.repos.Patients.Create(s.ctx, "Maier", "")
	s.Require().NoError(err)
	s.subject = id.SubjectID(patient.ID)
}

func TestValueSuite(t *testing.T) {
	suite.Run(t, new(ValueSuite))
}

func (s *ValueSuite) multiSelect(optionNames ...string) *domain.Property {
	options := make([]OptionInput, 0, len(optionNames))
	for _, name := range optionNames {
		options = append(options, OptionInput{Name: name})
	}
	p, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
		SubjectType: domain.SubjectTypePatient,
		FieldType:   domain.FieldTypeMultiSelect,
		Name:        "Allergies",
		Options:     options,
	})
	s.Require().NoError(err)
	return p
}

// TestMultiSelectDelta pins the delta semantics: add on an empty prior value
// stores the set, a later remove shrinks it.
func (s *ValueSuite) TestMultiSelectDelta() {
	p := s.multiSelect("x", "y")
	x := p.SelectData.Options[0].ID
	y := p.SelectData.Options[1].ID

	stored, err := s.repos.Values.ApplyMultiSelectDelta(s.ctx, p.ID, domain.SubjectTypePatient,
		s.subject, []id.SelectOptionID{x, y}, nil)
	s.Require().NoError(err)
	s.Equal(domain.MultiSelectValue{x, y}, stored.Value)

	stored, err = s.repos.Values.ApplyMultiSelectDelta(s.ctx, p.ID, domain.SubjectTypePatient,
		s.subject, nil, []id.SelectOptionID{x})
	s.Require().NoError(err)
	s.Equal(domain.MultiSelectValue{y}, stored.Value)
}

func (s *ValueSuite) TestMultiSelectDeltaValidation() {
	p := s.multiSelect("x")

	s.Run("duplicate adds are ignored", func() {
		x := p.SelectData.Options[0].ID
		stored, err := s.repos.Values.ApplyMultiSelectDelta(s.ctx, p.ID, domain.SubjectTypePatient,
			s.subject, []id.SelectOptionID{x, x}, nil)
		s.Require().NoError(err)
		s.Equal(domain.MultiSelectValue{x}, stored.Value)
	})

	s.Run("delta on a single-select property is rejected", func() {
		single, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
			SubjectType: domain.SubjectTypePatient,
			FieldType:   domain.FieldTypeSingleSelect,
			Name:        "Diet",
			Options:     []OptionInput{{Name: "Regular"}},
		})
		s.Require().NoError(err)
		_, err = s.repos.Values.ApplyMultiSelectDelta(s.ctx, single.ID, domain.SubjectTypePatient,
			s.subject, nil, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidFieldType))
	})
}

func (s *ValueSuite) TestAttachReplacesPriorValue() {
	p, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
		SubjectType: domain.SubjectTypePatient,
		FieldType:   domain.FieldTypeText,
		Name:        "Mobility",
	})
	s.Require().NoError(err)

	_, err = s.repos.Values.Attach(s.ctx, p.ID, domain.SubjectTypePatient, s.subject,
		domain.TextValue("walker"))
	s.Require().NoError(err)
	_, err = s.repos.Values.Attach(s.ctx, p.ID, domain.SubjectTypePatient, s.subject,
		domain.TextValue("independent"))
	s.Require().NoError(err)

	values := s.repos.Values.FindBySubject(s.ctx, domain.SubjectTypePatient, s.subject)
	s.Require().Len(values, 1, "at most one value per (property, subject) pair")
	s.Equal(domain.TextValue("independent"), values[0].Value)
}

func (s *ValueSuite) TestAttachValidation() {
	s.Run("field type mismatch", func() {
		p, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
			SubjectType: domain.SubjectTypePatient,
			FieldType:   domain.FieldTypeNumber,
			Name:        "Weight",
		})
		s.Require().NoError(err)
		_, err = s.repos.Values.Attach(s.ctx, p.ID, domain.SubjectTypePatient, s.subject,
			domain.TextValue("not a number"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidFieldType))
	})

	s.Run("subject type mismatch", func() {
		p, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
			SubjectType: domain.SubjectTypeTask,
			FieldType:   domain.FieldTypeText,
			Name:        "Handover note",
		})
		s.Require().NoError(err)
		_, err = s.repos.Values.Attach(s.ctx, p.ID, domain.SubjectTypePatient, s.subject,
			domain.TextValue("x"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("multi-select replacement is rejected", func() {
		p := s.multiSelect("x")
		_, err := s.repos.Values.Attach(s.ctx, p.ID, domain.SubjectTypePatient, s.subject,
			domain.MultiSelectValue{p.SelectData.Options[0].ID})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("undefined option is rejected", func() {
		single, err := s.repos.Properties.Create(s.ctx, CreatePropertyParams{
			SubjectType: domain.SubjectTypePatient,
			FieldType:   domain.FieldTypeSingleSelect,
			Name:        "Diet",
			Options:     []OptionInput{{Name: "Regular"}},
		})
		s.Require().NoError(err)
		other := s.multiSelect("alien")
		_, err = s.repos.Values.Attach(s.ctx, single.ID, domain.SubjectTypePatient, s.subject,
			domain.SingleSelectValue(other.SelectData.Options[0].ID))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
