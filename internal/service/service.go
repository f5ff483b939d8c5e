// Package service is the facade the transport layer talks to. It validates
// input at the trust boundary, delegates aggregate rules to the repositories,
// and translates store sentinels into coded domain errors so callers never
// see raw storage errors.
package service

import (
	"errors"
	"log/slog"

	"wardflow/internal/platform/metrics"
	"wardflow/internal/repository"
	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/sentinel"
)

// Service orchestrates all ward, patient, task, template, and property
// operations over one repository bundle.
type Service struct {
	repos   *repository.Repositories
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(repos *repository.Repositories, opts ...Option) *Service {
	s := &Service{repos: repos, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// coerce translates repository errors for external callers: sentinels become
// coded errors, already-coded errors pass through, anything else is internal.
func coerce(err error) error {
	if err == nil {
		return nil
	}
	if dErrors.IsCoded(err) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, err.Error())
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, err.Error())
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, err.Error())
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
}
