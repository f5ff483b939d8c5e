// Package transporthttp is the thin HTTP layer over the service facade. It
// decodes payloads, parses ids at the boundary, and delegates; no clinical
// rule lives here.
package transporthttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardflow/internal/platform/metrics"
	"wardflow/internal/platform/middleware"
	"wardflow/internal/service"
)

// Handler wires every route to the service facade.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// New constructs the HTTP handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// NewRouter builds the full router: open health and metrics endpoints, and
// the authenticated API.
func NewRouter(h *Handler, validator middleware.TokenValidator, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Register(r)
	})
	return r
}

// Register mounts the API routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/wards", func(r chi.Router) {
		r.Get("/", h.handleListWards)
		r.Post("/", h.handleCreateWard)
		r.Get("/overviews", h.handleWardOverviews)
		r.Route("/{wardID}", func(r chi.Router) {
			r.Get("/", h.handleGetWard)
			r.Patch("/", h.handleUpdateWard)
			r.Delete("/", h.handleDeleteWard)
			r.Get("/details", h.handleWardDetails)
			r.Get("/room-overviews", h.handleRoomOverviews)
			r.Get("/patients", h.handlePatientsByWard)
			r.Get("/patient-assignments", h.handlePatientAssignments)
			r.Get("/task-templates", h.handleWardTemplates)
		})
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.handleCreateRoom)
		r.Route("/{roomID}", func(r chi.Router) {
			r.Get("/", h.handleGetRoom)
			r.Patch("/", h.handleUpdateRoom)
			r.Delete("/", h.handleDeleteRoom)
		})
	})

	r.Route("/beds", func(r chi.Router) {
		r.Get("/", h.handleListBeds)
		r.Post("/", h.handleCreateBed)
		r.Route("/{bedID}", func(r chi.Router) {
			r.Get("/", h.handleGetBed)
			r.Patch("/", h.handleUpdateBed)
			r.Delete("/", h.handleDeleteBed)
		})
	})

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", h.handlePatientList)
		r.Post("/", h.handleCreatePatient)
		r.Get("/recent", h.handleRecentPatients)
		r.Route("/{patientID}", func(r chi.Router) {
			r.Get("/", h.handlePatientDetails)
			r.Patch("/", h.handleUpdatePatient)
			r.Delete("/", h.handleDeletePatient)
			r.Get("/tasks", h.handleTasksByPatient)
			r.Post("/assign-bed", h.handleAssignBed)
			r.Post("/unassign-bed", h.handleUnassignBed)
			r.Post("/discharge", h.handleDischarge)
			r.Post("/readmit", h.handleReadmit)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.handleCreateTask)
		r.Get("/assigned-to-me", h.handleTasksAssignedToCaller)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Get("/", h.handleGetTask)
			r.Patch("/", h.handleUpdateTask)
			r.Delete("/", h.handleDeleteTask)
			r.Post("/assign", h.handleAssignTask)
			r.Post("/unassign", h.handleUnassignTask)
			r.Post("/subtasks", h.handleCreateSubTask)
		})
	})
	r.Route("/subtasks/{subTaskID}", func(r chi.Router) {
		r.Patch("/", h.handleUpdateSubTask)
		r.Delete("/", h.handleDeleteSubTask)
		r.Post("/complete", h.handleCompleteSubTask)
		r.Post("/uncomplete", h.handleUncompleteSubTask)
	})

	r.Route("/task-templates", func(r chi.Router) {
		r.Get("/personal", h.handlePersonalTemplates)
		r.Post("/", h.handleCreateTemplate)
		r.Route("/{templateID}", func(r chi.Router) {
			r.Get("/", h.handleGetTemplate)
			r.Patch("/", h.handleUpdateTemplate)
			r.Delete("/", h.handleDeleteTemplate)
			r.Post("/subtasks", h.handleCreateTemplateSubTask)
			r.Post("/instantiate", h.handleInstantiateTemplate)
		})
	})
	r.Route("/template-subtasks/{subTaskID}", func(r chi.Router) {
		r.Patch("/", h.handleUpdateTemplateSubTask)
		r.Delete("/", h.handleDeleteTemplateSubTask)
	})

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", h.handleListProperties)
		r.Post("/", h.handleCreateProperty)
		r.Route("/{propertyID}", func(r chi.Router) {
			r.Get("/", h.handleGetProperty)
			r.Patch("/", h.handleUpdateProperty)
			r.Delete("/", h.handleDeleteProperty)
		})
	})

	r.Route("/values/{subjectType}/{subjectID}", func(r chi.Router) {
		r.Get("/", h.handleGetAttachedValues)
		r.Put("/{propertyID}", h.handleAttachValue)
		r.Post("/{propertyID}/delta", h.handleMultiSelectDelta)
	})
}
