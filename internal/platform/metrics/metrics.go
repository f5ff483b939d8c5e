// Package metrics provides observability for the service facade and the HTTP
// edge. Counters track the mutations that change clinical state; the
// histogram tracks request latency per route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	WardsCreated    prometheus.Counter
	PatientsCreated prometheus.Counter
	BedAssignments  prometheus.Counter
	Discharges      prometheus.Counter
	TasksCreated    prometheus.Counter
	CascadeDeletes  *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

// New registers all wardflow metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		WardsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardflow_wards_created_total",
			Help: "Total number of wards created",
		}),
		PatientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardflow_patients_created_total",
			Help: "Total number of patients created",
		}),
		BedAssignments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardflow_bed_assignments_total",
			Help: "Total number of bed (re)assignments",
		}),
		Discharges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardflow_patient_discharges_total",
			Help: "Total number of patient discharges",
		}),
		TasksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardflow_tasks_created_total",
			Help: "Total number of tasks created",
		}),
		CascadeDeletes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wardflow_cascade_deletes_total",
			Help: "Total number of cascade deletes by aggregate",
		}, []string{"aggregate"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wardflow_http_request_duration_seconds",
			Help:    "HTTP request duration by route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
	}
}

// ObserveRequest records one HTTP request. Call with time.Now() taken at the
// start of the request.
func (m *Metrics) ObserveRequest(route, method string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}
