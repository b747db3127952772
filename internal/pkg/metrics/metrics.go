// Package metrics exposes Prometheus instruments for allocation runs and
// document rendering.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "examseating"

// Document kinds used as the "kind" label
const (
	KindRoomSeating = "room_seating_pdf"
	KindHallTicket  = "hall_ticket_pdf"
	KindHallTickets = "hall_tickets_zip"
	KindWorkbook    = "allocation_xlsx"
)

// Recorder owns a registry and the instruments registered on it
type Recorder struct {
	registry *prometheus.Registry

	allocations        *prometheus.CounterVec
	seatsAssigned      prometheus.Counter
	unseatedStudents   prometheus.Counter
	allocationDuration prometheus.Histogram
	documents          *prometheus.CounterVec
	uploads            *prometheus.CounterVec
}

// NewRecorder creates a Recorder with process and Go runtime collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Allocation runs by outcome.",
		}, []string{"outcome"}),
		seatsAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_assigned_total",
			Help:      "Seats handed out across all allocation runs.",
		}),
		unseatedStudents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unseated_students_total",
			Help:      "Students left without a seat because rooms ran out.",
		}),
		allocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_duration_seconds",
			Help:      "Time spent in the allocator.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Rendered documents by kind.",
		}, []string{"kind"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Accepted uploads by table.",
		}, []string{"table"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.allocations,
		r.seatsAssigned,
		r.unseatedStudents,
		r.allocationDuration,
		r.documents,
		r.uploads,
	)
	return r
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveAllocation records one allocation run. outcome is "stored" or
// "rejected".
func (r *Recorder) ObserveAllocation(outcome string, seated, unseated int, took time.Duration) {
	if r == nil {
		return
	}
	r.allocations.WithLabelValues(outcome).Inc()
	r.seatsAssigned.Add(float64(seated))
	r.unseatedStudents.Add(float64(unseated))
	r.allocationDuration.Observe(took.Seconds())
}

// DocumentGenerated counts one rendered document of kind
func (r *Recorder) DocumentGenerated(kind string) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(kind).Inc()
}

// Uploaded counts one accepted upload of table
func (r *Recorder) Uploaded(table string) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(table).Inc()
}
