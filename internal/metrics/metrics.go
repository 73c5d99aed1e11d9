// Package metrics exposes Prometheus collectors for HTTP traffic and booking
// activity.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/campus-booking/internal/persistence"
)

const namespace = "campus_booking"

// Recorder owns a private registry so tests and multiple servers in one
// process do not collide on collector registration.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bookingsCreated *prometheus.CounterVec
	bookingsCancel  prometheus.Counter
	conflicts       *prometheus.CounterVec
}

// New registers all collectors, including the Go runtime and process
// collectors, on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created by resource type.",
		}, []string{"resource_type"}),
		bookingsCancel: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Overlapping booking requests, split by whether they were rejected.",
		}, []string{"rejected"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.requestDuration,
		r.bookingsCreated,
		r.bookingsCancel,
		r.conflicts,
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the exposition format for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// BookingCreated counts a stored booking. Resource types are client-defined,
// so only the seeded catalogue types get their own label value.
func (r *Recorder) BookingCreated(resourceType string) {
	r.bookingsCreated.WithLabelValues(resourceTypeLabel(resourceType)).Inc()
}

var knownResourceTypes = func() map[string]string {
	known := make(map[string]string)
	for _, resource := range persistence.SeedResources() {
		known[strings.ToLower(resource.Type)] = resource.Type
	}
	return known
}()

func resourceTypeLabel(resourceType string) string {
	trimmed := strings.TrimSpace(resourceType)
	if trimmed == "" {
		return "unknown"
	}
	if label, ok := knownResourceTypes[strings.ToLower(trimmed)]; ok {
		return label
	}
	return "other"
}

// BookingCancelled counts a removed booking.
func (r *Recorder) BookingCancelled() {
	r.bookingsCancel.Inc()
}

// ConflictDetected counts an overlapping booking request.
func (r *Recorder) ConflictDetected(rejected bool) {
	r.conflicts.WithLabelValues(strconv.FormatBool(rejected)).Inc()
}

// Middleware records request counts and latency. Routes are labelled with
// the chi route pattern rather than the raw path to bound cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		r.requests.WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).Inc()
		r.requestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
