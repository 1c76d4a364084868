// Package metrics exposes Prometheus collectors for the HTTP surface, the
// activity-log event stream and background jobs.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bondvoyage"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	events        *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec

	exports          *prometheus.CounterVec
	retentionDeleted prometheus.Counter
	retentionRuns    *prometheus.CounterVec
}

// New builds a registry of its own so tests and multiple services in one
// process never collide on the global registerer.
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_in_flight",
			Help:        "HTTP requests currently being served.",
			ConstLabels: constLabels,
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "events",
			Name:        "total",
			Help:        "Activity-log events by direction (published, consumed) and outcome.",
			ConstLabels: constLabels,
		}, []string{"direction", "outcome"}),
		eventDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "events",
			Name:        "duration_seconds",
			Help:        "Time spent publishing or handling one event.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"direction"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "exports",
			Name:        "total",
			Help:        "Rendered report exports by resource and format.",
			ConstLabels: constLabels,
		}, []string{"resource", "format"}),
		retentionDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "retention",
			Name:        "deleted_total",
			Help:        "Activity-log entries removed by the retention job.",
			ConstLabels: constLabels,
		}),
		retentionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "retention",
			Name:        "runs_total",
			Help:        "Retention job runs by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.events,
		m.eventDuration,
		m.exports,
		m.retentionDeleted,
		m.retentionRuns,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Middleware records count, latency and in-flight gauge per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := Route(r.URL.Path)
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveEvent(direction, outcome string, d time.Duration) {
	m.events.WithLabelValues(direction, outcome).Inc()
	m.eventDuration.WithLabelValues(direction).Observe(d.Seconds())
}

func (m *Metrics) ExportRendered(resource, format string) {
	m.exports.WithLabelValues(resource, format).Inc()
}

func (m *Metrics) RetentionRun(deleted int64, err error) {
	if err != nil {
		m.retentionRuns.WithLabelValues("failed").Inc()
		return
	}
	m.retentionRuns.WithLabelValues("success").Inc()
	m.retentionDeleted.Add(float64(deleted))
}

var (
	reObjectID = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	reUUID     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Route collapses ids and page slugs so label cardinality stays bounded:
// /api/v1/bookings/id/<oid>/payments/<uuid>/verify becomes
// /api/v1/bookings/id/:id/payments/:paymentId/verify.
func Route(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		prev := ""
		if i > 0 {
			prev = segments[i-1]
		}
		switch {
		case reObjectID.MatchString(seg):
			segments[i] = ":id"
		case reUUID.MatchString(seg):
			segments[i] = ":paymentId"
		case prev == "id" && seg != "":
			segments[i] = ":id"
		case prev == "page" && seg != "":
			segments[i] = ":page"
		}
	}
	return strings.Join(segments, "/")
}
