package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application collectors
type Metrics struct {
	// HTTP requests by method, path and status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency by method and path
	HTTPRequestDuration *prometheus.HistogramVec

	// Participation admissions by resulting status (PENDING, CONFIRMED, REJECTED, CANCELED, error kinds)
	ParticipationRequestsTotal *prometheus.CounterVec

	// Event state actions by action and result (success, rejected)
	EventTransitionsTotal *prometheus.CounterVec

	// Rating submissions by result (success, duplicate, denied, error)
	RatingsTotal *prometheus.CounterVec

	// Distributed lock operations (operation: acquire/release, status: success/failed)
	DistributedLockDuration *prometheus.HistogramVec

	// Events moved to COMPLETED by the sweeper
	EventsCompletedTotal prometheus.Counter
}

// New creates Metrics registered on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ParticipationRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_requests_total",
				Help: "Participation request decisions by status",
			},
			[]string{"status"},
		),
		EventTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_transitions_total",
				Help: "Event state actions by action and result",
			},
			[]string{"action", "result"},
		),
		RatingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratings_total",
				Help: "Rating submissions by result",
			},
			[]string{"result"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		EventsCompletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "events_completed_total",
				Help: "Events completed by the background sweeper",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ParticipationRequestsTotal,
		m.EventTransitionsTotal,
		m.RatingsTotal,
		m.DistributedLockDuration,
		m.EventsCompletedTotal,
	)

	return m
}

// The helpers below accept a nil receiver so services can run without metrics.

func (m *Metrics) ObserveParticipation(status string) {
	if m == nil {
		return
	}
	m.ParticipationRequestsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.EventTransitionsTotal.WithLabelValues(action, result).Inc()
}

func (m *Metrics) ObserveRating(result string) {
	if m == nil {
		return
	}
	m.RatingsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLock(operation, status string, started time.Time) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AddCompleted(n int) {
	if m == nil {
		return
	}
	m.EventsCompletedTotal.Add(float64(n))
}

var defaultMetrics *Metrics

// Init creates the default instance
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default instance
func Get() *Metrics {
	return defaultMetrics
}
