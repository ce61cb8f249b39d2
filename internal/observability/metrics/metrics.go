package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics instruments the task server: generic HTTP counters plus the
// answer-pipeline outcomes the on-call actually looks at.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	tasksTotal      *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	answerDuration  prometheus.Histogram
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wiki",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wiki",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "wiki",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	tasksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wiki",
			Subsystem: "agent",
			Name:      "tasks_total",
			Help:      "Total answered tasks by final state.",
		},
		[]string{"service", "state"},
	)
	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "wiki",
			Subsystem:   "agent",
			Name:        "active_sessions",
			Help:        "Number of live conversation sessions.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	answerDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "wiki",
			Subsystem:   "agent",
			Name:        "answer_duration_seconds",
			Help:        "End-to-end answer pipeline duration in seconds.",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		tasksTotal,
		activeSessions,
		answerDuration,
	)

	return &ServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		tasksTotal:      tasksTotal,
		activeSessions:  activeSessions,
		answerDuration:  answerDuration,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) ObserveRequest(service, method, path string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

func (m *ServerMetrics) RequestStarted()  { m.requestInFlight.Inc() }
func (m *ServerMetrics) RequestFinished() { m.requestInFlight.Dec() }

func (m *ServerMetrics) ObserveTask(service, state string, duration time.Duration) {
	m.tasksTotal.WithLabelValues(service, state).Inc()
	m.answerDuration.Observe(duration.Seconds())
}

func (m *ServerMetrics) SessionOpened() { m.activeSessions.Inc() }
func (m *ServerMetrics) SessionClosed() { m.activeSessions.Dec() }
