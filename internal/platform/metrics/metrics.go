package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the clinic server.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	reminderScans    prometheus.Counter
	remindersSent    prometheus.Counter
	reminderFailures prometheus.Counter
}

// New creates a dedicated Prometheus registry and registers all application
// metrics in it. Using a private registry avoids "duplicate collector" panics
// when New is called more than once (e.g. in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clinic_request_duration_seconds",
				Help:    "Duration of HTTP requests by method and path.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_requests_total",
				Help: "Total HTTP requests processed.",
			},
			[]string{"method", "status"},
		),
		reminderScans: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clinic_reminder_scans_total",
				Help: "Total reminder scanner ticks executed.",
			},
		),
		remindersSent: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clinic_reminders_sent_total",
				Help: "Total appointment reminder notifications created.",
			},
		),
		reminderFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clinic_reminder_failures_total",
				Help: "Total per-appointment reminder failures.",
			},
		),
	}
}

// ObserveScan records one scanner tick with its per-item outcomes.
func (m *Metrics) ObserveScan(sent, failed int) {
	m.reminderScans.Inc()
	m.remindersSent.Add(float64(sent))
	m.reminderFailures.Add(float64(failed))
}

// Middleware records request counts and durations for every handled request.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			m.requestsTotal.WithLabelValues(c.Request().Method, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(c.Request().Method, c.Path()).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
