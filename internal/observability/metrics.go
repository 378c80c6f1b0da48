package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the API and push worker.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal         *prometheus.CounterVec
	httpRequestDuration       *prometheus.HistogramVec
	appealDecisionsTotal      *prometheus.CounterVec
	cascadeFailuresTotal      prometheus.Counter
	eventPublishFailuresTotal prometheus.Counter
	pushDeliveredTotal        prometheus.Counter
	pushFailedTotal           *prometheus.CounterVec
	pushDuration              prometheus.Histogram
	workerInflight            prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "legalis_admin",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		appealDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "appeal_decisions_total",
				Help:      "Total number of committed appeal decisions by outcome.",
			},
			[]string{"decision"},
		),
		cascadeFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "appeal_cascade_failures_total",
				Help:      "Total number of decision cascades rolled back.",
			},
		),
		eventPublishFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "appeal_event_publish_failures_total",
				Help:      "Total number of decision events that failed to publish.",
			},
		),
		pushDeliveredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "push_delivered_total",
				Help:      "Total number of decision notifications delivered to the push gateway.",
			},
		),
		pushFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalis_admin",
				Name:      "push_failed_total",
				Help:      "Total number of decision notifications that ended in failed delivery.",
			},
			[]string{"reason"},
		),
		pushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "legalis_admin",
				Name:      "push_duration_seconds",
				Help:      "Push gateway call duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		workerInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "legalis_admin",
				Name:      "worker_inflight",
				Help:      "Current number of in-flight push deliveries.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.appealDecisionsTotal,
		m.cascadeFailuresTotal,
		m.eventPublishFailuresTotal,
		m.pushDeliveredTotal,
		m.pushFailedTotal,
		m.pushDuration,
		m.workerInflight,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncAppealDecision(decision string) {
	if m == nil {
		return
	}
	label := strings.TrimSpace(strings.ToLower(decision))
	if label == "" {
		label = "unknown"
	}
	m.appealDecisionsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) IncCascadeFailure() {
	if m == nil {
		return
	}
	m.cascadeFailuresTotal.Inc()
}

func (m *Metrics) IncEventPublishFailure() {
	if m == nil {
		return
	}
	m.eventPublishFailuresTotal.Inc()
}

func (m *Metrics) IncPushDelivered() {
	if m == nil {
		return
	}
	m.pushDeliveredTotal.Inc()
}

func (m *Metrics) IncPushFailed(reason string) {
	if m == nil {
		return
	}
	reasonLabel := strings.TrimSpace(strings.ToLower(reason))
	if reasonLabel == "" {
		reasonLabel = "unknown"
	}
	m.pushFailedTotal.WithLabelValues(reasonLabel).Inc()
}

func (m *Metrics) ObservePushDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.pushDuration.Observe(seconds)
}

func (m *Metrics) IncWorkerInFlight() {
	if m == nil {
		return
	}
	m.workerInflight.Inc()
}

func (m *Metrics) DecWorkerInFlight() {
	if m == nil {
		return
	}
	m.workerInflight.Dec()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}
