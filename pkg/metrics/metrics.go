package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "radio_cms"

// Metrics owns a private registry. All methods are safe on a nil receiver so
// components can be built without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	menuCacheHits   *prometheus.CounterVec
	menuCacheMisses *prometheus.CounterVec

	notifyPublished *prometheus.CounterVec
	notifyDelivered *prometheus.CounterVec
	notifyDropped   *prometheus.CounterVec
	observers       prometheus.Gauge

	jobRuns *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		menuCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_cache_hits_total",
			Help:      "Resolved menu trees served from cache.",
		}, []string{"menu_type"}),
		menuCacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_cache_misses_total",
			Help:      "Resolved menu trees built from storage.",
		}, []string{"menu_type"}),
		notifyPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_published_total",
			Help:      "Notification events handed to the fan-out.",
		}, []string{"type"}),
		notifyDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Notification frames queued to an observer.",
		}, []string{"room"}),
		notifyDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notification frames dropped because an observer buffer was full.",
		}, []string{"room"}),
		observers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_observers",
			Help:      "Connected real-time observers.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_job_runs_total",
			Help:      "Scheduled job executions by job and outcome.",
		}, []string{"job", "outcome"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.menuCacheHits,
		m.menuCacheMisses,
		m.notifyPublished,
		m.notifyDelivered,
		m.notifyDropped,
		m.observers,
		m.jobRuns,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Middleware records request count and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) MenuCacheHit(menuType string) {
	if m == nil {
		return
	}
	m.menuCacheHits.WithLabelValues(menuType).Inc()
}

func (m *Metrics) MenuCacheMiss(menuType string) {
	if m == nil {
		return
	}
	m.menuCacheMisses.WithLabelValues(menuType).Inc()
}

func (m *Metrics) NotificationPublished(eventType string) {
	if m == nil {
		return
	}
	m.notifyPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) NotificationDelivered(room string) {
	if m == nil {
		return
	}
	m.notifyDelivered.WithLabelValues(room).Inc()
}

func (m *Metrics) NotificationDropped(room string) {
	if m == nil {
		return
	}
	m.notifyDropped.WithLabelValues(room).Inc()
}

func (m *Metrics) ObserverConnected() {
	if m == nil {
		return
	}
	m.observers.Inc()
}

func (m *Metrics) ObserverDisconnected() {
	if m == nil {
		return
	}
	m.observers.Dec()
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}
