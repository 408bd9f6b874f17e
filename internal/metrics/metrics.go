package metrics

import (
	"net/http"
	"strconv"
	"time"

	"running-events-backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服務自己的 registry，避免測試間共用 default registry
type Metrics struct {
	registry *prometheus.Registry

	cleanupDeletions  *prometheus.CounterVec
	cleanupGroups     *prometheus.CounterVec
	cleanupUnresolved prometheus.Counter
	cleanupRuns       *prometheus.CounterVec
	cleanupDuration   prometheus.Histogram
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.cleanupDeletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "cleanup",
		Name:      "deletions_total",
		Help:      "Duplicate events handled by cleanup runs, by method and outcome",
	}, []string{"method", "outcome"})
	m.cleanupGroups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "cleanup",
		Name:      "groups_total",
		Help:      "Duplicate groups found by cleanup runs",
	}, []string{"method"})
	m.cleanupUnresolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "cleanup",
		Name:      "unresolved_total",
		Help:      "Suffixed slug groups without an original event",
	})
	m.cleanupRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "cleanup",
		Name:      "runs_total",
		Help:      "Cleanup runs, by mode",
	}, []string{"mode"})
	m.cleanupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "events",
		Subsystem: "cleanup",
		Name:      "run_duration_seconds",
		Help:      "Time spent in one cleanup run",
		Buckets:   prometheus.DefBuckets,
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by route and status",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "events",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.cleanupDeletions,
		m.cleanupGroups,
		m.cleanupUnresolved,
		m.cleanupRuns,
		m.cleanupDuration,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCleanup 累計一次清理的結果；m 為 nil 時不做事
func (m *Metrics) ObserveCleanup(report *model.CleanupReport) {
	if m == nil || report == nil {
		return
	}

	mode := "live"
	if report.Options.DryRun {
		mode = "dry_run"
	}
	m.cleanupRuns.WithLabelValues(mode).Inc()
	m.cleanupDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	m.cleanupUnresolved.Add(float64(len(report.Unresolved)))

	for _, g := range report.Groups {
		method := string(g.Method)
		m.cleanupGroups.WithLabelValues(method).Inc()
		for _, d := range g.Deletions {
			m.cleanupDeletions.WithLabelValues(method, string(d.Outcome)).Inc()
		}
	}
}

// GinMiddleware 記錄每個 request 的路由、狀態碼與耗時
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
