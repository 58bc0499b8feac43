package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trailpaw/custody-api/internal/config"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Case lifecycle metrics
	IntakeCounter        prometheus.Counter
	TransitionsCounter   *prometheus.CounterVec
	TransitionsRejected  *prometheus.CounterVec
	TransitionConflicts  prometheus.Counter
	PublicLookupsCounter prometheus.Counter
)

// Init initializes Prometheus metrics with configuration
func Init(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	IntakeCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_case_intakes_total",
			Help: "Total number of cases created",
		},
	)

	TransitionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_case_transitions_total",
			Help: "Total number of applied status transitions",
		},
		[]string{"to_status"},
	)

	TransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_case_transitions_rejected_total",
			Help: "Total number of rejected status transitions",
		},
		[]string{"reason"},
	)

	TransitionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_case_transition_conflicts_total",
			Help: "Total number of concurrent transition conflicts",
		},
	)

	PublicLookupsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_public_tracking_lookups_total",
			Help: "Total number of public tracking code lookups",
		},
	)
}

// Middleware returns a gin middleware that records request metrics
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if HTTPRequestsTotal == nil {
			return
		}

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
