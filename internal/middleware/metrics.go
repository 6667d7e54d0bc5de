package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowtrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowtrack_auth_attempts_total",
			Help: "Total auth attempts by event and outcome",
		},
		[]string{"event", "success"},
	)
	storeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowtrack_store_mutations_total",
			Help: "Project and task mutations by entity, operation and outcome",
		},
		[]string{"entity", "op", "success"},
	)
)

// Prometheus records request duration. Paths are route templates, so
// resource ids never become label values.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthAttempt records an auth event for Prometheus.
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordMutation records a project or task mutation for Prometheus.
func RecordMutation(entity, op string, success bool) {
	storeMutations.WithLabelValues(entity, op, strconv.FormatBool(success)).Inc()
}
