package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgapi_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "msgapi_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgapi_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	sessionVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgapi_session_verifications_total",
			Help: "Session token verifications by outcome.",
		},
		[]string{"outcome"},
	)
	rehashesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgapi_credential_rehashes_total",
			Help: "Login-time credential rehashes by outcome.",
		},
		[]string{"outcome"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "msgapi_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		loginsTotal,
		sessionVerificationsTotal,
		rehashesTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

func IncSessionVerification(outcome string) {
	sessionVerificationsTotal.WithLabelValues(outcome).Inc()
}

func IncRehash(outcome string) {
	rehashesTotal.WithLabelValues(outcome).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
