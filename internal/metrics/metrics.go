package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placement",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placement",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "placement",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	aiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placement",
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "Generative model calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	aiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placement",
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "Generative model call latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"operation"},
	)
)

// Register adds the collectors to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, requestsInFlight, aiRequests, aiDuration)
	})
}

// GinMiddleware records latency and status for every request.
func GinMiddleware() gin.HandlerFunc {
	Register()

	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

// ObserveAI records one model call.
func ObserveAI(operation, outcome string, took time.Duration) {
	Register()
	aiRequests.WithLabelValues(operation, outcome).Inc()
	aiDuration.WithLabelValues(operation).Observe(took.Seconds())
}
