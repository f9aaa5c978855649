package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 评测相关
	GradingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_grading_runs_total",
			Help: "Grading runs by result (accepted, partial, rejected, timed_out)",
		},
		[]string{"result"},
	)

	TestCaseOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_test_cases_total",
			Help: "Per test case outcomes",
		},
		[]string{"outcome"},
	)

	GradingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "judge_grading_duration_seconds",
			Help:    "Wall time of a full grading run",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	IngestionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_gate_decisions_total",
			Help: "Fixed window gate decisions",
		},
		[]string{"decision"},
	)

	AttendanceSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "attendance_ws_subscribers",
			Help: "Open attendance websocket subscriptions on this instance",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(GradingRuns)
		prometheus.MustRegister(TestCaseOutcomes)
		prometheus.MustRegister(GradingDuration)
		prometheus.MustRegister(IngestionDecisions)
		prometheus.MustRegister(AttendanceSubscribers)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
