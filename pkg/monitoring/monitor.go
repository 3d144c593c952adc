package monitoring

import (
	"strconv"
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

	DiagnosisGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_generations_total",
			Help: "Diagnosis generations by kind (initial, workbook, pillar) and outcome",
		},
		[]string{"kind", "status"},
	)

	DiagnosisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagnosis_generation_duration_seconds",
			Help:    "Duration of language model calls for diagnoses",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	MissingSections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_missing_sections_total",
			Help: "Expected response headings the model did not produce",
		},
		[]string{"kind", "field"},
	)

	RecommendationsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followup_recommendations_total",
			Help: "Follow-up recommendations returned, by priority",
		},
		[]string{"priority"},
	)

	RecommendationsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "followup_recommendations_dropped_total",
			Help: "Trigger results dropped because worksheet metadata could not be resolved",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DiagnosisGenerations)
	prometheus.MustRegister(DiagnosisDuration)
	prometheus.MustRegister(MissingSections)
	prometheus.MustRegister(RecommendationsServed)
	prometheus.MustRegister(RecommendationsDropped)
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
