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

	// PlanAccumulations 按反馈类型统计改进计划累积次数
	PlanAccumulations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerzoom_plan_accumulations_total",
			Help: "Improvement plan accumulations by feedback type",
		},
		[]string{"feedback_type"},
	)

	PlanVersionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "careerzoom_plan_version_conflicts_total",
			Help: "Optimistic concurrency conflicts while saving improvement plans",
		},
	)

	RecommendationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_failures_total",
			Help: "Recommendation vendor calls that failed and were skipped",
		},
	)

	SpeechFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "careerzoom_speech_failures_total",
			Help: "Text-to-speech calls that failed and fell back to placeholder audio",
		},
	)

	AnalysisJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerzoom_analysis_jobs_total",
			Help: "Interview analysis jobs by outcome",
		},
		[]string{"status"},
	)

	VendorCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careerzoom_vendor_call_duration_seconds",
			Help:    "Duration of outbound vendor API calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"vendor", "operation"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			PlanAccumulations,
			PlanVersionConflicts,
			RecommendationFailures,
			SpeechFailures,
			AnalysisJobs,
			VendorCallDuration,
		)
	})
}

// ObserveVendorCall 用法：defer monitoring.ObserveVendorCall("openai", "recommendations")()
func ObserveVendorCall(vendor, operation string) func() {
	start := time.Now()
	return func() {
		VendorCallDuration.WithLabelValues(vendor, operation).Observe(time.Since(start).Seconds())
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
