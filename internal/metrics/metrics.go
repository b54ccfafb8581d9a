package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal tracks classifications per category key
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtriage_classifications_total",
			Help: "Total number of classifications per category",
		},
		[]string{"category"},
	)

	// HTTPRequestsTotal tracks API requests per path and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtriage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "status"},
	)

	// LLMRequestsTotal tracks inference API calls by outcome
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtriage_llm_requests_total",
			Help: "Total number of inference API requests",
		},
		[]string{"outcome"},
	)

	// LLMRequestLatency tracks inference API call latency
	LLMRequestLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "txtriage_llm_request_seconds",
			Help:    "Inference API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DiagnosisCacheHits tracks diagnosis cache hits and misses
	DiagnosisCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txtriage_diagnosis_cache_total",
			Help: "Diagnosis cache lookups by result",
		},
		[]string{"result"},
	)

	// DBConnectionPoolUsage tracks connection pool usage percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txtriage_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
