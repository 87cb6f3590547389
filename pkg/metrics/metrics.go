package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics (intake endpoint)
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"stage", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage", "method", "path", "status"},
	)

	// Event bus metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_events_published_total",
			Help: "Total number of domain events published to the bus",
		},
		[]string{"stage", "detail_type", "status"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_events_consumed_total",
			Help: "Total number of domain events consumed from the bus",
		},
		[]string{"stage", "detail_type", "status"},
	)

	// Store metrics
	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_queries_total",
			Help: "Total number of store queries",
		},
		[]string{"table", "operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Store query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "operation"},
	)

	// Payment gateway metrics
	GatewayResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_results_total",
			Help: "Payment gateway outcomes by payment method",
		},
		[]string{"payment_method", "result"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_duration_seconds",
			Help:    "Payment gateway call duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"payment_method"},
	)

	// Payment stream relay metrics, accumulated regardless of the
	// batch outcome.
	RelayExtractedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_extracted_records_total",
			Help: "Change-feed records extracted by the payment stream relay",
		},
	)

	RelaySuccessfulRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_successful_records_total",
			Help: "Change-feed records processed successfully by the relay",
		},
	)

	RelayFailedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_failed_records_total",
			Help: "Change-feed records that failed and aborted their batch",
		},
	)

	RelayBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_batch_size",
			Help:    "Size of change-feed batches delivered to the relay",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(stage, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(stage, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(stage, method, path, status).Observe(duration.Seconds())
}

// RecordEventPublished records a bus publish attempt
func RecordEventPublished(stage, detailType string, err error) {
	EventsPublished.WithLabelValues(stage, detailType, outcome(err)).Inc()
}

// RecordEventConsumed records a bus consume attempt
func RecordEventConsumed(stage, detailType string, err error) {
	EventsConsumed.WithLabelValues(stage, detailType, outcome(err)).Inc()
}

// RecordStoreQuery records store query metrics
func RecordStoreQuery(table, operation string, err error, duration time.Duration) {
	StoreQueriesTotal.WithLabelValues(table, operation, outcome(err)).Inc()
	StoreQueryDuration.WithLabelValues(table, operation).Observe(duration.Seconds())
}

// RecordGatewayResult records a payment gateway outcome
func RecordGatewayResult(paymentMethod string, approved bool, duration time.Duration) {
	result := "approved"
	if !approved {
		result = "declined"
	}
	GatewayResultsTotal.WithLabelValues(paymentMethod, result).Inc()
	GatewayDuration.WithLabelValues(paymentMethod).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
