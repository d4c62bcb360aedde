package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vyapar"

var (
	// HTTP request metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Billing metrics
	BillsCommittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_committed_total",
			Help:      "Total number of bills committed",
		},
	)

	DegradedAllocationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_number_fallbacks_total",
			Help:      "Total number of bill numbers issued as fallback tokens",
		},
	)

	CommitFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_commit_failures_total",
			Help:      "Total number of failed bill commits by failing step",
		},
		[]string{"step"},
	)

	// Catalog metrics
	ProductOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_operations_total",
			Help:      "Total number of product operations",
		},
		[]string{"operation"},
	)

	ProductInventoryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "product_inventory",
			Help:      "Current inventory level for products",
		},
		[]string{"product_id", "product_name", "category"},
	)

	StockAlertsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_alerts_total",
			Help:      "Total number of stock alerts raised",
		},
		[]string{"level"},
	)

	// Sale event publishing
	EventPublishErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Total number of sale events that could not be published",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		DbOperationDuration,
		BillsCommittedCounter,
		DegradedAllocationsCounter,
		CommitFailuresCounter,
		ProductOperationsCounter,
		ProductInventoryGauge,
		StockAlertsCounter,
		EventPublishErrorsCounter,
	)
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID string, productName string, category string, count int) {
	ProductInventoryGauge.WithLabelValues(productID, productName, category).Set(float64(count))
}

// RemoveProductInventory drops the inventory series of a deleted product
func RemoveProductInventory(productID string, productName string, category string) {
	ProductInventoryGauge.DeleteLabelValues(productID, productName, category)
}

// RecordBillCommitted counts a committed bill and whether its number was degraded
func RecordBillCommitted(degraded bool) {
	BillsCommittedCounter.Inc()
	if degraded {
		DegradedAllocationsCounter.Inc()
	}
}

// RecordCommitFailure counts a failed commit at the given step
func RecordCommitFailure(step string) {
	CommitFailuresCounter.WithLabelValues(step).Inc()
}

// RecordStockAlert counts a raised stock alert
func RecordStockAlert(level string) {
	StockAlertsCounter.WithLabelValues(level).Inc()
}

// RecordEventPublishError counts a failed event publication
func RecordEventPublishError(event string) {
	EventPublishErrorsCounter.WithLabelValues(event).Inc()
}
