// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"token-catalog/internal/pipeline"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Feed metrics
	FeedFetchesTotal  *prometheus.CounterVec
	FeedRecords       prometheus.Gauge
	FeedFetchDuration prometheus.Histogram

	// Catalog metrics
	TokensWritten prometheus.Counter
	TokensSkipped *prometheus.CounterVec
	TokensFailed  prometheus.Counter

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec

	// Run metrics
	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_catalog"
	}

	return &Metrics{
		// Feed metrics
		FeedFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetches_total",
			Help:      "Total number of feed fetches by status",
		}, []string{"status"}),
		FeedRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "records",
			Help:      "Number of records in the last fetched feed",
		}),
		FeedFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetch_duration_seconds",
			Help:      "Feed fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Catalog metrics
		TokensWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "tokens_written_total",
			Help:      "Total number of token files written",
		}),
		TokensSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "tokens_skipped_total",
			Help:      "Total number of tokens skipped by reason",
		}, []string{"reason"}),
		TokensFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "tokens_failed_total",
			Help:      "Total number of tokens that failed processing",
		}),

		// RPC metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evm",
			Name:      "rpc_call_latency_seconds",
			Help:      "EVM JSON-RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		// Run metrics
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Full catalog run duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_successful_timestamp",
			Help:      "Unix timestamp of the last successful catalog run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFeedFetch records a feed fetch outcome.
func RecordFeedFetch(status string, records int, seconds float64) {
	DefaultMetrics.FeedFetchesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.FeedFetchDuration.Observe(seconds)
	if status == "success" {
		DefaultMetrics.FeedRecords.Set(float64(records))
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// Reporter bridges pipeline outcomes onto the metrics instance.
type Reporter struct {
	metrics *Metrics
}

// NewReporter creates a reporter backed by the given metrics, or
// DefaultMetrics when nil.
func NewReporter(m *Metrics) *Reporter {
	if m == nil {
		m = DefaultMetrics
	}
	return &Reporter{metrics: m}
}

// TokenWritten counts a written token file.
func (r *Reporter) TokenWritten(string, string) {
	r.metrics.TokensWritten.Inc()
}

// TokenSkipped counts a skipped token by reason.
func (r *Reporter) TokenSkipped(_, _, reason string) {
	r.metrics.TokensSkipped.WithLabelValues(reason).Inc()
}

// TokenFailed counts a failed token.
func (r *Reporter) TokenFailed(string, string, error) {
	r.metrics.TokensFailed.Inc()
}

var _ pipeline.Reporter = (*Reporter)(nil)
