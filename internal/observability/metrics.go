// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Normalization metrics
	PayloadsParsed   prometheus.Counter
	EventsNormalized *prometheus.CounterVec
	PayloadsDropped  *prometheus.CounterVec

	// Matching metrics
	TradesMatched      prometheus.Counter
	PartialMatches     prometheus.Counter
	UnmatchedSells     prometheus.Counter
	CurrencyMismatches prometheus.Counter

	// Latency-analysis metrics
	LatencyEntriesMatched   prometheus.Counter
	LatencyEntriesUnmatched *prometheus.CounterVec
	SlotLatency             prometheus.Histogram

	// Run metrics
	AnalysisRunsTotal prometheus.Counter
	AnalysisDuration  prometheus.Histogram
	ReportsGenerated  prometheus.Counter

	// Provider metrics
	ProviderRequestLatency *prometheus.HistogramVec
	ProviderRequestErrors  *prometheus.CounterVec
	StreamMessagesReceived prometheus.Counter
	StreamReconnects       prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
	HighestSlotSeen   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "copytrade_lab"
	}

	return &Metrics{
		// Normalization metrics
		PayloadsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalize",
			Name:      "payloads_parsed_total",
			Help:      "Total number of provider payloads parsed",
		}),
		EventsNormalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalize",
			Name:      "events_total",
			Help:      "Total number of swap events normalized by direction",
		}, []string{"direction"}),
		PayloadsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalize",
			Name:      "payloads_dropped_total",
			Help:      "Total number of payloads dropped by diagnostic kind",
		}, []string{"kind"}),

		// Matching metrics
		TradesMatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "trades_total",
			Help:      "Total number of matched trades produced",
		}),
		PartialMatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "partial_trades_total",
			Help:      "Total number of matched trades flagged as partial",
		}),
		UnmatchedSells: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "unmatched_sells_total",
			Help:      "Total number of sells with no outstanding buy leg",
		}),
		CurrencyMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "currency_mismatches_total",
			Help:      "Total number of buy lots discarded for base currency mismatch",
		}),

		// Latency-analysis metrics
		LatencyEntriesMatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "latency",
			Name:      "entries_matched_total",
			Help:      "Total number of copy entries paired with a target entry",
		}),
		LatencyEntriesUnmatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "latency",
			Name:      "entries_unmatched_total",
			Help:      "Total number of copy entries left unpaired by reason",
		}, []string{"reason"}),
		SlotLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "latency",
			Name:      "slot_delta",
			Help:      "Slot delta between target and copy entries",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),

		// Run metrics
		AnalysisRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "analyses_total",
			Help:      "Total number of wallet analysis runs",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "analysis_duration_seconds",
			Help:      "Wallet analysis duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Provider metrics
		ProviderRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_latency_seconds",
			Help:      "Provider HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		ProviderRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_errors_total",
			Help:      "Total number of provider request errors",
		}, []string{"operation"}),
		StreamMessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "stream_messages_total",
			Help:      "Total number of WebSocket stream messages received",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "stream_reconnects_total",
			Help:      "Total number of WebSocket stream reconnects",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful analysis run",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPayloadParsed increments the payloads parsed counter.
func RecordPayloadParsed() {
	DefaultMetrics.PayloadsParsed.Inc()
}

// RecordEventNormalized counts one normalized swap event.
func RecordEventNormalized(direction string) {
	DefaultMetrics.EventsNormalized.WithLabelValues(direction).Inc()
}

// RecordPayloadDropped counts one dropped payload by diagnostic kind.
func RecordPayloadDropped(kind string) {
	DefaultMetrics.PayloadsDropped.WithLabelValues(kind).Inc()
}

// RecordTradeMatched counts one matched trade.
func RecordTradeMatched(partial bool) {
	DefaultMetrics.TradesMatched.Inc()
	if partial {
		DefaultMetrics.PartialMatches.Inc()
	}
}

// RecordLatencyMatch records one paired copy entry and its slot delta.
func RecordLatencyMatch(slotLatency int64) {
	DefaultMetrics.LatencyEntriesMatched.Inc()
	DefaultMetrics.SlotLatency.Observe(float64(slotLatency))
}

// RecordLatencyUnmatched counts one unpaired copy entry.
func RecordLatencyUnmatched(reason string) {
	DefaultMetrics.LatencyEntriesUnmatched.WithLabelValues(reason).Inc()
}

// RecordAnalysisRun records one completed analysis run.
func RecordAnalysisRun(durationSeconds float64) {
	DefaultMetrics.AnalysisRunsTotal.Inc()
	DefaultMetrics.AnalysisDuration.Observe(durationSeconds)
	DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
}

// RecordProviderRequest records provider request metrics.
func RecordProviderRequest(operation string, seconds float64, err error) {
	DefaultMetrics.ProviderRequestLatency.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.ProviderRequestErrors.WithLabelValues(operation).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// UpdateHighestSlot updates the highest slot seen gauge.
func UpdateHighestSlot(slot int64) {
	DefaultMetrics.HighestSlotSeen.Set(float64(slot))
}
