package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AgentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentrylog_agents_total",
			Help: "Total number of registered agents by status",
		},
		[]string{"status"},
	)

	ErrorsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentrylog_errors_ingested_total",
			Help: "Total number of error events ingested, by category",
		},
		[]string{"category"},
	)

	StoredErrorsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentrylog_stored_errors_total",
			Help: "Current number of deduplicated errors held in the memory store",
		},
	)

	PatternTableSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentrylog_pattern_table_size",
			Help: "Current number of entries in the pattern table",
		},
	)

	InsightsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentrylog_insights_generated_total",
			Help: "Total number of insight-generation passes run",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentrylog_ingest_duration_seconds",
			Help:    "Time to process one addError call end to end",
			Buckets: prometheus.DefBuckets,
		},
	)

	RESTRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentrylog_rest_requests_total",
			Help: "Total REST requests by route and status",
		},
		[]string{"route", "status"},
	)

	BroadcastSubscribersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentrylog_broadcast_subscribers_total",
			Help: "Current number of connected dashboard subscribers",
		},
	)

	TailerLinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentrylog_tailer_lines_total",
			Help: "Total lines delivered by file tailers, by level",
		},
		[]string{"level"},
	)
)

func init() {
	prometheus.MustRegister(
		AgentsTotal,
		ErrorsIngestedTotal,
		StoredErrorsTotal,
		PatternTableSize,
		InsightsGenerated,
		IngestDuration,
		RESTRequestsTotal,
		BroadcastSubscribersTotal,
		TailerLinesTotal,
	)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
