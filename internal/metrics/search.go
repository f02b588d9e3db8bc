package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"kind", "status"},
	)

	SearchRankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "search_rank_duration_seconds",
			Help:      "In-memory relevance ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	RelevanceIndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "discovery",
			Name:      "relevance_index_documents",
			Help:      "Number of documents in the in-memory relevance index",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchRankDuration)
	prometheus.MustRegister(RelevanceIndexDocuments)
	searchMetricsRegistered = true
}
