package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and indexing Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagdex",
			Name:      "searches_total",
			Help:      "Total number of search queries",
		},
		[]string{"class", "status"}, // status: ok / syntax_error / not_found
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tagdex",
			Name:      "search_duration_seconds",
			Help:      "Full-scan search duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"class"},
	)

	RecordsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagdex",
			Name:      "records_indexed_total",
			Help:      "Total records indexed, including replacements",
		},
		[]string{"class"},
	)

	GuideBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagdex",
			Name:      "guide_builds_total",
			Help:      "Total search-guide tree builds",
		},
		[]string{"class"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search metrics. Must be called once
// from main; unit tests use the unregistered collectors directly.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(RecordsIndexedTotal)
	prometheus.MustRegister(GuideBuildsTotal)
	searchMetricsRegistered = true
}
