package metrics

import "github.com/prometheus/client_golang/prometheus"

// Navigation Prometheus metrics.
var (
	CompileRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corpuslens",
			Name:      "compile_requests_total",
			Help:      "Total number of navigation compile requests",
		},
		[]string{"zoom", "tilt", "status"},
	)

	CompileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "corpuslens",
			Name:      "compile_duration_seconds",
			Help:      "Navigation compile duration in seconds",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		},
		[]string{"zoom"},
	)

	CompileComplexity = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "corpuslens",
			Name:      "compile_complexity",
			Help:      "Complexity score of compiled navigation requests",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	ExecuteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corpuslens",
			Name:      "execute_requests_total",
			Help:      "Total number of executed navigation queries",
		},
		[]string{"kind", "status"},
	)

	ExecuteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "corpuslens",
			Name:      "execute_duration_seconds",
			Help:      "Navigation query execution duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	NavCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corpuslens",
			Name:      "nav_cache_total",
			Help:      "Navigation response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var navMetricsRegistered bool

// RegisterNavigationMetrics registers Prometheus navigation metrics. Must be called once from main.
func RegisterNavigationMetrics() {
	if navMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompileRequestsTotal)
	prometheus.MustRegister(CompileDuration)
	prometheus.MustRegister(CompileComplexity)
	prometheus.MustRegister(ExecuteRequestsTotal)
	prometheus.MustRegister(ExecuteDuration)
	prometheus.MustRegister(NavCacheTotal)
	navMetricsRegistered = true
}
