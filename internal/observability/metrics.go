package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	EngineForecast = "forecast"
	EngineReplay   = "replay"
)

var (
	ComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_computation_duration_seconds",
			Help:    "Duration of analytics engine computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	ComputationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_computation_errors_total",
			Help: "Total number of failed analytics computations",
		},
		[]string{"engine"},
	)

	ForecastCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecast_cache_hits_total",
			Help: "Total number of forecast cache hits",
		},
	)

	ForecastCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecast_cache_misses_total",
			Help: "Total number of forecast cache misses",
		},
	)

	ActivitiesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_ingested_total",
			Help: "Total number of ingested activities by result",
		},
		[]string{"result"}, // "created", "duplicate"
	)

	ReplayTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replay_view_transitions_total",
			Help: "Total number of replay view state transitions",
		},
		[]string{"transition"}, // "start", "interaction", "watched", "finalize"
	)
)

// ObserveComputation records how long an engine call took and whether it failed.
func ObserveComputation(engine string, start time.Time, err error) {
	ComputationDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
	if err != nil {
		ComputationErrors.WithLabelValues(engine).Inc()
	}
}
