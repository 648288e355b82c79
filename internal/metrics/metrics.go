// Package metrics holds the Prometheus collectors of the progress tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "progress_events_ingested_total",
		Help: "Number of ingested progress events by record kind",
	}, []string{"kind"})

	AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "progress_achievements_unlocked_total",
		Help: "Number of badges unlocked",
	}, []string{"badge"})

	CorruptPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "progress_corrupt_payloads_total",
		Help: "Number of records skipped during aggregation because their payload failed to decode",
	})

	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "progress_recompute_duration_seconds",
		Help:    "Duration of a full stats rescan of one session",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	ReconcileDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "progress_reconcile_drift_total",
		Help: "Number of sessions whose cached stats differed from a full rescan",
	})

	ActivityLogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "progress_activity_log_failures_total",
		Help: "Number of activity events that could not be delivered",
	})
)
