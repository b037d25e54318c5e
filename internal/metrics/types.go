package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	EventsSubmitted    *prometheus.CounterVec
	SyncRuns           *prometheus.CounterVec
	SyncFailures       *prometheus.CounterVec
	SyncDuration       prometheus.Histogram
	StoreConflicts     prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
