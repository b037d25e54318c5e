package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncEventsSubmitted(kind string, n int)
	IncSyncRuns(kind string)
	IncSyncFailures(kind string)
	ObserveSyncDuration(duration float64)
	IncStoreConflicts()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
