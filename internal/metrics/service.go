package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		EventsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rinkstats_events_submitted_total",
			Help: "The total number of game events accepted into the journal.",
		}, []string{"kind"}),
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rinkstats_sync_runs_total",
			Help: "The total number of journal to workbook sync runs.",
		}, []string{"kind"}),
		SyncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rinkstats_sync_failures_total",
			Help: "The total number of sync runs that failed to write the workbook.",
		}, []string{"kind"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rinkstats_sync_duration_seconds",
			Help:    "The duration of individual sync runs.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StoreConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rinkstats_store_conflicts_total",
			Help: "The total number of conditional workbook writes rejected because another writer got there first.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rinkstats_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rinkstats_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rinkstats_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.EventsSubmitted,
		s.SyncRuns,
		s.SyncFailures,
		s.SyncDuration,
		s.StoreConflicts,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncEventsSubmitted(kind string, n int) {
	s.EventsSubmitted.WithLabelValues(kind).Add(float64(n))
}

func (s *Service) IncSyncRuns(kind string) {
	s.SyncRuns.WithLabelValues(kind).Inc()
}

func (s *Service) IncSyncFailures(kind string) {
	s.SyncFailures.WithLabelValues(kind).Inc()
}

func (s *Service) ObserveSyncDuration(duration float64) {
	s.SyncDuration.Observe(duration)
}

func (s *Service) IncStoreConflicts() {
	s.StoreConflicts.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
