package http

import (
	"net/http"

	"github.com/mauv0809/rinkstats/internal/cache"
	"github.com/mauv0809/rinkstats/internal/config"
	"github.com/mauv0809/rinkstats/internal/dashboard"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/notifier"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/syncer"
)

func NewServer(cfg config.Config, dash *dashboard.Service, sync *syncer.Syncer, j journal.Journal, c cache.Cache, metricsSvc metrics.Metrics, metricsHandler http.Handler, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Dashboard:      dash,
		Syncer:         sync,
		Journal:        j,
		Cache:          c,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	slackAuth := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/teams", Chain(s.TeamsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/roster", Chain(s.RosterHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/search", Chain(s.PlayerSearchHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/issues", Chain(s.IssuesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/schedule", Chain(s.ScheduleHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/outcomes", Chain(s.OutcomesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/shots", Chain(s.ShotsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/penalties", Chain(s.PenaltiesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/faceoffs", Chain(s.FaceoffsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/goalies", Chain(s.GoaliesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/teams/{team}/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/{team}/{jersey}/games", Chain(s.PlayerGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games/{date}", Chain(s.GameHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/events/{kind}", Chain(s.SubmitEventsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/sync", Chain(s.SyncHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/journal", Chain(s.JournalHandler(), paramsMiddleware))

	s.Router.Handle("POST /pubsub/batch-synced", Chain(s.BatchSyncedHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/sync-failed", Chain(s.SyncFailedHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware, slackAuth))
	s.Router.Handle("POST /slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware, slackAuth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
