package http

import (
	"encoding/json"
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

type Server struct {
	Dashboard      *dashboard.Service
	Syncer         *syncer.Syncer
	Journal        journal.Journal
	Cache          cache.Cache
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error string   `json:"error"`
	IDs   []string `json:"ids,omitempty"`
}

// eventsRequest is the body of POST /api/events/{kind}. Records are loosely
// typed form rows; Events are typed JSON events.
type eventsRequest struct {
	SubmissionID string            `json:"submission_id"`
	Records      []map[string]any  `json:"records"`
	Events       []json.RawMessage `json:"events"`
}

type teamsResponse struct {
	Teams []string `json:"teams"`
}

type scheduleResponse struct {
	Team      string   `json:"team"`
	Dates     []string `json:"dates"`
	Opponents []string `json:"opponents"`
}

type journalResponse struct {
	Entries []journal.Entry `json:"entries"`
	Counts  []journal.Count `json:"counts"`
}

type syncResponse struct {
	Results []syncer.Result `json:"results"`
	DryRun  bool            `json:"dry_run,omitempty"`
}
