package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/stats"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// splitTeam takes a leading team name off text when it names a known team.
func splitTeam(text string, teams []string) (team, rest string) {
	text = strings.TrimSpace(text)
	first, after, _ := strings.Cut(text, " ")
	for _, t := range teams {
		if strings.EqualFold(t, first) {
			return t, strings.TrimSpace(after)
		}
	}
	return "", text
}

// LeaderboardCommandHandler serves /leaderboard [team] [opponent].
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		snap, err := s.Dashboard.Load(r.Context())
		if err != nil {
			log.FromContext(r.Context()).Error("Failed to load dashboard data", "error", err)
			http.Error(w, "Failed to read the workbook", http.StatusBadGateway)
			return
		}

		teams := snap.Data.Roster.Teams()
		team, opponent := splitTeam(r.FormValue("text"), teams)
		if team == "" && len(teams) > 0 {
			team = teams[0]
		}
		q := stats.Query{Team: team, Opponent: opponent}
		log.FromContext(r.Context()).Info("Received leaderboard command", "team", team, "opponent", opponent)

		msg, err := s.Notifier.FormatLeaderboardResponse(snap.Data.Leaderboard(q))
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler serves /player-stats [team] <name or #jersey>.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		snap, err := s.Dashboard.Load(r.Context())
		if err != nil {
			log.FromContext(r.Context()).Error("Failed to load dashboard data", "error", err)
			http.Error(w, "Failed to read the workbook", http.StatusBadGateway)
			return
		}

		ix := snap.Data.Roster
		team, query := splitTeam(text, ix.Teams())
		if query == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		log.FromContext(r.Context()).Info("Received player stats command", "team", team, "player", query)

		var q *stats.Query
		if n, err := strconv.Atoi(strings.TrimPrefix(query, "#")); err == nil && team != "" {
			q = &stats.Query{Team: team, Player: &n}
		} else if matches := ix.Search(team, query); len(matches) > 0 {
			jersey := matches[0].JerseyNumber
			q = &stats.Query{Team: matches[0].Team, Player: &jersey}
		}

		var msg any
		if q == nil {
			log.FromContext(r.Context()).Warn("Could not find player", "team", team, "player", query)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(query)
		} else {
			msg, err = s.Notifier.FormatPlayerStatsResponse(snap.Data.PlayerGames(*q))
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// readPush decodes a Pub/Sub push request into v.
func (s *Server) readPush(w http.ResponseWriter, r *http.Request, v any) bool {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.FromContext(r.Context()).Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}
	log.FromContext(r.Context()).Debug("Received pubsub message", "path", r.URL.Path, "body", string(bodyBytes))

	rawData, err := pubsub.DecodePush(bodyBytes)
	if err != nil {
		log.FromContext(r.Context()).Error("Failed to decode push envelope", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := s.pubsub.ProcessMessage(rawData, v); err != nil {
		http.Error(w, "Invalid message payload", http.StatusBadRequest)
		return false
	}
	return true
}

// BatchSyncedHandler receives pushed BatchSynced messages and notifies Slack.
func (s *Server) BatchSyncedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.BatchSynced
		if !s.readPush(w, r, &msg) {
			return
		}
		if err := s.Notifier.SendSyncNotification(r.Context(), msg, isDryRunFromContext(r)); err != nil {
			// Non-2xx makes Pub/Sub redeliver.
			log.FromContext(r.Context()).Error("Failed to send sync notification", "kind", msg.Kind, "error", err)
			http.Error(w, "Failed to notify", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// SyncFailedHandler receives pushed SyncFailed messages and notifies Slack.
func (s *Server) SyncFailedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.SyncFailed
		if !s.readPush(w, r, &msg) {
			return
		}
		if err := s.Notifier.SendSyncFailure(r.Context(), msg, isDryRunFromContext(r)); err != nil {
			log.FromContext(r.Context()).Error("Failed to send sync failure notification", "kind", msg.Kind, "error", err)
			http.Error(w, "Failed to notify", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
