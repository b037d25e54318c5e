package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/dashboard"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Debug("Received health check request")
		if s.Cache != nil {
			if err := s.Cache.HealthCheck(r.Context()); err != nil {
				log.FromContext(r.Context()).Error("Cache health check failed", "error", err)
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// snapshot loads the dashboard data, answering the request itself on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	snap, err := s.Dashboard.Load(r.Context())
	if err == nil {
		return snap, true
	}
	log.FromContext(r.Context()).Error("Failed to load dashboard data", "error", err)
	if errors.Is(err, hockey.ErrMissingColumn) {
		writeError(w, http.StatusInternalServerError, err.Error())
	} else {
		writeError(w, http.StatusBadGateway, "Failed to read the workbook")
	}
	return nil, false
}

// parseQuery reads the team from the path and the optional filters from the
// query string.
func parseQuery(r *http.Request) (stats.Query, error) {
	q := stats.Query{
		Team:     r.PathValue("team"),
		Opponent: r.URL.Query().Get("opponent"),
	}
	if q.Team == "" {
		q.Team = r.URL.Query().Get("team")
	}
	if q.Team == "" {
		return q, errors.New("team is required")
	}
	date := r.PathValue("date")
	if date == "" {
		date = r.URL.Query().Get("date")
	}
	if date != "" {
		d, err := hockey.NormalizeGameDate(date)
		if err != nil {
			return q, err
		}
		q.GameDate = d
	}
	player := r.PathValue("jersey")
	if player == "" {
		player = r.URL.Query().Get("player")
	}
	if player != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(player, "#"))
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid jersey number %q", player)
		}
		q.Player = &n
	}
	return q, nil
}

// viewHandler serves one aggregation of the dashboard data.
func (s *Server) viewHandler(view func(*stats.Data, stats.Query) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, view(snap.Data, q))
	}
}

func (s *Server) OutcomesHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.TeamOutcomes(q) })
}

func (s *Server) ShotsHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.TeamShots(q) })
}

func (s *Server) PenaltiesHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.TeamPenalties(q) })
}

func (s *Server) FaceoffsHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.TeamFaceoffs(q) })
}

func (s *Server) GoaliesHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.TeamGoalies(q) })
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.Leaderboard(q) })
}

func (s *Server) PlayerGamesHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.PlayerGames(q) })
}

func (s *Server) GameHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any { return d.Game(q) })
}

func (s *Server) ScheduleHandler() http.HandlerFunc {
	return s.viewHandler(func(d *stats.Data, q stats.Query) any {
		return scheduleResponse{
			Team:      q.Team,
			Dates:     nonNil(d.GameDates(q.Team)),
			Opponents: nonNil(d.Opponents(q.Team)),
		}
	})
}

func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, teamsResponse{Teams: nonNil(snap.Data.Roster.Teams())})
	}
}

func (s *Server) RosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team := r.URL.Query().Get("team")
		if team == "" {
			writeError(w, http.StatusBadRequest, "team is required")
			return
		}
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(snap.Data.Roster.Players(team)))
	}
}

func (s *Server) PlayerSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if strings.TrimSpace(query) == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(snap.Data.Roster.Search(r.URL.Query().Get("team"), query)))
	}
}

// IssuesHandler lists workbook cells that could not be parsed.
func (s *Server) IssuesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(snap.Issues))
	}
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
