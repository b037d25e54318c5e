package stats

import (
	"math"
	"strings"

	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/roster"
)

// AllOpponents is the opponent filter value meaning "every opponent".
const AllOpponents = "All"

// Query selects the slice of data a view is computed over. Empty fields do
// not filter.
type Query struct {
	Team     string `json:"team"`
	Opponent string `json:"opponent,omitempty"`
	GameDate string `json:"game_date,omitempty"`
	Player   *int   `json:"player,omitempty"`
}

func (q Query) opponent() string {
	if strings.EqualFold(q.Opponent, AllOpponents) {
		return ""
	}
	return q.Opponent
}

func (q Query) match(g hockey.Game) bool {
	if q.Team != "" && g.Team != q.Team {
		return false
	}
	if o := q.opponent(); o != "" && g.Opponent != o {
		return false
	}
	if q.GameDate != "" && g.GameDate != q.GameDate {
		return false
	}
	return true
}

func (q Query) matchPlayer(jersey int) bool {
	return q.Player == nil || *q.Player == jersey
}

// Data is the enriched input of every aggregation. It is never mutated.
type Data struct {
	HomeSide  string
	Roster    *roster.Index
	Scoring   []roster.Enriched[hockey.ScoringEvent]
	Shots     []roster.Enriched[hockey.ShotEvent]
	Penalties []roster.Enriched[hockey.PenaltyEvent]
	Faceoffs  []roster.Enriched[hockey.FaceoffEvent]
	Goalies   []roster.Enriched[hockey.GoalieEvent]
}

func (d *Data) identity(team string, jersey int) *roster.Identity {
	if d.Roster == nil {
		return nil
	}
	return d.Roster.Lookup(team, jersey)
}

// gameKey identifies one game from the team's point of view.
type gameKey struct {
	GameDate string
	Team     string
	Opponent string
}

func keyOf(g hockey.Game) gameKey {
	return gameKey{GameDate: g.GameDate, Team: g.Team, Opponent: g.Opponent}
}

// GroupCount is a row-occurrence count for one game and one dimension value
// (a shoot zone or a penalty code).
type GroupCount struct {
	GameDate string `json:"game_date"`
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
}

// SideTotal counts one dimension value for both sides.
type SideTotal struct {
	Value    string `json:"value"`
	Home     int    `json:"home"`
	Opponent int    `json:"opponent"`
}

// Leader is one row of a leaderboard.
type Leader struct {
	JerseyNumber int              `json:"jersey_number"`
	Player       *roster.Identity `json:"player"`
	Count        int              `json:"count"`
}

// rate returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

// optionalRate is rate with an explicit "no data" for a zero denominator.
func optionalRate(part, whole int) *float64 {
	if whole <= 0 {
		return nil
	}
	r := round1(float64(part) / float64(whole) * 100)
	return &r
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
