package stats

import (
	"slices"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// PeriodTotal splits a metric by period for both sides.
type PeriodTotal struct {
	Period   hockey.Period `json:"period"`
	Home     int           `json:"home"`
	Opponent int           `json:"opponent"`
}

// GameView is the single-game page: outcome, shots and penalty minutes per period.
type GameView struct {
	Query          Query         `json:"query"`
	Outcomes       []ScoreLine   `json:"outcomes"`
	Shots          []PeriodTotal `json:"shots"`
	PenaltyMinutes []PeriodTotal `json:"penalty_minutes"`
	ShotZones      []GroupCount  `json:"shot_zones"`
	Message        string        `json:"message,omitempty"`
}

// Game builds the view for q.GameDate. Every period is listed so that charts
// keep a stable axis.
func (d *Data) Game(q Query) GameView {
	out := GameView{Query: q, Outcomes: []ScoreLine{}}
	if q.GameDate == "" {
		out.Message = "No game date selected"
		return out
	}

	shots := make(map[hockey.Period]*PeriodTotal, len(hockey.Periods))
	minutes := make(map[hockey.Period]*PeriodTotal, len(hockey.Periods))
	for _, p := range hockey.Periods {
		shots[p] = &PeriodTotal{Period: p}
		minutes[p] = &PeriodTotal{Period: p}
	}

	var rows int
	var homeShots []hockey.ShotEvent
	for _, row := range d.Shots {
		e := row.Event
		t, ok := shots[e.Period]
		if !q.match(e.Game) || !ok {
			continue
		}
		rows++
		if e.ShootingTeam == d.HomeSide {
			t.Home++
			homeShots = append(homeShots, e)
		} else {
			t.Opponent++
		}
	}
	for _, row := range d.Penalties {
		e := row.Event
		t, ok := minutes[e.Period]
		if !q.match(e.Game) || !ok {
			continue
		}
		rows++
		if e.PenaltyTeam == d.HomeSide {
			t.Home += e.PenaltyMins
		} else {
			t.Opponent += e.PenaltyMins
		}
	}

	order, lines := d.scoreLines(q)
	for _, k := range order {
		out.Outcomes = append(out.Outcomes, *lines[k])
	}
	for _, p := range hockey.Periods {
		out.Shots = append(out.Shots, *shots[p])
		out.PenaltyMinutes = append(out.PenaltyMinutes, *minutes[p])
	}
	out.ShotZones = countGroups(homeShots,
		func(e hockey.ShotEvent) hockey.Game { return e.Game },
		func(e hockey.ShotEvent) string { return e.ShootZone },
	)

	if rows+len(order) == 0 {
		out.Message = noData("game", q)
	}
	return out
}

// GameDates lists the distinct dates a team played, newest first.
func (d *Data) GameDates(team string) []string {
	seen := make(map[string]bool)
	var dates []string
	add := func(g hockey.Game) {
		if g.Team == team && !seen[g.GameDate] {
			seen[g.GameDate] = true
			dates = append(dates, g.GameDate)
		}
	}
	for _, r := range d.Scoring {
		add(r.Event.Game)
	}
	for _, r := range d.Shots {
		add(r.Event.Game)
	}
	for _, r := range d.Penalties {
		add(r.Event.Game)
	}
	slices.Sort(dates)
	slices.Reverse(dates)
	return dates
}

// Opponents lists the distinct opponents a team played, sorted.
func (d *Data) Opponents(team string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Scoring {
		if r.Event.Team == team && !seen[r.Event.Opponent] {
			seen[r.Event.Opponent] = true
			out = append(out, r.Event.Opponent)
		}
	}
	slices.Sort(out)
	return out
}
