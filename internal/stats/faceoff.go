package stats

import (
	"cmp"
	"slices"

	"github.com/mauv0809/rinkstats/internal/roster"
)

// FaceoffLine is one player's faceoff record. WinRate is nil when the player
// took no faceoffs.
type FaceoffLine struct {
	JerseyNumber int              `json:"jersey_number"`
	Player       *roster.Identity `json:"player"`
	Wins         int              `json:"wins"`
	Losses       int              `json:"losses"`
	WinRate      *float64         `json:"win_rate"`
}

// Faceoffs is the team faceoff view.
type Faceoffs struct {
	Query   Query         `json:"query"`
	Players []FaceoffLine `json:"players"`
	Message string        `json:"message,omitempty"`
}

// TeamFaceoffs sums wins and losses per jersey and ranks by win rate.
func (d *Data) TeamFaceoffs(q Query) Faceoffs {
	lines := make(map[playerKey]*FaceoffLine)
	for _, row := range d.Faceoffs {
		e := row.Event
		if !q.match(e.Game) || !q.matchPlayer(e.JerseyNumber) {
			continue
		}
		k := playerKey{e.Team, e.JerseyNumber}
		l, ok := lines[k]
		if !ok {
			l = &FaceoffLine{JerseyNumber: e.JerseyNumber, Player: row.Player}
			lines[k] = l
		}
		l.Wins += e.Win
		l.Losses += e.Lose
	}

	out := Faceoffs{Query: q, Players: make([]FaceoffLine, 0, len(lines))}
	for _, l := range lines {
		l.WinRate = optionalRate(l.Wins, l.Wins+l.Losses)
		out.Players = append(out.Players, *l)
	}
	slices.SortFunc(out.Players, func(a, b FaceoffLine) int {
		return cmp.Or(compareRates(a.WinRate, b.WinRate), cmp.Compare(a.JerseyNumber, b.JerseyNumber))
	})
	if len(out.Players) == 0 {
		out.Message = noData("faceoff", q)
	}
	return out
}

// GoalieLine is one goalie's totals. SavePct is nil when no shots were faced.
type GoalieLine struct {
	JerseyNumber int              `json:"jersey_number"`
	Player       *roster.Identity `json:"player"`
	ShotsAgainst int              `json:"shots_against"`
	Saves        int              `json:"saves"`
	GoalsAgainst int              `json:"goals_against"`
	SavePct      *float64         `json:"save_pct"`
}

// Goalies is the team goalie view.
type Goalies struct {
	Query   Query        `json:"query"`
	Players []GoalieLine `json:"players"`
	Message string       `json:"message,omitempty"`
}

func (d *Data) TeamGoalies(q Query) Goalies {
	lines := make(map[playerKey]*GoalieLine)
	for _, row := range d.Goalies {
		e := row.Event
		if !q.match(e.Game) || !q.matchPlayer(e.JerseyNumber) {
			continue
		}
		k := playerKey{e.Team, e.JerseyNumber}
		l, ok := lines[k]
		if !ok {
			l = &GoalieLine{JerseyNumber: e.JerseyNumber, Player: row.Player}
			lines[k] = l
		}
		l.ShotsAgainst += e.ShotsAgainst
		l.Saves += e.Saves
		l.GoalsAgainst += e.GoalsAgainst
	}

	out := Goalies{Query: q, Players: make([]GoalieLine, 0, len(lines))}
	for _, l := range lines {
		l.SavePct = optionalRate(l.Saves, l.ShotsAgainst)
		out.Players = append(out.Players, *l)
	}
	slices.SortFunc(out.Players, func(a, b GoalieLine) int {
		return cmp.Or(compareRates(a.SavePct, b.SavePct), cmp.Compare(a.JerseyNumber, b.JerseyNumber))
	})
	if len(out.Players) == 0 {
		out.Message = noData("goalie", q)
	}
	return out
}

// compareRates orders higher rates first and "no data" last.
func compareRates(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*b, *a)
}
