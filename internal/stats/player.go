package stats

import (
	"cmp"
	"slices"

	"github.com/mauv0809/rinkstats/internal/roster"
)

// PlayerGame holds one player's counts for one game. Every metric is present
// even when only some event kinds occurred.
type PlayerGame struct {
	Team         string `json:"team"`
	JerseyNumber int    `json:"jersey_number"`
	GameDate     string `json:"game_date"`
	Opponent     string `json:"opponent"`
	Scores       int    `json:"scores"`
	Assists      int    `json:"assists"`
	Shots        int    `json:"shots"`
	Penalties    int    `json:"penalties"`
}

// PlayerTotals sums PlayerGame rows. ScoringRate is goals per shot as a
// percentage, 0 without shots.
type PlayerTotals struct {
	Scores      int     `json:"scores"`
	Assists     int     `json:"assists"`
	Shots       int     `json:"shots"`
	Penalties   int     `json:"penalties"`
	ScoringRate float64 `json:"scoring_rate"`
}

// PlayerGames is the per-game breakdown for one player, or for every player of
// the team when the query names none.
type PlayerGames struct {
	Query   Query            `json:"query"`
	Player  *roster.Identity `json:"player,omitempty"`
	Games   []PlayerGame     `json:"games"`
	Totals  PlayerTotals     `json:"totals"`
	Message string           `json:"message,omitempty"`
}

type playerGameKey struct {
	team     string
	jersey   int
	gameDate string
	opponent string
}

// PlayerGames outer-merges home-side scores, assists, shots and penalties on
// (JerseyNumber, GameDate, Opponent). Absent combinations count as 0.
func (d *Data) PlayerGames(q Query) PlayerGames {
	rows := make(map[playerGameKey]*PlayerGame)
	get := func(team string, jersey int, date, opponent string) *PlayerGame {
		k := playerGameKey{team, jersey, date, opponent}
		pg, ok := rows[k]
		if !ok {
			pg = &PlayerGame{Team: team, JerseyNumber: jersey, GameDate: date, Opponent: opponent}
			rows[k] = pg
		}
		return pg
	}

	for _, row := range d.Scoring {
		e := row.Event
		if e.ScoringTeam != d.HomeSide || !q.match(e.Game) {
			continue
		}
		if q.matchPlayer(e.JerseyNumber) {
			get(e.Team, e.JerseyNumber, e.GameDate, e.Opponent).Scores++
		}
		for _, a := range []*int{e.Assistant1, e.Assistant2} {
			if a != nil && q.matchPlayer(*a) {
				get(e.Team, *a, e.GameDate, e.Opponent).Assists++
			}
		}
	}
	for _, row := range d.Shots {
		e := row.Event
		if e.ShootingTeam == d.HomeSide && q.match(e.Game) && q.matchPlayer(e.JerseyNumber) {
			get(e.Team, e.JerseyNumber, e.GameDate, e.Opponent).Shots++
		}
	}
	for _, row := range d.Penalties {
		e := row.Event
		if e.PenaltyTeam == d.HomeSide && q.match(e.Game) && q.matchPlayer(e.JerseyNumber) {
			get(e.Team, e.JerseyNumber, e.GameDate, e.Opponent).Penalties++
		}
	}

	out := PlayerGames{Query: q, Games: make([]PlayerGame, 0, len(rows))}
	if q.Player != nil {
		out.Player = d.identity(q.Team, *q.Player)
	}
	for _, pg := range rows {
		out.Games = append(out.Games, *pg)
		out.Totals.Scores += pg.Scores
		out.Totals.Assists += pg.Assists
		out.Totals.Shots += pg.Shots
		out.Totals.Penalties += pg.Penalties
	}
	out.Totals.ScoringRate = rate(out.Totals.Scores, out.Totals.Shots)
	slices.SortFunc(out.Games, func(a, b PlayerGame) int {
		return cmp.Or(
			cmp.Compare(b.GameDate, a.GameDate),
			cmp.Compare(a.JerseyNumber, b.JerseyNumber),
			cmp.Compare(a.Opponent, b.Opponent),
		)
	})
	if len(out.Games) == 0 {
		out.Message = noData("player", q)
	}
	return out
}
