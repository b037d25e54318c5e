package stats

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// ScoreLine is the final score of one game.
type ScoreLine struct {
	GameDate     string `json:"game_date"`
	Opponent     string `json:"opponent"`
	Home         bool   `json:"home"`
	Win          bool   `json:"win"`
	ScoreFor     int    `json:"score_for"`
	ScoreAgainst int    `json:"score_against"`
}

// Outcomes summarises a team's results.
type Outcomes struct {
	Query       Query       `json:"query"`
	Games       int         `json:"games"`
	Wins        int         `json:"wins"`
	WinRate     float64     `json:"win_rate"`
	HomeGames   int         `json:"home_games"`
	HomeWins    int         `json:"home_wins"`
	HomeWinRate float64     `json:"home_win_rate"`
	AwayGames   int         `json:"away_games"`
	AwayWins    int         `json:"away_wins"`
	AwayWinRate float64     `json:"away_win_rate"`
	Scores      []ScoreLine `json:"scores"`
	Message     string      `json:"message,omitempty"`
}

// scoreLines collapses scoring rows into one line per game, ordered by date.
// Rows may carry the running score, so each line keeps the highest seen.
func (d *Data) scoreLines(q Query) ([]gameKey, map[gameKey]*ScoreLine) {
	var order []gameKey
	lines := make(map[gameKey]*ScoreLine)
	for _, row := range d.Scoring {
		e := row.Event
		if !q.match(e.Game) {
			continue
		}
		k := keyOf(e.Game)
		l, ok := lines[k]
		if !ok {
			l = &ScoreLine{GameDate: e.GameDate, Opponent: e.Opponent, Home: e.Home}
			lines[k] = l
			order = append(order, k)
		}
		l.Win = l.Win || e.Win
		l.ScoreFor = max(l.ScoreFor, e.ScoreFor)
		l.ScoreAgainst = max(l.ScoreAgainst, e.ScoreAgainst)
	}
	slices.SortStableFunc(order, func(a, b gameKey) int {
		return cmp.Or(cmp.Compare(a.GameDate, b.GameDate), cmp.Compare(a.Opponent, b.Opponent))
	})
	return order, lines
}

// TeamOutcomes counts distinct games and wins. Rates are 0 when there are no games.
func (d *Data) TeamOutcomes(q Query) Outcomes {
	out := Outcomes{Query: q, Scores: []ScoreLine{}}
	order, lines := d.scoreLines(q)
	for _, k := range order {
		l := lines[k]
		out.Scores = append(out.Scores, *l)
		out.Games++
		if l.Home {
			out.HomeGames++
		} else {
			out.AwayGames++
		}
		if !l.Win {
			continue
		}
		out.Wins++
		if l.Home {
			out.HomeWins++
		} else {
			out.AwayWins++
		}
	}
	out.WinRate = rate(out.Wins, out.Games)
	out.HomeWinRate = rate(out.HomeWins, out.HomeGames)
	out.AwayWinRate = rate(out.AwayWins, out.AwayGames)
	if out.Games == 0 {
		out.Message = noData("game", q)
	}
	return out
}

// GameShots compares shot totals for one game.
type GameShots struct {
	GameDate      string `json:"game_date"`
	Opponent      string `json:"opponent"`
	Shots         int    `json:"shots"`
	OpponentShots int    `json:"opponent_shots"`
}

// Shots is the team shooting view.
type Shots struct {
	Query              Query        `json:"query"`
	Games              []GameShots  `json:"games"`
	ByZone             []SideTotal  `json:"by_zone"`
	ByGameZone         []GroupCount `json:"by_game_zone"`
	OpponentByGameZone []GroupCount `json:"opponent_by_game_zone"`
	Message            string       `json:"message,omitempty"`
}

// TeamShots splits shots into our side and the opponent's. The per-game list
// follows the scoring game list; games without shot rows report 0.
func (d *Data) TeamShots(q Query) Shots {
	out := Shots{Query: q, Games: []GameShots{}}
	var home, away []hockey.ShotEvent
	for _, row := range d.Shots {
		e := row.Event
		if !q.match(e.Game) {
			continue
		}
		if e.ShootingTeam == d.HomeSide {
			home = append(home, e)
		} else {
			away = append(away, e)
		}
	}

	homeByGame := make(map[gameKey]int)
	awayByGame := make(map[gameKey]int)
	for _, e := range home {
		homeByGame[keyOf(e.Game)]++
	}
	for _, e := range away {
		awayByGame[keyOf(e.Game)]++
	}
	order, _ := d.scoreLines(q)
	for _, k := range order {
		out.Games = append(out.Games, GameShots{
			GameDate:      k.GameDate,
			Opponent:      k.Opponent,
			Shots:         homeByGame[k],
			OpponentShots: awayByGame[k],
		})
	}

	zone := func(e hockey.ShotEvent) string { return e.ShootZone }
	game := func(e hockey.ShotEvent) hockey.Game { return e.Game }
	out.ByZone = sideTotals(home, away, zone)
	out.ByGameZone = countGroups(home, game, zone)
	out.OpponentByGameZone = countGroups(away, game, zone)
	if len(home)+len(away) == 0 {
		out.Message = noData("shooting", q)
	}
	return out
}

// Penalties is the team penalty view.
type Penalties struct {
	Query              Query        `json:"query"`
	Minutes            int          `json:"minutes"`
	OpponentMinutes    int          `json:"opponent_minutes"`
	ByCode             []SideTotal  `json:"by_code"`
	ByGameCode         []GroupCount `json:"by_game_code"`
	OpponentByGameCode []GroupCount `json:"opponent_by_game_code"`
	Message            string       `json:"message,omitempty"`
}

// TeamPenalties counts penalties by code for both sides.
func (d *Data) TeamPenalties(q Query) Penalties {
	out := Penalties{Query: q}
	var home, away []hockey.PenaltyEvent
	for _, row := range d.Penalties {
		e := row.Event
		if !q.match(e.Game) {
			continue
		}
		if e.PenaltyTeam == d.HomeSide {
			home = append(home, e)
			out.Minutes += e.PenaltyMins
		} else {
			away = append(away, e)
			out.OpponentMinutes += e.PenaltyMins
		}
	}
	code := func(e hockey.PenaltyEvent) string { return e.PenaltyCode }
	game := func(e hockey.PenaltyEvent) hockey.Game { return e.Game }
	out.ByCode = sideTotals(home, away, code)
	out.ByGameCode = countGroups(home, game, code)
	out.OpponentByGameCode = countGroups(away, game, code)
	if len(home)+len(away) == 0 {
		out.Message = noData("penalty", q)
	}
	return out
}

// Leaderboard ranks our players by event counts.
type Leaderboard struct {
	Query     Query    `json:"query"`
	Scores    []Leader `json:"scores"`
	Assists   []Leader `json:"assists"`
	Shots     []Leader `json:"shots"`
	Penalties []Leader `json:"penalties"`
	Message   string   `json:"message,omitempty"`
}

// Leaderboard counts goals, assists, shots and penalties per jersey for the home side.
func (d *Data) Leaderboard(q Query) Leaderboard {
	scores := make(map[playerKey]int)
	assists := make(map[playerKey]int)
	shots := make(map[playerKey]int)
	penalties := make(map[playerKey]int)

	for _, row := range d.Scoring {
		e := row.Event
		if e.ScoringTeam != d.HomeSide || !q.match(e.Game) {
			continue
		}
		scores[playerKey{e.Team, e.JerseyNumber}]++
		for _, a := range []*int{e.Assistant1, e.Assistant2} {
			if a != nil {
				assists[playerKey{e.Team, *a}]++
			}
		}
	}
	for _, row := range d.Shots {
		e := row.Event
		if e.ShootingTeam == d.HomeSide && q.match(e.Game) {
			shots[playerKey{e.Team, e.JerseyNumber}]++
		}
	}
	for _, row := range d.Penalties {
		e := row.Event
		if e.PenaltyTeam == d.HomeSide && q.match(e.Game) {
			penalties[playerKey{e.Team, e.JerseyNumber}]++
		}
	}

	out := Leaderboard{
		Query:     q,
		Scores:    d.rank(scores),
		Assists:   d.rank(assists),
		Shots:     d.rank(shots),
		Penalties: d.rank(penalties),
	}
	if len(scores)+len(assists)+len(shots)+len(penalties) == 0 {
		out.Message = noData("player", q)
	}
	return out
}

// playerKey identifies a player across games.
type playerKey struct {
	team   string
	jersey int
}

func (d *Data) rank(counts map[playerKey]int) []Leader {
	out := make([]Leader, 0, len(counts))
	for k, n := range counts {
		out = append(out, Leader{JerseyNumber: k.jersey, Player: d.identity(k.team, k.jersey), Count: n})
	}
	slices.SortFunc(out, func(a, b Leader) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.JerseyNumber, b.JerseyNumber))
	})
	return out
}

// countGroups counts rows per (GameDate, Team, Opponent, value).
func countGroups[T any](rows []T, game func(T) hockey.Game, value func(T) string) []GroupCount {
	type groupKey struct {
		game  gameKey
		value string
	}
	counts := make(map[groupKey]int)
	for _, r := range rows {
		counts[groupKey{keyOf(game(r)), value(r)}]++
	}
	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupCount{
			GameDate: k.game.GameDate,
			Team:     k.game.Team,
			Opponent: k.game.Opponent,
			Value:    k.value,
			Count:    n,
		})
	}
	slices.SortFunc(out, func(a, b GroupCount) int {
		return cmp.Or(
			cmp.Compare(a.GameDate, b.GameDate),
			cmp.Compare(a.Opponent, b.Opponent),
			cmp.Compare(a.Value, b.Value),
		)
	})
	return out
}

func sideTotals[T any](home, away []T, value func(T) string) []SideTotal {
	totals := make(map[string]*SideTotal)
	get := func(v string) *SideTotal {
		t, ok := totals[v]
		if !ok {
			t = &SideTotal{Value: v}
			totals[v] = t
		}
		return t
	}
	for _, r := range home {
		get(value(r)).Home++
	}
	for _, r := range away {
		get(value(r)).Opponent++
	}
	out := make([]SideTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b SideTotal) int { return cmp.Compare(a.Value, b.Value) })
	return out
}

func noData(what string, q Query) string {
	msg := fmt.Sprintf("No %s data for %s", what, q.Team)
	if o := q.opponent(); o != "" {
		msg += " against " + o
	}
	if q.GameDate != "" {
		msg += " on " + q.GameDate
	}
	return msg
}
