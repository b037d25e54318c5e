package roster

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/hockey"
)

// Identity is the roster data attached to an event row.
type Identity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// DisplayName renders "LastName, FirstName".
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	return i.LastName + ", " + i.FirstName
}

// Enriched pairs an event with the identity of the player it names. Player is
// nil for rows of other teams and for jersey numbers missing from the roster.
type Enriched[T any] struct {
	Event  T         `json:"event"`
	Player *Identity `json:"player"`
}

type key struct {
	team   string
	jersey int
}

// Index is the roster keyed on (Team, JerseyNumber).
type Index struct {
	entries []hockey.RosterEntry
	byKey   map[key]hockey.RosterEntry
}

// NewIndex builds the join index. A repeated (Team, JerseyNumber) keeps the
// first entry so that the join never duplicates event rows.
func NewIndex(entries []hockey.RosterEntry) *Index {
	ix := &Index{
		entries: entries,
		byKey:   make(map[key]hockey.RosterEntry, len(entries)),
	}
	for _, e := range entries {
		k := key{team: e.Team, jersey: e.JerseyNumber}
		if _, dup := ix.byKey[k]; dup {
			log.Warn("Duplicate jersey number in roster, keeping first entry", "team", e.Team, "jersey", e.JerseyNumber)
			continue
		}
		ix.byKey[k] = e
	}
	return ix
}

// Lookup returns the identity for a team's jersey number, or nil.
func (ix *Index) Lookup(team string, jersey int) *Identity {
	e, ok := ix.byKey[key{team: team, jersey: jersey}]
	if !ok {
		return nil
	}
	return &Identity{FirstName: e.FirstName, LastName: e.LastName, Position: e.Position}
}

// Joiner enriches home-side rows. HomeSide is the organisation name used in the
// ScoringTeam, ShootingTeam and PenaltyTeam columns.
type Joiner struct {
	Index    *Index
	HomeSide string
}

// NewJoiner creates a Joiner.
func NewJoiner(ix *Index, homeSide string) *Joiner {
	return &Joiner{Index: ix, HomeSide: homeSide}
}

// join is a left join of events onto the roster. Rows for which home reports
// false pass through with a nil identity. Output order follows input order.
func join[T any](ix *Index, events []T, keyOf func(T) (team string, jersey int, home bool)) []Enriched[T] {
	out := make([]Enriched[T], 0, len(events))
	for _, e := range events {
		team, jersey, home := keyOf(e)
		row := Enriched[T]{Event: e}
		if home {
			row.Player = ix.Lookup(team, jersey)
		}
		out = append(out, row)
	}
	return out
}

func (j *Joiner) Scoring(events []hockey.ScoringEvent) []Enriched[hockey.ScoringEvent] {
	return join(j.Index, events, func(e hockey.ScoringEvent) (string, int, bool) {
		return e.Team, e.JerseyNumber, e.ScoringTeam == j.HomeSide
	})
}

func (j *Joiner) Shots(events []hockey.ShotEvent) []Enriched[hockey.ShotEvent] {
	return join(j.Index, events, func(e hockey.ShotEvent) (string, int, bool) {
		return e.Team, e.JerseyNumber, e.ShootingTeam == j.HomeSide
	})
}

func (j *Joiner) Penalties(events []hockey.PenaltyEvent) []Enriched[hockey.PenaltyEvent] {
	return join(j.Index, events, func(e hockey.PenaltyEvent) (string, int, bool) {
		return e.Team, e.JerseyNumber, e.PenaltyTeam == j.HomeSide
	})
}

// Faceoffs are only tallied for our own players.
func (j *Joiner) Faceoffs(events []hockey.FaceoffEvent) []Enriched[hockey.FaceoffEvent] {
	return join(j.Index, events, func(e hockey.FaceoffEvent) (string, int, bool) {
		return e.Team, e.JerseyNumber, true
	})
}

// Goalies are only tallied for our own goalies.
func (j *Joiner) Goalies(events []hockey.GoalieEvent) []Enriched[hockey.GoalieEvent] {
	return join(j.Index, events, func(e hockey.GoalieEvent) (string, int, bool) {
		return e.Team, e.JerseyNumber, true
	})
}
