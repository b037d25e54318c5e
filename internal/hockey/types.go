package hockey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn is returned when a table lacks a column the pipeline keys on.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidEvent is returned when an event fails boundary validation.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrUnknownKind is returned for an event kind we do not store.
	ErrUnknownKind = errors.New("unknown event kind")
)

// Kind identifies an event type and the worksheet that holds it.
type Kind string

const (
	KindScoring   Kind = "scoring"
	KindShots     Kind = "shots"
	KindPenalties Kind = "penalties"
	KindFaceoff   Kind = "faceoff"
	KindGoalie    Kind = "goalie"
)

// Kinds lists every event kind in sync order.
var Kinds = []Kind{KindScoring, KindShots, KindPenalties, KindFaceoff, KindGoalie}

const SheetRoster = "Roster"

// Sheet returns the worksheet name for the kind. The goalie sheet keeps the
// spelling used by the existing workbook.
func (k Kind) Sheet() string {
	switch k {
	case KindScoring:
		return "Scoring"
	case KindShots:
		return "Shots"
	case KindPenalties:
		return "Penalties"
	case KindFaceoff:
		return "Faceoff"
	case KindGoalie:
		return "Golie"
	}
	return ""
}

// Columns returns the header used when a sheet for the kind is created from scratch.
func (k Kind) Columns() []string {
	base := []string{ColGameDate, ColTeam, ColOpponent}
	switch k {
	case KindScoring:
		return append(base, ColHome, ColWin, ColScoreFor, ColScoreAgainst, ColPeriod, ColGoal, ColAssistant1, ColAssistant2, ColScoringTeam)
	case KindShots:
		return append(base, ColPeriod, ColIsPowerplay, ColJerseyNumber, ColShootingTeam, ColShootZone, ColIsGoal)
	case KindPenalties:
		return append(base, ColPeriod, ColJerseyNumber, ColPenaltyTeam, ColPenaltyCode, ColPenaltyMins)
	case KindFaceoff:
		return append(base, ColPeriod, ColJerseyNumber, ColWin, ColLose)
	case KindGoalie:
		return append(base, ColPeriod, ColJerseyNumber, ColShotsAgainst, ColSaves, ColGoalsAgainst)
	}
	return nil
}

// ParseKind accepts a kind name or its sheet name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == strings.ToLower(k.Sheet()) {
			return k, nil
		}
	}
	switch s {
	case "score", "scores", "goals":
		return KindScoring, nil
	case "shot", "shooting":
		return KindShots, nil
	case "penalty":
		return KindPenalties, nil
	case "faceoffs":
		return KindFaceoff, nil
	case "goalies":
		return KindGoalie, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Period of play.
type Period string

const (
	Period1        Period = "1"
	Period2        Period = "2"
	Period3        Period = "3"
	PeriodOvertime Period = "Overtime"
)

// Periods lists the periods in playing order.
var Periods = []Period{Period1, Period2, Period3, PeriodOvertime}

// ParsePeriod normalizes sheet and form spellings of a period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "first":
		return Period1, nil
	case "2", "2.0", "second":
		return Period2, nil
	case "3", "3.0", "third":
		return Period3, nil
	case "overtime", "ot":
		return PeriodOvertime, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Sheet column names.
const (
	ColGameDate     = "GameDate"
	ColTeam         = "Team"
	ColOpponent     = "Opponent"
	ColPeriod       = "Period"
	ColJerseyNumber = "JerseyNumber"
	ColGoal         = "Goal"
	ColHome         = "Home"
	ColWin          = "Win"
	ColLose         = "Lose"
	ColScoreFor     = "ScoreStevenson"
	ColScoreAgainst = "ScoreOpponent"
	ColAssistant1   = "Assistant_1"
	ColAssistant2   = "Assistant_2"
	ColScoringTeam  = "ScoringTeam"
	ColShootingTeam = "ShootingTeam"
	ColShootZone    = "ShootZone"
	ColIsPowerplay  = "IsPowerplay"
	ColIsGoal       = "IsGoal"
	ColPenaltyTeam  = "PenaltyTeam"
	ColPenaltyCode  = "PenaltyCode"
	ColPenaltyMins  = "PenaltyMins"
	ColShotsAgainst = "ShotsAgainst"
	ColSaves        = "Saves"
	ColGoalsAgainst = "GoalsAgainst"
	ColFirstName    = "FirstName"
	ColLastName     = "LastName"
	ColPosition     = "Position"
)

// ShootZones are the zones offered by the entry form.
var ShootZones = []string{
	"Blue Line", "Boards", "Corners", "Defensive Zone",
	"Faceoff Circles", "Faceoff Dots", "Goal Crease",
	"High Slot", "Neutral Zone", "Offensive Zone", "Slot",
}

// Game is the natural key every event carries.
type Game struct {
	GameDate string `json:"game_date"`
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
}

// RosterEntry is one player of a team. JerseyNumber is unique within Team.
type RosterEntry struct {
	Team         string `json:"team"`
	JerseyNumber int    `json:"jersey_number"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
}

// DisplayName renders "LastName, FirstName".
func (r RosterEntry) DisplayName() string {
	return r.LastName + ", " + r.FirstName
}

// ScoringEvent is one goal. JerseyNumber is the scorer, stored in the Goal column.
type ScoringEvent struct {
	Game
	Home         bool   `json:"home"`
	Win          bool   `json:"win"`
	ScoreFor     int    `json:"score_for"`
	ScoreAgainst int    `json:"score_against"`
	Period       Period `json:"period"`
	JerseyNumber int    `json:"jersey_number"`
	Assistant1   *int   `json:"assistant_1,omitempty"`
	Assistant2   *int   `json:"assistant_2,omitempty"`
	ScoringTeam  string `json:"scoring_team"`
}

// ShotEvent is one shot attempt.
type ShotEvent struct {
	Game
	Period       Period `json:"period"`
	JerseyNumber int    `json:"jersey_number"`
	ShootingTeam string `json:"shooting_team"`
	ShootZone    string `json:"shoot_zone"`
	IsPowerplay  bool   `json:"is_powerplay"`
	IsGoal       bool   `json:"is_goal"`
}

// PenaltyEvent is one penalty.
type PenaltyEvent struct {
	Game
	Period       Period `json:"period"`
	JerseyNumber int    `json:"jersey_number"`
	PenaltyTeam  string `json:"penalty_team"`
	PenaltyCode  string `json:"penalty_code"`
	PenaltyMins  int    `json:"penalty_mins"`
}

// FaceoffEvent is a win/lose tally for one player in one period.
type FaceoffEvent struct {
	Game
	Period       Period `json:"period"`
	JerseyNumber int    `json:"jersey_number"`
	Win          int    `json:"win"`
	Lose         int    `json:"lose"`
}

// GoalieEvent is a goalie's line for one period.
type GoalieEvent struct {
	Game
	Period       Period `json:"period"`
	JerseyNumber int    `json:"jersey_number"`
	ShotsAgainst int    `json:"shots_against"`
	Saves        int    `json:"saves"`
	GoalsAgainst int    `json:"goals_against"`
}

// Event is implemented by every typed event record.
type Event interface {
	Kind() Kind
	GameInfo() Game
	Record() Record
	Validate() error
}

var (
	_ Event = ScoringEvent{}
	_ Event = ShotEvent{}
	_ Event = PenaltyEvent{}
	_ Event = FaceoffEvent{}
	_ Event = GoalieEvent{}
)

func (ScoringEvent) Kind() Kind { return KindScoring }
func (ShotEvent) Kind() Kind    { return KindShots }
func (PenaltyEvent) Kind() Kind { return KindPenalties }
func (FaceoffEvent) Kind() Kind { return KindFaceoff }
func (GoalieEvent) Kind() Kind  { return KindGoalie }

func (e ScoringEvent) GameInfo() Game { return e.Game }
func (e ShotEvent) GameInfo() Game    { return e.Game }
func (e PenaltyEvent) GameInfo() Game { return e.Game }
func (e FaceoffEvent) GameInfo() Game { return e.Game }
func (e GoalieEvent) GameInfo() Game  { return e.Game }

// FieldIssue reports a cell that could not be parsed. The value falls back to
// its zero value and processing continues.
type FieldIssue struct {
	Row     int    `json:"row,omitempty"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (i FieldIssue) String() string {
	if i.Row > 0 {
		return fmt.Sprintf("row %d, %s=%q: %s", i.Row, i.Column, i.Value, i.Message)
	}
	return fmt.Sprintf("%s=%q: %s", i.Column, i.Value, i.Message)
}
