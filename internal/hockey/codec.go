package hockey

import (
	"maps"
	"strconv"
)

// RosterFromRecord reads one roster row.
func RosterFromRecord(rec Record) (RosterEntry, []FieldIssue) {
	r := &reader{rec: rec}
	return RosterEntry{
		Team:         r.str(ColTeam),
		JerseyNumber: r.count(ColJerseyNumber),
		FirstName:    r.str(ColFirstName),
		LastName:     r.str(ColLastName),
		Position:     r.str(ColPosition),
	}, r.issues
}

func (e RosterEntry) Record() Record {
	return Record{
		ColTeam:         e.Team,
		ColJerseyNumber: strconv.Itoa(e.JerseyNumber),
		ColFirstName:    e.FirstName,
		ColLastName:     e.LastName,
		ColPosition:     e.Position,
	}
}

// ScoringFromRecord reads one Scoring row; the Goal column becomes JerseyNumber.
func ScoringFromRecord(rec Record) (ScoringEvent, []FieldIssue) {
	r := &reader{rec: rec}
	e := ScoringEvent{
		Game:         r.game(),
		Home:         r.yesNo(ColHome),
		Win:          r.yesNo(ColWin),
		ScoreFor:     r.count(ColScoreFor),
		ScoreAgainst: r.count(ColScoreAgainst),
		Period:       r.period(ColPeriod),
		JerseyNumber: r.count(ColGoal),
		Assistant1:   r.optional(ColAssistant1),
		Assistant2:   r.optional(ColAssistant2),
		ScoringTeam:  r.str(ColScoringTeam),
	}
	return e, r.issues
}

func (e ScoringEvent) Record() Record {
	return Record{
		ColGameDate:     e.GameDate,
		ColTeam:         e.Team,
		ColOpponent:     e.Opponent,
		ColHome:         formatYesNo(e.Home),
		ColWin:          formatYesNo(e.Win),
		ColScoreFor:     strconv.Itoa(e.ScoreFor),
		ColScoreAgainst: strconv.Itoa(e.ScoreAgainst),
		ColPeriod:       string(e.Period),
		ColGoal:         strconv.Itoa(e.JerseyNumber),
		ColAssistant1:   formatOptional(e.Assistant1),
		ColAssistant2:   formatOptional(e.Assistant2),
		ColScoringTeam:  e.ScoringTeam,
	}
}

func ShotFromRecord(rec Record) (ShotEvent, []FieldIssue) {
	r := &reader{rec: rec}
	e := ShotEvent{
		Game:         r.game(),
		Period:       r.period(ColPeriod),
		JerseyNumber: r.count(ColJerseyNumber),
		ShootingTeam: r.str(ColShootingTeam),
		ShootZone:    r.str(ColShootZone),
		IsPowerplay:  r.yesNo(ColIsPowerplay),
		IsGoal:       r.yesNo(ColIsGoal),
	}
	return e, r.issues
}

func (e ShotEvent) Record() Record {
	return Record{
		ColGameDate:     e.GameDate,
		ColTeam:         e.Team,
		ColOpponent:     e.Opponent,
		ColPeriod:       string(e.Period),
		ColIsPowerplay:  formatYesNo(e.IsPowerplay),
		ColJerseyNumber: strconv.Itoa(e.JerseyNumber),
		ColShootingTeam: e.ShootingTeam,
		ColShootZone:    e.ShootZone,
		ColIsGoal:       formatYesNo(e.IsGoal),
	}
}

func PenaltyFromRecord(rec Record) (PenaltyEvent, []FieldIssue) {
	r := &reader{rec: rec}
	e := PenaltyEvent{
		Game:         r.game(),
		Period:       r.period(ColPeriod),
		JerseyNumber: r.count(ColJerseyNumber),
		PenaltyTeam:  r.str(ColPenaltyTeam),
		PenaltyCode:  r.str(ColPenaltyCode),
		PenaltyMins:  r.count(ColPenaltyMins),
	}
	return e, r.issues
}

func (e PenaltyEvent) Record() Record {
	return Record{
		ColGameDate:     e.GameDate,
		ColTeam:         e.Team,
		ColOpponent:     e.Opponent,
		ColPeriod:       string(e.Period),
		ColJerseyNumber: strconv.Itoa(e.JerseyNumber),
		ColPenaltyTeam:  e.PenaltyTeam,
		ColPenaltyCode:  e.PenaltyCode,
		ColPenaltyMins:  strconv.Itoa(e.PenaltyMins),
	}
}

func FaceoffFromRecord(rec Record) (FaceoffEvent, []FieldIssue) {
	r := &reader{rec: rec}
	e := FaceoffEvent{
		Game:         r.game(),
		Period:       r.period(ColPeriod),
		JerseyNumber: r.count(ColJerseyNumber),
		Win:          r.count(ColWin),
		Lose:         r.count(ColLose),
	}
	return e, r.issues
}

func (e FaceoffEvent) Record() Record {
	return Record{
		ColGameDate:     e.GameDate,
		ColTeam:         e.Team,
		ColOpponent:     e.Opponent,
		ColPeriod:       string(e.Period),
		ColJerseyNumber: strconv.Itoa(e.JerseyNumber),
		ColWin:          strconv.Itoa(e.Win),
		ColLose:         strconv.Itoa(e.Lose),
	}
}

func GoalieFromRecord(rec Record) (GoalieEvent, []FieldIssue) {
	r := &reader{rec: rec}
	e := GoalieEvent{
		Game:         r.game(),
		Period:       r.period(ColPeriod),
		JerseyNumber: r.count(ColJerseyNumber),
		ShotsAgainst: r.count(ColShotsAgainst),
		Saves:        r.count(ColSaves),
		GoalsAgainst: r.count(ColGoalsAgainst),
	}
	return e, r.issues
}

func (e GoalieEvent) Record() Record {
	return Record{
		ColGameDate:     e.GameDate,
		ColTeam:         e.Team,
		ColOpponent:     e.Opponent,
		ColPeriod:       string(e.Period),
		ColJerseyNumber: strconv.Itoa(e.JerseyNumber),
		ColShotsAgainst: strconv.Itoa(e.ShotsAgainst),
		ColSaves:        strconv.Itoa(e.Saves),
		ColGoalsAgainst: strconv.Itoa(e.GoalsAgainst),
	}
}

// keyColumns are the columns a kind cannot be joined or grouped without.
func keyColumns(k Kind) []string {
	switch k {
	case KindScoring:
		return []string{ColTeam, ColGoal}
	default:
		return []string{ColTeam, ColJerseyNumber}
	}
}

// decode converts every row of t, stamping issues with their sheet line
// (header is line 1).
func decode[T any](t Table, required []string, from func(Record) (T, []FieldIssue)) ([]T, []FieldIssue, error) {
	if err := t.Require(required...); err != nil {
		return nil, nil, err
	}
	out := make([]T, 0, len(t.Rows))
	var issues []FieldIssue
	for i, rec := range t.Rows {
		v, rowIssues := from(rec)
		for _, is := range rowIssues {
			is.Row = i + 2
			issues = append(issues, is)
		}
		out = append(out, v)
	}
	return out, issues, nil
}

func DecodeRoster(t Table) ([]RosterEntry, []FieldIssue, error) {
	return decode(t, []string{ColTeam, ColJerseyNumber}, RosterFromRecord)
}

func DecodeScoring(t Table) ([]ScoringEvent, []FieldIssue, error) {
	return decode(t, keyColumns(KindScoring), ScoringFromRecord)
}

func DecodeShots(t Table) ([]ShotEvent, []FieldIssue, error) {
	return decode(t, keyColumns(KindShots), ShotFromRecord)
}

func DecodePenalties(t Table) ([]PenaltyEvent, []FieldIssue, error) {
	return decode(t, keyColumns(KindPenalties), PenaltyFromRecord)
}

func DecodeFaceoffs(t Table) ([]FaceoffEvent, []FieldIssue, error) {
	return decode(t, keyColumns(KindFaceoff), FaceoffFromRecord)
}

func DecodeGoalies(t Table) ([]GoalieEvent, []FieldIssue, error) {
	return decode(t, keyColumns(KindGoalie), GoalieFromRecord)
}

// FromRecord reads a single record of the given kind. It is the entry point
// for form submissions, which arrive as plain column/value maps.
func FromRecord(k Kind, rec Record) (Event, []FieldIssue, error) {
	rec = maps.Clone(rec)
	for _, col := range keyColumns(k) {
		if _, ok := rec[col]; !ok {
			// Forms may send JerseyNumber for goals.
			if col == ColGoal {
				if v, ok := rec[ColJerseyNumber]; ok {
					rec[ColGoal] = v
					continue
				}
			}
			return nil, nil, missingColumn(col)
		}
	}
	switch k {
	case KindScoring:
		e, is := ScoringFromRecord(rec)
		return e, is, nil
	case KindShots:
		e, is := ShotFromRecord(rec)
		return e, is, nil
	case KindPenalties:
		e, is := PenaltyFromRecord(rec)
		return e, is, nil
	case KindFaceoff:
		e, is := FaceoffFromRecord(rec)
		return e, is, nil
	case KindGoalie:
		e, is := GoalieFromRecord(rec)
		return e, is, nil
	}
	return nil, nil, ErrUnknownKind
}

func missingColumn(col string) error {
	return Table{}.Require(col)
}
