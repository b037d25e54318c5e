package hockey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGameDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-11-30", "2024-11-30"},
		{"2024-11-30 00:00:00", "2024-11-30"},
		{"2024-11-30T19:30:00", "2024-11-30"},
		{"11/30/2024", "2024-11-30"},
		{"1/5/2025", "2025-01-05"},
		{"11-30-24", "2024-11-30"},
		{"45626", "2024-11-30"},
		{"  2024-11-30 ", "2024-11-30"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeGameDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeGameDate("next tuesday")
	assert.Error(t, err)
	_, err = NormalizeGameDate("")
	assert.Error(t, err)
}

func TestParseKindAndPeriod(t *testing.T) {
	k, err := ParseKind("Golie")
	require.NoError(t, err)
	assert.Equal(t, KindGoalie, k)

	k, err = ParseKind("SHOTS")
	require.NoError(t, err)
	assert.Equal(t, "Shots", k.Sheet())

	_, err = ParseKind("zamboni")
	assert.ErrorIs(t, err, ErrUnknownKind)

	p, err := ParsePeriod("OT")
	require.NoError(t, err)
	assert.Equal(t, PeriodOvertime, p)

	p, err = ParsePeriod("2.0")
	require.NoError(t, err)
	assert.Equal(t, Period2, p)
}

func TestScoringFromRecord(t *testing.T) {
	rec := Record{
		ColGameDate:     "11/30/2024",
		ColTeam:         "Varsity",
		ColOpponent:     "Carmel",
		ColHome:         "yes",
		ColWin:          "Yes",
		ColScoreFor:     "3",
		ColScoreAgainst: "2.0",
		ColPeriod:       "2",
		ColGoal:         "17",
		ColAssistant1:   "9",
		ColAssistant2:   "",
		ColScoringTeam:  "Stevenson",
	}

	e, issues := ScoringFromRecord(rec)
	assert.Empty(t, issues)
	assert.Equal(t, "2024-11-30", e.GameDate)
	assert.True(t, e.Home)
	assert.True(t, e.Win)
	assert.Equal(t, 3, e.ScoreFor)
	assert.Equal(t, 2, e.ScoreAgainst)
	assert.Equal(t, 17, e.JerseyNumber)
	require.NotNil(t, e.Assistant1)
	assert.Equal(t, 9, *e.Assistant1)
	assert.Nil(t, e.Assistant2)
	assert.NoError(t, e.Validate())

	back := e.Record()
	assert.Equal(t, "17", back[ColGoal])
	assert.Equal(t, "", back[ColAssistant2])
	assert.Equal(t, "2024-11-30", back[ColGameDate])
}

func TestNonNumericCountDefaultsToZero(t *testing.T) {
	e, issues := FaceoffFromRecord(Record{
		ColGameDate:     "2024-12-01",
		ColTeam:         "Varsity",
		ColOpponent:     "York",
		ColPeriod:       "1",
		ColJerseyNumber: "17",
		ColWin:          "seven",
		ColLose:         "3",
	})

	require.Len(t, issues, 1)
	assert.Equal(t, ColWin, issues[0].Column)
	assert.Equal(t, 0, e.Win)
	assert.Equal(t, 3, e.Lose)
}

func TestOutOfRangeCountDefaultsToZero(t *testing.T) {
	e, issues := FaceoffFromRecord(Record{
		ColGameDate:     "2024-12-01",
		ColTeam:         "Varsity",
		ColOpponent:     "York",
		ColPeriod:       "1",
		ColJerseyNumber: "17",
		ColWin:          "1e30",
		ColLose:         "-1e30",
	})

	require.Len(t, issues, 2)
	assert.ElementsMatch(t, []string{ColWin, ColLose}, []string{issues[0].Column, issues[1].Column})
	assert.Equal(t, 0, e.Win)
	assert.Equal(t, 0, e.Lose)

	for _, raw := range []string{"1e30", "Inf", "NaN", "17.5"} {
		_, ok := parseInt(raw)
		assert.False(t, ok, raw)
	}
	n, ok := parseInt("17.0")
	assert.True(t, ok)
	assert.Equal(t, 17, n)
}

func TestDecodeRequiresKeyColumns(t *testing.T) {
	_, _, err := DecodeShots(Table{Columns: []string{ColGameDate, ColTeam}})
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = DecodeScoring(Table{Columns: []string{ColTeam, ColJerseyNumber}})
	assert.ErrorIs(t, err, ErrMissingColumn, "scoring keys on the Goal column")

	events, issues, err := DecodePenalties(Table{
		Columns: []string{ColGameDate, ColTeam, ColOpponent, ColPeriod, ColJerseyNumber, ColPenaltyTeam, ColPenaltyCode, ColPenaltyMins},
		Rows: []Record{
			{ColGameDate: "2024-12-01", ColTeam: "Varsity", ColOpponent: "York", ColPeriod: "1", ColJerseyNumber: "4", ColPenaltyTeam: "Stevenson", ColPenaltyCode: "TRIP", ColPenaltyMins: "2"},
			{ColGameDate: "2024-12-01", ColTeam: "Varsity", ColOpponent: "York", ColPeriod: "3", ColJerseyNumber: "x", ColPenaltyTeam: "York", ColPenaltyCode: "HOOK", ColPenaltyMins: "2"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Row)
}

func TestFromRecordAcceptsJerseyNumberForGoals(t *testing.T) {
	rec := RecordFromValues(map[string]any{
		ColGameDate:     "2024-12-01",
		ColTeam:         "Varsity",
		ColOpponent:     "York",
		ColHome:         false,
		ColWin:          false,
		ColScoreFor:     float64(1),
		ColScoreAgainst: float64(4),
		ColPeriod:       "3",
		ColJerseyNumber: float64(22),
		ColScoringTeam:  "Stevenson",
	})

	e, issues, err := FromRecord(KindScoring, rec)
	require.NoError(t, err)
	assert.Empty(t, issues)
	scoring, ok := e.(ScoringEvent)
	require.True(t, ok)
	assert.Equal(t, 22, scoring.JerseyNumber)
	assert.False(t, scoring.Home)
	_, aliased := rec[ColGoal]
	assert.False(t, aliased, "input record must not be modified")

	_, _, err = FromRecord(KindShots, Record{ColTeam: "Varsity"})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestValidate(t *testing.T) {
	shot := ShotEvent{
		Game:         Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       Period1,
		JerseyNumber: 9,
		ShootingTeam: "Stevenson",
		ShootZone:    "Slot",
	}
	assert.NoError(t, shot.Validate())

	shot.Period = "5"
	shot.Opponent = ""
	err := shot.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEvent))
	assert.Contains(t, err.Error(), "opponent is required")
	assert.Contains(t, err.Error(), "unknown period")

	goalie := GoalieEvent{
		Game:         Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       Period2,
		ShotsAgainst: 10,
		Saves:        12,
	}
	assert.ErrorIs(t, goalie.Validate(), ErrInvalidEvent)
}

func TestUnmarshalEvent(t *testing.T) {
	e, err := UnmarshalEvent(KindFaceoff, []byte(`{"game_date":"2024-12-01","team":"Varsity","opponent":"York","period":"1","jersey_number":17,"win":7,"lose":3}`))
	require.NoError(t, err)
	f, ok := e.(FaceoffEvent)
	require.True(t, ok)
	assert.Equal(t, 7, f.Win)
	assert.Equal(t, "York", f.Opponent)

	_, err = UnmarshalEvent("unknown", nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
