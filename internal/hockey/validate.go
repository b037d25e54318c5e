package hockey

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func validateGame(g Game, p Period) []error {
	var errs []error
	if g.Team == "" {
		errs = append(errs, errors.New("team is required"))
	}
	if g.Opponent == "" {
		errs = append(errs, errors.New("opponent is required"))
	}
	if _, err := time.Parse(DateLayout, g.GameDate); err != nil {
		errs = append(errs, fmt.Errorf("game date %q is not YYYY-MM-DD", g.GameDate))
	}
	if _, err := ParsePeriod(string(p)); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func nonNegative(errs []error, name string, n int) []error {
	if n < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", name))
	}
	return errs
}

func invalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidEvent, errors.Join(errs...))
}

func (e ScoringEvent) Validate() error {
	errs := validateGame(e.Game, e.Period)
	if e.ScoringTeam == "" {
		errs = append(errs, errors.New("scoring team is required"))
	}
	errs = nonNegative(errs, "score", e.ScoreFor)
	errs = nonNegative(errs, "opponent score", e.ScoreAgainst)
	errs = nonNegative(errs, "goal jersey number", e.JerseyNumber)
	return invalid(errs)
}

func (e ShotEvent) Validate() error {
	errs := validateGame(e.Game, e.Period)
	if e.ShootingTeam == "" {
		errs = append(errs, errors.New("shooting team is required"))
	}
	if e.ShootZone == "" {
		errs = append(errs, errors.New("shoot zone is required"))
	}
	errs = nonNegative(errs, "jersey number", e.JerseyNumber)
	return invalid(errs)
}

func (e PenaltyEvent) Validate() error {
	errs := validateGame(e.Game, e.Period)
	if e.PenaltyTeam == "" {
		errs = append(errs, errors.New("penalty team is required"))
	}
	errs = nonNegative(errs, "jersey number", e.JerseyNumber)
	errs = nonNegative(errs, "penalty minutes", e.PenaltyMins)
	return invalid(errs)
}

func (e FaceoffEvent) Validate() error {
	errs := validateGame(e.Game, e.Period)
	errs = nonNegative(errs, "jersey number", e.JerseyNumber)
	errs = nonNegative(errs, "faceoff wins", e.Win)
	errs = nonNegative(errs, "faceoff losses", e.Lose)
	return invalid(errs)
}

func (e GoalieEvent) Validate() error {
	errs := validateGame(e.Game, e.Period)
	errs = nonNegative(errs, "jersey number", e.JerseyNumber)
	errs = nonNegative(errs, "shots against", e.ShotsAgainst)
	errs = nonNegative(errs, "saves", e.Saves)
	errs = nonNegative(errs, "goals against", e.GoalsAgainst)
	if e.Saves > e.ShotsAgainst {
		errs = append(errs, errors.New("saves exceed shots against"))
	}
	return invalid(errs)
}

// UnmarshalEvent decodes a JSON payload written by json.Marshal(Event).
func UnmarshalEvent(k Kind, data []byte) (Event, error) {
	var (
		e   Event
		err error
	)
	switch k {
	case KindScoring:
		var v ScoringEvent
		err = json.Unmarshal(data, &v)
		e = v
	case KindShots:
		var v ShotEvent
		err = json.Unmarshal(data, &v)
		e = v
	case KindPenalties:
		var v PenaltyEvent
		err = json.Unmarshal(data, &v)
		e = v
	case KindFaceoff:
		var v FaceoffEvent
		err = json.Unmarshal(data, &v)
		e = v
	case KindGoalie:
		var v GoalieEvent
		err = json.Unmarshal(data, &v)
		e = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", k, err)
	}
	return e, nil
}
