package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/config"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/sheet"
)

var (
	firstNames = []string{"Ethan", "Connor", "Liam", "Owen", "Jack", "Lucas", "Mason", "Caleb", "Nolan", "Ryan", "Aiden", "Tyler"}
	lastNames  = []string{"Park", "Walsh", "Brooks", "Keller", "Novak", "Reyes", "Hart", "Lund", "Shaw", "Price", "Moreau", "Kane"}
	positions  = []string{"C", "LW", "RW", "D", "D", "G"}
	opponents  = []string{"Carmel", "York", "Hinsdale", "Loyola", "Glenbrook", "Deerfield"}
	penalties  = []string{"HOOK", "TRIP", "SLASH", "INT", "ROUGH", "HOLD"}
)

func main() {
	log.Info("Starting workbook seeder...")
	cfg := config.Load()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	wb := sheet.NewWorkbook()
	rosters := map[string][]hockey.RosterEntry{
		"Varsity": seedRoster(rng, "Varsity"),
		"JV":      seedRoster(rng, "JV"),
	}
	roster := hockey.Table{Columns: []string{hockey.ColTeam, hockey.ColJerseyNumber, hockey.ColFirstName, hockey.ColLastName, hockey.ColPosition}}
	events := make(map[hockey.Kind][]hockey.Event)
	for team, players := range rosters {
		for _, p := range players {
			roster.Rows = append(roster.Rows, p.Record())
		}
		for i, opponent := range opponents {
			game := hockey.Game{
				GameDate: time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i).Format(hockey.DateLayout),
				Team:     team,
				Opponent: opponent,
			}
			for _, e := range seedGame(rng, cfg.HomeTeam, game, players, i%2 == 0) {
				events[e.Kind()] = append(events[e.Kind()], e)
			}
		}
	}
	wb.SetTable(hockey.SheetRoster, roster)
	for _, kind := range hockey.Kinds {
		t := hockey.Table{Columns: kind.Columns()}
		for _, e := range events[kind] {
			t.Rows = append(t.Rows, e.Record())
		}
		wb.SetTable(kind.Sheet(), t)
		log.Info("Prepared sheet", "sheet", kind.Sheet(), "rows", len(t.Rows))
	}

	body, err := wb.Encode()
	if err != nil {
		log.Fatalf("Failed to encode workbook: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.S3.Timeout)
	defer cancel()
	objects, err := sheet.NewS3Store(ctx, sheet.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize S3: %s", err)
	}

	opts := sheet.PutOptions{ContentType: sheet.ContentTypeXLSX}
	if os.Getenv("SEED_OVERWRITE") != "true" {
		opts.IfNoneMatch = "*"
	}
	etag, err := objects.Put(ctx, cfg.S3.WorkbookKey, body, opts)
	if err != nil {
		log.Fatalf("Failed to upload workbook (set SEED_OVERWRITE=true to replace an existing one): %s", err)
	}
	log.Info("Successfully seeded workbook", "bucket", cfg.S3.Bucket, "key", cfg.S3.WorkbookKey, "etag", etag)
}

func seedRoster(rng *rand.Rand, team string) []hockey.RosterEntry {
	used := make(map[int]bool)
	var out []hockey.RosterEntry
	for i, pos := range append(positions, positions...) {
		jersey := 1 + rng.Intn(98)
		for used[jersey] {
			jersey = 1 + rng.Intn(98)
		}
		used[jersey] = true
		out = append(out, hockey.RosterEntry{
			Team:         team,
			JerseyNumber: jersey,
			FirstName:    firstNames[(i+len(team))%len(firstNames)],
			LastName:     lastNames[i%len(lastNames)],
			Position:     pos,
		})
	}
	return out
}

// seedGame fabricates a plausible game. Scoring rows carry the running score.
func seedGame(rng *rand.Rand, homeSide string, g hockey.Game, players []hockey.RosterEntry, home bool) []hockey.Event {
	var skaters, goalies []hockey.RosterEntry
	for _, p := range players {
		if p.Position == "G" {
			goalies = append(goalies, p)
		} else {
			skaters = append(skaters, p)
		}
	}
	pick := func() hockey.RosterEntry { return skaters[rng.Intn(len(skaters))] }

	goalsFor, goalsAgainst := rng.Intn(6), rng.Intn(5)
	win := goalsFor > goalsAgainst
	var out []hockey.Event
	var scoreFor, scoreAgainst int
	for n := 0; n < goalsFor+goalsAgainst; n++ {
		period := hockey.Periods[rng.Intn(3)]
		scorer := pick()
		e := hockey.ScoringEvent{Game: g, Home: home, Win: win, Period: period, ScoringTeam: homeSide, JerseyNumber: scorer.JerseyNumber}
		if n < goalsFor {
			scoreFor++
			if a := pick(); a.JerseyNumber != scorer.JerseyNumber {
				e.Assistant1 = &a.JerseyNumber
			}
		} else {
			scoreAgainst++
			e.ScoringTeam = g.Opponent
			e.JerseyNumber = 1 + rng.Intn(98)
		}
		e.ScoreFor, e.ScoreAgainst = scoreFor, scoreAgainst
		out = append(out, e)
	}

	for _, period := range hockey.Periods[:3] {
		for n := 0; n < 6+rng.Intn(8); n++ {
			shooter := pick()
			out = append(out, hockey.ShotEvent{
				Game: g, Period: period, JerseyNumber: shooter.JerseyNumber, ShootingTeam: homeSide,
				ShootZone: hockey.ShootZones[rng.Intn(len(hockey.ShootZones))], IsPowerplay: rng.Intn(5) == 0,
			})
		}
		for n := 0; n < 5+rng.Intn(8); n++ {
			out = append(out, hockey.ShotEvent{
				Game: g, Period: period, JerseyNumber: 1 + rng.Intn(98), ShootingTeam: g.Opponent,
				ShootZone: hockey.ShootZones[rng.Intn(len(hockey.ShootZones))],
			})
		}
		for n := 0; n < rng.Intn(3); n++ {
			team, jersey := homeSide, pick().JerseyNumber
			if rng.Intn(2) == 0 {
				team, jersey = g.Opponent, 1+rng.Intn(98)
			}
			out = append(out, hockey.PenaltyEvent{
				Game: g, Period: period, JerseyNumber: jersey, PenaltyTeam: team,
				PenaltyCode: penalties[rng.Intn(len(penalties))], PenaltyMins: 2,
			})
		}
		center := pick()
		out = append(out, hockey.FaceoffEvent{Game: g, Period: period, JerseyNumber: center.JerseyNumber, Win: rng.Intn(10), Lose: rng.Intn(10)})
		if len(goalies) > 0 {
			against := 5 + rng.Intn(10)
			conceded := min(against, goalsAgainst/3+rng.Intn(2))
			out = append(out, hockey.GoalieEvent{
				Game: g, Period: period, JerseyNumber: goalies[0].JerseyNumber,
				ShotsAgainst: against, Saves: against - conceded, GoalsAgainst: conceded,
			})
		}
	}
	return out
}
