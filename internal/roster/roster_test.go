package roster_test

import (
	"testing"

	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() []hockey.RosterEntry {
	return []hockey.RosterEntry{
		{Team: "Varsity", JerseyNumber: 17, FirstName: "Connor", LastName: "Walsh", Position: "C"},
		{Team: "Varsity", JerseyNumber: 9, FirstName: "Ethan", LastName: "Park", Position: "LW"},
		{Team: "Varsity", JerseyNumber: 30, FirstName: "Liam", LastName: "Brooks", Position: "G"},
		{Team: "JV", JerseyNumber: 17, FirstName: "Noah", LastName: "Kim", Position: "D"},
	}
}

func game(opponent string) hockey.Game {
	return hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: opponent}
}

func TestJoinShotsKeepsEveryRow(t *testing.T) {
	j := roster.NewJoiner(roster.NewIndex(testRoster()), "Stevenson")
	shots := []hockey.ShotEvent{
		{Game: game("York"), JerseyNumber: 17, ShootingTeam: "Stevenson", ShootZone: "Slot"},
		{Game: game("York"), JerseyNumber: 88, ShootingTeam: "Stevenson", ShootZone: "Boards"},
		{Game: game("York"), JerseyNumber: 17, ShootingTeam: "York", ShootZone: "Slot"},
	}

	out := j.Shots(shots)

	require.Len(t, out, len(shots), "left join must not drop or duplicate rows")
	require.NotNil(t, out[0].Player)
	assert.Equal(t, "Walsh", out[0].Player.LastName)
	assert.Equal(t, "C", out[0].Player.Position)
	assert.Nil(t, out[1].Player, "unknown jersey keeps a null identity")
	assert.Nil(t, out[2].Player, "opponent rows pass through unenriched")
}

func TestJoinScoringKeysOnScorer(t *testing.T) {
	j := roster.NewJoiner(roster.NewIndex(testRoster()), "Stevenson")
	goals := []hockey.ScoringEvent{
		{Game: game("Carmel"), JerseyNumber: 9, ScoringTeam: "Stevenson"},
		{Game: hockey.Game{GameDate: "2024-12-01", Team: "JV", Opponent: "Carmel"}, JerseyNumber: 17, ScoringTeam: "Stevenson"},
	}

	out := j.Scoring(goals)
	require.Len(t, out, 2)
	assert.Equal(t, "Park, Ethan", out[0].Player.DisplayName())
	assert.Equal(t, "Kim", out[1].Player.LastName, "join is keyed on team as well as jersey")
}

func TestDuplicateRosterKeyDoesNotDuplicateRows(t *testing.T) {
	entries := append(testRoster(), hockey.RosterEntry{Team: "Varsity", JerseyNumber: 17, FirstName: "Dup", LastName: "Licate"})
	j := roster.NewJoiner(roster.NewIndex(entries), "Stevenson")

	out := j.Faceoffs([]hockey.FaceoffEvent{{Game: game("York"), JerseyNumber: 17, Win: 7, Lose: 3}})
	require.Len(t, out, 1)
	assert.Equal(t, "Walsh", out[0].Player.LastName)
}

func TestTeamsAndPlayers(t *testing.T) {
	ix := roster.NewIndex(testRoster())
	assert.Equal(t, []string{"JV", "Varsity"}, ix.Teams())

	players := ix.Players("Varsity")
	require.Len(t, players, 3)
	assert.Equal(t, 9, players[0].JerseyNumber)
	assert.Equal(t, 30, players[2].JerseyNumber)
}

func TestSearch(t *testing.T) {
	ix := roster.NewIndex(testRoster())

	got := ix.Search("Varsity", "walsh")
	require.NotEmpty(t, got)
	assert.Equal(t, 17, got[0].JerseyNumber)

	got = ix.Search("Varsity", "Ethan Park")
	require.NotEmpty(t, got)
	assert.Equal(t, "Park", got[0].LastName)

	assert.Empty(t, ix.Search("Varsity", "zzz"))
	assert.Empty(t, ix.Search("Varsity", "  "))
}
