package roster

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mauv0809/rinkstats/internal/hockey"
)

// Teams lists the distinct teams on the roster, sorted.
func (ix *Index) Teams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, e := range ix.entries {
		if e.Team == "" || seen[e.Team] {
			continue
		}
		seen[e.Team] = true
		teams = append(teams, e.Team)
	}
	sort.Strings(teams)
	return teams
}

// Players returns a team's roster ordered by jersey number.
func (ix *Index) Players(team string) []hockey.RosterEntry {
	var out []hockey.RosterEntry
	for _, e := range ix.entries {
		if e.Team == team {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].JerseyNumber < out[j].JerseyNumber
	})
	return out
}

// Search finds players of a team whose name fuzzily matches query. Both
// "Last, First" and "First Last" spellings are tried; best matches come first.
func (ix *Index) Search(team, query string) []hockey.RosterEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	players := ix.Players(team)
	if team == "" {
		players = ix.entries
	}

	best := make(map[int]int)
	rank := func(targets []string) {
		for _, r := range fuzzy.RankFindNormalizedFold(query, targets) {
			if d, ok := best[r.OriginalIndex]; !ok || r.Distance < d {
				best[r.OriginalIndex] = r.Distance
			}
		}
	}
	lastFirst := make([]string, len(players))
	firstLast := make([]string, len(players))
	for i, p := range players {
		lastFirst[i] = p.DisplayName()
		firstLast[i] = p.FirstName + " " + p.LastName
	}
	rank(lastFirst)
	rank(firstLast)

	idx := make([]int, 0, len(best))
	for i := range best {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		if best[idx[a]] != best[idx[b]] {
			return best[idx[a]] < best[idx[b]]
		}
		return players[idx[a]].JerseyNumber < players[idx[b]].JerseyNumber
	})

	out := make([]hockey.RosterEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, players[i])
	}
	return out
}
