package core

import (
	"testing"
)

func finalGame(a, b TeamID, scoreA, scoreB int) Game {
	g := Game{
		SlotA:  TeamSlot(a),
		SlotB:  TeamSlot(b),
		ScoreA: scoreA,
		ScoreB: scoreB,
		Final:  true,
	}
	switch {
	case scoreA > scoreB:
		g.Winner = a
	case scoreB > scoreA:
		g.Winner = b
	default:
		g.Draw = true
	}
	return g
}

func rankedIDs(ranked []RankedTeam) []TeamID {
	ids := make([]TeamID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Team
	}
	return ids
}

func TestRankByWinPercentage(t *testing.T) {
	teams := testTeams(3)
	games := []Game{
		finalGame("T1", "T2", 2, 0),
		finalGame("T1", "T3", 2, 0),
		finalGame("T2", "T3", 2, 0),
	}

	ranked := Rank(teams, games, nil)
	want := []TeamID{"T1", "T2", "T3"}
	for i, id := range want {
		if ranked[i].Team != id || ranked[i].Rank != i+1 {
			t.Fatalf("standings are %v, want %v", rankedIDs(ranked), want)
		}
	}
	if ranked[0].Wins != 2 || ranked[2].Losses != 2 {
		t.Fatalf("records not tallied: %+v", ranked)
	}
}

func TestRankHeadToHeadBeforePointDiff(t *testing.T) {
	// T2 and T3 are tied on record; T3 won the direct meeting
	// but T2 has the far better point differential. Head to
	// head precedes point difference in the default order.
	teams := testTeams(4)
	games := []Game{
		finalGame("T1", "T2", 2, 0),
		finalGame("T1", "T3", 2, 0),
		finalGame("T3", "T2", 2, 1),
		finalGame("T2", "T4", 30, 0),
		finalGame("T4", "T3", 2, 1),
	}

	ranked := Rank(teams, games, nil)
	got := rankedIDs(ranked)
	want := []TeamID{"T1", "T4", "T3", "T2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("standings are %v, want %v", got, want)
		}
	}
}

func TestRankPointDiffFallback(t *testing.T) {
	// With an even direct record the point differential across
	// all games settles the tie.
	teams := testTeams(2)
	games := []Game{
		finalGame("T1", "T2", 1, 1),
		finalGame("T1", "T2", 5, 0),
		finalGame("T2", "T1", 10, 0),
	}

	ranked := Rank(teams, games, []TieBreak{TieBreakPointDiff, TieBreakSeed})
	if ranked[0].Team != "T2" {
		t.Fatalf("standings are %v, want T2 first on point diff", rankedIDs(ranked))
	}
}

func TestRankSeedIsDeterministicLastResort(t *testing.T) {
	teams := testTeams(4)

	// No games at all: everything is tied, the seed decides.
	ranked := Rank(teams, nil, nil)
	want := []TeamID{"T1", "T2", "T3", "T4"}
	got := rankedIDs(ranked)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("standings are %v, want seed order %v", got, want)
		}
	}

	// Unseeded teams fall back to the id, still deterministic.
	for i := range teams {
		teams[i].Seed = 0
	}
	first := rankedIDs(Rank(teams, nil, nil))
	for n := 0; n < 5; n++ {
		if again := rankedIDs(Rank(teams, nil, nil)); !equalIDs(first, again) {
			t.Fatalf("unstable order: %v then %v", first, again)
		}
	}
}

func equalIDs(a, b []TeamID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankCountsDrawsAsHalfWins(t *testing.T) {
	teams := testTeams(2)
	games := []Game{
		finalGame("T1", "T2", 1, 1),
	}

	ranked := Rank(teams, games, nil)
	if ranked[0].Draws != 1 || ranked[1].Draws != 1 {
		t.Fatalf("draw not tallied: %+v", ranked)
	}
	if ranked[0].Wins != 0 {
		t.Fatalf("draw counted as a win: %+v", ranked[0])
	}
}
