package core

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// testTeams builds n approved entries T1..Tn seeded 1..n.
func testTeams(n int) []TeamEntry {
	teams := make([]TeamEntry, n)
	for i := range teams {
		teams[i] = TeamEntry{
			ID:          TeamID(fmt.Sprintf("T%d", i+1)),
			DisplayName: fmt.Sprintf("Team %d", i+1),
			Seed:        i + 1,
			Status:      EntryApproved,
		}
	}
	return teams
}

func testEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

// submit plays one game to a 2:0 result for the given winner and
// returns the advanced bracket.
func submit(t *testing.T, e *Engine, b Bracket, id GameID, winner TeamID) (Bracket, Signal) {
	t.Helper()

	ref, ok := b.Find(id)
	if !ok {
		t.Fatalf("game %s not found", id)
	}
	g := b.game(ref)

	scoreA, scoreB := 2, 0
	if g.SlotB.Team == winner {
		scoreA, scoreB = 0, 2
	}

	next, signal, err := e.Advance(b, GameResult{
		GameID: id,
		Winner: winner,
		ScoreA: scoreA,
		ScoreB: scoreB,
		Final:  true,
	})
	if err != nil {
		t.Fatalf("advance %s: %v", id, err)
	}
	return next, signal
}

// playOut repeatedly finishes the first pending game, awarding
// the win to the team with the lower number, until the bracket
// completes. It returns the final bracket and how many results
// were submitted.
func playOut(t *testing.T, e *Engine, b Bracket) (Bracket, int) {
	t.Helper()

	played := 0
	for !b.Complete() {
		ref, ok := firstPending(b)
		if !ok {
			t.Fatalf("bracket not complete but no pending game, after %d results", played)
		}
		g := b.game(ref)
		b, _ = submit(t, e, b, g.ID, favourite(g.SlotA.Team, g.SlotB.Team))
		played++
	}
	return b, played
}

func firstPending(b Bracket) (GameRef, bool) {
	for _, ref := range b.refs() {
		g := b.game(ref)
		if !g.Final && g.Ready() {
			return ref, true
		}
	}
	return GameRef{}, false
}

// favourite picks the team with the lower number from two ids of
// the T<n> shape.
func favourite(a, b TeamID) TeamID {
	if teamNum(a) < teamNum(b) {
		return a
	}
	return b
}

func teamNum(id TeamID) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(string(id), "T"))
	return n
}
