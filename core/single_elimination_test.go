package core

import (
	"testing"
)

func TestSingleEliminationEight(t *testing.T) {
	b, err := Generate(testTeams(8), Config{Format: FormatSingleElimination})
	if err != nil {
		t.Fatal(err)
	}
	se := b.(*SingleElimination)

	if len(se.Rounds) != 3 {
		t.Fatalf("got %d rounds, want 3", len(se.Rounds))
	}
	if len(b.refs()) != 7 {
		t.Fatalf("got %d games, want 7", len(b.refs()))
	}

	wantFirstRound := [][2]TeamID{
		{"T1", "T8"},
		{"T4", "T5"},
		{"T3", "T6"},
		{"T2", "T7"},
	}
	for i, want := range wantFirstRound {
		g := &se.Rounds[0][i]
		if g.SlotA.Team != want[0] || g.SlotB.Team != want[1] {
			t.Errorf("first round game %d pairs %s vs. %s, want %s vs. %s",
				i+1, g.SlotA.Team, g.SlotB.Team, want[0], want[1])
		}
	}

	e := testEngine()

	b, signal := submit(t, e, b, "R1M1", "T1")
	if signal != Continue {
		t.Fatalf("signal after one game is %v, want continue", signal)
	}
	b, _ = submit(t, e, b, "R1M2", "T4")
	b, _ = submit(t, e, b, "R1M3", "T3")
	b, signal = submit(t, e, b, "R1M4", "T2")
	if signal != RoundComplete {
		t.Fatalf("signal after last first-round game is %v, want round complete", signal)
	}

	// Winners feed the semi slots by index arithmetic.
	semi := b.(*SingleElimination).Rounds[1][0]
	if semi.SlotA.Team != "T1" || semi.SlotB.Team != "T4" {
		t.Fatalf("first semi pairs %s vs. %s, want T1 vs. T4", semi.SlotA.Team, semi.SlotB.Team)
	}

	b, _ = submit(t, e, b, "R2M1", "T1")
	b, _ = submit(t, e, b, "R2M2", "T2")
	b, signal = submit(t, e, b, "R3M1", "T1")
	if signal != Finished {
		t.Fatalf("signal after final is %v, want finished", signal)
	}

	champion, ok := b.Champion()
	if !ok || champion != "T1" {
		t.Fatalf("champion is %q, want T1", champion)
	}
}

func TestSingleEliminationByes(t *testing.T) {
	b, err := Generate(testTeams(6), Config{Format: FormatSingleElimination})
	if err != nil {
		t.Fatal(err)
	}
	se := b.(*SingleElimination)

	// Six teams pad to an eight bracket; the two byes fall to
	// the top two seeds and resolve immediately.
	byes := se.Rounds[0]
	if !byes[0].Final || byes[0].Winner != "T1" {
		t.Fatalf("top seed bye did not resolve: %+v", byes[0])
	}
	if !byes[3].Final || byes[3].Winner != "T2" {
		t.Fatalf("second seed bye did not resolve: %+v", byes[3])
	}

	if got := se.Rounds[1][0].SlotA.Team; got != "T1" {
		t.Fatalf("semi slot holds %q before any result, want T1", got)
	}

	b, played := playOut(t, testEngine(), b)
	if played != 5 {
		t.Fatalf("played %d games, want 5", played)
	}
	if champion, _ := b.Champion(); champion != "T1" {
		t.Fatalf("champion is %q, want T1", champion)
	}
}

func TestSingleEliminationThirdPlace(t *testing.T) {
	b, err := Generate(testTeams(4), Config{Format: FormatSingleElimination, ThirdPlace: true})
	if err != nil {
		t.Fatal(err)
	}

	e := testEngine()
	b, _ = submit(t, e, b, "R1M1", "T1")
	b, _ = submit(t, e, b, "R1M2", "T2")

	tp := b.(*SingleElimination).ThirdPlace
	if tp.SlotA.Team != "T4" || tp.SlotB.Team != "T3" {
		t.Fatalf("third place pairs %s vs. %s, want the semi losers T4 vs. T3", tp.SlotA.Team, tp.SlotB.Team)
	}

	b, signal := submit(t, e, b, "R2M1", "T1")
	if signal == Finished {
		t.Fatal("finished before the third place game")
	}
	if b.Complete() {
		t.Fatal("complete before the third place game")
	}

	b, signal = submit(t, e, b, "TP", "T3")
	if signal != Finished {
		t.Fatalf("signal after third place is %v, want finished", signal)
	}
	if !b.Complete() {
		t.Fatal("not complete after all games")
	}
}

func TestSingleEliminationTooFewTeams(t *testing.T) {
	_, err := Generate(testTeams(1), Config{Format: FormatSingleElimination})
	if err == nil {
		t.Fatal("single team accepted")
	}
}
